package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/1broseidon/quicklaunch/internal/config"
)

func runInit(args []string) int {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: quicklaunch init")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Interactive setup: pick a terminal, search roots, and menu backend,")
		fmt.Fprintln(os.Stderr, "then write the config file.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "init takes no arguments")
		fs.Usage()
		return 2
	}

	cfg := config.DefaultConfig()
	detected := config.DetectTerminals(cfg)

	terminalOpts := []huh.Option[string]{huh.NewOption("(auto-detect)", "")}
	terminal := ""
	for _, d := range detected {
		terminalOpts = append(terminalOpts, huh.NewOption(fmt.Sprintf("%s (%s)", d.Class, d.Path), d.Class))
		if d.Preferred {
			terminal = d.Class
		}
	}

	menuOpts := []huh.Option[string]{
		huh.NewOption("auto", "auto"),
		huh.NewOption("rofi", "rofi"),
		huh.NewOption("fuzzel", "fuzzel"),
		huh.NewOption("wofi", "wofi"),
		huh.NewOption("dmenu", "dmenu"),
	}

	roots := strings.Join(cfg.Search.Roots, ", ")
	menuBackend := cfg.Menu.Backend
	endpoint := ""
	model := ""

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("terminal").
				Title("Terminal").
				Description("Terminal emulator that hosts the launcher window").
				Options(terminalOpts...).
				Value(&terminal),

			huh.NewInput().
				Key("roots").
				Title("Search Roots").
				Description("Comma-separated directories to index").
				Validate(func(s string) error {
					if len(splitRoots(s)) == 0 {
						return fmt.Errorf("at least one directory is required")
					}
					return nil
				}).
				Value(&roots),

			huh.NewSelect[string]().
				Key("menu_backend").
				Title("Menu Backend").
				Description("Program used by 'quicklaunch menu'").
				Options(menuOpts...).
				Value(&menuBackend),
		),
		huh.NewGroup(
			huh.NewInput().
				Key("interpret_endpoint").
				Title("LLM Endpoint").
				Description("Ollama-compatible base URL; leave empty to disable").
				Value(&endpoint),

			huh.NewInput().
				Key("interpret_model").
				Title("LLM Model").
				Description("Model name for query rewriting; leave empty to disable").
				Value(&model),
		),
	).WithShowHelp(true).WithShowErrors(true)

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return 0
		}
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	cfg.Launcher.Terminal = terminal
	cfg.Search.Roots = splitRoots(roots)
	cfg.Menu.Backend = menuBackend
	cfg.Interpret.Endpoint = strings.TrimSpace(endpoint)
	cfg.Interpret.Model = strings.TrimSpace(model)

	if err := cfg.Save(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	path, err := config.DefaultConfigPath()
	if err == nil {
		fmt.Printf("Wrote %s\n", path)
	}
	return 0
}

func splitRoots(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
