package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/1broseidon/quicklaunch/internal/config"
	"github.com/1broseidon/quicklaunch/internal/launch"
	"github.com/1broseidon/quicklaunch/internal/menu"
	"github.com/1broseidon/quicklaunch/internal/search"
)

func runMenu(args []string) int {
	fs := flag.NewFlagSet("menu", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/quicklaunch/config.yaml)")

	if len(args) > 0 && (args[0] == "help" || args[0] == "-h" || args[0] == "--help") {
		fmt.Fprintln(os.Stderr, "Usage: quicklaunch menu [--path PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "One-shot search over the indexed files; typing filters the list.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Keybindings (rofi only):")
		fmt.Fprintln(os.Stderr, "  Enter       Open selection")
		fmt.Fprintln(os.Stderr, "  Alt+Enter   Reveal containing folder")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Backends: rofi, fuzzel, wofi, dmenu (configured via menu.backend, default: auto).")
		return 0
	}

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	var res *config.LoadResult
	var err error
	if *path == "" {
		res, err = config.LoadWithSources()
	} else {
		res, err = config.LoadFromPath(*path)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	backend, err := menu.NewBackend(res.Config.Menu.Backend)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	items := buildMenuItems(loadIndex(res.Config))

	caps := backend.Capabilities()
	message := ""
	if caps.CustomKeys && caps.MessageBar {
		message = "Alt+Enter: reveal in folder"
	}

	result, err := backend.Show("quicklaunch", items, message)
	if err != nil {
		if errors.Is(err, menu.ErrCancelled) {
			return 0
		}
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	// The stub row carries no path and selecting it does nothing.
	if result.Item.Path == "" {
		return 0
	}

	var openErr error
	switch result.ExitCode {
	case menu.ExitReveal:
		openErr = launch.Reveal(result.Item.Path)
	default:
		openErr = launch.Open(result.Item.Path)
	}
	if openErr != nil {
		fmt.Fprintln(os.Stderr, openErr)
		return 1
	}
	return 0
}

// buildMenuItems lists the whole index; the menu backend does the filtering.
func buildMenuItems(idx *search.Index) []menu.Item {
	if idx == nil || idx.Len() == 0 {
		return []menu.Item{{Label: "(no index yet; run 'quicklaunch index')"}}
	}
	results := make([]search.Result, 0, len(idx.Entries))
	for _, entry := range idx.Entries {
		results = append(results, search.Result{Entry: entry})
	}
	return menu.ItemsFromResults(results)
}
