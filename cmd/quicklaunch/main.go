package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/quicklaunch/internal/config"
	"github.com/1broseidon/quicklaunch/internal/daemon"
	"github.com/1broseidon/quicklaunch/internal/hotkeys"
	"github.com/1broseidon/quicklaunch/internal/interpret"
	"github.com/1broseidon/quicklaunch/internal/platform"
	"github.com/1broseidon/quicklaunch/internal/search"
	"github.com/1broseidon/quicklaunch/internal/ui"
	"github.com/1broseidon/quicklaunch/internal/visibility"
)

var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "daemon":
		if len(os.Args) > 2 && (os.Args[2] == "help" || os.Args[2] == "-h" || os.Args[2] == "--help") {
			fmt.Fprintln(os.Stdout, "Usage: quicklaunch daemon")
			os.Exit(0)
		}
		if len(os.Args) > 2 {
			fmt.Fprintln(os.Stderr, "daemon takes no arguments")
			fmt.Fprintln(os.Stderr, "")
			fmt.Fprintln(os.Stderr, "Usage: quicklaunch daemon")
			os.Exit(2)
		}
		runDaemon()
	case "ui":
		os.Exit(runUI(os.Args[2:]))
	case "menu":
		os.Exit(runMenu(os.Args[2:]))
	case "search":
		os.Exit(runSearch(os.Args[2:]))
	case "index":
		os.Exit(runIndex(os.Args[2:]))
	case "init":
		os.Exit(runInit(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "version", "-v", "--version":
		fmt.Printf("quicklaunch %s\n", version)
		os.Exit(0)
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: quicklaunch <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  daemon              Start the quicklaunch daemon (foreground)")
	fmt.Fprintln(w, "  ui                  Run the launcher TUI (inside a terminal)")
	fmt.Fprintln(w, "  menu                One-shot search menu via rofi/fuzzel/wofi/dmenu")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  search <query>      Search the index and print matches")
	fmt.Fprintln(w, "  index               Rebuild the file index now")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  init                Interactive setup, writes the config file")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config explain      Explain a config value")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  version             Print version")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'quicklaunch <command> --help' for command-specific options.")
}

func runDaemon() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	log.Printf("Configuration loaded (roots: %d, reindex: %s)", len(cfg.Search.Roots), cfg.ReindexEvery())

	if cfg.XAuthority != "" {
		os.Setenv("XAUTHORITY", cfg.XAuthority)
	}

	// Connect to display server
	backend, err := platform.NewLinuxBackendFromDisplay(cfg.Display, cfg.Launcher)
	if err != nil {
		log.Fatalf("Failed to connect to display: %v", err)
	}
	defer backend.Disconnect()

	log.Println("quicklaunch daemon started successfully")

	// Spawn the launcher terminal unless a window already exists (the user
	// may run the UI in a terminal of their own).
	if _, err := backend.LookupWindow(visibility.WindowClass); errors.Is(err, platform.ErrWindowNotFound) {
		terminal, spawnErr := daemon.SpawnTerminal(cfg, visibility.WindowClass, uiCommand())
		if spawnErr != nil {
			log.Printf("Warning: Failed to spawn launcher terminal: %v", spawnErr)
		} else {
			log.Printf("Launcher terminal spawned: %s", terminal)
			if !daemon.WaitForWindow(backend, visibility.WindowClass, 5*time.Second) {
				log.Printf("Warning: launcher window %q did not appear within 5s", visibility.WindowClass)
			}
		}
	} else if err != nil {
		log.Printf("Warning: launcher window lookup failed: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slogLevel(cfg.Logging.Level),
	}))

	// Hide the launcher window before the hotkey goes live.
	toggler := visibility.NewToggler(backend, logger)
	toggler.HideAtStartup()

	// Setup hotkey handler
	hotkeyHandler := hotkeys.NewHandler(backend)
	if err := hotkeyHandler.Register(visibility.ToggleCombo, toggler.Toggle); err != nil {
		log.Fatalf("Failed to register hotkey %q: %v", visibility.ToggleCombo, err)
	}
	log.Printf("Toggle hotkey registered: %s", visibility.ToggleCombo)

	// Start the background indexer
	var indexer *daemon.Indexer
	indexerCtx, indexerCancel := context.WithCancel(context.Background())
	defer indexerCancel()

	roots, err := cfg.SearchRoots()
	if err != nil {
		log.Printf("Warning: Failed to resolve search roots: %v", err)
	}
	indexPath, err := cfg.ResolveIndexPath()
	if err != nil {
		log.Printf("Warning: Failed to resolve index path, indexing disabled: %v", err)
	} else {
		indexer = daemon.NewIndexer(daemon.IndexerConfig{
			Roots:     roots,
			IndexPath: indexPath,
			Interval:  cfg.ReindexEvery(),
			Logger:    logger,
		})
		go indexer.Run(indexerCtx)
	}

	// Setup signal handlers
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)

	go func() {
		for sig := range sigCh {
			switch sig {
			case syscall.SIGHUP:
				log.Println("Received SIGHUP, reloading config...")
				newCfg, err := config.Load()
				if err != nil {
					log.Printf("Config reload failed: %v", err)
					continue
				}

				if indexer != nil {
					newRoots, err := newCfg.SearchRoots()
					if err != nil {
						log.Printf("Config reload: failed to resolve search roots: %v", err)
						continue
					}
					newIndexPath, err := newCfg.ResolveIndexPath()
					if err != nil {
						newIndexPath = ""
					}
					indexer.UpdateConfig(newRoots, newIndexPath, newCfg.ReindexEvery())
					indexer.RebuildNow()
				}

				log.Println("Config reloaded successfully")

			case os.Interrupt, syscall.SIGTERM:
				log.Println("Shutting down quicklaunch daemon...")
				indexerCancel()
				backend.Quit()
				os.Exit(0)
			}
		}
	}()

	// Start event loop (blocking)
	log.Println("Entering event loop...")
	backend.EventLoop()
}

// uiCommand builds the {{cmd}} value for the spawn template: this binary's
// own ui subcommand.
func uiCommand() string {
	exe, err := os.Executable()
	if err != nil {
		exe = "quicklaunch"
	}
	return exe + " ui"
}

func slogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func runUI(args []string) int {
	fs := flag.NewFlagSet("ui", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/quicklaunch/config.yaml)")

	if len(args) > 0 && (args[0] == "help" || args[0] == "-h" || args[0] == "--help") {
		fmt.Fprintln(os.Stderr, "Usage: quicklaunch ui [--path PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Run the launcher TUI. The daemon spawns this inside a terminal;")
		fmt.Fprintln(os.Stderr, "running it by hand works too.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Keybindings:")
		fmt.Fprintln(os.Stderr, "  type       Search the index")
		fmt.Fprintln(os.Stderr, "  ↑/↓        Navigate results")
		fmt.Fprintln(os.Stderr, "  Enter      Open selection")
		fmt.Fprintln(os.Stderr, "  Esc        Quit")
		fmt.Fprintln(os.Stderr, "  Ctrl+C     Quit")
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

	var interpreter *interpret.Client
	if res.Config.InterpretEnabled() {
		interpreter = interpret.NewClient(res.Config.Interpret.Endpoint, res.Config.Interpret.Model)
	}

	if err := ui.Run(ui.Options{
		Index:       loadIndex(res.Config),
		Limit:       res.Config.SearchLimit(),
		Interpreter: interpreter,
	}); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runSearch(args []string) int {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/quicklaunch/config.yaml)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: quicklaunch search [--path PATH] <query>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Search the file index and print matches.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "search requires <query>")
		fs.Usage()
		return 2
	}
	query := strings.Join(fs.Args(), " ")

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

	idx := loadIndex(res.Config)
	if idx == nil {
		fmt.Println(search.FormatResult(search.StubResult(query)))
		return 0
	}

	results := idx.Search(query, res.Config.SearchLimit())
	if len(results) == 0 {
		fmt.Println("No matches.")
		return 0
	}
	for _, r := range results {
		fmt.Println(search.FormatResult(r))
	}
	return 0
}

func runIndex(args []string) int {
	fs := flag.NewFlagSet("index", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/quicklaunch/config.yaml)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: quicklaunch index [--path PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Rebuild the file index from the configured search roots.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "index takes no arguments")
		fs.Usage()
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

	roots, err := res.Config.SearchRoots()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	indexPath, err := res.Config.ResolveIndexPath()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	idx, err := search.Build(roots)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if err := idx.Save(indexPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("indexed %d entries -> %s\n", idx.Len(), indexPath)
	return 0
}

// loadIndex reads the saved index, returning nil when none exists yet so
// callers fall back to the stub result.
func loadIndex(cfg *config.Config) *search.Index {
	indexPath, err := cfg.ResolveIndexPath()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return nil
	}
	idx, err := search.Load(indexPath)
	if err != nil {
		if !errors.Is(err, search.ErrNoIndex) {
			fmt.Fprintln(os.Stderr, err)
		}
		return nil
	}
	return idx
}

func runConfig(args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  quicklaunch config validate [--path PATH]")
		fmt.Fprintln(os.Stderr, "  quicklaunch config print [--path PATH] [--effective|--defaults]")
		fmt.Fprintln(os.Stderr, "  quicklaunch config explain [--path PATH] <yaml.path>")
		return 2
	}

	switch args[0] {
	case "validate":
		fs := flag.NewFlagSet("validate", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/quicklaunch/config.yaml)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}

		var err error
		if *path == "" {
			_, err = config.LoadWithSources()
		} else {
			_, err = config.LoadFromPath(*path)
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println("config: ok")
		return 0

	case "print":
		fs := flag.NewFlagSet("print", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/quicklaunch/config.yaml)")
		printDefaults := fs.Bool("defaults", false, "Print built-in defaults (no files)")
		printEffective := fs.Bool("effective", false, "Print effective config (default)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}

		if *printDefaults {
			cfg := config.DefaultConfig()
			if term := cfg.ResolveTerminal(); term != "" {
				fmt.Printf("# resolved_terminal: %s\n", term)
			}
			data, err := yaml.Marshal(cfg)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return 1
			}
			fmt.Print(string(data))
			return 0
		}

		_ = printEffective // default
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
		if term := res.Config.ResolveTerminal(); term != "" {
			fmt.Printf("# resolved_terminal: %s\n", term)
		}
		data, err := yaml.Marshal(res.Config)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Print(string(data))
		return 0

	case "explain":
		fs := flag.NewFlagSet("explain", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/quicklaunch/config.yaml)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		if fs.NArg() < 1 {
			fmt.Fprintln(os.Stderr, "explain requires <yaml.path>")
			return 2
		}
		queryPath := fs.Arg(0)

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

		value, src, err := config.Explain(res, queryPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}

		out, err := yaml.Marshal(value)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}

		fmt.Printf("path: %s\n", queryPath)
		fmt.Printf("source: %s\n", formatSource(src))
		fmt.Printf("value:\n%s", string(out))
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown config subcommand: %s\n", args[0])
		return 2
	}
}

func formatSource(src config.Source) string {
	switch src.Kind {
	case config.SourceFile:
		if src.File == "" {
			return "file"
		}
		if src.Line > 0 {
			return fmt.Sprintf("file:%s:%d:%d", src.File, src.Line, src.Column)
		}
		return "file:" + src.File
	case config.SourceDefault:
		if src.Name != "" {
			return "default:" + src.Name
		}
		return "default"
	default:
		return string(src.Kind)
	}
}
