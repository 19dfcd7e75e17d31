package config

import (
	"fmt"
	"strings"
)

// Explain returns the effective value at the given YAML-like path and its source.
//
// Supported paths include:
//
//	launcher.terminal
//	launcher.spawn_command
//	launcher.width_percent
//	launcher.height_percent
//	launcher.anchor
//	terminal
//	terminal_classes
//	terminal_spawn_commands
//	terminal_spawn_commands.<WM_CLASS>
//	search.roots
//	search.index_path
//	search.limit
//	search.reindex_interval
//	interpret.endpoint
//	interpret.model
//	menu.backend
//	display
//	xauthority
//	logging.level
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}

	// Exact-path file source wins.
	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}

	return value, Source{Kind: SourceDefault, Name: "defaults"}, nil
}

func lookupValue(cfg *Config, path string) (any, error) {
	parts := strings.Split(path, ".")
	switch parts[0] {
	case "launcher":
		if len(parts) == 1 {
			return cfg.Launcher, nil
		}
		if len(parts) != 2 {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		switch parts[1] {
		case "terminal":
			return cfg.Launcher.Terminal, nil
		case "spawn_command":
			return cfg.Launcher.SpawnCommand, nil
		case "width_percent":
			return cfg.Launcher.WidthPercent, nil
		case "height_percent":
			return cfg.Launcher.HeightPercent, nil
		case "anchor":
			return cfg.Launcher.Anchor, nil
		default:
			return nil, fmt.Errorf("unknown path: %s", path)
		}
	case "terminal":
		if len(parts) != 1 {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		return cfg.ResolveTerminal(), nil
	case "terminal_classes":
		if len(parts) != 1 {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		return cfg.TerminalClasses, nil
	case "terminal_spawn_commands":
		if len(parts) == 1 {
			return cfg.TerminalSpawnCommands, nil
		}
		if len(parts) != 2 {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		class := parts[1]
		cmd, ok := cfg.TerminalSpawnCommands[class]
		if !ok {
			return nil, fmt.Errorf("unknown terminal_spawn_commands entry %q", class)
		}
		return cmd, nil
	case "search":
		if len(parts) == 1 {
			return cfg.Search, nil
		}
		if len(parts) != 2 {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		switch parts[1] {
		case "roots":
			return cfg.Search.Roots, nil
		case "index_path":
			return cfg.Search.IndexPath, nil
		case "limit":
			return cfg.Search.Limit, nil
		case "reindex_interval":
			return cfg.Search.ReindexInterval, nil
		default:
			return nil, fmt.Errorf("unknown path: %s", path)
		}
	case "interpret":
		if len(parts) == 1 {
			return cfg.Interpret, nil
		}
		if len(parts) != 2 {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		switch parts[1] {
		case "endpoint":
			return cfg.Interpret.Endpoint, nil
		case "model":
			return cfg.Interpret.Model, nil
		default:
			return nil, fmt.Errorf("unknown path: %s", path)
		}
	case "menu":
		if len(parts) == 1 {
			return cfg.Menu, nil
		}
		if len(parts) == 2 && parts[1] == "backend" {
			return cfg.Menu.Backend, nil
		}
		return nil, fmt.Errorf("unknown path: %s", path)
	case "display":
		if len(parts) != 1 {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		return cfg.Display, nil
	case "xauthority":
		if len(parts) != 1 {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		return cfg.XAuthority, nil
	case "logging":
		if len(parts) == 1 {
			return cfg.Logging, nil
		}
		if len(parts) == 2 && parts[1] == "level" {
			return cfg.Logging.Level, nil
		}
		return nil, fmt.Errorf("unknown path: %s", path)
	default:
		return nil, fmt.Errorf("unknown path: %s", path)
	}
}
