package config

import (
	"fmt"
)

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

// BuildEffectiveConfig overlays the merged raw document onto the defaults.
func BuildEffectiveConfig(raw RawConfig) *Config {
	cfg := DefaultConfig()

	if raw.Launcher != nil {
		if raw.Launcher.Terminal != nil {
			cfg.Launcher.Terminal = *raw.Launcher.Terminal
		}
		if raw.Launcher.SpawnCommand != nil {
			cfg.Launcher.SpawnCommand = *raw.Launcher.SpawnCommand
		}
		if raw.Launcher.WidthPercent != nil {
			cfg.Launcher.WidthPercent = *raw.Launcher.WidthPercent
		}
		if raw.Launcher.HeightPercent != nil {
			cfg.Launcher.HeightPercent = *raw.Launcher.HeightPercent
		}
		if raw.Launcher.Anchor != nil {
			cfg.Launcher.Anchor = *raw.Launcher.Anchor
		}
	}

	if raw.TerminalClasses != nil {
		cfg.TerminalClasses = raw.TerminalClasses
	}

	if raw.TerminalSpawnCommands != nil {
		if cfg.TerminalSpawnCommands == nil {
			cfg.TerminalSpawnCommands = make(map[string]string, len(raw.TerminalSpawnCommands))
		}
		for class, cmd := range raw.TerminalSpawnCommands {
			cfg.TerminalSpawnCommands[class] = cmd
		}
	}

	if raw.Search != nil {
		if raw.Search.Roots != nil {
			cfg.Search.Roots = append([]string(nil), raw.Search.Roots...)
		}
		if raw.Search.IndexPath != nil {
			cfg.Search.IndexPath = *raw.Search.IndexPath
		}
		if raw.Search.Limit != nil {
			cfg.Search.Limit = *raw.Search.Limit
		}
		if raw.Search.ReindexInterval != nil {
			cfg.Search.ReindexInterval = *raw.Search.ReindexInterval
		}
	}

	if raw.Interpret != nil {
		if raw.Interpret.Endpoint != nil {
			cfg.Interpret.Endpoint = *raw.Interpret.Endpoint
		}
		if raw.Interpret.Model != nil {
			cfg.Interpret.Model = *raw.Interpret.Model
		}
	}

	if raw.Menu != nil {
		if raw.Menu.Backend != nil {
			cfg.Menu.Backend = *raw.Menu.Backend
		}
	}

	if raw.Display != nil {
		cfg.Display = *raw.Display
	}
	if raw.XAuthority != nil {
		cfg.XAuthority = *raw.XAuthority
	}

	if raw.Logging != nil {
		if raw.Logging.Level != nil {
			cfg.Logging.Level = *raw.Logging.Level
		}
	}

	return cfg
}
