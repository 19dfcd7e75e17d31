package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		// Not present.
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

// RootList supports either a single string or a list of strings for
// search.roots:
//
//	search:
//	  roots: ~/Downloads
//
// or:
//
//	search:
//	  roots:
//	    - ~/Downloads
//	    - ~/Documents
type RootList []string

func (l *RootList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		// Not present.
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("search.roots must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("search.roots entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("search.roots must be a string or list of strings")
	}
}

type RawLauncher struct {
	Terminal      *string `yaml:"terminal"`
	SpawnCommand  *string `yaml:"spawn_command"`
	WidthPercent  *int    `yaml:"width_percent"`
	HeightPercent *int    `yaml:"height_percent"`
	Anchor        *string `yaml:"anchor"`
}

type RawSearch struct {
	Roots           RootList `yaml:"roots"`
	IndexPath       *string  `yaml:"index_path"`
	Limit           *int     `yaml:"limit"`
	ReindexInterval *string  `yaml:"reindex_interval"`
}

type RawInterpret struct {
	Endpoint *string `yaml:"endpoint"`
	Model    *string `yaml:"model"`
}

type RawMenu struct {
	Backend *string `yaml:"backend"`
}

type RawLogging struct {
	Level *string `yaml:"level"`
}

type RawConfig struct {
	Include               IncludeList       `yaml:"include"`
	Launcher              *RawLauncher      `yaml:"launcher"`
	TerminalClasses       TerminalClassList `yaml:"terminal_classes"`
	TerminalSpawnCommands map[string]string `yaml:"terminal_spawn_commands"`
	Search                *RawSearch        `yaml:"search"`
	Interpret             *RawInterpret     `yaml:"interpret"`
	Menu                  *RawMenu          `yaml:"menu"`
	Display               *string           `yaml:"display"`
	XAuthority            *string           `yaml:"xauthority"`
	Logging               *RawLogging       `yaml:"logging"`
}

func (c RawConfig) merge(overlay RawConfig) RawConfig {
	out := c

	if overlay.Launcher != nil {
		if out.Launcher == nil {
			out.Launcher = &RawLauncher{}
		}
		merged := mergeRawLauncher(*out.Launcher, *overlay.Launcher)
		out.Launcher = &merged
	}

	if overlay.TerminalClasses != nil {
		out.TerminalClasses = overlay.TerminalClasses
	}

	if overlay.TerminalSpawnCommands != nil {
		if out.TerminalSpawnCommands == nil {
			out.TerminalSpawnCommands = make(map[string]string, len(overlay.TerminalSpawnCommands))
		}
		for class, cmd := range overlay.TerminalSpawnCommands {
			out.TerminalSpawnCommands[class] = cmd
		}
	}

	if overlay.Search != nil {
		if out.Search == nil {
			out.Search = &RawSearch{}
		}
		merged := mergeRawSearch(*out.Search, *overlay.Search)
		out.Search = &merged
	}

	if overlay.Interpret != nil {
		if out.Interpret == nil {
			out.Interpret = &RawInterpret{}
		}
		merged := mergeRawInterpret(*out.Interpret, *overlay.Interpret)
		out.Interpret = &merged
	}

	if overlay.Menu != nil {
		if out.Menu == nil {
			out.Menu = &RawMenu{}
		}
		if overlay.Menu.Backend != nil {
			out.Menu.Backend = overlay.Menu.Backend
		}
	}

	if overlay.Display != nil {
		out.Display = overlay.Display
	}
	if overlay.XAuthority != nil {
		out.XAuthority = overlay.XAuthority
	}

	if overlay.Logging != nil {
		if out.Logging == nil {
			out.Logging = &RawLogging{}
		}
		if overlay.Logging.Level != nil {
			out.Logging.Level = overlay.Logging.Level
		}
	}

	return out
}

func mergeRawLauncher(base RawLauncher, overlay RawLauncher) RawLauncher {
	out := base
	if overlay.Terminal != nil {
		out.Terminal = overlay.Terminal
	}
	if overlay.SpawnCommand != nil {
		out.SpawnCommand = overlay.SpawnCommand
	}
	if overlay.WidthPercent != nil {
		out.WidthPercent = overlay.WidthPercent
	}
	if overlay.HeightPercent != nil {
		out.HeightPercent = overlay.HeightPercent
	}
	if overlay.Anchor != nil {
		out.Anchor = overlay.Anchor
	}
	return out
}

func mergeRawSearch(base RawSearch, overlay RawSearch) RawSearch {
	out := base
	if overlay.Roots != nil {
		out.Roots = overlay.Roots
	}
	if overlay.IndexPath != nil {
		out.IndexPath = overlay.IndexPath
	}
	if overlay.Limit != nil {
		out.Limit = overlay.Limit
	}
	if overlay.ReindexInterval != nil {
		out.ReindexInterval = overlay.ReindexInterval
	}
	return out
}

func mergeRawInterpret(base RawInterpret, overlay RawInterpret) RawInterpret {
	out := base
	if overlay.Endpoint != nil {
		out.Endpoint = overlay.Endpoint
	}
	if overlay.Model != nil {
		out.Model = overlay.Model
	}
	return out
}
