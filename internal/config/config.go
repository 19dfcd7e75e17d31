package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/quicklaunch/internal/xdg"
)

// Anchor positions for the launcher window within the usable screen area.
const (
	AnchorTop    = "top"
	AnchorCenter = "center"
)

const (
	DefaultSearchLimit     = 10
	DefaultReindexInterval = 10 * time.Minute
)

// Launcher configures the terminal window that hosts the quicklaunch UI.
type Launcher struct {
	// Terminal names the preferred terminal emulator (WM_CLASS or
	// executable). Empty means auto-resolve.
	Terminal string `yaml:"terminal,omitempty"`
	// SpawnCommand overrides the spawn template for the resolved terminal.
	// Placeholders: {{class}} and {{cmd}}.
	SpawnCommand  string `yaml:"spawn_command,omitempty"`
	WidthPercent  int    `yaml:"width_percent"`
	HeightPercent int    `yaml:"height_percent"`
	Anchor        string `yaml:"anchor"`
}

// Search configures the file index.
type Search struct {
	Roots []string `yaml:"roots"`
	// IndexPath overrides the index location. Empty means the default
	// data directory.
	IndexPath       string `yaml:"index_path,omitempty"`
	Limit           int    `yaml:"limit"`
	ReindexInterval string `yaml:"reindex_interval"`
}

// Interpret configures the optional command-rewriting model. Both fields
// must be set for interpretation to be enabled.
type Interpret struct {
	Endpoint string `yaml:"endpoint,omitempty"`
	Model    string `yaml:"model,omitempty"`
}

// Menu configures the dmenu-style frontend.
type Menu struct {
	Backend string `yaml:"backend"`
}

// Logging configures daemon log verbosity.
type Logging struct {
	Level string `yaml:"level"`
}

// Config holds the application configuration.
type Config struct {
	Launcher              Launcher          `yaml:"launcher"`
	TerminalClasses       TerminalClassList `yaml:"terminal_classes"`
	TerminalSpawnCommands map[string]string `yaml:"terminal_spawn_commands,omitempty"`
	Search                Search            `yaml:"search"`
	Interpret             Interpret         `yaml:"interpret,omitempty"`
	Menu                  Menu              `yaml:"menu"`
	Display               string            `yaml:"display,omitempty"`
	XAuthority            string            `yaml:"xauthority,omitempty"`
	Logging               Logging           `yaml:"logging"`
}

func DefaultConfig() *Config {
	return &Config{
		Launcher: Launcher{
			WidthPercent:  40,
			HeightPercent: 45,
			Anchor:        AnchorTop,
		},
		TerminalClasses: defaultTerminalClasses(),
		TerminalSpawnCommands: map[string]string{
			"kitty":                 "kitty --class {{class}} {{cmd}}",
			"Alacritty":             "alacritty --class {{class}} -e {{cmd}}",
			"com.mitchellh.ghostty": "ghostty --class={{class}} -e {{cmd}}",
			"ghostty":               "ghostty --class={{class}} -e {{cmd}}",
			"wezterm":               "wezterm start --class {{class}} -- {{cmd}}",
			"XTerm":                 "xterm -class {{class}} -e {{cmd}}",
			"URxvt":                 "urxvt -name {{class}} -e {{cmd}}",
			"st":                    "st -c {{class}} -e {{cmd}}",
		},
		Search: Search{
			Roots:           []string{"~/Downloads"},
			Limit:           DefaultSearchLimit,
			ReindexInterval: "10m",
		},
		Menu: Menu{
			Backend: "auto",
		},
		Logging: Logging{
			Level: "info",
		},
	}
}

// ReindexEvery returns the parsed reindex interval with the default applied.
func (c *Config) ReindexEvery() time.Duration {
	if c == nil {
		return DefaultReindexInterval
	}
	d, err := time.ParseDuration(c.Search.ReindexInterval)
	if err != nil || d <= 0 {
		return DefaultReindexInterval
	}
	return d
}

// SearchLimit returns the result cap with the default applied.
func (c *Config) SearchLimit() int {
	if c == nil || c.Search.Limit <= 0 {
		return DefaultSearchLimit
	}
	return c.Search.Limit
}

// ResolveIndexPath returns the index location, falling back to the default
// data directory when index_path is not set.
func (c *Config) ResolveIndexPath() (string, error) {
	if c != nil {
		if p := strings.TrimSpace(c.Search.IndexPath); p != "" {
			return expandHome(p)
		}
	}
	return xdg.IndexPath()
}

// SearchRoots returns the configured roots with ~ expanded.
func (c *Config) SearchRoots() ([]string, error) {
	if c == nil || len(c.Search.Roots) == 0 {
		return nil, nil
	}
	out := make([]string, 0, len(c.Search.Roots))
	for _, root := range c.Search.Roots {
		expanded, err := expandHome(root)
		if err != nil {
			return nil, fmt.Errorf("search root %q: %w", root, err)
		}
		out = append(out, expanded)
	}
	return out, nil
}

// InterpretEnabled reports whether the command-rewriting model is configured.
func (c *Config) InterpretEnabled() bool {
	if c == nil {
		return false
	}
	return strings.TrimSpace(c.Interpret.Endpoint) != "" && strings.TrimSpace(c.Interpret.Model) != ""
}

// Save writes the configuration to the standard location.
//
// Note: this marshals the effective config and will not preserve comments or
// include structure from the original YAML.
func (c *Config) Save() error {
	if err := c.Validate(); err != nil {
		return err
	}

	path, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	save := *c
	save.TerminalSpawnCommands = spawnCommandsForSave(c.TerminalSpawnCommands)

	data, err := yaml.Marshal(&save)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func spawnCommandsForSave(commands map[string]string) map[string]string {
	if len(commands) == 0 {
		return nil
	}
	defaults := DefaultConfig().TerminalSpawnCommands
	out := make(map[string]string)
	for class, cmd := range commands {
		if def, ok := defaults[class]; ok && def == cmd {
			continue
		}
		out[class] = cmd
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Validate performs strict validation of the effective configuration.
func (c *Config) Validate() error {
	if c.Launcher.WidthPercent < 10 || c.Launcher.WidthPercent > 100 {
		return &ValidationError{Path: "launcher.width_percent", Err: fmt.Errorf("width_percent must be between 10 and 100")}
	}
	if c.Launcher.HeightPercent < 10 || c.Launcher.HeightPercent > 100 {
		return &ValidationError{Path: "launcher.height_percent", Err: fmt.Errorf("height_percent must be between 10 and 100")}
	}
	switch c.Launcher.Anchor {
	case AnchorTop, AnchorCenter:
	default:
		return &ValidationError{Path: "launcher.anchor", Err: fmt.Errorf("anchor must be one of: top, center")}
	}
	if cmd := strings.TrimSpace(c.Launcher.SpawnCommand); cmd != "" {
		if _, err := splitCommand(cmd); err != nil {
			return &ValidationError{Path: "launcher.spawn_command", Err: err}
		}
	}
	if len(c.TerminalClasses) == 0 {
		return &ValidationError{Path: "terminal_classes", Err: fmt.Errorf("terminal_classes must not be empty")}
	}
	if c.TerminalSpawnCommands == nil {
		return &ValidationError{Path: "terminal_spawn_commands", Err: fmt.Errorf("terminal_spawn_commands must not be null")}
	}
	for class, cmd := range c.TerminalSpawnCommands {
		if strings.TrimSpace(class) == "" {
			return &ValidationError{Path: "terminal_spawn_commands", Err: fmt.Errorf("terminal_spawn_commands contains an empty class name")}
		}
		if strings.TrimSpace(cmd) == "" {
			return &ValidationError{Path: "terminal_spawn_commands." + class, Err: fmt.Errorf("spawn command must not be empty")}
		}
	}
	if len(c.Search.Roots) == 0 {
		return &ValidationError{Path: "search.roots", Err: fmt.Errorf("roots must not be empty")}
	}
	for _, root := range c.Search.Roots {
		if strings.TrimSpace(root) == "" {
			return &ValidationError{Path: "search.roots", Err: fmt.Errorf("roots must not contain empty entries")}
		}
	}
	if c.Search.Limit <= 0 || c.Search.Limit > 100 {
		return &ValidationError{Path: "search.limit", Err: fmt.Errorf("limit must be between 1 and 100")}
	}
	if c.Search.ReindexInterval != "" {
		d, err := time.ParseDuration(c.Search.ReindexInterval)
		if err != nil {
			return &ValidationError{Path: "search.reindex_interval", Err: fmt.Errorf("invalid duration: %w", err)}
		}
		if d < time.Minute {
			return &ValidationError{Path: "search.reindex_interval", Err: fmt.Errorf("reindex_interval must be at least 1m")}
		}
	}
	endpoint := strings.TrimSpace(c.Interpret.Endpoint)
	model := strings.TrimSpace(c.Interpret.Model)
	if (endpoint == "") != (model == "") {
		return &ValidationError{Path: "interpret", Err: fmt.Errorf("endpoint and model must be set together")}
	}
	if endpoint != "" {
		u, err := url.Parse(endpoint)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return &ValidationError{Path: "interpret.endpoint", Err: fmt.Errorf("endpoint must be an absolute URL")}
		}
	}
	switch c.Menu.Backend {
	case "auto", "rofi", "fuzzel", "dmenu", "wofi":
	default:
		return &ValidationError{Path: "menu.backend", Err: fmt.Errorf("backend must be one of: auto, rofi, fuzzel, dmenu, wofi")}
	}
	if c.Logging.Level != "debug" && c.Logging.Level != "info" && c.Logging.Level != "warning" && c.Logging.Level != "error" {
		return &ValidationError{Path: "logging.level", Err: fmt.Errorf("level must be one of: debug, info, warning, error")}
	}

	if warnings := c.validationWarnings(); len(warnings) > 0 {
		for _, w := range warnings {
			fmt.Fprintln(os.Stderr, "warning:", w)
		}
	}

	return nil
}

func (c *Config) validationWarnings() []string {
	if c == nil {
		return nil
	}

	var warnings []string

	if term := strings.TrimSpace(c.Launcher.Terminal); term != "" {
		if _, ok := c.matchTerminalClass(term); !ok {
			warnings = append(warnings, fmt.Sprintf("launcher.terminal %q is not in terminal_classes; it will be ignored", c.Launcher.Terminal))
		}
	}
	if cmd := strings.TrimSpace(c.Launcher.SpawnCommand); cmd != "" && !strings.Contains(cmd, "{{class}}") {
		warnings = append(warnings, "launcher.spawn_command does not reference {{class}}; the spawned window may not be found")
	}

	defaultCount := 0
	for _, tc := range c.TerminalClasses {
		if tc.Default {
			defaultCount++
		}
	}
	if defaultCount > 1 {
		warnings = append(warnings, fmt.Sprintf("terminal_classes has %d entries with default: true; the first one wins", defaultCount))
	}

	return warnings
}

func defaultTerminalClasses() TerminalClassList {
	return TerminalClassList{
		{Class: "Alacritty"},
		{Class: "kitty"},
		{Class: "com.mitchellh.ghostty"},
		{Class: "ghostty"},
		{Class: "wezterm"},
		{Class: "XTerm"},
		{Class: "UXTerm"},
		{Class: "URxvt"},
		{Class: "urxvt"},
		{Class: "st"},
		{Class: "st-256color"},
	}
}

func expandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	if path == "~" {
		return home, nil
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:]), nil
	}
	return path, nil
}
