package config

import (
	"sort"
	"strings"
)

// DetectedTerminal represents a known terminal emulator found on PATH.
type DetectedTerminal struct {
	Class     string
	Path      string
	Preferred bool
}

// DetectTerminals scans PATH for the terminal emulators in cfg's class list
// and returns the installed ones. The entry matching launcher.terminal (or,
// failing that, the resolved terminal) is marked preferred.
func DetectTerminals(cfg *Config) []DetectedTerminal {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	preferred := ""
	if pref := strings.TrimSpace(cfg.Launcher.Terminal); pref != "" {
		if class, ok := cfg.matchTerminalClass(pref); ok {
			preferred = class
		}
	}
	if preferred == "" {
		preferred = cfg.ResolveTerminal()
	}

	seen := make(map[string]struct{}, len(cfg.TerminalClasses))
	detected := make([]DetectedTerminal, 0, len(cfg.TerminalClasses))

	for _, tc := range cfg.TerminalClasses {
		template, ok := cfg.SpawnTemplateFor(tc.Class)
		if !ok {
			continue
		}
		argv, err := splitCommand(template)
		if err != nil || len(argv) == 0 {
			continue
		}
		path, err := execLookPath(argv[0])
		if err != nil {
			continue
		}
		if _, dup := seen[path]; dup {
			continue
		}
		seen[path] = struct{}{}

		detected = append(detected, DetectedTerminal{
			Class:     tc.Class,
			Path:      path,
			Preferred: strings.EqualFold(tc.Class, preferred),
		})
	}

	sort.Slice(detected, func(i, j int) bool {
		return detected[i].Class < detected[j].Class
	})
	return detected
}
