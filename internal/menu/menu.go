// Package menu presents the file index through dmenu-style pickers, for
// keyboard-driven use without the launcher terminal.
package menu

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/1broseidon/quicklaunch/internal/search"
)

// Item is a single selectable row.
type Item struct {
	Label string // Display text
	Path  string // File the row opens (empty for the no-index stub)
}

// SelectResult contains the result of a menu selection.
type SelectResult struct {
	Item     Item
	ExitCode int // 0=normal, 10=kb-custom-1 (Alt+Return)
}

// Capabilities describes what features a backend supports.
type Capabilities struct {
	CustomKeys  bool // Supports kb-custom-N keybindings (the reveal shortcut)
	IndexOutput bool // Can output the selection index (not just text)
	MessageBar  bool // Supports a message/hint bar
}

// Backend shows a menu and returns the selected row.
type Backend interface {
	// Show displays the rows under the prompt and blocks until the user
	// picks one or cancels. message is an optional hint line; backends
	// without a message bar ignore it.
	Show(prompt string, items []Item, message string) (SelectResult, error)

	// Capabilities returns the features supported by this backend.
	Capabilities() Capabilities
}

// ItemsFromResults renders search results as menu rows.
func ItemsFromResults(results []search.Result) []Item {
	items := make([]Item, 0, len(results))
	for _, r := range results {
		items = append(items, Item{
			Label: search.FormatResult(r),
			Path:  r.Entry.Path,
		})
	}
	return items
}

// AutoDetect selects the first available backend in priority order.
func AutoDetect() (Backend, error) {
	name, err := DetectBackend()
	if err != nil {
		return nil, err
	}
	return NewBackend(name)
}

// NewBackend creates a backend by name.
//
// Supported names: auto, rofi, fuzzel, wofi, dmenu.
func NewBackend(name string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "auto":
		return AutoDetect()
	case "rofi":
		if _, err := exec.LookPath("rofi"); err != nil {
			return nil, fmt.Errorf("menu backend %q not found in PATH", "rofi")
		}
		return NewRofiBackend(), nil
	case "fuzzel":
		if _, err := exec.LookPath("fuzzel"); err != nil {
			return nil, fmt.Errorf("menu backend %q not found in PATH", "fuzzel")
		}
		return NewFuzzelBackend(), nil
	case "wofi":
		if _, err := exec.LookPath("wofi"); err != nil {
			return nil, fmt.Errorf("menu backend %q not found in PATH", "wofi")
		}
		return NewWofiBackend(), nil
	case "dmenu":
		if _, err := exec.LookPath("dmenu"); err != nil {
			return nil, fmt.Errorf("menu backend %q not found in PATH", "dmenu")
		}
		return NewDmenuBackend(), nil
	default:
		return nil, fmt.Errorf("unknown menu backend: %q (expected: auto, rofi, fuzzel, wofi, dmenu)", name)
	}
}
