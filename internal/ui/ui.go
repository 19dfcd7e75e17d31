// Package ui is the launcher's interactive query screen. It runs inside the
// terminal the daemon spawned and stays up between summons; the daemon hides
// and shows the hosting window around it.
package ui

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/1broseidon/quicklaunch/internal/interpret"
	"github.com/1broseidon/quicklaunch/internal/launch"
	"github.com/1broseidon/quicklaunch/internal/search"
)

// Options configures the launcher screen.
type Options struct {
	// Index backs the query box; nil means no index has been built yet and
	// every query answers with the no-index stub row.
	Index *search.Index

	// Limit caps the rows shown per query.
	Limit int

	// Interpreter adds the LLM suggestion row when configured; nil or an
	// unconfigured client disables it.
	Interpreter *interpret.Client

	// Opener opens the selected entry. Defaults to launch.Open.
	Opener func(path string) error
}

// Run shows the launcher screen and blocks until the user quits it.
func Run(opts Options) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("ui requires an interactive terminal (stdin/stdout must be TTYs)")
	}

	if opts.Opener == nil {
		opts.Opener = launch.Open
	}

	p := tea.NewProgram(newModel(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
