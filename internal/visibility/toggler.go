// Package visibility owns the launcher window's shown/hidden lifecycle:
// hide it once at startup, then flip it on every hotkey press.
package visibility

import (
	"errors"
	"log/slog"

	"github.com/1broseidon/quicklaunch/internal/platform"
)

const (
	// WindowClass is the WM_CLASS under which the launcher terminal runs.
	// The spawned terminal sets it and every lookup searches for it.
	WindowClass = "quicklaunch"

	// ToggleCombo is the global key sequence that summons the launcher.
	ToggleCombo = "Control-space"
)

// Toggler flips the launcher window between shown and hidden. Every call
// looks the window up fresh; no window ID is cached between presses.
type Toggler struct {
	backend platform.Backend
	logger  *slog.Logger
}

// NewToggler creates a toggler for the launcher window.
func NewToggler(backend platform.Backend, logger *slog.Logger) *Toggler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Toggler{
		backend: backend,
		logger:  logger,
	}
}

// HideAtStartup hides the launcher window if one already exists. It runs
// once, synchronously, before the hotkey is registered. A missing window
// means nothing to hide; a failed hide is logged and dropped.
func (t *Toggler) HideAtStartup() {
	windowID, err := t.backend.LookupWindow(WindowClass)
	if err != nil {
		if !errors.Is(err, platform.ErrWindowNotFound) {
			t.logger.Debug("startup lookup failed", "class", WindowClass, "error", err)
		}
		return
	}

	if err := t.backend.Hide(windowID); err != nil {
		t.logger.Debug("startup hide failed", "window_id", windowID, "error", err)
	}
}

// Toggle hides the launcher window when it is visible and shows then focuses
// it when it is not. Window operations are best-effort: failures are logged
// and the press is otherwise over.
func (t *Toggler) Toggle() {
	windowID, err := t.backend.LookupWindow(WindowClass)
	if err != nil {
		if errors.Is(err, platform.ErrWindowNotFound) {
			t.logger.Debug("toggle: no launcher window", "class", WindowClass)
		} else {
			t.logger.Warn("toggle: window lookup failed", "class", WindowClass, "error", err)
		}
		return
	}

	visible, err := t.backend.IsVisible(windowID)
	if err != nil {
		// An unknown state counts as hidden; the press then shows.
		t.logger.Debug("toggle: visibility query failed", "window_id", windowID, "error", err)
		visible = false
	}

	if visible {
		if err := t.backend.Hide(windowID); err != nil {
			t.logger.Warn("toggle: hide failed", "window_id", windowID, "error", err)
		}
		return
	}

	if err := t.backend.Show(windowID); err != nil {
		t.logger.Warn("toggle: show failed", "window_id", windowID, "error", err)
	}
	// Focus follows every show attempt; the window may already be mapped
	// and only need raising.
	if err := t.backend.Focus(windowID); err != nil {
		t.logger.Warn("toggle: focus failed", "window_id", windowID, "error", err)
	}
}
