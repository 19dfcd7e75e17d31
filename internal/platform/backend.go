package platform

import "errors"

// WindowID is a platform-neutral window identifier.
type WindowID uint32

// ErrWindowNotFound is returned by LookupWindow when no top-level window
// matches the requested class.
var ErrWindowNotFound = errors.New("window not found")

// Backend abstracts the window-system operations the launcher needs.
type Backend interface {
	// LookupWindow finds the managed top-level window whose class matches
	// (case-insensitively). Returns ErrWindowNotFound when absent.
	LookupWindow(class string) (WindowID, error)
	// IsVisible reports whether the window is currently mapped and viewable.
	IsVisible(windowID WindowID) (bool, error)
	// Show maps the window and applies the configured launcher geometry.
	Show(windowID WindowID) error
	// Hide withdraws the window without destroying it.
	Hide(windowID WindowID) error
	// Focus asks the window manager to activate the window.
	Focus(windowID WindowID) error
}
