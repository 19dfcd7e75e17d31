//go:build linux

package platform

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"

	"github.com/1broseidon/quicklaunch/internal/config"
	"github.com/1broseidon/quicklaunch/internal/placement"
	"github.com/1broseidon/quicklaunch/internal/x11"
)

// LinuxBackend wraps an existing X11 connection behind the platform Backend interface.
type LinuxBackend struct {
	conn     *x11.Connection
	launcher config.Launcher
}

var _ Backend = (*LinuxBackend)(nil)

// NewLinuxBackend creates a Linux platform backend from an existing X11
// connection. The launcher geometry is applied whenever a window is shown.
func NewLinuxBackend(conn *x11.Connection, launcher config.Launcher) *LinuxBackend {
	return &LinuxBackend{conn: conn, launcher: launcher}
}

// NewLinuxBackendFromDisplay creates a new Linux backend by opening a fresh
// X11 connection to the given display (empty means $DISPLAY).
func NewLinuxBackendFromDisplay(display string, launcher config.Launcher) (*LinuxBackend, error) {
	conn, err := x11.NewConnection(display)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return &LinuxBackend{conn: conn, launcher: launcher}, nil
}

// Disconnect closes the underlying X11 connection.
func (b *LinuxBackend) Disconnect() {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
}

// EventLoop starts the X11 event loop (blocking).
func (b *LinuxBackend) EventLoop() {
	if b != nil && b.conn != nil {
		b.conn.EventLoop()
	}
}

// Quit stops a running event loop.
func (b *LinuxBackend) Quit() {
	if b != nil && b.conn != nil {
		b.conn.Quit()
	}
}

// XUtil returns the underlying xgbutil connection for X11-specific operations.
func (b *LinuxBackend) XUtil() *xgbutil.XUtil {
	if b == nil || b.conn == nil {
		return nil
	}
	return b.conn.XUtil
}

// RootWindow returns the X11 root window ID.
func (b *LinuxBackend) RootWindow() xproto.Window {
	if b == nil || b.conn == nil {
		return 0
	}
	return b.conn.Root
}

// LookupWindow finds the managed window whose WM_CLASS matches the class.
func (b *LinuxBackend) LookupWindow(class string) (WindowID, error) {
	conn, err := b.connection()
	if err != nil {
		return 0, err
	}

	win, found, err := conn.FindWindowByClass(class)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, ErrWindowNotFound
	}
	return WindowID(win), nil
}

// IsVisible reports whether the window is mapped, viewable, and not carrying
// the EWMH hidden state (set by window managers on minimized windows).
func (b *LinuxBackend) IsVisible(windowID WindowID) (bool, error) {
	conn, err := b.connection()
	if err != nil {
		return false, err
	}

	viewable, err := conn.IsViewable(xproto.Window(windowID))
	if err != nil || !viewable {
		return false, err
	}

	hidden, err := conn.HasState(xproto.Window(windowID), "_NET_WM_STATE_HIDDEN")
	if err != nil {
		// The map state already answered viewable; the EWMH query is advisory.
		return true, nil
	}
	return !hidden, nil
}

// Show maps the window and positions it on the active monitor's usable area
// according to the configured launcher geometry. Placement is best-effort:
// a window that shows but lands in the wrong spot beats one that never shows.
func (b *LinuxBackend) Show(windowID WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}

	if err := conn.MapWindow(xproto.Window(windowID)); err != nil {
		return err
	}

	b.place(conn, xproto.Window(windowID))
	return nil
}

// Hide withdraws the window. The client keeps running and can be re-shown.
func (b *LinuxBackend) Hide(windowID WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.WithdrawWindow(xproto.Window(windowID))
}

// Focus activates the window via the window manager.
func (b *LinuxBackend) Focus(windowID WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.FocusWindow(xproto.Window(windowID))
}

func (b *LinuxBackend) place(conn *x11.Connection, windowID xproto.Window) {
	usable, err := conn.ActiveWorkArea()
	if err != nil {
		return
	}

	frame := placement.Frame(placement.Rect{
		X:      usable.X,
		Y:      usable.Y,
		Width:  usable.Width,
		Height: usable.Height,
	}, b.launcher)

	// Ignore placement failures; the window is already mapped.
	_ = conn.MoveResizeWindow(windowID, frame.X, frame.Y, frame.Width, frame.Height)
}

func (b *LinuxBackend) connection() (*x11.Connection, error) {
	if b == nil || b.conn == nil {
		return nil, fmt.Errorf("x11 backend connection is nil")
	}
	return b.conn, nil
}
