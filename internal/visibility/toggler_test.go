package visibility

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/1broseidon/quicklaunch/internal/platform"
)

// fakeBackend is an in-memory platform.Backend that records every call.
type fakeBackend struct {
	windows map[string]platform.WindowID
	visible map[platform.WindowID]bool

	lookupErr    error
	isVisibleErr error
	hideErr      error
	showErr      error
	focusErr     error

	lookups int
	hides   []platform.WindowID
	shows   []platform.WindowID
	focuses []platform.WindowID
	calls   []string
}

var _ platform.Backend = (*fakeBackend)(nil)

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		windows: make(map[string]platform.WindowID),
		visible: make(map[platform.WindowID]bool),
	}
}

func (f *fakeBackend) addWindow(class string, id platform.WindowID, visible bool) {
	f.windows[class] = id
	f.visible[id] = visible
}

func (f *fakeBackend) LookupWindow(class string) (platform.WindowID, error) {
	f.lookups++
	if f.lookupErr != nil {
		return 0, f.lookupErr
	}
	id, ok := f.windows[class]
	if !ok {
		return 0, platform.ErrWindowNotFound
	}
	return id, nil
}

func (f *fakeBackend) IsVisible(id platform.WindowID) (bool, error) {
	if f.isVisibleErr != nil {
		return false, f.isVisibleErr
	}
	return f.visible[id], nil
}

func (f *fakeBackend) Show(id platform.WindowID) error {
	f.shows = append(f.shows, id)
	f.calls = append(f.calls, "show")
	if f.showErr != nil {
		return f.showErr
	}
	f.visible[id] = true
	return nil
}

func (f *fakeBackend) Hide(id platform.WindowID) error {
	f.hides = append(f.hides, id)
	f.calls = append(f.calls, "hide")
	if f.hideErr != nil {
		return f.hideErr
	}
	f.visible[id] = false
	return nil
}

func (f *fakeBackend) Focus(id platform.WindowID) error {
	f.focuses = append(f.focuses, id)
	f.calls = append(f.calls, "focus")
	return f.focusErr
}

func newTestToggler(backend platform.Backend) *Toggler {
	return NewToggler(backend, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestHideAtStartup_HidesExistingWindow(t *testing.T) {
	backend := newFakeBackend()
	backend.addWindow(WindowClass, 42, true)

	newTestToggler(backend).HideAtStartup()

	if len(backend.hides) != 1 || backend.hides[0] != 42 {
		t.Fatalf("expected one hide of window 42, got %v", backend.hides)
	}
	if backend.visible[42] {
		t.Fatal("expected window to be hidden after startup")
	}
	if len(backend.shows) != 0 || len(backend.focuses) != 0 {
		t.Fatalf("expected no show/focus at startup, got shows=%v focuses=%v", backend.shows, backend.focuses)
	}
}

func TestHideAtStartup_NoWindowDoesNothing(t *testing.T) {
	backend := newFakeBackend()

	newTestToggler(backend).HideAtStartup()

	if len(backend.calls) != 0 {
		t.Fatalf("expected no window operations, got %v", backend.calls)
	}
}

func TestHideAtStartup_HideFailureIsDropped(t *testing.T) {
	backend := newFakeBackend()
	backend.addWindow(WindowClass, 7, true)
	backend.hideErr = errors.New("wm said no")

	// Must not panic and must not retry.
	newTestToggler(backend).HideAtStartup()

	if len(backend.hides) != 1 {
		t.Fatalf("expected exactly one hide attempt, got %d", len(backend.hides))
	}
}

func TestToggle_HidesVisibleWindow(t *testing.T) {
	backend := newFakeBackend()
	backend.addWindow(WindowClass, 42, true)

	newTestToggler(backend).Toggle()

	if backend.visible[42] {
		t.Fatal("expected visible window to be hidden")
	}
	if len(backend.focuses) != 0 {
		t.Fatalf("expected no focus when hiding, got %v", backend.focuses)
	}
}

func TestToggle_ShowsAndFocusesHiddenWindow(t *testing.T) {
	backend := newFakeBackend()
	backend.addWindow(WindowClass, 42, false)

	newTestToggler(backend).Toggle()

	if !backend.visible[42] {
		t.Fatal("expected hidden window to be shown")
	}
	if len(backend.focuses) != 1 || backend.focuses[0] != 42 {
		t.Fatalf("expected exactly one focus of window 42, got %v", backend.focuses)
	}
	if len(backend.calls) != 2 || backend.calls[0] != "show" || backend.calls[1] != "focus" {
		t.Fatalf("expected show then focus, got %v", backend.calls)
	}
}

func TestToggle_NoWindowIsNoOp(t *testing.T) {
	backend := newFakeBackend()

	newTestToggler(backend).Toggle()

	if len(backend.calls) != 0 {
		t.Fatalf("expected no window operations, got %v", backend.calls)
	}
}

func TestToggle_LookupFailureIsNoOp(t *testing.T) {
	backend := newFakeBackend()
	backend.addWindow(WindowClass, 42, true)
	backend.lookupErr = errors.New("connection broken")

	newTestToggler(backend).Toggle()

	if len(backend.calls) != 0 {
		t.Fatalf("expected no window operations after failed lookup, got %v", backend.calls)
	}
}

func TestToggle_ShowFailureStillFocuses(t *testing.T) {
	backend := newFakeBackend()
	backend.addWindow(WindowClass, 42, false)
	backend.showErr = errors.New("map refused")

	newTestToggler(backend).Toggle()

	if len(backend.shows) != 1 {
		t.Fatalf("expected one show attempt, got %d", len(backend.shows))
	}
	if len(backend.focuses) != 1 {
		t.Fatalf("expected focus despite failed show, got %d focus calls", len(backend.focuses))
	}
}

func TestToggle_VisibilityQueryFailureTreatsWindowAsHidden(t *testing.T) {
	backend := newFakeBackend()
	backend.addWindow(WindowClass, 42, true)
	backend.isVisibleErr = errors.New("attributes unavailable")

	newTestToggler(backend).Toggle()

	// The window was actually visible, but with the state unknown the
	// toggle must show and focus rather than hide.
	if len(backend.hides) != 0 {
		t.Fatalf("expected no hide on unknown visibility, got %v", backend.hides)
	}
	if len(backend.shows) != 1 || len(backend.focuses) != 1 {
		t.Fatalf("expected show and focus, got shows=%v focuses=%v", backend.shows, backend.focuses)
	}
}

func TestToggle_TwicePutsWindowBackWhereItStarted(t *testing.T) {
	backend := newFakeBackend()
	backend.addWindow(WindowClass, 42, false)

	toggler := newTestToggler(backend)
	toggler.Toggle()
	toggler.Toggle()

	if backend.visible[42] {
		t.Fatal("expected window hidden again after two toggles")
	}
	if len(backend.shows) != 1 || len(backend.hides) != 1 || len(backend.focuses) != 1 {
		t.Fatalf("expected one show, one hide, one focus, got shows=%d hides=%d focuses=%d",
			len(backend.shows), len(backend.hides), len(backend.focuses))
	}
}

func TestToggle_ParityAfterRepeatedPresses(t *testing.T) {
	for presses := 1; presses <= 6; presses++ {
		backend := newFakeBackend()
		backend.addWindow(WindowClass, 42, false)

		toggler := newTestToggler(backend)
		for i := 0; i < presses; i++ {
			toggler.Toggle()
		}

		wantVisible := presses%2 == 1
		if backend.visible[42] != wantVisible {
			t.Fatalf("after %d presses expected visible=%v, got %v", presses, wantVisible, backend.visible[42])
		}
	}
}

func TestToggle_LooksWindowUpFreshEachPress(t *testing.T) {
	backend := newFakeBackend()
	backend.addWindow(WindowClass, 42, false)

	toggler := newTestToggler(backend)
	toggler.Toggle()

	// The launcher terminal was replaced between presses.
	delete(backend.visible, 42)
	backend.addWindow(WindowClass, 99, false)

	toggler.Toggle()

	if backend.lookups != 2 {
		t.Fatalf("expected a lookup per press, got %d", backend.lookups)
	}
	if len(backend.shows) != 2 || backend.shows[1] != 99 {
		t.Fatalf("expected second show to target the new window, got %v", backend.shows)
	}
}

func TestStartupThenToggleScenario(t *testing.T) {
	backend := newFakeBackend()
	backend.addWindow(WindowClass, 42, true)

	toggler := newTestToggler(backend)

	toggler.HideAtStartup()
	if backend.visible[42] {
		t.Fatal("expected window hidden after startup")
	}

	toggler.Toggle()
	if !backend.visible[42] {
		t.Fatal("expected window visible after first toggle")
	}
	if len(backend.focuses) != 1 {
		t.Fatalf("expected one focus after first toggle, got %d", len(backend.focuses))
	}

	toggler.Toggle()
	if backend.visible[42] {
		t.Fatal("expected window hidden after second toggle")
	}
	if len(backend.focuses) != 1 {
		t.Fatalf("expected no focus on hide, still got %d focus calls", len(backend.focuses))
	}
}
