package placement

import (
	"testing"

	"github.com/1broseidon/quicklaunch/internal/config"
)

func TestFrame_TopAnchorCentersHorizontally(t *testing.T) {
	usable := Rect{X: 0, Y: 0, Width: 1920, Height: 1080}
	launcher := config.Launcher{WidthPercent: 40, HeightPercent: 45, Anchor: config.AnchorTop}

	got := Frame(usable, launcher)

	// width = 1920*40/100 = 768, x = (1920-768)/2 = 576
	// height = 1080*45/100 = 486, y = usable top
	if got.Width != 768 || got.Height != 486 {
		t.Fatalf("expected 768x486, got %dx%d", got.Width, got.Height)
	}
	if got.X != 576 {
		t.Fatalf("expected x=576, got %d", got.X)
	}
	if got.Y != 0 {
		t.Fatalf("expected y=0 for top anchor, got %d", got.Y)
	}
}

func TestFrame_CenterAnchor(t *testing.T) {
	usable := Rect{X: 0, Y: 0, Width: 1000, Height: 800}
	launcher := config.Launcher{WidthPercent: 50, HeightPercent: 50, Anchor: config.AnchorCenter}

	got := Frame(usable, launcher)

	// width=500, height=400, x=(1000-500)/2=250, y=(800-400)/2=200
	if got != (Rect{X: 250, Y: 200, Width: 500, Height: 400}) {
		t.Fatalf("unexpected frame: %#v", got)
	}
}

func TestFrame_RespectsUsableOffset(t *testing.T) {
	// Second monitor to the right of a 1920-wide primary, with a 30px top panel
	// already subtracted from the usable area.
	usable := Rect{X: 1920, Y: 30, Width: 1280, Height: 994}
	launcher := config.Launcher{WidthPercent: 40, HeightPercent: 45, Anchor: config.AnchorTop}

	got := Frame(usable, launcher)

	// width = 1280*40/100 = 512, x = 1920 + (1280-512)/2 = 1920+384 = 2304
	if got.X != 2304 {
		t.Fatalf("expected x=2304, got %d", got.X)
	}
	if got.Y != 30 {
		t.Fatalf("expected y=30 (usable top), got %d", got.Y)
	}
	// height = 994*45/100 = 447
	if got.Height != 447 {
		t.Fatalf("expected height=447, got %d", got.Height)
	}
}

func TestFrame_ClampsToUsableArea(t *testing.T) {
	usable := Rect{X: 0, Y: 0, Width: 100, Height: 60}

	got := Frame(usable, config.Launcher{WidthPercent: 100, HeightPercent: 100, Anchor: config.AnchorTop})
	if got.Width != 100 || got.Height != 60 {
		t.Fatalf("expected full usable area, got %#v", got)
	}

	// Degenerate usable area still yields a visible frame.
	got = Frame(Rect{X: 0, Y: 0, Width: 1, Height: 1}, config.Launcher{WidthPercent: 40, HeightPercent: 45, Anchor: config.AnchorTop})
	if got.Width < 1 || got.Height < 1 {
		t.Fatalf("expected at least 1x1, got %#v", got)
	}
}
