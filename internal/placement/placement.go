package placement

import (
	"github.com/1broseidon/quicklaunch/internal/config"
)

// Rect represents a window position and size
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Frame computes the launcher window geometry inside the usable monitor
// area: sized by the configured percentages, horizontally centered, and
// anchored to the top edge or vertical center.
func Frame(usable Rect, launcher config.Launcher) Rect {
	width := usable.Width * launcher.WidthPercent / 100
	height := usable.Height * launcher.HeightPercent / 100

	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	if width > usable.Width {
		width = usable.Width
	}
	if height > usable.Height {
		height = usable.Height
	}

	x := usable.X + (usable.Width-width)/2

	y := usable.Y
	if launcher.Anchor == config.AnchorCenter {
		y = usable.Y + (usable.Height-height)/2
	}

	return Rect{X: x, Y: y, Width: width, Height: height}
}
