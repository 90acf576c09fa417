package present

import (
	"github.com/1broseidon/opendoor/internal/window"
)

// Region identifies the part of a frame under the pointer.
type Region int

const (
	RegionNone Region = iota
	RegionBody
	RegionTitle
	RegionFloat
	RegionMinimize
	RegionMaximize
	RegionClose
)

func (r Region) String() string {
	switch r {
	case RegionNone:
		return "none"
	case RegionBody:
		return "body"
	case RegionTitle:
		return "title"
	case RegionFloat:
		return "float"
	case RegionMinimize:
		return "minimize"
	case RegionMaximize:
		return "maximize"
	case RegionClose:
		return "close"
	default:
		return "unknown"
	}
}

// IsButton reports whether r is one of the title bar buttons.
func (r Region) IsButton() bool {
	return r >= RegionFloat && r <= RegionClose
}

// Chrome is the pixel geometry of window decorations.
type Chrome struct {
	TitleBarHeight int
	ButtonWidth    int
	Inset          int
}

// DefaultChrome matches a 32px title bar with 16px buttons.
func DefaultChrome() Chrome {
	return Chrome{TitleBarHeight: 32, ButtonWidth: 16, Inset: 8}
}

// Button is one title bar control.
type Button struct {
	Region Region
	Rect   window.Rect
}

// TitleRect returns the drag handle strip at the top of a frame.
func (c Chrome) TitleRect(f Frame) window.Rect {
	h := c.TitleBarHeight
	if h > f.Rect.Height {
		h = f.Rect.Height
	}
	return window.Rect{X: f.Rect.X, Y: f.Rect.Y, Width: f.Rect.Width, Height: h}
}

// ContentRect returns the area below the title bar handed to the hosted view.
func (c Chrome) ContentRect(f Frame) window.Rect {
	title := c.TitleRect(f)
	return window.Rect{
		X:      f.Rect.X,
		Y:      f.Rect.Y + title.Height,
		Width:  f.Rect.Width,
		Height: f.Rect.Height - title.Height,
	}
}

// Buttons lays out float, minimize, maximize and close, right aligned in
// the title bar. Buttons that do not fit are dropped from the left.
func (c Chrome) Buttons(f Frame) []Button {
	title := c.TitleRect(f)
	order := []Region{RegionClose, RegionMaximize, RegionMinimize, RegionFloat}
	out := make([]Button, 0, len(order))
	right := title.X + title.Width - c.Inset
	for _, region := range order {
		x := right - c.ButtonWidth
		if x < title.X+c.Inset {
			break
		}
		out = append(out, Button{
			Region: region,
			Rect:   window.Rect{X: x, Y: title.Y, Width: c.ButtonWidth, Height: title.Height},
		})
		right = x
	}
	// Left to right for drawing.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Hit describes what lies under a pointer position.
type Hit struct {
	Frame  Frame
	Region Region
}

// HitTest returns the topmost frame containing (x, y). frames must be in
// paint order as returned by Frames.
func (c Chrome) HitTest(frames []Frame, x, y int) (Hit, bool) {
	for i := len(frames) - 1; i >= 0; i-- {
		f := frames[i]
		if !f.Rect.Contains(x, y) {
			continue
		}
		if !c.TitleRect(f).Contains(x, y) {
			return Hit{Frame: f, Region: RegionBody}, true
		}
		for _, b := range c.Buttons(f) {
			if b.Rect.Contains(x, y) {
				return Hit{Frame: f, Region: b.Region}, true
			}
		}
		return Hit{Frame: f, Region: RegionTitle}, true
	}
	return Hit{}, false
}
