package window

import (
	"fmt"
	"strings"
)

// ID identifies one open application instance for its whole lifetime.
type ID string

// Kind names the application hosted by a window.
type Kind string

const (
	KindTerminal Kind = "terminal"
	KindBrowser  Kind = "browser"
	KindNotepad  Kind = "notepad"
	KindSettings Kind = "settings"
	KindFiles    Kind = "files"
	KindChat     Kind = "chat"
	KindSocial   Kind = "social"
	KindSteam    Kind = "steam"
	KindGame     Kind = "game"
)

// Kinds returns every supported application kind in launcher order.
func Kinds() []Kind {
	return []Kind{
		KindTerminal,
		KindBrowser,
		KindNotepad,
		KindSettings,
		KindFiles,
		KindChat,
		KindSocial,
		KindSteam,
		KindGame,
	}
}

// Valid reports whether k is one of the supported kinds.
func (k Kind) Valid() bool {
	for _, known := range Kinds() {
		if k == known {
			return true
		}
	}
	return false
}

// ParseKind converts user input into a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !k.Valid() {
		return "", fmt.Errorf("unknown application kind %q", s)
	}
	return k, nil
}

// Rect represents a window position and size in viewport pixels
type Rect struct {
	X      int `json:"x" yaml:"x"`
	Y      int `json:"y" yaml:"y"`
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// Contains reports whether the point lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Center returns the midpoint of r.
func (r Rect) Center() (int, int) {
	return r.X + r.Width/2, r.Y + r.Height/2
}

func (r Rect) String() string {
	return fmt.Sprintf("%dx%d+%d+%d", r.Width, r.Height, r.X, r.Y)
}

// Window is the record kept for every open application instance.
//
// Geometry is owned by the layout engine while the window is tiled and by
// Move while it floats. It is stale while Minimized and ignored while
// Maximized.
type Window struct {
	ID        ID     `json:"id"`
	Kind      Kind   `json:"kind"`
	Title     string `json:"title"`
	Geometry  Rect   `json:"geometry"`
	ZOrder    int    `json:"z_order"`
	Minimized bool   `json:"minimized"`
	Maximized bool   `json:"maximized"`
	Floating  bool   `json:"floating"`
	Args      any    `json:"args,omitempty"`
}

// Tiled reports whether the layout engine owns w's geometry.
func (w Window) Tiled() bool {
	return !w.Minimized && !w.Floating
}

// Visible reports whether w is drawn at all.
func (w Window) Visible() bool {
	return !w.Minimized
}
