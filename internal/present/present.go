// Package present turns window records into on-screen frames.
//
// It holds no layout state: every call derives frames from the records and
// viewport it is given.
package present

import (
	"math"
	"sort"

	"github.com/1broseidon/opendoor/internal/tiling"
	"github.com/1broseidon/opendoor/internal/window"
)

// TopmostZ is the stacking rank of a maximized window.
const TopmostZ = math.MaxInt32

// Frame is the final geometry and stacking of one visible window.
type Frame struct {
	ID        window.ID   `json:"id"`
	Kind      window.Kind `json:"kind"`
	Title     string      `json:"title"`
	Rect      window.Rect `json:"rect"`
	Z         int         `json:"z"`
	Focused   bool        `json:"focused"`
	Maximized bool        `json:"maximized"`
	Floating  bool        `json:"floating"`
	Args      any         `json:"args,omitempty"`
}

// FrameFor computes where w is drawn. A maximized window covers the whole
// viewport from the origin and stacks above everything else; otherwise the
// stored geometry and z-order are used as is.
func FrameFor(w window.Window, focused bool, vp tiling.Viewport) Frame {
	f := Frame{
		ID:        w.ID,
		Kind:      w.Kind,
		Title:     w.Title,
		Rect:      w.Geometry,
		Z:         w.ZOrder,
		Focused:   focused,
		Maximized: w.Maximized,
		Floating:  w.Floating,
		Args:      w.Args,
	}
	if w.Maximized {
		f.Rect = window.Rect{X: 0, Y: 0, Width: vp.Width, Height: vp.Height}
		f.Z = TopmostZ
	}
	return f
}

// Frames returns frames for every non-minimized window in paint order,
// bottom first. Maximized windows paint last; among them, and among the
// rest, lower z paints first and ties keep store order.
func Frames(windows []window.Window, focused window.ID, vp tiling.Viewport) []Frame {
	frames := make([]Frame, 0, len(windows))
	zs := make([]int, 0, len(windows))
	for _, w := range windows {
		if !w.Visible() {
			continue
		}
		frames = append(frames, FrameFor(w, focused != "" && w.ID == focused, vp))
		zs = append(zs, w.ZOrder)
	}

	idx := make([]int, len(frames))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		fa, fb := frames[idx[a]], frames[idx[b]]
		if fa.Maximized != fb.Maximized {
			return !fa.Maximized
		}
		return zs[idx[a]] < zs[idx[b]]
	})

	out := make([]Frame, len(frames))
	for i, j := range idx {
		out[i] = frames[j]
	}
	return out
}
