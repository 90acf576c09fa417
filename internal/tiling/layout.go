package tiling

import (
	"math"

	"github.com/1broseidon/opendoor/internal/config"
	"github.com/1broseidon/opendoor/internal/window"
)

// Viewport is the drawable area in pixels.
type Viewport struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Metrics are the fixed layout constants.
type Metrics struct {
	Mode        config.LayoutMode
	Margin      int
	Gap         int
	TopReserved int
}

// DefaultMetrics returns master-stack with a 10px margin and gap under a 48px
// status bar.
func DefaultMetrics() Metrics {
	return Metrics{
		Mode:        config.LayoutModeMasterStack,
		Margin:      config.DefaultMargin,
		Gap:         config.DefaultGap,
		TopReserved: config.DefaultTopReserved,
	}
}

// MetricsFromConfig extracts layout metrics from the effective config.
func MetricsFromConfig(l config.Layout) Metrics {
	return Metrics{
		Mode:        l.Mode,
		Margin:      l.Margin,
		Gap:         l.Gap,
		TopReserved: l.TopReserved,
	}
}

// Available returns the work area tiled windows share, anchored at
// (Margin, TopReserved).
func Available(vp Viewport, m Metrics) window.Rect {
	return window.Rect{
		X:      m.Margin,
		Y:      m.TopReserved,
		Width:  clamp(vp.Width - 2*m.Margin),
		Height: clamp(vp.Height - m.TopReserved - m.Margin),
	}
}

// Layout returns a copy of windows with geometry recomputed for the tiled
// subset (non-minimized, non-floating). Every other entry passes through
// untouched and the input order is preserved. Layout has no hidden state.
func Layout(windows []window.Window, vp Viewport, m Metrics) []window.Window {
	out := make([]window.Window, len(windows))
	copy(out, windows)

	var tiled []int
	for i := range out {
		if out[i].Tiled() {
			tiled = append(tiled, i)
		}
	}
	if len(tiled) == 0 {
		return out
	}

	area := Available(vp, m)
	var positions []window.Rect
	switch m.Mode {
	case config.LayoutModeGrid:
		positions = CalculateGridPositions(len(tiled), area, m.Gap)
	default:
		positions = CalculateMasterStack(len(tiled), area, m.Gap)
	}

	for slot, idx := range tiled {
		out[idx].Geometry = positions[slot]
	}
	return out
}

// CalculateMasterStack computes n slots: slot 0 is the master on the left
// half, the rest split the right half top to bottom.
func CalculateMasterStack(n int, area window.Rect, gap int) []window.Rect {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []window.Rect{area}
	}

	half := area.Width / 2
	paneWidth := clamp(half - gap/2)
	stackX := area.X + half

	stackCount := n - 1
	stackHeight := clamp((area.Height - (stackCount-1)*gap) / stackCount)

	positions := make([]window.Rect, n)
	positions[0] = window.Rect{
		X:      area.X,
		Y:      area.Y,
		Width:  paneWidth,
		Height: area.Height,
	}
	for i := 0; i < stackCount; i++ {
		positions[i+1] = window.Rect{
			X:      stackX,
			Y:      area.Y + i*(stackHeight+gap),
			Width:  paneWidth,
			Height: stackHeight,
		}
	}
	return positions
}

// CalculateGrid determines the grid dimensions for the given number of windows
func CalculateGrid(numWindows int) (rows, cols int) {
	if numWindows <= 0 {
		return 0, 0
	}
	cols = int(math.Ceil(math.Sqrt(float64(numWindows))))
	rows = int(math.Ceil(float64(numWindows) / float64(cols)))
	return rows, cols
}

// CalculateGridPositions arranges n slots row-major inside area with gap
// between cells. The work area already carries the outer margin.
func CalculateGridPositions(n int, area window.Rect, gap int) []window.Rect {
	if n <= 0 {
		return nil
	}
	rows, cols := CalculateGrid(n)

	cellWidth := clamp((area.Width - (cols-1)*gap) / cols)
	cellHeight := clamp((area.Height - (rows-1)*gap) / rows)

	positions := make([]window.Rect, n)
	for i := 0; i < n; i++ {
		row := i / cols
		col := i % cols
		positions[i] = window.Rect{
			X:      area.X + col*(cellWidth+gap),
			Y:      area.Y + row*(cellHeight+gap),
			Width:  cellWidth,
			Height: cellHeight,
		}
	}
	return positions
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
