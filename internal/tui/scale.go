package tui

import (
	"github.com/1broseidon/opendoor/internal/window"
)

// scale converts between terminal cells and viewport pixels.
type scale struct {
	cellW, cellH int
}

func newScale(cellW, cellH int) scale {
	if cellW <= 0 {
		cellW = 8
	}
	if cellH <= 0 {
		cellH = 16
	}
	return scale{cellW: cellW, cellH: cellH}
}

// pixels returns the viewport size for a cols x rows terminal.
func (s scale) pixels(cols, rows int) (int, int) {
	return cols * s.cellW, rows * s.cellH
}

// point maps a cell to the pixel at its center.
func (s scale) point(col, row int) (int, int) {
	return col*s.cellW + s.cellW/2, row*s.cellH + s.cellH/2
}

// cellRect is a half-open range of cells.
type cellRect struct {
	x0, y0, x1, y1 int
}

func (r cellRect) width() int  { return r.x1 - r.x0 }
func (r cellRect) height() int { return r.y1 - r.y0 }

// cells maps a pixel rectangle to the cells it starts and ends in.
func (s scale) cells(r window.Rect) cellRect {
	return cellRect{
		x0: floorDiv(r.X, s.cellW),
		y0: floorDiv(r.Y, s.cellH),
		x1: floorDiv(r.X+r.Width, s.cellW),
		y1: floorDiv(r.Y+r.Height, s.cellH),
	}
}

// rows is how many terminal rows px pixels span.
func (s scale) rows(px int) int {
	return floorDiv(px, s.cellH)
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
