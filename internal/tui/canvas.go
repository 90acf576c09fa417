package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// paint is the style class of a canvas cell.
type paint uint8

const (
	paintWallpaper paint = iota
	paintStatus
	paintStatusAccent
	paintFrame
	paintFrameFocused
	paintTitle
	paintTitleFocused
	paintButton
	paintClose
	paintContent
	paintLauncher
	paintLauncherSelected
	paintLauncherDim
)

var paints = map[paint]lipgloss.Style{
	paintWallpaper:        lipgloss.NewStyle().Background(lipgloss.Color("17")).Foreground(lipgloss.Color("60")),
	paintStatus:           lipgloss.NewStyle().Background(lipgloss.Color("236")).Foreground(lipgloss.Color("252")),
	paintStatusAccent:     lipgloss.NewStyle().Background(lipgloss.Color("62")).Foreground(lipgloss.Color("15")).Bold(true),
	paintFrame:            lipgloss.NewStyle().Background(lipgloss.Color("234")).Foreground(lipgloss.Color("240")),
	paintFrameFocused:     lipgloss.NewStyle().Background(lipgloss.Color("234")).Foreground(lipgloss.Color("62")),
	paintTitle:            lipgloss.NewStyle().Background(lipgloss.Color("238")).Foreground(lipgloss.Color("250")),
	paintTitleFocused:     lipgloss.NewStyle().Background(lipgloss.Color("62")).Foreground(lipgloss.Color("15")).Bold(true),
	paintButton:           lipgloss.NewStyle().Background(lipgloss.Color("238")).Foreground(lipgloss.Color("15")),
	paintClose:            lipgloss.NewStyle().Background(lipgloss.Color("238")).Foreground(lipgloss.Color("203")).Bold(true),
	paintContent:          lipgloss.NewStyle().Background(lipgloss.Color("234")).Foreground(lipgloss.Color("252")),
	paintLauncher:         lipgloss.NewStyle().Background(lipgloss.Color("237")).Foreground(lipgloss.Color("252")),
	paintLauncherSelected: lipgloss.NewStyle().Background(lipgloss.Color("62")).Foreground(lipgloss.Color("15")),
	paintLauncherDim:      lipgloss.NewStyle().Background(lipgloss.Color("237")).Foreground(lipgloss.Color("241")),
}

type cell struct {
	r rune // 0 marks the right half of a wide rune
	p paint
}

// canvas is a grid of styled runes, one per terminal cell.
type canvas struct {
	width, height int
	cells         [][]cell
}

func newCanvas(width, height int) *canvas {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	c := &canvas{width: width, height: height, cells: make([][]cell, height)}
	for y := range c.cells {
		c.cells[y] = make([]cell, width)
		for x := range c.cells[y] {
			c.cells[y][x] = cell{r: ' '}
		}
	}
	return c
}

func (c *canvas) in(x, y int) bool {
	return x >= 0 && y >= 0 && x < c.width && y < c.height
}

// fill paints the rectangle [x0,x1)x[y0,y1) with r.
func (c *canvas) fill(x0, y0, x1, y1 int, r rune, p paint) {
	for y := max(y0, 0); y < min(y1, c.height); y++ {
		for x := max(x0, 0); x < min(x1, c.width); x++ {
			c.cells[y][x] = cell{r: r, p: p}
		}
	}
}

func (c *canvas) set(x, y int, r rune, p paint) {
	if c.in(x, y) {
		c.cells[y][x] = cell{r: r, p: p}
	}
}

// text writes s from (x, y), clipped at limit (exclusive). Wide runes take
// two cells and are dropped when only one is left. It returns the column
// after the last written cell.
func (c *canvas) text(x, y int, s string, p paint, limit int) int {
	if limit > c.width {
		limit = c.width
	}
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if x+w > limit {
			break
		}
		if c.in(x, y) {
			c.cells[y][x] = cell{r: r, p: p}
			if w == 2 && c.in(x+1, y) {
				c.cells[y][x+1] = cell{r: 0, p: p}
			}
		}
		x += w
	}
	return x
}

// box draws a single line border around [x0,x1)x[y0,y1).
func (c *canvas) box(x0, y0, x1, y1 int, p paint) {
	if x1-x0 < 2 || y1-y0 < 2 {
		return
	}
	for x := x0 + 1; x < x1-1; x++ {
		c.set(x, y0, '─', p)
		c.set(x, y1-1, '─', p)
	}
	for y := y0 + 1; y < y1-1; y++ {
		c.set(x0, y, '│', p)
		c.set(x1-1, y, '│', p)
	}
	c.set(x0, y0, '┌', p)
	c.set(x1-1, y0, '┐', p)
	c.set(x0, y1-1, '└', p)
	c.set(x1-1, y1-1, '┘', p)
}

// plain returns the canvas without styling, one line per row.
func (c *canvas) plain() string {
	lines := make([]string, c.height)
	for y, row := range c.cells {
		var sb strings.Builder
		for _, cl := range row {
			if cl.r != 0 {
				sb.WriteRune(cl.r)
			}
		}
		lines[y] = sb.String()
	}
	return strings.Join(lines, "\n")
}

// render styles runs of equally painted cells.
func (c *canvas) render() string {
	lines := make([]string, c.height)
	for y, row := range c.cells {
		var sb strings.Builder
		var run strings.Builder
		cur := paint(0)
		flush := func() {
			if run.Len() > 0 {
				sb.WriteString(paints[cur].Render(run.String()))
				run.Reset()
			}
		}
		for x, cl := range row {
			if x == 0 || cl.p != cur {
				flush()
				cur = cl.p
			}
			if cl.r != 0 {
				run.WriteRune(cl.r)
			}
		}
		flush()
		lines[y] = sb.String()
	}
	return strings.Join(lines, "\n")
}
