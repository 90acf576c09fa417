package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/1broseidon/opendoor/internal/apps"
	"github.com/1broseidon/opendoor/internal/window"
)

const (
	launcherWidth   = 44
	launcherChrome  = 6 // border, header, input, separator, help
	launcherMinRows = 8
)

// launcher is the searchable application menu.
type launcher struct {
	input    textinput.Model
	registry *apps.Registry
	selected int
}

func newLauncher(registry *apps.Registry) launcher {
	ti := textinput.New()
	ti.Placeholder = "Search apps..."
	ti.Prompt = ""
	ti.CharLimit = 32
	ti.Focus()
	return launcher{input: ti, registry: registry}
}

func (l *launcher) reset() {
	l.input.SetValue("")
	l.selected = 0
}

func (l launcher) results() []apps.Entry {
	return l.registry.Filter(l.input.Value())
}

// update handles a key while the launcher is open and reports the kind to
// launch when one was chosen.
func (l *launcher) update(msg tea.KeyMsg) (window.Kind, bool, tea.Cmd) {
	results := l.results()
	switch msg.String() {
	case "up", "ctrl+p":
		if l.selected > 0 {
			l.selected--
		}
		return "", false, nil
	case "down", "ctrl+n", "tab":
		if l.selected < len(results)-1 {
			l.selected++
		}
		return "", false, nil
	case "enter":
		if len(results) == 0 {
			return "", false, nil
		}
		return results[min(l.selected, len(results)-1)].Kind, true, nil
	}

	var cmd tea.Cmd
	before := l.input.Value()
	l.input, cmd = l.input.Update(msg)
	if l.input.Value() != before {
		l.selected = 0
	}
	return "", false, cmd
}

// box is the overlay position for a cols x rows screen, below the status
// bar.
func (l launcher) box(cols, rows, top int) cellRect {
	w := min(launcherWidth, cols)
	h := min(len(l.registry.Entries())+launcherChrome, rows-top)
	if h < launcherMinRows {
		h = min(launcherMinRows, rows-top)
	}
	return cellRect{x0: 0, y0: top, x1: w, y1: top + h}
}

func (l launcher) listRows(r cellRect) (int, int) {
	return r.y0 + 4, r.y1 - 2
}

// itemAt returns the entry drawn at the given cell.
func (l launcher) itemAt(r cellRect, col, row int) (window.Kind, bool) {
	if col <= r.x0 || col >= r.x1-1 {
		return "", false
	}
	first, last := l.listRows(r)
	if row < first || row >= last {
		return "", false
	}
	results := l.results()
	i := row - first
	if i >= len(results) {
		return "", false
	}
	return results[i].Kind, true
}

func (l launcher) draw(c *canvas, r cellRect, help string) {
	if r.width() < 4 || r.height() < 4 {
		return
	}
	c.fill(r.x0, r.y0, r.x1, r.y1, ' ', paintLauncher)
	c.box(r.x0, r.y0, r.x1, r.y1, paintLauncher)
	right := r.x1 - 1

	c.text(r.x0+2, r.y0+1, "Open Door", paintStatusAccent, right)

	query := l.input.Value()
	if query == "" {
		c.text(r.x0+2, r.y0+2, "█"+l.input.Placeholder, paintLauncherDim, right)
	} else {
		pos := l.input.Position()
		c.text(r.x0+2, r.y0+2, cursorAt(query, pos), paintLauncher, right)
	}
	c.text(r.x0+1, r.y0+3, strings.Repeat("─", max(r.width()-2, 0)), paintLauncherDim, right)

	first, last := l.listRows(r)
	results := l.results()
	if len(results) == 0 {
		c.text(r.x0+2, first, "No apps found.", paintLauncherDim, right)
	}
	for i, entry := range results {
		row := first + i
		if row >= last {
			break
		}
		p := paintLauncher
		if i == l.selected {
			p = paintLauncherSelected
			c.fill(r.x0+1, row, right, row+1, ' ', p)
		}
		c.text(r.x0+2, row, padIcon(entry.Icon)+" "+entry.Title, p, right)
	}

	c.text(r.x0+2, r.y1-2, help, paintLauncherDim, right)
}

func cursorAt(s string, pos int) string {
	runes := []rune(s)
	if pos < 0 || pos > len(runes) {
		pos = len(runes)
	}
	return string(runes[:pos]) + "█" + string(runes[pos:])
}

func padIcon(icon string) string {
	for len([]rune(icon)) < 2 {
		icon = " " + icon
	}
	return icon
}
