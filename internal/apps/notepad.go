package apps

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// NotepadArgs opens the editor on existing content.
type NotepadArgs struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

const notepadWelcome = "Welcome to Open Door Text Editor.\n\nStart typing..."

// notepadView is a minimal line editor. A textarea would bring its own
// viewport and styling; the desktop owns both here.
type notepadView struct {
	name  string
	lines [][]rune
	row   int
	col   int
	off   int
	dirty bool
}

func newNotepad(args any) *notepadView {
	v := &notepadView{name: "untitled.txt"}
	content := notepadWelcome
	switch a := args.(type) {
	case NotepadArgs:
		if a.Name != "" {
			v.name = a.Name
		}
		content = a.Content
	case *NotepadArgs:
		if a != nil {
			if a.Name != "" {
				v.name = a.Name
			}
			content = a.Content
		}
	case string:
		content = a
	case map[string]any:
		if s, ok := a["name"].(string); ok && s != "" {
			v.name = s
		}
		if s, ok := a["content"].(string); ok {
			content = s
		}
	}
	for _, l := range strings.Split(content, "\n") {
		v.lines = append(v.lines, []rune(l))
	}
	return v
}

func (v *notepadView) Init() tea.Cmd { return nil }

// Text returns the buffer contents.
func (v *notepadView) Text() string {
	parts := make([]string, len(v.lines))
	for i, l := range v.lines {
		parts[i] = string(l)
	}
	return strings.Join(parts, "\n")
}

func (v *notepadView) Update(msg tea.Msg, ctx Context) (View, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, nil
	}
	line := v.lines[v.row]
	switch key.Type {
	case tea.KeyRunes, tea.KeySpace:
		r := key.Runes
		if key.Type == tea.KeySpace {
			r = []rune{' '}
		}
		v.lines[v.row] = append(line[:v.col:v.col], append(append([]rune{}, r...), line[v.col:]...)...)
		v.col += len(r)
		v.dirty = true
	case tea.KeyEnter:
		rest := append([]rune{}, line[v.col:]...)
		v.lines[v.row] = line[:v.col]
		v.lines = append(v.lines[:v.row+1], append([][]rune{rest}, v.lines[v.row+1:]...)...)
		v.row++
		v.col = 0
		v.dirty = true
	case tea.KeyBackspace:
		switch {
		case v.col > 0:
			v.lines[v.row] = append(line[:v.col-1:v.col-1], line[v.col:]...)
			v.col--
			v.dirty = true
		case v.row > 0:
			prev := v.lines[v.row-1]
			v.col = len(prev)
			v.lines[v.row-1] = append(prev[:len(prev):len(prev)], line...)
			v.lines = append(v.lines[:v.row], v.lines[v.row+1:]...)
			v.row--
			v.dirty = true
		}
	case tea.KeyLeft:
		if v.col > 0 {
			v.col--
		} else if v.row > 0 {
			v.row--
			v.col = len(v.lines[v.row])
		}
	case tea.KeyRight:
		if v.col < len(line) {
			v.col++
		} else if v.row < len(v.lines)-1 {
			v.row++
			v.col = 0
		}
	case tea.KeyUp:
		if v.row > 0 {
			v.row--
			v.col = min(v.col, len(v.lines[v.row]))
		}
	case tea.KeyDown:
		if v.row < len(v.lines)-1 {
			v.row++
			v.col = min(v.col, len(v.lines[v.row]))
		}
	case tea.KeyHome:
		v.col = 0
	case tea.KeyEnd:
		v.col = len(line)
	}
	v.scroll(ctx.Height - 1)
	return v, nil
}

func (v *notepadView) scroll(height int) {
	if height <= 0 {
		return
	}
	if v.row < v.off {
		v.off = v.row
	}
	if v.row >= v.off+height {
		v.off = v.row - height + 1
	}
}

func (v *notepadView) View(ctx Context) string {
	mark := ""
	if v.dirty {
		mark = " *"
	}
	status := fmt.Sprintf("%s%s  Ln %d, Col %d", v.name, mark, v.row+1, v.col+1)
	lines := []string{status}
	for i := v.off; i < len(v.lines); i++ {
		text := string(v.lines[i])
		if i == v.row {
			text = cursorLine("", text, v.col, ctx.Active)
		}
		lines = append(lines, text)
	}
	return fill(top(lines, ctx.Height), ctx.Width, ctx.Height)
}

func (v *notepadView) Title() string {
	if v.dirty {
		return v.name + " * - Text Editor"
	}
	return v.name + " - Text Editor"
}
