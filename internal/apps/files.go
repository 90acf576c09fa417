package apps

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/1broseidon/opendoor/internal/window"
)

type fileEntry struct {
	name    string
	content string
}

func (f fileEntry) dir() bool { return !strings.Contains(f.name, ".") }

var homeEntries = []fileEntry{
	{name: "Documents"},
	{name: "Downloads"},
	{name: "Music"},
	{name: "Pictures"},
	{name: "project.txt", content: "Project notes\n\n- tile windows\n- ship the launcher"},
	{name: "todo.md", content: "# TODO\n\n- [ ] water plants\n- [x] install Open Door OS"},
}

type filesView struct {
	cursor int
	status string
}

func newFiles() *filesView { return &filesView{} }

func (v *filesView) Init() tea.Cmd { return nil }

func (v *filesView) Update(msg tea.Msg, ctx Context) (View, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, nil
	}
	switch key.String() {
	case "up", "k":
		if v.cursor > 0 {
			v.cursor--
		}
	case "down", "j":
		if v.cursor < len(homeEntries)-1 {
			v.cursor++
		}
	case "enter":
		entry := homeEntries[v.cursor]
		if entry.dir() {
			v.status = entry.name + " is empty"
			return v, nil
		}
		v.status = ""
		return v, launch(window.KindNotepad, NotepadArgs{Name: entry.name, Content: entry.content})
	}
	return v, nil
}

func (v *filesView) View(ctx Context) string {
	lines := []string{"/home/guest", ""}
	for i, e := range homeEntries {
		marker := "  "
		if i == v.cursor {
			marker = "> "
		}
		icon := "[f] "
		if e.dir() {
			icon = "[d] "
		}
		lines = append(lines, marker+icon+e.name)
	}
	if v.status != "" {
		lines = append(lines, "", v.status)
	}
	return fill(top(lines, ctx.Height), ctx.Width, ctx.Height)
}
