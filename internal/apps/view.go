package apps

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/1broseidon/opendoor/internal/window"
)

// Context is what a hosted view knows about its window: the id, whether it
// has focus, and the cell area it must fill.
type Context struct {
	ID     window.ID
	Active bool
	Width  int
	Height int
}

// View is a mock application mounted in a window. View output is plain
// text; the desktop applies window styling around it.
type View interface {
	Init() tea.Cmd
	Update(msg tea.Msg, ctx Context) (View, tea.Cmd)
	View(ctx Context) string
}

// Titler is implemented by views whose window title follows their
// content.
type Titler interface {
	Title() string
}

// Env is shared by every view.
type Env struct {
	User      string
	Responder Responder
	Now       func() time.Time
	Registry  *Registry
}

func (e Env) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e Env) user() string {
	if e.User == "" {
		return "guest"
	}
	return e.User
}

// LaunchMsg asks the desktop to open another application.
type LaunchMsg struct {
	Kind window.Kind
	Args any
}

// RoutedMsg carries an asynchronous result back to the window that asked
// for it.
type RoutedMsg struct {
	ID  window.ID
	Msg tea.Msg
}

// Route tags every message cmd produces with id. LaunchMsg passes through
// untagged since the desktop handles it.
func Route(id window.ID, cmd tea.Cmd) tea.Cmd {
	if cmd == nil {
		return nil
	}
	return func() tea.Msg {
		msg := cmd()
		switch m := msg.(type) {
		case nil:
			return nil
		case LaunchMsg:
			return m
		case tea.BatchMsg:
			routed := make(tea.BatchMsg, len(m))
			for i, c := range m {
				routed[i] = Route(id, c)
			}
			return routed
		default:
			return RoutedMsg{ID: id, Msg: msg}
		}
	}
}

func launch(kind window.Kind, args any) tea.Cmd {
	return func() tea.Msg { return LaunchMsg{Kind: kind, Args: args} }
}

// NewView constructs the view for kind. Every kind has exactly one view.
func NewView(kind window.Kind, args any, env Env) View {
	switch kind {
	case window.KindTerminal:
		return newTerminal(env)
	case window.KindBrowser:
		return newBrowser(args)
	case window.KindNotepad:
		return newNotepad(args)
	case window.KindSettings:
		return newSettings(env)
	case window.KindFiles:
		return newFiles()
	case window.KindChat:
		return newChat(env)
	case window.KindSocial:
		return newSocial(env)
	case window.KindSteam:
		return newSteam()
	case window.KindGame:
		return newGame(args)
	default:
		return missingView{kind: kind}
	}
}

type missingView struct{ kind window.Kind }

func (missingView) Init() tea.Cmd { return nil }

func (v missingView) Update(tea.Msg, Context) (View, tea.Cmd) { return v, nil }

func (v missingView) View(ctx Context) string {
	return fill([]string{"no view for " + string(v.kind)}, ctx.Width, ctx.Height)
}

// fill clips or pads lines to exactly width x height cells, keeping the
// last height lines when there are too many.
func fill(lines []string, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	if len(lines) > height {
		lines = lines[len(lines)-height:]
	}
	out := make([]string, height)
	for i := 0; i < height; i++ {
		line := ""
		if i < len(lines) {
			line = ansi.Truncate(ansi.Strip(lines[i]), width, "…")
		}
		if pad := width - ansi.StringWidth(line); pad > 0 {
			line += strings.Repeat(" ", pad)
		}
		out[i] = line
	}
	return strings.Join(out, "\n")
}

// top keeps the first height lines, for views that scroll by offset.
func top(lines []string, height int) []string {
	if len(lines) > height {
		return lines[:height]
	}
	return lines
}

// wrap breaks s into lines no wider than width.
func wrap(s string, width int) []string {
	if width <= 0 {
		return nil
	}
	var out []string
	for _, para := range strings.Split(s, "\n") {
		wrapped := ansi.Wrap(para, width, "")
		out = append(out, strings.Split(wrapped, "\n")...)
	}
	return out
}

func cursorLine(prompt, value string, pos int, active bool) string {
	if !active {
		return prompt + value
	}
	runes := []rune(value)
	if pos < 0 || pos > len(runes) {
		pos = len(runes)
	}
	return prompt + string(runes[:pos]) + "█" + string(runes[pos:])
}
