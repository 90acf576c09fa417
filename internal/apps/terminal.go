package apps

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/1broseidon/opendoor/internal/window"
)

const (
	terminalPrompt  = "guest@opendoor:~$ "
	responseTimeout = 30 * time.Second
)

var terminalBanner = []string{
	"Open Door OS [Version 1.0.0]",
	"(c) Open Door Corporation. All rights reserved.",
	"",
	`Type "help" for a list of commands or ask any question.`,
}

type terminalLine struct {
	command bool
	text    string
}

type terminalReply struct {
	text string
	err  error
}

type terminalView struct {
	env     Env
	input   textinput.Model
	lines   []terminalLine
	loading bool
}

func newTerminal(env Env) *terminalView {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 512
	ti.Focus()
	v := &terminalView{env: env, input: ti}
	v.reset()
	return v
}

func (v *terminalView) reset() {
	v.lines = v.lines[:0]
	for _, l := range terminalBanner {
		v.lines = append(v.lines, terminalLine{text: l})
	}
}

func (v *terminalView) Init() tea.Cmd { return nil }

func (v *terminalView) prompt() string {
	return strings.Replace(terminalPrompt, "guest", v.env.user(), 1)
}

func (v *terminalView) Update(msg tea.Msg, ctx Context) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case terminalReply:
		v.loading = false
		if msg.err != nil {
			v.lines = append(v.lines, terminalLine{text: "Error executing command."})
		} else if msg.text != "" {
			v.lines = append(v.lines, terminalLine{text: msg.text})
		}
		return v, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyEnter {
			return v, v.submit()
		}
		if v.loading {
			return v, nil
		}
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v *terminalView) submit() tea.Cmd {
	cmd := strings.TrimSpace(v.input.Value())
	v.input.Reset()
	if cmd == "" || v.loading {
		return nil
	}
	v.lines = append(v.lines, terminalLine{command: true, text: cmd})

	if cmd == "clear" {
		v.reset()
		return nil
	}

	out, launchKind, ok := runBuiltin(cmd, v.env)
	if ok {
		if launchKind != "" {
			kind, err := window.ParseKind(launchKind)
			if err != nil {
				v.lines = append(v.lines, terminalLine{text: "open: " + err.Error()})
				return nil
			}
			v.lines = append(v.lines, terminalLine{text: "Launching " + string(kind) + "..."})
			return launch(kind, nil)
		}
		if out != "" {
			v.lines = append(v.lines, terminalLine{text: out})
		}
		return nil
	}

	if v.env.Responder == nil {
		v.lines = append(v.lines, terminalLine{text: "bash: " + strings.Fields(cmd)[0] + ": command not found"})
		return nil
	}
	v.loading = true
	req := Request{Mode: ModeTerminal, Prompt: cmd, History: v.history(), User: v.env.user()}
	responder := v.env.Responder
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), responseTimeout)
		defer cancel()
		text, err := responder.Respond(ctx, req)
		return terminalReply{text: text, err: err}
	}
}

func (v *terminalView) history() []string {
	var out []string
	for _, l := range v.lines {
		if l.command {
			out = append(out, l.text)
		}
	}
	if len(out) > 10 {
		out = out[len(out)-10:]
	}
	return out
}

func (v *terminalView) View(ctx Context) string {
	var lines []string
	for _, l := range v.lines {
		text := l.text
		if l.command {
			text = v.prompt() + text
		}
		lines = append(lines, wrap(text, ctx.Width)...)
	}
	if v.loading {
		lines = append(lines, "Processing...")
	} else {
		lines = append(lines, wrap(cursorLine(v.prompt(), v.input.Value(), v.input.Position(), ctx.Active), ctx.Width)...)
	}
	return fill(lines, ctx.Width, ctx.Height)
}
