package apps

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type chatMessage struct {
	fromUser bool
	text     string
}

type chatReplyMsg struct {
	text string
	err  error
}

type chatView struct {
	env      Env
	input    textinput.Model
	messages []chatMessage
	waiting  bool
}

func newChat(env Env) *chatView {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = "Message Open Door AI..."
	ti.CharLimit = 1000
	ti.Focus()
	return &chatView{
		env:   env,
		input: ti,
		messages: []chatMessage{
			{text: "Hi " + env.user() + "! How can I help you today?"},
		},
	}
}

func (v *chatView) Init() tea.Cmd { return nil }

func (v *chatView) Update(msg tea.Msg, ctx Context) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case chatReplyMsg:
		v.waiting = false
		if msg.err != nil {
			v.messages = append(v.messages, chatMessage{text: "Sorry, something went wrong: " + msg.err.Error()})
		} else {
			v.messages = append(v.messages, chatMessage{text: msg.text})
		}
	case tea.KeyMsg:
		if msg.Type == tea.KeyEnter {
			return v, v.send()
		}
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v *chatView) send() tea.Cmd {
	text := strings.TrimSpace(v.input.Value())
	if text == "" || v.waiting {
		return nil
	}
	v.input.Reset()
	v.messages = append(v.messages, chatMessage{fromUser: true, text: text})
	if v.env.Responder == nil {
		v.messages = append(v.messages, chatMessage{text: "The assistant is unavailable."})
		return nil
	}
	v.waiting = true
	req := Request{Mode: ModeChat, Prompt: text, History: v.history(), User: v.env.user()}
	responder := v.env.Responder
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), responseTimeout)
		defer cancel()
		reply, err := responder.Respond(ctx, req)
		return chatReplyMsg{text: reply, err: err}
	}
}

func (v *chatView) history() []string {
	out := make([]string, 0, len(v.messages))
	for _, m := range v.messages {
		who := "assistant"
		if m.fromUser {
			who = "user"
		}
		out = append(out, who+": "+m.text)
	}
	return out
}

func (v *chatView) View(ctx Context) string {
	var lines []string
	for _, m := range v.messages {
		prefix := "AI  "
		if m.fromUser {
			prefix = "You "
		}
		for i, l := range wrap(m.text, ctx.Width-len(prefix)) {
			if i == 0 {
				lines = append(lines, prefix+l)
			} else {
				lines = append(lines, "    "+l)
			}
		}
		lines = append(lines, "")
	}
	if v.waiting {
		lines = append(lines, "AI  ...")
	}
	body := ctx.Height - 2
	if body < 0 {
		body = 0
	}
	if len(lines) > body {
		lines = lines[len(lines)-body:]
	}
	for len(lines) < body {
		lines = append(lines, "")
	}
	lines = append(lines, strings.Repeat("─", max(ctx.Width, 0)))
	if v.input.Value() == "" && !ctx.Active {
		lines = append(lines, v.input.Placeholder)
	} else {
		lines = append(lines, cursorLine("> ", v.input.Value(), v.input.Position(), ctx.Active))
	}
	return fill(lines, ctx.Width, ctx.Height)
}
