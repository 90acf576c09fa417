package apps

import (
	"net/url"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const browserHome = "https://www.google.com"

type browserView struct {
	address textinput.Model
	history []string
	pos     int
}

func newBrowser(args any) *browserView {
	start := browserHome
	if s, ok := args.(string); ok && s != "" {
		start = normalizeURL(s)
	}
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 2048
	ti.SetValue(start)
	ti.Focus()
	return &browserView{address: ti, history: []string{start}}
}

// normalizeURL prefixes bare hosts with https://.
func normalizeURL(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "http") {
		s = "https://" + s
	}
	return s
}

func (v *browserView) current() string { return v.history[v.pos] }

func (v *browserView) navigate(target string) {
	target = normalizeURL(target)
	v.history = append(v.history[:v.pos+1], target)
	v.pos = len(v.history) - 1
	v.address.SetValue(target)
}

func (v *browserView) Init() tea.Cmd { return nil }

func (v *browserView) Update(msg tea.Msg, ctx Context) (View, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, nil
	}
	switch key.String() {
	case "enter":
		if strings.TrimSpace(v.address.Value()) != "" {
			v.navigate(v.address.Value())
		}
		return v, nil
	case "alt+left":
		if v.pos > 0 {
			v.pos--
			v.address.SetValue(v.current())
		}
		return v, nil
	case "alt+right":
		if v.pos < len(v.history)-1 {
			v.pos++
			v.address.SetValue(v.current())
		}
		return v, nil
	case "alt+home":
		v.navigate(browserHome)
		return v, nil
	}
	var cmd tea.Cmd
	v.address, cmd = v.address.Update(key)
	return v, cmd
}

func (v *browserView) View(ctx Context) string {
	host := v.current()
	if u, err := url.Parse(host); err == nil && u.Host != "" {
		host = u.Host
	}
	lines := []string{
		"< > ⟳ " + cursorLine("", v.address.Value(), v.address.Position(), ctx.Active),
		strings.Repeat("─", max(ctx.Width, 0)),
		"",
		host,
		"",
	}
	lines = append(lines, wrap("This page cannot be rendered in a text desktop. alt+left/alt+right move through history, alt+home goes home.", ctx.Width)...)
	return fill(top(lines, ctx.Height), ctx.Width, ctx.Height)
}
