package apps

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

type settingsView struct {
	env Env
}

func newSettings(env Env) settingsView { return settingsView{env: env} }

func (v settingsView) Init() tea.Cmd { return nil }

func (v settingsView) Update(tea.Msg, Context) (View, tea.Cmd) { return v, nil }

func (v settingsView) View(ctx Context) string {
	lines := []string{
		"System Settings",
		"",
		"Personalization",
		"  Theme        Dark",
		"  Wallpaper    Open Door Default",
		"",
		"About",
		"  OS           Open Door OS 1.0.0",
		fmt.Sprintf("  User         %s", v.env.user()),
	}
	if v.env.Registry != nil {
		lines = append(lines, fmt.Sprintf("  Apps         %d installed", len(v.env.Registry.Entries())))
	}
	return fill(top(lines, ctx.Height), ctx.Width, ctx.Height)
}
