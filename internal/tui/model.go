package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/1broseidon/opendoor/internal/apps"
)

// model is the root bubbletea model: the boot screen until login
// completes, then the desktop.
type model struct {
	boot *bootScreen
	desk *desktop
}

func newModel(boot *bootScreen, desk *desktop) *model {
	m := &model{boot: boot, desk: desk}
	m.finishBoot()
	return m
}

func (m *model) finishBoot() {
	if m.boot == nil || !m.boot.done() {
		return
	}
	if user := m.boot.user(); user != "" {
		m.desk.env.User = user
	}
	m.boot = nil
}

// Init implements tea.Model.
func (m *model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.desk.init()}
	if m.boot != nil {
		cmds = append(cmds, m.boot.init())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok && km.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.boot == nil {
		cmd, quit := m.desk.update(msg)
		if quit {
			return m, tea.Quit
		}
		return m, cmd
	}

	// Window management keeps running behind the boot screen so IPC
	// clients are served.
	switch msg.(type) {
	case execMsg, clockMsg, apps.RoutedMsg, apps.LaunchMsg:
		cmd, _ := m.desk.update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		m.desk.update(msg)
	}

	cmd, abort := m.boot.update(msg)
	if abort {
		return m, tea.Quit
	}
	m.finishBoot()
	return m, cmd
}

// View implements tea.Model.
func (m *model) View() string {
	if m.boot != nil {
		return m.boot.view()
	}
	return m.desk.view()
}
