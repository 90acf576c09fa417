package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/opendoor/internal/session"
)

const installStep = 150 * time.Millisecond

type bootPhase int

const (
	phaseSetup bootPhase = iota
	phaseInstall
	phaseLogin
	phaseFailed
	phaseDone
)

type installTickMsg struct{}

var (
	bootBox   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("62")).Padding(1, 3)
	bootTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))
	bootError = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	bootDim   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	bootOK    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
)

// bootScreen drives account setup and login before the desktop appears.
type bootScreen struct {
	boot  *session.Boot
	phase bootPhase
	form  *huh.Form
	err   string

	username string
	password string
	confirm  string
	shown    int

	width, height int
}

func newBootScreen(b *session.Boot, skip bool) *bootScreen {
	s := &bootScreen{boot: b}
	if skip {
		b.Skip()
		s.phase = phaseDone
		return s
	}
	stage, err := b.Check()
	if err != nil {
		s.phase = phaseFailed
		s.err = err.Error()
		return s
	}
	switch stage {
	case session.StageSetup:
		s.phase = phaseSetup
		s.form = s.setupForm()
	default:
		s.phase = phaseLogin
		s.form = s.loginForm()
	}
	return s
}

func (s *bootScreen) done() bool { return s.phase == phaseDone }

// user is the name the desktop greets.
func (s *bootScreen) user() string {
	if u := s.boot.User(); u != nil {
		return u.Username
	}
	return ""
}

func (s *bootScreen) init() tea.Cmd {
	if s.form != nil {
		return s.form.Init()
	}
	return nil
}

func (s *bootScreen) formWidth() int {
	return min(max(s.width-12, 30), 50)
}

func (s *bootScreen) setupForm() *huh.Form {
	s.username, s.password, s.confirm = "", "", ""
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("username").
				Title("Username").
				Value(&s.username).
				Validate(required("username")),
			huh.NewInput().
				Key("password").
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&s.password).
				Validate(required("password")),
			huh.NewInput().
				Key("confirm").
				Title("Confirm password").
				EchoMode(huh.EchoModePassword).
				Value(&s.confirm).
				Validate(func(v string) error {
					if v != s.password {
						return errors.New("passwords do not match")
					}
					return nil
				}),
		),
	).WithWidth(s.formWidth()).WithShowHelp(false).WithShowErrors(true)
}

func (s *bootScreen) loginForm() *huh.Form {
	s.password = ""
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("password").
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&s.password),
		),
	).WithWidth(s.formWidth()).WithShowHelp(false)
}

func required(field string) func(string) error {
	return func(v string) error {
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

// update advances the boot screen. It reports true when the user aborted.
func (s *bootScreen) update(msg tea.Msg) (tea.Cmd, bool) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		s.width, s.height = ws.Width, ws.Height
	}

	switch s.phase {
	case phaseFailed:
		if _, ok := msg.(tea.KeyMsg); ok {
			s.boot.Skip()
			s.phase = phaseDone
		}
		return nil, false

	case phaseInstall:
		if _, ok := msg.(installTickMsg); !ok {
			return nil, false
		}
		return s.advanceInstall(), false
	}

	if s.form == nil {
		return nil, false
	}
	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}
	switch s.form.State {
	case huh.StateAborted:
		return nil, true
	case huh.StateCompleted:
		if s.phase == phaseSetup {
			return s.completeSetup(), false
		}
		return s.completeLogin(), false
	}
	return cmd, false
}

// completeSetup creates the account from the form fields and starts the
// install log.
func (s *bootScreen) completeSetup() tea.Cmd {
	if err := s.boot.Setup(strings.TrimSpace(s.username), s.password); err != nil {
		s.err = err.Error()
		s.form = s.setupForm()
		return s.form.Init()
	}
	s.err = ""
	s.form = nil
	s.phase = phaseInstall
	s.shown = 0
	return installTick()
}

func installTick() tea.Cmd {
	return tea.Tick(installStep, func(time.Time) tea.Msg { return installTickMsg{} })
}

func (s *bootScreen) advanceInstall() tea.Cmd {
	if s.shown < len(session.InstallLog) {
		s.shown++
		return installTick()
	}
	s.phase = phaseLogin
	s.form = s.loginForm()
	return s.form.Init()
}

// completeLogin checks the entered password. A wrong one shows an error
// and asks again.
func (s *bootScreen) completeLogin() tea.Cmd {
	err := s.boot.Login(s.password)
	s.password = ""
	if err != nil {
		if errors.Is(err, session.ErrBadPassword) {
			s.err = "Incorrect password"
		} else {
			s.err = err.Error()
		}
		s.form = s.loginForm()
		return s.form.Init()
	}
	s.err = ""
	s.form = nil
	s.phase = phaseDone
	return nil
}

func (s *bootScreen) view() string {
	var b strings.Builder
	switch s.phase {
	case phaseSetup:
		b.WriteString(bootTitle.Render("Welcome to Open Door OS"))
		b.WriteString("\n" + bootDim.Render("Create your account to continue.") + "\n\n")
		b.WriteString(s.form.View())
	case phaseInstall:
		b.WriteString(bootTitle.Render("Installing"))
		b.WriteString("\n\n")
		for _, line := range session.InstallLog[:s.shown] {
			b.WriteString(bootOK.Render("[ OK ] ") + line + "\n")
		}
		b.WriteString("\n" + progressBar(s.shown, len(session.InstallLog), 30))
	case phaseLogin:
		b.WriteString(bootTitle.Render("Open Door OS"))
		b.WriteString("\n" + bootDim.Render("Log in as "+s.user()) + "\n\n")
		b.WriteString(s.form.View())
	case phaseFailed:
		b.WriteString(bootTitle.Render("Open Door OS"))
		b.WriteString("\n\n" + bootError.Render("Could not read account: "+s.err))
		b.WriteString("\n\n" + bootDim.Render("Press any key to continue as guest."))
		return s.place(b.String())
	default:
		return ""
	}
	if s.err != "" {
		b.WriteString("\n" + bootError.Render(s.err))
	}
	return s.place(b.String())
}

func (s *bootScreen) place(content string) string {
	box := bootBox.Render(content)
	if s.width == 0 || s.height == 0 {
		return box
	}
	return lipgloss.Place(s.width, s.height, lipgloss.Center, lipgloss.Center, box)
}

func progressBar(done, total, width int) string {
	if total <= 0 {
		return ""
	}
	filled := done * width / total
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + fmt.Sprintf("] %3d%%", done*100/total)
}
