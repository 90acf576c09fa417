package tui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/1broseidon/opendoor/internal/apps"
	"github.com/1broseidon/opendoor/internal/input"
	"github.com/1broseidon/opendoor/internal/session"
	"github.com/1broseidon/opendoor/internal/window"
	"github.com/1broseidon/opendoor/internal/wm"
)

func newTestDesktop(t *testing.T) *desktop {
	t.Helper()
	n := 0
	d := newDesktop(desktopOptions{
		Now: func() time.Time { return time.Date(2026, 1, 5, 9, 30, 0, 0, time.UTC) },
		NewID: func() window.ID {
			n++
			return window.ID(fmt.Sprintf("w%d", n))
		},
	})
	// 125x50 cells is a 1000x800 viewport at 8x16.
	d.update(tea.WindowSizeMsg{Width: 125, Height: 50})
	return d
}

func alt(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}, Alt: true}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
}

func TestCanvas_TextClipsAndWideRunes(t *testing.T) {
	c := newCanvas(6, 2)
	end := c.text(0, 0, "hello world", paintContent, 4)
	if end != 4 {
		t.Fatalf("end = %d, want 4", end)
	}
	c.text(0, 1, "日本語", paintContent, c.width)
	got := c.plain()
	want := "hell  \n日本語"
	if got != want {
		t.Fatalf("plain = %q, want %q", got, want)
	}

	c = newCanvas(3, 1)
	c.text(0, 0, "a日本", paintContent, c.width)
	if got := c.plain(); got != "a日" {
		t.Fatalf("wide rune past the edge should be dropped, got %q", got)
	}
}

func TestCanvas_BoxAndFillClip(t *testing.T) {
	c := newCanvas(4, 3)
	c.fill(-5, -5, 50, 50, '.', paintWallpaper)
	c.box(0, 0, 4, 3, paintFrame)
	want := "┌──┐\n│..│\n└──┘"
	if got := c.plain(); got != want {
		t.Fatalf("plain = %q, want %q", got, want)
	}
}

func TestScale(t *testing.T) {
	s := newScale(0, 0)
	if s.cellW != 8 || s.cellH != 16 {
		t.Fatalf("default scale = %+v", s)
	}
	if w, h := s.pixels(125, 50); w != 1000 || h != 800 {
		t.Fatalf("pixels = %dx%d", w, h)
	}
	if x, y := s.point(2, 3); x != 20 || y != 56 {
		t.Fatalf("point = %d,%d", x, y)
	}
	r := s.cells(window.Rect{X: 10, Y: 48, Width: 980, Height: 742})
	if r != (cellRect{x0: 1, y0: 3, x1: 123, y1: 49}) {
		t.Fatalf("cells = %+v", r)
	}
	if got := floorDiv(-1, 8); got != -1 {
		t.Fatalf("floorDiv(-1, 8) = %d", got)
	}
}

func TestDesktop_ResizeSetsViewport(t *testing.T) {
	d := newTestDesktop(t)
	vp := d.ctrl.Viewport()
	if vp.Width != 1000 || vp.Height != 800 {
		t.Fatalf("viewport = %+v", vp)
	}
	if d.topRows != 3 {
		t.Fatalf("topRows = %d, want 3", d.topRows)
	}
}

func TestDesktop_LaunchMountsView(t *testing.T) {
	d := newTestDesktop(t)
	d.update(apps.LaunchMsg{Kind: window.KindTerminal})

	if _, ok := d.views["w1"]; !ok {
		t.Fatalf("terminal view not mounted")
	}
	w, ok := d.ctrl.Window("w1")
	if !ok {
		t.Fatalf("window missing")
	}
	if w.Geometry != (window.Rect{X: 10, Y: 48, Width: 980, Height: 742}) {
		t.Fatalf("geometry = %+v", w.Geometry)
	}

	out := d.paint().plain()
	if !strings.Contains(out, "Terminal") {
		t.Fatalf("frame title not drawn:\n%s", out)
	}
	if !strings.Contains(out, "guest@opendoor") {
		t.Fatalf("terminal prompt not drawn:\n%s", out)
	}
}

func TestDesktop_CloseDropsView(t *testing.T) {
	d := newTestDesktop(t)
	d.update(apps.LaunchMsg{Kind: window.KindTerminal})
	d.update(alt('q'))

	if len(d.views) != 0 {
		t.Fatalf("views = %d after close, want 0", len(d.views))
	}
	if len(d.ctrl.Windows()) != 0 {
		t.Fatalf("window not closed")
	}
}

func TestDesktop_LauncherKeys(t *testing.T) {
	d := newTestDesktop(t)

	d.update(alt('p'))
	if !d.handler.LauncherOpen() {
		t.Fatalf("launcher should open")
	}
	d.update(runes("text"))
	if got := d.launcher.input.Value(); got != "text" {
		t.Fatalf("query = %q", got)
	}
	d.update(tea.KeyMsg{Type: tea.KeyEnter})

	if d.handler.LauncherOpen() {
		t.Fatalf("launcher should close after launching")
	}
	if d.launcher.input.Value() != "" {
		t.Fatalf("query should reset when the launcher closes")
	}
	w, ok := d.ctrl.Window("w1")
	if !ok || w.Kind != window.KindNotepad {
		t.Fatalf("notepad not launched: %+v", d.ctrl.Windows())
	}
	if w.Title != "untitled.txt - Text Editor" {
		t.Fatalf("title = %q, want synced from the view", w.Title)
	}
}

func TestDesktop_LauncherEscapeCloses(t *testing.T) {
	d := newTestDesktop(t)
	d.update(alt('p'))
	d.update(runes("x"))
	d.update(tea.KeyMsg{Type: tea.KeyEscape})
	if d.handler.LauncherOpen() {
		t.Fatalf("escape should close the launcher")
	}
	if d.launcher.input.Value() != "" {
		t.Fatalf("query not reset")
	}
}

func TestDesktop_LauncherMouse(t *testing.T) {
	d := newTestDesktop(t)

	d.update(press(2, 0))
	if !d.handler.LauncherOpen() {
		t.Fatalf("clicking the status bar button should open the launcher")
	}

	box := d.launcher.box(d.cols, d.rows, d.topRows)
	first, _ := d.launcher.listRows(box)
	d.update(press(box.x0+3, first))

	if d.handler.LauncherOpen() {
		t.Fatalf("launcher should close after launching")
	}
	ws := d.ctrl.Windows()
	if len(ws) != 1 || ws[0].Kind != d.registry.Entries()[0].Kind {
		t.Fatalf("windows = %+v", ws)
	}
}

func TestDesktop_BackgroundClickBlurs(t *testing.T) {
	d := newTestDesktop(t)
	d.update(apps.LaunchMsg{Kind: window.KindTerminal})
	if _, ok := d.ctrl.Focused(); !ok {
		t.Fatalf("launched window should be focused")
	}
	d.update(press(60, 1))
	if id, ok := d.ctrl.Focused(); ok {
		t.Fatalf("focus = %s after background click", id)
	}
}

func TestDesktop_TitleButtons(t *testing.T) {
	d := newTestDesktop(t)
	d.update(apps.LaunchMsg{Kind: window.KindTerminal})
	f, ok := d.frame("w1")
	if !ok {
		t.Fatalf("frame missing")
	}

	var maxCol, closeCol int
	for _, b := range d.chrome.Buttons(f) {
		switch b.Region.String() {
		case "maximize":
			maxCol = d.buttonCol(b)
		case "close":
			closeCol = d.buttonCol(b)
		}
	}
	row := d.scale.cells(f.Rect).y0

	d.update(press(maxCol, row))
	w, _ := d.ctrl.Window("w1")
	if !w.Maximized {
		t.Fatalf("maximize button did not maximize")
	}

	// Maximized frames cover the viewport, so the buttons moved.
	f, _ = d.frame("w1")
	for _, b := range d.chrome.Buttons(f) {
		if b.Region.String() == "close" {
			closeCol = d.buttonCol(b)
		}
	}
	d.update(press(closeCol, d.scale.cells(f.Rect).y0))
	if len(d.ctrl.Windows()) != 0 {
		t.Fatalf("close button did not close")
	}
}

func TestDesktop_DragFloatingWindow(t *testing.T) {
	d := newTestDesktop(t)
	d.update(apps.LaunchMsg{Kind: window.KindTerminal})
	d.update(alt('f'))
	before, _ := d.ctrl.Window("w1")
	if !before.Floating {
		t.Fatalf("window should float")
	}

	d.update(press(10, 3))
	d.update(tea.MouseMsg{X: 20, Y: 5, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	d.update(tea.MouseMsg{X: 20, Y: 5, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})

	after, _ := d.ctrl.Window("w1")
	if after.Geometry.X != before.Geometry.X+80 || after.Geometry.Y != before.Geometry.Y+32 {
		t.Fatalf("moved from %+v to %+v", before.Geometry, after.Geometry)
	}
	if d.handler.Phase() != input.PhaseIdle {
		t.Fatalf("drag should end on release")
	}
}

func TestDesktop_BodyClickReachesView(t *testing.T) {
	d := newTestDesktop(t)
	d.update(apps.LaunchMsg{Kind: window.KindGame, Args: apps.GameArgs{GameID: "stardew", Title: "Stardew Valley"}})

	w, _ := d.ctrl.Window("w1")
	if w.Title != "Stardew Valley" {
		t.Fatalf("title = %q", w.Title)
	}
	f, _ := d.frame("w1")
	body := d.bodyCells(f)
	d.update(press(body.x0+1, body.y0+1))
	if _, ok := d.views["w1"]; !ok {
		t.Fatalf("view lost after click")
	}
}

func TestDesktop_RoutedMsgForClosedWindowIsDropped(t *testing.T) {
	d := newTestDesktop(t)
	if _, quit := d.update(apps.RoutedMsg{ID: "gone", Msg: "x"}); quit {
		t.Fatalf("unexpected quit")
	}
	if len(d.views) != 0 {
		t.Fatalf("views = %d", len(d.views))
	}
}

func TestDesktop_QuitKey(t *testing.T) {
	d := newTestDesktop(t)
	if _, quit := d.update(tea.KeyMsg{Type: tea.KeyCtrlC}); !quit {
		t.Fatalf("ctrl+c should quit")
	}
}

func TestDesktop_StatusBar(t *testing.T) {
	d := newTestDesktop(t)
	top := strings.Split(d.paint().plain(), "\n")[0]
	for _, want := range []string{"Apps", "09:30", "Mon Jan 5"} {
		if !strings.Contains(top, want) {
			t.Fatalf("status bar %q missing %q", top, want)
		}
	}

	d.update(apps.LaunchMsg{Kind: window.KindTerminal})
	d.update(alt('n'))
	top = strings.Split(d.paint().plain(), "\n")[0]
	if !strings.Contains(top, "▾1") {
		t.Fatalf("status bar %q should count minimized windows", top)
	}
}

func TestProgramExecutor_RunsOnDesktop(t *testing.T) {
	d := newTestDesktop(t)
	exec := newProgramExecutor(func(msg tea.Msg) { d.update(msg) }, make(chan struct{}))

	var id window.ID
	err := exec.Do(context.Background(), func(c *wm.Controller) {
		id = c.Launch(window.KindBrowser, nil)
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if id != "w1" {
		t.Fatalf("id = %q", id)
	}
	if _, ok := d.views[id]; !ok {
		t.Fatalf("IPC launched window has no view")
	}
}

func TestProgramExecutor_Closed(t *testing.T) {
	closed := make(chan struct{})
	close(closed)
	exec := newProgramExecutor(func(tea.Msg) {}, closed)
	err := exec.Do(context.Background(), func(*wm.Controller) {})
	if !errors.Is(err, ErrDesktopClosed) {
		t.Fatalf("err = %v, want ErrDesktopClosed", err)
	}
}

func TestProgramExecutor_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	exec := newProgramExecutor(func(tea.Msg) {}, make(chan struct{}))
	if err := exec.Do(ctx, func(*wm.Controller) {}); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
}

func TestProgramExecutor_AbandonedJobIsSkipped(t *testing.T) {
	d := newTestDesktop(t)
	queued := make(chan tea.Msg, 1)
	exec := newProgramExecutor(func(msg tea.Msg) { queued <- msg }, make(chan struct{}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := exec.Do(ctx, func(c *wm.Controller) { c.Launch(window.KindBrowser, nil) })
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}

	msg := (<-queued).(execMsg)
	d.update(msg)
	if n := len(d.ctrl.Windows()); n != 0 {
		t.Fatalf("abandoned request launched %d windows", n)
	}
	select {
	case <-msg.done:
	default:
		t.Fatalf("done should be closed after the desktop handled the request")
	}
}

func TestProgramExecutor_StartedJobReportsSuccess(t *testing.T) {
	d := newTestDesktop(t)
	exec := newProgramExecutor(func(msg tea.Msg) { d.update(msg) }, make(chan struct{}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	err := exec.Do(ctx, func(c *wm.Controller) {
		cancel()
		c.Launch(window.KindBrowser, nil)
	})
	if err != nil {
		t.Fatalf("Do() = %v, want nil for a request that ran", err)
	}
	if n := len(d.ctrl.Windows()); n != 1 {
		t.Fatalf("windows = %d, want 1", n)
	}
}

func TestBootScreen_SetupInstallLogin(t *testing.T) {
	store := session.NewStore(filepath.Join(t.TempDir(), "user.yaml"))
	s := newBootScreen(session.NewBoot(store), false)
	if s.phase != phaseSetup {
		t.Fatalf("phase = %d, want setup", s.phase)
	}

	s.username, s.password, s.confirm = "ada", "hunter2", "hunter2"
	if cmd := s.completeSetup(); cmd == nil {
		t.Fatalf("setup should start the install log")
	}
	if s.phase != phaseInstall {
		t.Fatalf("phase = %d, want install", s.phase)
	}
	for range session.InstallLog {
		s.update(installTickMsg{})
	}
	if s.shown != len(session.InstallLog) {
		t.Fatalf("shown = %d", s.shown)
	}
	s.update(installTickMsg{})
	if s.phase != phaseLogin {
		t.Fatalf("phase = %d, want login", s.phase)
	}

	s.password = "wrong"
	s.completeLogin()
	if s.phase != phaseLogin || s.err != "Incorrect password" {
		t.Fatalf("phase = %d err = %q after bad password", s.phase, s.err)
	}

	s.password = "hunter2"
	s.completeLogin()
	if !s.done() || s.user() != "ada" {
		t.Fatalf("done = %v user = %q", s.done(), s.user())
	}
}

func TestBootScreen_ExistingAccountGoesToLogin(t *testing.T) {
	store := session.NewStore(filepath.Join(t.TempDir(), "user.yaml"))
	if _, err := store.Create("ada", "pw"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	s := newBootScreen(session.NewBoot(store), false)
	if s.phase != phaseLogin {
		t.Fatalf("phase = %d, want login", s.phase)
	}
	if !strings.Contains(s.view(), "ada") {
		t.Fatalf("login view should name the user")
	}
}

func TestModel_SkipLoginGoesStraightToDesktop(t *testing.T) {
	store := session.NewStore(filepath.Join(t.TempDir(), "user.yaml"))
	d := newTestDesktop(t)
	m := newModel(newBootScreen(session.NewBoot(store), true), d)
	if m.boot != nil {
		t.Fatalf("boot screen should be gone")
	}
	if d.env.User != "guest" {
		t.Fatalf("user = %q", d.env.User)
	}
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatalf("ctrl+c should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("ctrl+c should return tea.Quit")
	}
}

func TestModel_ControllerRunsBehindBoot(t *testing.T) {
	store := session.NewStore(filepath.Join(t.TempDir(), "user.yaml"))
	d := newTestDesktop(t)
	m := newModel(newBootScreen(session.NewBoot(store), false), d)
	if m.boot == nil {
		t.Fatalf("setup should be shown for a fresh store")
	}

	done := make(chan struct{})
	m.Update(execMsg{fn: func(c *wm.Controller) { c.Launch(window.KindFiles, nil) }, done: done})
	select {
	case <-done:
	default:
		t.Fatalf("exec message not run during boot")
	}
	if len(d.ctrl.Windows()) != 1 {
		t.Fatalf("windows = %d", len(d.ctrl.Windows()))
	}
}
