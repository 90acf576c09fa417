package tui

import (
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/1broseidon/opendoor/internal/apps"
	"github.com/1broseidon/opendoor/internal/config"
	"github.com/1broseidon/opendoor/internal/input"
	"github.com/1broseidon/opendoor/internal/present"
	"github.com/1broseidon/opendoor/internal/window"
	"github.com/1broseidon/opendoor/internal/wm"
)

// launcherButton is the width of the status bar button that opens the
// launcher.
const launcherButton = 9

// mousePointer is the id of the terminal's only pointer.
const mousePointer = 1

// execMsg runs fn against the controller on the UI goroutine. done is
// closed once the views have caught up.
type execMsg struct {
	fn   func(*wm.Controller)
	done chan struct{}
}

type clockMsg time.Time

// desktop owns the controller and the views mounted in its windows. It is
// only touched from the bubbletea event loop.
type desktop struct {
	ctrl     *wm.Controller
	handler  *input.Handler
	keys     input.KeyMap
	help     help.Model
	registry *apps.Registry
	env      apps.Env
	chrome   present.Chrome
	scale    scale
	topRows  int
	views    map[window.ID]apps.View
	launcher launcher
	logger   *slog.Logger
	now      func() time.Time

	cols, rows int
}

type desktopOptions struct {
	Config   *config.Config
	Registry *apps.Registry
	Env      apps.Env
	Logger   *slog.Logger
	Now      func() time.Time
	NewID    func() window.ID
}

func newDesktop(opts desktopOptions) *desktop {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	registry := opts.Registry
	if registry == nil {
		registry = apps.NewRegistry(cfg.Apps)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	chrome := present.DefaultChrome()
	if cfg.Layout.TitleBarHeight > 0 {
		chrome.TitleBarHeight = cfg.Layout.TitleBarHeight
	}

	sc := newScale(cfg.Viewport.CellWidth, cfg.Viewport.CellHeight)
	wmOpts := wm.OptionsFromConfig(cfg, logger)
	if opts.NewID != nil {
		wmOpts.NewID = opts.NewID
	}
	ctrl := wm.New(registry, wmOpts)
	keys := input.NewKeyMap(cfg.Keys)

	env := opts.Env
	env.Registry = registry
	if env.Now == nil {
		env.Now = now
	}

	return &desktop{
		ctrl: ctrl,
		handler: input.New(ctrl, input.Options{
			Chrome: chrome,
			Keys:   keys,
			Logger: logger,
			Now:    now,
		}),
		keys:     keys,
		help:     help.New(),
		registry: registry,
		env:      env,
		chrome:   chrome,
		scale:    sc,
		topRows:  max(sc.rows(cfg.Layout.TopReserved), 1),
		views:    make(map[window.ID]apps.View),
		launcher: newLauncher(registry),
		logger:   logger,
		now:      now,
	}
}

func (d *desktop) init() tea.Cmd {
	return tickClock()
}

func tickClock() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return clockMsg(t) })
}

// update applies msg and returns follow-up commands plus whether the
// desktop asked to quit.
func (d *desktop) update(msg tea.Msg) (tea.Cmd, bool) {
	var cmds []tea.Cmd
	quit := false

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		d.resize(msg.Width, msg.Height)

	case clockMsg:
		cmds = append(cmds, tickClock())

	case tea.KeyMsg:
		var cmd tea.Cmd
		cmd, quit = d.key(msg)
		cmds = append(cmds, cmd)

	case tea.MouseMsg:
		cmds = append(cmds, d.mouse(msg))

	case execMsg:
		msg.fn(d.ctrl)
		defer close(msg.done)

	case apps.LaunchMsg:
		id := d.ctrl.Launch(msg.Kind, msg.Args)
		d.logger.Debug("launched from view", "kind", msg.Kind, "window", id)

	case apps.RoutedMsg:
		cmds = append(cmds, d.updateView(msg.ID, msg.Msg))
	}

	if !d.handler.LauncherOpen() {
		d.launcher.reset()
	}
	cmds = append(cmds, d.sync())
	return tea.Batch(cmds...), quit
}

func (d *desktop) resize(cols, rows int) {
	d.cols, d.rows = cols, rows
	d.help.Width = cols
	w, h := d.scale.pixels(cols, rows)
	d.ctrl.ResizeViewport(w, h)
}

func (d *desktop) key(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch d.handler.HandleKey(msg) {
	case input.Quit:
		return nil, true
	case input.Handled:
		return nil, false
	}

	if d.handler.LauncherOpen() {
		kind, ok, cmd := d.launcher.update(msg)
		if ok {
			d.handler.Launch(kind, nil)
		}
		return cmd, false
	}

	id, ok := d.ctrl.Focused()
	if !ok {
		return nil, false
	}
	return d.updateView(id, msg), false
}

func (d *desktop) mouse(msg tea.MouseMsg) tea.Cmd {
	x, y := d.scale.point(msg.X, msg.Y)
	p := input.Pointer{ID: mousePointer, X: x, Y: y}

	switch msg.Action {
	case tea.MouseActionMotion:
		d.handler.PointerMove(p)
		return nil
	case tea.MouseActionRelease:
		d.handler.PointerUp(p)
		return nil
	case tea.MouseActionPress:
	default:
		return nil
	}
	if msg.Button != tea.MouseButtonLeft {
		return nil
	}

	if d.handler.LauncherOpen() {
		box := d.launcher.box(d.cols, d.rows, d.topRows)
		if msg.X >= box.x0 && msg.X < box.x1 && msg.Y >= box.y0 && msg.Y < box.y1 {
			if kind, ok := d.launcher.itemAt(box, msg.X, msg.Y); ok {
				d.handler.Launch(kind, nil)
			}
			return nil
		}
	}

	if _, onFrame := d.chrome.HitTest(d.ctrl.Snapshot().Frames(), x, y); !onFrame && msg.Y == 0 && msg.X < launcherButton {
		d.handler.ToggleLauncher()
		return nil
	}

	d.handler.CloseLauncher()
	hit, ok := d.handler.PointerDown(p)
	if !ok || hit.Region != present.RegionBody {
		return nil
	}
	f, ok := d.frame(hit.Frame.ID)
	if !ok {
		return nil
	}
	body := d.bodyCells(f)
	lx, ly := msg.X-body.x0, msg.Y-body.y0
	if lx < 0 || ly < 0 || lx >= body.width() || ly >= body.height() {
		return nil
	}
	return d.updateView(f.ID, apps.ClickMsg{X: lx, Y: ly})
}

// updateView hands msg to the view of window id. Messages for windows that
// have closed are dropped.
func (d *desktop) updateView(id window.ID, msg tea.Msg) tea.Cmd {
	v, ok := d.views[id]
	if !ok {
		return nil
	}
	ctx := apps.Context{ID: id}
	if f, ok := d.frame(id); ok {
		ctx = d.viewContext(f)
	}
	v, cmd := v.Update(msg, ctx)
	d.views[id] = v
	return apps.Route(id, cmd)
}

// sync mounts views for new windows, drops views of closed ones and keeps
// titles current.
func (d *desktop) sync() tea.Cmd {
	snap := d.ctrl.Snapshot()
	live := make(map[window.ID]struct{}, len(snap.Windows))
	var cmds []tea.Cmd
	for _, w := range snap.Windows {
		live[w.ID] = struct{}{}
		v, ok := d.views[w.ID]
		if !ok {
			v = apps.NewView(w.Kind, w.Args, d.env)
			d.views[w.ID] = v
			cmds = append(cmds, apps.Route(w.ID, v.Init()))
		}
		if t, ok := v.(apps.Titler); ok {
			if title := t.Title(); title != "" && title != w.Title {
				d.ctrl.SetTitle(w.ID, title)
			}
		}
	}
	for id := range d.views {
		if _, ok := live[id]; !ok {
			delete(d.views, id)
		}
	}
	return tea.Batch(cmds...)
}

func (d *desktop) frame(id window.ID) (present.Frame, bool) {
	for _, f := range d.ctrl.Snapshot().Frames() {
		if f.ID == id {
			return f, true
		}
	}
	return present.Frame{}, false
}

// bodyCells is the area inside the side and bottom borders below the
// title bar.
func (d *desktop) bodyCells(f present.Frame) cellRect {
	r := d.scale.cells(f.Rect)
	title := max(d.scale.cells(d.chrome.TitleRect(f)).height(), 1)
	return cellRect{x0: r.x0 + 1, y0: r.y0 + title, x1: r.x1 - 1, y1: r.y1 - 1}
}

func (d *desktop) viewContext(f present.Frame) apps.Context {
	body := d.bodyCells(f)
	return apps.Context{
		ID:     f.ID,
		Active: f.Focused,
		Width:  max(body.width(), 0),
		Height: max(body.height(), 0),
	}
}

func (d *desktop) view() string {
	return d.paint().render()
}

func (d *desktop) paint() *canvas {
	c := newCanvas(d.cols, d.rows)
	if d.cols == 0 || d.rows == 0 {
		return c
	}
	c.fill(0, 0, d.cols, d.rows, ' ', paintWallpaper)
	d.drawWallpaper(c)
	d.drawStatusBar(c)
	for _, f := range d.ctrl.Snapshot().Frames() {
		d.drawFrame(c, f)
	}
	if d.handler.LauncherOpen() {
		d.launcher.draw(c, d.launcher.box(d.cols, d.rows, d.topRows), d.shortHelp())
	}
	return c
}

func (d *desktop) shortHelp() string {
	return ansi.Strip(d.help.ShortHelpView(d.keys.ShortHelp()))
}

func (d *desktop) drawWallpaper(c *canvas) {
	const mark = "open door"
	row := d.topRows + (d.rows-d.topRows)/2
	col := (d.cols - len(mark)) / 2
	c.text(col, row, mark, paintWallpaper, d.cols)
	if d.topRows > 1 {
		c.text(1, 1, d.shortHelp(), paintWallpaper, d.cols)
	}
}

func (d *desktop) drawStatusBar(c *canvas) {
	c.fill(0, 0, d.cols, 1, ' ', paintStatus)
	c.text(0, 0, " ◆ Apps  ", paintStatusAccent, launcherButton)

	x := launcherButton + 1
	for n := 1; n <= 5; n++ {
		p := paintStatus
		if n == 1 {
			p = paintStatusAccent
		}
		x = c.text(x, 0, " "+strconv.Itoa(n)+" ", p, d.cols)
	}

	now := d.now()
	clock := now.Format("15:04")
	snap := d.ctrl.Snapshot()
	minimized := 0
	for _, w := range snap.Windows {
		if w.Minimized {
			minimized++
		}
	}
	right := " " + clock + " "
	if minimized > 0 {
		right = " ▾" + strconv.Itoa(minimized) + "  " + clock + " "
	}
	rightX := d.cols - ansi.StringWidth(right)
	c.text(rightX, 0, right, paintStatus, d.cols)

	label := now.Format("Mon Jan 2")
	if w, ok := snap.Lookup(snap.Focused); ok {
		label = w.Title
	}
	label = ansi.Truncate(label, max(rightX-x-2, 0), "…")
	mid := (d.cols - ansi.StringWidth(label)) / 2
	if mid < x+1 {
		mid = x + 1
	}
	c.text(mid, 0, label, paintStatus, rightX-1)
}

func (d *desktop) drawFrame(c *canvas, f present.Frame) {
	r := d.scale.cells(f.Rect)
	if r.width() < 4 || r.height() < 2 {
		return
	}
	titleRows := max(d.scale.cells(d.chrome.TitleRect(f)).height(), 1)
	tp, bp := paintTitle, paintFrame
	if f.Focused {
		tp, bp = paintTitleFocused, paintFrameFocused
	}

	c.fill(r.x0, r.y0, r.x1, r.y0+titleRows, ' ', tp)
	limit := r.x1 - 1
	for _, b := range d.chrome.Buttons(f) {
		bx := d.buttonCol(b)
		if bx < limit {
			limit = bx
		}
		p := tp
		if b.Region == present.RegionClose {
			p = paintClose
		}
		c.set(bx, r.y0, buttonGlyph(b.Region, f), p)
	}
	title := f.Title
	if entry, ok := d.registry.Lookup(f.Kind); ok && entry.Icon != "" {
		title = entry.Icon + " " + title
	}
	c.text(r.x0+1, r.y0, title, tp, limit-1)

	body := d.bodyCells(f)
	c.fill(r.x0, body.y0, r.x1, r.y1, ' ', paintContent)
	for y := body.y0; y < r.y1-1; y++ {
		c.set(r.x0, y, '│', bp)
		c.set(r.x1-1, y, '│', bp)
	}
	c.set(r.x0, r.y1-1, '└', bp)
	c.set(r.x1-1, r.y1-1, '┘', bp)
	for x := r.x0 + 1; x < r.x1-1; x++ {
		c.set(x, r.y1-1, '─', bp)
	}

	v, ok := d.views[f.ID]
	if !ok || body.width() <= 0 || body.height() <= 0 {
		return
	}
	lines := strings.Split(v.View(d.viewContext(f)), "\n")
	for i, line := range lines {
		if i >= body.height() {
			break
		}
		c.text(body.x0, body.y0+i, line, paintContent, body.x1)
	}
}

// buttonCol is the cell holding the button's center, so a click on the
// glyph always lands inside the button.
func (d *desktop) buttonCol(b present.Button) int {
	return floorDiv(b.Rect.X+b.Rect.Width/2, d.scale.cellW)
}

func buttonGlyph(region present.Region, f present.Frame) rune {
	switch region {
	case present.RegionFloat:
		if f.Floating {
			return '▣'
		}
		return '◫'
	case present.RegionMinimize:
		return '_'
	case present.RegionMaximize:
		if f.Maximized {
			return '❐'
		}
		return '□'
	case present.RegionClose:
		return '×'
	default:
		return ' '
	}
}

