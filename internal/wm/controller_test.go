package wm

import (
	"fmt"
	"testing"

	"github.com/1broseidon/opendoor/internal/tiling"
	"github.com/1broseidon/opendoor/internal/window"
)

type fakeRegistry map[window.Kind][3]any

func (r fakeRegistry) Preferred(kind window.Kind) (string, int, int, bool) {
	v, ok := r[kind]
	if !ok {
		return "", 0, 0, false
	}
	return v[0].(string), v[1].(int), v[2].(int), true
}

var testRegistry = fakeRegistry{
	window.KindTerminal: {"Terminal", 600, 400},
	window.KindNotepad:  {"Text Editor", 500, 400},
	window.KindBrowser:  {"Firefox", 800, 600},
}

func newTestController(t *testing.T, opts Options) *Controller {
	t.Helper()
	n := 0
	opts.NewID = func() window.ID {
		n++
		return window.ID(fmt.Sprintf("w%d", n))
	}
	if opts.Viewport == (tiling.Viewport{}) {
		opts.Viewport = tiling.Viewport{Width: 1000, Height: 800}
	}
	if opts.Metrics == (tiling.Metrics{}) {
		opts.Metrics = tiling.DefaultMetrics()
	}
	if opts.ZBase == 0 {
		opts.ZBase = 10
	}
	return New(testRegistry, opts)
}

func mustWindow(t *testing.T, c *Controller, id window.ID) window.Window {
	t.Helper()
	w, ok := c.Window(id)
	if !ok {
		t.Fatalf("window %s not found", id)
	}
	return w
}

func TestLaunch(t *testing.T) {
	c := newTestController(t, Options{})
	id := c.Launch(window.KindTerminal, map[string]string{"cwd": "/"})

	w := mustWindow(t, c, id)
	if w.Title != "Terminal" || w.Kind != window.KindTerminal {
		t.Fatalf("unexpected window %+v", w)
	}
	if w.ZOrder != 11 {
		t.Fatalf("expected first z-order 11, got %d", w.ZOrder)
	}
	if w.Geometry != (window.Rect{X: 10, Y: 48, Width: 980, Height: 742}) {
		t.Fatalf("expected launch to tile, got %+v", w.Geometry)
	}
	if w.Minimized || w.Maximized || w.Floating {
		t.Fatalf("expected tiled, visible, restored window: %+v", w)
	}
	if focused, ok := c.Focused(); !ok || focused != id {
		t.Fatalf("expected focus on %s, got %q", id, focused)
	}
	if args, ok := w.Args.(map[string]string); !ok || args["cwd"] != "/" {
		t.Fatalf("launch args not carried: %#v", w.Args)
	}
}

func TestLaunch_UnknownKindIsNoop(t *testing.T) {
	c := newTestController(t, Options{})
	if id := c.Launch(window.KindSteam, nil); id != "" {
		t.Fatalf("expected empty id, got %q", id)
	}
	if len(c.Windows()) != 0 {
		t.Fatalf("expected no windows")
	}
	if c.Snapshot().MaxZ != 10 {
		t.Fatalf("z counter advanced on rejected launch")
	}
}

func TestLaunch_SecondWindowSplits(t *testing.T) {
	c := newTestController(t, Options{})
	a := c.Launch(window.KindTerminal, nil)
	b := c.Launch(window.KindNotepad, nil)

	if got := mustWindow(t, c, a).Geometry; got != (window.Rect{X: 10, Y: 48, Width: 485, Height: 742}) {
		t.Fatalf("master geometry %+v", got)
	}
	if got := mustWindow(t, c, b).Geometry; got != (window.Rect{X: 500, Y: 48, Width: 485, Height: 742}) {
		t.Fatalf("stack geometry %+v", got)
	}
	if mustWindow(t, c, b).ZOrder <= mustWindow(t, c, a).ZOrder {
		t.Fatalf("newest window should stack on top")
	}
}

func TestFocus_RaisesAboveAll(t *testing.T) {
	c := newTestController(t, Options{})
	a := c.Launch(window.KindTerminal, nil)
	c.Launch(window.KindNotepad, nil)
	c.Launch(window.KindBrowser, nil)

	if !c.Focus(a) {
		t.Fatalf("expected focus to apply")
	}
	za := mustWindow(t, c, a).ZOrder
	for _, w := range c.Windows() {
		if w.ID != a && w.ZOrder >= za {
			t.Fatalf("window %s z=%d not below focused z=%d", w.ID, w.ZOrder, za)
		}
	}
}

func TestFocus_AlreadyFocusedLeavesZOrders(t *testing.T) {
	c := newTestController(t, Options{})
	c.Launch(window.KindTerminal, nil)
	b := c.Launch(window.KindNotepad, nil)

	before := c.Snapshot()
	c.Focus(b)
	c.Focus(b)
	after := c.Snapshot()

	for i := range before.Windows {
		if before.Windows[i].ZOrder != after.Windows[i].ZOrder {
			t.Fatalf("z-order changed on repeated focus: %+v -> %+v", before.Windows, after.Windows)
		}
	}
	if before.MaxZ != after.MaxZ {
		t.Fatalf("max z advanced: %d -> %d", before.MaxZ, after.MaxZ)
	}
}

func TestUnknownIDsAreNoops(t *testing.T) {
	c := newTestController(t, Options{})
	a := c.Launch(window.KindTerminal, nil)
	before := c.Snapshot()

	ops := map[string]func() bool{
		"close":    func() bool { return c.Close("ghost") },
		"focus":    func() bool { return c.Focus("ghost") },
		"maximize": func() bool { return c.ToggleMaximize("ghost") },
		"float":    func() bool { return c.ToggleFloat("ghost") },
		"minimize": func() bool { return c.Minimize("ghost") },
		"restore":  func() bool { return c.Restore("ghost") },
		"move":     func() bool { return c.Move("ghost", 1, 1) },
		"title":    func() bool { return c.SetTitle("ghost", "x") },
	}
	for name, op := range ops {
		if op() {
			t.Errorf("%s on unknown id reported success", name)
		}
	}

	after := c.Snapshot()
	if len(after.Windows) != 1 || after.Windows[0] != before.Windows[0] || after.Focused != a || after.MaxZ != before.MaxZ {
		t.Fatalf("state changed by unknown-id operations: %+v -> %+v", before, after)
	}
}

func TestClose_PromotesStackAndClearsFocus(t *testing.T) {
	c := newTestController(t, Options{})
	a := c.Launch(window.KindTerminal, nil)
	b := c.Launch(window.KindNotepad, nil)
	d := c.Launch(window.KindBrowser, nil)
	c.Focus(a)

	if !c.Close(a) {
		t.Fatalf("expected close to apply")
	}
	if _, ok := c.Focused(); ok {
		t.Fatalf("focus should be cleared after closing the focused window")
	}
	if got := mustWindow(t, c, b).Geometry; got != (window.Rect{X: 10, Y: 48, Width: 485, Height: 742}) {
		t.Fatalf("expected %s promoted to master, got %+v", b, got)
	}
	if got := mustWindow(t, c, d).Geometry; got != (window.Rect{X: 500, Y: 48, Width: 485, Height: 742}) {
		t.Fatalf("expected %s alone in the stack, got %+v", d, got)
	}

	next := c.Launch(window.KindTerminal, nil)
	if next == a {
		t.Fatalf("closed id %s reused", a)
	}
	for _, w := range c.Windows() {
		if w.ID == a {
			t.Fatalf("closed id %s reappeared", a)
		}
	}
}

func TestClose_UnfocusedKeepsFocus(t *testing.T) {
	c := newTestController(t, Options{})
	a := c.Launch(window.KindTerminal, nil)
	b := c.Launch(window.KindNotepad, nil)
	c.Close(a)
	if focused, _ := c.Focused(); focused != b {
		t.Fatalf("expected focus to stay on %s, got %q", b, focused)
	}
}

func TestToggleMaximize(t *testing.T) {
	c := newTestController(t, Options{})
	a := c.Launch(window.KindTerminal, nil)
	c.Launch(window.KindNotepad, nil)
	tiled := mustWindow(t, c, a).Geometry

	c.ToggleMaximize(a)
	w := mustWindow(t, c, a)
	if !w.Maximized {
		t.Fatalf("expected maximized")
	}
	if focused, _ := c.Focused(); focused != a {
		t.Fatalf("maximize should focus the window")
	}
	frames := c.Snapshot().Frames()
	top := frames[len(frames)-1]
	if top.ID != a || top.Rect != (window.Rect{Width: 1000, Height: 800}) {
		t.Fatalf("expected maximized frame on top covering viewport, got %+v", top)
	}

	c.ToggleMaximize(a)
	if got := mustWindow(t, c, a); got.Maximized || got.Geometry != tiled {
		t.Fatalf("expected last tiled geometry back, got %+v", got)
	}
}

func TestToggleFloat_RoundTrip(t *testing.T) {
	c := newTestController(t, Options{})
	a := c.Launch(window.KindTerminal, nil)
	b := c.Launch(window.KindNotepad, nil)
	d := c.Launch(window.KindBrowser, nil)

	c.ToggleFloat(b)
	if !c.Move(b, 123, 77) {
		t.Fatalf("expected move on floating window")
	}
	floating := mustWindow(t, c, b).Geometry

	// Remaining tiled pair splits the work area.
	if got := mustWindow(t, c, d).Geometry; got != (window.Rect{X: 500, Y: 48, Width: 485, Height: 742}) {
		t.Fatalf("expected %s alone in the stack, got %+v", d, got)
	}

	c.ResizeViewport(1200, 900)
	if got := mustWindow(t, c, b).Geometry; got != floating {
		t.Fatalf("layout touched floating window: %+v -> %+v", floating, got)
	}

	c.ToggleFloat(b)
	c.ResizeViewport(1000, 800)
	// Back in the tiled set at its store position: a master, b and d stacked.
	if got := mustWindow(t, c, a).Geometry; got.X != 10 || got.Height != 742 {
		t.Fatalf("unexpected master %+v", got)
	}
	if got := mustWindow(t, c, b).Geometry; got != (window.Rect{X: 500, Y: 48, Width: 485, Height: 366}) {
		t.Fatalf("expected fresh stack geometry for %s, got %+v", b, got)
	}
	if got := mustWindow(t, c, d).Geometry; got != (window.Rect{X: 500, Y: 424, Width: 485, Height: 366}) {
		t.Fatalf("unexpected stack geometry for %s: %+v", d, got)
	}
}

func TestMove_OnlyFloatingAndNotMaximized(t *testing.T) {
	c := newTestController(t, Options{})
	a := c.Launch(window.KindTerminal, nil)
	before := mustWindow(t, c, a).Geometry

	if c.Move(a, 5, 5) {
		t.Fatalf("tiled window should not move")
	}
	if mustWindow(t, c, a).Geometry != before {
		t.Fatalf("tiled geometry changed")
	}

	c.ToggleFloat(a)
	c.ToggleMaximize(a)
	if c.Move(a, 5, 5) {
		t.Fatalf("maximized window should not move")
	}

	c.ToggleMaximize(a)
	if !c.Move(a, 5, 6) {
		t.Fatalf("expected floating move")
	}
	got := mustWindow(t, c, a).Geometry
	if got.X != 5 || got.Y != 6 || got.Width != before.Width || got.Height != before.Height {
		t.Fatalf("move should only change origin, got %+v", got)
	}
}

func TestMinimize(t *testing.T) {
	tests := []struct {
		name        string
		clear       bool
		wantFocused bool
	}{
		{"clears focus", true, false},
		{"keeps pointer", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestController(t, Options{ClearFocusOnMinimize: tt.clear})
			a := c.Launch(window.KindTerminal, nil)
			b := c.Launch(window.KindNotepad, nil)

			c.Minimize(b)
			if !mustWindow(t, c, b).Minimized {
				t.Fatalf("expected minimized")
			}
			if got := mustWindow(t, c, a).Geometry; got != (window.Rect{X: 10, Y: 48, Width: 980, Height: 742}) {
				t.Fatalf("expected remaining window to fill work area, got %+v", got)
			}
			_, focused := c.Focused()
			if focused != tt.wantFocused {
				t.Fatalf("focused=%v, want %v", focused, tt.wantFocused)
			}
			for _, f := range c.Snapshot().Frames() {
				if f.ID == b {
					t.Fatalf("minimized window rendered")
				}
			}
		})
	}
}

func TestRestore(t *testing.T) {
	c := newTestController(t, Options{ClearFocusOnMinimize: true})
	a := c.Launch(window.KindTerminal, nil)
	b := c.Launch(window.KindNotepad, nil)
	c.Minimize(a)

	id, ok := c.RestoreLast()
	if !ok || id != a {
		t.Fatalf("expected %s restored, got %q", a, id)
	}
	w := mustWindow(t, c, a)
	if w.Minimized {
		t.Fatalf("expected visible window")
	}
	if focused, _ := c.Focused(); focused != a {
		t.Fatalf("restore should focus")
	}
	if w.Geometry.X != 10 || mustWindow(t, c, b).Geometry.X != 500 {
		t.Fatalf("expected store order tiling after restore")
	}
	if _, ok := c.RestoreLast(); ok {
		t.Fatalf("nothing left to restore")
	}
}

func TestFocus_MinimizedWindowIsRestored(t *testing.T) {
	tests := []struct {
		name  string
		clear bool
	}{
		{"focus cleared on minimize", true},
		{"focus kept on minimize", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestController(t, Options{ClearFocusOnMinimize: tt.clear})
			a := c.Launch(window.KindTerminal, nil)
			b := c.Launch(window.KindNotepad, nil)
			c.Minimize(a)
			c.Minimize(b)
			zB := mustWindow(t, c, b).ZOrder

			if !c.Focus(b) {
				t.Fatalf("focus on a minimized window should succeed")
			}
			w := mustWindow(t, c, b)
			if w.Minimized {
				t.Fatalf("focus should restore the window")
			}
			if w.ZOrder <= zB {
				t.Fatalf("expected z raised above %d, got %d", zB, w.ZOrder)
			}
			if w.Geometry != (window.Rect{X: 10, Y: 48, Width: 980, Height: 742}) {
				t.Fatalf("expected fresh tiled geometry, got %+v", w.Geometry)
			}
			if focused, _ := c.Focused(); focused != b {
				t.Fatalf("expected %s focused, got %q", b, focused)
			}
		})
	}
}

func TestToggleMaximize_MinimizedWindowFocuses(t *testing.T) {
	c := newTestController(t, Options{ClearFocusOnMinimize: true})
	a := c.Launch(window.KindTerminal, nil)
	b := c.Launch(window.KindNotepad, nil)
	c.Minimize(a)

	c.ToggleMaximize(a)

	w := mustWindow(t, c, a)
	if !w.Maximized || w.Minimized {
		t.Fatalf("expected visible maximized window, got %+v", w)
	}
	if focused, _ := c.Focused(); focused != a {
		t.Fatalf("expected %s focused, got %q", a, focused)
	}
	if w.ZOrder <= mustWindow(t, c, b).ZOrder {
		t.Fatalf("maximized window should stack above %s", b)
	}
}

func TestZOrderSingleMaximum(t *testing.T) {
	c := newTestController(t, Options{})
	ids := []window.ID{
		c.Launch(window.KindTerminal, nil),
		c.Launch(window.KindNotepad, nil),
		c.Launch(window.KindBrowser, nil),
	}
	c.Focus(ids[0])
	c.ToggleMaximize(ids[1])
	c.Focus(ids[2])

	focused, _ := c.Focused()
	maxZ, count := -1, 0
	var top window.ID
	for _, w := range c.Windows() {
		switch {
		case w.ZOrder > maxZ:
			maxZ, count, top = w.ZOrder, 1, w.ID
		case w.ZOrder == maxZ:
			count++
		}
	}
	if count != 1 || top != focused {
		t.Fatalf("expected a single maximum held by %s, got %s (count %d)", focused, top, count)
	}
}

func TestBlur(t *testing.T) {
	c := newTestController(t, Options{})
	c.Launch(window.KindTerminal, nil)
	c.Blur()
	if _, ok := c.Focused(); ok {
		t.Fatalf("expected no focus")
	}
}

func TestResizeViewport(t *testing.T) {
	c := newTestController(t, Options{})
	a := c.Launch(window.KindTerminal, nil)
	c.ResizeViewport(500, 400)
	if got := mustWindow(t, c, a).Geometry; got != (window.Rect{X: 10, Y: 48, Width: 480, Height: 342}) {
		t.Fatalf("unexpected geometry after resize %+v", got)
	}
	c.ResizeViewport(-5, -5)
	if vp := c.Viewport(); vp.Width != 0 || vp.Height != 0 {
		t.Fatalf("expected negative viewport clamped, got %+v", vp)
	}
}

func TestSetTitle(t *testing.T) {
	c := newTestController(t, Options{})
	a := c.Launch(window.KindTerminal, nil)
	c.SetTitle(a, "htop")
	if mustWindow(t, c, a).Title != "htop" {
		t.Fatalf("title not updated")
	}
}
