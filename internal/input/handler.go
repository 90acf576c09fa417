// Package input translates pointer and keyboard events into window
// controller operations.
package input

import (
	"io"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/1broseidon/opendoor/internal/present"
	"github.com/1broseidon/opendoor/internal/window"
	"github.com/1broseidon/opendoor/internal/wm"
)

// DefaultDoubleClick is the longest gap between two title presses that
// still counts as a double click.
const DefaultDoubleClick = 400 * time.Millisecond

// Controller is the subset of *wm.Controller the handler drives.
type Controller interface {
	Launch(kind window.Kind, args any) window.ID
	Close(id window.ID) bool
	Focus(id window.ID) bool
	Blur()
	ToggleMaximize(id window.ID) bool
	ToggleFloat(id window.ID) bool
	Minimize(id window.ID) bool
	RestoreLast() (window.ID, bool)
	Move(id window.ID, x, y int) bool
	Focused() (window.ID, bool)
	FocusDirection(dir wm.Direction) (window.ID, bool)
	FocusNext(delta int) (window.ID, bool)
	Snapshot() wm.Snapshot
}

// Result tells the host what a key press did.
type Result int

const (
	Unhandled Result = iota
	Handled
	Quit
)

// Options configures a Handler.
type Options struct {
	Chrome      present.Chrome
	Keys        KeyMap
	DoubleClick time.Duration
	Logger      *slog.Logger
	Now         func() time.Time
}

// Handler owns the transient drag state and the launcher flag. Window
// geometry only ever changes through the controller.
type Handler struct {
	ctrl        Controller
	chrome      present.Chrome
	keys        KeyMap
	doubleClick time.Duration
	logger      *slog.Logger
	now         func() time.Time

	phase    Phase
	drag     Drag
	launcher bool
	last     click
}

// New creates a handler for ctrl.
func New(ctrl Controller, opts Options) *Handler {
	if opts.Chrome == (present.Chrome{}) {
		opts.Chrome = present.DefaultChrome()
	}
	if opts.DoubleClick <= 0 {
		opts.DoubleClick = DefaultDoubleClick
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if len(opts.Keys.Launcher.Keys()) == 0 {
		opts.Keys = DefaultKeyMap()
	}
	return &Handler{
		ctrl:        ctrl,
		chrome:      opts.Chrome,
		keys:        opts.Keys,
		doubleClick: opts.DoubleClick,
		logger:      opts.Logger,
		now:         opts.Now,
	}
}

// Phase reports whether a drag is active.
func (h *Handler) Phase() Phase {
	return h.phase
}

// ActiveDrag returns the current drag, if any.
func (h *Handler) ActiveDrag() (Drag, bool) {
	return h.drag, h.phase == PhaseDragging
}

// LauncherOpen reports whether the launcher overlay is shown.
func (h *Handler) LauncherOpen() bool {
	return h.launcher
}

// ToggleLauncher flips the launcher overlay.
func (h *Handler) ToggleLauncher() {
	h.launcher = !h.launcher
}

// CloseLauncher hides the launcher overlay.
func (h *Handler) CloseLauncher() {
	h.launcher = false
}

// Launch opens kind from the launcher and hides it.
func (h *Handler) Launch(kind window.Kind, args any) window.ID {
	h.launcher = false
	return h.ctrl.Launch(kind, args)
}

// PointerDown handles a primary button press and returns what was hit.
func (h *Handler) PointerDown(p Pointer) (present.Hit, bool) {
	hit, ok := h.chrome.HitTest(h.ctrl.Snapshot().Frames(), p.X, p.Y)
	if !ok {
		h.ctrl.Blur()
		h.launcher = false
		h.last = click{}
		return hit, false
	}
	id := hit.Frame.ID

	switch {
	case hit.Region.IsButton():
		h.focusIfInactive(id)
		h.pressButton(id, hit.Region)
		h.last = click{}

	case hit.Region == present.RegionTitle:
		if h.isDoubleClick(id) {
			h.last = click{}
			h.ctrl.ToggleMaximize(id)
			return hit, true
		}
		h.last = click{window: id, at: h.now().UnixNano()}

		if h.phase == PhaseDragging {
			h.logger.Debug("drag ignored: another drag is active", "window", id, "active", h.drag.Window)
			h.focusIfInactive(id)
			return hit, true
		}
		if hit.Frame.Floating && !hit.Frame.Maximized {
			h.phase = PhaseDragging
			h.drag = Drag{
				Pointer: p.ID,
				Window:  id,
				OffsetX: p.X - hit.Frame.Rect.X,
				OffsetY: p.Y - hit.Frame.Rect.Y,
			}
			h.logger.Debug("drag started", "window", id, "x", p.X, "y", p.Y)
		}
		h.focusIfInactive(id)

	default:
		h.last = click{}
		h.focusIfInactive(id)
	}
	return hit, true
}

// PointerMove moves the dragged window so the grab point stays under the
// cursor. It reports whether a move was issued.
func (h *Handler) PointerMove(p Pointer) bool {
	if h.phase != PhaseDragging || p.ID != h.drag.Pointer {
		return false
	}
	return h.ctrl.Move(h.drag.Window, p.X-h.drag.OffsetX, p.Y-h.drag.OffsetY)
}

// PointerUp ends the drag owned by p wherever the pointer is released.
func (h *Handler) PointerUp(p Pointer) {
	if h.phase != PhaseDragging || p.ID != h.drag.Pointer {
		return
	}
	h.logger.Debug("drag ended", "window", h.drag.Window)
	h.phase = PhaseIdle
	h.drag = Drag{}
}

// DoubleClick handles a native double-click event from hosts that report
// one.
func (h *Handler) DoubleClick(p Pointer) bool {
	hit, ok := h.chrome.HitTest(h.ctrl.Snapshot().Frames(), p.X, p.Y)
	if !ok || hit.Region != present.RegionTitle {
		return false
	}
	h.last = click{}
	return h.ctrl.ToggleMaximize(hit.Frame.ID)
}

// HandleKey runs the desktop shortcut bound to msg. While the launcher is
// open only the launcher toggle and escape are consumed.
func (h *Handler) HandleKey(msg tea.KeyMsg) Result {
	switch {
	case key.Matches(msg, h.keys.Quit):
		return Quit
	case key.Matches(msg, h.keys.Launcher):
		h.ToggleLauncher()
		return Handled
	}

	if h.launcher {
		if key.Matches(msg, h.keys.Escape) {
			h.launcher = false
			return Handled
		}
		return Unhandled
	}

	focused, hasFocus := h.ctrl.Focused()
	switch {
	case key.Matches(msg, h.keys.FocusLeft):
		h.ctrl.FocusDirection(wm.DirLeft)
	case key.Matches(msg, h.keys.FocusRight):
		h.ctrl.FocusDirection(wm.DirRight)
	case key.Matches(msg, h.keys.FocusUp):
		h.ctrl.FocusDirection(wm.DirUp)
	case key.Matches(msg, h.keys.FocusDown):
		h.ctrl.FocusDirection(wm.DirDown)
	case key.Matches(msg, h.keys.FocusNext):
		h.ctrl.FocusNext(1)
	case key.Matches(msg, h.keys.FocusPrev):
		h.ctrl.FocusNext(-1)
	case key.Matches(msg, h.keys.Restore):
		h.ctrl.RestoreLast()
	case key.Matches(msg, h.keys.Close):
		if hasFocus {
			h.ctrl.Close(focused)
		}
	case key.Matches(msg, h.keys.Maximize):
		if hasFocus {
			h.ctrl.ToggleMaximize(focused)
		}
	case key.Matches(msg, h.keys.Float):
		if hasFocus {
			h.ctrl.ToggleFloat(focused)
		}
	case key.Matches(msg, h.keys.Minimize):
		if hasFocus {
			h.ctrl.Minimize(focused)
		}
	default:
		return Unhandled
	}
	return Handled
}

func (h *Handler) pressButton(id window.ID, region present.Region) {
	switch region {
	case present.RegionFloat:
		h.ctrl.ToggleFloat(id)
	case present.RegionMinimize:
		h.ctrl.Minimize(id)
	case present.RegionMaximize:
		h.ctrl.ToggleMaximize(id)
	case present.RegionClose:
		h.endDragFor(id)
		h.ctrl.Close(id)
	}
}

func (h *Handler) focusIfInactive(id window.ID) {
	if focused, ok := h.ctrl.Focused(); ok && focused == id {
		return
	}
	h.ctrl.Focus(id)
}

func (h *Handler) isDoubleClick(id window.ID) bool {
	if h.last.window != id || h.last.at == 0 {
		return false
	}
	return time.Duration(h.now().UnixNano()-h.last.at) <= h.doubleClick
}

func (h *Handler) endDragFor(id window.ID) {
	if h.phase == PhaseDragging && h.drag.Window == id {
		h.phase = PhaseIdle
		h.drag = Drag{}
	}
}
