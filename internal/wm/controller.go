// Package wm owns the open windows and exposes every operation that may
// change them.
//
// A Controller is driven from a single event loop. Each operation runs to
// completion and never fails: an id that does not reference an open window
// turns the call into a no-op.
package wm

import (
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/1broseidon/opendoor/internal/config"
	"github.com/1broseidon/opendoor/internal/present"
	"github.com/1broseidon/opendoor/internal/tiling"
	"github.com/1broseidon/opendoor/internal/window"
)

// Registry resolves launch defaults for an application kind.
type Registry interface {
	Preferred(kind window.Kind) (title string, width, height int, ok bool)
}

// Options configures a Controller.
type Options struct {
	Metrics              tiling.Metrics
	Viewport             tiling.Viewport
	ZBase                int
	ClearFocusOnMinimize bool
	Logger               *slog.Logger
	// NewID overrides id generation; tests use it for stable ids.
	NewID func() window.ID
}

// OptionsFromConfig derives controller options from the effective config.
func OptionsFromConfig(cfg *config.Config, logger *slog.Logger) Options {
	return Options{
		Metrics:              tiling.MetricsFromConfig(cfg.Layout),
		Viewport:             tiling.Viewport{Width: cfg.Viewport.Width, Height: cfg.Viewport.Height},
		ZBase:                cfg.Focus.ZBase,
		ClearFocusOnMinimize: cfg.Focus.ClearOnMinimize,
		Logger:               logger,
	}
}

// Snapshot is a read-only copy of controller state.
type Snapshot struct {
	Windows  []window.Window `json:"windows"`
	Focused  window.ID       `json:"focused,omitempty"`
	Viewport tiling.Viewport `json:"viewport"`
	MaxZ     int             `json:"max_z"`
}

// Frames returns the visible frames of the snapshot in paint order.
func (s Snapshot) Frames() []present.Frame {
	return present.Frames(s.Windows, s.Focused, s.Viewport)
}

// Lookup returns the window with the given id.
func (s Snapshot) Lookup(id window.ID) (window.Window, bool) {
	for _, w := range s.Windows {
		if w.ID == id {
			return w, true
		}
	}
	return window.Window{}, false
}

// Controller mutates the window store and keeps tiled geometry current.
type Controller struct {
	store    *window.Store
	registry Registry
	metrics  tiling.Metrics
	viewport tiling.Viewport
	focused  window.ID
	maxZ     int

	clearFocusOnMinimize bool
	logger               *slog.Logger
	newID                func() window.ID
}

// New creates a controller with an empty store.
func New(registry Registry, opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	newID := opts.NewID
	if newID == nil {
		newID = func() window.ID { return window.ID(uuid.NewString()) }
	}
	metrics := opts.Metrics
	if metrics.Mode == "" {
		metrics.Mode = config.LayoutModeMasterStack
	}
	return &Controller{
		store:                window.NewStore(),
		registry:             registry,
		metrics:              metrics,
		viewport:             opts.Viewport,
		maxZ:                 opts.ZBase,
		clearFocusOnMinimize: opts.ClearFocusOnMinimize,
		logger:               logger,
		newID:                newID,
	}
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	return Snapshot{
		Windows:  c.store.All(),
		Focused:  c.focused,
		Viewport: c.viewport,
		MaxZ:     c.maxZ,
	}
}

// Windows returns every window in store order.
func (c *Controller) Windows() []window.Window {
	return c.store.All()
}

// Window returns the record for id.
func (c *Controller) Window(id window.ID) (window.Window, bool) {
	return c.store.Lookup(id)
}

// Focused returns the focused window id, if any.
func (c *Controller) Focused() (window.ID, bool) {
	return c.focused, c.focused != ""
}

// Viewport returns the current drawable area.
func (c *Controller) Viewport() tiling.Viewport {
	return c.viewport
}

// Metrics returns the layout metrics in use.
func (c *Controller) Metrics() tiling.Metrics {
	return c.metrics
}

// Launch opens a new tiled window for kind on top of the stack and focuses
// it. It returns "" when the registry has no entry for kind.
func (c *Controller) Launch(kind window.Kind, args any) window.ID {
	title, width, height, ok := c.registry.Preferred(kind)
	if !ok {
		c.logger.Warn("launch ignored: unknown application kind", "kind", kind)
		return ""
	}

	c.maxZ++
	w := window.Window{
		ID:       c.newID(),
		Kind:     kind,
		Title:    title,
		Geometry: window.Rect{Width: width, Height: height},
		ZOrder:   c.maxZ,
		Args:     args,
	}
	c.store.Append(w)
	c.focused = w.ID
	c.relayout()

	c.logger.Debug("window launched", "window", w.ID, "kind", kind, "z", w.ZOrder)
	return w.ID
}

// Close removes the window and re-tiles the rest. Focus is cleared, not
// transferred, when the closed window held it.
func (c *Controller) Close(id window.ID) bool {
	if !c.store.Remove(id) {
		c.ignored("close", id)
		return false
	}
	if c.focused == id {
		c.focused = ""
	}
	c.relayout()
	c.logger.Debug("window closed", "window", id)
	return true
}

// Focus raises the window above every other window and points focus at it.
// A minimized window is restored and re-tiled first. Focusing the focused,
// visible window changes nothing.
func (c *Controller) Focus(id window.ID) bool {
	w, ok := c.store.Lookup(id)
	if !ok {
		c.ignored("focus", id)
		return false
	}
	if w.Minimized {
		w.Minimized = false
		c.store.ReplaceOne(w)
		c.relayout()
		w, _ = c.store.Lookup(id)
		c.logger.Debug("window restored", "window", id)
	} else if c.focused == id {
		return true
	}
	c.maxZ++
	w.ZOrder = c.maxZ
	c.store.ReplaceOne(w)
	c.focused = id
	c.logger.Debug("window focused", "window", id, "z", w.ZOrder)
	return true
}

// Blur clears focus without touching any window.
func (c *Controller) Blur() {
	c.focused = ""
}

// ToggleMaximize flips the maximized flag and focuses the window.
func (c *Controller) ToggleMaximize(id window.ID) bool {
	w, ok := c.store.Lookup(id)
	if !ok {
		c.ignored("toggle maximize", id)
		return false
	}
	w.Maximized = !w.Maximized
	c.store.ReplaceOne(w)
	c.Focus(id)
	c.logger.Debug("window maximize toggled", "window", id, "maximized", w.Maximized)
	return true
}

// ToggleFloat moves the window into or out of the tiled set and re-tiles.
func (c *Controller) ToggleFloat(id window.ID) bool {
	w, ok := c.store.Lookup(id)
	if !ok {
		c.ignored("toggle float", id)
		return false
	}
	w.Floating = !w.Floating
	c.store.ReplaceOne(w)
	c.relayout()
	c.logger.Debug("window float toggled", "window", id, "floating", w.Floating)
	return true
}

// Minimize hides the window and re-tiles the rest.
func (c *Controller) Minimize(id window.ID) bool {
	w, ok := c.store.Lookup(id)
	if !ok {
		c.ignored("minimize", id)
		return false
	}
	if w.Minimized {
		return true
	}
	w.Minimized = true
	c.store.ReplaceOne(w)
	if c.clearFocusOnMinimize && c.focused == id {
		c.focused = ""
	}
	c.relayout()
	c.logger.Debug("window minimized", "window", id)
	return true
}

// Restore un-minimizes the window, re-tiles and focuses it.
func (c *Controller) Restore(id window.ID) bool {
	if _, ok := c.store.Lookup(id); !ok {
		c.ignored("restore", id)
		return false
	}
	return c.Focus(id)
}

// RestoreLast restores the most recently raised minimized window.
func (c *Controller) RestoreLast() (window.ID, bool) {
	var (
		best  window.Window
		found bool
	)
	for _, w := range c.store.All() {
		if w.Minimized && (!found || w.ZOrder > best.ZOrder) {
			best, found = w, true
		}
	}
	if !found {
		return "", false
	}
	return best.ID, c.Restore(best.ID)
}

// Move positions a floating, non-maximized window. Tiled windows ignore it.
func (c *Controller) Move(id window.ID, x, y int) bool {
	w, ok := c.store.Lookup(id)
	if !ok {
		c.ignored("move", id)
		return false
	}
	if !w.Floating || w.Maximized || w.Minimized {
		return false
	}
	w.Geometry.X = x
	w.Geometry.Y = y
	c.store.ReplaceOne(w)
	return true
}

// SetTitle replaces the display title.
func (c *Controller) SetTitle(id window.ID, title string) bool {
	w, ok := c.store.Lookup(id)
	if !ok {
		c.ignored("set title", id)
		return false
	}
	w.Title = title
	c.store.ReplaceOne(w)
	return true
}

// ResizeViewport records the new drawable area and re-tiles.
func (c *Controller) ResizeViewport(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	c.viewport = tiling.Viewport{Width: width, Height: height}
	c.relayout()
	c.logger.Debug("viewport resized", "width", width, "height", height)
}

func (c *Controller) relayout() {
	c.store.ReplaceAll(tiling.Layout(c.store.All(), c.viewport, c.metrics))
}

func (c *Controller) ignored(op string, id window.ID) {
	c.logger.Debug(op+" ignored: unknown window", "window", id)
}
