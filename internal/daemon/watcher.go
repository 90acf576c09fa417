package daemon

import (
	"context"
	"log/slog"

	"github.com/1broseidon/opendoor/internal/tiling"
	"github.com/1broseidon/opendoor/internal/viewport"
	"github.com/1broseidon/opendoor/internal/wm"
)

// ViewportWatcher forwards sizes from a viewport source to the controller.
type ViewportWatcher struct {
	source viewport.Source
	loop   *Loop
	logger *slog.Logger
}

// NewViewportWatcher creates a watcher feeding loop.
func NewViewportWatcher(source viewport.Source, loop *Loop, logger *slog.Logger) *ViewportWatcher {
	return &ViewportWatcher{source: source, loop: loop, logger: logger}
}

// Serve blocks until ctx is cancelled or the source fails.
func (w *ViewportWatcher) Serve(ctx context.Context) error {
	return w.source.Watch(ctx, func(vp tiling.Viewport) {
		err := w.loop.Do(ctx, func(c *wm.Controller) {
			c.ResizeViewport(vp.Width, vp.Height)
		})
		if err != nil {
			w.logger.Warn("viewport update dropped", "width", vp.Width, "height", vp.Height, "err", err)
			return
		}
		w.logger.Debug("viewport updated", "width", vp.Width, "height", vp.Height)
	})
}

func (w *ViewportWatcher) String() string { return "viewport-watcher" }
