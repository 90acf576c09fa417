package viewport

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xwindow"

	"github.com/1broseidon/opendoor/internal/tiling"
	"github.com/1broseidon/opendoor/internal/xloop"
)

// X11 follows the root window geometry of an X display. Resolution changes
// arrive as ConfigureNotify events on the root window.
type X11 struct {
	// Display defaults to $DISPLAY.
	Display string
	Logger  *slog.Logger
}

func (s *X11) connect() (*xgbutil.XUtil, error) {
	if s.Display != "" {
		return xgbutil.NewConnDisplay(s.Display)
	}
	return xgbutil.NewConn()
}

func (s *X11) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s.Logger
}

// rootSize queries the root window geometry.
func rootSize(xu *xgbutil.XUtil) (tiling.Viewport, error) {
	geom, err := xproto.GetGeometry(xu.Conn(), xproto.Drawable(xu.RootWin())).Reply()
	if err != nil {
		return tiling.Viewport{}, fmt.Errorf("failed to query root geometry: %w", err)
	}
	return tiling.Viewport{Width: int(geom.Width), Height: int(geom.Height)}, nil
}

// Watch reports the root window size, then every change to it, until ctx is
// cancelled.
func (s *X11) Watch(ctx context.Context, report func(tiling.Viewport)) error {
	xu, err := s.connect()
	if err != nil {
		return fmt.Errorf("failed to connect to X server: %w", err)
	}
	defer xu.Conn().Close()

	size, err := rootSize(xu)
	if err != nil {
		return err
	}
	report(size)
	s.logger().Info("x11 viewport", "width", size.Width, "height", size.Height)

	root := xwindow.New(xu, xu.RootWin())
	if err := root.Listen(xproto.EventMaskStructureNotify); err != nil {
		return fmt.Errorf("failed to listen on root window: %w", err)
	}

	last := size
	xevent.ConfigureNotifyFun(func(xu *xgbutil.XUtil, ev xevent.ConfigureNotifyEvent) {
		next := tiling.Viewport{Width: int(ev.Width), Height: int(ev.Height)}
		if next == last {
			return
		}
		last = next
		s.logger().Debug("x11 viewport changed", "width", next.Width, "height", next.Height)
		report(next)
	}).Connect(xu, xu.RootWin())

	return xloop.Run(ctx, xu)
}
