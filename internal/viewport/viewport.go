// Package viewport reports the drawable area the daemon tiles into.
package viewport

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/1broseidon/opendoor/internal/config"
	"github.com/1broseidon/opendoor/internal/tiling"
)

// Source pushes viewport sizes to report until ctx is cancelled. The first
// size is reported before Watch blocks.
type Source interface {
	Watch(ctx context.Context, report func(tiling.Viewport)) error
}

// Fixed reports one configured size.
type Fixed struct {
	Size tiling.Viewport
}

func (f Fixed) Watch(ctx context.Context, report func(tiling.Viewport)) error {
	report(f.Size)
	<-ctx.Done()
	return ctx.Err()
}

// New returns the source selected by cfg.Source.
func New(cfg config.Viewport, logger *slog.Logger) (Source, error) {
	switch cfg.Source {
	case config.ViewportFixed, "":
		return Fixed{Size: tiling.Viewport{Width: cfg.Width, Height: cfg.Height}}, nil
	case config.ViewportX11:
		return &X11{Display: cfg.Display, Logger: logger}, nil
	default:
		return nil, fmt.Errorf("unknown viewport source %q", cfg.Source)
	}
}
