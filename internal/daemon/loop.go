package daemon

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/1broseidon/opendoor/internal/wm"
)

// ErrLoopStopped is returned by Do once the loop has exited.
var ErrLoopStopped = errors.New("event loop stopped")

type job struct {
	fn   func(*wm.Controller)
	done chan struct{}
}

// Loop serialises every controller operation onto one goroutine. Callers on
// other goroutines submit closures with Do.
type Loop struct {
	ctrl    *wm.Controller
	jobs    chan job
	stopped chan struct{}
	logger  *slog.Logger
}

// NewLoop wraps ctrl. The loop does nothing until Serve runs.
func NewLoop(ctrl *wm.Controller, logger *slog.Logger) *Loop {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Loop{
		ctrl:    ctrl,
		jobs:    make(chan job),
		stopped: make(chan struct{}),
		logger:  logger,
	}
}

// Do runs fn on the loop goroutine and waits for it to return. ctx only
// bounds the wait for the loop to accept fn; once accepted, fn runs to
// completion and Do reports success.
func (l *Loop) Do(ctx context.Context, fn func(*wm.Controller)) error {
	j := job{fn: fn, done: make(chan struct{})}
	select {
	case l.jobs <- j:
	case <-l.stopped:
		return ErrLoopStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	<-j.done
	return nil
}

// Serve processes jobs until ctx is cancelled. A panicking job is logged
// and the loop keeps serving.
func (l *Loop) Serve(ctx context.Context) error {
	l.logger.Info("event loop started")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("event loop stopped")
			return ctx.Err()
		case j := <-l.jobs:
			l.run(j)
		}
	}
}

func (l *Loop) run(j job) {
	defer close(j.done)
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("controller job panicked", "panic", r)
		}
	}()
	j.fn(l.ctrl)
}

// Close makes pending and future Do calls fail fast. It must be called at
// most once, after Serve has returned for good.
func (l *Loop) Close() {
	close(l.stopped)
}

func (l *Loop) String() string { return "event-loop" }
