package tui

import (
	"context"
	"errors"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/1broseidon/opendoor/internal/wm"
)

// ErrDesktopClosed is returned to IPC requests that arrive after the
// desktop has exited.
var ErrDesktopClosed = errors.New("desktop closed")

const (
	jobPending int32 = iota
	jobRunning
	jobAbandoned
)

// programExecutor runs IPC requests on the bubbletea event loop, so the
// controller keeps a single owner.
type programExecutor struct {
	send   func(tea.Msg)
	closed <-chan struct{}
}

func newProgramExecutor(send func(tea.Msg), closed <-chan struct{}) *programExecutor {
	return &programExecutor{send: send, closed: closed}
}

// Do implements ipc.Executor. The request and ctx race to claim the job:
// a job abandoned before the desktop reached it is skipped, and a job that
// already started is waited for and reported as done.
func (e *programExecutor) Do(ctx context.Context, fn func(c *wm.Controller)) error {
	var state atomic.Int32
	done := make(chan struct{})
	go e.send(execMsg{
		fn: func(c *wm.Controller) {
			if state.CompareAndSwap(jobPending, jobRunning) {
				fn(c)
			}
		},
		done: done,
	})

	var err error
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		err = ctx.Err()
	case <-e.closed:
		err = ErrDesktopClosed
	}
	if state.CompareAndSwap(jobPending, jobAbandoned) {
		return err
	}
	<-done
	return nil
}
