// Package xloop runs the xgbutil event loop for a connection until a context
// is cancelled.
//
// xevent.Main blocks reading the connection, so setting the quit flag alone
// only takes effect on the next X event. Run owns a small unmapped window and,
// on cancellation, sends itself a ClientMessage; the handler for that message
// sets the quit flag from inside the loop goroutine.
package xloop

import (
	"context"
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xprop"
	"github.com/BurntSushi/xgbutil/xwindow"
)

const wakeAtom = "_OPENDOOR_WAKE"

// pump is an event loop that pings before and after each dispatch, signals
// quit when it stops and can be woken from another goroutine.
type pump interface {
	start() (before, after, quit chan struct{})
	wake() error
}

// Run processes events on xu until ctx is done or the loop quits on its own.
// Callbacks run on the loop goroutine. The caller keeps ownership of xu and
// may close it once Run returns.
func Run(ctx context.Context, xu *xgbutil.XUtil) error {
	p, err := newXPump(xu)
	if err != nil {
		return err
	}
	defer p.win.Destroy()
	return drive(ctx, p)
}

func drive(ctx context.Context, p pump) error {
	before, after, quit := p.start()
	done := ctx.Done()
	for {
		select {
		case <-before:
			<-after
		case <-done:
			done = nil
			if err := p.wake(); err != nil {
				return fmt.Errorf("failed to wake x event loop: %w", err)
			}
		case <-quit:
			return ctx.Err()
		}
	}
}

type xPump struct {
	xu   *xgbutil.XUtil
	win  *xwindow.Window
	atom xproto.Atom
}

func newXPump(xu *xgbutil.XUtil) (*xPump, error) {
	win, err := xwindow.Create(xu, xu.RootWin())
	if err != nil {
		return nil, fmt.Errorf("failed to create wake window: %w", err)
	}
	atom, err := xprop.Atm(xu, wakeAtom)
	if err != nil {
		win.Destroy()
		return nil, fmt.Errorf("failed to intern %s: %w", wakeAtom, err)
	}

	p := &xPump{xu: xu, win: win, atom: atom}
	xevent.ClientMessageFun(func(xu *xgbutil.XUtil, ev xevent.ClientMessageEvent) {
		if ev.Type == p.atom {
			xevent.Quit(xu)
		}
	}).Connect(xu, win.Id)
	return p, nil
}

func (p *xPump) start() (chan struct{}, chan struct{}, chan struct{}) {
	return xevent.MainPing(p.xu)
}

// wake sends a ClientMessage to the pump's own window. An empty event mask
// delivers it to the creating client, which is this connection.
func (p *xPump) wake() error {
	ev, err := xevent.NewClientMessage(32, p.win.Id, p.atom)
	if err != nil {
		return err
	}
	return xproto.SendEventChecked(p.xu.Conn(), false, p.win.Id, 0, string(ev.Bytes())).Check()
}
