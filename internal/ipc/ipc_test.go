package ipc

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/1broseidon/opendoor/internal/apps"
	"github.com/1broseidon/opendoor/internal/tiling"
	"github.com/1broseidon/opendoor/internal/window"
	"github.com/1broseidon/opendoor/internal/wm"
)

// lockedExecutor runs closures under a mutex instead of an event loop.
type lockedExecutor struct {
	mu sync.Mutex
	c  *wm.Controller
}

func (e *lockedExecutor) Do(ctx context.Context, fn func(*wm.Controller)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(e.c)
	return nil
}

type failingExecutor struct{}

func (failingExecutor) Do(context.Context, func(*wm.Controller)) error {
	return errors.New("stopped")
}

func newController() *wm.Controller {
	n := 0
	return wm.New(apps.DefaultRegistry(), wm.Options{
		Metrics:  tiling.DefaultMetrics(),
		Viewport: tiling.Viewport{Width: 1000, Height: 800},
		ZBase:    10,
		NewID: func() window.ID {
			n++
			return window.ID(fmt.Sprintf("w%d", n))
		},
	})
}

func startServer(t *testing.T) (*Client, *lockedExecutor) {
	t.Helper()
	exec := &lockedExecutor{c: newController()}
	socket := filepath.Join(t.TempDir(), "od.sock")
	srv, err := NewServer(exec, apps.DefaultRegistry(), ServerOptions{SocketPath: socket, Host: "test"})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	if err := srv.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(srv.Stop)
	return NewClientWithSocket(socket), exec
}

func TestClientServer_WindowLifecycle(t *testing.T) {
	client, exec := startServer(t)

	if err := client.Ping(); err != nil {
		t.Fatalf("Ping: %v", err)
	}

	a, err := client.Launch("terminal", nil)
	if err != nil || a != "w1" {
		t.Fatalf("Launch terminal = %q, %v", a, err)
	}
	b, err := client.Launch("Notepad", map[string]string{"content": "hi"})
	if err != nil || b != "w2" {
		t.Fatalf("Launch notepad = %q, %v", b, err)
	}

	list, err := client.ListWindows()
	if err != nil {
		t.Fatalf("ListWindows: %v", err)
	}
	if len(list.Windows) != 2 || list.Focused != b {
		t.Fatalf("ListWindows = %+v", list)
	}
	if got := list.Windows[1].Geometry; got != (window.Rect{X: 500, Y: 48, Width: 485, Height: 742}) {
		t.Fatalf("stack geometry = %v", got)
	}
	if !list.Windows[1].Focused || list.Windows[1].Frame == nil {
		t.Fatalf("window info = %+v", list.Windows[1])
	}
	args, ok := exec.c.Snapshot().Windows[1].Args.(map[string]any)
	if !ok || args["content"] != "hi" {
		t.Fatalf("args = %#v", exec.c.Snapshot().Windows[1].Args)
	}

	if changed, err := client.Minimize(a); err != nil || !changed {
		t.Fatalf("Minimize = %v, %v", changed, err)
	}
	if changed, err := client.Focus("missing"); err != nil || changed {
		t.Fatalf("Focus(missing) = %v, %v", changed, err)
	}
	if changed, err := client.ToggleFloat(b); err != nil || !changed {
		t.Fatalf("ToggleFloat = %v, %v", changed, err)
	}
	if changed, err := client.Move(b, 42, 99); err != nil || !changed {
		t.Fatalf("Move = %v, %v", changed, err)
	}
	w, _ := exec.c.Window(b)
	if w.Geometry.X != 42 || w.Geometry.Y != 99 {
		t.Fatalf("moved geometry = %v", w.Geometry)
	}

	vp, err := client.ResizeViewport(-5, 600)
	if err != nil || vp != (tiling.Viewport{Width: 0, Height: 600}) {
		t.Fatalf("ResizeViewport = %v, %v", vp, err)
	}

	status, err := client.Status()
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if status.Host != "test" || status.Windows != 2 || status.LayoutMode != "master-stack" {
		t.Fatalf("Status = %+v", status)
	}

	if changed, err := client.Close(a); err != nil || !changed {
		t.Fatalf("Close = %v, %v", changed, err)
	}
	if err := client.Blur(); err != nil {
		t.Fatalf("Blur: %v", err)
	}
	if _, ok := exec.c.Focused(); ok {
		t.Fatalf("focus should be cleared")
	}
}

func TestClientServer_Errors(t *testing.T) {
	client, _ := startServer(t)

	if _, err := client.Launch("doom", nil); err == nil || !strings.Contains(err.Error(), "unknown application kind") {
		t.Fatalf("Launch(doom) err = %v", err)
	}
	if _, err := client.Close(""); err == nil {
		t.Fatalf("Close(\"\") should fail")
	}
	if err := client.call("SELF_DESTRUCT", nil, nil); err == nil || !strings.Contains(err.Error(), "Unknown command") {
		t.Fatalf("unknown command err = %v", err)
	}
}

func TestClientServer_ListApps(t *testing.T) {
	client, _ := startServer(t)
	entries, err := client.ListApps()
	if err != nil {
		t.Fatalf("ListApps: %v", err)
	}
	if len(entries) != len(window.Kinds()) || entries[0].Kind != window.KindTerminal {
		t.Fatalf("ListApps = %+v", entries)
	}
}

func TestHandle_ExecutorFailure(t *testing.T) {
	srv, err := NewServer(failingExecutor{}, nil, ServerOptions{SocketPath: filepath.Join(t.TempDir(), "x.sock")})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	resp := srv.Handle(context.Background(), &Request{Command: CommandStatus})
	if resp.Status != StatusError || !strings.Contains(resp.Error, "stopped") {
		t.Fatalf("resp = %+v", resp)
	}
}

func TestParseRequest(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr bool
	}{
		{"valid", `{"command":"PING"}`, false},
		{"missing command", `{}`, true},
		{"garbage", `{nope`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRequest([]byte(tt.in))
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRequest(%s) err = %v", tt.in, err)
			}
		})
	}
}

func TestStart_RefusesLiveSocket(t *testing.T) {
	client, _ := startServer(t)
	other, err := NewServer(&lockedExecutor{c: newController()}, nil, ServerOptions{SocketPath: client.SocketPath()})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	if err := other.Start(); err == nil {
		other.Stop()
		t.Fatalf("second Start should fail while the first server is alive")
	}
}
