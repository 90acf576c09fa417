package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"github.com/1broseidon/opendoor/internal/apps"
	"github.com/1broseidon/opendoor/internal/runtimepath"
	"github.com/1broseidon/opendoor/internal/window"
	"github.com/1broseidon/opendoor/internal/wm"
)

// Executor runs fn on the goroutine that owns the controller and returns
// once fn has completed. A nil error means fn ran; an error means fn did not
// run and never will, so a failed request left the controller untouched.
type Executor interface {
	Do(ctx context.Context, fn func(c *wm.Controller)) error
}

// ServerOptions configures a Server.
type ServerOptions struct {
	// SocketPath defaults to runtimepath.SocketPath().
	SocketPath string
	// Host names the process serving requests ("daemon" or "desktop").
	Host string
	// RequestTimeout bounds how long a request waits for the event loop.
	RequestTimeout time.Duration
	Logger         *slog.Logger
}

// Server handles IPC requests from clients
type Server struct {
	socketPath string
	host       string
	timeout    time.Duration
	listener   net.Listener
	exec       Executor
	registry   *apps.Registry
	logger     *slog.Logger
	startTime  time.Time

	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates a new IPC server
func NewServer(exec Executor, registry *apps.Registry, opts ServerOptions) (*Server, error) {
	socketPath := opts.SocketPath
	if socketPath == "" {
		var err error
		socketPath, err = runtimepath.SocketPath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
		}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	host := opts.Host
	if host == "" {
		host = "daemon"
	}
	if registry == nil {
		registry = apps.DefaultRegistry()
	}

	return &Server{
		socketPath: socketPath,
		host:       host,
		timeout:    timeout,
		exec:       exec,
		registry:   registry,
		logger:     logger,
		startTime:  time.Now(),
	}, nil
}

// SocketPath returns the path the server listens on.
func (s *Server) SocketPath() string { return s.socketPath }

// Start begins listening for IPC connections
func (s *Server) Start() error {
	if s.socketAlive() {
		return fmt.Errorf("another opendoor instance is listening on %s", s.socketPath)
	}
	// Remove stale socket if present
	os.Remove(s.socketPath)

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.shutdownMu.Lock()
	s.listener = listener
	s.shuttingDown = false
	s.shutdownMu.Unlock()

	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.logger.Info("IPC server listening", "socket", s.socketPath)

	go s.acceptLoop()

	return nil
}

// Serve runs the server until ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	if err := s.Start(); err != nil {
		return err
	}
	<-ctx.Done()
	s.Stop()
	return ctx.Err()
}

func (s *Server) String() string { return "ipc-server" }

func (s *Server) socketAlive() bool {
	conn, err := net.DialTimeout("unix", s.socketPath, 200*time.Millisecond)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			if s.shuttingDown {
				s.shutdownMu.Unlock()
				return
			}
			s.shutdownMu.Unlock()
			if errors.Is(err, net.ErrClosed) {
				return
			}
			s.logger.Warn("IPC accept error", "err", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

// handleConnection reads one newline-terminated request and writes one
// response.
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(s.timeout + time.Second))

	reader := bufio.NewReader(conn)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.logger.Warn("IPC read error", "err", err)
		return
	}

	var resp *Response
	req, err := ParseRequest(data)
	if err != nil {
		resp = NewErrorResponse(fmt.Sprintf("Invalid request: %v", err))
	} else {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		resp = s.Handle(ctx, req)
		cancel()
	}

	respData, err := resp.Marshal()
	if err != nil {
		s.logger.Error("failed to marshal response", "err", err)
		return
	}
	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		s.logger.Warn("failed to send response", "err", err)
	}
}

// Handle processes one request. It is exported for in-process callers such
// as tests.
func (s *Server) Handle(ctx context.Context, req *Request) *Response {
	s.logger.Debug("IPC request", "command", req.Command)
	switch req.Command {
	case CommandPing:
		return ok(nil)
	case CommandStatus:
		return s.handleStatus(ctx)
	case CommandListWindows:
		return s.handleListWindows(ctx)
	case CommandListApps:
		return ok(AppsData{Apps: s.registry.Entries()})
	case CommandLaunch:
		return s.handleLaunch(ctx, req.Payload)
	case CommandClose:
		return s.byID(ctx, req.Payload, (*wm.Controller).Close)
	case CommandFocus:
		return s.byID(ctx, req.Payload, (*wm.Controller).Focus)
	case CommandMinimize:
		return s.byID(ctx, req.Payload, (*wm.Controller).Minimize)
	case CommandRestore:
		return s.byID(ctx, req.Payload, (*wm.Controller).Restore)
	case CommandToggleMaximize:
		return s.byID(ctx, req.Payload, (*wm.Controller).ToggleMaximize)
	case CommandToggleFloat:
		return s.byID(ctx, req.Payload, (*wm.Controller).ToggleFloat)
	case CommandBlur:
		return s.run(ctx, func(c *wm.Controller) any {
			c.Blur()
			return nil
		})
	case CommandMove:
		return s.handleMove(ctx, req.Payload)
	case CommandResizeViewport:
		return s.handleResizeViewport(ctx, req.Payload)
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func ok(data interface{}) *Response {
	resp, err := NewOKResponse(data)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

// run executes fn on the event loop and wraps its result.
func (s *Server) run(ctx context.Context, fn func(c *wm.Controller) any) *Response {
	var out any
	err := s.exec.Do(ctx, func(c *wm.Controller) {
		out = fn(c)
	})
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("event loop unavailable: %v", err))
	}
	return ok(out)
}

func (s *Server) byID(ctx context.Context, payload json.RawMessage, op func(*wm.Controller, window.ID) bool) *Response {
	var p IDPayload
	if err := decodePayload(payload, &p); err != nil {
		return NewErrorResponse(err.Error())
	}
	if p.ID == "" {
		return NewErrorResponse("id is required")
	}
	return s.run(ctx, func(c *wm.Controller) any {
		return ChangedData{Changed: op(c, p.ID)}
	})
}

func (s *Server) handleStatus(ctx context.Context) *Response {
	return s.run(ctx, func(c *wm.Controller) any {
		focused, _ := c.Focused()
		return StatusData{
			Host:          s.host,
			Windows:       len(c.Windows()),
			Focused:       focused,
			Viewport:      c.Viewport(),
			LayoutMode:    string(c.Metrics().Mode),
			UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
		}
	})
}

func (s *Server) handleListWindows(ctx context.Context) *Response {
	return s.run(ctx, func(c *wm.Controller) any {
		return windowsData(c.Snapshot())
	})
}

func windowsData(snap wm.Snapshot) WindowsData {
	frames := make(map[window.ID]window.Rect)
	for _, f := range snap.Frames() {
		frames[f.ID] = f.Rect
	}
	out := WindowsData{Windows: make([]WindowInfo, 0, len(snap.Windows)), Focused: snap.Focused, Viewport: snap.Viewport}
	for _, w := range snap.Windows {
		info := WindowInfo{Window: w, Focused: w.ID == snap.Focused}
		if r, ok := frames[w.ID]; ok {
			info.Frame = &r
		}
		out.Windows = append(out.Windows, info)
	}
	return out
}

func (s *Server) handleLaunch(ctx context.Context, payload json.RawMessage) *Response {
	var p LaunchPayload
	if err := decodePayload(payload, &p); err != nil {
		return NewErrorResponse(err.Error())
	}
	kind, err := window.ParseKind(p.Kind)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	var args any
	if len(p.Args) > 0 {
		if err := json.Unmarshal(p.Args, &args); err != nil {
			return NewErrorResponse(fmt.Sprintf("invalid args: %v", err))
		}
	}
	return s.run(ctx, func(c *wm.Controller) any {
		return LaunchData{ID: c.Launch(kind, args)}
	})
}

func (s *Server) handleMove(ctx context.Context, payload json.RawMessage) *Response {
	var p MovePayload
	if err := decodePayload(payload, &p); err != nil {
		return NewErrorResponse(err.Error())
	}
	if p.ID == "" {
		return NewErrorResponse("id is required")
	}
	return s.run(ctx, func(c *wm.Controller) any {
		return ChangedData{Changed: c.Move(p.ID, p.X, p.Y)}
	})
}

func (s *Server) handleResizeViewport(ctx context.Context, payload json.RawMessage) *Response {
	var p ViewportPayload
	if err := decodePayload(payload, &p); err != nil {
		return NewErrorResponse(err.Error())
	}
	return s.run(ctx, func(c *wm.Controller) any {
		c.ResizeViewport(p.Width, p.Height)
		return c.Viewport()
	})
}

func decodePayload(payload json.RawMessage, v interface{}) error {
	if len(payload) == 0 {
		return fmt.Errorf("missing payload")
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the IPC server
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	if s.shuttingDown {
		s.shutdownMu.Unlock()
		return
	}
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	os.Remove(s.socketPath)
}
