// Package mcp exposes the window manager's control plane as MCP tools over
// stdio.
package mcp

import (
	"context"
	"io"
	"log/slog"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/opendoor/internal/apps"
	"github.com/1broseidon/opendoor/internal/ipc"
	"github.com/1broseidon/opendoor/internal/window"
)

const (
	ServerName    = "opendoor"
	ServerVersion = "0.1.0"
)

// Backend is the subset of *ipc.Client the tools call.
type Backend interface {
	ListWindows() (*ipc.WindowsData, error)
	ListApps() ([]apps.Entry, error)
	Launch(kind string, args interface{}) (window.ID, error)
	Close(id window.ID) (bool, error)
	Focus(id window.ID) (bool, error)
	Minimize(id window.ID) (bool, error)
	Restore(id window.ID) (bool, error)
	ToggleMaximize(id window.ID) (bool, error)
	ToggleFloat(id window.ID) (bool, error)
	Move(id window.ID, x, y int) (bool, error)
}

// Server is the MCP server for a running desktop or daemon.
type Server struct {
	mcpServer *mcpsdk.Server
	backend   Backend
	logger    *slog.Logger
}

// NewServer creates an MCP server that forwards tool calls to backend.
func NewServer(backend Backend, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Server{backend: backend, logger: logger}
	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)
	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_windows",
		Description: "List open desktop windows in tiling order with geometry, z-order and state flags. The first tiled window is the master.",
	}, s.handleListWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_apps",
		Description: "List launchable applications with their default title and preferred size.",
	}, s.handleListApps)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "launch_app",
		Description: "Open a new window for an application kind. The window is tiled, focused and raised. Returns the new window id.",
	}, s.handleLaunchApp)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "close_window",
		Description: "Close a window. Remaining tiled windows re-tile; focus is cleared if the closed window held it.",
	}, s.windowTool("close_window", Backend.Close))

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "focus_window",
		Description: "Focus a window and raise it above all others.",
	}, s.windowTool("focus_window", Backend.Focus))

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "minimize_window",
		Description: "Minimize a window. It leaves the tiling until restored.",
	}, s.windowTool("minimize_window", Backend.Minimize))

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "restore_window",
		Description: "Restore a minimized window, focus it and re-tile.",
	}, s.windowTool("restore_window", Backend.Restore))

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "toggle_maximize",
		Description: "Toggle a window between maximized (covers the viewport) and its normal geometry.",
	}, s.windowTool("toggle_maximize", Backend.ToggleMaximize))

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "toggle_float",
		Description: "Toggle a window between tiled and floating. Floating windows keep their position and can be moved.",
	}, s.windowTool("toggle_float", Backend.ToggleFloat))

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "move_window",
		Description: "Move a floating, non-maximized window to x,y in viewport pixels. Tiled windows are not moved.",
	}, s.handleMoveWindow)
}
