package mcp

import (
	"context"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/opendoor/internal/window"
)

func (s *Server) handleListWindows(_ context.Context, _ *mcpsdk.CallToolRequest, args ListWindowsInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	data, err := s.backend.ListWindows()
	if err != nil {
		return nil, ListWindowsOutput{}, fmt.Errorf("list_windows: %w", err)
	}
	includeMinimized := args.IncludeMinimized == nil || *args.IncludeMinimized

	out := ListWindowsOutput{Windows: []WindowSummary{}, Focused: data.Focused}
	for _, w := range data.Windows {
		if w.Minimized && !includeMinimized {
			continue
		}
		geom := w.Geometry
		if w.Frame != nil {
			geom = *w.Frame
		}
		out.Windows = append(out.Windows, WindowSummary{
			ID:        w.ID,
			Kind:      w.Kind,
			Title:     w.Title,
			Geometry:  geom,
			ZOrder:    w.ZOrder,
			Focused:   w.Focused,
			Minimized: w.Minimized,
			Maximized: w.Maximized,
			Floating:  w.Floating,
		})
	}
	return nil, out, nil
}

func (s *Server) handleListApps(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListAppsInput) (*mcpsdk.CallToolResult, ListAppsOutput, error) {
	entries, err := s.backend.ListApps()
	if err != nil {
		return nil, ListAppsOutput{}, fmt.Errorf("list_apps: %w", err)
	}
	out := ListAppsOutput{Apps: make([]AppSummary, 0, len(entries))}
	for _, entry := range entries {
		out.Apps = append(out.Apps, AppSummary{Kind: entry.Kind, Title: entry.Title, Width: entry.Width, Height: entry.Height})
	}
	return nil, out, nil
}

func (s *Server) handleLaunchApp(_ context.Context, _ *mcpsdk.CallToolRequest, args LaunchAppInput) (*mcpsdk.CallToolResult, LaunchAppOutput, error) {
	kind, err := window.ParseKind(args.Kind)
	if err != nil {
		return nil, LaunchAppOutput{}, fmt.Errorf("launch_app: %w (valid kinds: %s)", err, kindList())
	}
	var payload interface{}
	if len(args.Args) > 0 {
		payload = args.Args
	}
	id, err := s.backend.Launch(string(kind), payload)
	if err != nil {
		return nil, LaunchAppOutput{}, fmt.Errorf("launch_app: %w", err)
	}
	s.logger.Info("mcp launch", "kind", kind, "window", id)
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: fmt.Sprintf("Launched %s as window %s", kind, id)},
		},
	}, LaunchAppOutput{ID: id}, nil
}

// windowTool adapts a single-id backend operation into a tool handler.
func (s *Server) windowTool(name string, op func(Backend, window.ID) (bool, error)) func(context.Context, *mcpsdk.CallToolRequest, WindowInput) (*mcpsdk.CallToolResult, ChangedOutput, error) {
	return func(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowInput) (*mcpsdk.CallToolResult, ChangedOutput, error) {
		id := window.ID(strings.TrimSpace(args.ID))
		if id == "" {
			return nil, ChangedOutput{}, fmt.Errorf("%s: id is required", name)
		}
		changed, err := op(s.backend, id)
		if err != nil {
			return nil, ChangedOutput{}, fmt.Errorf("%s: %w", name, err)
		}
		s.logger.Debug("mcp window tool", "tool", name, "window", id, "changed", changed)
		return nil, ChangedOutput{ID: id, Changed: changed}, nil
	}
}

func (s *Server) handleMoveWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args MoveWindowInput) (*mcpsdk.CallToolResult, ChangedOutput, error) {
	id := window.ID(strings.TrimSpace(args.ID))
	if id == "" {
		return nil, ChangedOutput{}, fmt.Errorf("move_window: id is required")
	}
	changed, err := s.backend.Move(id, args.X, args.Y)
	if err != nil {
		return nil, ChangedOutput{}, fmt.Errorf("move_window: %w", err)
	}
	return nil, ChangedOutput{ID: id, Changed: changed}, nil
}

func kindList() string {
	kinds := window.Kinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}
