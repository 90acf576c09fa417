package mcp

import "github.com/1broseidon/opendoor/internal/window"

// ListWindowsInput is the input for the list_windows tool.
type ListWindowsInput struct {
	IncludeMinimized *bool `json:"include_minimized,omitempty" jsonschema:"Include minimized windows (default: true)"`
}

// WindowSummary describes one open window.
type WindowSummary struct {
	ID        window.ID   `json:"id"`
	Kind      window.Kind `json:"kind"`
	Title     string      `json:"title"`
	Geometry  window.Rect `json:"geometry"`
	ZOrder    int         `json:"z_order"`
	Focused   bool        `json:"focused"`
	Minimized bool        `json:"minimized"`
	Maximized bool        `json:"maximized"`
	Floating  bool        `json:"floating"`
}

// ListWindowsOutput is the output for the list_windows tool.
type ListWindowsOutput struct {
	Windows []WindowSummary `json:"windows"`
	Focused window.ID       `json:"focused,omitempty"`
}

// ListAppsInput is the input for the list_apps tool.
type ListAppsInput struct{}

// AppSummary describes one launchable application.
type AppSummary struct {
	Kind   window.Kind `json:"kind"`
	Title  string      `json:"title"`
	Width  int         `json:"width"`
	Height int         `json:"height"`
}

// ListAppsOutput is the output for the list_apps tool.
type ListAppsOutput struct {
	Apps []AppSummary `json:"apps"`
}

// LaunchAppInput is the input for the launch_app tool.
type LaunchAppInput struct {
	Kind string         `json:"kind" jsonschema:"required,Application kind: terminal, browser, notepad, settings, files, chat, social, steam or game"`
	Args map[string]any `json:"args,omitempty" jsonschema:"Optional launch payload forwarded to the application (e.g. {\"content\": \"...\"} for notepad, {\"gameId\": \"cs2\", \"title\": \"Counter-Strike 2\"} for game)"`
}

// LaunchAppOutput is the output for the launch_app tool.
type LaunchAppOutput struct {
	ID window.ID `json:"id"`
}

// WindowInput addresses one window.
type WindowInput struct {
	ID string `json:"id" jsonschema:"required,Window id as returned by list_windows or launch_app"`
}

// ChangedOutput reports whether the operation took effect; unknown ids
// report false.
type ChangedOutput struct {
	ID      window.ID `json:"id"`
	Changed bool      `json:"changed"`
}

// MoveWindowInput is the input for the move_window tool.
type MoveWindowInput struct {
	ID string `json:"id" jsonschema:"required,Window id of a floating window"`
	X  int    `json:"x" jsonschema:"required,Left edge in viewport pixels"`
	Y  int    `json:"y" jsonschema:"required,Top edge in viewport pixels"`
}
