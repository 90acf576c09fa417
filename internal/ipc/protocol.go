package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/1broseidon/opendoor/internal/apps"
	"github.com/1broseidon/opendoor/internal/tiling"
	"github.com/1broseidon/opendoor/internal/window"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandPing           CommandType = "PING"
	CommandStatus         CommandType = "STATUS"
	CommandListWindows    CommandType = "LIST_WINDOWS"
	CommandListApps       CommandType = "LIST_APPS"
	CommandLaunch         CommandType = "LAUNCH"
	CommandClose          CommandType = "CLOSE"
	CommandFocus          CommandType = "FOCUS"
	CommandBlur           CommandType = "BLUR"
	CommandMinimize       CommandType = "MINIMIZE"
	CommandRestore        CommandType = "RESTORE"
	CommandToggleMaximize CommandType = "TOGGLE_MAXIMIZE"
	CommandToggleFloat    CommandType = "TOGGLE_FLOAT"
	CommandMove           CommandType = "MOVE"
	CommandResizeViewport CommandType = "RESIZE_VIEWPORT"
)

const (
	StatusOK    = "OK"
	StatusError = "ERROR"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData is returned by STATUS.
type StatusData struct {
	Host          string          `json:"host"`
	Windows       int             `json:"windows"`
	Focused       window.ID       `json:"focused,omitempty"`
	Viewport      tiling.Viewport `json:"viewport"`
	LayoutMode    string          `json:"layout_mode"`
	UptimeSeconds int64           `json:"uptime_seconds"`
}

// WindowInfo is one entry of LIST_WINDOWS. Frame is the on-screen rect
// after maximize; it is empty for minimized windows.
type WindowInfo struct {
	window.Window
	Focused bool         `json:"focused"`
	Frame   *window.Rect `json:"frame,omitempty"`
}

// WindowsData is returned by LIST_WINDOWS.
type WindowsData struct {
	Windows  []WindowInfo    `json:"windows"`
	Focused  window.ID       `json:"focused,omitempty"`
	Viewport tiling.Viewport `json:"viewport"`
}

// AppsData is returned by LIST_APPS.
type AppsData struct {
	Apps []apps.Entry `json:"apps"`
}

// IDPayload addresses one window.
type IDPayload struct {
	ID window.ID `json:"id"`
}

// LaunchPayload is the payload for LAUNCH. Args is forwarded to the view
// as decoded JSON.
type LaunchPayload struct {
	Kind string          `json:"kind"`
	Args json.RawMessage `json:"args,omitempty"`
}

// LaunchData is returned by LAUNCH.
type LaunchData struct {
	ID window.ID `json:"id"`
}

// MovePayload is the payload for MOVE.
type MovePayload struct {
	ID window.ID `json:"id"`
	X  int       `json:"x"`
	Y  int       `json:"y"`
}

// ViewportPayload is the payload for RESIZE_VIEWPORT.
type ViewportPayload struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ChangedData reports whether a window operation took effect. Unknown ids
// are not errors; they report Changed false.
type ChangedData struct {
	Changed bool `json:"changed"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: StatusOK,
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: StatusError,
		Error:  errMsg,
	}
}

// NewRequest builds a request, marshalling payload when non-nil.
func NewRequest(cmd CommandType, payload interface{}) (*Request, error) {
	req := &Request{Command: cmd}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s payload: %w", cmd, err)
		}
		req.Payload = data
	}
	return req, nil
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	if req.Command == "" {
		return nil, fmt.Errorf("failed to parse request: missing command")
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
