package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/opendoor/internal/apps"
	"github.com/1broseidon/opendoor/internal/runtimepath"
	"github.com/1broseidon/opendoor/internal/tiling"
	"github.com/1broseidon/opendoor/internal/window"
)

// Client handles IPC communication with a running desktop or daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a client for the default socket.
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}
	return NewClientWithSocket(socketPath)
}

// NewClientWithSocket creates a client for an explicit socket path.
func NewClientWithSocket(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// SocketPath returns the socket the client dials.
func (c *Client) SocketPath() string { return c.socketPath }

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to opendoor: %w (is the desktop or daemon running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.Status == StatusError {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}

	return &resp, nil
}

// call sends cmd with payload and decodes the response data into out when
// out is non-nil.
func (c *Client) call(cmd CommandType, payload, out interface{}) error {
	req, err := NewRequest(cmd, payload)
	if err != nil {
		return err
	}
	resp, err := c.sendRequest(req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("failed to parse %s data: %w", cmd, err)
	}
	return nil
}

func (c *Client) changed(cmd CommandType, id window.ID) (bool, error) {
	var data ChangedData
	if err := c.call(cmd, IDPayload{ID: id}, &data); err != nil {
		return false, err
	}
	return data.Changed, nil
}

// Ping checks that the server is responding.
func (c *Client) Ping() error {
	return c.call(CommandPing, nil, nil)
}

// Status returns a summary of the running host.
func (c *Client) Status() (*StatusData, error) {
	var data StatusData
	if err := c.call(CommandStatus, nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// ListWindows returns every open window in store order.
func (c *Client) ListWindows() (*WindowsData, error) {
	var data WindowsData
	if err := c.call(CommandListWindows, nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// ListApps returns the launchable applications.
func (c *Client) ListApps() ([]apps.Entry, error) {
	var data AppsData
	if err := c.call(CommandListApps, nil, &data); err != nil {
		return nil, err
	}
	return data.Apps, nil
}

// Launch opens a window of kind. args is marshalled to JSON and may be nil.
func (c *Client) Launch(kind string, args interface{}) (window.ID, error) {
	p := LaunchPayload{Kind: kind}
	if args != nil {
		raw, err := json.Marshal(args)
		if err != nil {
			return "", fmt.Errorf("failed to marshal launch args: %w", err)
		}
		p.Args = raw
	}
	var data LaunchData
	if err := c.call(CommandLaunch, p, &data); err != nil {
		return "", err
	}
	return data.ID, nil
}

// Close closes a window. It reports false when id is unknown.
func (c *Client) Close(id window.ID) (bool, error) { return c.changed(CommandClose, id) }

// Focus focuses and raises a window.
func (c *Client) Focus(id window.ID) (bool, error) { return c.changed(CommandFocus, id) }

// Minimize hides a window.
func (c *Client) Minimize(id window.ID) (bool, error) { return c.changed(CommandMinimize, id) }

// Restore unhides a minimized window.
func (c *Client) Restore(id window.ID) (bool, error) { return c.changed(CommandRestore, id) }

// ToggleMaximize flips a window's maximized state.
func (c *Client) ToggleMaximize(id window.ID) (bool, error) {
	return c.changed(CommandToggleMaximize, id)
}

// ToggleFloat flips a window between tiled and floating.
func (c *Client) ToggleFloat(id window.ID) (bool, error) { return c.changed(CommandToggleFloat, id) }

// Blur clears focus.
func (c *Client) Blur() error {
	return c.call(CommandBlur, nil, nil)
}

// Move positions a floating window.
func (c *Client) Move(id window.ID, x, y int) (bool, error) {
	var data ChangedData
	if err := c.call(CommandMove, MovePayload{ID: id, X: x, Y: y}, &data); err != nil {
		return false, err
	}
	return data.Changed, nil
}

// ResizeViewport sets the viewport and returns the clamped result.
func (c *Client) ResizeViewport(width, height int) (tiling.Viewport, error) {
	var vp tiling.Viewport
	err := c.call(CommandResizeViewport, ViewportPayload{Width: width, Height: height}, &vp)
	return vp, err
}
