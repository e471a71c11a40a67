package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/areawm/internal/runtimepath"
	"github.com/1broseidon/areawm/internal/wm"
)

// Client talks to a running manager over its control socket.
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
	return NewClientAt(socketPath)
}

// NewClientAt creates a client for an explicit socket path.
func NewClientAt(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to window manager: %w (is areawm running?)", err)
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

	respData, err := bufio.NewReader(conn).ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("window manager error: %s", resp.Error)
	}
	return &resp, nil
}

// call sends command with an optional payload and decodes the data into out.
func (c *Client) call(command CommandType, payload, out interface{}) error {
	req := &Request{Command: command}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal %s payload: %w", command, err)
		}
		req.Payload = raw
	}
	resp, err := c.sendRequest(req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("failed to parse %s data: %w", command, err)
	}
	return nil
}

// Status retrieves the manager status.
func (c *Client) Status() (*StatusData, error) {
	var status StatusData
	if err := c.call(CommandGetStatus, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// State retrieves the full manager snapshot.
func (c *Client) State() (*wm.Snapshot, error) {
	var snap wm.Snapshot
	if err := c.call(CommandGetState, nil, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// Clients lists every managed client in list order.
func (c *Client) Clients() ([]wm.ClientInfo, error) {
	var data ClientsData
	if err := c.call(CommandListClients, nil, &data); err != nil {
		return nil, err
	}
	return data.Clients, nil
}

// Actions lists the action names bindings and RunAction accept.
func (c *Client) Actions() ([]string, error) {
	var data ActionsData
	if err := c.call(CommandListActions, nil, &data); err != nil {
		return nil, err
	}
	return data.Actions, nil
}

// SetLayout switches the current desktop's layout.
func (c *Client) SetLayout(layout string) (*StatusData, error) {
	var status StatusData
	if err := c.call(CommandSetLayout, SetLayoutPayload{Layout: layout}, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// FocusDesktop switches to a 1-based desktop.
func (c *Client) FocusDesktop(n int) (*StatusData, error) {
	var status StatusData
	if err := c.call(CommandFocusDesktop, FocusDesktopPayload{Desktop: n}, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// RunAction runs a named action as if a binding had fired.
func (c *Client) RunAction(action, arg string, command []string) (*StatusData, error) {
	var status StatusData
	p := RunActionPayload{Action: action, Arg: arg, Command: command}
	if err := c.call(CommandRunAction, p, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Ping checks if the manager is responding
func (c *Client) Ping() error {
	_, err := c.Status()
	return err
}
