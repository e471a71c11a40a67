package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/1broseidon/areawm/internal/wm"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandGetStatus    CommandType = "GET_STATUS"
	CommandGetState     CommandType = "GET_STATE"
	CommandListClients  CommandType = "LIST_CLIENTS"
	CommandListActions  CommandType = "LIST_ACTIONS"
	CommandSetLayout    CommandType = "SET_LAYOUT"
	CommandFocusDesktop CommandType = "FOCUS_DESKTOP"
	CommandRunAction    CommandType = "RUN_ACTION"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData summarises the manager for `areawm status` and bars.
type StatusData struct {
	Desktop       int    `json:"desktop"`
	Desktops      int    `json:"desktops"`
	Layout        string `json:"layout"`
	FocusMode     string `json:"focus_mode"`
	Focused       uint32 `json:"focused,omitempty"`
	FocusedTitle  string `json:"focused_title,omitempty"`
	Clients       int    `json:"clients"`
	Version       uint64 `json:"version"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

type ClientsData struct {
	Clients []wm.ClientInfo `json:"clients"`
}

type ActionsData struct {
	Actions []string `json:"actions"`
}

type SetLayoutPayload struct {
	Layout string `json:"layout"`
}

// FocusDesktopPayload carries a 1-based desktop number.
type FocusDesktopPayload struct {
	Desktop int `json:"desktop"`
}

type RunActionPayload struct {
	Action  string   `json:"action"`
	Arg     string   `json:"arg,omitempty"`
	Command []string `json:"command,omitempty"`
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
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
