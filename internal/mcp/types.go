package mcp

import "github.com/1broseidon/areawm/internal/wm"

// StatusInput is the input for the wm_status tool.
type StatusInput struct{}

// StatusOutput summarises the manager state.
type StatusOutput struct {
	Desktop      int    `json:"desktop"`
	Desktops     int    `json:"desktops"`
	Layout       string `json:"layout"`
	FocusMode    string `json:"focus_mode"`
	Focused      uint32 `json:"focused,omitempty"`
	FocusedTitle string `json:"focused_title,omitempty"`
	Clients      int    `json:"clients"`
	Uptime       int64  `json:"uptime_seconds"`
}

// ListClientsInput is the input for the list_clients tool.
type ListClientsInput struct {
	Desktop int    `json:"desktop,omitempty" jsonschema:"Only list clients on this 1-based desktop"`
	Area    string `json:"area,omitempty" jsonschema:"Only list clients in this area (main, second, fixed, floating, iconified)"`
}

// ListClientsOutput is the output for the list_clients tool.
type ListClientsOutput struct {
	Clients []wm.ClientInfo `json:"clients"`
	Count   int             `json:"count"`
}

// SetLayoutInput is the input for the set_layout tool.
type SetLayoutInput struct {
	Layout string `json:"layout" jsonschema:"Layout name: tile, stack, full or preview"`
}

// FocusDesktopInput is the input for the focus_desktop tool.
type FocusDesktopInput struct {
	Desktop int `json:"desktop" jsonschema:"1-based desktop number"`
}

// RunActionInput is the input for the run_action tool.
type RunActionInput struct {
	Action  string   `json:"action" jsonschema:"Action name, as listed in the error for unknown names"`
	Arg     string   `json:"arg,omitempty" jsonschema:"Textual argument, e.g. a layout, area, desktop number, ratio delta or direction"`
	Command []string `json:"command,omitempty" jsonschema:"Command vector for the exec action"`
}
