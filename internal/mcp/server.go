// Package mcp exposes the running window manager to MCP clients over stdio.
package mcp

import (
	"context"
	"log/slog"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/areawm/internal/ipc"
	"github.com/1broseidon/areawm/internal/wm"
)

const (
	ServerName    = "areawm"
	ServerVersion = "0.1.0"
)

// Manager is the IPC surface the tools call. *ipc.Client implements it.
type Manager interface {
	Status() (*ipc.StatusData, error)
	Clients() ([]wm.ClientInfo, error)
	Actions() ([]string, error)
	SetLayout(layout string) (*ipc.StatusData, error)
	FocusDesktop(n int) (*ipc.StatusData, error)
	RunAction(action, arg string, command []string) (*ipc.StatusData, error)
}

// Server is the MCP server for a running areawm.
type Server struct {
	mcpServer *mcpsdk.Server
	wm        Manager
	log       *slog.Logger
}

// NewServer creates a server whose tools talk to the manager through m.
func NewServer(m Manager, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		wm:  m,
		log: logger.With("component", "mcp"),
	}
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

// Run serves on the stdio transport until the peer disconnects or ctx ends.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "wm_status",
		Description: "Report the current desktop, its layout, the focus mode and the focused window of the running areawm.",
	}, s.handleStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_clients",
		Description: "List managed windows in stacking-list order with their area (main, second, fixed, floating, iconified), desktops and geometry. Optionally filter by desktop or area.",
	}, s.handleListClients)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_layout",
		Description: "Switch the current desktop's layout. One of tile, stack, full, preview.",
	}, s.handleSetLayout)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "focus_desktop",
		Description: "Switch to a desktop by its 1-based number.",
	}, s.handleFocusDesktop)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "run_action",
		Description: "Run a named window manager action as if a key binding had fired, e.g. next_client, change_area with arg \"floating\", or exec with a command vector. Pointer actions are rejected.",
	}, s.handleRunAction)
}
