package mcp

import (
	"context"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/areawm/internal/ipc"
	"github.com/1broseidon/areawm/internal/wm"
)

func statusOutput(st *ipc.StatusData) StatusOutput {
	return StatusOutput{
		Desktop:      st.Desktop,
		Desktops:     st.Desktops,
		Layout:       st.Layout,
		FocusMode:    st.FocusMode,
		Focused:      st.Focused,
		FocusedTitle: st.FocusedTitle,
		Clients:      st.Clients,
		Uptime:       st.UptimeSeconds,
	}
}

func (s *Server) handleStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ StatusInput) (*mcpsdk.CallToolResult, StatusOutput, error) {
	st, err := s.wm.Status()
	if err != nil {
		return nil, StatusOutput{}, fmt.Errorf("areawm is not reachable: %w", err)
	}
	return nil, statusOutput(st), nil
}

func (s *Server) handleListClients(_ context.Context, _ *mcpsdk.CallToolRequest, args ListClientsInput) (*mcpsdk.CallToolResult, ListClientsOutput, error) {
	clients, err := s.wm.Clients()
	if err != nil {
		return nil, ListClientsOutput{}, fmt.Errorf("areawm is not reachable: %w", err)
	}
	areaFilter := strings.ToLower(strings.TrimSpace(args.Area))
	out := ListClientsOutput{Clients: make([]wm.ClientInfo, 0, len(clients))}
	for _, c := range clients {
		if args.Desktop > 0 && !onDesktop(c, args.Desktop) {
			continue
		}
		if areaFilter != "" && c.Area != areaFilter {
			continue
		}
		out.Clients = append(out.Clients, c)
	}
	out.Count = len(out.Clients)
	return nil, out, nil
}

func onDesktop(c wm.ClientInfo, n int) bool {
	if c.Sticky {
		return true
	}
	for _, d := range c.Desktops {
		if d == n {
			return true
		}
	}
	return false
}

func (s *Server) handleSetLayout(_ context.Context, _ *mcpsdk.CallToolRequest, args SetLayoutInput) (*mcpsdk.CallToolResult, StatusOutput, error) {
	if strings.TrimSpace(args.Layout) == "" {
		return nil, StatusOutput{}, fmt.Errorf("layout is required")
	}
	st, err := s.wm.SetLayout(args.Layout)
	if err != nil {
		return nil, StatusOutput{}, err
	}
	s.log.Info("layout changed", "layout", st.Layout, "desktop", st.Desktop)
	return nil, statusOutput(st), nil
}

func (s *Server) handleFocusDesktop(_ context.Context, _ *mcpsdk.CallToolRequest, args FocusDesktopInput) (*mcpsdk.CallToolResult, StatusOutput, error) {
	if args.Desktop < 1 {
		return nil, StatusOutput{}, fmt.Errorf("desktop must be 1 or greater, got %d", args.Desktop)
	}
	st, err := s.wm.FocusDesktop(args.Desktop)
	if err != nil {
		return nil, StatusOutput{}, err
	}
	return nil, statusOutput(st), nil
}

func (s *Server) handleRunAction(_ context.Context, _ *mcpsdk.CallToolRequest, args RunActionInput) (*mcpsdk.CallToolResult, StatusOutput, error) {
	name := strings.TrimSpace(args.Action)
	if name == "" {
		return nil, StatusOutput{}, fmt.Errorf("action is required")
	}
	if name == "quit" {
		return nil, StatusOutput{}, fmt.Errorf("quit is not available over MCP")
	}
	st, err := s.wm.RunAction(name, args.Arg, args.Command)
	if err != nil {
		if strings.Contains(err.Error(), wm.ErrUnknownAction.Error()) {
			if names, lerr := s.wm.Actions(); lerr == nil {
				return nil, StatusOutput{}, fmt.Errorf("%w (available: %s)", err, strings.Join(names, ", "))
			}
		}
		return nil, StatusOutput{}, err
	}
	s.log.Info("action run", "action", name)
	return nil, statusOutput(st), nil
}
