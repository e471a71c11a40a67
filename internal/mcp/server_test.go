package mcp

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/1broseidon/areawm/internal/ipc"
	"github.com/1broseidon/areawm/internal/wm"
)

type fakeManager struct {
	status  ipc.StatusData
	clients []wm.ClientInfo
	err     error

	layout  string
	desktop int
	action  string
	arg     string
	command []string
}

func (f *fakeManager) Status() (*ipc.StatusData, error) {
	if f.err != nil {
		return nil, f.err
	}
	st := f.status
	return &st, nil
}

func (f *fakeManager) Clients() ([]wm.ClientInfo, error) { return f.clients, f.err }

func (f *fakeManager) Actions() ([]string, error) { return wm.ActionNames(), nil }

func (f *fakeManager) SetLayout(layout string) (*ipc.StatusData, error) {
	f.layout = layout
	f.status.Layout = layout
	return f.Status()
}

func (f *fakeManager) FocusDesktop(n int) (*ipc.StatusData, error) {
	f.desktop = n
	f.status.Desktop = n
	return f.Status()
}

func (f *fakeManager) RunAction(action, arg string, command []string) (*ipc.StatusData, error) {
	f.action, f.arg, f.command = action, arg, command
	return f.Status()
}

func newTestServer(m Manager) *Server {
	return NewServer(m, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestStatusTool(t *testing.T) {
	m := &fakeManager{status: ipc.StatusData{Desktop: 2, Desktops: 4, Layout: "tile", Clients: 3, FocusedTitle: "term"}}
	s := newTestServer(m)

	_, out, err := s.handleStatus(context.Background(), nil, StatusInput{})
	if err != nil {
		t.Fatalf("handleStatus: %v", err)
	}
	if out.Desktop != 2 || out.Layout != "tile" || out.Clients != 3 || out.FocusedTitle != "term" {
		t.Fatalf("status = %+v", out)
	}

	m.err = errors.New("dial unix: no such file")
	if _, _, err := s.handleStatus(context.Background(), nil, StatusInput{}); err == nil || !strings.Contains(err.Error(), "not reachable") {
		t.Fatalf("unreachable manager error = %v", err)
	}
}

func TestListClientsFilters(t *testing.T) {
	m := &fakeManager{clients: []wm.ClientInfo{
		{Window: 1, Area: "main", Desktops: []int{1}},
		{Window: 2, Area: "second", Desktops: []int{1}},
		{Window: 3, Area: "floating", Desktops: []int{2}},
		{Window: 4, Area: "fixed", Desktops: []int{1, 2, 3}, Sticky: true},
	}}
	s := newTestServer(m)

	tests := []struct {
		name string
		in   ListClientsInput
		want []uint32
	}{
		{name: "all", want: []uint32{1, 2, 3, 4}},
		{name: "desktop 2 includes sticky", in: ListClientsInput{Desktop: 2}, want: []uint32{3, 4}},
		{name: "area", in: ListClientsInput{Area: " Second "}, want: []uint32{2}},
		{name: "desktop and area", in: ListClientsInput{Desktop: 1, Area: "floating"}, want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, out, err := s.handleListClients(context.Background(), nil, tt.in)
			if err != nil {
				t.Fatalf("handleListClients: %v", err)
			}
			if out.Count != len(tt.want) {
				t.Fatalf("count = %d, want %d", out.Count, len(tt.want))
			}
			for i, c := range out.Clients {
				if c.Window != tt.want[i] {
					t.Fatalf("client %d = %d, want %d", i, c.Window, tt.want[i])
				}
			}
		})
	}
}

func TestCommandTools(t *testing.T) {
	m := &fakeManager{status: ipc.StatusData{Desktop: 1, Desktops: 4, Layout: "tile"}}
	s := newTestServer(m)
	ctx := context.Background()

	_, out, err := s.handleSetLayout(ctx, nil, SetLayoutInput{Layout: "stack"})
	if err != nil || m.layout != "stack" || out.Layout != "stack" {
		t.Fatalf("set_layout: out=%+v layout=%q err=%v", out, m.layout, err)
	}
	if _, _, err := s.handleSetLayout(ctx, nil, SetLayoutInput{Layout: " "}); err == nil {
		t.Fatalf("empty layout accepted")
	}

	_, out, err = s.handleFocusDesktop(ctx, nil, FocusDesktopInput{Desktop: 3})
	if err != nil || m.desktop != 3 || out.Desktop != 3 {
		t.Fatalf("focus_desktop: out=%+v desktop=%d err=%v", out, m.desktop, err)
	}
	if _, _, err := s.handleFocusDesktop(ctx, nil, FocusDesktopInput{Desktop: 0}); err == nil {
		t.Fatalf("desktop 0 accepted")
	}

	if _, _, err := s.handleRunAction(ctx, nil, RunActionInput{Action: "exec", Command: []string{"xterm"}}); err != nil {
		t.Fatalf("run_action: %v", err)
	}
	if m.action != "exec" || len(m.command) != 1 || m.command[0] != "xterm" {
		t.Fatalf("run_action forwarded %q %v", m.action, m.command)
	}
	if _, _, err := s.handleRunAction(ctx, nil, RunActionInput{Action: "quit"}); err == nil {
		t.Fatalf("quit accepted")
	}
}

type unknownActionManager struct{ fakeManager }

func (u *unknownActionManager) RunAction(action, _ string, _ []string) (*ipc.StatusData, error) {
	return nil, errors.New("unknown action: " + action)
}

func TestRunActionUnknownListsNames(t *testing.T) {
	s := newTestServer(&unknownActionManager{})
	_, _, err := s.handleRunAction(context.Background(), nil, RunActionInput{Action: "fly"})
	if err == nil || !strings.Contains(err.Error(), "next_client") {
		t.Fatalf("error = %v, want available names", err)
	}
}
