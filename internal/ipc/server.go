package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/1broseidon/areawm/internal/runtimepath"
	"github.com/1broseidon/areawm/internal/wm"
)

// requestTimeout bounds how long one request may wait on the run loop.
const requestTimeout = 5 * time.Second

// Controller is the part of the window manager the server drives.
type Controller interface {
	State(ctx context.Context) (wm.Snapshot, error)
	Execute(ctx context.Context, action, arg string, argv []string) (wm.Snapshot, error)
}

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	listener     net.Listener
	ctrl         Controller
	log          *slog.Logger
	startTime    time.Time
	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates a server on socketPath, or the default runtime socket
// when socketPath is empty.
func NewServer(socketPath string, ctrl Controller, logger *slog.Logger) (*Server, error) {
	if socketPath == "" {
		p, err := runtimepath.SocketPath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
		}
		socketPath = p
	}
	if logger == nil {
		logger = slog.Default()
	}

	// Remove a stale socket left by a crashed manager.
	os.Remove(socketPath)

	return &Server{
		socketPath: socketPath,
		ctrl:       ctrl,
		log:        logger.With("component", "ipc"),
		startTime:  time.Now(),
	}, nil
}

// SocketPath returns the path the server listens on.
func (s *Server) SocketPath() string { return s.socketPath }

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.log.Info("IPC server listening", "socket", s.socketPath)
	go s.acceptLoop()
	return nil
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			if s.shuttingDown {
				s.shutdownMu.Unlock()
				return
			}
			s.shutdownMu.Unlock()
			s.log.Warn("IPC accept error", "error", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

// handleConnection serves one request per connection: a JSON line in, a
// JSON line out.
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(2 * requestTimeout))

	data, err := bufio.NewReader(conn).ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.log.Warn("IPC read error", "error", err)
		return
	}

	var resp *Response
	if req, err := ParseRequest(data); err != nil {
		resp = NewErrorResponse(fmt.Sprintf("Invalid request: %v", err))
	} else {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		resp = s.handleCommand(ctx, req)
		cancel()
	}

	respData, err := resp.Marshal()
	if err != nil {
		s.log.Warn("failed to marshal response", "error", err)
		return
	}
	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		s.log.Warn("failed to send response", "error", err)
	}
}

func (s *Server) handleCommand(ctx context.Context, req *Request) *Response {
	s.log.Debug("IPC request", "command", req.Command)
	switch req.Command {
	case CommandGetStatus:
		return s.respondStatus(s.ctrl.State(ctx))
	case CommandGetState:
		snap, err := s.ctrl.State(ctx)
		if err != nil {
			return NewErrorResponse(err.Error())
		}
		return ok(snap)
	case CommandListClients:
		snap, err := s.ctrl.State(ctx)
		if err != nil {
			return NewErrorResponse(err.Error())
		}
		return ok(ClientsData{Clients: snap.Clients})
	case CommandListActions:
		return ok(ActionsData{Actions: wm.ActionNames()})
	case CommandSetLayout:
		var p SetLayoutPayload
		if err := json.Unmarshal(req.Payload, &p); err != nil {
			return NewErrorResponse(fmt.Sprintf("Invalid layout payload: %v", err))
		}
		if p.Layout == "" {
			return NewErrorResponse("layout is required")
		}
		return s.respondStatus(s.ctrl.Execute(ctx, "change_layout", p.Layout, nil))
	case CommandFocusDesktop:
		var p FocusDesktopPayload
		if err := json.Unmarshal(req.Payload, &p); err != nil {
			return NewErrorResponse(fmt.Sprintf("Invalid desktop payload: %v", err))
		}
		return s.respondStatus(s.ctrl.Execute(ctx, "focus_desktop", strconv.Itoa(p.Desktop), nil))
	case CommandRunAction:
		var p RunActionPayload
		if err := json.Unmarshal(req.Payload, &p); err != nil {
			return NewErrorResponse(fmt.Sprintf("Invalid action payload: %v", err))
		}
		if p.Action == "" {
			return NewErrorResponse("action is required")
		}
		return s.respondStatus(s.ctrl.Execute(ctx, p.Action, p.Arg, p.Command))
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func (s *Server) respondStatus(snap wm.Snapshot, err error) *Response {
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return ok(s.status(snap))
}

func (s *Server) status(snap wm.Snapshot) StatusData {
	cur := snap.Current()
	st := StatusData{
		Desktop:       snap.Desktop,
		Desktops:      len(snap.Desktops),
		Layout:        cur.Layout,
		FocusMode:     snap.FocusMode,
		Focused:       snap.Focused,
		Clients:       len(snap.Clients),
		Version:       snap.Version,
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
	}
	if c, found := snap.Client(snap.Focused); found && snap.Focused != 0 {
		st.FocusedTitle = c.Title
	}
	return st
}

func ok(data interface{}) *Response {
	resp, err := NewOKResponse(data)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

// Stop closes the listener and removes the socket.
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	os.Remove(s.socketPath)
}
