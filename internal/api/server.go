// Package api serves the window manager state over HTTP and a websocket
// stream for status bars.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/1broseidon/areawm/internal/wm"
)

// Controller is the part of the window manager the API drives.
type Controller interface {
	State(ctx context.Context) (wm.Snapshot, error)
	Execute(ctx context.Context, action, arg string, argv []string) (wm.Snapshot, error)
}

// Server is the HTTP state API.
type Server struct {
	server *http.Server
	router *mux.Router
	ctrl   Controller
	hub    *Hub
	log    *slog.Logger
}

// ActionRequest is the body of POST /actions/{name}.
type ActionRequest struct {
	Arg     string   `json:"arg,omitempty"`
	Command []string `json:"command,omitempty"`
}

// LayoutRequest is the body of POST /layout.
type LayoutRequest struct {
	Layout string `json:"layout"`
}

type errorBody struct {
	Error string `json:"error"`
}

// NewServer builds the router. metrics may be nil, in which case /metrics
// is not routed.
func NewServer(addr string, ctrl Controller, metrics http.Handler, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	router := mux.NewRouter()
	s := &Server{
		router: router,
		ctrl:   ctrl,
		log:    logger.With("component", "api"),
		server: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 2 * time.Second,
			MaxHeaderBytes:    1 << 16,
		},
	}
	s.hub = NewHub(s.log)

	router.HandleFunc("/state", s.handleState).Methods(http.MethodGet)
	router.HandleFunc("/clients", s.handleClients).Methods(http.MethodGet)
	router.HandleFunc("/clients/{id:[0-9]+}", s.handleClient).Methods(http.MethodGet)
	router.HandleFunc("/desktops/{n:[0-9]+}", s.handleDesktop).Methods(http.MethodPost)
	router.HandleFunc("/layout", s.handleLayout).Methods(http.MethodPost)
	router.HandleFunc("/actions", s.handleActions).Methods(http.MethodGet)
	router.HandleFunc("/actions/{name}", s.handleAction).Methods(http.MethodPost)
	router.HandleFunc("/events", s.hub.handler(s.ctrl)).Methods(http.MethodGet)
	if metrics != nil {
		router.Handle("/metrics", metrics).Methods(http.MethodGet)
	}
	router.PathPrefix("/").Handler(http.NotFoundHandler())
	return s
}

// Hub returns the websocket hub. Register it as a wm.Observer.
func (s *Server) Hub() *Hub { return s.hub }

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler { return s.router }

// Start listens on the configured address and serves in the background.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.server.Addr, err)
	}
	s.log.Info("api listening", "addr", ln.Addr().String())
	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("api server failed", "error", err)
		}
	}()
	return nil
}

// Shutdown stops the listener and closes websocket subscribers.
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.Close()
	return s.server.Shutdown(ctx)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	snap, err := s.ctrl.State(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.json(w, r, http.StatusOK, snap)
}

func (s *Server) handleClients(w http.ResponseWriter, r *http.Request) {
	snap, err := s.ctrl.State(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.json(w, r, http.StatusOK, map[string]any{"items": snap.Clients})
}

func (s *Server) handleClient(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		s.json(w, r, http.StatusNotFound, errorBody{Error: "no such client"})
		return
	}
	snap, err := s.ctrl.State(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	c, ok := snap.Client(uint32(id))
	if !ok {
		s.json(w, r, http.StatusNotFound, errorBody{Error: "no such client"})
		return
	}
	s.json(w, r, http.StatusOK, map[string]any{"item": c})
}

func (s *Server) handleDesktop(w http.ResponseWriter, r *http.Request) {
	s.execute(w, r, "focus_desktop", mux.Vars(r)["n"], nil)
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var req LayoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Layout == "" {
		s.json(w, r, http.StatusUnprocessableEntity, errorBody{Error: "layout is required"})
		return
	}
	s.execute(w, r, "change_layout", req.Layout, nil)
}

func (s *Server) handleActions(w http.ResponseWriter, r *http.Request) {
	s.json(w, r, http.StatusOK, map[string]any{"items": wm.ActionNames()})
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	var req ActionRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.json(w, r, http.StatusUnprocessableEntity, errorBody{Error: "invalid request body"})
			return
		}
	}
	s.execute(w, r, mux.Vars(r)["name"], req.Arg, req.Command)
}

func (s *Server) execute(w http.ResponseWriter, r *http.Request, action, arg string, argv []string) {
	snap, err := s.ctrl.Execute(r.Context(), action, arg, argv)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.json(w, r, http.StatusOK, snap)
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	s.json(w, r, statusFor(err), errorBody{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, wm.ErrUnknownAction):
		return http.StatusNotFound
	case errors.Is(err, wm.ErrClosed):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadRequest
	}
}

func (s *Server) json(w http.ResponseWriter, r *http.Request, status int, data any) {
	s.log.Debug("api request", "method", r.Method, "path", r.URL.Path, "status", status)
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Debug("failed to write response", "error", err)
	}
}
