package api

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/1broseidon/areawm/internal/wm"
)

const writeTimeout = 2 * time.Second

// Hub fans state snapshots out to websocket subscribers. Publish never
// blocks: a slow subscriber only ever sees the newest snapshot.
type Hub struct {
	log *slog.Logger

	mu     sync.Mutex
	latest wm.Snapshot
	have   bool
	subs   map[chan struct{}]struct{}
	closed bool
}

// NewHub returns an empty hub.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{log: logger, subs: make(map[chan struct{}]struct{})}
}

// Publish implements wm.Observer. Snapshots whose version was already
// published are dropped.
func (h *Hub) Publish(s wm.Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.have && s.Version == h.latest.Version {
		return
	}
	h.latest, h.have = s, true
	for ch := range h.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Subscribers returns the number of connected subscribers.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Close disconnects every subscriber.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for ch := range h.subs {
		close(ch)
		delete(h.subs, ch)
	}
}

func (h *Hub) subscribe() (chan struct{}, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, false
	}
	ch := make(chan struct{}, 1)
	h.subs[ch] = struct{}{}
	return ch, true
}

func (h *Hub) unsubscribe(ch chan struct{}) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[ch]; ok {
		delete(h.subs, ch)
		close(ch)
	}
}

func (h *Hub) current() (wm.Snapshot, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.latest, h.have
}

// handler upgrades the request and streams snapshots until the peer goes
// away. The first message is the current state.
func (h *Hub) handler(ctrl Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, nil)
		if err != nil {
			h.log.Debug("websocket accept failed", "error", err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "")
		h.log.Debug("websocket connected", "remote", r.RemoteAddr)
		defer h.log.Debug("websocket disconnected", "remote", r.RemoteAddr)

		ch, ok := h.subscribe()
		if !ok {
			c.Close(websocket.StatusGoingAway, "shutting down")
			return
		}
		defer h.unsubscribe(ch)

		// Subscribers only listen; CloseRead handles control frames.
		ctx := c.CloseRead(r.Context())

		snap, ok := h.current()
		if !ok {
			snap, err = ctrl.State(ctx)
			if err != nil {
				c.Close(websocket.StatusInternalError, "state unavailable")
				return
			}
		}
		if err := h.send(ctx, c, snap); err != nil {
			return
		}
		sent := snap.Version

		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-ch:
				if !ok {
					c.Close(websocket.StatusGoingAway, "shutting down")
					return
				}
				snap, _ := h.current()
				if snap.Version == sent {
					continue
				}
				if err := h.send(ctx, c, snap); err != nil {
					return
				}
				sent = snap.Version
			}
		}
	}
}

func (h *Hub) send(ctx context.Context, c *websocket.Conn, s wm.Snapshot) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	if err := wsjson.Write(ctx, c, s); err != nil {
		h.log.Debug("websocket write failed", "error", err)
		return err
	}
	return nil
}
