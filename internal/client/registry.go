package client

import (
	"github.com/1broseidon/areawm/internal/area"
	"github.com/1broseidon/areawm/internal/platform"
)

// Registry is a circular doubly linked list of clients headed by a permanent
// sentinel. The sentinel carries the root window and the Root area tag, and
// lookups return it to mean "nothing".
type Registry struct {
	root *Client
	n    int
}

// NewRegistry creates an empty registry whose sentinel stands for rootWin.
func NewRegistry(rootWin platform.WindowID) *Registry {
	s := &Client{Win: rootWin, Area: area.Root, Desktops: ^uint32(0)}
	s.prev, s.next = s, s
	return &Registry{root: s}
}

// Root returns the sentinel.
func (r *Registry) Root() *Client { return r.root }

// IsRoot reports whether c is the sentinel or nil.
func (r *Registry) IsRoot(c *Client) bool { return c == nil || c == r.root }

// First returns the first client, or the sentinel when empty.
func (r *Registry) First() *Client { return r.root.next }

// Len returns the number of managed clients.
func (r *Registry) Len() int { return r.n }

// InsertAfter links c directly after anchor.
func (r *Registry) InsertAfter(anchor, c *Client) {
	c.prev = anchor
	c.next = anchor.next
	anchor.next = c
	c.next.prev = c
	r.n++
}

// Remove unlinks c. Removing the sentinel is ignored.
func (r *Registry) Remove(c *Client) {
	if c == r.root || c.next == nil {
		return
	}
	c.prev.next = c.next
	c.next.prev = c.prev
	c.prev, c.next = nil, nil
	r.n--
}

func (r *Registry) unlink(c *Client) {
	c.prev.next = c.next
	c.next.prev = c.prev
}

func (r *Registry) link(anchor, c *Client) {
	c.prev = anchor
	c.next = anchor.next
	anchor.next = c
	c.next.prev = c
}

// Contains reports whether c is a managed client of this registry.
func (r *Registry) Contains(c *Client) bool {
	if r.IsRoot(c) {
		return false
	}
	for x := r.root.next; x != r.root; x = x.next {
		if x == c {
			return true
		}
	}
	return false
}

// Each calls fn for every client in list order until fn returns false.
// fn must not unlink the client it is handed.
func (r *Registry) Each(fn func(c *Client) bool) {
	for c := r.root.next; c != r.root; c = c.next {
		if !fn(c) {
			return
		}
	}
}

// Visible returns the clients that belong to any desktop in mask, in list
// order.
func (r *Registry) Visible(mask uint32) []*Client {
	var out []*Client
	for c := r.root.next; c != r.root; c = c.next {
		if c.OnDesktops(mask) {
			out = append(out, c)
		}
	}
	return out
}

// Count returns how many clients on mask satisfy pred. A nil pred counts all.
func (r *Registry) Count(mask uint32, pred func(c *Client) bool) int {
	n := 0
	for c := r.root.next; c != r.root; c = c.next {
		if c.OnDesktops(mask) && (pred == nil || pred(c)) {
			n++
		}
	}
	return n
}

// ByWin finds the client owning window w, or returns nil.
func (r *Registry) ByWin(w platform.WindowID) *Client {
	return r.find(func(c *Client) bool { return c.Win == w })
}

// ByFrame finds the client whose frame is w.
func (r *Registry) ByFrame(w platform.WindowID) *Client {
	return r.find(func(c *Client) bool { return c.Frame == w })
}

// ByIcon finds the iconified client whose proxy window is w.
func (r *Registry) ByIcon(w platform.WindowID) *Client {
	return r.find(func(c *Client) bool { return c.Icon != nil && c.Icon.Win == w })
}

// ByAny resolves a client from its window, frame or icon.
func (r *Registry) ByAny(w platform.WindowID) *Client {
	if w == platform.None {
		return nil
	}
	return r.find(func(c *Client) bool {
		return c.Win == w || c.Frame == w || (c.Icon != nil && c.Icon.Win == w)
	})
}

func (r *Registry) find(match func(c *Client) bool) *Client {
	for c := r.root.next; c != r.root; c = c.next {
		if match(c) {
			return c
		}
	}
	return nil
}

// AreaHead returns the node a new client of area t is inserted after:
// before the first t client on mask, else before the first t client
// anywhere, else after the last client ordered before t, else the sentinel.
func (r *Registry) AreaHead(t area.Type, mask uint32) *Client {
	for c := r.root.next; c != r.root; c = c.next {
		if c.Area == t && c.OnDesktops(mask) {
			return c.prev
		}
	}
	for c := r.root.next; c != r.root; c = c.next {
		if c.Area == t {
			return c.prev
		}
	}
	head := r.root
	for c := r.root.next; c != r.root; c = c.next {
		if c.Area.Before(t) {
			head = c
		}
	}
	return head
}

// OrderCompare returns 0 when a == b, -1 when b follows a before the list
// wraps to the sentinel, and 1 otherwise.
func (r *Registry) OrderCompare(a, b *Client) int {
	if a == b {
		return 0
	}
	for c := a; c != r.root; c = c.next {
		if c == b {
			return -1
		}
	}
	return 1
}

// MoveBetweenAreas relinks from so that it lands next to to as a member of
// area t. It does not retag from. It reports false when nothing moved.
func (r *Registry) MoveBetweenAreas(from, to *Client, t area.Type) bool {
	ft, tt := from.Area, to.Area
	if from == r.root || (from == to && (tt == t || (ft == area.Main && t == area.Second))) {
		return false
	}
	before := r.OrderCompare(from, to) == -1
	r.unlink(from)
	var head *Client
	if tt == t {
		if (ft == area.Main && tt == area.Second) || (ft == tt && before) {
			head = to
		} else {
			head = to.prev
		}
	} else {
		switch {
		case ft == area.Main && t == area.Second:
			head = to.next
		case from == to:
			head = to.prev
		default:
			head = to
		}
	}
	r.link(head, from)
	return true
}

// Swap exchanges the list positions of a and b. Areas are left for the
// caller to exchange.
func (r *Registry) Swap(a, b *Client) {
	if a == b || a == r.root || b == r.root {
		return
	}
	aprev, bprev := a.prev, b.prev
	anchor := bprev
	if r.OrderCompare(a, b) == -1 {
		anchor = b
	}
	r.unlink(a)
	r.link(anchor, a)
	if aprev != b && bprev != a {
		r.unlink(b)
		r.link(aprev, b)
	}
}
