package client

import (
	"math/rand"
	"testing"

	"github.com/1broseidon/areawm/internal/area"
	"github.com/1broseidon/areawm/internal/geom"
	"github.com/1broseidon/areawm/internal/platform"
)

func newClient(win platform.WindowID, t area.Type) *Client {
	return &Client{Win: win, Frame: win + 1000, Area: t, Desktops: 1}
}

// order returns the window ids in list order.
func order(r *Registry) []platform.WindowID {
	var out []platform.WindowID
	r.Each(func(c *Client) bool {
		out = append(out, c.Win)
		return true
	})
	return out
}

func checkCircular(t *testing.T, r *Registry) {
	t.Helper()
	n := 0
	c := r.Root()
	for {
		if c.next.prev != c {
			t.Fatalf("broken back link at window %d", c.Win)
		}
		c = c.next
		if c == r.Root() {
			break
		}
		n++
		if n > r.Len()+1 {
			t.Fatalf("sentinel unreachable after %d steps", n)
		}
	}
	if n != r.Len() {
		t.Fatalf("walked %d clients, Len() = %d", n, r.Len())
	}
	if r.Root().Area != area.Root {
		t.Fatalf("sentinel retagged as %v", r.Root().Area)
	}
}

func equalIDs(a []platform.WindowID, b ...platform.WindowID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestRegistry_RandomOperationsStayCircular(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	r := NewRegistry(1)
	var live []*Client
	next := platform.WindowID(10)

	for step := 0; step < 500; step++ {
		switch op := rng.Intn(5); {
		case op == 0 || len(live) < 2:
			tp := area.Type(rng.Intn(int(area.Iconified) + 1))
			c := newClient(next, tp)
			next++
			r.InsertAfter(r.AreaHead(tp, 1), c)
			live = append(live, c)
		case op == 1:
			i := rng.Intn(len(live))
			r.Remove(live[i])
			live = append(live[:i], live[i+1:]...)
		case op == 2:
			a, b := live[rng.Intn(len(live))], live[rng.Intn(len(live))]
			r.Swap(a, b)
		case op == 3:
			a, b := live[rng.Intn(len(live))], live[rng.Intn(len(live))]
			tp := area.Type(rng.Intn(int(area.Iconified) + 1))
			if r.MoveBetweenAreas(a, b, tp) {
				a.Area = tp
			}
		default:
			r.Remove(r.Root())
		}
		checkCircular(t, r)
	}
}

func TestRegistry_RemoveSentinelIgnored(t *testing.T) {
	r := NewRegistry(1)
	r.InsertAfter(r.Root(), newClient(10, area.Main))
	r.Remove(r.Root())
	checkCircular(t, r)
	if r.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", r.Len())
	}
}

func TestRegistry_AreaHeadKeepsAreaOrder(t *testing.T) {
	r := NewRegistry(1)
	for i, tp := range []area.Type{area.Floating, area.Second, area.Main, area.Fixed, area.Second} {
		c := newClient(platform.WindowID(10+i), tp)
		r.InsertAfter(r.AreaHead(tp, 1), c)
	}
	var got []area.Type
	r.Each(func(c *Client) bool {
		got = append(got, c.Area)
		return true
	})
	want := []area.Type{area.Main, area.Second, area.Second, area.Fixed, area.Floating}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("area order = %v, want %v", got, want)
		}
	}
	// The newest second client is inserted before the existing ones.
	if ids := order(r); ids[1] != 14 {
		t.Fatalf("order = %v, want window 14 at position 1", ids)
	}
}

func TestRegistry_AreaHeadPrefersVisibleMember(t *testing.T) {
	r := NewRegistry(1)
	a := newClient(10, area.Second)
	a.Desktops = 2
	b := newClient(11, area.Second)
	r.InsertAfter(r.Root(), a)
	r.InsertAfter(a, b)
	if head := r.AreaHead(area.Second, 1); head != a {
		t.Fatalf("AreaHead = %v, want the node before the visible second client", head.Win)
	}
	if head := r.AreaHead(area.Second, 4); head != r.Root() {
		t.Fatalf("AreaHead on empty desktop = %v, want the sentinel", head.Win)
	}
}

func TestRegistry_SwapAdjacentAndDistant(t *testing.T) {
	tests := []struct {
		name string
		a, b int
		want []platform.WindowID
	}{
		{"adjacent forward", 0, 1, []platform.WindowID{11, 10, 12, 13}},
		{"adjacent backward", 1, 0, []platform.WindowID{11, 10, 12, 13}},
		{"distant", 0, 3, []platform.WindowID{13, 11, 12, 10}},
		{"distant reversed", 3, 1, []platform.WindowID{10, 13, 12, 11}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry(1)
			cs := make([]*Client, 4)
			anchor := r.Root()
			for i := range cs {
				cs[i] = newClient(platform.WindowID(10+i), area.Second)
				r.InsertAfter(anchor, cs[i])
				anchor = cs[i]
			}
			r.Swap(cs[tt.a], cs[tt.b])
			checkCircular(t, r)
			if got := order(r); !equalIDs(got, tt.want...) {
				t.Fatalf("order = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRegistry_OrderCompare(t *testing.T) {
	r := NewRegistry(1)
	a := newClient(10, area.Main)
	b := newClient(11, area.Main)
	r.InsertAfter(r.Root(), a)
	r.InsertAfter(a, b)
	if r.OrderCompare(a, a) != 0 {
		t.Fatalf("OrderCompare(a, a) != 0")
	}
	if r.OrderCompare(a, b) != -1 {
		t.Fatalf("OrderCompare(a, b) != -1")
	}
	if r.OrderCompare(b, a) != 1 {
		t.Fatalf("OrderCompare(b, a) != 1")
	}
}

func TestRegistry_MoveBetweenAreas(t *testing.T) {
	build := func() (*Registry, []*Client) {
		r := NewRegistry(1)
		types := []area.Type{area.Main, area.Second, area.Second, area.Fixed}
		cs := make([]*Client, len(types))
		anchor := r.Root()
		for i, tp := range types {
			cs[i] = newClient(platform.WindowID(10+i), tp)
			r.InsertAfter(anchor, cs[i])
			anchor = cs[i]
		}
		return r, cs
	}

	t.Run("sentinel refused", func(t *testing.T) {
		r, cs := build()
		if r.MoveBetweenAreas(r.Root(), cs[0], area.Second) {
			t.Fatalf("moving the sentinel succeeded")
		}
	})
	t.Run("self same area refused", func(t *testing.T) {
		r, cs := build()
		if r.MoveBetweenAreas(cs[1], cs[1], area.Second) {
			t.Fatalf("no-op move succeeded")
		}
		if r.MoveBetweenAreas(cs[0], cs[0], area.Second) {
			t.Fatalf("main to second on self succeeded")
		}
	})
	t.Run("main onto second lands after target", func(t *testing.T) {
		r, cs := build()
		if !r.MoveBetweenAreas(cs[0], cs[2], area.Second) {
			t.Fatalf("move refused")
		}
		if got := order(r); !equalIDs(got, 11, 12, 10, 13) {
			t.Fatalf("order = %v", got)
		}
	})
	t.Run("earlier same area lands after target", func(t *testing.T) {
		r, cs := build()
		r.MoveBetweenAreas(cs[1], cs[2], area.Second)
		if got := order(r); !equalIDs(got, 10, 12, 11, 13) {
			t.Fatalf("order = %v", got)
		}
	})
	t.Run("later same area lands before target", func(t *testing.T) {
		r, cs := build()
		r.MoveBetweenAreas(cs[2], cs[1], area.Second)
		if got := order(r); !equalIDs(got, 10, 12, 11, 13) {
			t.Fatalf("order = %v", got)
		}
	})
	t.Run("into different area lands after target", func(t *testing.T) {
		r, cs := build()
		r.MoveBetweenAreas(cs[3], cs[0], area.Floating)
		if got := order(r); !equalIDs(got, 10, 13, 11, 12) {
			t.Fatalf("order = %v", got)
		}
	})
	t.Run("self retag keeps position", func(t *testing.T) {
		r, cs := build()
		if !r.MoveBetweenAreas(cs[2], cs[2], area.Fixed) {
			t.Fatalf("move refused")
		}
		if got := order(r); !equalIDs(got, 10, 11, 12, 13) {
			t.Fatalf("order = %v", got)
		}
	})
}

func TestRegistry_Lookups(t *testing.T) {
	r := NewRegistry(1)
	c := newClient(10, area.Iconified)
	c.Icon = &Icon{Win: 500, Restore: area.Second}
	r.InsertAfter(r.Root(), c)

	if r.ByWin(10) != c || r.ByFrame(1010) != c || r.ByIcon(500) != c {
		t.Fatalf("lookups did not resolve the client")
	}
	if r.ByAny(500) != c || r.ByAny(platform.None) != nil {
		t.Fatalf("ByAny mismatch")
	}
	if r.ByWin(99) != nil {
		t.Fatalf("ByWin(99) should be nil")
	}
	if !r.Contains(c) || r.Contains(r.Root()) {
		t.Fatalf("Contains mismatch")
	}
	if n := r.Count(1, func(c *Client) bool { return c.Iconified() }); n != 1 {
		t.Fatalf("Count = %d, want 1", n)
	}
	r.Remove(c)
	if r.Contains(c) || r.Len() != 0 {
		t.Fatalf("client still present after Remove")
	}
}

func TestClient_FrameRect(t *testing.T) {
	c := &Client{Rect: geom.Rect{X: 100, Y: 100, W: 300, H: 200}, Border: 2, TitleBar: 20}
	f := c.FrameRect()
	if f.X != 98 || f.Y != 78 || f.W != 300 || f.H != 220 {
		t.Fatalf("FrameRect = %v", f)
	}
	o := c.OuterRect()
	if o.W != 304 || o.H != 224 {
		t.Fatalf("OuterRect = %v", o)
	}
}
