package wm

import (
	"testing"

	"github.com/1broseidon/areawm/internal/area"
	"github.com/1broseidon/areawm/internal/client"
	"github.com/1broseidon/areawm/internal/platform"
)

func eligible(m *Manager) int {
	return m.reg.Count(m.curMask(), func(c *client.Client) bool { return c.Area.MainEligible() })
}

func checkCapacity(t *testing.T, m *Manager) {
	t.Helper()
	want := min(m.desks.Current().MainCapacity, eligible(m))
	if got := m.countArea(area.Main); got != want {
		t.Fatalf("%s layout: main clients = %d, want %d", m.desks.Current().CurLayout, got, want)
	}
}

func TestArrange_MainCapacityInEveryLayout(t *testing.T) {
	tests := []struct {
		layout   string
		capacity int
		clients  int
	}{
		{layout: "full", capacity: 1, clients: 3},
		{layout: "preview", capacity: 1, clients: 4},
		{layout: "tile", capacity: 1, clients: 3},
		{layout: "stack", capacity: 1, clients: 3},
		{layout: "stack", capacity: 2, clients: 5},
		{layout: "preview", capacity: 3, clients: 2},
	}
	for _, tt := range tests {
		t.Run(tt.layout, func(t *testing.T) {
			cfg := testConfig()
			cfg.MainCapacity = tt.capacity
			h := newHarness(t, cfg)
			h.run(t, "change_layout", tt.layout)
			for i := 0; i < tt.clients; i++ {
				h.open(t)
				checkCapacity(t, h.m)
			}

			h.run(t, "change_layout", "tile")
			checkCapacity(t, h.m)
			checkRing(t, h.m)
		})
	}
}

func TestArrange_CapacityChangeCarriesAcrossLayouts(t *testing.T) {
	for _, name := range []string{"full", "preview", "stack"} {
		t.Run(name, func(t *testing.T) {
			h := newHarness(t, testConfig())
			h.open(t)
			h.open(t)
			h.run(t, "adjust_main_capacity", "1")
			checkCapacity(t, h.m)

			h.run(t, "change_layout", name)
			h.open(t)
			h.open(t)
			checkCapacity(t, h.m)

			// Removing a client rebalances the bands outside Tile too.
			c := h.m.reg.First()
			h.m.Dispatch(platform.DestroyNotify{Event: c.Frame, Window: c.Win})
			checkCapacity(t, h.m)
			if got := h.m.countArea(area.Main); got != 2 {
				t.Fatalf("main clients = %d, want 2", got)
			}
		})
	}
}
