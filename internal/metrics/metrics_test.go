package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/1broseidon/areawm/internal/platform"
	"github.com/1broseidon/areawm/internal/wm"
)

func TestCounters(t *testing.T) {
	r := New()
	r.EventHandled(platform.KindMapRequest)
	r.EventHandled(platform.KindMapRequest)
	r.EventHandled(platform.KindKeyPress)
	r.ActionRun("next_client")
	r.GestureDone("swap", true)
	r.GestureDone("swap", false)
	r.GestureDone("swap", false)

	if got := testutil.ToFloat64(r.events.WithLabelValues("map-request")); got != 2 {
		t.Fatalf("map-request events = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.actions.WithLabelValues("next_client")); got != 1 {
		t.Fatalf("next_client actions = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.gestures.WithLabelValues("swap", "false")); got != 2 {
		t.Fatalf("unapplied swaps = %v, want 2", got)
	}
}

func TestPublishReplacesGauges(t *testing.T) {
	r := New()
	r.Publish(wm.Snapshot{
		Desktop:  1,
		Desktops: []wm.DesktopInfo{{Number: 1, Layout: "tile"}, {Number: 2, Layout: "stack"}},
		Clients:  []wm.ClientInfo{{Area: "main"}, {Area: "second"}, {Area: "second"}},
	})
	r.Publish(wm.Snapshot{
		Desktop:  2,
		Desktops: []wm.DesktopInfo{{Number: 1, Layout: "preview"}, {Number: 2, Layout: "stack"}},
		Clients:  []wm.ClientInfo{{Area: "main"}},
	})

	if got := testutil.ToFloat64(r.desktop); got != 2 {
		t.Fatalf("current desktop = %v, want 2", got)
	}
	if got := testutil.CollectAndCount(r.clients); got != 1 {
		t.Fatalf("client series = %d, want 1 after reset", got)
	}
	if got := testutil.ToFloat64(r.layout.WithLabelValues("1", "preview")); got != 1 {
		t.Fatalf("desktop 1 preview = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(r.layout); got != 2 {
		t.Fatalf("layout series = %d, want 2", got)
	}
}

func TestHandler(t *testing.T) {
	r := New()
	r.ActionRun("quit")

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Result().Body)
	if !strings.Contains(string(body), `areawm_actions_total{action="quit"} 1`) {
		t.Fatalf("metrics output missing action counter:\n%s", body)
	}
}
