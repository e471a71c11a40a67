package wm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/1broseidon/areawm/internal/area"
	"github.com/1broseidon/areawm/internal/config"
	"github.com/1broseidon/areawm/internal/geom"
	"github.com/1broseidon/areawm/internal/layout"
	"github.com/1broseidon/areawm/internal/platform"
)

func TestNew_RequiresBackend(t *testing.T) {
	if _, err := New(Options{}); err == nil {
		t.Fatalf("expected error without backend")
	}
}

func TestStart_AdoptsExistingWindowsAndRunsAutostart(t *testing.T) {
	cfg := testConfig()
	cfg.Autostart = [][]string{{"xsetroot", "-solid", "black"}}
	be := newFakeBackend()
	be.existing = []platform.WindowID{50, 51}
	be.unmanageable[51] = true
	sp := &fakeSpawner{}

	m, err := New(Options{Config: cfg, Backend: be, Spawner: sp})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := m.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	if m.reg.Len() != 1 || m.reg.ByWin(50) == nil {
		t.Fatalf("expected only window 50 managed, got %d clients", m.reg.Len())
	}
	if len(sp.started) != 1 || sp.started[0][0] != "xsetroot" {
		t.Fatalf("autostart = %v", sp.started)
	}
	if len(be.published) == 0 {
		t.Fatalf("expected root state to be published")
	}
	if got := be.published[len(be.published)-1].Active; got != 50 {
		t.Fatalf("published active = %d, want 50", got)
	}
}

func TestMapRequest_TilesNewestIntoMain(t *testing.T) {
	h := newHarness(t, testConfig())
	a := h.open(t)
	b := h.open(t)
	c := h.open(t)

	want := map[platform.WindowID]area.Type{c: area.Main, b: area.Second, a: area.Second}
	for win, typ := range want {
		if got := h.m.reg.ByWin(win).Area; got != typ {
			t.Fatalf("window %d area = %v, want %v", win, got, typ)
		}
	}

	// 1200 wide, no fixed clients: second 300, main 900.
	main := h.be.configured[c]
	if main.X != 300 || main.W != 900 {
		t.Fatalf("main rect = %v, want x=300 w=900", main)
	}
	second := h.be.configured[a]
	if second.X != 0 || second.W != 300 {
		t.Fatalf("second rect = %v, want x=0 w=300", second)
	}
	if h.focusedWin() != c || h.be.focused != c {
		t.Fatalf("focus = %d (backend %d), want %d", h.focusedWin(), h.be.focused, c)
	}
	if !h.be.mapped[h.frameOf(t, c)] {
		t.Fatalf("frame of new client not mapped")
	}
	if len(h.be.frameGrabs[h.frameOf(t, c)]) == 0 {
		t.Fatalf("client chords not grabbed on frame")
	}
	checkRing(t, h.m)
}

func TestMapRequest_UnmanageableIsMappedDirectly(t *testing.T) {
	h := newHarness(t, testConfig())
	h.be.unmanageable[77] = true
	h.m.Dispatch(platform.MapRequest{Window: 77})
	if h.m.reg.Len() != 0 {
		t.Fatalf("override-redirect window was managed")
	}
	if !h.be.mapped[77] {
		t.Fatalf("window was not mapped")
	}
}

func TestMapRequest_DefaultAreaIsOneShot(t *testing.T) {
	h := newHarness(t, testConfig())
	h.run(t, "change_default_area", "floating")
	a := h.open(t)
	b := h.open(t)
	if got := h.m.reg.ByWin(a).Area; got != area.Floating {
		t.Fatalf("first window area = %v, want floating", got)
	}
	if got := h.m.reg.ByWin(b).Area; got != area.Main {
		t.Fatalf("second window area = %v, want main", got)
	}
}

func TestRules_ApplyAreaAndDesktop(t *testing.T) {
	cfg := testConfig()
	width := 5
	cfg.Rules = []config.Rule{
		{Class: "Gimp", Area: "floating"},
		{Instance: "gimp", Desktops: []int{2}, BorderWidth: &width},
	}
	h := newHarness(t, cfg)
	w := h.be.id()
	h.be.classes[w] = [2]string{"Gimp", "gimp"}
	h.m.Dispatch(platform.MapRequest{Window: w})

	c := h.m.reg.ByWin(w)
	if c == nil {
		t.Fatalf("window not managed")
	}
	if c.Area != area.Floating {
		t.Fatalf("area = %v, want floating", c.Area)
	}
	if c.Desktops != 1<<1 {
		t.Fatalf("desktops = %b, want desktop 2 only", c.Desktops)
	}
	if c.Border != 5 {
		t.Fatalf("border = %d, want 5", c.Border)
	}
	if h.be.mapped[c.Frame] {
		t.Fatalf("client on another desktop must stay unmapped")
	}
	if h.m.desks.At(1).CurFocus != c {
		t.Fatalf("client should be focused on its own desktop")
	}
}

func TestDestroy_FocusFallsBackToPrevious(t *testing.T) {
	h := newHarness(t, testConfig())
	a := h.open(t)
	b := h.open(t)

	h.m.Dispatch(platform.DestroyNotify{Event: h.frameOf(t, b), Window: b})
	if h.m.reg.ByWin(b) != nil {
		t.Fatalf("destroyed window still managed")
	}
	if h.focusedWin() != a {
		t.Fatalf("focus = %d, want %d", h.focusedWin(), a)
	}
	if got := h.m.reg.ByWin(a).Area; got != area.Main {
		t.Fatalf("remaining client area = %v, want promoted to main", got)
	}

	h.m.Dispatch(platform.DestroyNotify{Event: h.frameOf(t, a), Window: a})
	if !h.m.reg.IsRoot(h.m.desks.Current().CurFocus) {
		t.Fatalf("focus should fall back to the sentinel")
	}
	if h.be.focused != testRoot {
		t.Fatalf("input focus = %d, want root", h.be.focused)
	}
	checkRing(t, h.m)
}

func TestUnmap_OnlyClientWithdrawalUnmanages(t *testing.T) {
	h := newHarness(t, testConfig())
	a := h.open(t)
	frame := h.frameOf(t, a)

	// The manager hiding a frame is reported against the root.
	h.m.Dispatch(platform.UnmapNotify{Event: testRoot, Window: frame})
	if h.m.reg.ByWin(a) == nil {
		t.Fatalf("hiding the frame must not unmanage")
	}
	h.m.Dispatch(platform.UnmapNotify{Event: frame, Window: a})
	if h.m.reg.ByWin(a) != nil {
		t.Fatalf("withdrawn client still managed")
	}
}

func TestConfigureRequest(t *testing.T) {
	h := newHarness(t, testConfig())
	a := h.open(t)

	h.m.Dispatch(platform.ConfigureRequest{Window: a, Rect: geom.Rect{W: 10, H: 10}})
	if len(h.be.notified) != 1 || h.be.notified[0] != a {
		t.Fatalf("managed client should get a synthetic notify, got %v", h.be.notified)
	}
	h.m.Dispatch(platform.ConfigureRequest{Window: 99, Rect: geom.Rect{W: 10, H: 10}})
	if len(h.be.unmanaged) != 1 || h.be.unmanaged[0].Window != 99 {
		t.Fatalf("unmanaged window should be configured as asked, got %v", h.be.unmanaged)
	}
}

func TestPropertyNotify_RefreshesTitle(t *testing.T) {
	h := newHarness(t, testConfig())
	a := h.open(t)
	h.be.titles[a] = "vim"
	h.m.Dispatch(platform.PropertyNotify{Window: a, Atom: "_NET_WM_NAME"})
	if got := h.m.reg.ByWin(a).Title; got != "vim" {
		t.Fatalf("title = %q, want vim", got)
	}
}

func TestPropertyNotify_RefreshesIconTitle(t *testing.T) {
	h := newHarness(t, testConfig())
	h.open(t)
	b := h.open(t)
	h.run(t, "change_area", "iconified")
	c := h.m.reg.ByWin(b)
	if c.Icon == nil {
		t.Fatalf("client was not iconified")
	}

	h.be.titles[b] = "make: done"
	h.m.Dispatch(platform.PropertyNotify{Window: b, Atom: "WM_NAME"})
	if got := h.be.iconTitles[c.Icon.Win]; got != "make: done" {
		t.Fatalf("icon title = %q, want %q", got, "make: done")
	}
}

func TestEnterNotify_FollowsFocusMode(t *testing.T) {
	h := newHarness(t, testConfig())
	a := h.open(t)
	b := h.open(t)

	h.m.Dispatch(platform.EnterNotify{Window: h.frameOf(t, a), Normal: true})
	if h.focusedWin() != a {
		t.Fatalf("enter mode: focus = %d, want %d", h.focusedWin(), a)
	}

	h.run(t, "toggle_focus_mode", "")
	h.m.Dispatch(platform.EnterNotify{Window: b, Normal: true})
	if h.focusedWin() != a {
		t.Fatalf("click mode: enter must not move focus")
	}
	h.m.Dispatch(platform.ButtonPress{Window: b, Button: 1})
	if h.focusedWin() != b {
		t.Fatalf("click mode: press should focus %d, got %d", b, h.focusedWin())
	}
}

func TestClientMessage_Requests(t *testing.T) {
	h := newHarness(t, testConfig())
	a := h.open(t)
	b := h.open(t)

	h.m.Dispatch(platform.ClientMessage{Window: a, Type: "_NET_ACTIVE_WINDOW"})
	if h.focusedWin() != a {
		t.Fatalf("_NET_ACTIVE_WINDOW: focus = %d, want %d", h.focusedWin(), a)
	}

	h.m.Dispatch(platform.ClientMessage{Window: b, Type: "WM_CHANGE_STATE", Data: [5]uint32{iconicState}})
	if !h.m.reg.ByWin(b).Iconified() {
		t.Fatalf("WM_CHANGE_STATE iconic should iconify")
	}

	h.m.Dispatch(platform.ClientMessage{Window: a, Type: "_NET_WM_DESKTOP", Data: [5]uint32{2}})
	if h.m.reg.ByWin(a).Desktops != 1<<2 {
		t.Fatalf("_NET_WM_DESKTOP: desktops = %b", h.m.reg.ByWin(a).Desktops)
	}

	h.m.Dispatch(platform.ClientMessage{Type: "_NET_CURRENT_DESKTOP", Data: [5]uint32{2}})
	if h.m.desks.Index() != 2 || h.focusedWin() != a {
		t.Fatalf("_NET_CURRENT_DESKTOP: desktop %d focus %d", h.m.desks.Index(), h.focusedWin())
	}

	h.m.Dispatch(platform.ClientMessage{Window: a, Type: "_NET_CLOSE_WINDOW"})
	if len(h.be.closed) != 1 || h.be.closed[0] != a {
		t.Fatalf("_NET_CLOSE_WINDOW: closed = %v", h.be.closed)
	}
}

func TestKeyPress_RunsBoundAction(t *testing.T) {
	h := newHarness(t, testConfig())
	h.open(t)

	h.m.Dispatch(h.be.keyPress(t, "Mod4-s"))
	if got := h.m.desks.Current().CurLayout; got != layout.Stack {
		t.Fatalf("layout = %v, want stack", got)
	}
	if h.rec.actions["change_layout"] != 1 {
		t.Fatalf("recorder actions = %v", h.rec.actions)
	}
	if h.rec.events[platform.KindKeyPress] != 1 {
		t.Fatalf("recorder events = %v", h.rec.events)
	}
}

func TestKeyBindings_NoneAndBadBindingsSkipped(t *testing.T) {
	cfg := testConfig()
	cfg.Keys = map[string]config.Binding{
		"Mod4-Return": {Action: "exec", Command: []string{"st"}},
		"Mod4-z":      {Action: "no_such_action"},
		"Mod4-y":      {Action: "pointer_move"},
		"Mod4-9":      {Action: "focus_desktop", Arg: "9"},
	}
	h := newHarness(t, cfg)
	if len(h.m.keys) != 1 {
		t.Fatalf("bound %d keys, want 1", len(h.m.keys))
	}
	h.m.Dispatch(h.be.keyPress(t, "Mod4-Return"))
	if len(h.sp.started) != 1 || h.sp.started[0][0] != "st" {
		t.Fatalf("spawned %v", h.sp.started)
	}
}

func TestFlush_VersionAdvancesOnlyOnChange(t *testing.T) {
	h := newHarness(t, testConfig())
	v := h.m.version
	h.m.Dispatch(platform.Expose{Window: testRoot})
	h.m.Dispatch(platform.LeaveNotify{Window: testRoot})
	if h.m.version != v {
		t.Fatalf("version moved without a change: %d -> %d", v, h.m.version)
	}
	h.open(t)
	if h.m.version == v {
		t.Fatalf("version did not advance after managing a window")
	}
}

type captureObserver struct{ snaps []Snapshot }

func (o *captureObserver) Publish(s Snapshot) { o.snaps = append(o.snaps, s) }

func TestRun_ExecuteAndStateFromOtherGoroutines(t *testing.T) {
	be := newFakeBackend()
	obs := &captureObserver{}
	m, err := New(Options{Config: testConfig(), Backend: be, Observers: []Observer{obs}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()

	be.events <- platform.MapRequest{Window: 42}

	reqCtx, reqCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer reqCancel()

	// Events and commands race inside the loop; wait for the map to land.
	for {
		s, err := m.State(reqCtx)
		if err != nil {
			t.Fatalf("State: %v", err)
		}
		if _, ok := s.Client(42); ok {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	snap, err := m.Execute(reqCtx, "change_layout", "stack", nil)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if snap.Desktops[0].Layout != "stack" {
		t.Fatalf("layout = %q, want stack", snap.Desktops[0].Layout)
	}
	if _, ok := snap.Client(42); !ok {
		t.Fatalf("snapshot misses window 42: %+v", snap.Clients)
	}

	if _, err := m.Execute(reqCtx, "bogus", "", nil); !errors.Is(err, ErrUnknownAction) {
		t.Fatalf("unknown action err = %v", err)
	}
	if _, err := m.Execute(reqCtx, "pointer_move", "", nil); !errors.Is(err, ErrPointerAction) {
		t.Fatalf("pointer action err = %v", err)
	}
	if _, err := m.Execute(reqCtx, "focus_desktop", "7", nil); err == nil {
		t.Fatalf("expected out-of-range desktop error")
	}

	state, err := m.State(reqCtx)
	if err != nil {
		t.Fatalf("State: %v", err)
	}
	if state.Desktop != 1 || state.Focused != 42 {
		t.Fatalf("state desktop=%d focused=%d", state.Desktop, state.Focused)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("Run did not return after cancel")
	}
	if _, err := m.State(reqCtx); !errors.Is(err, ErrClosed) {
		t.Fatalf("State after shutdown err = %v, want ErrClosed", err)
	}
	if len(obs.snaps) == 0 {
		t.Fatalf("observer never received a snapshot")
	}
}

func TestRun_QuitActionStopsLoop(t *testing.T) {
	be := newFakeBackend()
	m, err := New(Options{Config: testConfig(), Backend: be})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	done := make(chan error, 1)
	go func() { done <- m.Run(context.Background()) }()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := m.Execute(ctx, "quit", "", nil); err != nil {
		t.Fatalf("Execute quit: %v", err)
	}
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("Run did not return after quit")
	}
}
