package wm

import (
	"errors"
	"testing"

	"github.com/1broseidon/areawm/internal/area"
	"github.com/1broseidon/areawm/internal/geom"
	"github.com/1broseidon/areawm/internal/layout"
	"github.com/1broseidon/areawm/internal/platform"
)

func TestParseArg(t *testing.T) {
	tests := []struct {
		name    string
		kind    ArgKind
		in      string
		argv    []string
		want    Arg
		wantErr bool
	}{
		{name: "none", kind: ArgNone, in: "ignored", want: Arg{Kind: ArgNone}},
		{name: "layout", kind: ArgLayout, in: "preview", want: Arg{Kind: ArgLayout, Layout: layout.Preview}},
		{name: "area", kind: ArgArea, in: "fixed", want: Arg{Kind: ArgArea, Area: area.Fixed}},
		{name: "root area rejected", kind: ArgArea, in: "root", wantErr: true},
		{name: "direction", kind: ArgDirection, in: "left-to-right", want: Arg{Kind: ArgDirection, Direction: geom.LeftToRight}},
		{name: "ratio", kind: ArgRatio, in: "-0.05", want: Arg{Kind: ArgRatio, Ratio: -0.05}},
		{name: "count", kind: ArgCount, in: "2", want: Arg{Kind: ArgCount, Count: 2}},
		{name: "desktop is one based", kind: ArgDesktop, in: "3", want: Arg{Kind: ArgDesktop, Desktop: 2}},
		{name: "desktop zero", kind: ArgDesktop, in: "0", wantErr: true},
		{name: "pointer default", kind: ArgPointer, in: "", want: Arg{Kind: ArgPointer}},
		{name: "pointer", kind: ArgPointer, in: "bottom-left", want: Arg{Kind: ArgPointer, Pointer: geom.BottomLeft}},
		{name: "bad pointer", kind: ArgPointer, in: "sideways", wantErr: true},
		{name: "command text", kind: ArgCommand, in: "xterm -e top", want: Arg{Kind: ArgCommand, Command: []string{"xterm", "-e", "top"}}},
		{name: "command argv", kind: ArgCommand, in: "x", argv: []string{"st"}, want: Arg{Kind: ArgCommand, Command: []string{"st"}}},
		{name: "empty command", kind: ArgCommand, in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseArg(tt.kind, tt.in, tt.argv)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseArg: %v", err)
			}
			if got.Kind != tt.want.Kind || got.Layout != tt.want.Layout || got.Area != tt.want.Area ||
				got.Direction != tt.want.Direction || got.Ratio != tt.want.Ratio || got.Count != tt.want.Count ||
				got.Desktop != tt.want.Desktop || got.Pointer != tt.want.Pointer ||
				len(got.Command) != len(tt.want.Command) {
				t.Fatalf("got %+v, want %+v", got, tt.want)
			}
			for i := range got.Command {
				if got.Command[i] != tt.want.Command[i] {
					t.Fatalf("command = %v, want %v", got.Command, tt.want.Command)
				}
			}
		})
	}
}

func TestActionNames_CoverDefaultBindings(t *testing.T) {
	names := make(map[string]bool)
	for _, n := range ActionNames() {
		names[n] = true
	}
	cfg := testConfig()
	for seq, b := range cfg.Keys {
		if !names[b.Action] {
			t.Fatalf("key %s uses unknown action %q", seq, b.Action)
		}
	}
	for _, b := range cfg.Buttons {
		if !names[b.Action] {
			t.Fatalf("button %s uses unknown action %q", b.Button, b.Action)
		}
	}
}

func TestRunNamed_UnknownAction(t *testing.T) {
	h := newHarness(t, testConfig())
	if err := h.m.runNamed("levitate", "", nil); !errors.Is(err, ErrUnknownAction) {
		t.Fatalf("err = %v, want ErrUnknownAction", err)
	}
}

func TestNextPrevClient(t *testing.T) {
	h := newHarness(t, testConfig())
	h.run(t, "change_layout", "stack")
	a := h.open(t)
	b := h.open(t)
	h.open(t)
	// List order is newest first; focus is on the newest.

	h.run(t, "prev_client", "")
	if h.focusedWin() != b {
		t.Fatalf("prev_client: focus = %d, want %d", h.focusedWin(), b)
	}
	h.run(t, "prev_client", "")
	if h.focusedWin() != a {
		t.Fatalf("prev_client: focus = %d, want %d", h.focusedWin(), a)
	}
	h.run(t, "next_client", "")
	if h.focusedWin() != b {
		t.Fatalf("next_client: focus = %d, want %d", h.focusedWin(), b)
	}
	h.run(t, "next_client", "")
	h.run(t, "next_client", "")
	if h.focusedWin() != platform.None {
		t.Fatalf("next_client past the head should focus nothing, got %d", h.focusedWin())
	}
}

func TestAdjustMainCapacity(t *testing.T) {
	h := newHarness(t, testConfig())
	for i := 0; i < 3; i++ {
		h.open(t)
	}
	h.run(t, "adjust_main_capacity", "1")
	if n := h.m.countArea(area.Main); n != 2 {
		t.Fatalf("main count = %d, want 2", n)
	}
	h.run(t, "adjust_main_capacity", "-5")
	if got := h.m.desks.Current().MainCapacity; got != 1 {
		t.Fatalf("capacity = %d, want clamped to 1", got)
	}
	if n := h.m.countArea(area.Main); n != 1 {
		t.Fatalf("main count = %d, want 1", n)
	}
}

func TestAdjustMainRatio(t *testing.T) {
	h := newHarness(t, testConfig())
	h.run(t, "adjust_main_ratio", "0.1")
	if got := h.m.desks.Current().MainRatio; got != 0.6 {
		t.Fatalf("ratio changed without a second band: %v", got)
	}

	h.open(t)
	h.open(t)
	h.run(t, "adjust_main_ratio", "0.1")
	if got := h.m.desks.Current().MainRatio; !approx(got, 0.7) {
		t.Fatalf("ratio = %v, want 0.7", got)
	}
	// Second would shrink to 1200*(1-0.15) - 1200*0.84 = 12px < 16px.
	h.run(t, "adjust_main_ratio", "0.14")
	if got := h.m.desks.Current().MainRatio; !approx(got, 0.7) {
		t.Fatalf("too small band accepted: ratio = %v", got)
	}
}

func TestAdjustFixedRatio_NeedsFixedClient(t *testing.T) {
	h := newHarness(t, testConfig())
	h.open(t)
	b := h.open(t)
	h.run(t, "adjust_fixed_ratio", "0.05")
	if got := h.m.desks.Current().FixedRatio; got != 0.15 {
		t.Fatalf("fixed ratio changed without fixed client: %v", got)
	}
	h.run(t, "change_area", "fixed")
	if got := h.m.reg.ByWin(b).Area; got != area.Fixed {
		t.Fatalf("area = %v, want fixed", got)
	}
	h.run(t, "adjust_fixed_ratio", "0.05")
	d := h.m.desks.Current()
	if !approx(d.FixedRatio, 0.2) || !approx(d.MainRatio, 0.55) {
		t.Fatalf("ratios = %v/%v, want 0.55/0.2", d.MainRatio, d.FixedRatio)
	}
}

func TestChangeArea_IconifyAndRestore(t *testing.T) {
	h := newHarness(t, testConfig())
	a := h.open(t)
	b := h.open(t)

	h.run(t, "change_area", "iconified")
	cb := h.m.reg.ByWin(b)
	if !cb.Iconified() || cb.Icon == nil || cb.Icon.Restore != area.Main {
		t.Fatalf("iconify: area %v icon %+v", cb.Area, cb.Icon)
	}
	if h.be.mapped[cb.Frame] || !h.be.mapped[cb.Icon.Win] {
		t.Fatalf("iconify should swap frame for icon")
	}
	if h.focusedWin() != a {
		t.Fatalf("focus after iconify = %d, want %d", h.focusedWin(), a)
	}
	if got := h.m.reg.ByWin(a).Area; got != area.Main {
		t.Fatalf("remaining client should be promoted, got %v", got)
	}

	icon := cb.Icon.Win
	h.run(t, "deiconify_all", "")
	if cb.Iconified() || cb.Icon != nil || h.be.icons[icon] {
		t.Fatalf("deiconify left icon behind")
	}
	if !h.be.mapped[cb.Frame] {
		t.Fatalf("frame not mapped after deiconify")
	}
	checkRing(t, h.m)
}

func TestChangeArea_StackOnlyIconifies(t *testing.T) {
	h := newHarness(t, testConfig())
	a := h.open(t)
	h.run(t, "change_layout", "stack")
	h.run(t, "change_area", "fixed")
	if got := h.m.reg.ByWin(a).Area; got != area.Main {
		t.Fatalf("stack allowed change to fixed: %v", got)
	}
	h.run(t, "change_area", "iconified")
	if !h.m.reg.ByWin(a).Iconified() {
		t.Fatalf("stack should allow iconify")
	}
}

func TestChangeLayout_PreviewShowsIconifiedFrames(t *testing.T) {
	h := newHarness(t, testConfig())
	h.open(t)
	b := h.open(t)
	h.run(t, "change_area", "iconified")
	cb := h.m.reg.ByWin(b)

	h.run(t, "change_layout", "preview")
	if !h.be.mapped[cb.Frame] || h.be.mapped[cb.Icon.Win] {
		t.Fatalf("preview should show the frame and hide the icon")
	}
	if d := h.m.desks.Current(); d.PrevLayout != layout.Tile {
		t.Fatalf("prev layout = %v, want tile", d.PrevLayout)
	}

	h.run(t, "change_layout", "full")
	if h.be.mapped[cb.Frame] || h.be.mapped[cb.Icon.Win] {
		t.Fatalf("full should hide both frame and icon")
	}

	h.run(t, "change_layout", "tile")
	if h.be.mapped[cb.Frame] || !h.be.mapped[cb.Icon.Win] {
		t.Fatalf("tile should show the icon only")
	}
}

func TestChooseClient_LeavesPreview(t *testing.T) {
	h := newHarness(t, testConfig())
	h.open(t)
	b := h.open(t)
	h.run(t, "change_area", "iconified")
	h.run(t, "change_layout", "preview")
	frame := h.frameOf(t, b)

	h.m.Dispatch(platform.ButtonPress{Window: frame, Button: 1})
	cb := h.m.reg.ByWin(b)
	if cb.Iconified() {
		t.Fatalf("choose should deiconify")
	}
	if got := h.m.desks.Current().CurLayout; got != layout.Tile {
		t.Fatalf("layout = %v, want back to tile", got)
	}
	if h.focusedWin() != b {
		t.Fatalf("focus = %d, want %d", h.focusedWin(), b)
	}
}

func TestMaximize_FloatsInTile(t *testing.T) {
	h := newHarness(t, testConfig())
	a := h.open(t)
	h.run(t, "maximize", "")
	c := h.m.reg.ByWin(a)
	if c.Area != area.Floating {
		t.Fatalf("area = %v, want floating", c.Area)
	}
	want := geom.Rect{W: testWidth, H: testHeight - h.m.cfg.BarHeight}
	if c.Rect != want || h.be.configured[a] != want {
		t.Fatalf("rect = %v, want %v", c.Rect, want)
	}
}

func TestKeyMoveResize(t *testing.T) {
	h := newHarness(t, testConfig())
	h.run(t, "change_layout", "stack")
	a := h.open(t)
	start := h.m.reg.ByWin(a).Rect

	h.run(t, "key_move_resize", "right")
	h.run(t, "key_move_resize", "down-to-down")
	got := h.m.reg.ByWin(a).Rect
	inc := h.m.cfg.MoveResizeInc
	want := geom.Rect{X: start.X + inc, Y: start.Y, W: start.W, H: start.H + inc}
	if got != want {
		t.Fatalf("rect = %v, want %v", got, want)
	}

	h.run(t, "change_layout", "full")
	h.run(t, "key_move_resize", "left")
	if h.m.reg.ByWin(a).Rect.X == want.X-inc {
		t.Fatalf("key move must not apply in full layout")
	}
}

func TestDesktopActions(t *testing.T) {
	h := newHarness(t, testConfig())
	a := h.open(t)
	b := h.open(t)

	h.run(t, "move_to_desktop", "2")
	cb := h.m.reg.ByWin(b)
	if cb.Desktops != 1<<1 || h.be.mapped[cb.Frame] {
		t.Fatalf("move_to_desktop: desktops %b mapped %v", cb.Desktops, h.be.mapped[cb.Frame])
	}
	if h.focusedWin() != a {
		t.Fatalf("focus on desktop 1 = %d, want %d", h.focusedWin(), a)
	}

	h.run(t, "attach_to_desktop", "2")
	ca := h.m.reg.ByWin(a)
	if ca.Desktops != 1<<0|1<<1 {
		t.Fatalf("attach: desktops %b", ca.Desktops)
	}

	h.run(t, "next_desktop", "")
	if h.m.desks.Index() != 1 {
		t.Fatalf("desktop = %d, want 1", h.m.desks.Index())
	}
	if !h.be.mapped[cb.Frame] || !h.be.mapped[ca.Frame] {
		t.Fatalf("clients of desktop 2 should be mapped")
	}

	h.run(t, "change_to_desktop", "3")
	if h.m.desks.Index() != 2 || h.focusedWin() != a {
		t.Fatalf("change_to_desktop: desktop %d focus %d", h.m.desks.Index(), h.focusedWin())
	}
	if h.be.mapped[cb.Frame] {
		t.Fatalf("client left on desktop 2 is still mapped")
	}

	h.run(t, "attach_to_all_desktops", "")
	h.run(t, "prev_desktop", "")
	h.run(t, "prev_desktop", "")
	if h.m.desks.Index() != 0 || h.focusedWin() != a {
		t.Fatalf("sticky client not focused on desktop 1: desktop %d focus %d", h.m.desks.Index(), h.focusedWin())
	}
	state := h.m.desktopState()
	if state.Desktops[a] != -1 {
		t.Fatalf("sticky client published as desktop %d", state.Desktops[a])
	}
}

func TestAllMoveToDesktop(t *testing.T) {
	h := newHarness(t, testConfig())
	h.open(t)
	h.open(t)
	h.run(t, "all_move_to_desktop", "3")
	if n := h.m.reg.Count(1<<2, nil); n != 2 {
		t.Fatalf("clients on desktop 3 = %d, want 2", n)
	}
	if !h.m.reg.IsRoot(h.m.desks.Current().CurFocus) {
		t.Fatalf("desktop 1 should have no focus left")
	}
}

func TestToggleDecorations(t *testing.T) {
	cfg := testConfig()
	cfg.BorderWidth = 2
	cfg.TitleBarHeight = 16
	h := newHarness(t, cfg)
	a := h.open(t)
	h.run(t, "toggle_border", "")
	h.run(t, "toggle_title_bar", "")
	c := h.m.reg.ByWin(a)
	if c.Border != 0 || c.TitleBar != 0 {
		t.Fatalf("border=%d title=%d, want both off", c.Border, c.TitleBar)
	}
	h.run(t, "toggle_border", "")
	if c.Border != 2 {
		t.Fatalf("border = %d, want 2", c.Border)
	}
}

func TestCloseActions(t *testing.T) {
	h := newHarness(t, testConfig())
	a := h.open(t)
	b := h.open(t)
	h.run(t, "close_client", "")
	if len(h.be.closed) != 1 || h.be.closed[0] != b {
		t.Fatalf("close_client closed %v", h.be.closed)
	}
	h.run(t, "close_all_clients", "")
	if len(h.be.closed) != 3 || h.be.closed[2] != a {
		t.Fatalf("close_all_clients closed %v", h.be.closed)
	}
}

func approx(a, b float64) bool {
	d := a - b
	return d < 1e-9 && d > -1e-9
}
