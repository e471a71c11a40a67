package wm

import (
	"github.com/1broseidon/areawm/internal/area"
	"github.com/1broseidon/areawm/internal/client"
	"github.com/1broseidon/areawm/internal/geom"
	"github.com/1broseidon/areawm/internal/layout"
	"github.com/1broseidon/areawm/internal/platform"
)

// gesture is a pointer interaction that holds the pointer grab between a
// button press and the release of the same button.
type gesture interface {
	button() platform.Button
	motion(m *Manager, ev platform.MotionNotify)
	release(m *Manager, ev platform.ButtonRelease)
}

// begin grabs the pointer for g. A failed grab cancels the gesture without
// touching any state.
func (m *Manager) begin(g gesture, cursor platform.Cursor) bool {
	if m.modal != nil {
		return false
	}
	if err := m.backend.GrabPointer(cursor); err != nil {
		m.log.Debug("pointer grab failed, gesture cancelled", "error", err)
		return false
	}
	m.modal = g
	return true
}

// gestureSource resolves the client a pointer action works on.
func (m *Manager) gestureSource(ev platform.ButtonPress) *client.Client {
	if c := m.pressTarget(ev); c != nil && m.onCurrent(c) {
		return c
	}
	return m.focused()
}

var actionCursors = map[geom.Action]platform.Cursor{
	geom.Move:        platform.CursorMove,
	geom.Top:         platform.CursorTop,
	geom.Bottom:      platform.CursorBottom,
	geom.Left:        platform.CursorLeft,
	geom.Right:       platform.CursorRight,
	geom.TopLeft:     platform.CursorTopLeft,
	geom.TopRight:    platform.CursorTopRight,
	geom.BottomLeft:  platform.CursorBottomLeft,
	geom.BottomRight: platform.CursorBottomRight,
	geom.AdjustRatio: platform.CursorRatio,
}

type moveResizeGesture struct {
	btn     platform.Button
	c       *client.Client
	action  geom.Action
	ox, oy  int
	floated bool
	applied bool
}

func (g *moveResizeGesture) button() platform.Button { return g.btn }

func (g *moveResizeGesture) motion(m *Manager, ev platform.MotionNotify) {
	if !m.onCurrent(g.c) || g.c.Iconified() {
		return
	}
	if mode := m.desks.Current().CurLayout; mode == layout.Full || mode == layout.Preview {
		return
	}
	if !g.floated {
		m.float(g.c)
		g.floated = true
	}
	d := geom.PointerDelta(g.action, ev.RootX-g.ox, ev.RootY-g.oy)
	applied, ok := m.moveResize(g.c, d)
	if !ok {
		return
	}
	ax, ay := pointerAdvance(g.action, applied)
	g.ox += ax
	g.oy += ay
	g.applied = true
}

func (g *moveResizeGesture) release(m *Manager, _ platform.ButtonRelease) {
	if m.onCurrent(g.c) {
		m.raise(g.c)
	}
	m.rec.GestureDone("move_resize", g.applied)
}

// pointerAdvance returns how far the pointer origin moves for an applied
// delta: the edge that follows the pointer moved by exactly this much.
func pointerAdvance(a geom.Action, d geom.Delta) (int, int) {
	switch a {
	case geom.Move, geom.TopLeft:
		return d.DX, d.DY
	case geom.Top:
		return 0, d.DY
	case geom.Bottom:
		return 0, d.DH
	case geom.Left:
		return d.DX, 0
	case geom.Right:
		return d.DW, 0
	case geom.TopRight:
		return d.DW, d.DY
	case geom.BottomLeft:
		return d.DX, d.DH
	case geom.BottomRight:
		return d.DW, d.DH
	}
	return 0, 0
}

func (m *Manager) beginMoveResize(ev platform.ButtonPress, c *client.Client, a geom.Action) {
	mode := m.desks.Current().CurLayout
	if c == nil || c.Iconified() || mode == layout.Full || mode == layout.Preview || a == geom.NoOp {
		return
	}
	g := &moveResizeGesture{btn: ev.Button, c: c, action: a, ox: ev.RootX, oy: ev.RootY}
	m.begin(g, actionCursors[a])
}

func actPointerMove(m *Manager, ev platform.Event, _ Arg) {
	e, ok := ev.(platform.ButtonPress)
	if !ok {
		return
	}
	m.beginMoveResize(e, m.gestureSource(e), geom.Move)
}

// actPointerResize resizes from the edge or corner nearest the press. A
// press in the middle cell resizes from the bottom-right corner.
func actPointerResize(m *Manager, ev platform.Event, arg Arg) {
	e, ok := ev.(platform.ButtonPress)
	if !ok {
		return
	}
	c := m.gestureSource(e)
	if c == nil {
		return
	}
	a := arg.Pointer
	if a == geom.NoOp {
		a = geom.ActionAt(c.Rect, c.Border, c.TitleBar, e.RootX, e.RootY)
	}
	if a == geom.NoOp || a == geom.Move {
		a = geom.BottomRight
	}
	m.beginMoveResize(e, c, a)
}

// actPointerMoveResize moves when the press is in the middle cell or on the
// title bar away from the corners, and resizes otherwise.
func actPointerMoveResize(m *Manager, ev platform.Event, arg Arg) {
	e, ok := ev.(platform.ButtonPress)
	if !ok {
		return
	}
	c := m.gestureSource(e)
	if c == nil {
		return
	}
	a := arg.Pointer
	if a == geom.NoOp {
		a = geom.ActionAt(c.Rect, c.Border, c.TitleBar, e.RootX, e.RootY)
		if a == geom.NoOp || (a == geom.Top && e.RootY < c.Rect.Y) {
			a = geom.Move
		}
	}
	m.beginMoveResize(e, c, a)
}

type swapGesture struct {
	btn     platform.Button
	src     *client.Client
	applied bool
}

func (g *swapGesture) button() platform.Button                { return g.btn }
func (g *swapGesture) motion(*Manager, platform.MotionNotify) {}

func (g *swapGesture) release(m *Manager, ev platform.ButtonRelease) {
	defer func() { m.rec.GestureDone("swap", g.applied) }()
	if !m.onCurrent(g.src) || m.desks.Current().CurLayout != layout.Tile {
		return
	}
	dst := m.reg.ByAny(ev.Child)
	if dst == nil && m.inBar(ev.RootX, ev.RootY) {
		dst = m.iconAt(ev.RootX)
	}
	if dst == nil || dst == g.src || !m.onCurrent(dst) {
		return
	}
	m.swapClients(g.src, dst)
	g.applied = true
}

func actPointerSwap(m *Manager, ev platform.Event, _ Arg) {
	e, ok := ev.(platform.ButtonPress)
	if !ok || m.desks.Current().CurLayout != layout.Tile {
		return
	}
	src := m.gestureSource(e)
	if src == nil {
		return
	}
	m.begin(&swapGesture{btn: e.Button, src: src}, platform.CursorSwap)
}

type areaGesture struct {
	btn     platform.Button
	src     *client.Client
	applied bool
}

func (g *areaGesture) button() platform.Button                { return g.btn }
func (g *areaGesture) motion(*Manager, platform.MotionNotify) {}

// release picks the new area from where the pointer was let go: the left
// and right screen edges select the second and fixed bands, the top edge
// maximizes, the bar iconifies, bare root selects main and another client
// adopts its area and position.
func (g *areaGesture) release(m *Manager, ev platform.ButtonRelease) {
	defer func() { m.rec.GestureDone("change_area", g.applied) }()
	c := g.src
	if !m.onCurrent(c) || m.desks.Current().CurLayout != layout.Tile {
		return
	}
	// Dropping on the client's own area moves it to the head of that area.
	to := func(t area.Type) {
		g.applied = m.moveClient(c, m.reg.AreaHead(t, m.curMask()), t)
	}
	switch {
	case ev.RootX == 0:
		to(area.Second)
	case ev.RootX == m.screen.Width-1:
		to(area.Fixed)
	case ev.RootY == 0:
		if !c.Iconified() {
			m.maximize(c)
			g.applied = true
		}
	case m.inBar(ev.RootX, ev.RootY):
		to(area.Iconified)
	case ev.Child == platform.None:
		to(area.Main)
	default:
		dst := m.reg.ByAny(ev.Child)
		if dst == nil || dst == c || !m.onCurrent(dst) {
			return
		}
		g.applied = m.moveClient(c, dst, dst.Area)
	}
}

func actPointerChangeArea(m *Manager, ev platform.Event, _ Arg) {
	e, ok := ev.(platform.ButtonPress)
	if !ok || m.desks.Current().CurLayout != layout.Tile {
		return
	}
	src := m.gestureSource(e)
	if src == nil {
		return
	}
	m.begin(&areaGesture{btn: e.Button, src: src}, platform.CursorChange)
}

type ratioGesture struct {
	btn     platform.Button
	gap     layout.Gap
	ox      int
	applied bool
}

func (g *ratioGesture) button() platform.Button { return g.btn }

func (g *ratioGesture) motion(m *Manager, ev platform.MotionNotify) {
	d := m.desks.Current()
	if d.CurLayout != layout.Tile {
		return
	}
	inc := m.cfg.MoveResizeInc
	if abs(ev.RootX-g.ox) < inc {
		return
	}
	w := m.workArea(layout.Tile).W
	mr, fr := layout.Drag(g.gap, w, g.ox, ev.RootX, d.MainRatio, d.FixedRatio)
	hasSecond, hasFixed := m.countArea(area.Second) > 0, m.countArea(area.Fixed) > 0
	if !layout.ValidRatios(w, mr, fr, inc, hasSecond, hasFixed) {
		return
	}
	d.MainRatio, d.FixedRatio = mr, fr
	m.arrange()
	g.ox = ev.RootX
	g.applied = true
}

func (g *ratioGesture) release(m *Manager, _ platform.ButtonRelease) {
	m.rec.GestureDone("adjust_ratio", g.applied)
}

// actAdjustLayoutRatio starts dragging the band gap under the pointer.
func actAdjustLayoutRatio(m *Manager, ev platform.Event, _ Arg) {
	e, ok := ev.(platform.ButtonPress)
	d := m.desks.Current()
	if !ok || d.CurLayout != layout.Tile {
		return
	}
	work := m.workArea(layout.Tile)
	gap := layout.GapAt(e.RootX-work.X, work.W, d.MainRatio, d.FixedRatio, m.cfg.Gap,
		m.countArea(area.Second) > 0, m.countArea(area.Fixed) > 0)
	if gap == layout.GapNone {
		return
	}
	m.begin(&ratioGesture{btn: e.Button, gap: gap, ox: e.RootX}, platform.CursorRatio)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
