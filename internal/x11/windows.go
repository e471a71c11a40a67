package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xprop"

	"github.com/1broseidon/areawm/internal/geom"
	"github.com/1broseidon/areawm/internal/platform"
)

const (
	frameEventMask = xproto.EventMaskSubstructureRedirect |
		xproto.EventMaskSubstructureNotify |
		xproto.EventMaskButtonPress |
		xproto.EventMaskButtonRelease |
		xproto.EventMaskEnterWindow |
		xproto.EventMaskExposure
	clientEventMask = xproto.EventMaskPropertyChange | xproto.EventMaskFocusChange
	iconEventMask   = xproto.EventMaskExposure |
		xproto.EventMaskButtonPress |
		xproto.EventMaskButtonRelease |
		xproto.EventMaskEnterWindow
)

// unmanagedTypes are window types that are mapped but never framed.
var unmanagedTypes = map[string]bool{
	"_NET_WM_WINDOW_TYPE_DESKTOP":      true,
	"_NET_WM_WINDOW_TYPE_DOCK":         true,
	"_NET_WM_WINDOW_TYPE_SPLASH":       true,
	"_NET_WM_WINDOW_TYPE_NOTIFICATION": true,
	"_NET_WM_WINDOW_TYPE_TOOLTIP":      true,
}

// ExistingWindows lists the top-level windows present at startup that are
// viewable or iconic.
func (b *Backend) ExistingWindows() ([]platform.WindowID, error) {
	tree, err := xproto.QueryTree(b.conn.X(), b.conn.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("query root tree: %w", err)
	}
	var out []platform.WindowID
	for _, win := range tree.Children {
		if b.own(win) {
			continue
		}
		attrs, err := xproto.GetWindowAttributes(b.conn.X(), win).Reply()
		if err != nil || attrs.OverrideRedirect {
			continue
		}
		if attrs.MapState != xproto.MapStateViewable && !b.iconic(win) {
			continue
		}
		out = append(out, platform.WindowID(win))
	}
	return out, nil
}

func (b *Backend) iconic(win xproto.Window) bool {
	st, err := icccm.WmStateGet(b.conn.XUtil, win)
	return err == nil && st.State == icccm.StateIconic
}

// IsManageable reports whether win should be framed: not override-redirect
// and not a dock, desktop or transient popup type.
func (b *Backend) IsManageable(id platform.WindowID) bool {
	win := xproto.Window(id)
	if b.own(win) {
		return false
	}
	attrs, err := xproto.GetWindowAttributes(b.conn.X(), win).Reply()
	if err != nil || attrs.OverrideRedirect {
		return false
	}
	types, err := ewmh.WmWindowTypeGet(b.conn.XUtil, win)
	if err != nil {
		return true
	}
	for _, t := range types {
		if unmanagedTypes[t] {
			return false
		}
	}
	return true
}

func (b *Backend) Geometry(id platform.WindowID) (geom.Rect, error) {
	g, err := xproto.GetGeometry(b.conn.X(), xproto.Drawable(id)).Reply()
	if err != nil {
		return geom.Rect{}, fmt.Errorf("get geometry of window %d: %w", id, err)
	}
	return geom.Rect{X: int(g.X), Y: int(g.Y), W: int(g.Width), H: int(g.Height)}, nil
}

// Title prefers _NET_WM_NAME and falls back to WM_NAME.
func (b *Backend) Title(id platform.WindowID) string {
	win := xproto.Window(id)
	if name, err := ewmh.WmNameGet(b.conn.XUtil, win); err == nil && name != "" {
		return name
	}
	if name, err := icccm.WmNameGet(b.conn.XUtil, win); err == nil && name != "" {
		return name
	}
	return "?"
}

func (b *Backend) ClassHint(id platform.WindowID) (class, instance string) {
	wc, err := icccm.WmClassGet(b.conn.XUtil, xproto.Window(id))
	if err != nil {
		return "?", "?"
	}
	class, instance = wc.Class, wc.Instance
	if class == "" {
		class = "?"
	}
	if instance == "" {
		instance = "?"
	}
	return class, instance
}

func (b *Backend) SizeHints(id platform.WindowID) geom.SizeHints {
	nh, err := icccm.WmNormalHintsGet(b.conn.XUtil, xproto.Window(id))
	if err != nil {
		return geom.SizeHints{}
	}
	return sizeHints(nh)
}

// sizeHints keeps only the fields whose flag is set.
func sizeHints(nh *icccm.NormalHints) geom.SizeHints {
	var h geom.SizeHints
	if nh.Flags&icccm.SizeHintPMinSize != 0 {
		h.MinW, h.MinH = int(nh.MinWidth), int(nh.MinHeight)
	}
	if nh.Flags&icccm.SizeHintPMaxSize != 0 {
		h.MaxW, h.MaxH = int(nh.MaxWidth), int(nh.MaxHeight)
	}
	if nh.Flags&icccm.SizeHintPBaseSize != 0 {
		h.BaseW, h.BaseH = int(nh.BaseWidth), int(nh.BaseHeight)
	}
	if nh.Flags&icccm.SizeHintPResizeInc != 0 {
		h.IncW, h.IncH = int(nh.WidthInc), int(nh.HeightInc)
	}
	if nh.Flags&icccm.SizeHintPAspect != 0 {
		if nh.MinAspectDen > 0 {
			h.MinAspect = float64(nh.MinAspectNum) / float64(nh.MinAspectDen)
		}
		if nh.MaxAspectDen > 0 {
			h.MaxAspect = float64(nh.MaxAspectNum) / float64(nh.MaxAspectDen)
		}
	}
	// A base size without a min size doubles as the minimum.
	if h.MinW == 0 && h.MinH == 0 {
		h.MinW, h.MinH = h.BaseW, h.BaseH
	}
	return h
}

// frameRect places a frame so that the client sits at r in root coordinates.
func frameRect(r geom.Rect, border, title int) geom.Rect {
	return geom.Rect{X: r.X - border, Y: r.Y - title - border, W: r.W, H: r.H + title}
}

// Manage creates a frame for win, reparents win into it below the title bar
// and adds win to the save set so it survives a crash.
func (b *Backend) Manage(id platform.WindowID, r geom.Rect, border, title int) (platform.WindowID, error) {
	x := b.conn.X()
	win := xproto.Window(id)
	frame, err := xproto.NewWindowId(x)
	if err != nil {
		return platform.None, fmt.Errorf("allocate frame id: %w", err)
	}
	fr := frameRect(r, border, title)
	scr := b.conn.XUtil.Screen()
	err = xproto.CreateWindowChecked(x, scr.RootDepth, frame, b.conn.Root,
		int16(fr.X), int16(fr.Y), uint16(max(fr.W, 1)), uint16(max(fr.H, 1)), uint16(border),
		xproto.WindowClassInputOutput, scr.RootVisual,
		xproto.CwBackPixel|xproto.CwBorderPixel|xproto.CwOverrideRedirect|xproto.CwEventMask,
		[]uint32{b.borderNormal, b.borderNormal, 1, frameEventMask}).Check()
	if err != nil {
		return platform.None, fmt.Errorf("create frame for window %d: %w", id, err)
	}

	b.mu.Lock()
	b.frames[win] = frame
	b.owners[frame] = win
	b.mu.Unlock()

	b.warn("select client events", xproto.ChangeWindowAttributesChecked(x, win,
		xproto.CwEventMask, []uint32{clientEventMask}).Check(), "window", id)
	b.warn("add to save set", xproto.ChangeSaveSetChecked(x, xproto.SetModeInsert, win).Check(), "window", id)
	xproto.ConfigureWindow(x, win, xproto.ConfigWindowBorderWidth, []uint32{0})
	if err := xproto.ReparentWindowChecked(x, win, frame, 0, int16(title)).Check(); err != nil {
		b.Unframe(id, platform.WindowID(frame))
		return platform.None, fmt.Errorf("reparent window %d: %w", id, err)
	}

	// Click-to-focus: freeze the pointer on any press inside the client so
	// the pump can replay it after the manager has seen it.
	xproto.GrabButton(x, false, win, xproto.EventMaskButtonPress,
		xproto.GrabModeSync, xproto.GrabModeAsync, xproto.WindowNone, xproto.CursorNone,
		xproto.ButtonIndexAny, xproto.ModMaskAny)

	b.configure(win, frame, r, border, title)
	xproto.MapWindow(x, win)
	return platform.WindowID(frame), nil
}

// Unframe reparents win back to the root where its frame was and destroys
// the frame. win may already be gone.
func (b *Backend) Unframe(id, frameID platform.WindowID) {
	x := b.conn.X()
	win, frame := xproto.Window(id), xproto.Window(frameID)

	b.mu.Lock()
	delete(b.frames, win)
	delete(b.owners, frame)
	b.mu.Unlock()
	delete(b.published, win)

	if g, err := xproto.GetGeometry(x, xproto.Drawable(frame)).Reply(); err == nil {
		if xproto.ReparentWindowChecked(x, win, b.conn.Root, g.X, g.Y).Check() == nil {
			xproto.ChangeSaveSet(x, xproto.SetModeDelete, win)
			b.setState(win, icccm.StateWithdrawn)
		}
	}
	if frame != 0 {
		b.warn("destroy frame", xproto.DestroyWindowChecked(x, frame).Check(), "frame", frameID)
	}
}

// Configure moves the frame so the client lands on r. A zero frame
// configures win directly, as for icons.
func (b *Backend) Configure(id, frameID platform.WindowID, r geom.Rect, border, title int) {
	b.configure(xproto.Window(id), xproto.Window(frameID), r, border, title)
}

func (b *Backend) configure(win, frame xproto.Window, r geom.Rect, border, title int) {
	x := b.conn.X()
	if frame == 0 {
		xproto.ConfigureWindow(x, win,
			xproto.ConfigWindowX|xproto.ConfigWindowY|xproto.ConfigWindowWidth|xproto.ConfigWindowHeight,
			[]uint32{pos(r.X), pos(r.Y), size(r.W), size(r.H)})
		return
	}
	fr := frameRect(r, border, title)
	xproto.ConfigureWindow(x, frame,
		xproto.ConfigWindowX|xproto.ConfigWindowY|xproto.ConfigWindowWidth|xproto.ConfigWindowHeight|
			xproto.ConfigWindowBorderWidth,
		[]uint32{pos(fr.X), pos(fr.Y), size(fr.W), size(fr.H), uint32(border)})
	xproto.ConfigureWindow(x, win,
		xproto.ConfigWindowX|xproto.ConfigWindowY|xproto.ConfigWindowWidth|xproto.ConfigWindowHeight,
		[]uint32{0, pos(title), size(r.W), size(r.H)})
	b.SendConfigureNotify(platform.WindowID(win), r, 0)
}

func pos(v int) uint32  { return uint32(int32(v)) }
func size(v int) uint32 { return uint32(max(v, 1)) }

func (b *Backend) SetBorder(frame platform.WindowID, width int, focused bool) {
	pixel := b.borderNormal
	if focused {
		pixel = b.borderFocus
	}
	x := b.conn.X()
	xproto.ChangeWindowAttributes(x, xproto.Window(frame), xproto.CwBorderPixel|xproto.CwBackPixel,
		[]uint32{pixel, pixel})
	xproto.ConfigureWindow(x, xproto.Window(frame), xproto.ConfigWindowBorderWidth, []uint32{uint32(width)})
	xproto.ClearArea(x, true, xproto.Window(frame), 0, 0, 0, 0)
}

// Map maps win. Mapping a frame also marks its client NormalState.
func (b *Backend) Map(id platform.WindowID) {
	win := xproto.Window(id)
	xproto.MapWindow(b.conn.X(), win)
	if client, ok := b.ownerOf(win); ok {
		b.setState(client, icccm.StateNormal)
	}
}

// Unmap unmaps win. Unmapping a frame marks its client IconicState.
func (b *Backend) Unmap(id platform.WindowID) {
	win := xproto.Window(id)
	xproto.UnmapWindow(b.conn.X(), win)
	if client, ok := b.ownerOf(win); ok {
		b.setState(client, icccm.StateIconic)
	}
}

func (b *Backend) setState(win xproto.Window, state uint) {
	err := icccm.WmStateSet(b.conn.XUtil, win, &icccm.WmState{State: state})
	b.warn("set WM_STATE", err, "window", win)
}

func (b *Backend) Raise(id platform.WindowID) {
	xproto.ConfigureWindow(b.conn.X(), xproto.Window(id), xproto.ConfigWindowStackMode,
		[]uint32{xproto.StackModeAbove})
}

func (b *Backend) RestackBelow(id, sibling platform.WindowID) {
	xproto.ConfigureWindow(b.conn.X(), xproto.Window(id),
		xproto.ConfigWindowSibling|xproto.ConfigWindowStackMode,
		[]uint32{uint32(sibling), xproto.StackModeBelow})
}

// Focus gives input focus to win, or to the pointer root when win is the
// root window. Clients that speak WM_TAKE_FOCUS are also asked to take it.
func (b *Backend) Focus(id platform.WindowID) {
	x := b.conn.X()
	win := xproto.Window(id)
	if win == b.conn.Root || win == 0 {
		xproto.SetInputFocus(x, xproto.InputFocusPointerRoot, xproto.InputFocusPointerRoot, xproto.TimeCurrentTime)
		return
	}
	if b.supports(win, "WM_TAKE_FOCUS") {
		b.sendProtocol(win, "WM_TAKE_FOCUS")
	}
	xproto.SetInputFocus(x, xproto.InputFocusPointerRoot, win, xproto.TimeCurrentTime)
}

// Close asks win to close through WM_DELETE_WINDOW and kills its client
// connection when the protocol is not supported.
func (b *Backend) Close(id platform.WindowID) {
	win := xproto.Window(id)
	if b.supports(win, "WM_DELETE_WINDOW") {
		b.sendProtocol(win, "WM_DELETE_WINDOW")
		return
	}
	b.warn("kill client", xproto.KillClientChecked(b.conn.X(), uint32(win)).Check(), "window", id)
}

func (b *Backend) supports(win xproto.Window, protocol string) bool {
	protocols, err := icccm.WmProtocolsGet(b.conn.XUtil, win)
	if err != nil {
		return false
	}
	for _, p := range protocols {
		if p == protocol {
			return true
		}
	}
	return false
}

func (b *Backend) sendProtocol(win xproto.Window, protocol string) {
	wmProtocols, err := xprop.Atm(b.conn.XUtil, "WM_PROTOCOLS")
	if err != nil {
		b.warn("intern WM_PROTOCOLS", err)
		return
	}
	atom, err := xprop.Atm(b.conn.XUtil, protocol)
	if err != nil {
		b.warn("intern protocol atom", err, "protocol", protocol)
		return
	}
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: win,
		Type:   wmProtocols,
		Data: xproto.ClientMessageDataUnionData32New(
			[]uint32{uint32(atom), uint32(xproto.TimeCurrentTime), 0, 0, 0}),
	}
	err = xproto.SendEventChecked(b.conn.X(), false, win, xproto.EventMaskNoEvent, string(ev.Bytes())).Check()
	b.warn("send client message", err, "window", win, "protocol", protocol)
}

// SendConfigureNotify tells a client where it is in root coordinates after
// a move that the server would only report relative to its frame.
func (b *Backend) SendConfigureNotify(id platform.WindowID, r geom.Rect, border int) {
	win := xproto.Window(id)
	ev := xproto.ConfigureNotifyEvent{
		Event:            win,
		Window:           win,
		AboveSibling:     xproto.WindowNone,
		X:                int16(r.X),
		Y:                int16(r.Y),
		Width:            uint16(max(r.W, 1)),
		Height:           uint16(max(r.H, 1)),
		BorderWidth:      uint16(border),
		OverrideRedirect: false,
	}
	xproto.SendEvent(b.conn.X(), false, win, xproto.EventMaskStructureNotify, string(ev.Bytes()))
}

// ConfigureUnmanaged grants a configure request from a window that is not
// framed, exactly as asked.
func (b *Backend) ConfigureUnmanaged(ev platform.ConfigureRequest) {
	var vals []uint32
	mask := ev.Mask
	if mask&xproto.ConfigWindowX != 0 {
		vals = append(vals, pos(ev.Rect.X))
	}
	if mask&xproto.ConfigWindowY != 0 {
		vals = append(vals, pos(ev.Rect.Y))
	}
	if mask&xproto.ConfigWindowWidth != 0 {
		vals = append(vals, size(ev.Rect.W))
	}
	if mask&xproto.ConfigWindowHeight != 0 {
		vals = append(vals, size(ev.Rect.H))
	}
	if mask&xproto.ConfigWindowBorderWidth != 0 {
		vals = append(vals, uint32(ev.Border))
	}
	if mask&xproto.ConfigWindowSibling != 0 {
		vals = append(vals, uint32(ev.Sibling))
	}
	if mask&xproto.ConfigWindowStackMode != 0 {
		vals = append(vals, uint32(ev.StackMode))
	}
	xproto.ConfigureWindow(b.conn.X(), xproto.Window(ev.Window), mask, vals)
}
