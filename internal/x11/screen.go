package x11

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"

	"github.com/1broseidon/areawm/internal/geom"
	"github.com/1broseidon/areawm/internal/platform"
)

type struts struct {
	left   int
	right  int
	top    int
	bottom int
}

// Screen reports the root size and the area left over after dock struts.
func (b *Backend) Screen() platform.Screen {
	rg, err := xproto.GetGeometry(b.conn.X(), xproto.Drawable(b.conn.Root)).Reply()
	if err != nil {
		b.log.Warn("failed to read root geometry", "error", err)
		return platform.Screen{}
	}
	root := geom.Rect{W: int(rg.Width), H: int(rg.Height)}
	return platform.Screen{
		Width:  root.W,
		Height: root.H,
		Work:   workArea(root, b.dockStruts(root)),
	}
}

// dockStruts collects the struts of every mapped dock on the root.
func (b *Backend) dockStruts(root geom.Rect) []ewmh.WmStrutPartial {
	tree, err := xproto.QueryTree(b.conn.X(), b.conn.Root).Reply()
	if err != nil {
		return nil
	}
	var out []ewmh.WmStrutPartial
	for _, win := range tree.Children {
		if !b.isDock(win) {
			continue
		}
		if sp, err := ewmh.WmStrutPartialGet(b.conn.XUtil, win); err == nil {
			out = append(out, *sp)
			continue
		}
		// Some docks only set _NET_WM_STRUT.
		if s, err := ewmh.WmStrutGet(b.conn.XUtil, win); err == nil {
			out = append(out, ewmh.WmStrutPartial{
				Left:       s.Left,
				Right:      s.Right,
				Top:        s.Top,
				Bottom:     s.Bottom,
				LeftEndY:   uint(root.H - 1),
				RightEndY:  uint(root.H - 1),
				TopEndX:    uint(root.W - 1),
				BottomEndX: uint(root.W - 1),
			})
		}
	}
	return out
}

func (b *Backend) isDock(win xproto.Window) bool {
	attrs, err := xproto.GetWindowAttributes(b.conn.X(), win).Reply()
	if err != nil || attrs.MapState != xproto.MapStateViewable {
		return false
	}
	types, err := ewmh.WmWindowTypeGet(b.conn.XUtil, win)
	if err != nil {
		return false
	}
	for _, t := range types {
		if t == "_NET_WM_WINDOW_TYPE_DOCK" {
			return true
		}
	}
	return false
}

// workArea shrinks root by the widest strut on each edge. A zero rect means
// no dock reserves space.
func workArea(root geom.Rect, list []ewmh.WmStrutPartial) geom.Rect {
	var acc struts
	for i := range list {
		addStrut(root, &list[i], &acc)
	}
	if acc == (struts{}) {
		return geom.Rect{}
	}
	work := geom.Rect{
		X: root.X + acc.left,
		Y: root.Y + acc.top,
		W: root.W - acc.left - acc.right,
		H: root.H - acc.top - acc.bottom,
	}
	if work.W < 1 {
		work.W = 1
	}
	if work.H < 1 {
		work.H = 1
	}
	return work
}

func addStrut(root geom.Rect, sp *ewmh.WmStrutPartial, acc *struts) {
	// Top strut: y=[0,Top), x=[TopStartX,TopEndX]
	if sp.Top > 0 {
		r := geom.Rect{X: int(sp.TopStartX), W: int(sp.TopEndX) - int(sp.TopStartX) + 1, H: int(sp.Top)}
		acc.top = max(acc.top, overlap(root, r).H)
	}
	if sp.Bottom > 0 {
		r := geom.Rect{
			X: int(sp.BottomStartX),
			Y: root.H - int(sp.Bottom),
			W: int(sp.BottomEndX) - int(sp.BottomStartX) + 1,
			H: int(sp.Bottom),
		}
		acc.bottom = max(acc.bottom, overlap(root, r).H)
	}
	if sp.Left > 0 {
		r := geom.Rect{Y: int(sp.LeftStartY), W: int(sp.Left), H: int(sp.LeftEndY) - int(sp.LeftStartY) + 1}
		acc.left = max(acc.left, overlap(root, r).W)
	}
	if sp.Right > 0 {
		r := geom.Rect{
			X: root.W - int(sp.Right),
			Y: int(sp.RightStartY),
			W: int(sp.Right),
			H: int(sp.RightEndY) - int(sp.RightStartY) + 1,
		}
		acc.right = max(acc.right, overlap(root, r).W)
	}
}

func overlap(a, b geom.Rect) geom.Rect {
	x1 := max(a.X, b.X)
	y1 := max(a.Y, b.Y)
	x2 := min(a.Right(), b.Right())
	y2 := min(a.Bottom(), b.Bottom())
	if x2 <= x1 || y2 <= y1 {
		return geom.Rect{}
	}
	return geom.Rect{X: x1, Y: y1, W: x2 - x1, H: y2 - y1}
}
