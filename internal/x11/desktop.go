package x11

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/xwindow"

	"github.com/1broseidon/areawm/internal/platform"
)

// stickyDesktop is the _NET_WM_DESKTOP value for windows on every desktop.
const stickyDesktop = 0xFFFFFFFF

var supportedAtoms = []string{
	"_NET_SUPPORTED",
	"_NET_SUPPORTING_WM_CHECK",
	"_NET_WM_NAME",
	"_NET_NUMBER_OF_DESKTOPS",
	"_NET_DESKTOP_NAMES",
	"_NET_CURRENT_DESKTOP",
	"_NET_ACTIVE_WINDOW",
	"_NET_CLIENT_LIST",
	"_NET_CLOSE_WINDOW",
	"_NET_WM_DESKTOP",
	"_NET_WM_WINDOW_TYPE",
	"_NET_WM_WINDOW_TYPE_DOCK",
	"_NET_WM_STRUT",
	"_NET_WM_STRUT_PARTIAL",
}

// setupEWMH creates the supporting check window and advertises the hints
// the manager maintains.
func (b *Backend) setupEWMH(name string) error {
	xu := b.conn.XUtil
	win, err := xwindow.Generate(xu)
	if err != nil {
		return err
	}
	if err := win.CreateChecked(b.conn.Root, -1, -1, 1, 1, xproto.CwOverrideRedirect, 1); err != nil {
		return err
	}
	b.check = win.Id
	if err := ewmh.SupportingWmCheckSet(xu, b.conn.Root, win.Id); err != nil {
		return err
	}
	if err := ewmh.SupportingWmCheckSet(xu, win.Id, win.Id); err != nil {
		return err
	}
	if err := ewmh.WmNameSet(xu, win.Id, name); err != nil {
		return err
	}
	return ewmh.SupportedSet(xu, supportedAtoms)
}

// PublishState writes the root window properties pagers and bars read.
// Per-window desktops are only rewritten when they change.
func (b *Backend) PublishState(s platform.DesktopState) {
	xu := b.conn.XUtil
	b.warn("set _NET_NUMBER_OF_DESKTOPS", ewmh.NumberOfDesktopsSet(xu, uint(s.Count)))
	b.warn("set _NET_CURRENT_DESKTOP", ewmh.CurrentDesktopSet(xu, uint(s.Current)))
	if len(s.Names) > 0 {
		b.warn("set _NET_DESKTOP_NAMES", ewmh.DesktopNamesSet(xu, s.Names))
	}
	b.warn("set _NET_ACTIVE_WINDOW", ewmh.ActiveWindowSet(xu, xproto.Window(s.Active)))

	clients := make([]xproto.Window, len(s.Clients))
	for i, w := range s.Clients {
		clients[i] = xproto.Window(w)
	}
	b.warn("set _NET_CLIENT_LIST", ewmh.ClientListSet(xu, clients))

	for w, d := range s.Desktops {
		win := xproto.Window(w)
		if old, ok := b.published[win]; ok && old == d {
			continue
		}
		b.published[win] = d
		v := uint(stickyDesktop)
		if d >= 0 {
			v = uint(d)
		}
		b.warn("set _NET_WM_DESKTOP", ewmh.WmDesktopSet(xu, win, v), "window", w)
	}
}
