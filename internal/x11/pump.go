package x11

import (
	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xprop"

	"github.com/1broseidon/areawm/internal/geom"
	"github.com/1broseidon/areawm/internal/platform"
)

// pump reads events until the connection closes and forwards the ones the
// manager handles. It is the only goroutine that calls WaitForEvent.
func (b *Backend) pump() {
	defer close(b.events)
	x := b.conn.X()
	for {
		ev, xerr := x.WaitForEvent()
		if ev == nil && xerr == nil {
			b.log.Info("X connection closed")
			return
		}
		if xerr != nil {
			b.warn("X protocol error", xerr)
			continue
		}
		out, ok := b.translate(ev)
		if !ok {
			continue
		}
		select {
		case b.events <- out:
		case <-b.done:
			return
		}
	}
}

func (b *Backend) translate(ev xgb.Event) (platform.Event, bool) {
	switch e := ev.(type) {
	case xproto.ButtonPressEvent:
		if _, client := b.frameOf(e.Event); client {
			// Release the click-to-focus freeze and pass the press on.
			xproto.AllowEvents(b.conn.X(), xproto.AllowReplayPointer, e.Time)
		}
		return platform.ButtonPress{
			Window: platform.WindowID(e.Event),
			Child:  platform.WindowID(e.Child),
			Button: platform.Button(e.Detail),
			State:  b.clean(e.State),
			RootX:  int(e.RootX),
			RootY:  int(e.RootY),
			X:      int(e.EventX),
			Y:      int(e.EventY),
		}, true
	case xproto.ButtonReleaseEvent:
		return platform.ButtonRelease{
			Window: platform.WindowID(e.Event),
			Child:  platform.WindowID(e.Child),
			Button: platform.Button(e.Detail),
			State:  b.clean(e.State),
			RootX:  int(e.RootX),
			RootY:  int(e.RootY),
			X:      int(e.EventX),
			Y:      int(e.EventY),
		}, true
	case xproto.MotionNotifyEvent:
		return platform.MotionNotify{
			Window: platform.WindowID(e.Event),
			Child:  platform.WindowID(e.Child),
			State:  b.clean(e.State),
			RootX:  int(e.RootX),
			RootY:  int(e.RootY),
		}, true
	case xproto.KeyPressEvent:
		return platform.KeyPress{
			Window: platform.WindowID(e.Event),
			Code:   uint8(e.Detail),
			State:  b.clean(e.State),
		}, true
	case xproto.EnterNotifyEvent:
		return platform.EnterNotify{
			Window: platform.WindowID(e.Event),
			Normal: e.Mode == xproto.NotifyModeNormal && e.Detail != xproto.NotifyDetailInferior,
		}, true
	case xproto.LeaveNotifyEvent:
		return platform.LeaveNotify{Window: platform.WindowID(e.Event)}, true
	case xproto.ExposeEvent:
		if e.Count == 0 {
			b.redraw(e.Window)
		}
		return platform.Expose{Window: platform.WindowID(e.Window), Count: int(e.Count)}, true
	case xproto.MapRequestEvent:
		return platform.MapRequest{Window: platform.WindowID(e.Window)}, true
	case xproto.UnmapNotifyEvent:
		return platform.UnmapNotify{Event: platform.WindowID(e.Event), Window: platform.WindowID(e.Window)}, true
	case xproto.DestroyNotifyEvent:
		return platform.DestroyNotify{Event: platform.WindowID(e.Event), Window: platform.WindowID(e.Window)}, true
	case xproto.ConfigureRequestEvent:
		return platform.ConfigureRequest{
			Window:    platform.WindowID(e.Window),
			Rect:      geom.Rect{X: int(e.X), Y: int(e.Y), W: int(e.Width), H: int(e.Height)},
			Border:    int(e.BorderWidth),
			Sibling:   platform.WindowID(e.Sibling),
			StackMode: e.StackMode,
			Mask:      e.ValueMask,
		}, true
	case xproto.PropertyNotifyEvent:
		name, err := xprop.AtomName(b.conn.XUtil, e.Atom)
		if err != nil {
			return nil, false
		}
		return platform.PropertyNotify{Window: platform.WindowID(e.Window), Atom: name}, true
	case xproto.ClientMessageEvent:
		name, err := xprop.AtomName(b.conn.XUtil, e.Type)
		if err != nil || e.Format != 32 {
			return nil, false
		}
		msg := platform.ClientMessage{Window: platform.WindowID(e.Window), Type: name}
		copy(msg.Data[:], e.Data.Data32)
		return msg, true
	case xproto.MappingNotifyEvent:
		xu := b.conn.XUtil
		keybind.KeyMapSet(xu, keybind.KeyMapGet(xu).GetKeyboardMappingReply)
		keybind.ModMapSet(xu, keybind.ModMapGet(xu).GetModifierMappingReply)
		b.log.Info("keyboard mapping changed; restart to regrab keys")
	}
	return nil, false
}
