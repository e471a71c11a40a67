package x11

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/mousebind"
)

// rootEventMask is what the window manager selects on the root window.
// SubstructureRedirect can be held by one client at a time.
const rootEventMask = xproto.EventMaskSubstructureRedirect |
	xproto.EventMaskSubstructureNotify |
	xproto.EventMaskStructureNotify |
	xproto.EventMaskButtonPress |
	xproto.EventMaskButtonRelease |
	xproto.EventMaskPropertyChange

// Conn holds the X connection and the root window.
type Conn struct {
	XUtil *xgbutil.XUtil
	Root  xproto.Window
}

// Connect opens a connection to display, or $DISPLAY when empty, and loads
// the keyboard and modifier maps used to parse bindings.
func Connect(display string) (*Conn, error) {
	xu, err := xgbutil.NewConnDisplay(display)
	if err != nil {
		return nil, fmt.Errorf("connect to X display %q: %w", display, err)
	}
	keybind.Initialize(xu)
	mousebind.Initialize(xu)
	return &Conn{XUtil: xu, Root: xu.RootWin()}, nil
}

// X returns the raw protocol connection.
func (c *Conn) X() *xgb.Conn { return c.XUtil.Conn() }

// TakeOwnership selects the window manager event mask on the root window.
// It returns ErrOtherWM when another client already holds the redirect.
func (c *Conn) TakeOwnership() error {
	err := xproto.ChangeWindowAttributesChecked(c.X(), c.Root, xproto.CwEventMask,
		[]uint32{rootEventMask}).Check()
	if err == nil {
		return nil
	}
	var access xproto.AccessError
	if errors.As(err, &access) {
		return ErrOtherWM
	}
	return fmt.Errorf("select root events: %w", err)
}

// Close disconnects from the X server. The event pump sees the closed
// connection and stops.
func (c *Conn) Close() {
	c.XUtil.Conn().Close()
}
