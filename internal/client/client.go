package client

import (
	"github.com/1broseidon/areawm/internal/area"
	"github.com/1broseidon/areawm/internal/geom"
	"github.com/1broseidon/areawm/internal/platform"
)

// Placeholder stands in for a missing title or class hint.
const Placeholder = "?"

// Icon is the proxy an iconified client leaves in the bar strip.
type Icon struct {
	Win  platform.WindowID
	Rect geom.Rect
	// Restore is the area the client returns to when deiconified.
	Restore area.Type
}

// Client is one managed top-level window. Rect is the client window's
// geometry in root coordinates; the frame surrounds it.
type Client struct {
	Win      platform.WindowID
	Frame    platform.WindowID
	Rect     geom.Rect
	Border   int
	TitleBar int
	Area     area.Type
	Desktops uint32
	Icon     *Icon

	Title    string
	Class    string
	Instance string
	Hints    geom.SizeHints

	prev, next *Client
}

func (c *Client) AreaType() area.Type     { return c.Area }
func (c *Client) SetAreaType(t area.Type) { c.Area = t }

// Next returns the following node; the list is circular.
func (c *Client) Next() *Client { return c.next }

// Prev returns the preceding node.
func (c *Client) Prev() *Client { return c.prev }

// FrameRect is the frame window's geometry, excluding its border.
func (c *Client) FrameRect() geom.Rect {
	return geom.Rect{
		X: c.Rect.X - c.Border,
		Y: c.Rect.Y - c.TitleBar - c.Border,
		W: c.Rect.W,
		H: c.Rect.H + c.TitleBar,
	}
}

// OuterRect is the screen area covered by the frame including its border.
func (c *Client) OuterRect() geom.Rect {
	f := c.FrameRect()
	return geom.Rect{X: f.X, Y: f.Y, W: f.W + 2*c.Border, H: f.H + 2*c.Border}
}

// OnDesktops reports whether c is a member of any desktop in mask.
func (c *Client) OnDesktops(mask uint32) bool {
	return c.Desktops&mask != 0
}

// Iconified reports whether c is currently shown only by its icon.
func (c *Client) Iconified() bool {
	return c.Area == area.Iconified
}
