package wm

import (
	"github.com/1broseidon/areawm/internal/area"
	"github.com/1broseidon/areawm/internal/client"
	"github.com/1broseidon/areawm/internal/geom"
	"github.com/1broseidon/areawm/internal/layout"
	"github.com/1broseidon/areawm/internal/platform"
)

// workArea is the rectangle layouts fill: the whole screen for Full,
// otherwise the strut-free work area minus the bar strip.
func (m *Manager) workArea(mode layout.Mode) geom.Rect {
	if mode == layout.Full {
		return geom.Rect{W: m.screen.Width, H: m.screen.Height}
	}
	w := m.screen.Work
	if w.W == 0 || w.H == 0 {
		w = geom.Rect{W: m.screen.Width, H: m.screen.Height}
	}
	w.H -= m.cfg.BarHeight
	return w
}

// barRect is the strip at the bottom of the work area that holds icons.
func (m *Manager) barRect() geom.Rect {
	w := m.workArea(layout.Tile)
	return geom.Rect{X: w.X, Y: w.Y + w.H, W: w.W, H: m.cfg.BarHeight}
}

func (m *Manager) iconHeight() int {
	if m.cfg.BarHeight > 0 {
		return m.cfg.BarHeight
	}
	return 1
}

// arrange enforces the main capacity in every layout, then runs the active
// layout over the clients of the current desktop and configures every
// window that takes part in it.
func (m *Manager) arrange() {
	d := m.desks.Current()
	mode := d.CurLayout
	vis := m.reg.Visible(m.curMask())
	area.Reconcile(vis, d.MainCapacity)

	var members []*client.Client
	for _, c := range vis {
		if c.Iconified() && mode != layout.Preview {
			continue
		}
		members = append(members, c)
	}
	items := make([]layout.Item, len(members))
	focus := -1
	for i, c := range members {
		items[i] = layout.Item{Area: c.Area, Rect: c.Rect, Border: c.Border, TitleBar: c.TitleBar}
		if c == d.CurFocus {
			focus = i
		}
	}
	if mode == layout.Full && focus < 0 && len(members) > 0 {
		focus = 0
	}

	results := layout.Compute(mode, layout.Params{
		Work:       m.workArea(mode),
		Gap:        m.cfg.Gap,
		MainRatio:  d.MainRatio,
		FixedRatio: d.FixedRatio,
		Focus:      focus,
	}, items)
	layout.Inset(mode, items, results)

	for i, c := range members {
		if results[i].OK {
			c.Rect = results[i].Rect
		}
		if mode == layout.Full && i != focus {
			continue
		}
		m.backend.Configure(c.Win, c.Frame, c.Rect, c.Border, c.TitleBar)
	}
	if mode == layout.Full && focus >= 0 {
		m.raise(members[focus])
	}
	m.layoutIcons()
	m.touch()
}

// layoutIcons packs the icons of the current desktop into the bar strip,
// last client leftmost.
func (m *Manager) layoutIcons() {
	bar := m.barRect()
	vis := m.reg.Visible(m.curMask())
	x := bar.X
	for i := len(vis) - 1; i >= 0; i-- {
		c := vis[i]
		if c.Icon == nil {
			continue
		}
		c.Icon.Rect = geom.Rect{X: x, Y: bar.Y, W: m.cfg.IconWidth, H: m.iconHeight()}
		x += m.cfg.IconWidth
		if c.Icon.Win != platform.None {
			m.backend.Configure(c.Icon.Win, platform.None, c.Icon.Rect, 0, 0)
		}
	}
}

// iconAt returns the iconified client whose icon spans x on the current
// desktop.
func (m *Manager) iconAt(x int) *client.Client {
	for _, c := range m.reg.Visible(m.curMask()) {
		if c.Icon != nil && x >= c.Icon.Rect.X && x < c.Icon.Rect.Right() {
			return c
		}
	}
	return nil
}

// inBar reports whether (x, y) lies in the bar strip.
func (m *Manager) inBar(x, y int) bool {
	return m.cfg.BarHeight > 0 && m.barRect().Contains(x, y)
}

// show maps c for the current layout: the frame, or the icon of an
// iconified client outside Preview and Full.
func (m *Manager) show(c *client.Client) {
	mode := m.desks.Current().CurLayout
	if !c.Iconified() || mode == layout.Preview {
		m.backend.Map(c.Frame)
		return
	}
	if c.Icon != nil && c.Icon.Win != platform.None && mode != layout.Full {
		m.backend.Map(c.Icon.Win)
	}
}

// hide unmaps both the frame and the icon of c.
func (m *Manager) hide(c *client.Client) {
	m.backend.Unmap(c.Frame)
	if c.Icon != nil && c.Icon.Win != platform.None {
		m.backend.Unmap(c.Icon.Win)
	}
}
