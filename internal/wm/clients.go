package wm

import (
	"strings"

	"github.com/1broseidon/areawm/internal/area"
	"github.com/1broseidon/areawm/internal/client"
	"github.com/1broseidon/areawm/internal/config"
	"github.com/1broseidon/areawm/internal/desktop"
	"github.com/1broseidon/areawm/internal/geom"
	"github.com/1broseidon/areawm/internal/layout"
	"github.com/1broseidon/areawm/internal/platform"
)

// curMask is the membership bit of the active desktop.
func (m *Manager) curMask() uint32 { return desktop.Mask(m.desks.Index()) }

// onCurrent reports whether c is a live client on the active desktop.
func (m *Manager) onCurrent(c *client.Client) bool {
	return !m.reg.IsRoot(c) && m.reg.Contains(c) && c.OnDesktops(m.curMask())
}

// manage adopts win: it reads its properties, applies rules, frames it and
// inserts it at the head of its area.
func (m *Manager) manage(win platform.WindowID) *client.Client {
	if c := m.reg.ByWin(win); c != nil {
		return c
	}
	if !m.backend.IsManageable(win) {
		return nil
	}

	d := m.desks.Current()
	c := &client.Client{
		Win:      win,
		Area:     d.DefaultArea,
		Border:   m.cfg.BorderWidth,
		TitleBar: m.cfg.TitleBarHeight,
		Desktops: m.curMask(),
		Title:    m.backend.Title(win),
		Hints:    m.backend.SizeHints(win),
	}
	c.Class, c.Instance = m.backend.ClassHint(win)
	m.applyRules(c)
	c.Rect = m.initialRect(win)

	frame, err := m.backend.Manage(win, c.Rect, c.Border, c.TitleBar)
	if err != nil {
		m.log.Warn("failed to frame window", "window", win, "error", err)
		return nil
	}
	c.Frame = frame
	m.backend.GrabButtons(frame, m.chords)

	t := c.Area
	if t == area.Iconified {
		c.Area = d.DefaultArea
	}
	m.reg.InsertAfter(m.reg.AreaHead(t, m.curMask()), c)

	switch {
	case t == area.Iconified:
		m.iconify(c)
	case c.OnDesktops(m.curMask()):
		m.backend.Map(frame)
		m.focusClient(m.desks.Index(), c)
	}
	for i := 0; i < m.desks.Len(); i++ {
		if i != m.desks.Index() && desktop.OnDesktop(c.Desktops, i) && t != area.Iconified {
			m.focusClient(i, c)
		}
	}

	m.log.Debug("managing window",
		"window", win,
		"class", c.Class,
		"area", c.Area,
		"desktop", desktop.FirstOf(c.Desktops)+1)
	m.touch()
	return c
}

// initialRect keeps the geometry the client asked for when it is usable and
// otherwise centers a quarter-screen window.
func (m *Manager) initialRect(win platform.WindowID) geom.Rect {
	r, err := m.backend.Geometry(win)
	if err == nil && r.X > 0 && r.Y > 0 && geom.ValidMoveResize(r, m.screen.Width, m.screen.Height, m.cfg.MoveResizeInc) {
		return r
	}
	return m.defaultRect()
}

func (m *Manager) defaultRect() geom.Rect {
	w, h := m.screen.Width/4, m.screen.Height/4
	return geom.Rect{X: m.screen.Width/2 - w/2, Y: m.screen.Height/2 - h/2, W: w, H: h}
}

// applyRules overrides the defaults of c with every matching rule; later
// rules win.
func (m *Manager) applyRules(c *client.Client) {
	for _, r := range m.cfg.Rules {
		if !ruleMatches(r, c) {
			continue
		}
		if r.Area != "" {
			if t, err := area.Parse(r.Area); err == nil {
				c.Area = t
			}
		}
		if r.Sticky {
			c.Desktops = desktop.AllMask
		} else if len(r.Desktops) > 0 {
			var mask uint32
			for _, n := range r.Desktops {
				if n >= 1 && n <= m.desks.Len() {
					mask |= desktop.Mask(n - 1)
				}
			}
			if mask != 0 {
				c.Desktops = mask
			}
		}
		if r.BorderWidth != nil {
			c.Border = *r.BorderWidth
		}
		if r.TitleBarHeight != nil {
			c.TitleBar = *r.TitleBarHeight
		}
	}
}

// ruleMatches requires every non-empty pattern of r to be a substring of the
// corresponding property. "*" matches anything.
func ruleMatches(r config.Rule, c *client.Client) bool {
	match := func(pattern, value string) bool {
		return pattern == "" || pattern == "*" || strings.Contains(value, pattern)
	}
	if r.Class == "" && r.Instance == "" && r.Title == "" {
		return false
	}
	return match(r.Class, c.Class) && match(r.Instance, c.Instance) && match(r.Title, c.Title)
}

// unmanage forgets c and repairs every focus pointer that referenced it.
func (m *Manager) unmanage(c *client.Client) {
	if c.Icon != nil {
		m.backend.DestroyIcon(c.Icon.Win)
		c.Icon = nil
	}
	m.backend.Unframe(c.Win, c.Frame)
	mask := c.Desktops
	m.reg.Remove(c)
	for i := 0; i < m.desks.Len(); i++ {
		if desktop.OnDesktop(mask, i) {
			m.focusClient(i, nil)
		}
	}
	m.log.Debug("unmanaged window", "window", c.Win)
	m.layoutIcons()
	m.arrange()
	m.touch()
}

// focusClient updates the focus pointers of desktop i and, when i is the
// active desktop, moves input focus, restacks and repaints borders.
func (m *Manager) focusClient(i int, c *client.Client) {
	d := m.desks.At(i)
	if d == nil {
		return
	}
	old := d.CurFocus
	mask := desktop.Mask(i)
	desktop.UpdateFocus(d, c, m.reg.Root(), func(x *client.Client) bool {
		return m.reg.Contains(x) && !x.Iconified() && x.OnDesktops(mask)
	})
	if i != m.desks.Index() {
		return
	}

	cur := d.CurFocus
	switch {
	case m.reg.IsRoot(cur):
		m.backend.Focus(m.backend.Root())
	case cur.Iconified() && cur.Icon != nil && d.CurLayout != layout.Preview:
		m.backend.Focus(cur.Icon.Win)
	default:
		m.backend.Focus(cur.Win)
	}
	if !m.reg.IsRoot(cur) && (!cur.Iconified() || d.CurLayout == layout.Preview) {
		m.raise(cur)
	}
	if old != cur && m.reg.Contains(old) {
		m.backend.SetBorder(old.Frame, old.Border, false)
	}
	if !m.reg.IsRoot(cur) {
		m.backend.SetBorder(cur.Frame, cur.Border, true)
	}
	m.touch()
}

// raise puts c on top. A tiled client is raised and then every floating
// client on the desktop is raised above it again.
func (m *Manager) raise(c *client.Client) {
	m.backend.Raise(c.Frame)
	if c.Area == area.Floating {
		return
	}
	for _, f := range m.reg.Visible(m.curMask()) {
		if f != c && f.Area == area.Floating {
			m.backend.Raise(f.Frame)
		}
	}
}

// iconify replaces c's frame by an icon in the bar strip. The area c had is
// remembered for deiconify.
func (m *Manager) iconify(c *client.Client) {
	if c.Icon != nil {
		return
	}
	restore := c.Area
	if restore == area.Iconified || restore == area.Root {
		restore = m.defArea
	}
	if restore == area.Iconified {
		restore = area.Main
	}
	c.Icon = &client.Icon{Restore: restore}
	c.Area = area.Iconified
	win, err := m.backend.CreateIcon(geom.Rect{W: m.cfg.IconWidth, H: m.iconHeight()}, c.Title)
	if err != nil {
		m.log.Warn("failed to create icon", "window", c.Win, "error", err)
	}
	c.Icon.Win = win

	d := m.desks.Current()
	if c.OnDesktops(m.curMask()) && d.CurLayout != layout.Preview {
		m.backend.Unmap(c.Frame)
		if d.CurLayout != layout.Full && win != platform.None {
			m.backend.Map(win)
		}
	}
	m.layoutIcons()
	if c == d.CurFocus {
		m.focusClient(m.desks.Index(), nil)
	}
	m.touch()
}

// deiconify brings c back into the area it was iconified from.
func (m *Manager) deiconify(c *client.Client) {
	if c.Icon == nil {
		return
	}
	if c.Icon.Win != platform.None {
		m.backend.DestroyIcon(c.Icon.Win)
	}
	c.Area = c.Icon.Restore
	c.Icon = nil
	if c.OnDesktops(m.curMask()) {
		m.backend.Map(c.Frame)
	}
	m.layoutIcons()
	m.focusClient(m.desks.Index(), c)
	m.touch()
}

// setArea retags c, creating or dropping its icon as needed.
func (m *Manager) setArea(c *client.Client, t area.Type) {
	if c.Area == t {
		return
	}
	if c.Iconified() {
		m.deiconify(c)
	}
	if t == area.Iconified {
		m.iconify(c)
		return
	}
	c.Area = t
}

// moveClient relinks from next to to as a member of area t, then lays the
// desktop out again. It reports whether anything moved.
func (m *Manager) moveClient(from, to *client.Client, t area.Type) bool {
	if !m.reg.MoveBetweenAreas(from, to, t) {
		return false
	}
	m.setArea(from, t)
	m.arrange()
	if cur := m.desks.Current().CurFocus; !m.reg.IsRoot(cur) && !cur.Iconified() {
		m.raise(cur)
	}
	m.touch()
	return true
}

// swapClients exchanges the list positions and areas of a and b.
func (m *Manager) swapClients(a, b *client.Client) {
	if a == b || m.reg.IsRoot(a) || m.reg.IsRoot(b) {
		return
	}
	m.reg.Swap(a, b)
	at, bt := a.Area, b.Area
	m.setArea(a, bt)
	m.setArea(b, at)
	m.arrange()
	if cur := m.desks.Current().CurFocus; !m.reg.IsRoot(cur) && !cur.Iconified() {
		m.raise(cur)
	}
	m.touch()
}

// moveResize applies d to c after fixing it against the size hints and
// checking that the result stays on screen. It returns the delta actually
// applied.
func (m *Manager) moveResize(c *client.Client, d geom.Delta) (geom.Delta, bool) {
	if d.IsZero() {
		return d, false
	}
	fixed, ok := geom.FixSizeHints(c.Rect, d, c.Hints)
	if !ok || fixed.IsZero() {
		return geom.Delta{}, false
	}
	r := c.Rect.Apply(fixed)
	if !geom.ValidMoveResize(r, m.screen.Width, m.screen.Height, m.cfg.MoveResizeInc) {
		return geom.Delta{}, false
	}
	c.Rect = r
	m.backend.Configure(c.Win, c.Frame, c.Rect, c.Border, c.TitleBar)
	m.touch()
	return fixed, true
}

// float turns a tiled client into a floating one, keeping its geometry.
func (m *Manager) float(c *client.Client) {
	if c.Area != area.Floating && m.desks.Current().CurLayout == layout.Tile {
		m.moveClient(c, m.reg.AreaHead(area.Floating, m.curMask()), area.Floating)
	}
}

// neighbor walks from c to the next (or previous) client on the active
// desktop, returning the sentinel at the end of the list.
func (m *Manager) neighbor(c *client.Client, backward bool) *client.Client {
	step := func(x *client.Client) *client.Client {
		if backward {
			return x.Prev()
		}
		return x.Next()
	}
	for p := step(c); p != m.reg.Root(); p = step(p) {
		if p.OnDesktops(m.curMask()) {
			return p
		}
	}
	return m.reg.Root()
}
