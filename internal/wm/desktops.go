package wm

import (
	"github.com/1broseidon/areawm/internal/client"
	"github.com/1broseidon/areawm/internal/desktop"
)

// focusDesktop switches to desktop i, mapping the clients that appear and
// unmapping the ones that go away.
func (m *Manager) focusDesktop(i int) {
	old := m.desks.Index()
	if !m.desks.Switch(i) {
		return
	}
	m.reg.Each(func(c *client.Client) bool {
		on, was := desktop.OnDesktop(c.Desktops, i), desktop.OnDesktop(c.Desktops, old)
		switch {
		case on && !was:
			m.show(c)
		case was && !on:
			m.hide(c)
		case on && was:
			// A sticky client follows the layout of the new desktop.
			m.hide(c)
			m.show(c)
		}
		return true
	})
	m.arrange()
	m.focusClient(i, nil)
	m.log.Debug("switched desktop", "desktop", i+1)
	m.touch()
}

// sendToDesktop replaces c's membership by desktop i alone.
func (m *Manager) sendToDesktop(c *client.Client, i int) {
	if m.reg.IsRoot(c) || m.desks.At(i) == nil {
		return
	}
	oldMask := c.Desktops
	c.Desktops = desktop.Mask(i)
	if !c.OnDesktops(m.curMask()) {
		m.hide(c)
	}
	m.repairFocus(oldMask)
	if !c.Iconified() {
		m.focusClient(i, c)
	}
	m.touch()
}

// attachToDesktop adds desktop i to c's membership.
func (m *Manager) attachToDesktop(c *client.Client, i int) {
	if m.reg.IsRoot(c) || m.desks.At(i) == nil || desktop.OnDesktop(c.Desktops, i) {
		return
	}
	c.Desktops |= desktop.Mask(i)
	if !c.Iconified() {
		m.focusClient(i, c)
	}
	m.touch()
}

// repairFocus re-validates the focus pointers of every desktop in mask.
func (m *Manager) repairFocus(mask uint32) {
	for i := 0; i < m.desks.Len(); i++ {
		if desktop.OnDesktop(mask, i) {
			m.focusClient(i, nil)
		}
	}
}

// focused returns the focused client of the active desktop, or nil.
func (m *Manager) focused() *client.Client {
	c := m.desks.Current().CurFocus
	if m.reg.IsRoot(c) {
		return nil
	}
	return c
}
