package wm

import (
	"github.com/1broseidon/areawm/internal/area"
	"github.com/1broseidon/areawm/internal/config"
	"github.com/1broseidon/areawm/internal/desktop"
	"github.com/1broseidon/areawm/internal/platform"
)

// iconicState is the ICCCM WM_CHANGE_STATE argument asking for iconify.
const iconicState = 3

// stickyDesktop is the _NET_WM_DESKTOP value for all desktops.
const stickyDesktop = 0xFFFFFFFF

func defaultHandlers() map[platform.Kind]handler {
	return map[platform.Kind]handler{
		platform.KindButtonPress:      handleButtonPress,
		platform.KindKeyPress:         handleKeyPress,
		platform.KindEnter:            handleEnter,
		platform.KindMapRequest:       handleMapRequest,
		platform.KindUnmap:            handleUnmap,
		platform.KindDestroy:          handleDestroy,
		platform.KindConfigureRequest: handleConfigureRequest,
		platform.KindProperty:         handleProperty,
		platform.KindClientMessage:    handleClientMessage,
	}
}

func handleMapRequest(m *Manager, ev platform.Event) {
	e := ev.(platform.MapRequest)
	if c := m.reg.ByWin(e.Window); c != nil {
		if c.Iconified() {
			m.deiconify(c)
			m.arrange()
		}
		return
	}
	if !m.backend.IsManageable(e.Window) {
		m.backend.Map(e.Window)
		return
	}
	if m.manage(e.Window) != nil {
		m.arrange()
	}
	// change_default_area only applies to the next window.
	m.desks.Current().DefaultArea = m.defArea
}

// handleUnmap forgets a client that withdrew itself. Frames the manager
// hides are reported with the frame as window and are ignored.
func handleUnmap(m *Manager, ev platform.Event) {
	e := ev.(platform.UnmapNotify)
	c := m.reg.ByWin(e.Window)
	if c == nil || e.Event != c.Frame {
		return
	}
	m.unmanage(c)
}

func handleDestroy(m *Manager, ev platform.Event) {
	e := ev.(platform.DestroyNotify)
	if c := m.reg.ByWin(e.Window); c != nil {
		m.unmanage(c)
	}
}

// handleConfigureRequest refuses geometry changes from managed clients by
// restating their current geometry; other windows get what they ask for.
func handleConfigureRequest(m *Manager, ev platform.Event) {
	e := ev.(platform.ConfigureRequest)
	if c := m.reg.ByWin(e.Window); c != nil {
		m.backend.SendConfigureNotify(c.Win, c.Rect, 0)
		return
	}
	m.backend.ConfigureUnmanaged(e)
}

func handleProperty(m *Manager, ev platform.Event) {
	e := ev.(platform.PropertyNotify)
	c := m.reg.ByWin(e.Window)
	if c == nil {
		return
	}
	switch e.Atom {
	case "WM_NAME", "_NET_WM_NAME":
		c.Title = m.backend.Title(c.Win)
		if c.Icon != nil && c.Icon.Win != platform.None {
			m.backend.SetIconTitle(c.Icon.Win, c.Title)
		}
		m.touch()
	case "WM_NORMAL_HINTS":
		c.Hints = m.backend.SizeHints(c.Win)
	}
}

func handleEnter(m *Manager, ev platform.Event) {
	e := ev.(platform.EnterNotify)
	if m.focusMode != config.FocusEnter || !e.Normal {
		return
	}
	c := m.reg.ByWin(e.Window)
	if c == nil {
		c = m.reg.ByFrame(e.Window)
	}
	if c == nil || c.Iconified() || c == m.desks.Current().CurFocus {
		return
	}
	m.focusClient(m.desks.Index(), c)
}

func handleClientMessage(m *Manager, ev platform.Event) {
	e := ev.(platform.ClientMessage)
	switch e.Type {
	case "_NET_CURRENT_DESKTOP":
		if i := int(e.Data[0]); m.desks.At(i) != nil {
			m.focusDesktop(i)
		}
		return
	}

	c := m.reg.ByWin(e.Window)
	if c == nil {
		return
	}
	switch e.Type {
	case "_NET_ACTIVE_WINDOW":
		if !c.OnDesktops(m.curMask()) {
			m.focusDesktop(desktop.FirstOf(c.Desktops))
		}
		if c.Iconified() {
			m.deiconify(c)
			m.arrange()
		}
		m.focusClient(m.desks.Index(), c)
	case "_NET_CLOSE_WINDOW":
		m.backend.Close(c.Win)
	case "_NET_WM_DESKTOP":
		if e.Data[0] == stickyDesktop {
			c.Desktops = desktop.AllMask
			m.touch()
		} else if i := int(e.Data[0]); m.desks.At(i) != nil {
			m.sendToDesktop(c, i)
		}
		m.arrange()
	case "WM_CHANGE_STATE":
		if e.Data[0] == iconicState && c.Area != area.Iconified {
			m.moveClient(c, m.reg.AreaHead(area.Iconified, m.curMask()), area.Iconified)
		}
	}
}
