package wm

import (
	"context"

	"github.com/1broseidon/areawm/internal/client"
	"github.com/1broseidon/areawm/internal/desktop"
	"github.com/1broseidon/areawm/internal/geom"
)

// Snapshot is an immutable copy of the manager state for outside readers.
// Desktop numbers are 1-based.
type Snapshot struct {
	Version   uint64        `json:"version"`
	Desktop   int           `json:"desktop"`
	FocusMode string        `json:"focus_mode"`
	Focused   uint32        `json:"focused,omitempty"`
	Screen    geom.Rect     `json:"screen"`
	Desktops  []DesktopInfo `json:"desktops"`
	Clients   []ClientInfo  `json:"clients"`
}

// DesktopInfo describes one desktop.
type DesktopInfo struct {
	Number       int     `json:"number"`
	Layout       string  `json:"layout"`
	PrevLayout   string  `json:"prev_layout"`
	DefaultArea  string  `json:"default_area"`
	MainCapacity int     `json:"main_capacity"`
	MainRatio    float64 `json:"main_ratio"`
	FixedRatio   float64 `json:"fixed_ratio"`
	Focused      uint32  `json:"focused,omitempty"`
	Clients      int     `json:"clients"`
}

// ClientInfo describes one managed window, in registry order.
type ClientInfo struct {
	Window   uint32    `json:"window"`
	Frame    uint32    `json:"frame"`
	Title    string    `json:"title"`
	Class    string    `json:"class"`
	Instance string    `json:"instance"`
	Area     string    `json:"area"`
	Restore  string    `json:"restore,omitempty"`
	Desktops []int     `json:"desktops"`
	Sticky   bool      `json:"sticky,omitempty"`
	Rect     geom.Rect `json:"rect"`
	Focused  bool      `json:"focused,omitempty"`
}

// Client returns the client with the given window id.
func (s Snapshot) Client(win uint32) (ClientInfo, bool) {
	for _, c := range s.Clients {
		if c.Window == win || c.Frame == win {
			return c, true
		}
	}
	return ClientInfo{}, false
}

// Current returns the entry for the current desktop.
func (s Snapshot) Current() DesktopInfo {
	if s.Desktop < 1 || s.Desktop > len(s.Desktops) {
		return DesktopInfo{}
	}
	return s.Desktops[s.Desktop-1]
}

func (m *Manager) snapshot() Snapshot {
	cur := m.desks.Current()
	s := Snapshot{
		Version:   m.version,
		Desktop:   m.desks.Index() + 1,
		FocusMode: string(m.focusMode),
		Screen:    geom.Rect{W: m.screen.Width, H: m.screen.Height},
		Desktops:  make([]DesktopInfo, m.desks.Len()),
		Clients:   make([]ClientInfo, 0, m.reg.Len()),
	}
	if !m.reg.IsRoot(cur.CurFocus) {
		s.Focused = uint32(cur.CurFocus.Win)
	}
	for i := range s.Desktops {
		d := m.desks.At(i)
		info := DesktopInfo{
			Number:       i + 1,
			Layout:       d.CurLayout.String(),
			PrevLayout:   d.PrevLayout.String(),
			DefaultArea:  d.DefaultArea.String(),
			MainCapacity: d.MainCapacity,
			MainRatio:    d.MainRatio,
			FixedRatio:   d.FixedRatio,
			Clients:      m.reg.Count(desktop.Mask(i), nil),
		}
		if !m.reg.IsRoot(d.CurFocus) {
			info.Focused = uint32(d.CurFocus.Win)
		}
		s.Desktops[i] = info
	}
	m.reg.Each(func(c *client.Client) bool {
		info := ClientInfo{
			Window:   uint32(c.Win),
			Frame:    uint32(c.Frame),
			Title:    c.Title,
			Class:    c.Class,
			Instance: c.Instance,
			Area:     c.Area.String(),
			Sticky:   c.Desktops == desktop.AllMask,
			Rect:     c.Rect,
			Focused:  c == cur.CurFocus,
		}
		if c.Icon != nil {
			info.Restore = c.Icon.Restore.String()
		}
		for i := 0; i < m.desks.Len(); i++ {
			if desktop.OnDesktop(c.Desktops, i) {
				info.Desktops = append(info.Desktops, i+1)
			}
		}
		s.Clients = append(s.Clients, info)
		return true
	})
	return s
}

// command is a request posted into the run loop from another goroutine.
type command struct {
	action string
	arg    string
	argv   []string
	reply  chan commandResult
}

type commandResult struct {
	snap Snapshot
	err  error
}

// State returns a snapshot taken inside the run loop. Safe for concurrent use.
func (m *Manager) State(ctx context.Context) (Snapshot, error) {
	return m.post(ctx, command{})
}

// Execute runs a named action inside the run loop and returns the state
// after it. Safe for concurrent use.
func (m *Manager) Execute(ctx context.Context, action, arg string, argv []string) (Snapshot, error) {
	if action == "" {
		return Snapshot{}, ErrUnknownAction
	}
	return m.post(ctx, command{action: action, arg: arg, argv: argv})
}

func (m *Manager) post(ctx context.Context, cmd command) (Snapshot, error) {
	cmd.reply = make(chan commandResult, 1)
	select {
	case m.commands <- cmd:
	case <-m.done:
		return Snapshot{}, ErrClosed
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}
	select {
	case res := <-cmd.reply:
		return res.snap, res.err
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}
}

func (m *Manager) runCommand(cmd command) {
	var err error
	if cmd.action != "" {
		err = m.runNamed(cmd.action, cmd.arg, cmd.argv)
		m.flush()
	}
	cmd.reply <- commandResult{snap: m.snapshot(), err: err}
}
