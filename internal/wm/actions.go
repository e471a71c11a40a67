package wm

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/1broseidon/areawm/internal/area"
	"github.com/1broseidon/areawm/internal/client"
	"github.com/1broseidon/areawm/internal/config"
	"github.com/1broseidon/areawm/internal/desktop"
	"github.com/1broseidon/areawm/internal/geom"
	"github.com/1broseidon/areawm/internal/layout"
	"github.com/1broseidon/areawm/internal/platform"
)

// ErrUnknownAction is returned for action names that are not registered.
var ErrUnknownAction = errors.New("unknown action")

// ErrPointerAction is returned when a pointer action is run without the
// button press that starts it.
var ErrPointerAction = errors.New("pointer actions need a button press")

// Action is a bound operation. ev is the key or button event that triggered
// it, or nil when it runs from a command.
type Action func(m *Manager, ev platform.Event, arg Arg)

// ArgKind says which field of Arg an action reads.
type ArgKind int

const (
	ArgNone ArgKind = iota
	ArgDirection
	ArgLayout
	ArgArea
	ArgRatio
	ArgDesktop
	ArgCount
	ArgCommand
	ArgPointer
)

// Arg is the parsed argument of an action. Desktop is 0-based.
type Arg struct {
	Kind      ArgKind
	Direction geom.Direction
	Layout    layout.Mode
	Area      area.Type
	Ratio     float64
	Desktop   int
	Count     int
	Command   []string
	Pointer   geom.Action
}

type actionSpec struct {
	fn      Action
	kind    ArgKind
	pointer bool
}

// ParseArg converts the textual argument of a binding. Desktop numbers in
// text are 1-based.
func ParseArg(kind ArgKind, s string, argv []string) (Arg, error) {
	s = strings.TrimSpace(s)
	a := Arg{Kind: kind}
	var err error
	switch kind {
	case ArgNone:
	case ArgDirection:
		a.Direction, err = geom.ParseDirection(s)
	case ArgLayout:
		a.Layout, err = layout.ParseMode(s)
	case ArgArea:
		a.Area, err = area.Parse(s)
	case ArgRatio:
		a.Ratio, err = strconv.ParseFloat(s, 64)
	case ArgCount:
		a.Count, err = strconv.Atoi(s)
	case ArgDesktop:
		var n int
		n, err = strconv.Atoi(s)
		if err == nil && n < 1 {
			err = fmt.Errorf("desktop %d must be >= 1", n)
		}
		a.Desktop = n - 1
	case ArgCommand:
		a.Command = argv
		if len(a.Command) == 0 {
			a.Command = strings.Fields(s)
		}
		if len(a.Command) == 0 {
			err = fmt.Errorf("command is required")
		}
	case ArgPointer:
		if s != "" {
			a.Pointer, err = geom.ParseAction(s)
		}
	}
	if err != nil {
		return Arg{}, fmt.Errorf("invalid argument %q: %w", s, err)
	}
	return a, nil
}

// ActionNames lists the registered action names, sorted.
func ActionNames() []string {
	specs := builtinActions()
	names := make([]string, 0, len(specs))
	for name := range specs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func builtinActions() map[string]actionSpec {
	return map[string]actionSpec{
		"exec":                   {fn: actExec, kind: ArgCommand},
		"quit":                   {fn: actQuit},
		"close_client":           {fn: actCloseClient},
		"close_all_clients":      {fn: actCloseAll},
		"change_layout":          {fn: actChangeLayout, kind: ArgLayout},
		"next_client":            {fn: actNextClient},
		"prev_client":            {fn: actPrevClient},
		"adjust_main_capacity":   {fn: actAdjustCapacity, kind: ArgCount},
		"adjust_main_ratio":      {fn: actAdjustMainRatio, kind: ArgRatio},
		"adjust_fixed_ratio":     {fn: actAdjustFixedRatio, kind: ArgRatio},
		"change_area":            {fn: actChangeArea, kind: ArgArea},
		"change_default_area":    {fn: actChangeDefaultArea, kind: ArgArea},
		"iconify_all":            {fn: actIconifyAll},
		"deiconify_all":          {fn: actDeiconifyAll},
		"maximize":               {fn: actMaximize},
		"key_move_resize":        {fn: actKeyMoveResize, kind: ArgDirection},
		"next_desktop":           {fn: actNextDesktop},
		"prev_desktop":           {fn: actPrevDesktop},
		"focus_desktop":          {fn: actFocusDesktop, kind: ArgDesktop},
		"move_to_desktop":        {fn: actMoveToDesktop, kind: ArgDesktop},
		"all_move_to_desktop":    {fn: actAllMoveToDesktop, kind: ArgDesktop},
		"change_to_desktop":      {fn: actChangeToDesktop, kind: ArgDesktop},
		"all_change_to_desktop":  {fn: actAllChangeToDesktop, kind: ArgDesktop},
		"attach_to_desktop":      {fn: actAttachToDesktop, kind: ArgDesktop},
		"attach_to_all_desktops": {fn: actAttachToAll},
		"all_attach_to_desktop":  {fn: actAllAttachToDesktop, kind: ArgDesktop},
		"toggle_focus_mode":      {fn: actToggleFocusMode},
		"toggle_border":          {fn: actToggleBorder},
		"toggle_title_bar":       {fn: actToggleTitleBar},
		"choose_client":          {fn: actChooseClient},
		"pointer_move":           {fn: actPointerMove, kind: ArgPointer, pointer: true},
		"pointer_resize":         {fn: actPointerResize, kind: ArgPointer, pointer: true},
		"pointer_move_resize":    {fn: actPointerMoveResize, kind: ArgPointer, pointer: true},
		"pointer_swap_clients":   {fn: actPointerSwap, pointer: true},
		"pointer_change_area":    {fn: actPointerChangeArea, pointer: true},
		"adjust_layout_ratio":    {fn: actAdjustLayoutRatio, pointer: true},
	}
}

// resolve looks up name and parses its argument.
func (m *Manager) resolve(name string, b config.Binding) (boundAction, error) {
	spec, ok := m.actions[name]
	if !ok {
		return boundAction{}, fmt.Errorf("%w: %s", ErrUnknownAction, name)
	}
	arg, err := ParseArg(spec.kind, b.Arg, b.Command)
	if err != nil {
		return boundAction{}, fmt.Errorf("%s: %w", name, err)
	}
	if spec.kind == ArgDesktop && arg.Desktop >= m.desks.Len() {
		return boundAction{}, fmt.Errorf("%s: desktop %d out of range 1..%d", name, arg.Desktop+1, m.desks.Len())
	}
	return boundAction{name: name, fn: spec.fn, arg: arg}, nil
}

// runNamed runs an action outside of any input event.
func (m *Manager) runNamed(name, arg string, argv []string) error {
	if spec, ok := m.actions[name]; ok && spec.pointer {
		return fmt.Errorf("%w: %s", ErrPointerAction, name)
	}
	b, err := m.resolve(name, config.Binding{Action: name, Arg: arg, Command: argv})
	if err != nil {
		return err
	}
	m.run(b, nil)
	return nil
}

func (m *Manager) run(b boundAction, ev platform.Event) {
	m.log.Debug("running action", "action", b.name)
	m.rec.ActionRun(b.name)
	b.fn(m, ev, b.arg)
}

func actExec(m *Manager, _ platform.Event, arg Arg) { m.spawn(arg.Command) }

func actQuit(m *Manager, _ platform.Event, _ Arg) { m.Quit() }

func actCloseClient(m *Manager, _ platform.Event, _ Arg) {
	if c := m.focused(); c != nil {
		m.backend.Close(c.Win)
	}
}

func actCloseAll(m *Manager, _ platform.Event, _ Arg) {
	m.reg.Each(func(c *client.Client) bool {
		m.backend.Close(c.Win)
		return true
	})
}

func actChangeLayout(m *Manager, _ platform.Event, arg Arg) { m.changeLayout(arg.Layout) }

// changeLayout switches the active desktop to mode. Iconified clients show
// their frame in Preview and their icon elsewhere; icons are hidden in Full.
func (m *Manager) changeLayout(mode layout.Mode) {
	d := m.desks.Current()
	old := d.CurLayout
	if old != mode {
		d.PrevLayout = old
		d.CurLayout = mode
	}
	for _, c := range m.reg.Visible(m.curMask()) {
		if c.Iconified() {
			m.hide(c)
			m.show(c)
		}
	}
	if c := m.focused(); c != nil && old == layout.Full && c.Area == area.Floating &&
		(mode == layout.Tile || mode == layout.Stack) {
		c.Rect = m.defaultRect()
	}
	m.arrange()
	m.focusClient(m.desks.Index(), nil)
	m.log.Debug("changed layout", "desktop", m.desks.Index()+1, "layout", mode)
}

// actNextClient walks the list backwards: new clients are inserted at the
// head of their area, so this visits them in the order they appeared.
func actNextClient(m *Manager, _ platform.Event, _ Arg) {
	cur := m.desks.Current().CurFocus
	m.focusClient(m.desks.Index(), m.neighbor(cur, true))
}

func actPrevClient(m *Manager, _ platform.Event, _ Arg) {
	cur := m.desks.Current().CurFocus
	m.focusClient(m.desks.Index(), m.neighbor(cur, false))
}

func actAdjustCapacity(m *Manager, _ platform.Event, arg Arg) {
	d := m.desks.Current()
	if d.CurLayout != layout.Tile {
		return
	}
	n := max(d.MainCapacity+arg.Count, 1)
	if n == d.MainCapacity {
		return
	}
	d.MainCapacity = n
	m.arrange()
}

func (m *Manager) countArea(t area.Type) int {
	return m.reg.Count(m.curMask(), func(c *client.Client) bool { return c.Area == t })
}

func actAdjustMainRatio(m *Manager, _ platform.Event, arg Arg) {
	d := m.desks.Current()
	if d.CurLayout != layout.Tile || m.countArea(area.Second) == 0 {
		return
	}
	mr, ok := layout.AdjustMain(m.workArea(layout.Tile).W, d.MainRatio, d.FixedRatio, arg.Ratio, m.cfg.MoveResizeInc)
	if !ok {
		return
	}
	d.MainRatio = mr
	m.arrange()
}

func actAdjustFixedRatio(m *Manager, _ platform.Event, arg Arg) {
	d := m.desks.Current()
	if d.CurLayout != layout.Tile || m.countArea(area.Fixed) == 0 {
		return
	}
	mr, fr, ok := layout.AdjustFixed(m.workArea(layout.Tile).W, d.MainRatio, d.FixedRatio, arg.Ratio, m.cfg.MoveResizeInc)
	if !ok {
		return
	}
	d.MainRatio, d.FixedRatio = mr, fr
	m.arrange()
}

func actChangeArea(m *Manager, _ platform.Event, arg Arg) {
	c := m.focused()
	if c == nil {
		return
	}
	m.changeArea(c, arg.Area)
}

// changeArea moves c to the head of area t. Outside Tile only iconify and
// deiconify are allowed, and only in Stack.
func (m *Manager) changeArea(c *client.Client, t area.Type) {
	mode := m.desks.Current().CurLayout
	allowed := mode == layout.Tile ||
		(mode == layout.Stack && (c.Iconified() || t == area.Iconified))
	if !allowed || c.Area == t {
		return
	}
	m.moveClient(c, m.reg.AreaHead(t, m.curMask()), t)
}

func actChangeDefaultArea(m *Manager, _ platform.Event, arg Arg) {
	m.desks.Current().DefaultArea = arg.Area
	m.touch()
}

func actIconifyAll(m *Manager, _ platform.Event, _ Arg) {
	for _, c := range m.reg.Visible(m.curMask()) {
		if !c.Iconified() {
			m.iconify(c)
		}
	}
	m.arrange()
}

func actDeiconifyAll(m *Manager, _ platform.Event, _ Arg) {
	for _, c := range m.reg.Visible(m.curMask()) {
		if c.Iconified() {
			m.deiconify(c)
		}
	}
	m.arrange()
}

func actMaximize(m *Manager, _ platform.Event, _ Arg) {
	c := m.focused()
	mode := m.desks.Current().CurLayout
	if c == nil || c.Iconified() || mode == layout.Full || mode == layout.Preview {
		return
	}
	m.maximize(c)
}

// maximize fills the screen above the bar strip, floating c first in Tile.
func (m *Manager) maximize(c *client.Client) {
	m.float(c)
	bw, th := c.Border, c.TitleBar
	c.Rect = geom.Rect{
		X: bw,
		Y: bw + th,
		W: m.screen.Width - 2*bw,
		H: m.screen.Height - 2*bw - th - m.cfg.BarHeight,
	}
	m.backend.Configure(c.Win, c.Frame, c.Rect, c.Border, c.TitleBar)
	m.raise(c)
	m.touch()
}

func actKeyMoveResize(m *Manager, _ platform.Event, arg Arg) {
	c := m.focused()
	mode := m.desks.Current().CurLayout
	if c == nil || c.Iconified() || (mode != layout.Tile && mode != layout.Stack) {
		return
	}
	m.float(c)
	m.moveResize(c, geom.KeyDelta(arg.Direction, c.Hints, m.cfg.MoveResizeInc))
}

func actNextDesktop(m *Manager, _ platform.Event, _ Arg) {
	m.focusDesktop(desktop.Next(m.desks.Index(), m.desks.Len()))
}

func actPrevDesktop(m *Manager, _ platform.Event, _ Arg) {
	m.focusDesktop(desktop.Prev(m.desks.Index(), m.desks.Len()))
}

func actFocusDesktop(m *Manager, _ platform.Event, arg Arg) { m.focusDesktop(arg.Desktop) }

func actMoveToDesktop(m *Manager, _ platform.Event, arg Arg) {
	if c := m.focused(); c != nil {
		m.sendToDesktop(c, arg.Desktop)
		m.arrange()
	}
}

func actAllMoveToDesktop(m *Manager, _ platform.Event, arg Arg) {
	for _, c := range m.reg.Visible(m.curMask()) {
		m.sendToDesktop(c, arg.Desktop)
	}
	m.arrange()
}

func actChangeToDesktop(m *Manager, ev platform.Event, arg Arg) {
	actMoveToDesktop(m, ev, arg)
	m.focusDesktop(arg.Desktop)
}

func actAllChangeToDesktop(m *Manager, ev platform.Event, arg Arg) {
	actAllMoveToDesktop(m, ev, arg)
	m.focusDesktop(arg.Desktop)
}

func actAttachToDesktop(m *Manager, _ platform.Event, arg Arg) {
	if c := m.focused(); c != nil {
		m.attachToDesktop(c, arg.Desktop)
	}
}

func actAttachToAll(m *Manager, _ platform.Event, _ Arg) {
	c := m.focused()
	if c == nil {
		return
	}
	for i := 0; i < m.desks.Len(); i++ {
		m.attachToDesktop(c, i)
	}
	c.Desktops = desktop.AllMask
	m.touch()
}

func actAllAttachToDesktop(m *Manager, _ platform.Event, arg Arg) {
	for _, c := range m.reg.Visible(m.curMask()) {
		m.attachToDesktop(c, arg.Desktop)
	}
}

func actToggleFocusMode(m *Manager, _ platform.Event, _ Arg) {
	if m.focusMode == config.FocusEnter {
		m.focusMode = config.FocusClick
	} else {
		m.focusMode = config.FocusEnter
	}
	m.log.Info("focus mode changed", "mode", m.focusMode)
	m.touch()
}

func actToggleBorder(m *Manager, _ platform.Event, _ Arg) {
	c := m.focused()
	if c == nil {
		return
	}
	if c.Border > 0 {
		c.Border = 0
	} else {
		c.Border = m.cfg.BorderWidth
	}
	m.redecorate(c)
}

func actToggleTitleBar(m *Manager, _ platform.Event, _ Arg) {
	c := m.focused()
	if c == nil {
		return
	}
	if c.TitleBar > 0 {
		c.TitleBar = 0
	} else {
		c.TitleBar = m.cfg.TitleBarHeight
	}
	m.redecorate(c)
}

func (m *Manager) redecorate(c *client.Client) {
	m.backend.Configure(c.Win, c.Frame, c.Rect, c.Border, c.TitleBar)
	m.backend.SetBorder(c.Frame, c.Border, c == m.desks.Current().CurFocus)
	m.arrange()
}

// actChooseClient picks the client under the pointer (or the focused one)
// and brings it back: iconified clients are restored and Preview returns to
// the previous layout.
func actChooseClient(m *Manager, ev platform.Event, _ Arg) {
	c := m.focused()
	if bp, ok := ev.(platform.ButtonPress); ok {
		if x := m.pressTarget(bp); x != nil {
			c = x
		}
	}
	if c == nil || !c.OnDesktops(m.curMask()) {
		return
	}
	d := m.desks.Current()
	if c.Iconified() {
		m.deiconify(c)
	}
	if d.CurLayout == layout.Preview {
		m.changeLayout(d.PrevLayout)
	}
	m.focusClient(m.desks.Index(), c)
	m.arrange()
}

// pressTarget resolves the client a press landed on through its window,
// frame, frame child or icon.
func (m *Manager) pressTarget(ev platform.ButtonPress) *client.Client {
	if c := m.reg.ByAny(ev.Window); c != nil {
		return c
	}
	return m.reg.ByAny(ev.Child)
}
