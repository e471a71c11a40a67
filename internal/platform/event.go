package platform

import "github.com/1broseidon/areawm/internal/geom"

// Kind enumerates the event variants the manager dispatches on.
type Kind int

const (
	KindButtonPress Kind = iota
	KindButtonRelease
	KindMotion
	KindKeyPress
	KindEnter
	KindLeave
	KindExpose
	KindMapRequest
	KindUnmap
	KindDestroy
	KindConfigureRequest
	KindProperty
	KindClientMessage
	KindCount
)

var kindNames = [...]string{
	KindButtonPress:      "button-press",
	KindButtonRelease:    "button-release",
	KindMotion:           "motion",
	KindKeyPress:         "key-press",
	KindEnter:            "enter",
	KindLeave:            "leave",
	KindExpose:           "expose",
	KindMapRequest:       "map-request",
	KindUnmap:            "unmap",
	KindDestroy:          "destroy",
	KindConfigureRequest: "configure-request",
	KindProperty:         "property",
	KindClientMessage:    "client-message",
}

func (k Kind) String() string {
	if k < 0 || k >= KindCount {
		return "unknown"
	}
	return kindNames[k]
}

// Event is a closed union of the protocol events the manager consumes.
type Event interface {
	Kind() Kind
}

// ButtonPress reports a pointer button going down. Window is the window the
// event was delivered to; Child is the direct child of Window under the
// pointer, or None.
type ButtonPress struct {
	Window WindowID
	Child  WindowID
	Button Button
	State  ModMask
	RootX  int
	RootY  int
	X      int
	Y      int
}

// ButtonRelease reports a pointer button going up.
type ButtonRelease struct {
	Window WindowID
	Child  WindowID
	Button Button
	State  ModMask
	RootX  int
	RootY  int
	X      int
	Y      int
}

// MotionNotify reports pointer motion while a button is held.
type MotionNotify struct {
	Window WindowID
	Child  WindowID
	State  ModMask
	RootX  int
	RootY  int
}

// KeyPress reports a grabbed key chord.
type KeyPress struct {
	Window WindowID
	Code   uint8
	State  ModMask
}

// EnterNotify reports the pointer entering a window. Normal is false for
// crossings caused by grabs.
type EnterNotify struct {
	Window WindowID
	Normal bool
}

type LeaveNotify struct {
	Window WindowID
}

type Expose struct {
	Window WindowID
	Count  int
}

type MapRequest struct {
	Window WindowID
}

// UnmapNotify reports a window being unmapped. Event is the window the
// notification was selected on.
type UnmapNotify struct {
	Event  WindowID
	Window WindowID
}

type DestroyNotify struct {
	Event  WindowID
	Window WindowID
}

// ConfigureRequest mirrors a client's request to change its geometry. Mask
// says which fields are set, using the X11 ConfigWindow bit layout.
type ConfigureRequest struct {
	Window    WindowID
	Rect      geom.Rect
	Border    int
	Sibling   WindowID
	StackMode uint8
	Mask      uint16
}

// PropertyNotify reports a changed property by atom name.
type PropertyNotify struct {
	Window WindowID
	Atom   string
}

// ClientMessage carries an EWMH request by message type name.
type ClientMessage struct {
	Window WindowID
	Type   string
	Data   [5]uint32
}

func (ButtonPress) Kind() Kind      { return KindButtonPress }
func (ButtonRelease) Kind() Kind    { return KindButtonRelease }
func (MotionNotify) Kind() Kind     { return KindMotion }
func (KeyPress) Kind() Kind         { return KindKeyPress }
func (EnterNotify) Kind() Kind      { return KindEnter }
func (LeaveNotify) Kind() Kind      { return KindLeave }
func (Expose) Kind() Kind           { return KindExpose }
func (MapRequest) Kind() Kind       { return KindMapRequest }
func (UnmapNotify) Kind() Kind      { return KindUnmap }
func (DestroyNotify) Kind() Kind    { return KindDestroy }
func (ConfigureRequest) Kind() Kind { return KindConfigureRequest }
func (PropertyNotify) Kind() Kind   { return KindProperty }
func (ClientMessage) Kind() Kind    { return KindClientMessage }
