package platform

import "github.com/1broseidon/areawm/internal/geom"

// WindowID is a platform-neutral window identifier.
type WindowID uint32

// None is the null window.
const None WindowID = 0

// Button is a pointer button number (1 = left).
type Button uint8

// ModMask is a keyboard modifier mask with lock modifiers already removed.
type ModMask uint16

// KeyChord is a resolved key binding: modifiers plus keycode.
type KeyChord struct {
	Mods ModMask
	Code uint8
}

// ButtonChord is a resolved pointer binding.
type ButtonChord struct {
	Mods   ModMask
	Button Button
}

// Cursor selects the pointer glyph shown while a gesture holds the grab.
type Cursor int

const (
	CursorNormal Cursor = iota
	CursorMove
	CursorTop
	CursorBottom
	CursorLeft
	CursorRight
	CursorTopLeft
	CursorTopRight
	CursorBottomLeft
	CursorBottomRight
	CursorSwap
	CursorChange
	CursorRatio
)

// Screen is the logical screen: the root window size and the work area
// left over after dock struts.
type Screen struct {
	Width  int
	Height int
	Work   geom.Rect
}

// DesktopState is what gets published on the root window for pagers.
type DesktopState struct {
	Count    int
	Current  int
	Names    []string
	Active   WindowID
	Clients  []WindowID
	Desktops map[WindowID]int
}

// Backend is the windowing collaborator the manager drives. All methods are
// called from the manager goroutine except Events, whose channel is fed by
// the backend's own reader.
type Backend interface {
	Root() WindowID
	Events() <-chan Event
	Screen() Screen

	ExistingWindows() ([]WindowID, error)
	IsManageable(win WindowID) bool
	Geometry(win WindowID) (geom.Rect, error)
	// Title, ClassHint and SizeHints substitute "?" or zero hints for
	// missing properties.
	Title(win WindowID) string
	ClassHint(win WindowID) (class, instance string)
	SizeHints(win WindowID) geom.SizeHints

	// Manage wraps win in a decorated frame, adds it to the save set and
	// returns the frame window.
	Manage(win WindowID, r geom.Rect, border, title int) (WindowID, error)
	Unframe(win, frame WindowID)
	Configure(win, frame WindowID, r geom.Rect, border, title int)
	SetBorder(frame WindowID, width int, focused bool)
	Map(win WindowID)
	Unmap(win WindowID)
	Raise(win WindowID)
	RestackBelow(win, sibling WindowID)
	Focus(win WindowID)
	Close(win WindowID)

	CreateIcon(r geom.Rect, title string) (WindowID, error)
	DestroyIcon(win WindowID)
	SetIconTitle(win WindowID, title string)

	SendConfigureNotify(win WindowID, r geom.Rect, border int)
	ConfigureUnmanaged(ev ConfigureRequest)

	GrabPointer(c Cursor) error
	UngrabPointer()
	QueryPointer() (x, y int, child WindowID, err error)

	GrabKeys(seq string) ([]KeyChord, error)
	ParseButton(seq string) (ButtonChord, error)
	GrabButtons(win WindowID, chords []ButtonChord)

	PublishState(s DesktopState)
}
