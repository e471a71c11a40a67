package geom

import "fmt"

// Action is what a pointer drag does to a window.
type Action int

const (
	NoOp Action = iota
	Move
	Top
	Bottom
	Left
	Right
	TopLeft
	TopRight
	BottomLeft
	BottomRight
	AdjustRatio
)

var actionNames = [...]string{
	NoOp:        "none",
	Move:        "move",
	Top:         "top",
	Bottom:      "bottom",
	Left:        "left",
	Right:       "right",
	TopLeft:     "top-left",
	TopRight:    "top-right",
	BottomLeft:  "bottom-left",
	BottomRight: "bottom-right",
	AdjustRatio: "adjust-ratio",
}

func (a Action) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return "unknown"
	}
	return actionNames[a]
}

// ParseAction converts a name such as "top-left" into an Action.
func ParseAction(s string) (Action, error) {
	for i, name := range actionNames {
		if name == s {
			return Action(i), nil
		}
	}
	return NoOp, fmt.Errorf("unknown pointer action %q", s)
}

// IsResize reports whether a changes a window's size.
func (a Action) IsResize() bool {
	return a >= Top && a <= BottomRight
}

// ActionAt classifies a press at (px, py) against the 3×3 grid laid over a
// client's frame. win is the client window rect; the frame extends border
// pixels outward and title pixels above it, and the grid cells are thirds
// of that outer size. Corners win over edges; the middle cell yields NoOp.
func ActionAt(win Rect, border, title, px, py int) Action {
	lx := win.X - border
	rx := win.X + win.W + border
	ty := win.Y - title - border
	by := win.Y + win.H + border
	cw := (rx - lx) / 3
	ch := (by - ty) / 3

	left := px < lx+cw
	right := px >= rx-cw
	top := py < ty+ch
	bottom := py >= by-ch

	switch {
	case top && left:
		return TopLeft
	case top && right:
		return TopRight
	case bottom && left:
		return BottomLeft
	case bottom && right:
		return BottomRight
	case top:
		return Top
	case bottom:
		return Bottom
	case left:
		return Left
	case right:
		return Right
	}
	return NoOp
}

// PointerDelta turns a pointer displacement into a window delta for a.
func PointerDelta(a Action, dx, dy int) Delta {
	switch a {
	case Move:
		return Delta{DX: dx, DY: dy}
	case Top:
		return Delta{DY: dy, DH: -dy}
	case Bottom:
		return Delta{DH: dy}
	case Left:
		return Delta{DX: dx, DW: -dx}
	case Right:
		return Delta{DW: dx}
	case TopLeft:
		return Delta{DX: dx, DY: dy, DW: -dx, DH: -dy}
	case TopRight:
		return Delta{DY: dy, DW: dx, DH: -dy}
	case BottomLeft:
		return Delta{DX: dx, DW: -dx, DH: dy}
	case BottomRight:
		return Delta{DW: dx, DH: dy}
	}
	return Delta{}
}

// Direction is a keyboard move or edge-resize step.
type Direction int

const (
	Up Direction = iota
	Down
	LeftDir
	RightDir
	LeftToLeft
	LeftToRight
	RightToLeft
	RightToRight
	UpToUp
	UpToDown
	DownToUp
	DownToDown
)

var directionNames = [...]string{
	Up:           "up",
	Down:         "down",
	LeftDir:      "left",
	RightDir:     "right",
	LeftToLeft:   "left-to-left",
	LeftToRight:  "left-to-right",
	RightToLeft:  "right-to-left",
	RightToRight: "right-to-right",
	UpToUp:       "up-to-up",
	UpToDown:     "up-to-down",
	DownToUp:     "down-to-up",
	DownToDown:   "down-to-down",
}

func (d Direction) String() string {
	if d < 0 || int(d) >= len(directionNames) {
		return "unknown"
	}
	return directionNames[d]
}

// ParseDirection converts a name such as "left-to-right" into a Direction.
func ParseDirection(s string) (Direction, error) {
	for i, name := range directionNames {
		if name == s {
			return Direction(i), nil
		}
	}
	return Up, fmt.Errorf("unknown direction %q", s)
}

// KeyDelta returns the keyboard step for dir. Moves and resizes advance by
// the client's size increments, or by inc when the client declares none.
func KeyDelta(dir Direction, h SizeHints, inc int) Delta {
	wi, hi := h.StepW(inc), h.StepH(inc)
	switch dir {
	case Up:
		return Delta{DY: -hi}
	case Down:
		return Delta{DY: hi}
	case LeftDir:
		return Delta{DX: -wi}
	case RightDir:
		return Delta{DX: wi}
	case LeftToLeft:
		return Delta{DX: -wi, DW: wi}
	case LeftToRight:
		return Delta{DX: wi, DW: -wi}
	case RightToLeft:
		return Delta{DW: -wi}
	case RightToRight:
		return Delta{DW: wi}
	case UpToUp:
		return Delta{DY: -hi, DH: hi}
	case UpToDown:
		return Delta{DY: hi, DH: -hi}
	case DownToUp:
		return Delta{DH: -hi}
	case DownToDown:
		return Delta{DH: hi}
	}
	return Delta{}
}
