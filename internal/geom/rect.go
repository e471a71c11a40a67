package geom

import "fmt"

// Rect is an absolute rectangle in root window coordinates.
type Rect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Delta is a signed change to a Rect that has not been validated yet.
type Delta struct {
	DX int
	DY int
	DW int
	DH int
}

// Apply returns r shifted and resized by d.
func (r Rect) Apply(d Delta) Rect {
	return Rect{X: r.X + d.DX, Y: r.Y + d.DY, W: r.W + d.DW, H: r.H + d.DH}
}

// Right returns the first x coordinate past the rectangle.
func (r Rect) Right() int { return r.X + r.W }

// Bottom returns the first y coordinate past the rectangle.
func (r Rect) Bottom() int { return r.Y + r.H }

// Contains reports whether the point lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Center returns a w×h rectangle centered in r.
func (r Rect) Center(w, h int) Rect {
	return Rect{X: r.X + (r.W-w)/2, Y: r.Y + (r.H-h)/2, W: w, H: h}
}

func (r Rect) String() string {
	return fmt.Sprintf("%dx%d%+d%+d", r.W, r.H, r.X, r.Y)
}

// IsZero reports whether d changes nothing.
func (d Delta) IsZero() bool {
	return d == Delta{}
}

// Resizes reports whether d changes the size.
func (d Delta) Resizes() bool {
	return d.DW != 0 || d.DH != 0
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
