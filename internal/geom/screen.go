package geom

// IsOnScreen reports whether the rectangle still overlaps a sw×sh screen.
// The distance between the two centers must stay below the sum of the
// half extents on both axes; both sides are doubled to stay in integers.
func IsOnScreen(r Rect, sw, sh int) bool {
	return abs(2*r.X+r.W-sw) < r.W+sw && abs(2*r.Y+r.H-sh) < r.H+sh
}

// ValidMoveResize reports whether r may be applied: it must stay on screen
// and keep both dimensions at or above min.
func ValidMoveResize(r Rect, sw, sh, min int) bool {
	return IsOnScreen(r, sw, sh) && r.W >= min && r.H >= min
}
