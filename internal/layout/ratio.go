package layout

// Gap identifies which inter-band gap a pointer position falls in.
type Gap int

const (
	GapNone Gap = iota
	GapMainSecond
	GapMainFixed
)

func (g Gap) String() string {
	switch g {
	case GapMainSecond:
		return "main-second"
	case GapMainFixed:
		return "main-fixed"
	default:
		return "none"
	}
}

// AdjustMain grows the main band by delta at the expense of the second band,
// keeping the fixed ratio. It returns the new main ratio, or false when
// either band would fall below min pixels.
func AdjustMain(width int, mainRatio, fixedRatio, delta float64, min int) (float64, bool) {
	mr := mainRatio + delta
	mw := int(mr * float64(width))
	sw := int(float64(width)*(1-fixedRatio)) - mw
	if sw < min || mw < min {
		return mainRatio, false
	}
	return mr, true
}

// AdjustFixed grows the fixed band by delta at the expense of the main band,
// keeping the second band. It returns the new ratios, or the old ones and
// false when either band would fall below min pixels.
func AdjustFixed(width int, mainRatio, fixedRatio, delta float64, min int) (float64, float64, bool) {
	mr, fr := mainRatio-delta, fixedRatio+delta
	mw := int(float64(width) * mr)
	fw := int(float64(width) * fr)
	if mw < min || fw < min {
		return mainRatio, fixedRatio, false
	}
	return mr, fr, true
}

// GapAt classifies x, relative to the left edge of the work area, against
// the gaps that border the main band. A gap only exists when the band on
// the far side is populated.
func GapAt(x, width int, mainRatio, fixedRatio float64, gap int, hasSecond, hasFixed bool) Gap {
	sw := int(float64(width) * (1 - mainRatio - fixedRatio))
	if hasSecond && x >= sw-gap && x < sw {
		return GapMainSecond
	}
	fx := int(float64(width) * (1 - fixedRatio))
	if hasFixed && x >= fx && x < fx+gap {
		return GapMainFixed
	}
	return GapNone
}

// Drag returns the ratios after dragging gap g from ox to nx. Dragging the
// main/second gap right widens the second band; dragging the main/fixed gap
// right widens main. Callers validate the result with ValidRatios.
func Drag(g Gap, width, ox, nx int, mainRatio, fixedRatio float64) (float64, float64) {
	dr := float64(nx-ox) / float64(width)
	switch g {
	case GapMainSecond:
		return mainRatio - dr, fixedRatio
	case GapMainFixed:
		return mainRatio + dr, fixedRatio - dr
	}
	return mainRatio, fixedRatio
}

// ValidRatios reports whether every populated band is at least min pixels
// wide under the given ratios.
func ValidRatios(width int, mainRatio, fixedRatio float64, min int, hasSecond, hasFixed bool) bool {
	if mainRatio <= 0 || fixedRatio < 0 || mainRatio+fixedRatio > 1 {
		return false
	}
	sw, mw, fw := Bands(width, mainRatio, fixedRatio, true, true)
	if mw < min {
		return false
	}
	if hasSecond && sw < min {
		return false
	}
	if hasFixed && fw < min {
		return false
	}
	return true
}
