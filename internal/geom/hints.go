package geom

// SizeHints are the size constraints a client declares through
// WM_NORMAL_HINTS. Zero values mean "not set".
type SizeHints struct {
	MinW  int `json:"min_w,omitempty"`
	MinH  int `json:"min_h,omitempty"`
	MaxW  int `json:"max_w,omitempty"`
	MaxH  int `json:"max_h,omitempty"`
	BaseW int `json:"base_w,omitempty"`
	BaseH int `json:"base_h,omitempty"`
	IncW  int `json:"inc_w,omitempty"`
	IncH  int `json:"inc_h,omitempty"`

	// MinAspect and MaxAspect bound w/h.
	MinAspect float64 `json:"min_aspect,omitempty"`
	MaxAspect float64 `json:"max_aspect,omitempty"`
}

// maxFixSteps bounds the increment walk when searching for a compliant size.
const maxFixSteps = 64

// AcceptsSize reports whether w×h honours the bounds and increments.
func (h SizeHints) AcceptsSize(w, hh int) bool {
	return acceptsDim(w, h.MinW, h.MaxW, h.BaseW, h.IncW) &&
		acceptsDim(hh, h.MinH, h.MaxH, h.BaseH, h.IncH)
}

// AcceptsAspect reports whether w×h honours the aspect bounds.
func (h SizeHints) AcceptsAspect(w, hh int) bool {
	if hh <= 0 {
		return h.MinAspect == 0 && h.MaxAspect == 0
	}
	ratio := float64(w) / float64(hh)
	if h.MinAspect > 0 && ratio < h.MinAspect {
		return false
	}
	if h.MaxAspect > 0 && ratio > h.MaxAspect {
		return false
	}
	return true
}

// Accepts reports whether w×h satisfies every declared hint.
func (h SizeHints) Accepts(w, hh int) bool {
	return h.AcceptsSize(w, hh) && h.AcceptsAspect(w, hh)
}

// StepW returns the horizontal keyboard step, falling back to def.
func (h SizeHints) StepW(def int) int {
	if h.IncW > 0 {
		return h.IncW
	}
	return def
}

// StepH returns the vertical keyboard step, falling back to def.
func (h SizeHints) StepH(def int) int {
	if h.IncH > 0 {
		return h.IncH
	}
	return def
}

func acceptsDim(v, min, max, base, inc int) bool {
	if min > 0 && v < min {
		return false
	}
	if max > 0 && v > max {
		return false
	}
	if inc > 1 && (v-base)%inc != 0 {
		return false
	}
	return true
}

// FixSizeHints rewrites d so that cur.Apply(d) is a size the client accepts.
// Only the dimensions d changes are adjusted. Candidates are walked from the
// base size in increment steps and the one nearest the proposed size wins;
// ties go to the candidate nearest the current size so that replaying the
// same proposal is stable. When a dragged edge is the left or top one, the
// opposite edge keeps its position. ok is false when no compliant size
// exists within the search range.
func FixSizeHints(cur Rect, d Delta, h SizeHints) (Delta, bool) {
	if !d.Resizes() {
		return d, true
	}
	want := cur.Apply(d)
	if h.Accepts(want.W, want.H) {
		return d, true
	}

	w, hh := cur.W, cur.H
	if d.DW != 0 {
		w = want.W
	}
	if d.DH != 0 {
		hh = want.H
	}
	ws := candidates(w, cur.W, h.MinW, h.MaxW, h.BaseW, h.IncW,
		d.DW != 0 || !acceptsDim(cur.W, h.MinW, h.MaxW, h.BaseW, h.IncW))
	hs := candidates(hh, cur.H, h.MinH, h.MaxH, h.BaseH, h.IncH,
		d.DH != 0 || !acceptsDim(cur.H, h.MinH, h.MaxH, h.BaseH, h.IncH))

	found := false
	best := Rect{}
	bestCost := 0
	for _, cw := range ws {
		for _, ch := range hs {
			if !h.Accepts(cw, ch) {
				continue
			}
			cost := abs(cw-w) + abs(ch-hh)
			if !found || cost < bestCost ||
				(cost == bestCost && abs(cw-cur.W)+abs(ch-cur.H) < abs(best.W-cur.W)+abs(best.H-cur.H)) {
				found = true
				best = Rect{W: cw, H: ch}
				bestCost = cost
			}
		}
	}
	if !found {
		return Delta{}, false
	}

	fixed := Delta{DX: d.DX, DY: d.DY, DW: best.W - cur.W, DH: best.H - cur.H}
	if d.DX != 0 && d.DW != 0 {
		fixed.DX = -fixed.DW
	}
	if d.DY != 0 && d.DH != 0 {
		fixed.DY = -fixed.DH
	}
	return fixed, true
}

// candidates lists lattice values on both sides of want for one dimension.
// A dimension that is not being changed only offers its current value.
func candidates(want, cur, min, max, base, inc int, changing bool) []int {
	if !changing {
		return []int{cur}
	}
	if inc < 1 {
		inc = 1
	}
	v := want
	if min > 0 && v < min {
		v = min
	}
	if max > 0 && v > max {
		v = max
	}
	// Snap onto the base + k*inc lattice, keeping v >= base.
	if v < base {
		v = base
	}
	snapped := base + ((v-base)/inc)*inc

	out := make([]int, 0, 2*maxFixSteps)
	for k := 0; k < maxFixSteps; k++ {
		up := snapped + k*inc
		down := snapped - (k+1)*inc
		if up > 0 && (max <= 0 || up <= max) {
			out = append(out, up)
		}
		if down >= base && down > 0 && (min <= 0 || down >= min) {
			out = append(out, down)
		}
	}
	return out
}
