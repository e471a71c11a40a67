package layout

import (
	"fmt"
	"math"
	"strings"

	"github.com/1broseidon/areawm/internal/area"
	"github.com/1broseidon/areawm/internal/geom"
)

// Mode is a desktop's arrangement algorithm.
type Mode int

const (
	Full Mode = iota
	Preview
	Stack
	Tile
)

var modeNames = [...]string{
	Full:    "full",
	Preview: "preview",
	Stack:   "stack",
	Tile:    "tile",
}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeNames[m]
}

// ParseMode converts a config or action name into a Mode.
func ParseMode(s string) (Mode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range modeNames {
		if name == s {
			return Mode(i), nil
		}
	}
	return Stack, fmt.Errorf("unsupported layout mode: %q", s)
}

// Item is what the engine needs to know about one visible client.
type Item struct {
	Area     area.Type
	Rect     geom.Rect
	Border   int
	TitleBar int
}

// Params carries the desktop state a layout pass depends on.
type Params struct {
	Work       geom.Rect
	Gap        int
	MainRatio  float64
	FixedRatio float64
	// Focus indexes the focused item, or is negative when nothing is focused.
	Focus int
}

// Result is the rectangle an item should occupy. OK is false when the item
// keeps its current geometry.
type Result struct {
	Rect geom.Rect
	OK   bool
}

// Compute arranges items, given in list order, without touching any state.
// The returned rectangles are frame-outer cells; apply Inset to convert them
// to client rectangles.
func Compute(mode Mode, p Params, items []Item) []Result {
	out := make([]Result, len(items))
	if len(items) == 0 {
		return out
	}
	switch mode {
	case Full:
		if p.Focus >= 0 && p.Focus < len(items) {
			out[p.Focus] = Result{Rect: p.Work, OK: true}
		}
	case Preview:
		preview(p, out)
	case Tile:
		tile(p, items, out)
	}
	return out
}

// GridDims returns the preview grid for n windows: the smallest cols with
// cols*cols >= n, and one row fewer when that still fits.
func GridDims(n int) (cols, rows int) {
	if n <= 0 {
		return 0, 0
	}
	cols = int(math.Sqrt(float64(n)))
	for cols*cols < n {
		cols++
	}
	rows = cols
	if (cols-1)*cols >= n {
		rows = cols - 1
	}
	return cols, rows
}

// preview places item i in cell (i%cols, i/cols), so filling runs from the
// last client backwards. The trailing column and the final row absorb
// rounding leftovers and carry no gap.
func preview(p Params, out []Result) {
	n := len(out)
	cols, rows := GridDims(n)
	w, h := p.Work.W/cols, p.Work.H/rows
	for i := n - 1; i >= 0; i-- {
		col, row := i%cols, i/cols
		r := geom.Rect{X: p.Work.X + col*w, Y: p.Work.Y + row*h, W: w - p.Gap, H: h - p.Gap}
		if (i+1)%cols == 0 {
			r.W = w + (p.Work.W - w*cols)
		}
		if i >= cols*(rows-1) {
			r.H = h + (p.Work.H - h*rows)
		}
		out[i] = Result{Rect: r, OK: true}
	}
}

// Bands splits width into the second, main and fixed band widths. An empty
// fixed or second band folds into main.
func Bands(width int, mainRatio, fixedRatio float64, hasSecond, hasFixed bool) (second, main, fixed int) {
	main = int(mainRatio * float64(width))
	fixed = int(float64(width) * fixedRatio)
	second = width - fixed - main
	if !hasFixed {
		main += fixed
		fixed = 0
	}
	if !hasSecond {
		main += second
		second = 0
	}
	return second, main, fixed
}

func tile(p Params, items []Item, out []Result) {
	var nMain, nSecond, nFixed int
	for _, it := range items {
		switch it.Area {
		case area.Main:
			nMain++
		case area.Second:
			nSecond++
		case area.Fixed:
			nFixed++
		}
	}
	sw, mw, fw := Bands(p.Work.W, p.MainRatio, p.FixedRatio, nSecond > 0, nFixed > 0)
	h := p.Work.H
	mh, sh, fh := h, h, h
	if nMain > 0 {
		mh = h / nMain
	}
	if nSecond > 0 {
		sh = h / nSecond
	}
	if nFixed > 0 {
		fh = h / nFixed
	}

	g := p.Gap
	x0, y0 := p.Work.X, p.Work.Y
	var i, j, k int
	for n, it := range items {
		var r geom.Rect
		switch it.Area {
		case area.Fixed:
			r = geom.Rect{X: x0 + mw + sw + g, Y: y0 + i*fh, W: fw - g, H: fh - g}
			i++
		case area.Main:
			r = geom.Rect{X: x0 + sw, Y: y0 + j*mh, W: mw, H: mh - g}
			j++
		case area.Second:
			r = geom.Rect{X: x0, Y: y0 + k*sh, W: sw - g, H: sh - g}
			k++
		default:
			continue
		}
		out[n] = Result{Rect: r, OK: true}
	}
}

// Inset shrinks laid-out cells so the decorated frame fits inside them.
// Full and Stack place client windows directly and are left alone.
func Inset(mode Mode, items []Item, results []Result) {
	if mode == Full || mode == Stack {
		return
	}
	for i, it := range items {
		if !results[i].OK {
			continue
		}
		if mode == Tile && !it.Area.Tiled() {
			continue
		}
		b, t := it.Border, it.TitleBar
		r := &results[i].Rect
		r.X += b
		r.Y += t + b
		r.W -= 2 * b
		r.H -= t + 2*b
	}
}
