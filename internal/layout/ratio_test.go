package layout

import (
	"math"
	"testing"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestAdjustMain_RejectsShrinkBelowMinimum(t *testing.T) {
	// width 1000, fixed 0.2: second band is 800-main.
	mr, ok := AdjustMain(1000, 0.5, 0.2, 0.1, 16)
	if !ok || !approx(mr, 0.6) {
		t.Fatalf("AdjustMain grow = %v, %v; want 0.6, true", mr, ok)
	}
	mr, ok = AdjustMain(1000, 0.78, 0.2, 0.01, 16)
	if ok || mr != 0.78 {
		t.Fatalf("AdjustMain past second minimum = %v, %v; want unchanged, false", mr, ok)
	}
	mr, ok = AdjustMain(1000, 0.02, 0.2, -0.01, 16)
	if ok || mr != 0.02 {
		t.Fatalf("AdjustMain past main minimum = %v, %v; want unchanged, false", mr, ok)
	}
}

func TestAdjustFixed_RejectsShrinkBelowMinimum(t *testing.T) {
	mr, fr, ok := AdjustFixed(1000, 0.5, 0.2, 0.1, 16)
	if !ok || !approx(mr, 0.4) || !approx(fr, 0.3) {
		t.Fatalf("AdjustFixed = %v, %v, %v", mr, fr, ok)
	}
	mr, fr, ok = AdjustFixed(1000, 0.5, 0.02, -0.01, 16)
	if ok || mr != 0.5 || fr != 0.02 {
		t.Fatalf("AdjustFixed past fixed minimum = %v, %v, %v; want unchanged", mr, fr, ok)
	}
}

func TestGapAt(t *testing.T) {
	// width 1000, main 0.5, fixed 0.2: second band ends at 300, fixed starts at 800.
	tests := []struct {
		x                   int
		hasSecond, hasFixed bool
		want                Gap
	}{
		{295, true, true, GapMainSecond},
		{290, true, true, GapMainSecond},
		{289, true, true, GapNone},
		{300, true, true, GapNone},
		{295, false, true, GapNone},
		{800, true, true, GapMainFixed},
		{809, true, true, GapMainFixed},
		{810, true, true, GapNone},
		{805, true, false, GapNone},
	}
	for _, tt := range tests {
		if got := GapAt(tt.x, 1000, 0.5, 0.2, 10, tt.hasSecond, tt.hasFixed); got != tt.want {
			t.Errorf("GapAt(%d, second=%v, fixed=%v) = %v, want %v", tt.x, tt.hasSecond, tt.hasFixed, got, tt.want)
		}
	}
}

func TestDrag(t *testing.T) {
	mr, fr := Drag(GapMainSecond, 1000, 300, 400, 0.5, 0.2)
	if !approx(mr, 0.4) || fr != 0.2 {
		t.Fatalf("main/second drag = %v, %v", mr, fr)
	}
	mr, fr = Drag(GapMainFixed, 1000, 800, 700, 0.5, 0.2)
	if !approx(mr, 0.4) || !approx(fr, 0.3) {
		t.Fatalf("main/fixed drag = %v, %v", mr, fr)
	}
	if mr, fr = Drag(GapNone, 1000, 0, 500, 0.5, 0.2); mr != 0.5 || fr != 0.2 {
		t.Fatalf("drag outside a gap changed ratios")
	}
}

func TestValidRatios(t *testing.T) {
	if !ValidRatios(1000, 0.5, 0.2, 16, true, true) {
		t.Fatalf("default ratios rejected")
	}
	if ValidRatios(1000, 0.79, 0.2, 16, true, true) {
		t.Fatalf("10px second band accepted")
	}
	if !ValidRatios(1000, 0.79, 0.2, 16, false, true) {
		t.Fatalf("empty second band should not count")
	}
	if ValidRatios(1000, 0.9, 0.2, 1, false, false) {
		t.Fatalf("ratios summing past 1 accepted")
	}
}
