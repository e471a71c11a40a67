package area

import "testing"

type fake struct{ t Type }

func (f *fake) AreaType() Type     { return f.t }
func (f *fake) SetAreaType(t Type) { f.t = t }

func build(types ...Type) []*fake {
	out := make([]*fake, len(types))
	for i, t := range types {
		out[i] = &fake{t: t}
	}
	return out
}

func countMain(fs []*fake) int {
	n := 0
	for _, f := range fs {
		if f.t == Main {
			n++
		}
	}
	return n
}

func TestReconcile_MainCountIsMinOfCapacityAndEligible(t *testing.T) {
	tests := []struct {
		name     string
		types    []Type
		capacity int
		want     int
	}{
		{"all second", []Type{Second, Second, Second}, 1, 1},
		{"overflow main", []Type{Main, Main, Main}, 2, 2},
		{"fewer than capacity", []Type{Second}, 3, 1},
		{"mixed with floating first", []Type{Floating, Second, Fixed, Second}, 1, 1},
		{"iconified ignored", []Type{Iconified, Iconified}, 2, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := build(tt.types...)
			Reconcile(fs, tt.capacity)
			if got := countMain(fs); got != tt.want {
				t.Fatalf("main count = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestReconcile_EarlierListOrderWins(t *testing.T) {
	fs := build(Second, Main, Second, Main)
	promoted, demoted := Reconcile(fs, 2)
	want := []Type{Main, Main, Second, Second}
	for i, f := range fs {
		if f.t != want[i] {
			t.Fatalf("position %d = %v, want %v", i, f.t, want[i])
		}
	}
	if promoted != 1 || demoted != 1 {
		t.Fatalf("promoted=%d demoted=%d, want 1 and 1", promoted, demoted)
	}
}

func TestReconcile_LeavesOtherAreasAlone(t *testing.T) {
	fs := build(Fixed, Floating, Iconified)
	Reconcile(fs, 1)
	if fs[0].t != Fixed || fs[1].t != Floating || fs[2].t != Iconified {
		t.Fatalf("non-eligible areas changed: %v %v %v", fs[0].t, fs[1].t, fs[2].t)
	}
}

func TestParse(t *testing.T) {
	for _, tt := range []Type{Main, Second, Fixed, Floating, Iconified} {
		got, err := Parse(tt.String())
		if err != nil || got != tt {
			t.Errorf("Parse(%q) = %v, %v", tt.String(), got, err)
		}
	}
	if _, err := Parse("root"); err == nil {
		t.Fatalf("Parse(root) should fail")
	}
}
