package desktop

import (
	"fmt"

	"github.com/1broseidon/areawm/internal/area"
	"github.com/1broseidon/areawm/internal/client"
	"github.com/1broseidon/areawm/internal/layout"
)

// Max is the number of desktops a 32-bit membership mask can address.
const Max = 32

// AllMask marks a client as sticky.
const AllMask = ^uint32(0)

// Desktop holds the per-desktop layout and focus state. Focus pointers are
// never nil; the registry sentinel stands for "no focus".
type Desktop struct {
	CurLayout    layout.Mode
	PrevLayout   layout.Mode
	CurFocus     *client.Client
	PrevFocus    *client.Client
	DefaultArea  area.Type
	MainCapacity int
	MainRatio    float64
	FixedRatio   float64
}

// Defaults seeds new desktops.
type Defaults struct {
	Layout       layout.Mode
	Area         area.Type
	MainCapacity int
	MainRatio    float64
	FixedRatio   float64
}

// Set is the fixed collection of desktops plus the active index.
type Set struct {
	desktops []*Desktop
	current  int
}

// NewSet creates n desktops focused on sentinel.
func NewSet(n int, sentinel *client.Client, def Defaults) (*Set, error) {
	if n < 1 || n > Max {
		return nil, fmt.Errorf("desktop count %d out of range 1..%d", n, Max)
	}
	s := &Set{desktops: make([]*Desktop, n)}
	for i := range s.desktops {
		s.desktops[i] = &Desktop{
			CurLayout:    def.Layout,
			PrevLayout:   def.Layout,
			CurFocus:     sentinel,
			PrevFocus:    sentinel,
			DefaultArea:  def.Area,
			MainCapacity: max(def.MainCapacity, 1),
			MainRatio:    def.MainRatio,
			FixedRatio:   def.FixedRatio,
		}
	}
	return s, nil
}

// Len returns the number of desktops.
func (s *Set) Len() int { return len(s.desktops) }

// Index returns the active desktop index.
func (s *Set) Index() int { return s.current }

// Current returns the active desktop.
func (s *Set) Current() *Desktop { return s.desktops[s.current] }

// At returns desktop i, or nil when out of range.
func (s *Set) At(i int) *Desktop {
	if i < 0 || i >= len(s.desktops) {
		return nil
	}
	return s.desktops[i]
}

// Switch makes desktop i active and reports whether it changed.
func (s *Set) Switch(i int) bool {
	if i < 0 || i >= len(s.desktops) || i == s.current {
		return false
	}
	s.current = i
	return true
}

// Mask returns the membership bit of desktop i.
func Mask(i int) uint32 {
	if i < 0 || i >= Max {
		return 0
	}
	return 1 << uint(i)
}

// OnDesktop reports whether mask includes desktop i.
func OnDesktop(mask uint32, i int) bool {
	return mask&Mask(i) != 0
}

// FirstOf returns the lowest desktop in mask, or -1 for an empty mask.
func FirstOf(mask uint32) int {
	for i := 0; i < Max; i++ {
		if OnDesktop(mask, i) {
			return i
		}
	}
	return -1
}

// Next returns the desktop after i, wrapping to 0.
func Next(i, n int) int {
	if n <= 0 {
		return 0
	}
	return (i + 1) % n
}

// Prev returns the desktop before i, wrapping to n-1.
func Prev(i, n int) int {
	if n <= 0 {
		return 0
	}
	return (i + n - 1) % n
}

// UpdateFocus maintains the focus pointers of d. With c nil it repairs them
// after a client went away or changed membership: prev falls back to the
// sentinel and cur falls back to prev. Otherwise c becomes the current focus
// and the old current becomes prev.
func UpdateFocus(d *Desktop, c *client.Client, sentinel *client.Client, valid func(*client.Client) bool) {
	if c == nil {
		if !valid(d.PrevFocus) {
			d.PrevFocus = sentinel
		}
		if !valid(d.CurFocus) {
			d.CurFocus = d.PrevFocus
		}
		return
	}
	if c != d.CurFocus {
		d.PrevFocus = d.CurFocus
		d.CurFocus = c
	}
}
