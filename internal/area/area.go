package area

import (
	"fmt"
	"strings"
)

// Type classifies a client: it picks the layout band that positions it.
type Type int

const (
	Main Type = iota
	Second
	Fixed
	Floating
	Iconified
	// Root tags the registry sentinel and is never given to a client.
	Root
)

var names = [...]string{
	Main:      "main",
	Second:    "second",
	Fixed:     "fixed",
	Floating:  "floating",
	Iconified: "iconified",
	Root:      "root",
}

func (t Type) String() string {
	if t < 0 || int(t) >= len(names) {
		return fmt.Sprintf("Type(%d)", int(t))
	}
	return names[t]
}

// Parse converts a config or action name into a Type. The sentinel tag is
// not accepted.
func Parse(s string) (Type, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range names {
		if name == s && Type(i) != Root {
			return Type(i), nil
		}
	}
	return Main, fmt.Errorf("unknown area type %q", s)
}

// Tiled reports whether t is one of the three tile bands.
func (t Type) Tiled() bool {
	return t == Main || t == Second || t == Fixed
}

// MainEligible reports whether t competes for a main slot.
func (t Type) MainEligible() bool {
	return t == Main || t == Second
}

// Before reports whether t orders before u in the insertion order
// main < second < fixed < floating < iconified.
func (t Type) Before(u Type) bool {
	return t < u
}

// Classified is anything carrying an area tag.
type Classified interface {
	AreaType() Type
	SetAreaType(Type)
}

// Reconcile enforces the main-band capacity over the clients visible on one
// desktop, given in list order. Counting only main-eligible clients, the
// first capacity of them become main and the rest become second. It returns
// how many were promoted and demoted.
func Reconcile[C Classified](visible []C, capacity int) (promoted, demoted int) {
	n := 0
	for _, c := range visible {
		t := c.AreaType()
		if !t.MainEligible() {
			continue
		}
		n++
		switch {
		case t == Main && n > capacity:
			c.SetAreaType(Second)
			demoted++
		case t == Second && n <= capacity:
			c.SetAreaType(Main)
			promoted++
		}
	}
	return promoted, demoted
}
