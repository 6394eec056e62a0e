// Package event defines the tagged runtime values that flow through a
// compiled stream iterator (spec.md §3.2).
package event

import "fmt"

// Event is the sum type of everything a StreamOp can pull. A nil Event is
// never valid; operators use the stream package's Done/Skip sentinels to
// signal exhaustion and non-events, never a nil Event value.
type Event interface {
	fmt.Stringer
	isEvent()
}

// Base wraps a single primitive value (spec.md's Singleton kind carrier).
type Base struct{ Value interface{} }

func (Base) isEvent()          {}
func (b Base) String() string  { return fmt.Sprintf("Base(%v)", b.Value) }

// CatA tags an event as belonging to the left side of a Cat.
type CatA struct{ Event Event }

func (CatA) isEvent()         {}
func (c CatA) String() string { return fmt.Sprintf("CatA(%s)", c.Event) }

// CatPunc separates the left and right sides of a Cat.
type CatPunc struct{}

func (CatPunc) isEvent()         {}
func (CatPunc) String() string   { return "CatPunc" }

// ParA tags an event as belonging to the left side of a Par.
type ParA struct{ Event Event }

func (ParA) isEvent()         {}
func (p ParA) String() string { return fmt.Sprintf("ParA(%s)", p.Event) }

// ParB tags an event as belonging to the right side of a Par.
type ParB struct{ Event Event }

func (ParB) isEvent()         {}
func (p ParB) String() string { return fmt.Sprintf("ParB(%s)", p.Event) }

// PlusA tags a committed left choice of a Plus, or the nil case of a Star.
type PlusA struct{}

func (PlusA) isEvent()       {}
func (PlusA) String() string { return "PlusA" }

// PlusB tags a committed right choice of a Plus, or the cons case of a Star.
type PlusB struct{}

func (PlusB) isEvent()       {}
func (PlusB) String() string { return "PlusB" }

// Equal reports whether two events are structurally identical. Events are
// compared by value; Base compares its wrapped value with ==, which is
// sufficient for the primitive kinds the type system supports (int,
// string, bool, float64).
func Equal(a, b Event) bool {
	switch av := a.(type) {
	case Base:
		bv, ok := b.(Base)
		return ok && av.Value == bv.Value
	case CatA:
		bv, ok := b.(CatA)
		return ok && Equal(av.Event, bv.Event)
	case CatPunc:
		_, ok := b.(CatPunc)
		return ok
	case ParA:
		bv, ok := b.(ParA)
		return ok && Equal(av.Event, bv.Event)
	case ParB:
		bv, ok := b.(ParB)
		return ok && Equal(av.Event, bv.Event)
	case PlusA:
		_, ok := b.(PlusA)
		return ok
	case PlusB:
		_, ok := b.(PlusB)
		return ok
	default:
		return false
	}
}
