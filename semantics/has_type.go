package semantics

import (
	"github.com/deltastream/delta/event"
	"github.com/deltastream/delta/typesys"
)

// HasTypeEvent reports whether a single event has the given type, per the
// per-event rules in spec.md §4.1 (a CatPunc requires the left side of the
// Cat to be nullable).
func HasTypeEvent(e event.Event, t typesys.Type) bool {
	t = typesys.Resolve(t)

	switch ev := e.(type) {
	case event.CatA:
		ct, ok := t.(typesys.Cat)
		return ok && HasTypeEvent(ev.Event, ct.Left)

	case event.CatPunc:
		ct, ok := t.(typesys.Cat)
		return ok && ct.Left.Nullable()

	case event.ParA:
		pt, ok := t.(typesys.Par)
		return ok && HasTypeEvent(ev.Event, pt.Left)

	case event.ParB:
		pt, ok := t.(typesys.Par)
		return ok && HasTypeEvent(ev.Event, pt.Right)

	case event.PlusA:
		switch t.(type) {
		case typesys.Plus, typesys.Star:
			return true
		default:
			return false
		}

	case event.PlusB:
		switch t.(type) {
		case typesys.Plus, typesys.Star:
			return true
		default:
			return false
		}

	case event.Base:
		st, ok := t.(typesys.Singleton)
		return ok && st.Kind.Accepts(ev.Value)

	default:
		return false
	}
}

// HasType reports whether a sequence of events has the given type: either
// the sequence is empty, or its head has type t and its tail has type
// derivative(t, head) (spec.md §4.1). This is the reference oracle used by
// property tests and by testkit's random generator.
func HasType(events []event.Event, t typesys.Type) bool {
	if len(events) == 0 {
		return true
	}
	head, tail := events[0], events[1:]
	if !HasTypeEvent(head, t) {
		return false
	}
	derivType, err := Derivative(t, head)
	if err != nil {
		return false
	}
	return HasType(tail, derivType)
}
