// Package semantics implements the type-directed event semantics of
// spec.md §4.1: derivative, has_type, and the nullability rules used by
// both. This is the reference oracle used by property tests and by
// testkit's random generator.
package semantics

import (
	"fmt"

	"github.com/deltastream/delta/errs"
	"github.com/deltastream/delta/event"
	"github.com/deltastream/delta/typesys"
)

// Derivative computes the residual type of t after consuming an event e
// asserted to have type t, per the table in spec.md §4.1.
func Derivative(t typesys.Type, e event.Event) (typesys.Type, error) {
	t = typesys.Resolve(t)

	switch ty := t.(type) {
	case typesys.Singleton:
		b, ok := e.(event.Base)
		if !ok || !ty.Kind.Accepts(b.Value) {
			return nil, errs.Derivative(ty.String(), fmt.Sprintf("%v", e))
		}
		return typesys.Eps{}, nil

	case typesys.Cat:
		switch ev := e.(type) {
		case event.CatA:
			left, err := Derivative(ty.Left, ev.Event)
			if err != nil {
				return nil, err
			}
			return typesys.Cat{Left: left, Right: ty.Right}, nil
		case event.CatPunc:
			return ty.Right, nil
		default:
			return nil, errs.Derivative(ty.String(), fmt.Sprintf("%v", e))
		}

	case typesys.Par:
		switch ev := e.(type) {
		case event.ParA:
			left, err := Derivative(ty.Left, ev.Event)
			if err != nil {
				return nil, err
			}
			return typesys.Par{Left: left, Right: ty.Right}, nil
		case event.ParB:
			right, err := Derivative(ty.Right, ev.Event)
			if err != nil {
				return nil, err
			}
			return typesys.Par{Left: ty.Left, Right: right}, nil
		default:
			return nil, errs.Derivative(ty.String(), fmt.Sprintf("%v", e))
		}

	case typesys.Plus:
		switch e.(type) {
		case event.PlusA:
			return ty.Left, nil
		case event.PlusB:
			return ty.Right, nil
		default:
			return nil, errs.Derivative(ty.String(), fmt.Sprintf("%v", e))
		}

	case typesys.Star:
		switch e.(type) {
		case event.PlusA:
			return typesys.Eps{}, nil
		case event.PlusB:
			return typesys.Cat{Left: ty.Elem, Right: ty}, nil
		default:
			return nil, errs.Derivative(ty.String(), fmt.Sprintf("%v", e))
		}

	case typesys.Eps:
		return nil, errs.Derivative(ty.String(), fmt.Sprintf("%v", e))

	default:
		return nil, errs.Derivative(fmt.Sprintf("%v", t), fmt.Sprintf("%v", e))
	}
}
