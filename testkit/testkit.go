// Package testkit is the testing surface of spec.md §6: the has_type
// oracle (re-exported from semantics) and a random events_of_type
// generator, grounded on original_source/util/hypothesis_strategies.py.
// Unlike the source's Hypothesis strategies, this generator is driven by
// an explicit *rand.Rand so callers get deterministic, seedable sequences
// without pulling in a property-testing framework dependency the rest of
// the pack doesn't otherwise use.
package testkit

import (
	"math/rand"

	"github.com/deltastream/delta/event"
	"github.com/deltastream/delta/semantics"
	"github.com/deltastream/delta/typesys"
)

// HasType re-exports semantics.HasType, the reference oracle every
// generated sequence here is checked against.
func HasType(events []event.Event, t typesys.Type) bool {
	return semantics.HasType(events, t)
}

// EventsOfType generates a random event sequence inhabiting t, guaranteed
// to satisfy HasType(result, t). maxDepth bounds the recursion the way
// the source's max_depth parameter does, so Star/Cat/Plus nesting
// eventually terminates even for a generator biased towards recursing.
func EventsOfType(r *rand.Rand, t typesys.Type, maxDepth int) []event.Event {
	t = typesys.Resolve(t)

	if maxDepth <= 0 {
		return minimalEventsOfType(r, t)
	}

	switch ty := t.(type) {
	case typesys.Eps:
		return nil

	case typesys.Singleton:
		return []event.Event{event.Base{Value: randomValue(r, ty.Kind)}}

	case typesys.Cat:
		left := EventsOfType(r, ty.Left, maxDepth-1)
		right := EventsOfType(r, ty.Right, maxDepth-1)
		out := make([]event.Event, 0, len(left)+1+len(right))
		for _, e := range left {
			out = append(out, event.CatA{Event: e})
		}
		out = append(out, event.CatPunc{})
		return append(out, right...)

	case typesys.Par:
		left := EventsOfType(r, ty.Left, maxDepth-1)
		right := EventsOfType(r, ty.Right, maxDepth-1)
		out := make([]event.Event, 0, len(left)+len(right))
		li, ri := 0, 0
		for li < len(left) || ri < len(right) {
			switch {
			case li >= len(left):
				out = append(out, event.ParB{Event: right[ri]})
				ri++
			case ri >= len(right):
				out = append(out, event.ParA{Event: left[li]})
				li++
			case r.Intn(2) == 0:
				out = append(out, event.ParA{Event: left[li]})
				li++
			default:
				out = append(out, event.ParB{Event: right[ri]})
				ri++
			}
		}
		return out

	case typesys.Plus:
		if r.Intn(2) == 0 {
			return append([]event.Event{event.PlusA{}}, EventsOfType(r, ty.Left, maxDepth-1)...)
		}
		return append([]event.Event{event.PlusB{}}, EventsOfType(r, ty.Right, maxDepth-1)...)

	case typesys.Star:
		// Weight nil by maxDepth and cons by 5-maxDepth (each at least 1),
		// mirroring the source's nil_weight/cons_weight split; the
		// maxDepth <= 0 fallback above ends the recursion.
		nilWeight := maxDepth
		if nilWeight < 1 {
			nilWeight = 1
		}
		consWeight := 5 - maxDepth
		if consWeight < 1 {
			consWeight = 1
		}
		if r.Intn(nilWeight+consWeight) < nilWeight {
			return []event.Event{event.PlusA{}}
		}
		head := EventsOfType(r, ty.Elem, maxDepth-1)
		rest := EventsOfType(r, typesys.Star{Elem: ty.Elem}, maxDepth-1)
		out := make([]event.Event, 0, 1+len(head)+1+len(rest))
		out = append(out, event.PlusB{})
		for _, e := range head {
			out = append(out, event.CatA{Event: e})
		}
		out = append(out, event.CatPunc{})
		return append(out, rest...)

	default:
		return nil
	}
}

// minimalEventsOfType generates the shortest legal sequence once the
// recursion budget is exhausted, so every type still produces something
// HasType accepts.
func minimalEventsOfType(r *rand.Rand, t typesys.Type) []event.Event {
	switch ty := t.(type) {
	case typesys.Eps:
		return nil
	case typesys.Singleton:
		return []event.Event{event.Base{Value: randomValue(r, ty.Kind)}}
	case typesys.Cat:
		left := minimalEventsOfType(r, ty.Left)
		right := minimalEventsOfType(r, ty.Right)
		out := make([]event.Event, 0, len(left)+1+len(right))
		for _, e := range left {
			out = append(out, event.CatA{Event: e})
		}
		out = append(out, event.CatPunc{})
		return append(out, right...)
	case typesys.Star:
		return []event.Event{event.PlusA{}}
	default:
		return nil
	}
}

func randomValue(r *rand.Rand, k typesys.Kind) interface{} {
	switch k.Name {
	case typesys.IntKind.Name:
		return r.Intn(1000)
	case typesys.StrKind.Name:
		const letters = "abcdefghijklmnopqrstuvwxyz"
		n := r.Intn(8)
		buf := make([]byte, n)
		for i := range buf {
			buf[i] = letters[r.Intn(len(letters))]
		}
		return string(buf)
	case typesys.BoolKind.Name:
		return r.Intn(2) == 0
	case typesys.FloatKind.Name:
		return r.Float64()
	default:
		return nil
	}
}
