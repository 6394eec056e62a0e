package stream

import (
	"fmt"

	"github.com/deltastream/delta/buffer"
	"github.com/deltastream/delta/event"
	"github.com/deltastream/delta/typesys"
)

type emitPhase int

const (
	emitSerializing emitPhase = iota
	emitEmitting
)

var emitSerial uint64

// EmitOp evaluates a BufferOp expression once all of its WaitOp sources
// have buffered a complete value, serialises the result into an event
// sequence, then streams that sequence out one event per pull
// (spec.md §3.3, §4.3's two-phase EmitOp).
type EmitOp struct {
	bufferOp   BufferOp
	streamType typesys.Type
	serial     uint64
	phase      emitPhase
	events     []event.Event
	idx        int
}

// NewEmitOp builds an EmitOp over b. Like Eps, EmitOp trees have no
// reusable structural identity worth hashing over (the BufferOp algebra
// carries no id of its own), so each call gets a fresh serial.
func NewEmitOp(b BufferOp) *EmitOp {
	emitSerial++
	return &EmitOp{bufferOp: b, streamType: b.Type(), serial: emitSerial}
}

func (e *EmitOp) ID() uint64 { return structID("EmitOp", e.serial) }

func (e *EmitOp) Vars() map[uint64]struct{} {
	out := make(map[uint64]struct{})
	for _, w := range e.bufferOp.Sources() {
		for k := range w.Vars() {
			out[k] = struct{}{}
		}
	}
	return out
}
func (e *EmitOp) Type() typesys.Type { return e.streamType }

func (e *EmitOp) Pull() Pulled {
	if e.phase == emitSerializing {
		// Drive every WaitOp source until it reports Done before evaluating.
		for _, w := range e.bufferOp.Sources() {
			if !w.Pull().IsDone() {
				return Skip()
			}
		}
		value := e.bufferOp.Eval()
		e.events = valueToEvents(value, e.streamType)
		e.idx = 0
		e.phase = emitEmitting
		return Skip()
	}
	if e.idx < len(e.events) {
		ev := e.events[e.idx]
		e.idx++
		return Emit(ev)
	}
	return Done()
}

func (e *EmitOp) Reset() {
	e.phase = emitSerializing
	e.events = nil
	e.idx = 0
	for _, w := range e.bufferOp.Sources() {
		w.Reset()
	}
}

// valueToEvents serialises a Go value shaped like t (per buffer.Buffer's
// Value() conventions: buffer.CatPair for Cat, buffer.Choice for Plus,
// []interface{} for Star) back into the event sequence it would have
// produced, mirroring original_source's value_to_events.
func valueToEvents(value interface{}, t typesys.Type) []event.Event {
	t = typesys.Resolve(t)
	switch ty := t.(type) {
	case typesys.Eps:
		return nil

	case typesys.Singleton:
		return []event.Event{event.Base{Value: value}}

	case typesys.Cat:
		pair, ok := value.(buffer.CatPair)
		if !ok {
			panic(fmt.Sprintf("valueToEvents: expected buffer.CatPair for %s, got %T", ty, value))
		}
		left := valueToEvents(pair.Left, ty.Left)
		right := valueToEvents(pair.Right, ty.Right)
		out := make([]event.Event, 0, len(left)+1+len(right))
		for _, e := range left {
			out = append(out, event.CatA{Event: e})
		}
		out = append(out, event.CatPunc{})
		out = append(out, right...)
		return out

	case typesys.Plus:
		choice, ok := value.(buffer.Choice)
		if !ok {
			panic(fmt.Sprintf("valueToEvents: expected buffer.Choice for %s, got %T", ty, value))
		}
		if choice.Left {
			return append([]event.Event{event.PlusA{}}, valueToEvents(choice.Value, ty.Left)...)
		}
		return append([]event.Event{event.PlusB{}}, valueToEvents(choice.Value, ty.Right)...)

	case typesys.Star:
		elems, _ := value.([]interface{})
		if len(elems) == 0 {
			return []event.Event{event.PlusA{}}
		}
		head := valueToEvents(elems[0], ty.Elem)
		rest := valueToEvents(elems[1:], ty)
		out := make([]event.Event, 0, len(head)+2+len(rest))
		out = append(out, event.PlusB{})
		for _, e := range head {
			out = append(out, event.CatA{Event: e})
		}
		out = append(out, event.CatPunc{})
		out = append(out, rest...)
		return out

	default:
		panic(fmt.Sprintf("valueToEvents: unsupported type %v", t))
	}
}
