// Package stream implements the flat-iterator stream IR of spec.md §6: a
// tree of Op nodes, each pulled one event at a time, composing into the
// operators a compiled dataflow graph is built from.
package stream

import (
	"hash/fnv"
	"strconv"

	"github.com/deltastream/delta/event"
	"github.com/deltastream/delta/typesys"
)

// Signal tags the three outcomes a Pull can have: a real event, a skip
// (no event this tick, but the stream is not exhausted), or exhaustion.
type Signal int

const (
	SigEvent Signal = iota
	SigSkip
	SigDone
)

// Pulled is the tri-state result of pulling an Op, matching the
// event | None | DONE contract of original_source/stream_ops/base.py's
// _pull.
type Pulled struct {
	Signal Signal
	Event  event.Event
}

// Emit wraps a produced event.
func Emit(e event.Event) Pulled { return Pulled{Signal: SigEvent, Event: e} }

// Skip reports that this tick produced nothing, but more may follow.
func Skip() Pulled { return Pulled{Signal: SigSkip} }

// Done reports stream exhaustion.
func Done() Pulled { return Pulled{Signal: SigDone} }

func (p Pulled) IsDone() bool { return p.Signal == SigDone }
func (p Pulled) IsSkip() bool { return p.Signal == SigSkip }

// Op is a node in the stream IR. Every variant is pulled one tick at a
// time; Reset returns a stateful node's own fields to their initial state
// without reallocating the graph. Children are not reset, except that
// CondOp also resets its condition and EmitOp its WaitOp sources.
type Op interface {
	// ID is a structural identity: two nodes built the same way from the
	// same children hash equal. The builder uses it as the node's key in
	// its RealizedOrdering.
	ID() uint64
	// Vars returns the set of Var node ids this subtree ultimately reads
	// from.
	Vars() map[uint64]struct{}
	// Type is the stream type this node's output inhabits.
	Type() typesys.Type
	// Pull advances the node by one tick.
	Pull() Pulled
	// Reset returns the node to its initial state.
	Reset()
}

// idHasher builds a structural id the way original_source's
// hash(("NodeKind", *components)) calls do, by feeding an FNV-1a with the
// node's kind tag followed by its child ids.
type idHasher struct{ h uint64 }

func newID(kind string) *idHasher {
	ih := &idHasher{}
	f := fnv.New64a()
	f.Write([]byte(kind))
	ih.h = f.Sum64()
	return ih
}

func (ih *idHasher) mix(parts ...uint64) uint64 {
	f := fnv.New64a()
	f.Write([]byte(strconv.FormatUint(ih.h, 16)))
	for _, p := range parts {
		f.Write([]byte(strconv.FormatUint(p, 16)))
	}
	return f.Sum64()
}

func structID(kind string, parts ...uint64) uint64 {
	return newID(kind).mix(parts...)
}

func hashString(s string) uint64 {
	f := fnv.New64a()
	f.Write([]byte(s))
	return f.Sum64()
}

func unionVars(sets ...map[uint64]struct{}) map[uint64]struct{} {
	out := make(map[uint64]struct{})
	for _, s := range sets {
		for k := range s {
			out[k] = struct{}{}
		}
	}
	return out
}

func varSet(id uint64) map[uint64]struct{} {
	return map[uint64]struct{}{id: {}}
}
