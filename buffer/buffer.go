// Package buffer implements the type-directed value accumulators of
// spec.md §6.1: a Buffer consumes events imperatively until it holds a
// complete Go value of the shape its stream type describes.
package buffer

import (
	"fmt"

	"github.com/deltastream/delta/errs"
	"github.com/deltastream/delta/event"
	"github.com/deltastream/delta/typesys"
)

// Buffer accumulates events into a single Go value, following the shape
// of a stream type one event at a time (original_source's TypedBuffer
// hierarchy).
type Buffer interface {
	// Poke consumes one event, assumed well-typed for the buffer's current
	// state. It panics on a malformed event, mirroring the asserts in
	// original_source/stream_ops/typed_buffer.py — a malformed event here
	// is a compiler bug, not a runtime condition callers should recover
	// from.
	Poke(e event.Event)
	// Complete reports whether a full value has been accumulated.
	Complete() bool
	// Value extracts the accumulated value. Only valid once Complete.
	Value() interface{}
}

// Make builds the Buffer implementation appropriate for t, following
// TypeVar links (spec.md §6.1's make_buffer dispatch).
func Make(t typesys.Type) Buffer {
	t = typesys.Resolve(t)
	switch ty := t.(type) {
	case typesys.Singleton:
		return &singletonBuffer{kind: ty.Kind}
	case typesys.Eps:
		return &epsBuffer{}
	case typesys.Cat:
		return &catBuffer{left: Make(ty.Left), right: Make(ty.Right)}
	case typesys.Plus:
		return &plusBuffer{ty: ty}
	case typesys.Star:
		return &starBuffer{elemType: ty.Elem}
	default:
		panic(fmt.Sprintf("buffer.Make: unsupported type %v", t))
	}
}

type singletonBuffer struct {
	kind     typesys.Kind
	value    interface{}
	complete bool
}

func (b *singletonBuffer) Poke(e event.Event) {
	base, ok := e.(event.Base)
	if !ok || !b.kind.Accepts(base.Value) {
		panic(errs.RuntimeTag("Base("+b.kind.Name+")", e.String()))
	}
	b.value = base.Value
	b.complete = true
}

func (b *singletonBuffer) Complete() bool      { return b.complete }
func (b *singletonBuffer) Value() interface{}  { return b.value }

type epsBuffer struct{}

func (b *epsBuffer) Poke(e event.Event) {
	panic(errs.RuntimeTag("no events", e.String()))
}
func (b *epsBuffer) Complete() bool     { return true }
func (b *epsBuffer) Value() interface{} { return nil }

// CatPair is the value a catBuffer produces: the left and right halves of
// a Cat type.
type CatPair struct{ Left, Right interface{} }

type catBuffer struct {
	left, right Buffer
	seenPunc    bool
}

func (b *catBuffer) Poke(e event.Event) {
	switch ev := e.(type) {
	case event.CatA:
		b.left.Poke(ev.Event)
	case event.CatPunc:
		if !b.left.Complete() {
			panic(errs.RuntimeTag("complete left buffer", "CatPunc"))
		}
		b.seenPunc = true
	default:
		if !b.seenPunc {
			panic(errs.RuntimeTag("CatPunc", e.String()))
		}
		b.right.Poke(e)
	}
}

func (b *catBuffer) Complete() bool { return b.seenPunc && b.right.Complete() }
func (b *catBuffer) Value() interface{} {
	return CatPair{Left: b.left.Value(), Right: b.right.Value()}
}

// Choice is the value a plusBuffer produces: which side was taken, Left
// or Right, and the buffered value for that side.
type Choice struct {
	Left  bool
	Value interface{}
}

type plusBuffer struct {
	ty     typesys.Plus
	tagSet bool
	left   bool
	inner  Buffer
}

func (b *plusBuffer) Poke(e event.Event) {
	switch e.(type) {
	case event.PlusA:
		b.tagSet, b.left = true, true
		b.inner = Make(b.ty.Left)
	case event.PlusB:
		b.tagSet, b.left = true, false
		b.inner = Make(b.ty.Right)
	default:
		if !b.tagSet {
			panic(errs.RuntimeTag("PlusA or PlusB", e.String()))
		}
		b.inner.Poke(e)
	}
}

func (b *plusBuffer) Complete() bool { return b.tagSet && b.inner.Complete() }
func (b *plusBuffer) Value() interface{} {
	return Choice{Left: b.left, Value: b.inner.Value()}
}

type starBuffer struct {
	elemType typesys.Type
	elements []interface{}
	current  Buffer
	done     bool
}

func (b *starBuffer) Poke(e event.Event) {
	switch ev := e.(type) {
	case event.PlusA:
		b.done = true
	case event.PlusB:
		b.current = Make(b.elemType)
	case event.CatA:
		if b.current == nil {
			panic(errs.RuntimeTag("an open element", "CatA"))
		}
		b.current.Poke(ev.Event)
	case event.CatPunc:
		if b.current == nil || !b.current.Complete() {
			panic(errs.RuntimeTag("a complete element", "CatPunc"))
		}
		b.elements = append(b.elements, b.current.Value())
		b.current = nil
	default:
		panic(errs.RuntimeTag("PlusA, PlusB, CatA, or CatPunc", e.String()))
	}
}

func (b *starBuffer) Complete() bool { return b.done }
func (b *starBuffer) Value() interface{} {
	return b.elements
}
