// Package typesys implements the algebraic stream-type language of
// spec.md §3.1: Eps, Singleton, Cat, Par, Plus, Star, and unification
// variables, with structural unification and an occurs check.
package typesys

import (
	"fmt"
	"reflect"
	"sync/atomic"

	"github.com/deltastream/delta/errs"
)

// Kind names the primitive carried by a Singleton type. The type system
// doesn't need to know more about a kind than its Go type for equality and
// event-matching purposes, so Kind is just a label plus the Go reflect
// type it accepts — the original Python implementation used the Python
// class itself the same way (typecheck/types.py's Singleton.python_class).
type Kind struct {
	Name   string
	goType reflect.Type
}

func (k Kind) String() string { return k.Name }

// Accepts reports whether v is a legal value for this kind.
func (k Kind) Accepts(v interface{}) bool { return reflect.TypeOf(v) == k.goType }

var (
	IntKind   = Kind{Name: "int", goType: reflect.TypeOf(0)}
	StrKind   = Kind{Name: "string", goType: reflect.TypeOf("")}
	BoolKind  = Kind{Name: "bool", goType: reflect.TypeOf(false)}
	FloatKind = Kind{Name: "float64", goType: reflect.TypeOf(0.0)}
)

// Type is the interface implemented by every stream-type term. Types are
// immutable except for TypeVar's link, which unify sets exactly once.
type Type interface {
	fmt.Stringer
	// Nullable reports whether the empty sequence inhabits this type
	// (spec.md §3.1). Following TypeVar links as needed.
	Nullable() bool
	// occursIn performs the occurs-check descent used by Unify; see the
	// unify.go file for the full algorithm.
	occursIn(v *TypeVar) error
	// unifyWith is the double-dispatch partner of Unify.
	unifyWith(other Type) error
}

// Eps is the empty-sequence type.
type Eps struct{}

func (Eps) String() string    { return "Eps" }
func (Eps) Nullable() bool    { return true }
func (Eps) occursIn(*TypeVar) error { return nil }

// Singleton is a single event carrying a value of the given primitive Kind.
type Singleton struct{ Kind Kind }

func (s Singleton) String() string    { return s.Kind.Name }
func (Singleton) Nullable() bool      { return false }
func (Singleton) occursIn(*TypeVar) error { return nil }

// Cat is an ordered pair: a full L sequence, a separator, then a full R
// sequence.
type Cat struct{ Left, Right Type }

func (c Cat) String() string { return fmt.Sprintf("Cat(%s, %s)", c.Left, c.Right) }
func (c Cat) Nullable() bool { return c.Left.Nullable() && c.Right.Nullable() }
func (c Cat) occursIn(v *TypeVar) error {
	if err := c.Left.occursIn(v); err != nil {
		return err
	}
	return c.Right.occursIn(v)
}

// Par is interleaved L and R events with no mutual ordering.
type Par struct{ Left, Right Type }

func (p Par) String() string { return fmt.Sprintf("Par(%s, %s)", p.Left, p.Right) }
func (p Par) Nullable() bool { return p.Left.Nullable() && p.Right.Nullable() }
func (p Par) occursIn(v *TypeVar) error {
	if err := p.Left.occursIn(v); err != nil {
		return err
	}
	return p.Right.occursIn(v)
}

// Plus is a tagged choice: a tag event, then a full L or R.
type Plus struct{ Left, Right Type }

func (p Plus) String() string { return fmt.Sprintf("Plus(%s, %s)", p.Left, p.Right) }
func (p Plus) Nullable() bool { return p.Left.Nullable() || p.Right.Nullable() }
func (p Plus) occursIn(v *TypeVar) error {
	if err := p.Left.occursIn(v); err != nil {
		return err
	}
	return p.Right.occursIn(v)
}

// Star is a Kleene sequence of Elem values.
type Star struct{ Elem Type }

func (s Star) String() string    { return fmt.Sprintf("Star(%s)", s.Elem) }
func (Star) Nullable() bool      { return true }
func (s Star) occursIn(v *TypeVar) error { return s.Elem.occursIn(v) }

var nextTypeVarID uint64

// TypeVar is a unification variable: a unique id, a level (used to decide
// generalisation boundaries in the source this was distilled from; kept
// here even though this module does not generalise, so levels computed
// during unification are not silently discarded), and an optional link to
// the type it has been unified with.
type TypeVar struct {
	ID    uint64
	Level int
	Link  Type
}

// NewTypeVar allocates a fresh, unlinked type variable at the given level.
func NewTypeVar(level int) *TypeVar {
	return &TypeVar{ID: atomic.AddUint64(&nextTypeVarID, 1), Level: level}
}

func (v *TypeVar) String() string {
	if v.Link == nil {
		return fmt.Sprintf("TypeVar(%d)", v.ID)
	}
	return v.Link.String()
}

func (v *TypeVar) Nullable() bool {
	if v.Link == nil {
		return false
	}
	return v.Link.Nullable()
}

func (v *TypeVar) occursIn(target *TypeVar) error {
	if v.Link != nil {
		return v.Link.occursIn(target)
	}
	if v.ID == target.ID {
		return errs.OccursCheck(v.ID)
	}
	// A variable visited while checking for target's occurrence is pulled
	// down to target's level, the same bookkeeping
	// original_source/typecheck/types.py's TypeVar.occurs_var performs.
	v.Level = min(v.Level, target.Level)
	return nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Resolve follows a TypeVar's link chain to the first non-variable type,
// or to the deepest unlinked variable if the chain never terminates in a
// concrete type.
func Resolve(t Type) Type {
	for {
		v, ok := t.(*TypeVar)
		if !ok || v.Link == nil {
			return t
		}
		t = v.Link
	}
}
