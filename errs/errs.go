// Package errs defines the typed errors the delta core can raise while
// building a graph or driving it to exhaustion.
//
// Every constructor wraps github.com/pkg/errors so callers that want a
// stack trace can print one with fmt.Printf("%+v", err); callers that just
// want the kind can type-switch or use errors.As against the concrete
// types below.
package errs

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind tags which of the failure modes in spec.md §7 produced an error.
type Kind string

const (
	KindUnification        Kind = "UnificationError"
	KindOccursCheck         Kind = "OccursCheck"
	KindInconsistentOrder   Kind = "InconsistentOrdering"
	KindDerivative          Kind = "DerivativeError"
	KindRuntimeTag          Kind = "RuntimeTagError"
	KindUnboundVar          Kind = "UnboundVar"
	KindNotImplemented      Kind = "NotYetImplemented"
	KindIllegalOverlap      Kind = "IllegalOverlap"
	KindInputArity          Kind = "InputArity"
)

// Error is the concrete error type returned by every failure path in this
// module. It carries no source location (there is no surface syntax to
// point at) but does carry the offending operands so a caller can log or
// inspect them.
type Error struct {
	Kind    Kind
	Message string
	stack   error // errors.WithStack(nil-cause sentinel), holds the trace for %+v
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Format implements fmt.Formatter so that fmt.Printf("%+v", err) prints a
// stack trace, matching the rest of the module's use of
// github.com/pkg/errors.
func (e *Error) Format(s fmt.State, verb rune) {
	if verb == 'v' && s.Flag('+') {
		fmt.Fprintf(s, "%s\n", e.Error())
		if f, ok := e.stack.(fmt.Formatter); ok {
			f.Format(s, verb)
			return
		}
	}
	fmt.Fprint(s, e.Error())
}

func new(kind Kind, format string, args ...interface{}) *Error {
	e := &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
	e.stack = errors.WithStack(errors.New(e.Message))
	return e
}

// Unification reports two type terms that cannot be reconciled.
func Unification(a, b fmt.Stringer) *Error {
	return new(KindUnification, "cannot unify %s with %s", a, b)
}

// OccursCheck reports a type variable that would have to reference itself.
func OccursCheck(varID uint64) *Error {
	return new(KindOccursCheck, "type variable %d occurs in its own binding", varID)
}

// InconsistentOrdering reports an edge that is simultaneously required and
// forbidden.
func InconsistentOrdering(x, y uint64) *Error {
	return new(KindInconsistentOrder, "edge %d -> %d is both required and forbidden", x, y)
}

// Derivative reports an event whose shape does not match the type it is
// asserted to inhabit.
func Derivative(typeDesc, eventDesc string) *Error {
	return new(KindDerivative, "cannot take the derivative of %s with respect to %s", typeDesc, eventDesc)
}

// RuntimeTag reports an unexpected tag event read during CaseOp/CondOp
// execution — a miscompiled branch or buggy macro expansion.
func RuntimeTag(expected, got string) *Error {
	return new(KindRuntimeTag, "expected %s tag, got %s", expected, got)
}

// UnboundVar reports a Var node pulled with no source iterator bound.
func UnboundVar(name string) *Error {
	return new(KindUnboundVar, "variable %q has no bound source", name)
}

// NotImplemented reports a compilation of an operator+backend pair that is
// explicitly unsupported (spec.md §7, §9).
func NotImplemented(what string) *Error {
	return new(KindNotImplemented, "%s is not implemented", what)
}

// IllegalOverlap reports a builder call whose operands read overlapping
// input variables, making the requested ordering unsatisfiable (e.g. CatR's
// "s1 before s2" when both read the same Var).
func IllegalOverlap(what string) *Error {
	return new(KindIllegalOverlap, "%s: operands read overlapping input variables", what)
}

// InputArity reports a graph Run call given the wrong number of input
// sources for the graph's input Vars.
func InputArity(expected, got int) *Error {
	return new(KindInputArity, "expected %d input sources, got %d", expected, got)
}

// As is a thin re-export of errors.As so callers need not import
// github.com/pkg/errors themselves just to narrow a *Error.
func As(err error, target interface{}) bool { return errors.As(err, target) }

// Is is a thin re-export of errors.Is.
func Is(err, target error) bool { return errors.Is(err, target) }
