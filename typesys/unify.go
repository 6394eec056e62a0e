package typesys

import "github.com/deltastream/delta/errs"

// Unify attempts to make a and b equal, following links, descending
// structurally into matching constructors, and binding unlinked TypeVars
// after an occurs check. It fails with a *errs.Error (KindUnification or
// KindOccursCheck) when the two terms cannot be reconciled.
//
// This is the symmetric entry point; the type-specific unifyWith methods
// implement one side of the double dispatch each type needs (matching
// original_source/typecheck/types.py, where every Type subclass defines
// its own unify_with).
func Unify(a, b Type) error {
	return a.unifyWith(b)
}

func bindVar(v *TypeVar, other Type) error {
	if v.Link != nil {
		return Unify(v.Link, other)
	}
	if err := other.occursIn(v); err != nil {
		return err
	}
	v.Link = other
	return nil
}

func (e Eps) unifyWith(other Type) error {
	if ov, ok := other.(*TypeVar); ok {
		return bindVar(ov, e)
	}
	if _, ok := other.(Eps); ok {
		return nil
	}
	return errs.Unification(e, other)
}

func (s Singleton) unifyWith(other Type) error {
	if ov, ok := other.(*TypeVar); ok {
		return bindVar(ov, s)
	}
	if os, ok := other.(Singleton); ok && os.Kind.Name == s.Kind.Name {
		return nil
	}
	return errs.Unification(s, other)
}

func (c Cat) unifyWith(other Type) error {
	if ov, ok := other.(*TypeVar); ok {
		return bindVar(ov, c)
	}
	oc, ok := other.(Cat)
	if !ok {
		return errs.Unification(c, other)
	}
	if err := Unify(c.Left, oc.Left); err != nil {
		return err
	}
	return Unify(c.Right, oc.Right)
}

func (p Par) unifyWith(other Type) error {
	if ov, ok := other.(*TypeVar); ok {
		return bindVar(ov, p)
	}
	op, ok := other.(Par)
	if !ok {
		return errs.Unification(p, other)
	}
	if err := Unify(p.Left, op.Left); err != nil {
		return err
	}
	return Unify(p.Right, op.Right)
}

func (p Plus) unifyWith(other Type) error {
	if ov, ok := other.(*TypeVar); ok {
		return bindVar(ov, p)
	}
	op, ok := other.(Plus)
	if !ok {
		return errs.Unification(p, other)
	}
	if err := Unify(p.Left, op.Left); err != nil {
		return err
	}
	return Unify(p.Right, op.Right)
}

func (s Star) unifyWith(other Type) error {
	if ov, ok := other.(*TypeVar); ok {
		return bindVar(ov, s)
	}
	os, ok := other.(Star)
	if !ok {
		return errs.Unification(s, other)
	}
	return Unify(s.Elem, os.Elem)
}

func (v *TypeVar) unifyWith(other Type) error {
	return bindVar(v, other)
}
