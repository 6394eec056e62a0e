package stream

import (
	"github.com/deltastream/delta/errs"
	"github.com/deltastream/delta/typesys"
)

// Source is anything that can be pulled for events one at a time, the
// interface a Var binds to at graph-compile time (an input channel, or
// another compiled Op).
type Source interface {
	Pull() Pulled
}

// Var is an input variable: a placeholder that reads from whatever
// Source the enclosing graph binds to it.
type Var struct {
	Name       string
	streamType typesys.Type
	Source     Source
}

// NewVar constructs an unbound input variable. Bind its Source field
// before pulling it.
func NewVar(name string, t typesys.Type) *Var {
	return &Var{Name: name, streamType: t}
}

func (v *Var) ID() uint64                    { return structID("Var", hashString(v.Name)) }
func (v *Var) Vars() map[uint64]struct{}     { return varSet(v.ID()) }
func (v *Var) Type() typesys.Type            { return v.streamType }

func (v *Var) Pull() Pulled {
	if v.Source == nil {
		panic(errs.UnboundVar(v.Name))
	}
	return v.Source.Pull()
}

func (v *Var) Reset() {}
