package stream

import (
	"github.com/deltastream/delta/typesys"
)

// RegisterUpdateOp overwrites a RegisterBuffer cell with a fixed
// value, then is immediately exhausted (spec.md §9 item C.2's reinstated
// running-accumulator support, original_source/stream_ops/
// register_update_op.py). It never emits an event; splicing it into a
// Cat or SinkThen chain runs it purely for the side effect.
type RegisterUpdateOp struct {
	updateVal interface{}
	register  *RegisterBuffer
}

func NewRegisterUpdateOp(updateVal interface{}, register *RegisterBuffer) *RegisterUpdateOp {
	return &RegisterUpdateOp{updateVal: updateVal, register: register}
}

func (r *RegisterUpdateOp) ID() uint64 {
	return structID("RegisterUpdateOp", hashString(r.register.Type().String()))
}
func (r *RegisterUpdateOp) Vars() map[uint64]struct{} { return map[uint64]struct{}{} }
func (r *RegisterUpdateOp) Type() typesys.Type         { return typesys.Eps{} }

func (r *RegisterUpdateOp) Pull() Pulled {
	r.register.UpdateValue(r.updateVal)
	return Done()
}

func (r *RegisterUpdateOp) Reset() {}
