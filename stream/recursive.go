package stream

import "github.com/deltastream/delta/typesys"

// RecursiveSection marks the body of a recursive macro (concat's
// self-referential tail) so a RecCall elsewhere in the graph can name it
// as a reset target, mirroring original_source/stream_ops/
// recursive_section.py. It otherwise just forwards its contents.
type RecursiveSection struct {
	body       Op
	streamType typesys.Type
}

// NewRecursiveSection starts a section with no body yet; the builder calls
// SetBody once it has traced the recursive call that names this section, the
// same deferred-wiring shape ResetOp.SetResetSet uses.
func NewRecursiveSection(t typesys.Type) *RecursiveSection {
	return &RecursiveSection{streamType: t}
}

// SetBody installs the section's body once tracing has produced it.
func (r *RecursiveSection) SetBody(body Op) { r.body = body }

func (r *RecursiveSection) ID() uint64 {
	return structID("RecursiveSection", r.body.ID())
}
func (r *RecursiveSection) Vars() map[uint64]struct{} { return r.body.Vars() }
func (r *RecursiveSection) Type() typesys.Type        { return r.streamType }
func (r *RecursiveSection) Pull() Pulled              { return r.body.Pull() }
func (r *RecursiveSection) Reset()                    {}

// RecCall resets a captured set of nodes and yields a skip, the back-edge
// a recursive macro body uses to loop without the builder reaching for a
// generic ResetOp (original_source/stream_ops/rec_call.py draws this
// distinction so a recursive call site reads differently from a manual
// reset block in traces and diagnostics, even though the runtime
// behaviour is identical to ResetOp).
type RecCall struct {
	streamType typesys.Type
	enclosing  *RecursiveSection
	serial     uint64
	resetSet   []Op
}

var recCallSerial uint64

func NewRecCall(enclosing *RecursiveSection, t typesys.Type) *RecCall {
	recCallSerial++
	return &RecCall{enclosing: enclosing, streamType: t, serial: recCallSerial}
}

func (r *RecCall) SetResetSet(nodes []Op) { r.resetSet = nodes }

// ID is a per-instance serial, like ResetOp's: the reset set contains the
// nodes that pull this RecCall, so hashing over it would never terminate.
func (r *RecCall) ID() uint64 { return structID("RecCall", r.serial) }
func (r *RecCall) Vars() map[uint64]struct{} { return map[uint64]struct{}{} }
func (r *RecCall) Type() typesys.Type        { return r.streamType }

func (r *RecCall) Pull() Pulled {
	for _, n := range r.resetSet {
		n.Reset()
	}
	return Skip()
}

func (r *RecCall) Reset() {}
