package stream

import "github.com/deltastream/delta/typesys"

// ResetOp resets every node in a captured set on each pull and yields a
// skip; used to splice a back-edge into an otherwise acyclic pull graph
// (spec.md §9's "cyclic graphs and back-edges" design note). The set is
// populated by the builder after tracing a block's body, and usually
// contains nodes that pull this ResetOp, so a ResetOp's identity is a
// per-instance serial rather than a hash over that set.
type ResetOp struct {
	streamType typesys.Type
	serial     uint64
	resetSet   []Op
}

var resetSerial uint64

// NewResetOp builds a ResetOp over an initially empty set; the builder
// installs the set with SetResetSet once it knows which nodes a reset
// block introduced.
func NewResetOp(t typesys.Type) *ResetOp {
	resetSerial++
	return &ResetOp{streamType: t, serial: resetSerial}
}

// SetResetSet installs the nodes this ResetOp resets on every pull.
func (r *ResetOp) SetResetSet(nodes []Op) { r.resetSet = nodes }

func (r *ResetOp) ID() uint64 { return structID("ResetOp", r.serial) }
func (r *ResetOp) Vars() map[uint64]struct{} { return map[uint64]struct{}{} }
func (r *ResetOp) Type() typesys.Type        { return r.streamType }

func (r *ResetOp) Pull() Pulled {
	for _, n := range r.resetSet {
		n.Reset()
	}
	return Skip()
}

func (r *ResetOp) Reset() {}
