package stream

import "github.com/deltastream/delta/typesys"

// UnsafeCast forwards its input's events unchanged under a different
// declared stream type. Used by the builder's Case and StarCase: once a
// tag is known, the remainder of the stream really is the
// narrower type, but nothing re-validates that at runtime (spec.md §3.3).
type UnsafeCast struct {
	input      Op
	streamType typesys.Type
}

func NewUnsafeCast(input Op, target typesys.Type) *UnsafeCast {
	return &UnsafeCast{input: input, streamType: target}
}

func (u *UnsafeCast) ID() uint64 {
	return structID("UnsafeCast", u.input.ID(), hashString(u.streamType.String()))
}
func (u *UnsafeCast) Vars() map[uint64]struct{} { return u.input.Vars() }
func (u *UnsafeCast) Type() typesys.Type        { return u.streamType }
func (u *UnsafeCast) Pull() Pulled               { return u.input.Pull() }
func (u *UnsafeCast) Reset()                     {}
