package stream

import (
	"github.com/deltastream/delta/event"
	"github.com/deltastream/delta/typesys"
)

// SumInj injects a stream into one side of a Plus: a PlusA or PlusB tag,
// then the wrapped stream verbatim.
type SumInj struct {
	input      Op
	position   int
	streamType typesys.Type
	tagEmitted bool
}

// NewSumInj builds an injection into position 0 (left, PlusA) or 1
// (right, PlusB).
func NewSumInj(input Op, position int, t typesys.Type) *SumInj {
	return &SumInj{input: input, position: position, streamType: t}
}

func (s *SumInj) ID() uint64 {
	return structID("SumInj", s.input.ID(), uint64(s.position))
}
func (s *SumInj) Vars() map[uint64]struct{} { return s.input.Vars() }
func (s *SumInj) Type() typesys.Type        { return s.streamType }

func (s *SumInj) Pull() Pulled {
	if !s.tagEmitted {
		s.tagEmitted = true
		if s.position == 0 {
			return Emit(event.PlusA{})
		}
		return Emit(event.PlusB{})
	}
	return s.input.Pull()
}

func (s *SumInj) Reset() { s.tagEmitted = false }
