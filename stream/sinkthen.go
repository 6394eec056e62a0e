package stream

import "github.com/deltastream/delta/typesys"

// SinkThen drains s1 (discarding every event) until it is exhausted,
// then forwards s2 unchanged. Used by the builder's map/concat_map/
// zip_with macros to drop the already-consumed head of a Star before
// resetting the recursive body for the next element.
type SinkThen struct {
	inputs         [2]Op
	streamType     typesys.Type
	firstExhausted bool
}

func NewSinkThen(s1, s2 Op, t typesys.Type) *SinkThen {
	return &SinkThen{inputs: [2]Op{s1, s2}, streamType: t}
}

func (s *SinkThen) ID() uint64 {
	return structID("SinkThen", s.inputs[0].ID(), s.inputs[1].ID())
}

// Vars deliberately omits inputs[0]: spec.md §9's documented open
// question preserves original_source/stream_ops/sinkthen.py's behaviour
// of depending only on the second stream, on the theory that whoever
// built the first stream already ordered it and SinkThen merely drains
// it silently.
func (s *SinkThen) Vars() map[uint64]struct{} { return s.inputs[1].Vars() }
func (s *SinkThen) Type() typesys.Type        { return s.streamType }

func (s *SinkThen) Pull() Pulled {
	if !s.firstExhausted {
		p := s.inputs[0].Pull()
		if p.IsDone() {
			s.firstExhausted = true
			return Skip()
		}
		return Skip()
	}
	return s.inputs[1].Pull()
}

func (s *SinkThen) Reset() { s.firstExhausted = false }
