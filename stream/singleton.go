package stream

import (
	"github.com/deltastream/delta/event"
	"github.com/deltastream/delta/typesys"
)

// SingletonOp emits one fixed value, then is exhausted.
type SingletonOp struct {
	Value      interface{}
	streamType typesys.Type
	exhausted  bool
}

func NewSingletonOp(value interface{}, t typesys.Type) *SingletonOp {
	return &SingletonOp{Value: value, streamType: t}
}

func (s *SingletonOp) ID() uint64 {
	return structID("SingletonOp", hashString(s.streamType.String()))
}
func (s *SingletonOp) Vars() map[uint64]struct{} { return map[uint64]struct{}{} }
func (s *SingletonOp) Type() typesys.Type        { return s.streamType }

func (s *SingletonOp) Pull() Pulled {
	if s.exhausted {
		return Done()
	}
	s.exhausted = true
	return Emit(event.Base{Value: s.Value})
}

func (s *SingletonOp) Reset() { s.exhausted = false }
