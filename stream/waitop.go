package stream

import (
	"github.com/deltastream/delta/buffer"
	"github.com/deltastream/delta/typesys"
)

// WaitOp materialises a full value off its input stream into a typed
// buffer, emitting nothing itself; a BufferOp reads the buffered value
// once WaitOp reports Done (spec.md §3.3, §4.3).
type WaitOp struct {
	input      Op
	streamType typesys.Type
	buffer     buffer.Buffer
}

// NewWaitOp wraps input, buffering a complete value of its stream type.
func NewWaitOp(input Op) *WaitOp {
	t := input.Type()
	return &WaitOp{input: input, streamType: t, buffer: buffer.Make(t)}
}

func (w *WaitOp) ID() uint64 {
	return structID("WaitOp", w.input.ID(), hashString(w.streamType.String()))
}
func (w *WaitOp) Vars() map[uint64]struct{} { return w.input.Vars() }
func (w *WaitOp) Type() typesys.Type        { return w.streamType }

func (w *WaitOp) Pull() Pulled {
	if w.buffer.Complete() {
		return Done()
	}
	p := w.input.Pull()
	switch p.Signal {
	case SigDone:
		return Done()
	case SigSkip:
		return Skip()
	default:
		w.buffer.Poke(p.Event)
		return Skip()
	}
}

func (w *WaitOp) Reset() {
	w.buffer = buffer.Make(w.streamType)
}
