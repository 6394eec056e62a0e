package stream

import (
	"github.com/deltastream/delta/errs"
	"github.com/deltastream/delta/event"
	"github.com/deltastream/delta/typesys"
)

// CondOp branches between two streams based on a single boolean event read
// off a condition stream, reading the condition lazily the first time it is
// pulled. The condition is itself a StreamOp (typically an EmitOp wrapping
// a BufferOp expression) rather than a BufferOp directly, mirroring
// original_source/stream_ops/condop.py's cond_stream field.
type CondOp struct {
	cond         Op
	branches     [2]Op
	streamType   typesys.Type
	activeBranch int
}

func NewCondOp(cond Op, ifTrue, ifFalse Op, t typesys.Type) *CondOp {
	return &CondOp{cond: cond, branches: [2]Op{ifTrue, ifFalse}, streamType: t, activeBranch: -1}
}

func (c *CondOp) ID() uint64 {
	return structID("CondOp", c.cond.ID(), c.branches[0].ID(), c.branches[1].ID())
}
func (c *CondOp) Vars() map[uint64]struct{} {
	return unionVars(c.cond.Vars(), c.branches[0].Vars(), c.branches[1].Vars())
}
func (c *CondOp) Type() typesys.Type { return c.streamType }

func (c *CondOp) Pull() Pulled {
	if c.activeBranch == -1 {
		p := c.cond.Pull()
		switch p.Signal {
		case SigSkip:
			return Skip()
		case SigDone:
			return Done()
		default:
			base, ok := p.Event.(event.Base)
			b, isBool := base.Value.(bool)
			if !ok || !isBool {
				panic(errs.RuntimeTag("boolean Base event", p.Event.String()))
			}
			if b {
				c.activeBranch = 0
			} else {
				c.activeBranch = 1
			}
			return Skip()
		}
	}
	return c.branches[c.activeBranch].Pull()
}

func (c *CondOp) Reset() {
	c.activeBranch = -1
	c.cond.Reset()
}
