package stream

import (
	"github.com/deltastream/delta/event"
	"github.com/deltastream/delta/typesys"
)

type catRState int

const (
	catRFirst catRState = iota
	catRSecond
)

// CatR concatenates two streams: every event from the first, wrapped in
// CatA, a CatPunc once it is exhausted, then every event from the second
// unwrapped.
type CatR struct {
	inputs     [2]Op
	state      catRState
	streamType typesys.Type
}

func NewCatR(s1, s2 Op, t typesys.Type) *CatR {
	return &CatR{inputs: [2]Op{s1, s2}, streamType: t}
}

func (c *CatR) ID() uint64 {
	return structID("CatR", c.inputs[0].ID(), c.inputs[1].ID())
}
func (c *CatR) Vars() map[uint64]struct{} {
	return unionVars(c.inputs[0].Vars(), c.inputs[1].Vars())
}
func (c *CatR) Type() typesys.Type { return c.streamType }

func (c *CatR) Pull() Pulled {
	if c.state == catRFirst {
		p := c.inputs[0].Pull()
		switch p.Signal {
		case SigDone:
			c.state = catRSecond
			return Emit(event.CatPunc{})
		case SigSkip:
			return Skip()
		default:
			return Emit(event.CatA{Event: p.Event})
		}
	}
	return c.inputs[1].Pull()
}

func (c *CatR) Reset() {
	c.state = catRFirst
}
