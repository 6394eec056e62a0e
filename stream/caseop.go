package stream

import (
	"github.com/deltastream/delta/errs"
	"github.com/deltastream/delta/event"
	"github.com/deltastream/delta/typesys"
)

// CaseOp reads one tag event (PlusA/PlusB) off its input and routes every
// following pull to the matching branch.
type CaseOp struct {
	input        Op
	branches     [2]Op
	streamType   typesys.Type
	tagRead      bool
	activeBranch int
}

func NewCaseOp(input Op, left, right Op, t typesys.Type) *CaseOp {
	return &CaseOp{input: input, branches: [2]Op{left, right}, streamType: t, activeBranch: -1}
}

func (c *CaseOp) ID() uint64 {
	return structID("CaseOp", c.input.ID(), c.branches[0].ID(), c.branches[1].ID())
}
func (c *CaseOp) Vars() map[uint64]struct{} {
	return unionVars(c.input.Vars(), c.branches[0].Vars(), c.branches[1].Vars())
}
func (c *CaseOp) Type() typesys.Type { return c.streamType }

func (c *CaseOp) Pull() Pulled {
	if !c.tagRead {
		p := c.input.Pull()
		if p.IsSkip() {
			return Skip()
		}
		if p.IsDone() {
			return Done()
		}
		c.tagRead = true
		switch p.Event.(type) {
		case event.PlusA:
			c.activeBranch = 0
		case event.PlusB:
			c.activeBranch = 1
		default:
			panic(errs.RuntimeTag("PlusA or PlusB", p.Event.String()))
		}
		return Skip()
	}
	if c.activeBranch == -1 {
		panic(errs.RuntimeTag("a read tag", "none"))
	}
	return c.branches[c.activeBranch].Pull()
}

func (c *CaseOp) Reset() {
	c.tagRead = false
	c.activeBranch = -1
}
