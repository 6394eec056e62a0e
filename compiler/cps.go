package compiler

import (
	"go.uber.org/zap"

	"github.com/deltastream/delta/event"
	"github.com/deltastream/delta/stream"
)

// cpsIterator is backend B: instead of a flat discard-skip loop, each step
// is expressed as a call parameterised by three continuations — done,
// skip, yield — composed recursively, the shape keep94-gofunctional2 gives
// its Filter/Map stream combinators (a skip recurses into the next
// continuation rather than looping imperatively). The generated-AST
// version this was distilled from additionally special-cases WaitOp and
// EmitOp as no-ops; since a Go stream.Op's Pull already is its compiled
// behaviour rather than source this backend lowers further, that
// distinction has no separate leg here — see DESIGN.md.
type cpsIterator struct {
	output stream.Op
	nodes  []stream.Op
	log    *zap.Logger
}

func newCPSIterator(output stream.Op, nodes []stream.Op, cfg *config) (*cpsIterator, error) {
	return &cpsIterator{output: output, nodes: nodes, log: cfg.log}, nil
}

// pullCPS dispatches one Pull of op to exactly one of the three
// continuations, the CPS transform of the interpreter's _pull.
func pullCPS(
	op stream.Op,
	doneCont func() (event.Event, bool, error),
	skipCont func() (event.Event, bool, error),
	yieldCont func(event.Event) (event.Event, bool, error),
) (event.Event, bool, error) {
	p := op.Pull()
	switch p.Signal {
	case stream.SigDone:
		return doneCont()
	case stream.SigSkip:
		return skipCont()
	default:
		return yieldCont(p.Event)
	}
}

func (c *cpsIterator) Next() (event.Event, bool, error) {
	var step func() (event.Event, bool, error)
	doneCont := func() (event.Event, bool, error) { return nil, false, nil }
	yieldCont := func(e event.Event) (event.Event, bool, error) { return e, true, nil }
	step = func() (event.Event, bool, error) {
		return pullCPS(c.output, doneCont, step, yieldCont)
	}
	return step()
}

func (c *cpsIterator) Reset() {
	for _, n := range c.nodes {
		n.Reset()
	}
}
