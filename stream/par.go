package stream

import (
	"github.com/deltastream/delta/errs"
	"github.com/deltastream/delta/event"
	"github.com/deltastream/delta/typesys"
)

// ParR interleaves two streams with no mutual ordering: every event from
// either side, tagged ParA or ParB, in whatever order the two sides
// happen to produce them. Reinstated per spec.md §9's open question
// ("the Par/parl/parr combinators exist but are not integrated into the
// compiler... part of the reference interpreter and type system only") —
// ParR is pulled directly by the reference interpreter (this package)
// and never visited by a compiler backend.
type ParR struct {
	inputs           [2]Op
	streamType       typesys.Type
	exhausted        [2]bool
	next             int
}

func NewParR(s1, s2 Op, t typesys.Type) *ParR {
	return &ParR{inputs: [2]Op{s1, s2}, streamType: t}
}

func (p *ParR) ID() uint64 {
	return structID("ParR", p.inputs[0].ID(), p.inputs[1].ID())
}
func (p *ParR) Vars() map[uint64]struct{} {
	return unionVars(p.inputs[0].Vars(), p.inputs[1].Vars())
}
func (p *ParR) Type() typesys.Type { return p.streamType }

// Pull alternates which side it tries first, so a side that never
// produces can't starve the other.
func (p *ParR) Pull() Pulled {
	if p.exhausted[0] && p.exhausted[1] {
		return Done()
	}
	order := [2]int{p.next, 1 - p.next}
	p.next = 1 - p.next
	for _, side := range order {
		if p.exhausted[side] {
			continue
		}
		pulled := p.inputs[side].Pull()
		switch pulled.Signal {
		case SigDone:
			p.exhausted[side] = true
		case SigSkip:
			return Skip()
		default:
			if side == 0 {
				return Emit(event.ParA{Event: pulled.Event})
			}
			return Emit(event.ParB{Event: pulled.Event})
		}
	}
	if p.exhausted[0] && p.exhausted[1] {
		return Done()
	}
	return Skip()
}

func (p *ParR) Reset() {
	p.exhausted = [2]bool{}
	p.next = 0
}

// ParProjCoordinator holds the shared state two ParProj peers need to
// demultiplex one interleaved Par stream back into its two sides: events
// belonging to the side not currently being asked for are queued until
// that projection is pulled, mirroring CatProjCoordinator's shared
// ownership but without Cat's head/tail ordering (spec.md §5's sharing
// note).
type ParProjCoordinator struct {
	input      Op
	streamType typesys.Type
	queues     [2][]event.Event
	exhausted  bool
}

func NewParProjCoordinator(input Op, t typesys.Type) *ParProjCoordinator {
	return &ParProjCoordinator{input: input, streamType: t}
}

func (c *ParProjCoordinator) ID() uint64 {
	return structID("ParProjCoordinator", c.input.ID())
}
func (c *ParProjCoordinator) Vars() map[uint64]struct{} { return c.input.Vars() }
func (c *ParProjCoordinator) Type() typesys.Type        { return c.streamType }

func (c *ParProjCoordinator) Reset() {
	c.queues = [2][]event.Event{}
	c.exhausted = false
}

// Pull satisfies Op so the coordinator can be registered (and thus
// Reset) alongside the graph's other nodes; it is never pulled
// directly — callers pull through ParProj instead.
func (c *ParProjCoordinator) Pull() Pulled {
	panic("ParProjCoordinator: never pulled directly; pull through ParProj")
}

func (c *ParProjCoordinator) pullForSide(side int) Pulled {
	if len(c.queues[side]) > 0 {
		e := c.queues[side][0]
		c.queues[side] = c.queues[side][1:]
		return Emit(e)
	}
	if c.exhausted {
		return Done()
	}
	p := c.input.Pull()
	if p.IsDone() {
		c.exhausted = true
		return Done()
	}
	if p.IsSkip() {
		return Skip()
	}
	switch ev := p.Event.(type) {
	case event.ParA:
		if side == 0 {
			return Emit(ev.Event)
		}
		c.queues[0] = append(c.queues[0], ev.Event)
		return Skip()
	case event.ParB:
		if side == 1 {
			return Emit(ev.Event)
		}
		c.queues[1] = append(c.queues[1], ev.Event)
		return Skip()
	default:
		panic(errs.RuntimeTag("ParA or ParB", p.Event.String()))
	}
}

// ParProj projects one side (0 = left, 1 = right) of a Par stream out of
// its coordinator.
type ParProj struct {
	coord *ParProjCoordinator
	side  int
}

func NewParProj(coord *ParProjCoordinator, side int) *ParProj {
	return &ParProj{coord: coord, side: side}
}

func (p *ParProj) ID() uint64 {
	return structID("ParProj", p.coord.ID(), uint64(p.side))
}
func (p *ParProj) Vars() map[uint64]struct{} { return varSet(p.ID()) }
func (p *ParProj) Type() typesys.Type {
	pt, ok := typesys.Resolve(p.coord.streamType).(typesys.Par)
	if !ok {
		return p.coord.streamType
	}
	if p.side == 0 {
		return pt.Left
	}
	return pt.Right
}
func (p *ParProj) Pull() Pulled { return p.coord.pullForSide(p.side) }
func (p *ParProj) Reset()       {}
