package stream

import (
	"github.com/deltastream/delta/event"
	"github.com/deltastream/delta/typesys"
)

// CatProjCoordinator holds the shared state two CatProj projections (the
// head and tail of a Cat) need to stay in sync as they pull from one
// underlying stream. It is never pulled directly.
type CatProjCoordinator struct {
	input         Op
	streamType    typesys.Type
	seenPunc      bool
	inputExhausted bool
}

func NewCatProjCoordinator(input Op, t typesys.Type) *CatProjCoordinator {
	return &CatProjCoordinator{input: input, streamType: t}
}

func (c *CatProjCoordinator) ID() uint64 {
	return structID("CatProjCoordinator", c.input.ID())
}
func (c *CatProjCoordinator) Vars() map[uint64]struct{} { return c.input.Vars() }
func (c *CatProjCoordinator) Type() typesys.Type        { return c.streamType }
func (c *CatProjCoordinator) Reset() {
	c.seenPunc = false
	c.inputExhausted = false
}

// Pull satisfies Op so the coordinator can be registered (and thus
// Reset) alongside the graph's other nodes; it is never pulled
// directly — callers pull through CatProj instead.
func (c *CatProjCoordinator) Pull() Pulled {
	panic("CatProjCoordinator: never pulled directly; pull through CatProj")
}

func (c *CatProjCoordinator) pullForPosition(position int) Pulled {
	if c.inputExhausted {
		return Done()
	}
	if position == 0 && c.seenPunc {
		return Done()
	}

	p := c.input.Pull()
	if p.IsDone() {
		c.inputExhausted = true
		return Done()
	}
	if p.IsSkip() {
		return Skip()
	}

	if position == 0 {
		switch ev := p.Event.(type) {
		case event.CatA:
			return Emit(ev.Event)
		case event.CatPunc:
			c.seenPunc = true
			return Done()
		default:
			return Skip()
		}
	}

	if !c.seenPunc {
		switch p.Event.(type) {
		case event.CatA:
			return Skip()
		case event.CatPunc:
			c.seenPunc = true
			return Skip()
		default:
			return Skip()
		}
	}
	return Emit(p.Event)
}

// CatProj projects one side (0 = head, 1 = tail) of a Cat stream out of
// its coordinator.
type CatProj struct {
	coord    *CatProjCoordinator
	position int
}

func NewCatProj(coord *CatProjCoordinator, position int) *CatProj {
	return &CatProj{coord: coord, position: position}
}

func (c *CatProj) ID() uint64 {
	return structID("CatProj", c.coord.ID(), uint64(c.position))
}
func (c *CatProj) Vars() map[uint64]struct{} { return varSet(c.ID()) }
func (c *CatProj) Type() typesys.Type {
	ct, ok := typesys.Resolve(c.coord.streamType).(typesys.Cat)
	if !ok {
		return c.coord.streamType
	}
	if c.position == 0 {
		return ct.Left
	}
	return ct.Right
}
func (c *CatProj) Pull() Pulled { return c.coord.pullForPosition(c.position) }
func (c *CatProj) Reset()       {}
