package stream_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deltastream/delta/event"
	"github.com/deltastream/delta/stream"
	"github.com/deltastream/delta/typesys"
)

func intType() typesys.Type { return typesys.Singleton{Kind: typesys.IntKind} }

// sliceSource replays a fixed list of events, then Done forever.
type sliceSource struct {
	events []event.Event
	i      int
}

func (s *sliceSource) Pull() stream.Pulled {
	if s.i >= len(s.events) {
		return stream.Done()
	}
	e := s.events[s.i]
	s.i++
	return stream.Emit(e)
}

// drain pulls op until Done, discarding skips — the loop every compiled
// iterator wraps around a node's Pull (spec.md §4.3).
func drain(t *testing.T, op stream.Op) []event.Event {
	t.Helper()
	var out []event.Event
	for i := 0; i < 10000; i++ {
		p := op.Pull()
		switch p.Signal {
		case stream.SigDone:
			return out
		case stream.SigSkip:
			continue
		default:
			out = append(out, p.Event)
		}
	}
	t.Fatal("drain: too many pulls without Done")
	return nil
}

// Spec scenario 1: passthrough(x: Singleton(str)) on [BE("x")] => [BE("x")].
func TestVarPassthrough(t *testing.T) {
	strType := typesys.Singleton{Kind: typesys.StrKind}
	v := stream.NewVar("x", strType)
	v.Source = &sliceSource{events: []event.Event{event.Base{Value: "x"}}}

	got := drain(t, v)
	assert.Equal(t, []event.Event{event.Base{Value: "x"}}, got)
}

func TestUnboundVarPanics(t *testing.T) {
	v := stream.NewVar("x", intType())
	assert.Panics(t, func() { v.Pull() })
}

func TestSingletonEmitsOnceThenDone(t *testing.T) {
	s := stream.NewSingletonOp("asdf", typesys.Singleton{Kind: typesys.StrKind})
	assert.Equal(t, stream.Emit(event.Base{Value: "asdf"}), s.Pull())
	assert.Equal(t, stream.Done(), s.Pull())
	assert.Equal(t, stream.Done(), s.Pull())

	s.Reset()
	assert.Equal(t, stream.Emit(event.Base{Value: "asdf"}), s.Pull())
}

func TestEpsAlwaysDone(t *testing.T) {
	e := stream.NewEps(typesys.Eps{})
	assert.Equal(t, stream.Done(), e.Pull())
	assert.Equal(t, stream.Done(), e.Pull())
}

// Spec scenario 2: catr(x,y) on [BE("x")],[BE("y")] => [[BE("x")], |, BE("y")].
func TestCatRConcatenates(t *testing.T) {
	x := stream.NewVar("x", typesys.Singleton{Kind: typesys.StrKind})
	x.Source = &sliceSource{events: []event.Event{event.Base{Value: "x"}}}
	y := stream.NewVar("y", typesys.Singleton{Kind: typesys.StrKind})
	y.Source = &sliceSource{events: []event.Event{event.Base{Value: "y"}}}

	c := stream.NewCatR(x, y, typesys.Cat{Left: x.Type(), Right: y.Type()})

	got := drain(t, c)
	want := []event.Event{
		event.CatA{Event: event.Base{Value: "x"}},
		event.CatPunc{},
		event.Base{Value: "y"},
	}
	assert.Equal(t, want, got)
}

func TestCatRResetReplays(t *testing.T) {
	x := stream.NewVar("x", intType())
	y := stream.NewVar("y", intType())
	c := stream.NewCatR(x, y, typesys.Cat{Left: x.Type(), Right: y.Type()})

	x.Source = &sliceSource{events: []event.Event{event.Base{Value: 1}}}
	y.Source = &sliceSource{events: []event.Event{event.Base{Value: 2}}}
	first := drain(t, c)

	c.Reset()
	x.Source = &sliceSource{events: []event.Event{event.Base{Value: 1}}}
	y.Source = &sliceSource{events: []event.Event{event.Base{Value: 2}}}
	second := drain(t, c)

	assert.Equal(t, first, second)
}

// Spec scenario 3: inl(x) on [BE("asdf")] => [a, BE("asdf")].
func TestSumInjTagsThenForwards(t *testing.T) {
	strType := typesys.Singleton{Kind: typesys.StrKind}
	x := stream.NewVar("x", strType)
	x.Source = &sliceSource{events: []event.Event{event.Base{Value: "asdf"}}}

	inl := stream.NewSumInj(x, 0, typesys.Plus{Left: strType, Right: strType})
	got := drain(t, inl)
	assert.Equal(t, []event.Event{event.PlusA{}, event.Base{Value: "asdf"}}, got)
}

func TestSumInjRightPosition(t *testing.T) {
	strType := typesys.Singleton{Kind: typesys.StrKind}
	x := stream.NewVar("x", strType)
	x.Source = &sliceSource{events: []event.Event{event.Base{Value: "asdf"}}}

	inr := stream.NewSumInj(x, 1, typesys.Plus{Left: strType, Right: strType})
	got := drain(t, inr)
	assert.Equal(t, []event.Event{event.PlusB{}, event.Base{Value: "asdf"}}, got)
}

// CatProj splits a Cat back into its head and tail, and the two
// projections must agree on where the punctuation boundary falls.
func TestCatProjSplitsHeadAndTail(t *testing.T) {
	x := stream.NewVar("x", typesys.Singleton{Kind: typesys.IntKind})
	y := stream.NewVar("y", typesys.Singleton{Kind: typesys.IntKind})
	x.Source = &sliceSource{events: []event.Event{event.Base{Value: 1}}}
	y.Source = &sliceSource{events: []event.Event{event.Base{Value: 2}}}
	catType := typesys.Cat{Left: x.Type(), Right: y.Type()}
	cat := stream.NewCatR(x, y, catType)

	coord := stream.NewCatProjCoordinator(cat, catType)
	head := stream.NewCatProj(coord, 0)
	tail := stream.NewCatProj(coord, 1)

	// Drive head to exhaustion first, then tail — the only order the
	// single shared coordinator supports (spec.md §5's sharing note).
	gotHead := drain(t, head)
	gotTail := drain(t, tail)

	assert.Equal(t, []event.Event{event.Base{Value: 1}}, gotHead)
	assert.Equal(t, []event.Event{event.Base{Value: 2}}, gotTail)
}

// CaseOp routes to the branch matching the leading tag and panics on
// anything else (spec.md §4.3, a fatal RuntimeTagError).
func TestCaseOpRoutesOnTag(t *testing.T) {
	strType := typesys.Singleton{Kind: typesys.StrKind}
	x := stream.NewVar("x", typesys.Plus{Left: strType, Right: strType})
	x.Source = &sliceSource{events: []event.Event{event.PlusA{}, event.Base{Value: "left"}}}

	left := stream.NewUnsafeCast(x, strType)
	right := stream.NewUnsafeCast(x, strType)
	c := stream.NewCaseOp(x, left, right, strType)

	got := drain(t, c)
	assert.Equal(t, []event.Event{event.Base{Value: "left"}}, got)
}

func TestCaseOpPanicsOnUnexpectedTag(t *testing.T) {
	strType := typesys.Singleton{Kind: typesys.StrKind}
	x := stream.NewVar("x", strType)
	x.Source = &sliceSource{events: []event.Event{event.Base{Value: "not-a-tag"}}}

	c := stream.NewCaseOp(x, stream.NewEps(strType), stream.NewEps(strType), strType)
	assert.Panics(t, func() { c.Pull() })
}

// CondOp reads a single boolean from its condition stream, then commits.
func TestCondOpRoutesOnBoolean(t *testing.T) {
	boolType := typesys.Singleton{Kind: typesys.BoolKind}
	intT := intType()
	cond := stream.NewVar("cond", boolType)
	cond.Source = &sliceSource{events: []event.Event{event.Base{Value: true}}}

	ifTrue := stream.NewSingletonOp(1, intT)
	ifFalse := stream.NewSingletonOp(2, intT)
	c := stream.NewCondOp(cond, ifTrue, ifFalse, intT)

	got := drain(t, c)
	assert.Equal(t, []event.Event{event.Base{Value: 1}}, got)
}

func TestCondOpPanicsOnNonBoolean(t *testing.T) {
	intT := intType()
	cond := stream.NewVar("cond", intT)
	cond.Source = &sliceSource{events: []event.Event{event.Base{Value: 1}}}

	c := stream.NewCondOp(cond, stream.NewEps(intT), stream.NewEps(intT), intT)
	assert.Panics(t, func() { c.Pull() })
}

// SinkThen drains its first stream silently, then forwards the second.
func TestSinkThenDrainsFirstThenForwardsSecond(t *testing.T) {
	strType := typesys.Singleton{Kind: typesys.StrKind}
	first := stream.NewSingletonOp("dropped", strType)
	second := stream.NewSingletonOp("kept", strType)

	s := stream.NewSinkThen(first, second, strType)
	got := drain(t, s)
	assert.Equal(t, []event.Event{event.Base{Value: "kept"}}, got)
}

// SinkThen.Vars deliberately omits the first stream's vars (spec.md §9's
// documented open question, preserved as-is).
func TestSinkThenVarsOmitsFirstStream(t *testing.T) {
	strType := typesys.Singleton{Kind: typesys.StrKind}
	first := stream.NewVar("dropped", strType)
	second := stream.NewVar("kept", strType)

	s := stream.NewSinkThen(first, second, strType)
	vars := s.Vars()
	_, hasSecond := vars[second.ID()]
	_, hasFirst := vars[first.ID()]
	assert.True(t, hasSecond)
	assert.False(t, hasFirst)
}

// ResetOp resets every node in its captured set on each pull and always
// yields a skip itself.
func TestResetOpResetsCapturedNodesAndSkips(t *testing.T) {
	strType := typesys.Singleton{Kind: typesys.StrKind}
	s := stream.NewSingletonOp("v", strType)
	_ = drain(t, s) // exhaust it
	require.Equal(t, stream.Done(), s.Pull())

	r := stream.NewResetOp(strType)
	r.SetResetSet([]stream.Op{s})

	assert.Equal(t, stream.Skip(), r.Pull())
	// s should be fresh again after the ResetOp's pull reset it.
	assert.Equal(t, stream.Emit(event.Base{Value: "v"}), s.Pull())
}

// UnsafeCast forwards events unchanged under a different declared type.
func TestUnsafeCastForwardsUnchanged(t *testing.T) {
	strType := typesys.Singleton{Kind: typesys.StrKind}
	s := stream.NewSingletonOp("v", strType)
	u := stream.NewUnsafeCast(s, typesys.Singleton{Kind: typesys.IntKind})

	assert.Equal(t, stream.Emit(event.Base{Value: "v"}), u.Pull())
	assert.Equal(t, typesys.Singleton{Kind: typesys.IntKind}, u.Type())
}

// Structural identity: two separately constructed Var nodes with the same
// name must hash equal (spec.md §4.3's "Var's id is hash(Var, name)").
func TestVarStructuralIDIsNameDerived(t *testing.T) {
	a := stream.NewVar("x", intType())
	b := stream.NewVar("x", intType())
	c := stream.NewVar("y", intType())
	assert.Equal(t, a.ID(), b.ID())
	assert.NotEqual(t, a.ID(), c.ID())
}

// Eps gets a fresh identity per instance, since it carries no structure
// to hash over (spec.md §4.3).
func TestEpsStructuralIDIsFreshPerInstance(t *testing.T) {
	a := stream.NewEps(typesys.Eps{})
	b := stream.NewEps(typesys.Eps{})
	assert.NotEqual(t, a.ID(), b.ID())
}

// CatR's structural id depends only on its children's ids, so two
// separately built CatRs over identical children hash equal.
func TestCatRStructuralIDIsChildDerived(t *testing.T) {
	x1 := stream.NewVar("x", intType())
	y1 := stream.NewVar("y", intType())
	c1 := stream.NewCatR(x1, y1, typesys.Cat{Left: intType(), Right: intType()})

	x2 := stream.NewVar("x", intType())
	y2 := stream.NewVar("y", intType())
	c2 := stream.NewCatR(x2, y2, typesys.Cat{Left: intType(), Right: intType()})

	assert.Equal(t, c1.ID(), c2.ID())
}
