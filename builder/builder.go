// Package builder is the tracing front-end's public surface: the
// constructors, ordering primitives, and derived macros spec.md §6 calls
// the "Builder API". A Builder owns one RealizedOrdering and the set of
// nodes traced into it so far, mirroring original_source/delta.py's
// Delta class — the tracing JIT decorator itself (spec.md §1's "tracing
// surface") is an external collaborator and stays out of this module.
package builder

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/deltastream/delta/errs"
	"github.com/deltastream/delta/order"
	"github.com/deltastream/delta/stream"
	"github.com/deltastream/delta/typesys"
)

// Builder traces StreamOp constructors into a graph, maintaining the
// RealizedOrdering every catr/catl/parr/parl/case/cond call updates.
type Builder struct {
	Ordering *order.RealizedOrdering
	nodes    map[stream.Op]struct{}
	log      *zap.Logger
}

// Option configures a Builder at construction time.
type Option func(*Builder)

// WithLogger installs a structured logger; the default is zap.NewNop().
func WithLogger(l *zap.Logger) Option {
	return func(b *Builder) { b.log = l }
}

// New returns an empty Builder.
func New(opts ...Option) *Builder {
	b := &Builder{
		Ordering: order.NewRealizedOrdering(),
		nodes:    make(map[stream.Op]struct{}),
		log:      zap.NewNop(),
	}
	for _, o := range opts {
		o(b)
	}
	return b
}

// Nodes returns every node traced so far, in no particular order. Used
// by graph.DataflowGraph to reset the whole traced graph between runs.
func (b *Builder) Nodes() []stream.Op {
	out := make([]stream.Op, 0, len(b.nodes))
	for n := range b.nodes {
		out = append(out, n)
	}
	return out
}

func (b *Builder) register(n stream.Op) stream.Op {
	b.Ordering.Name(n.ID(), fmt.Sprintf("%T", n))
	b.nodes[n] = struct{}{}
	return n
}

func keysOf(m map[uint64]struct{}) []uint64 {
	out := make([]uint64, 0, len(m))
	for id := range m {
		out = append(out, id)
	}
	return out
}

// FreshTypeVar allocates a fresh unification variable at level 0; the
// builder doesn't generalise (spec.md §1's Non-goals), so every type
// variable it mints lives at the same level.
func (b *Builder) FreshTypeVar() *typesys.TypeVar {
	return typesys.NewTypeVar(0)
}

// Var declares a symbolic input stream. A nil t mints a fresh TypeVar,
// to be pinned down by later unification (e.g. inside CatR/Cond).
func (b *Builder) Var(name string, t typesys.Type) *stream.Var {
	if t == nil {
		t = b.FreshTypeVar()
	}
	v := stream.NewVar(name, t)
	b.register(v)
	return v
}

// Eps constructs an empty stream.
func (b *Builder) Eps() *stream.Eps {
	e := stream.NewEps(typesys.Eps{})
	b.register(e)
	return e
}

// Singleton constructs a stream that emits one fixed value of kind k.
func (b *Builder) Singleton(value interface{}, k typesys.Kind) *stream.SingletonOp {
	s := stream.NewSingletonOp(value, typesys.Singleton{Kind: k})
	b.register(s)
	return s
}

// CatR concatenates s1 then s2, requiring every variable s1 reads from
// to come before every variable s2 reads from (spec.md §4.2).
func (b *Builder) CatR(s1, s2 stream.Op) (*stream.CatR, error) {
	s1Vars, s2Vars := keysOf(s1.Vars()), keysOf(s2.Vars())
	for _, v := range s1Vars {
		if _, overlap := s2.Vars()[v]; overlap {
			return nil, errs.IllegalOverlap("CatR")
		}
	}
	if err := b.Ordering.AddAllOrdered(s1Vars, s2Vars); err != nil {
		return nil, err
	}
	s := stream.NewCatR(s1, s2, typesys.Cat{Left: s1.Type(), Right: s2.Type()})
	b.register(s)
	return s, nil
}

// CatL splits s (typed as a Cat) into its head and tail projections. The
// head is required to be consumed before the tail, and both inherit
// whatever ordering s.Vars() already carries (spec.md §4.2).
func (b *Builder) CatL(s stream.Op) (head, tail *stream.CatProj, err error) {
	left, right := b.FreshTypeVar(), b.FreshTypeVar()
	if err := typesys.Unify(s.Type(), typesys.Cat{Left: left, Right: right}); err != nil {
		return nil, nil, err
	}

	coord := stream.NewCatProjCoordinator(s, s.Type())
	b.register(coord)
	x := stream.NewCatProj(coord, 0)
	y := stream.NewCatProj(coord, 1)

	if err := b.Ordering.AddOrdered(x.ID(), y.ID()); err != nil {
		return nil, nil, err
	}
	sVars := keysOf(s.Vars())
	if err := b.Ordering.AddInPlaceOf(x.ID(), sVars); err != nil {
		return nil, nil, err
	}
	if err := b.Ordering.AddInPlaceOf(y.ID(), sVars); err != nil {
		return nil, nil, err
	}

	b.register(x)
	b.register(y)
	return x, y, nil
}

// ParR interleaves s1 and s2 with no mutual ordering (spec.md §4.2,
// §9's reinstated Par support).
func (b *Builder) ParR(s1, s2 stream.Op) (*stream.ParR, error) {
	if err := b.Ordering.AddAllUnordered(keysOf(s1.Vars()), keysOf(s2.Vars())); err != nil {
		return nil, err
	}
	p := stream.NewParR(s1, s2, typesys.Par{Left: s1.Type(), Right: s2.Type()})
	b.register(p)
	return p, nil
}

// ParL splits s (typed as a Par) into its two interleaved projections,
// mutually unordered and each placed where s.Vars() already sits.
func (b *Builder) ParL(s stream.Op) (left, right *stream.ParProj, err error) {
	leftTy, rightTy := b.FreshTypeVar(), b.FreshTypeVar()
	if err := typesys.Unify(s.Type(), typesys.Par{Left: leftTy, Right: rightTy}); err != nil {
		return nil, nil, err
	}

	coord := stream.NewParProjCoordinator(s, s.Type())
	b.register(coord)
	x := stream.NewParProj(coord, 0)
	y := stream.NewParProj(coord, 1)

	if err := b.Ordering.AddUnordered(x.ID(), y.ID()); err != nil {
		return nil, nil, err
	}
	sVars := keysOf(s.Vars())
	if err := b.Ordering.AddInPlaceOf(x.ID(), sVars); err != nil {
		return nil, nil, err
	}
	if err := b.Ordering.AddInPlaceOf(y.ID(), sVars); err != nil {
		return nil, nil, err
	}

	b.register(x)
	b.register(y)
	return x, y, nil
}

// Inl injects s into the left side of a fresh Plus type.
func (b *Builder) Inl(s stream.Op) (*stream.SumInj, error) {
	z := stream.NewSumInj(s, 0, typesys.Plus{Left: s.Type(), Right: b.FreshTypeVar()})
	if err := b.Ordering.AddInPlaceOf(z.ID(), keysOf(s.Vars())); err != nil {
		return nil, err
	}
	b.register(z)
	return z, nil
}

// Inr injects s into the right side of a fresh Plus type.
func (b *Builder) Inr(s stream.Op) (*stream.SumInj, error) {
	z := stream.NewSumInj(s, 1, typesys.Plus{Left: b.FreshTypeVar(), Right: s.Type()})
	if err := b.Ordering.AddInPlaceOf(z.ID(), keysOf(s.Vars())); err != nil {
		return nil, err
	}
	b.register(z)
	return z, nil
}

// Nil constructs the nil case of a Star(elementType): an Eps injected
// left into Plus(Eps, Cat(elementType, Star(elementType))).
func (b *Builder) Nil(elementType typesys.Type) (*stream.SumInj, error) {
	if elementType == nil {
		elementType = b.FreshTypeVar()
	}
	eps := b.Eps()
	starTy := typesys.Star{Elem: elementType}
	z := stream.NewSumInj(eps, 0, starTy)
	b.register(z)
	return z, nil
}

// Cons builds the cons case of a Star: head followed by tail, injected
// right into the Star's Plus encoding.
func (b *Builder) Cons(head, tail stream.Op) (*stream.SumInj, error) {
	elementType := b.FreshTypeVar()
	starType := typesys.Star{Elem: elementType}
	if err := typesys.Unify(head.Type(), elementType); err != nil {
		return nil, err
	}
	if err := typesys.Unify(tail.Type(), starType); err != nil {
		return nil, err
	}
	catred, err := b.CatR(head, tail)
	if err != nil {
		return nil, err
	}
	z := stream.NewSumInj(catred, 1, starType)
	b.register(z)
	return z, nil
}

// Case performs case analysis on a Plus-typed stream x, routing to
// leftFn or rightFn depending on which side's tag arrives.
func (b *Builder) Case(x stream.Op, leftFn, rightFn func(stream.Op) (stream.Op, error)) (*stream.CaseOp, error) {
	leftTy, rightTy := b.FreshTypeVar(), b.FreshTypeVar()
	if err := typesys.Unify(x.Type(), typesys.Plus{Left: leftTy, Right: rightTy}); err != nil {
		return nil, err
	}

	xLeft := stream.NewUnsafeCast(x, leftTy)
	xRight := stream.NewUnsafeCast(x, rightTy)
	b.register(xLeft)
	b.register(xRight)
	if err := b.Ordering.AddInPlaceOf(xLeft.ID(), keysOf(x.Vars())); err != nil {
		return nil, err
	}
	if err := b.Ordering.AddInPlaceOf(xRight.ID(), keysOf(x.Vars())); err != nil {
		return nil, err
	}

	leftOutput, err := leftFn(xLeft)
	if err != nil {
		return nil, err
	}
	rightOutput, err := rightFn(xRight)
	if err != nil {
		return nil, err
	}
	b.register(leftOutput)
	b.register(rightOutput)

	b.Ordering.Forbidden.AddEdge(leftOutput.ID(), x.ID())
	b.Ordering.Forbidden.AddEdge(rightOutput.ID(), x.ID())
	if err := b.Ordering.CheckConsistency(); err != nil {
		return nil, err
	}

	if err := typesys.Unify(leftOutput.Type(), rightOutput.Type()); err != nil {
		return nil, err
	}

	z := stream.NewCaseOp(x, leftOutput, rightOutput, leftOutput.Type())
	b.register(z)
	return z, nil
}

// StarCase performs case analysis on a Star-typed stream, routing nil to
// nilFn and a head/tail cons to consFn.
func (b *Builder) StarCase(x stream.Op, nilFn func(stream.Op) (stream.Op, error), consFn func(head, tail stream.Op) (stream.Op, error)) (*stream.CaseOp, error) {
	elementType := b.FreshTypeVar()
	starType := typesys.Star{Elem: elementType}
	if err := typesys.Unify(x.Type(), starType); err != nil {
		return nil, err
	}

	xNil := stream.NewUnsafeCast(x, typesys.Eps{})
	xCons := stream.NewUnsafeCast(x, typesys.Cat{Left: elementType, Right: starType})
	b.register(xNil)
	b.register(xCons)

	head, tail, err := b.CatL(xCons)
	if err != nil {
		return nil, err
	}

	nilOutput, err := nilFn(xNil)
	if err != nil {
		return nil, err
	}
	consOutput, err := consFn(head, tail)
	if err != nil {
		return nil, err
	}
	b.register(nilOutput)
	b.register(consOutput)

	if err := typesys.Unify(nilOutput.Type(), consOutput.Type()); err != nil {
		return nil, err
	}

	z := stream.NewCaseOp(x, nilOutput, consOutput, nilOutput.Type())
	b.register(z)
	return z, nil
}

// Cond branches on a boolean event stream cond between ifTrue and ifFalse.
func (b *Builder) Cond(cond, ifTrue, ifFalse stream.Op) (*stream.CondOp, error) {
	if err := typesys.Unify(cond.Type(), typesys.Singleton{Kind: typesys.BoolKind}); err != nil {
		return nil, err
	}
	if err := typesys.Unify(ifTrue.Type(), ifFalse.Type()); err != nil {
		return nil, err
	}
	b.Ordering.Forbidden.AddEdge(ifTrue.ID(), cond.ID())
	b.Ordering.Forbidden.AddEdge(ifFalse.ID(), cond.ID())
	if err := b.Ordering.CheckConsistency(); err != nil {
		return nil, err
	}
	z := stream.NewCondOp(cond, ifTrue, ifFalse, ifTrue.Type())
	b.register(z)
	return z, nil
}

// Wait fully materialises x's next value; the returned BufferOp reads it
// once buffering completes.
func (b *Builder) Wait(x stream.Op) *stream.WaitOpBuffer {
	w := stream.NewWaitOp(x)
	b.register(w)
	return stream.NewWaitOpBuffer(w)
}

// Emit serialises a BufferOp expression's value back into an event
// sequence once every WaitOp it depends on has completed.
func (b *Builder) Emit(bufOp stream.BufferOp) *stream.EmitOp {
	e := stream.NewEmitOp(bufOp)
	b.register(e)
	return e
}

// Register allocates a mutable cell a BufferOp expression can
// read and a stream can overwrite, for the running-accumulator pattern
// spec.md §9 item C.2 reinstates.
func (b *Builder) Register(initial interface{}, t typesys.Type) *stream.RegisterBuffer {
	return stream.NewRegisterBuffer(initial, t)
}

// RegisterUpdate overwrites reg with updateVal and is immediately
// exhausted.
func (b *Builder) RegisterUpdate(updateVal interface{}, reg *stream.RegisterBuffer) *stream.RegisterUpdateOp {
	r := stream.NewRegisterUpdateOp(updateVal, reg)
	b.register(r)
	return r
}

// resetBlock traces f over a fresh ResetOp, then fills the ResetOp's
// reset set with every node f introduced, mirroring original_source's
// Delta._reset_block.
func (b *Builder) resetBlock(t typesys.Type, f func(reset *stream.ResetOp) (stream.Op, error)) (stream.Op, error) {
	reset := stream.NewResetOp(t)
	before := make(map[stream.Op]struct{}, len(b.nodes))
	for n := range b.nodes {
		before[n] = struct{}{}
	}

	res, err := f(reset)
	if err != nil {
		return nil, err
	}

	var introduced []stream.Op
	for n := range b.nodes {
		if _, ok := before[n]; !ok {
			introduced = append(introduced, n)
		}
	}
	reset.SetResetSet(introduced)
	b.register(reset)
	return res, nil
}

// recursiveBlock is resetBlock's sibling for macros that need to close a
// back-edge onto themselves (original_source's Delta.concat hands its reset
// node to cons() as its own recursive tail). f receives a RecCall standing
// in for "run this block again" before the block's body exists yet; once f
// returns, f's result becomes the RecursiveSection's body and the RecCall's
// reset set is every node f introduced, same as resetBlock.
func (b *Builder) recursiveBlock(t typesys.Type, f func(rec stream.Op) (stream.Op, error)) (stream.Op, error) {
	section := stream.NewRecursiveSection(t)
	recCall := stream.NewRecCall(section, t)

	before := make(map[stream.Op]struct{}, len(b.nodes))
	for n := range b.nodes {
		before[n] = struct{}{}
	}

	body, err := f(recCall)
	if err != nil {
		return nil, err
	}
	section.SetBody(body)

	var introduced []stream.Op
	for n := range b.nodes {
		if _, ok := before[n]; !ok {
			introduced = append(introduced, n)
		}
	}
	recCall.SetResetSet(introduced)
	b.register(recCall)
	b.register(section)
	return section, nil
}

// Map applies mapFn to every element of a Star-typed stream, mirroring
// original_source/delta.py's Delta.map.
func (b *Builder) Map(x stream.Op, mapFn func(stream.Op) (stream.Op, error)) (stream.Op, error) {
	inputElemType := b.FreshTypeVar()
	if err := typesys.Unify(x.Type(), typesys.Star{Elem: inputElemType}); err != nil {
		return nil, err
	}

	resultElemType := b.FreshTypeVar()
	resultStarType := typesys.Star{Elem: resultElemType}

	return b.resetBlock(resultStarType, func(reset *stream.ResetOp) (stream.Op, error) {
		return b.StarCase(x,
			func(stream.Op) (stream.Op, error) { return b.Nil(nil) },
			func(head, tail stream.Op) (stream.Op, error) {
				mapOutput, err := mapFn(head)
				if err != nil {
					return nil, err
				}
				if err := typesys.Unify(mapOutput.Type(), resultElemType); err != nil {
					return nil, err
				}
				sinkThenReset := stream.NewSinkThen(head, reset, resultStarType)
				b.register(sinkThenReset)
				return b.Cons(mapOutput, sinkThenReset)
			})
	})
}

// Concat appends ys after xs exhausts, tracing a recursive block that
// re-cases xs on every cons cell (original_source/delta.py's Delta.concat).
func (b *Builder) Concat(xs, ys stream.Op) (stream.Op, error) {
	inputElemType := b.FreshTypeVar()
	inputStarType := typesys.Star{Elem: inputElemType}
	if err := typesys.Unify(xs.Type(), inputStarType); err != nil {
		return nil, err
	}
	if err := typesys.Unify(ys.Type(), inputStarType); err != nil {
		return nil, err
	}

	return b.recursiveBlock(inputStarType, func(rec stream.Op) (stream.Op, error) {
		return b.StarCase(xs,
			func(stream.Op) (stream.Op, error) { return ys, nil },
			func(head, tail stream.Op) (stream.Op, error) { return b.Cons(head, rec) })
	})
}

// ConcatMap maps mapFn over x's elements, each producing its own Star, and
// concatenates the results (original_source/delta.py's Delta.concat_map).
func (b *Builder) ConcatMap(x stream.Op, mapFn func(stream.Op) (stream.Op, error)) (stream.Op, error) {
	inputElemType := b.FreshTypeVar()
	if err := typesys.Unify(x.Type(), typesys.Star{Elem: inputElemType}); err != nil {
		return nil, err
	}

	resultElemType := b.FreshTypeVar()
	resultStarType := typesys.Star{Elem: resultElemType}

	return b.resetBlock(resultStarType, func(reset *stream.ResetOp) (stream.Op, error) {
		return b.StarCase(x,
			func(stream.Op) (stream.Op, error) { return b.Nil(resultElemType) },
			func(head, tail stream.Op) (stream.Op, error) {
				mapOutput, err := mapFn(head)
				if err != nil {
					return nil, err
				}
				if err := typesys.Unify(mapOutput.Type(), resultStarType); err != nil {
					return nil, err
				}
				sinkThenReset := stream.NewSinkThen(head, reset, resultStarType)
				b.register(sinkThenReset)
				return b.Concat(mapOutput, sinkThenReset)
			})
	})
}

// ZipWith pairs up elements of xs and ys positionally, combining each pair
// with fn, stopping once either side runs out (original_source/delta.py's
// Delta.zip_with).
func (b *Builder) ZipWith(xs, ys stream.Op, fn func(x, y stream.Op) (stream.Op, error)) (stream.Op, error) {
	xsElemType := b.FreshTypeVar()
	if err := typesys.Unify(xs.Type(), typesys.Star{Elem: xsElemType}); err != nil {
		return nil, err
	}
	ysElemType := b.FreshTypeVar()
	if err := typesys.Unify(ys.Type(), typesys.Star{Elem: ysElemType}); err != nil {
		return nil, err
	}

	resultElemType := b.FreshTypeVar()
	resultStarType := typesys.Star{Elem: resultElemType}

	return b.resetBlock(resultStarType, func(reset *stream.ResetOp) (stream.Op, error) {
		return b.StarCase(xs,
			func(stream.Op) (stream.Op, error) { return b.Nil(nil) },
			func(xHead, xTail stream.Op) (stream.Op, error) {
				return b.StarCase(ys,
					func(stream.Op) (stream.Op, error) { return b.Nil(nil) },
					func(yHead, yTail stream.Op) (stream.Op, error) {
						zOutput, err := fn(xHead, yHead)
						if err != nil {
							return nil, err
						}
						if err := typesys.Unify(zOutput.Type(), resultElemType); err != nil {
							return nil, err
						}
						ySink := stream.NewSinkThen(yHead, reset, resultStarType)
						b.register(ySink)
						xSink := stream.NewSinkThen(xHead, ySink, resultStarType)
						b.register(xSink)
						return b.Cons(zOutput, xSink)
					})
			})
	})
}

// SplitZ splits a stream of ints at its first zero into the prefix before
// that zero and the suffix after it (the zero itself is dropped), as a
// Cat of two Star(int) streams, mirroring original_source/delta.py's
// Delta.splitZ.
func (b *Builder) SplitZ(xs stream.Op) (stream.Op, error) {
	intStarType := typesys.Star{Elem: typesys.Singleton{Kind: typesys.IntKind}}
	if err := typesys.Unify(xs.Type(), intStarType); err != nil {
		return nil, err
	}

	return b.resetBlock(typesys.Cat{Left: intStarType, Right: intStarType}, func(reset *stream.ResetOp) (stream.Op, error) {
		return b.StarCase(xs,
			func(stream.Op) (stream.Op, error) {
				nilLeft, err := b.Nil(typesys.Singleton{Kind: typesys.IntKind})
				if err != nil {
					return nil, err
				}
				nilRight, err := b.Nil(typesys.Singleton{Kind: typesys.IntKind})
				if err != nil {
					return nil, err
				}
				return b.CatR(nilLeft, nilRight)
			},
			func(x, xsTail stream.Op) (stream.Op, error) {
				y := b.Wait(x)
				eqz := stream.NewComparisonOp(y, "==", stream.NewConstantOp(0, typesys.Singleton{Kind: typesys.IntKind}))
				emitY := b.Emit(y)
				isZ := b.Emit(eqz)

				nilLeft, err := b.Nil(typesys.Singleton{Kind: typesys.IntKind})
				if err != nil {
					return nil, err
				}
				nilCatrXs, err := b.CatR(nilLeft, xsTail)
				if err != nil {
					return nil, err
				}

				sinkThenReset := stream.NewSinkThen(x, reset, reset.Type())
				b.register(sinkThenReset)

				ys, zs, err := b.CatL(sinkThenReset)
				if err != nil {
					return nil, err
				}
				xConsYs, err := b.Cons(emitY, ys)
				if err != nil {
					return nil, err
				}
				xConsYsCatrZs, err := b.CatR(xConsYs, zs)
				if err != nil {
					return nil, err
				}

				return b.Cond(isZ, nilCatrXs, xConsYsCatrZs)
			})
	})
}
