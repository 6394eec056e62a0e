package order

import "github.com/deltastream/delta/errs"

// RealizedOrdering pairs a required and a forbidden PartialOrder over the
// same node ids, maintaining the invariant that no edge appears in both
// (spec.md §5.2). Both orders share one metadata map so error messages and
// String() can name nodes consistently.
type RealizedOrdering struct {
	metadata map[uint64]string
	Required *PartialOrder
	Forbidden *PartialOrder
}

// NewRealizedOrdering returns an empty ordering.
func NewRealizedOrdering() *RealizedOrdering {
	metadata := make(map[uint64]string)
	return &RealizedOrdering{
		metadata:  metadata,
		Required:  NewPartialOrder(metadata),
		Forbidden: NewPartialOrder(metadata),
	}
}

// Name records a human-readable label for a node, used only in error
// messages and String() output.
func (r *RealizedOrdering) Name(id uint64, name string) {
	r.metadata[id] = name
}

// CheckConsistency reports an error if any edge is both required and
// forbidden.
func (r *RealizedOrdering) CheckConsistency() error {
	conflicts := r.Required.Intersect(r.Forbidden)
	if len(conflicts) == 0 {
		return nil
	}
	c := conflicts[0]
	return errs.InconsistentOrdering(c.X, c.Y)
}

// AddOrdered records that x must come before y: a required edge x -> y and
// a forbidden edge y -> x.
func (r *RealizedOrdering) AddOrdered(x, y uint64) error {
	r.Required.AddEdge(x, y)
	r.Forbidden.AddEdge(y, x)
	return r.CheckConsistency()
}

// AddAllOrdered records that every element of set1 must come before every
// element of set2.
func (r *RealizedOrdering) AddAllOrdered(set1, set2 []uint64) error {
	r.Required.AddAllEdges(set1, set2)
	r.Forbidden.AddAllEdges(set2, set1)
	return r.CheckConsistency()
}

// AddUnordered records that x and y are mutually exclusive: forbidden
// edges in both directions.
func (r *RealizedOrdering) AddUnordered(x, y uint64) error {
	r.Forbidden.AddEdge(x, y)
	r.Forbidden.AddEdge(y, x)
	return r.CheckConsistency()
}

// AddAllUnordered records that every pair drawn from set1 and set2 is
// mutually exclusive.
func (r *RealizedOrdering) AddAllUnordered(set1, set2 []uint64) error {
	r.Forbidden.AddAllEdges(set1, set2)
	r.Forbidden.AddAllEdges(set2, set1)
	return r.CheckConsistency()
}

// AddInPlaceOf records that x inherits the ordering constraints common to
// every id in vars: x is placed after every common predecessor and before
// every common successor of vars in the required order.
func (r *RealizedOrdering) AddInPlaceOf(x uint64, vars []uint64) error {
	if len(vars) == 0 {
		return nil
	}

	commonPreds := r.Required.Predecessors(vars[0])
	commonSuccs := r.Required.Successors(vars[0])
	for _, v := range vars[1:] {
		commonPreds = intersectSets(commonPreds, r.Required.Predecessors(v))
		commonSuccs = intersectSets(commonSuccs, r.Required.Successors(v))
	}

	r.Required.AddAllEdges(keys(commonPreds), []uint64{x})
	r.Required.AddAllEdges([]uint64{x}, keys(commonSuccs))

	return r.CheckConsistency()
}

func intersectSets(a, b map[uint64]struct{}) map[uint64]struct{} {
	out := make(map[uint64]struct{})
	for k := range a {
		if _, ok := b[k]; ok {
			out[k] = struct{}{}
		}
	}
	return out
}

func keys(m map[uint64]struct{}) []uint64 {
	out := make([]uint64, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func (r *RealizedOrdering) String() string {
	return "RealizedOrdering(\n  required=" + r.Required.String() + ",\n  forbidden=" + r.Forbidden.String() + "\n)"
}
