// Package order implements the twin-partial-order ordering constraint system
// of spec.md §5: a PartialOrder keeps a transitively-closed edge set over
// node ids, and a RealizedOrdering pairs a required and a forbidden order
// under a consistency invariant.
package order

import "fmt"

type edge struct{ x, y uint64 }

// PartialOrder is a transitively-closed, non-reflexive "comes before"
// relation over uint64 node ids (grounded on
// original_source/typecheck/partial_order.py).
type PartialOrder struct {
	edges    map[edge]struct{}
	metadata map[uint64]string
}

// NewPartialOrder returns an empty order. metadata is used only for
// human-readable String() output and may be nil.
func NewPartialOrder(metadata map[uint64]string) *PartialOrder {
	return &PartialOrder{edges: make(map[edge]struct{}), metadata: metadata}
}

// AddEdge records that x comes before y, then closes the relation
// transitively. A self-edge is a no-op.
func (p *PartialOrder) AddEdge(x, y uint64) {
	if x == y {
		return
	}
	p.edges[edge{x, y}] = struct{}{}
	p.ensureTransitiveClosure()
}

func (p *PartialOrder) ensureTransitiveClosure() {
	for changed := true; changed; {
		changed = false
		var newEdges []edge
		for ab := range p.edges {
			for cd := range p.edges {
				if ab.y == cd.x {
					ad := edge{ab.x, cd.y}
					if _, ok := p.edges[ad]; !ok {
						newEdges = append(newEdges, ad)
						changed = true
					}
				}
			}
		}
		for _, e := range newEdges {
			p.edges[e] = struct{}{}
		}
	}
}

// AddAllEdges adds x -> y for every x in set1 and every y in set2.
func (p *PartialOrder) AddAllEdges(set1, set2 []uint64) {
	for _, x := range set1 {
		for _, y := range set2 {
			p.AddEdge(x, y)
		}
	}
}

// HasEdge reports whether x is known to come before y.
func (p *PartialOrder) HasEdge(x, y uint64) bool {
	_, ok := p.edges[edge{x, y}]
	return ok
}

// Predecessors returns every node known to come before x, excluding x
// itself.
func (p *PartialOrder) Predecessors(x uint64) map[uint64]struct{} {
	out := make(map[uint64]struct{})
	for e := range p.edges {
		if e.y == x && e.x != x {
			out[e.x] = struct{}{}
		}
	}
	return out
}

// Successors returns every node known to come after x, excluding x itself.
func (p *PartialOrder) Successors(x uint64) map[uint64]struct{} {
	out := make(map[uint64]struct{})
	for e := range p.edges {
		if e.x == x && e.y != x {
			out[e.y] = struct{}{}
		}
	}
	return out
}

// OverlapsWith reports whether p and other share at least one edge.
func (p *PartialOrder) OverlapsWith(other *PartialOrder) bool {
	small, big := p, other
	if len(big.edges) < len(small.edges) {
		small, big = big, small
	}
	for e := range small.edges {
		if _, ok := big.edges[e]; ok {
			return true
		}
	}
	return false
}

// Intersect returns the edges p and other have in common.
func (p *PartialOrder) Intersect(other *PartialOrder) []EdgePair {
	var out []EdgePair
	for e := range p.edges {
		if _, ok := other.edges[e]; ok {
			out = append(out, EdgePair{e.x, e.y})
		}
	}
	return out
}

// EdgePair names an x -> y edge.
type EdgePair struct{ X, Y uint64 }

func (p *PartialOrder) formatNode(n uint64) string {
	if name, ok := p.metadata[n]; ok {
		return fmt.Sprintf("%s(#%d)", name, n)
	}
	return fmt.Sprintf("%d", n)
}

func (p *PartialOrder) String() string {
	if len(p.edges) == 0 {
		return "PartialOrder({})"
	}
	s := "PartialOrder("
	first := true
	for e := range p.edges {
		if !first {
			s += ", "
		}
		first = false
		s += fmt.Sprintf("%s < %s", p.formatNode(e.x), p.formatNode(e.y))
	}
	return s + ")"
}
