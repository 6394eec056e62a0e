// Package graph implements the finished-trace surface of spec.md §6: a
// DataflowGraph pairs a builder's traced input Vars and output node with
// the full node set a Reset must reach, and knows how to compile and run
// itself under any of the three compiler backends.
package graph

import (
	"go.uber.org/zap"

	"github.com/deltastream/delta/compiler"
	"github.com/deltastream/delta/errs"
	"github.com/deltastream/delta/event"
	"github.com/deltastream/delta/stream"
)

// DataflowGraph is a finished trace: the input Var nodes in argument
// order, the output node, and every node the builder registered while
// tracing (used for whole-graph Reset, since stream.Op.Reset only ever
// touches a node's own fields).
type DataflowGraph struct {
	InputVars []*stream.Var
	Output    stream.Op
	Nodes     []stream.Op
}

// New captures a finished trace. nodes should be every node the builder
// registered (builder.Builder.Nodes()), which includes inputVars and
// output themselves.
func New(inputVars []*stream.Var, output stream.Op, nodes []stream.Op) *DataflowGraph {
	return &DataflowGraph{InputVars: inputVars, Output: output, Nodes: nodes}
}

// Compile lowers the graph to a runnable iterator under backend.
func (g *DataflowGraph) Compile(backend compiler.Backend, opts ...compiler.Option) (compiler.Iterator, error) {
	return compiler.Compile(backend, g.Output, g.Nodes, opts...)
}

// Run binds inputs positionally to the graph's InputVars, compiles under
// backend, and drives the result to exhaustion, returning every event the
// output produced. Run always starts from a clean reset so repeated calls
// on the same graph are independent (spec.md P6).
func (g *DataflowGraph) Run(backend compiler.Backend, inputs []stream.Source, opts ...compiler.Option) ([]event.Event, error) {
	if len(inputs) != len(g.InputVars) {
		return nil, errs.InputArity(len(g.InputVars), len(inputs))
	}
	for i, v := range g.InputVars {
		v.Source = inputs[i]
	}
	for _, n := range g.Nodes {
		n.Reset()
	}

	it, err := g.Compile(backend, opts...)
	if err != nil {
		return nil, err
	}

	var out []event.Event
	for {
		ev, ok, err := it.Next()
		if err != nil {
			return out, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, ev)
	}
}

// WithLogger re-exports compiler.WithLogger so callers need not import the
// compiler package just to configure logging on Compile/Run.
func WithLogger(l *zap.Logger) compiler.Option { return compiler.WithLogger(l) }
