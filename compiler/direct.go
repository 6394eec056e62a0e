package compiler

import (
	"go.uber.org/zap"

	"github.com/deltastream/delta/compiler/bytecode"
	"github.com/deltastream/delta/errs"
	"github.com/deltastream/delta/event"
	"github.com/deltastream/delta/stream"
)

// directIterator is backend A: output is lowered once, at construction
// time, into a bytecode.Chunk, and each Next call resumes the same
// bytecode.VM — the state-machine shape a generated direct compiler would
// produce, played here as data instead of emitted Go source. It is the one
// backend that rejects a WaitOp anywhere in the graph at compile time,
// matching spec.md §9's documented gap (the direct backend has no
// compiled form for WaitOp in the source this was distilled from).
type directIterator struct {
	vm    *bytecode.VM
	nodes []stream.Op
	log   *zap.Logger
}

func newDirectIterator(output stream.Op, nodes []stream.Op, cfg *config) (*directIterator, error) {
	for _, n := range nodes {
		if _, isWait := n.(*stream.WaitOp); isWait {
			return nil, errs.NotImplemented("WaitOp in the direct backend")
		}
	}
	chunk := bytecode.Compile(output)
	return &directIterator{vm: bytecode.NewVM(chunk), nodes: nodes, log: cfg.log}, nil
}

func (d *directIterator) Next() (event.Event, bool, error) {
	return d.vm.Run()
}

func (d *directIterator) Reset() {
	d.vm.Reset()
	for _, n := range d.nodes {
		n.Reset()
	}
}
