package compiler

import (
	"go.uber.org/zap"

	"github.com/deltastream/delta/event"
	"github.com/deltastream/delta/stream"
)

// coroutineIterator is backend C: it drives the graph inside its own
// goroutine, feeding events over a channel, substituting Go's native
// goroutine stack for the host generator primitive (Python's `yield`) the
// original's backend C assumes — the same shape brunotm-streams and
// YoshikiShibata-gostream use for their channel-based generators.
type coroutineIterator struct {
	output stream.Op
	nodes  []stream.Op
	log    *zap.Logger

	events  chan event.Event
	stop    chan struct{}
	started bool
}

func newCoroutineIterator(output stream.Op, nodes []stream.Op, cfg *config) (*coroutineIterator, error) {
	return &coroutineIterator{output: output, nodes: nodes, log: cfg.log}, nil
}

func (c *coroutineIterator) start() {
	c.events = make(chan event.Event)
	c.stop = make(chan struct{})
	events, stop := c.events, c.stop
	go func() {
		defer close(events)
		for {
			p := c.output.Pull()
			switch p.Signal {
			case stream.SigDone:
				return
			case stream.SigSkip:
				continue
			default:
				select {
				case events <- p.Event:
				case <-stop:
					return
				}
			}
		}
	}()
	c.started = true
}

func (c *coroutineIterator) Next() (event.Event, bool, error) {
	if !c.started {
		c.start()
	}
	ev, ok := <-c.events
	return ev, ok, nil
}

func (c *coroutineIterator) Reset() {
	if c.started {
		close(c.stop)
		for range c.events {
		}
		c.started = false
	}
	for _, n := range c.nodes {
		n.Reset()
	}
}
