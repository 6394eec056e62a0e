package stream

import "github.com/deltastream/delta/typesys"

// Eps is the empty stream: always immediately exhausted.
type Eps struct {
	streamType typesys.Type
	serial     uint64
}

var epsSerial uint64

// NewEps constructs a fresh Eps node. Each call gets a distinct identity,
// matching original_source's use of Python object identity for Eps's id
// (an Eps carries no structure to hash over).
func NewEps(t typesys.Type) *Eps {
	epsSerial++
	return &Eps{streamType: t, serial: epsSerial}
}

func (e *Eps) ID() uint64                { return structID("Eps", e.serial) }
func (e *Eps) Vars() map[uint64]struct{} { return map[uint64]struct{}{} }
func (e *Eps) Type() typesys.Type        { return e.streamType }
func (e *Eps) Pull() Pulled              { return Done() }
func (e *Eps) Reset()                    {}
