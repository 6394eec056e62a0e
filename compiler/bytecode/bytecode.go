// Package bytecode gives the direct backend (compiler.BackendDirect) a flat
// instruction set and VM loop instead of a bare recursive Pull-loop,
// fulfilling the "compiler/bytecode/ flat instruction set + VM loop for the
// direct backend" entry of SPEC_FULL.md's module layout.
//
// The original direct_compiler.py backend emits literal Python source; Go
// has no equivalent runtime codegen, so this package plays the same role
// with data instead of text: Compile lowers an output stream.Op's
// Pull/Skip/Done contract into a tiny linear program, shaped after the
// generic opcode-and-chunk design in internal/bytecode/chunk.go (OpCode
// byte stream, append-only Code slice) but with a domain-specific
// instruction set — pull/jump-if-done/jump-if-skip/emit/jump/halt — instead of
// that package's general-purpose arithmetic and collection opcodes.
package bytecode

import (
	"fmt"

	"github.com/deltastream/delta/errs"
	"github.com/deltastream/delta/event"
	"github.com/deltastream/delta/stream"
)

// OpCode is one instruction in a Chunk's flat program.
type OpCode byte

const (
	// OpPull calls Pull on the chunk's node and latches the resulting
	// signal (Done/Skip/Event) for the jump and emit instructions that
	// follow it.
	OpPull OpCode = iota
	// OpJumpIfDone jumps to the 2-byte big-endian address that follows it
	// if the last OpPull signalled Done.
	OpJumpIfDone
	// OpJumpIfSkip jumps to the 2-byte big-endian address that follows it
	// if the last OpPull signalled Skip, clearing the pending skip first.
	OpJumpIfSkip
	// OpEmit surfaces the last OpPull's event as this Run's result.
	OpEmit
	// OpJump jumps unconditionally to the 2-byte big-endian address that
	// follows it.
	OpJump
	// OpHalt ends the program; Run reports exhaustion.
	OpHalt
)

// Chunk is a compiled program: a byte-coded instruction stream over a
// single node (the direct backend only ever drives the graph's output
// node — every other node in the graph is reached transitively through
// that node's own Pull, the same way direct_compiler.py's generated
// function only calls the outermost node's pull).
type Chunk struct {
	Code []byte
	Node stream.Op
}

func (c *Chunk) writeOp(op OpCode) { c.Code = append(c.Code, byte(op)) }
func (c *Chunk) writeByte(b byte)  { c.Code = append(c.Code, b) }

func (c *Chunk) writeAddr(addr int) int {
	pos := len(c.Code)
	c.Code = append(c.Code, byte(addr>>8), byte(addr))
	return pos
}

func (c *Chunk) patchAddr(pos, addr int) {
	c.Code[pos] = byte(addr >> 8)
	c.Code[pos+1] = byte(addr)
}

// Compile lowers output's Pull/Reset contract into a flat pull-loop
// program: pull, jump to halt on Done, jump back to the top on Skip,
// otherwise emit and loop.
func Compile(output stream.Op) *Chunk {
	c := &Chunk{Node: output}

	loopStart := len(c.Code)
	c.writeOp(OpPull)

	c.writeOp(OpJumpIfDone)
	doneOperand := c.writeAddr(0) // patched below

	c.writeOp(OpJumpIfSkip)
	c.writeAddr(loopStart)

	c.writeOp(OpEmit)

	c.writeOp(OpJump)
	c.writeAddr(loopStart)

	haltAddr := len(c.Code)
	c.writeOp(OpHalt)

	c.patchAddr(doneOperand, haltAddr)
	return c
}

// VM drives a Chunk one Run call at a time, matching the one-event-per-call
// contract compiler.Iterator.Next needs: each Run resumes from wherever the
// previous Run left ip, so the VM's instruction pointer is itself the
// "where was I" state a generator's suspended frame would hold.
type VM struct {
	chunk *Chunk
	ip    int

	pendingDone  bool
	pendingSkip  bool
	pendingEvent event.Event
}

// NewVM returns a VM positioned at the start of chunk.
func NewVM(chunk *Chunk) *VM { return &VM{chunk: chunk} }

func (vm *VM) readByte() byte {
	b := vm.chunk.Code[vm.ip]
	vm.ip++
	return b
}

func (vm *VM) readAddr() int {
	hi := vm.readByte()
	lo := vm.readByte()
	return int(hi)<<8 | int(lo)
}

// Run executes instructions until the program emits an event, halts, or
// hits an instruction this VM doesn't recognise.
func (vm *VM) Run() (event.Event, bool, error) {
	for {
		switch OpCode(vm.readByte()) {
		case OpPull:
			p := vm.chunk.Node.Pull()
			switch p.Signal {
			case stream.SigDone:
				vm.pendingDone = true
			case stream.SigSkip:
				vm.pendingSkip = true
			default:
				vm.pendingEvent = p.Event
			}

		case OpJumpIfDone:
			addr := vm.readAddr()
			if vm.pendingDone {
				vm.pendingDone = false
				vm.ip = addr
			}

		case OpJumpIfSkip:
			addr := vm.readAddr()
			if vm.pendingSkip {
				vm.pendingSkip = false
				vm.ip = addr
			}

		case OpEmit:
			return vm.pendingEvent, true, nil

		case OpJump:
			vm.ip = vm.readAddr()

		case OpHalt:
			return nil, false, nil

		default:
			return nil, false, errs.NotImplemented(fmt.Sprintf("bytecode opcode %d", vm.chunk.Code[vm.ip-1]))
		}
	}
}

// Reset rewinds the VM to the start of its program. It does not reset the
// underlying node graph — callers own that, since a Chunk only ever holds
// the single output node and a full graph reset must reach every node the
// builder registered.
func (vm *VM) Reset() { vm.ip = 0 }
