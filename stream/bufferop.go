package stream

import (
	"fmt"
	"math"

	"github.com/deltastream/delta/typesys"
)

// BufferOp is the value-level expression algebra evaluated once all of
// its WaitOp sources have buffered a complete value (spec.md §6.2).
// Constants enter an expression only through an explicit ConstantOp;
// bare Go values are not promoted automatically.
type BufferOp interface {
	// Sources returns every WaitOp this expression must have pulled to
	// completion before Eval is safe to call.
	Sources() map[uint64]*WaitOp
	// Eval evaluates the expression. Only valid once every source is
	// complete.
	Eval() interface{}
	Type() typesys.Type
}

// ConstantOp wraps a fixed Go value as a BufferOp leaf.
type ConstantOp struct {
	Value      interface{}
	streamType typesys.Type
}

func NewConstantOp(value interface{}, t typesys.Type) *ConstantOp {
	return &ConstantOp{Value: value, streamType: t}
}

func (c *ConstantOp) Sources() map[uint64]*WaitOp { return map[uint64]*WaitOp{} }
func (c *ConstantOp) Eval() interface{}           { return c.Value }
func (c *ConstantOp) Type() typesys.Type          { return c.streamType }

// WaitOpBuffer is a leaf of a BufferOp tree: it reads the value a WaitOp
// has finished buffering.
type WaitOpBuffer struct {
	Wait *WaitOp
}

func NewWaitOpBuffer(w *WaitOp) *WaitOpBuffer { return &WaitOpBuffer{Wait: w} }

func (w *WaitOpBuffer) Sources() map[uint64]*WaitOp {
	return map[uint64]*WaitOp{w.Wait.ID(): w.Wait}
}
func (w *WaitOpBuffer) Eval() interface{}  { return w.Wait.buffer.Value() }
func (w *WaitOpBuffer) Type() typesys.Type { return w.Wait.Type() }

// RegisterBuffer is a mutable singleton cell: a BufferOp whose value can
// be overwritten whenever a RegisterUpdateOp over it is pulled, used to carry
// accumulator state across recursive iterations.
type RegisterBuffer struct {
	value      interface{}
	streamType typesys.Type
}

func NewRegisterBuffer(initial interface{}, t typesys.Type) *RegisterBuffer {
	return &RegisterBuffer{value: initial, streamType: t}
}

func (r *RegisterBuffer) Sources() map[uint64]*WaitOp { return map[uint64]*WaitOp{} }
func (r *RegisterBuffer) Eval() interface{}           { return r.value }
func (r *RegisterBuffer) Type() typesys.Type          { return r.streamType }
func (r *RegisterBuffer) UpdateValue(v interface{})   { r.value = v }

// BinaryOp applies a binary arithmetic operator across two numeric
// operands.
type BinaryOp struct {
	Left, Right BufferOp
	Op          string
}

func NewBinaryOp(left BufferOp, op string, right BufferOp) *BinaryOp {
	return &BinaryOp{Left: left, Op: op, Right: right}
}

func (b *BinaryOp) Sources() map[uint64]*WaitOp {
	return mergeSources(b.Left.Sources(), b.Right.Sources())
}
func (b *BinaryOp) Type() typesys.Type { return b.Left.Type() }

func (b *BinaryOp) Eval() interface{} {
	leftVal, rightVal := b.Left.Eval(), b.Right.Eval()
	l, r := toFloat(leftVal), toFloat(rightVal)
	switch b.Op {
	case "+":
		return narrowLike(l+r, leftVal, rightVal)
	case "-":
		return narrowLike(l-r, leftVal, rightVal)
	case "*":
		return narrowLike(l*r, leftVal, rightVal)
	case "/":
		// Python's / is true division: always a float, even int/int.
		return l / r
	case "//":
		return narrowLike(math.Floor(l/r), leftVal, rightVal)
	case "%":
		return narrowLike(math.Mod(l, r), leftVal, rightVal)
	case "**":
		return narrowLike(math.Pow(l, r), leftVal, rightVal)
	default:
		panic(fmt.Sprintf("bufferop: unknown binary operator %q", b.Op))
	}
}

// UnaryOp applies a unary operator to its operand.
type UnaryOp struct {
	Operand BufferOp
	Op      string
}

func NewUnaryOp(operand BufferOp, op string) *UnaryOp {
	return &UnaryOp{Operand: operand, Op: op}
}

func (u *UnaryOp) Sources() map[uint64]*WaitOp { return u.Operand.Sources() }
func (u *UnaryOp) Type() typesys.Type          { return u.Operand.Type() }

func (u *UnaryOp) Eval() interface{} {
	v := u.Operand.Eval()
	switch u.Op {
	case "-":
		return narrowLike(-toFloat(v), v, v)
	case "+":
		return narrowLike(toFloat(v), v, v)
	case "~":
		return ^toInt(v)
	case "not":
		b, _ := v.(bool)
		return !b
	default:
		panic(fmt.Sprintf("bufferop: unknown unary operator %q", u.Op))
	}
}

// ComparisonOp compares two operands and produces a bool.
type ComparisonOp struct {
	Left, Right BufferOp
	Op          string
}

func NewComparisonOp(left BufferOp, op string, right BufferOp) *ComparisonOp {
	return &ComparisonOp{Left: left, Op: op, Right: right}
}

func (c *ComparisonOp) Sources() map[uint64]*WaitOp {
	return mergeSources(c.Left.Sources(), c.Right.Sources())
}
func (c *ComparisonOp) Type() typesys.Type { return typesys.Singleton{Kind: typesys.BoolKind} }

func (c *ComparisonOp) Eval() interface{} {
	l, r := c.Left.Eval(), c.Right.Eval()
	switch c.Op {
	case "==":
		return valuesEqual(l, r)
	case "!=":
		return !valuesEqual(l, r)
	}
	if ls, ok := l.(string); ok {
		rs, _ := r.(string)
		switch c.Op {
		case "<":
			return ls < rs
		case "<=":
			return ls <= rs
		case ">":
			return ls > rs
		case ">=":
			return ls >= rs
		default:
			panic(fmt.Sprintf("bufferop: unknown comparison operator %q", c.Op))
		}
	}
	lf, rf := toFloat(l), toFloat(r)
	switch c.Op {
	case "<":
		return lf < rf
	case "<=":
		return lf <= rf
	case ">":
		return lf > rf
	case ">=":
		return lf >= rf
	default:
		panic(fmt.Sprintf("bufferop: unknown comparison operator %q", c.Op))
	}
}

func mergeSources(a, b map[uint64]*WaitOp) map[uint64]*WaitOp {
	out := make(map[uint64]*WaitOp, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}

func isNumeric(v interface{}) bool {
	switch v.(type) {
	case int, float64:
		return true
	default:
		return false
	}
}

func toFloat(v interface{}) float64 {
	switch n := v.(type) {
	case int:
		return float64(n)
	case float64:
		return n
	default:
		panic(fmt.Sprintf("bufferop: value %v is not numeric", v))
	}
}

func toInt(v interface{}) int {
	switch n := v.(type) {
	case int:
		return n
	case float64:
		return int(n)
	default:
		panic(fmt.Sprintf("bufferop: value %v is not numeric", v))
	}
}

// narrowLike narrows a float64 arithmetic result back to int when both
// original operands were ints, matching Python's int-stays-int arithmetic
// (as opposed to true division, which always produces a float regardless
// of operand types — see BinaryOp.Eval's "/" case).
func narrowLike(f float64, left, right interface{}) interface{} {
	_, leftInt := left.(int)
	_, rightInt := right.(int)
	if leftInt && rightInt {
		return int(f)
	}
	return f
}

// valuesEqual compares two BufferOp values for Python-style ==: numeric
// operands compare by value across int/float64, everything else (string,
// bool) compares by Go equality rather than panicking through toFloat.
func valuesEqual(a, b interface{}) bool {
	if isNumeric(a) && isNumeric(b) {
		return toFloat(a) == toFloat(b)
	}
	return a == b
}
