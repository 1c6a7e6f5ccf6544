// Package kernels defines the compute-kernel module interface and the
// fixed enumeration of elementwise operations routed through it.
package kernels

import (
	"github.com/plures-go/xnd/internal/mem"
)

// UnaryOp enumerates the supported elementwise unary operations.
type UnaryOp int

// Unary operations.
const (
	Negative UnaryOp = iota
	Invert
	Round
	Trunc
	Floor
	Ceil
	Copy
	Acos
	Acosh
	Asin
	Asinh
	Atan
	Atanh
	Cbrt
	Cos
	Cosh
	Erf
	Erfc
	Exp
	Exp2
	Expm1
	Fabs
	Lgamma
	Log
	Log10
	Log1p
	Log2
	Logb
	Nearbyint
	Sin
	Sinh
	Sqrt
	Tan
	Tanh
	Tgamma
	numUnaryOps
)

var unaryNames = [...]string{
	Negative: "negative", Invert: "invert", Round: "round", Trunc: "trunc",
	Floor: "floor", Ceil: "ceil", Copy: "copy", Acos: "acos", Acosh: "acosh",
	Asin: "asin", Asinh: "asinh", Atan: "atan", Atanh: "atanh", Cbrt: "cbrt",
	Cos: "cos", Cosh: "cosh", Erf: "erf", Erfc: "erfc", Exp: "exp",
	Exp2: "exp2", Expm1: "expm1", Fabs: "fabs", Lgamma: "lgamma", Log: "log",
	Log10: "log10", Log1p: "log1p", Log2: "log2", Logb: "logb",
	Nearbyint: "nearbyint", Sin: "sin", Sinh: "sinh", Sqrt: "sqrt",
	Tan: "tan", Tanh: "tanh", Tgamma: "tgamma",
}

// String returns the kernel name of the operation.
func (op UnaryOp) String() string {
	if op < 0 || op >= numUnaryOps {
		return "unknown"
	}
	return unaryNames[op]
}

// BinaryOp enumerates the supported elementwise binary operations.
type BinaryOp int

// Binary operations.
const (
	Equal BinaryOp = iota
	NotEqual
	Less
	LessEqual
	Greater
	GreaterEqual
	EqualN
	Add
	Subtract
	Multiply
	Divide
	FloorDivide
	Remainder
	BitwiseAnd
	BitwiseOr
	BitwiseXor
	numBinaryOps
)

var binaryNames = [...]string{
	Equal: "equal", NotEqual: "not_equal", Less: "less",
	LessEqual: "less_equal", Greater: "greater", GreaterEqual: "greater_equal",
	EqualN: "equaln", Add: "add", Subtract: "subtract", Multiply: "multiply",
	Divide: "divide", FloorDivide: "floor_divide", Remainder: "remainder",
	BitwiseAnd: "bitwise_and", BitwiseOr: "bitwise_or", BitwiseXor: "bitwise_xor",
}

// String returns the kernel name of the operation.
func (op BinaryOp) String() string {
	if op < 0 || op >= numBinaryOps {
		return "unknown"
	}
	return binaryNames[op]
}

// IsComparison reports whether the operation yields a bool result.
func (op BinaryOp) IsComparison() bool {
	return op <= EqualN
}

// Module is one set of compute kernels. Implementations are selected
// per call by the operand devices and treated as synchronous black
// boxes: every method runs to completion or fails, never suspends.
//
// When out is non-nil the result is written into it and out itself is
// returned; otherwise a fresh block is allocated.
type Module interface {
	Name() string
	Unary(op UnaryOp, x *mem.Block, out *mem.Block) (*mem.Block, error)
	Binary(op BinaryOp, a, b *mem.Block, out *mem.Block) (*mem.Block, error)
	Divmod(a, b *mem.Block, qout, rout *mem.Block) (*mem.Block, *mem.Block, error)
}
