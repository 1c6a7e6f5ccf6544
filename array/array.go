// Copyright 2026 The plures-go Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package array provides the public API for the numeric array layer.
//
// An Array overlays elementwise operator semantics on a typed
// container. Every operation is routed to a kernel module selected by
// the operand devices: operands on managed (unified) memory use the
// managed module, everything else uses the general module.
//
// Example:
//
//	a, _ := array.New([]any{1.0, 4.0, 9.0}, xnd.Options{})
//	r, _ := a.Sqrt() // [1, 2, 3]
package array

import (
	"github.com/plures-go/xnd/internal/array"
	"github.com/plures-go/xnd/internal/container"
	"github.com/plures-go/xnd/internal/device"
	"github.com/plures-go/xnd/internal/kernels"
)

// Array is a numeric view over a typed container.
type Array = array.Array

// Errors surfaced by the operator layer.
var (
	ErrUnsupported = array.ErrUnsupported
	ErrOperandType = array.ErrOperandType
)

// UnaryOp identifies an elementwise unary operation.
type UnaryOp = kernels.UnaryOp

// Unary operations.
const (
	Negative  UnaryOp = kernels.Negative
	Invert    UnaryOp = kernels.Invert
	Round     UnaryOp = kernels.Round
	Trunc     UnaryOp = kernels.Trunc
	Floor     UnaryOp = kernels.Floor
	Ceil      UnaryOp = kernels.Ceil
	Copy      UnaryOp = kernels.Copy
	Acos      UnaryOp = kernels.Acos
	Acosh     UnaryOp = kernels.Acosh
	Asin      UnaryOp = kernels.Asin
	Asinh     UnaryOp = kernels.Asinh
	Atan      UnaryOp = kernels.Atan
	Atanh     UnaryOp = kernels.Atanh
	Cbrt      UnaryOp = kernels.Cbrt
	Cos       UnaryOp = kernels.Cos
	Cosh      UnaryOp = kernels.Cosh
	Erf       UnaryOp = kernels.Erf
	Erfc      UnaryOp = kernels.Erfc
	Exp       UnaryOp = kernels.Exp
	Exp2      UnaryOp = kernels.Exp2
	Expm1     UnaryOp = kernels.Expm1
	Fabs      UnaryOp = kernels.Fabs
	Lgamma    UnaryOp = kernels.Lgamma
	Log       UnaryOp = kernels.Log
	Log10     UnaryOp = kernels.Log10
	Log1p     UnaryOp = kernels.Log1p
	Log2      UnaryOp = kernels.Log2
	Logb      UnaryOp = kernels.Logb
	Nearbyint UnaryOp = kernels.Nearbyint
	Sin       UnaryOp = kernels.Sin
	Sinh      UnaryOp = kernels.Sinh
	Sqrt      UnaryOp = kernels.Sqrt
	Tan       UnaryOp = kernels.Tan
	Tanh      UnaryOp = kernels.Tanh
	Tgamma    UnaryOp = kernels.Tgamma
)

// BinaryOp identifies an elementwise binary operation.
type BinaryOp = kernels.BinaryOp

// Binary operations.
const (
	Equal        BinaryOp = kernels.Equal
	NotEqual     BinaryOp = kernels.NotEqual
	Less         BinaryOp = kernels.Less
	LessEqual    BinaryOp = kernels.LessEqual
	Greater      BinaryOp = kernels.Greater
	GreaterEqual BinaryOp = kernels.GreaterEqual
	EqualN       BinaryOp = kernels.EqualN
	Add          BinaryOp = kernels.Add
	Subtract     BinaryOp = kernels.Subtract
	Multiply     BinaryOp = kernels.Multiply
	Divide       BinaryOp = kernels.Divide
	FloorDivide  BinaryOp = kernels.FloorDivide
	Remainder    BinaryOp = kernels.Remainder
	BitwiseAnd   BinaryOp = kernels.BitwiseAnd
	BitwiseOr    BinaryOp = kernels.BitwiseOr
	BitwiseXor   BinaryOp = kernels.BitwiseXor
)

// Ufunc methods accepted by HandleUfunc.
const (
	UfuncCall       = array.UfuncCall
	UfuncReduce     = array.UfuncReduce
	UfuncAccumulate = array.UfuncAccumulate
)

// New constructs an array from a host value using the construction
// hints in opts.
func New(value any, opts container.Options) (*Array, error) {
	return array.New(value, opts)
}

// Empty allocates a zero-initialized array of the given type.
func Empty(typ any, dev string) (*Array, error) {
	return array.Empty(typ, dev)
}

// FromContainer wraps an existing container.
func FromContainer(c *container.Container) *Array {
	return array.FromContainer(c)
}

// EqualValues reports whether two arrays hold equal values.
func EqualValues(a, b *Array) bool { return array.Equal(a, b) }

// Select picks the kernel module for a set of operand devices.
func Select(devs ...device.Device) kernels.Module {
	return array.Select(devs...)
}

// HandleUfunc is the foreign universal-function bridge: it exposes
// array payloads to the foreign engine zero-copy and wraps the
// results back. Every input and output must be an Array.
func HandleUfunc(op, method string, inputs []any, out *Array) (any, error) {
	return array.HandleUfunc(op, method, inputs, out)
}
