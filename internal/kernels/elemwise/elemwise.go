// Package elemwise implements the shared elementwise kernel loops used
// by both kernel-module sets. The general and managed modules add
// device policy around these functions; the loops themselves operate
// on host-accessible memory only.
package elemwise

import (
	"errors"
	"fmt"

	"github.com/x448/float16"

	"github.com/plures-go/xnd/internal/device"
	"github.com/plures-go/xnd/internal/mem"
	"github.com/plures-go/xnd/internal/parallel"
	"github.com/plures-go/xnd/internal/types"
)

// ErrKernel reports an operand the kernel set cannot compute on.
var ErrKernel = errors.New("kernel error")

var cfg = parallel.DefaultConfig()

var boolScalar = types.NewScalar(types.Bool)

// operand validates a kernel operand: fixed shape, plain scalar dtype.
func operand(x *mem.Block) (types.ScalarKind, error) {
	if _, ok := x.Type().Shape(); !ok {
		return 0, fmt.Errorf("%w: ragged operand %q is not supported by elementwise kernels", ErrKernel, x.Type())
	}
	dt := x.Type().DType()
	if dt.Kind() != types.Scalar {
		return 0, fmt.Errorf("%w: dtype %q is not supported by elementwise kernels", ErrKernel, dt)
	}
	k := dt.ScalarKind()
	if k == types.String || k == types.Bytes {
		return 0, fmt.Errorf("%w: dtype %q is not supported by elementwise kernels", ErrKernel, dt)
	}
	return k, nil
}

// result returns out after validating it against want, or allocates a
// fresh block of type want on dev.
func result(out *mem.Block, want *types.Type, dev device.Device) (*mem.Block, error) {
	if out == nil {
		return mem.Empty(want, dev)
	}
	if !out.Type().Equal(want) {
		return nil, fmt.Errorf("%w: out has type %q, want %q", ErrKernel, out.Type(), want)
	}
	return out, nil
}

// binOperands validates a binary operand pair and returns the element
// kind, the result dimension carrier, and the index mapping for the
// second operand (identity, or constant zero for a scalar operand).
func binOperands(a, b *mem.Block) (types.ScalarKind, *mem.Block, func(int) int, func(int) int, error) {
	ka, err := operand(a)
	if err != nil {
		return 0, nil, nil, nil, err
	}
	kb, err := operand(b)
	if err != nil {
		return 0, nil, nil, nil, err
	}
	if ka != kb {
		return 0, nil, nil, nil, fmt.Errorf("%w: operand dtypes differ: %q vs %q",
			ErrKernel, a.Type().DType(), b.Type().DType())
	}

	ident := func(i int) int { return i }
	zero := func(int) int { return 0 }
	switch {
	case a.Type().Equal(b.Type()):
		return ka, a, ident, ident, nil
	case b.Type().Ndim() == 0:
		return ka, a, ident, zero, nil
	case a.Type().Ndim() == 0:
		return ka, b, zero, ident, nil
	default:
		return 0, nil, nil, nil, fmt.Errorf("%w: operand shapes differ: %q vs %q",
			ErrKernel, a.Type(), b.Type())
	}
}

// Typed element access in a width-independent representation. Signed
// integers go through int64, unsigned through uint64, floats through
// float64; all three are exact for every supported width.

func intAt(b *mem.Block, k types.ScalarKind) func(int) int64 {
	switch k {
	case types.Int8:
		s := b.AsInt8()
		return func(i int) int64 { return int64(s[i]) }
	case types.Int16:
		s := b.AsInt16()
		return func(i int) int64 { return int64(s[i]) }
	case types.Int32:
		s := b.AsInt32()
		return func(i int) int64 { return int64(s[i]) }
	default:
		s := b.AsInt64()
		return func(i int) int64 { return s[i] }
	}
}

func setIntAt(b *mem.Block, k types.ScalarKind) func(int, int64) {
	switch k {
	case types.Int8:
		s := b.AsInt8()
		return func(i int, v int64) { s[i] = int8(v) }
	case types.Int16:
		s := b.AsInt16()
		return func(i int, v int64) { s[i] = int16(v) }
	case types.Int32:
		s := b.AsInt32()
		return func(i int, v int64) { s[i] = int32(v) }
	default:
		s := b.AsInt64()
		return func(i int, v int64) { s[i] = v }
	}
}

func uintAt(b *mem.Block, k types.ScalarKind) func(int) uint64 {
	switch k {
	case types.Uint8:
		s := b.AsUint8()
		return func(i int) uint64 { return uint64(s[i]) }
	case types.Uint16:
		s := b.AsUint16()
		return func(i int) uint64 { return uint64(s[i]) }
	case types.Uint32:
		s := b.AsUint32()
		return func(i int) uint64 { return uint64(s[i]) }
	default:
		s := b.AsUint64()
		return func(i int) uint64 { return s[i] }
	}
}

func setUintAt(b *mem.Block, k types.ScalarKind) func(int, uint64) {
	switch k {
	case types.Uint8:
		s := b.AsUint8()
		return func(i int, v uint64) { s[i] = uint8(v) }
	case types.Uint16:
		s := b.AsUint16()
		return func(i int, v uint64) { s[i] = uint16(v) }
	case types.Uint32:
		s := b.AsUint32()
		return func(i int, v uint64) { s[i] = uint32(v) }
	default:
		s := b.AsUint64()
		return func(i int, v uint64) { s[i] = v }
	}
}

func floatAt(b *mem.Block, k types.ScalarKind) func(int) float64 {
	switch k {
	case types.Float16:
		s := b.AsFloat16()
		return func(i int) float64 { return float64(float16.Frombits(s[i]).Float32()) }
	case types.Float32:
		s := b.AsFloat32()
		return func(i int) float64 { return float64(s[i]) }
	default:
		s := b.AsFloat64()
		return func(i int) float64 { return s[i] }
	}
}

func setFloatAt(b *mem.Block, k types.ScalarKind) func(int, float64) {
	switch k {
	case types.Float16:
		s := b.AsFloat16()
		return func(i int, v float64) { s[i] = float16.Fromfloat32(float32(v)).Bits() }
	case types.Float32:
		s := b.AsFloat32()
		return func(i int, v float64) { s[i] = float32(v) }
	default:
		s := b.AsFloat64()
		return func(i int, v float64) { s[i] = v }
	}
}
