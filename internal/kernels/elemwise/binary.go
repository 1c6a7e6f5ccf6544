package elemwise

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/plures-go/xnd/internal/device"
	"github.com/plures-go/xnd/internal/kernels"
	"github.com/plures-go/xnd/internal/mem"
	"github.com/plures-go/xnd/internal/parallel"
	"github.com/plures-go/xnd/internal/types"
)

// Binary applies op elementwise to a and b. The operands must share a
// dtype and either an identical shape or one side must be a scalar.
func Binary(op kernels.BinaryOp, a, b, out *mem.Block, dev device.Device) (*mem.Block, error) {
	k, carrier, ai, bi, err := binOperands(a, b)
	if err != nil {
		return nil, err
	}
	if op.IsComparison() {
		return compare(op, a, b, out, dev, k, carrier, ai, bi)
	}
	return arith(op, a, b, out, dev, k, carrier, ai, bi)
}

func compare(op kernels.BinaryOp, a, b, out *mem.Block, dev device.Device,
	k types.ScalarKind, carrier *mem.Block, ai, bi func(int) int) (*mem.Block, error) {

	dst, err := result(out, mem.WithDType(carrier.Type(), boolScalar), dev)
	if err != nil {
		return nil, err
	}
	n := carrier.NumItems()
	os := dst.AsBool()

	var cmp func(i int) bool
	switch {
	case k == types.Bool:
		xa, xb := a.AsBool(), b.AsBool()
		switch op {
		case kernels.Equal, kernels.EqualN:
			cmp = func(i int) bool { return xa[ai(i)] == xb[bi(i)] }
		case kernels.NotEqual:
			cmp = func(i int) bool { return xa[ai(i)] != xb[bi(i)] }
		default:
			return nil, fmt.Errorf("%w: %q is not defined for dtype %q", ErrKernel, op, a.Type().DType())
		}
	case k.IsSigned():
		xa, xb := intAt(a, k), intAt(b, k)
		cmp = ordCmp(op, func(i int) int { return cmpOrder(xa(ai(i)), xb(bi(i))) })
	case k.IsUnsigned():
		xa, xb := uintAt(a, k), uintAt(b, k)
		cmp = ordCmp(op, func(i int) int { return cmpOrder(xa(ai(i)), xb(bi(i))) })
	default:
		xa, xb := floatAt(a, k), floatAt(b, k)
		if op == kernels.EqualN {
			// Missing-tolerant equality: NaN compares equal to NaN.
			cmp = func(i int) bool {
				x, y := xa(ai(i)), xb(bi(i))
				return x == y || (math.IsNaN(x) && math.IsNaN(y))
			}
		} else {
			cmp = ordCmp(op, func(i int) int { return cmpFloat(xa(ai(i)), xb(bi(i))) })
		}
	}

	parallel.Ranges(n, func(s, e int) {
		for i := s; i < e; i++ {
			os[i] = cmp(i)
		}
	}, cfg)
	return dst, nil
}

func cmpOrder[T int64 | uint64](x, y T) int {
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	default:
		return 0
	}
}

// cmpFloat returns 2 for unordered operands so that every comparison
// against a NaN comes out false.
func cmpFloat(x, y float64) int {
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	case x == y:
		return 0
	default:
		return 2
	}
}

func ordCmp(op kernels.BinaryOp, ord func(int) int) func(int) bool {
	switch op {
	case kernels.Equal, kernels.EqualN:
		return func(i int) bool { return ord(i) == 0 }
	case kernels.NotEqual:
		return func(i int) bool { c := ord(i); return c != 0 }
	case kernels.Less:
		return func(i int) bool { return ord(i) == -1 }
	case kernels.LessEqual:
		return func(i int) bool { c := ord(i); return c == -1 || c == 0 }
	case kernels.Greater:
		return func(i int) bool { return ord(i) == 1 }
	default:
		return func(i int) bool { c := ord(i); return c == 1 || c == 0 }
	}
}

func arith(op kernels.BinaryOp, a, b, out *mem.Block, dev device.Device,
	k types.ScalarKind, carrier *mem.Block, ai, bi func(int) int) (*mem.Block, error) {

	dst, err := result(out, carrier.Type(), dev)
	if err != nil {
		return nil, err
	}
	n := carrier.NumItems()

	switch {
	case k.IsFloat():
		f, ok := floatBinFuncs[op]
		if !ok {
			return nil, fmt.Errorf("%w: %q is not defined for dtype %q", ErrKernel, op, a.Type().DType())
		}
		if k == types.Float64 && a.Type().Equal(b.Type()) {
			if done := gonumFast(op, a.AsFloat64(), b.AsFloat64(), dst.AsFloat64()); done {
				return dst, nil
			}
		}
		xa, xb, set := floatAt(a, k), floatAt(b, k), setFloatAt(dst, k)
		parallel.Ranges(n, func(s, e int) {
			for i := s; i < e; i++ {
				set(i, f(xa(ai(i)), xb(bi(i))))
			}
		}, cfg)
		return dst, nil

	case k.IsSigned():
		if err := checkIntDivisor(op, b, k); err != nil {
			return nil, err
		}
		f, ok := intBinFuncs[op]
		if !ok {
			return nil, fmt.Errorf("%w: %q is not defined for dtype %q", ErrKernel, op, a.Type().DType())
		}
		xa, xb, set := intAt(a, k), intAt(b, k), setIntAt(dst, k)
		parallel.Ranges(n, func(s, e int) {
			for i := s; i < e; i++ {
				set(i, f(xa(ai(i)), xb(bi(i))))
			}
		}, cfg)
		return dst, nil

	case k.IsUnsigned():
		if err := checkIntDivisor(op, b, k); err != nil {
			return nil, err
		}
		f, ok := uintBinFuncs[op]
		if !ok {
			return nil, fmt.Errorf("%w: %q is not defined for dtype %q", ErrKernel, op, a.Type().DType())
		}
		xa, xb, set := uintAt(a, k), uintAt(b, k), setUintAt(dst, k)
		parallel.Ranges(n, func(s, e int) {
			for i := s; i < e; i++ {
				set(i, f(xa(ai(i)), xb(bi(i))))
			}
		}, cfg)
		return dst, nil

	case k == types.Bool:
		var f func(x, y bool) bool
		switch op {
		case kernels.BitwiseAnd:
			f = func(x, y bool) bool { return x && y }
		case kernels.BitwiseOr:
			f = func(x, y bool) bool { return x || y }
		case kernels.BitwiseXor:
			f = func(x, y bool) bool { return x != y }
		default:
			return nil, fmt.Errorf("%w: %q is not defined for dtype %q", ErrKernel, op, a.Type().DType())
		}
		xa, xb, os := a.AsBool(), b.AsBool(), dst.AsBool()
		parallel.Ranges(n, func(s, e int) {
			for i := s; i < e; i++ {
				os[i] = f(xa[ai(i)], xb[bi(i)])
			}
		}, cfg)
		return dst, nil

	default:
		return nil, fmt.Errorf("%w: %q is not defined for dtype %q", ErrKernel, op, a.Type().DType())
	}
}

// gonumFast handles the dense same-shape float64 arithmetic through
// gonum and reports whether it did.
func gonumFast(op kernels.BinaryOp, a, b, dst []float64) bool {
	switch op {
	case kernels.Add:
		floats.AddTo(dst, a, b)
	case kernels.Subtract:
		floats.SubTo(dst, a, b)
	case kernels.Multiply:
		floats.MulTo(dst, a, b)
	case kernels.Divide:
		floats.DivTo(dst, a, b)
	default:
		return false
	}
	return true
}

var floatBinFuncs = map[kernels.BinaryOp]func(x, y float64) float64{
	kernels.Add:         func(x, y float64) float64 { return x + y },
	kernels.Subtract:    func(x, y float64) float64 { return x - y },
	kernels.Multiply:    func(x, y float64) float64 { return x * y },
	kernels.Divide:      func(x, y float64) float64 { return x / y },
	kernels.FloorDivide: func(x, y float64) float64 { return math.Floor(x / y) },
	kernels.Remainder:   floorMod,
}

// floorMod is the modulo whose result takes the sign of the divisor,
// matching floor division.
func floorMod(x, y float64) float64 {
	m := math.Mod(x, y)
	if m != 0 && (m < 0) != (y < 0) {
		m += y
	}
	return m
}

var intBinFuncs = map[kernels.BinaryOp]func(x, y int64) int64{
	kernels.Add:         func(x, y int64) int64 { return x + y },
	kernels.Subtract:    func(x, y int64) int64 { return x - y },
	kernels.Multiply:    func(x, y int64) int64 { return x * y },
	kernels.Divide:      func(x, y int64) int64 { return x / y },
	kernels.FloorDivide: floorDivInt,
	kernels.Remainder:   floorModInt,
	kernels.BitwiseAnd:  func(x, y int64) int64 { return x & y },
	kernels.BitwiseOr:   func(x, y int64) int64 { return x | y },
	kernels.BitwiseXor:  func(x, y int64) int64 { return x ^ y },
}

func floorDivInt(x, y int64) int64 {
	q := x / y
	if x%y != 0 && (x < 0) != (y < 0) {
		q--
	}
	return q
}

func floorModInt(x, y int64) int64 {
	return x - floorDivInt(x, y)*y
}

var uintBinFuncs = map[kernels.BinaryOp]func(x, y uint64) uint64{
	kernels.Add:         func(x, y uint64) uint64 { return x + y },
	kernels.Subtract:    func(x, y uint64) uint64 { return x - y },
	kernels.Multiply:    func(x, y uint64) uint64 { return x * y },
	kernels.Divide:      func(x, y uint64) uint64 { return x / y },
	kernels.FloorDivide: func(x, y uint64) uint64 { return x / y },
	kernels.Remainder:   func(x, y uint64) uint64 { return x % y },
	kernels.BitwiseAnd:  func(x, y uint64) uint64 { return x & y },
	kernels.BitwiseOr:   func(x, y uint64) uint64 { return x | y },
	kernels.BitwiseXor:  func(x, y uint64) uint64 { return x ^ y },
}

// checkIntDivisor rejects integer division by zero before the parallel
// loop starts.
func checkIntDivisor(op kernels.BinaryOp, b *mem.Block, k types.ScalarKind) error {
	switch op {
	case kernels.Divide, kernels.FloorDivide, kernels.Remainder:
	default:
		return nil
	}
	n := b.NumItems()
	if k.IsSigned() {
		at := intAt(b, k)
		for i := 0; i < n; i++ {
			if at(i) == 0 {
				return fmt.Errorf("%w: integer division by zero", ErrKernel)
			}
		}
		return nil
	}
	at := uintAt(b, k)
	for i := 0; i < n; i++ {
		if at(i) == 0 {
			return fmt.Errorf("%w: integer division by zero", ErrKernel)
		}
	}
	return nil
}

// Divmod computes floor division and the matching remainder in one
// pass. Both results carry the operand dtype.
func Divmod(a, b, qout, rout *mem.Block, dev device.Device) (*mem.Block, *mem.Block, error) {
	k, carrier, ai, bi, err := binOperands(a, b)
	if err != nil {
		return nil, nil, err
	}
	q, err := result(qout, carrier.Type(), dev)
	if err != nil {
		return nil, nil, err
	}
	r, err := result(rout, carrier.Type(), dev)
	if err != nil {
		return nil, nil, err
	}
	n := carrier.NumItems()

	switch {
	case k.IsFloat():
		xa, xb := floatAt(a, k), floatAt(b, k)
		setq, setr := setFloatAt(q, k), setFloatAt(r, k)
		parallel.Ranges(n, func(s, e int) {
			for i := s; i < e; i++ {
				x, y := xa(ai(i)), xb(bi(i))
				setq(i, math.Floor(x/y))
				setr(i, floorMod(x, y))
			}
		}, cfg)
		return q, r, nil

	case k.IsSigned():
		if err := checkIntDivisor(kernels.FloorDivide, b, k); err != nil {
			return nil, nil, err
		}
		xa, xb := intAt(a, k), intAt(b, k)
		setq, setr := setIntAt(q, k), setIntAt(r, k)
		parallel.Ranges(n, func(s, e int) {
			for i := s; i < e; i++ {
				x, y := xa(ai(i)), xb(bi(i))
				setq(i, floorDivInt(x, y))
				setr(i, floorModInt(x, y))
			}
		}, cfg)
		return q, r, nil

	case k.IsUnsigned():
		if err := checkIntDivisor(kernels.FloorDivide, b, k); err != nil {
			return nil, nil, err
		}
		xa, xb := uintAt(a, k), uintAt(b, k)
		setq, setr := setUintAt(q, k), setUintAt(r, k)
		parallel.Ranges(n, func(s, e int) {
			for i := s; i < e; i++ {
				x, y := xa(ai(i)), xb(bi(i))
				setq(i, x/y)
				setr(i, x%y)
			}
		}, cfg)
		return q, r, nil

	default:
		return nil, nil, fmt.Errorf("%w: divmod is not defined for dtype %q", ErrKernel, a.Type().DType())
	}
}
