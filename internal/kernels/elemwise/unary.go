package elemwise

import (
	"fmt"
	"math"

	"github.com/plures-go/xnd/internal/device"
	"github.com/plures-go/xnd/internal/kernels"
	"github.com/plures-go/xnd/internal/mem"
	"github.com/plures-go/xnd/internal/parallel"
	"github.com/plures-go/xnd/internal/types"
)

// unaryFloatFuncs maps each float-valued unary operation to its math
// primitive. Operations absent here need a dtype-specific path.
var unaryFloatFuncs = map[kernels.UnaryOp]func(float64) float64{
	kernels.Round:     math.Round,
	kernels.Trunc:     math.Trunc,
	kernels.Floor:     math.Floor,
	kernels.Ceil:      math.Ceil,
	kernels.Acos:      math.Acos,
	kernels.Acosh:     math.Acosh,
	kernels.Asin:      math.Asin,
	kernels.Asinh:     math.Asinh,
	kernels.Atan:      math.Atan,
	kernels.Atanh:     math.Atanh,
	kernels.Cbrt:      math.Cbrt,
	kernels.Cos:       math.Cos,
	kernels.Cosh:      math.Cosh,
	kernels.Erf:       math.Erf,
	kernels.Erfc:      math.Erfc,
	kernels.Exp:       math.Exp,
	kernels.Exp2:      math.Exp2,
	kernels.Expm1:     math.Expm1,
	kernels.Fabs:      math.Abs,
	kernels.Lgamma:    func(x float64) float64 { v, _ := math.Lgamma(x); return v },
	kernels.Log:       math.Log,
	kernels.Log10:     math.Log10,
	kernels.Log1p:     math.Log1p,
	kernels.Log2:      math.Log2,
	kernels.Logb:      math.Logb,
	kernels.Nearbyint: math.RoundToEven,
	kernels.Sin:       math.Sin,
	kernels.Sinh:      math.Sinh,
	kernels.Sqrt:      math.Sqrt,
	kernels.Tan:       math.Tan,
	kernels.Tanh:      math.Tanh,
	kernels.Tgamma:    math.Gamma,
}

// Unary applies op elementwise to x. Results are allocated on dev
// unless out supplies the destination.
func Unary(op kernels.UnaryOp, x, out *mem.Block, dev device.Device) (*mem.Block, error) {
	k, err := operand(x)
	if err != nil {
		return nil, err
	}
	dst, err := result(out, x.Type(), dev)
	if err != nil {
		return nil, err
	}
	n := x.NumItems()

	if op == kernels.Copy {
		copy(dst.Bytes(), x.Bytes())
		return dst, nil
	}

	switch {
	case k.IsFloat():
		f, ok := unaryFloatFuncs[op]
		if op == kernels.Negative {
			f, ok = func(v float64) float64 { return -v }, true
		}
		if !ok {
			return nil, fmt.Errorf("%w: %q is not defined for dtype %q", ErrKernel, op, x.Type().DType())
		}
		at, set := floatAt(x, k), setFloatAt(dst, k)
		parallel.Ranges(n, func(s, e int) {
			for i := s; i < e; i++ {
				set(i, f(at(i)))
			}
		}, cfg)
		return dst, nil

	case k.IsSigned():
		f, err := intUnaryFunc(op)
		if err != nil {
			return nil, fmt.Errorf("%w for dtype %q", err, x.Type().DType())
		}
		at, set := intAt(x, k), setIntAt(dst, k)
		parallel.Ranges(n, func(s, e int) {
			for i := s; i < e; i++ {
				set(i, f(at(i)))
			}
		}, cfg)
		return dst, nil

	case k.IsUnsigned():
		f, err := uintUnaryFunc(op)
		if err != nil {
			return nil, fmt.Errorf("%w for dtype %q", err, x.Type().DType())
		}
		at, set := uintAt(x, k), setUintAt(dst, k)
		parallel.Ranges(n, func(s, e int) {
			for i := s; i < e; i++ {
				set(i, f(at(i)))
			}
		}, cfg)
		return dst, nil

	case k == types.Bool:
		if op != kernels.Invert {
			return nil, fmt.Errorf("%w: %q is not defined for dtype %q", ErrKernel, op, x.Type().DType())
		}
		xs, os := x.AsBool(), dst.AsBool()
		parallel.Ranges(n, func(s, e int) {
			for i := s; i < e; i++ {
				os[i] = !xs[i]
			}
		}, cfg)
		return dst, nil

	default:
		return nil, fmt.Errorf("%w: %q is not defined for dtype %q", ErrKernel, op, x.Type().DType())
	}
}

func intUnaryFunc(op kernels.UnaryOp) (func(int64) int64, error) {
	switch op {
	case kernels.Negative:
		return func(v int64) int64 { return -v }, nil
	case kernels.Invert:
		return func(v int64) int64 { return ^v }, nil
	case kernels.Round, kernels.Trunc, kernels.Floor, kernels.Ceil, kernels.Nearbyint:
		// Rounding an integer is the identity.
		return func(v int64) int64 { return v }, nil
	case kernels.Fabs:
		return func(v int64) int64 {
			if v < 0 {
				return -v
			}
			return v
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q is not defined", ErrKernel, op)
	}
}

func uintUnaryFunc(op kernels.UnaryOp) (func(uint64) uint64, error) {
	switch op {
	case kernels.Invert:
		return func(v uint64) uint64 { return ^v }, nil
	case kernels.Round, kernels.Trunc, kernels.Floor, kernels.Ceil,
		kernels.Nearbyint, kernels.Fabs:
		return func(v uint64) uint64 { return v }, nil
	default:
		return nil, fmt.Errorf("%w: %q is not defined", ErrKernel, op)
	}
}
