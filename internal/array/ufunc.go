package array

import (
	"fmt"
	"math"
	"unsafe"

	"gonum.org/v1/gonum/floats"

	"github.com/plures-go/xnd/internal/mem"
	"github.com/plures-go/xnd/internal/types"
)

// The foreign bridge hands array payloads to gonum routines without
// copying. Operands must be dense float64 arrays; results come back as
// freshly wrapped arrays sharing the foreign output buffer.

// Ufunc methods mirror the foreign dispatch protocol.
const (
	UfuncCall       = "__call__"
	UfuncReduce     = "reduce"
	UfuncAccumulate = "accumulate"
)

// HandleUfunc validates that every input and output is an Array,
// exposes each as a zero-copy float64 view, dispatches op to the
// foreign engine, and wraps the result. With out given the foreign
// engine writes through the shared buffer and out is returned
// unchanged. Tuple results wrap each element independently.
func HandleUfunc(op, method string, inputs []any, out *Array) (any, error) {
	views := make([][]float64, len(inputs))
	for i, in := range inputs {
		arr, ok := in.(*Array)
		if !ok {
			return nil, fmt.Errorf("%w: %T", ErrOperandType, in)
		}
		v, err := floatView(arr)
		if err != nil {
			return nil, err
		}
		views[i] = v
	}

	var dst []float64
	if out != nil {
		v, err := floatView(out)
		if err != nil {
			return nil, fmt.Errorf("out: %w", err)
		}
		if v == nil {
			// An empty out still counts as a supplied destination.
			v = []float64{}
		}
		dst = v
	}

	results, err := foreignDispatch(op, method, views, dst)
	if err != nil {
		return nil, err
	}
	if out != nil {
		return out, nil
	}
	if len(results) == 1 {
		return wrapForeign(results[0]), nil
	}
	wrapped := make([]*Array, len(results))
	for i, r := range results {
		wrapped[i] = wrapForeign(r)
	}
	return wrapped, nil
}

// floatView exposes the array payload as a float64 slice sharing the
// underlying memory.
func floatView(a *Array) ([]float64, error) {
	t := a.Type()
	if _, ok := t.Shape(); !ok {
		return nil, fmt.Errorf("%w: ragged array %q cannot cross the foreign bridge", ErrOperandType, t)
	}
	dt := t.DType()
	if dt.Kind() != types.Scalar || dt.ScalarKind() != types.Float64 {
		return nil, fmt.Errorf("%w: foreign bridge requires float64, got %q", ErrOperandType, dt)
	}
	return a.Block().AsFloat64(), nil
}

// wrapForeign imports a foreign result buffer zero-copy.
func wrapForeign(data []float64) *Array {
	t := types.NewFixedDim(len(data), types.NewScalar(types.Float64))
	var raw []byte
	if len(data) > 0 {
		raw = unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), len(data)*8)
	}
	return fromBlock(mem.UnsafeFromBytes(raw, t))
}

// checkDst validates a caller-supplied destination against the
// expected result length before any foreign routine touches it.
func checkDst(dst []float64, want int) error {
	if dst != nil && len(dst) != want {
		return fmt.Errorf("%w: out holds %d elements, want %d", ErrOperandType, len(dst), want)
	}
	return nil
}

func foreignDispatch(op, method string, in [][]float64, dst []float64) ([][]float64, error) {
	switch method {
	case "", UfuncCall:
		return foreignCall(op, in, dst)
	case UfuncReduce:
		return foreignReduce(op, in, dst)
	case UfuncAccumulate:
		return foreignAccumulate(op, in, dst)
	default:
		return nil, fmt.Errorf("%w: ufunc method %q", ErrUnsupported, method)
	}
}

func foreignCall(op string, in [][]float64, dst []float64) ([][]float64, error) {
	switch op {
	case "negative":
		if len(in) != 1 {
			return nil, fmt.Errorf("%w: %q takes one operand", ErrUnsupported, op)
		}
		if err := checkDst(dst, len(in[0])); err != nil {
			return nil, err
		}
		if dst == nil {
			dst = make([]float64, len(in[0]))
		}
		floats.ScaleTo(dst, -1, in[0])
		return [][]float64{dst}, nil

	case "add", "subtract", "multiply", "divide":
		if len(in) != 2 {
			return nil, fmt.Errorf("%w: %q takes two operands", ErrUnsupported, op)
		}
		a, b := in[0], in[1]
		if len(a) != len(b) {
			return nil, fmt.Errorf("%w: operand lengths differ: %d vs %d", ErrOperandType, len(a), len(b))
		}
		if err := checkDst(dst, len(a)); err != nil {
			return nil, err
		}
		if dst == nil {
			dst = make([]float64, len(a))
		}
		switch op {
		case "add":
			floats.AddTo(dst, a, b)
		case "subtract":
			floats.SubTo(dst, a, b)
		case "multiply":
			floats.MulTo(dst, a, b)
		case "divide":
			floats.DivTo(dst, a, b)
		}
		return [][]float64{dst}, nil

	case "divmod":
		if len(in) != 2 {
			return nil, fmt.Errorf("%w: %q takes two operands", ErrUnsupported, op)
		}
		if dst != nil {
			return nil, fmt.Errorf("%w: %q cannot write a tuple into a single out", ErrUnsupported, op)
		}
		a, b := in[0], in[1]
		if len(a) != len(b) {
			return nil, fmt.Errorf("%w: operand lengths differ: %d vs %d", ErrOperandType, len(a), len(b))
		}
		q := make([]float64, len(a))
		r := make([]float64, len(a))
		floats.DivTo(q, a, b)
		for i := range q {
			q[i] = math.Floor(q[i])
			r[i] = a[i] - q[i]*b[i]
		}
		return [][]float64{q, r}, nil

	default:
		return nil, fmt.Errorf("%w: foreign op %q", ErrUnsupported, op)
	}
}

func foreignReduce(op string, in [][]float64, dst []float64) ([][]float64, error) {
	if len(in) != 1 {
		return nil, fmt.Errorf("%w: reduce takes one operand", ErrUnsupported)
	}
	x := in[0]
	var v float64
	switch op {
	case "add":
		v = floats.Sum(x)
	case "multiply":
		v = floats.Prod(x)
	case "maximum":
		v = floats.Max(x)
	case "minimum":
		v = floats.Min(x)
	default:
		return nil, fmt.Errorf("%w: foreign reduce %q", ErrUnsupported, op)
	}
	if err := checkDst(dst, 1); err != nil {
		return nil, err
	}
	if dst == nil {
		dst = make([]float64, 1)
	}
	dst[0] = v
	return [][]float64{dst}, nil
}

func foreignAccumulate(op string, in [][]float64, dst []float64) ([][]float64, error) {
	if len(in) != 1 {
		return nil, fmt.Errorf("%w: accumulate takes one operand", ErrUnsupported)
	}
	x := in[0]
	if err := checkDst(dst, len(x)); err != nil {
		return nil, err
	}
	if dst == nil {
		dst = make([]float64, len(x))
	}
	switch op {
	case "add":
		floats.CumSum(dst, x)
	case "multiply":
		floats.CumProd(dst, x)
	default:
		return nil, fmt.Errorf("%w: foreign accumulate %q", ErrUnsupported, op)
	}
	return [][]float64{dst}, nil
}
