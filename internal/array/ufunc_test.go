package array

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plures-go/xnd/internal/container"
)

func TestHandleUfuncCall(t *testing.T) {
	a := arr(t, []any{1.0, 2.0, 3.0}, container.Options{})
	b := arr(t, []any{10.0, 20.0, 30.0}, container.Options{})

	res, err := HandleUfunc("add", UfuncCall, []any{a, b}, nil)
	require.NoError(t, err)
	out := res.(*Array)
	assert.Equal(t, []float64{11, 22, 33}, out.Block().AsFloat64())
	assert.Equal(t, "3 * float64", out.Type().String())
}

func TestHandleUfuncOutWritesThrough(t *testing.T) {
	a := arr(t, []any{1.0, 2.0}, container.Options{})
	b := arr(t, []any{3.0, 4.0}, container.Options{})
	out := arr(t, []any{0.0, 0.0}, container.Options{})

	res, err := HandleUfunc("multiply", UfuncCall, []any{a, b}, out)
	require.NoError(t, err)
	assert.Same(t, out, res)
	assert.Equal(t, []float64{3, 8}, out.Block().AsFloat64())
}

func TestHandleUfuncTuple(t *testing.T) {
	a := arr(t, []any{7.0, -7.0}, container.Options{})
	b := arr(t, []any{2.0, 2.0}, container.Options{})

	res, err := HandleUfunc("divmod", UfuncCall, []any{a, b}, nil)
	require.NoError(t, err)
	pair := res.([]*Array)
	require.Len(t, pair, 2)
	assert.Equal(t, []float64{3, -4}, pair[0].Block().AsFloat64())
	assert.Equal(t, []float64{1, 1}, pair[1].Block().AsFloat64())
}

func TestHandleUfuncReduceAndAccumulate(t *testing.T) {
	a := arr(t, []any{1.0, 2.0, 3.0, 4.0}, container.Options{})

	res, err := HandleUfunc("add", UfuncReduce, []any{a}, nil)
	require.NoError(t, err)
	assert.Equal(t, []float64{10}, res.(*Array).Block().AsFloat64())

	res, err = HandleUfunc("multiply", UfuncAccumulate, []any{a}, nil)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 6, 24}, res.(*Array).Block().AsFloat64())
}

func TestHandleUfuncRejectsForeignOperand(t *testing.T) {
	a := arr(t, []any{1.0}, container.Options{})

	_, err := HandleUfunc("add", UfuncCall, []any{a, 42}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrOperandType)
	assert.Contains(t, err.Error(), "int")

	ints := arr(t, []any{1, 2}, container.Options{})
	_, err = HandleUfunc("negative", UfuncCall, []any{ints}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrOperandType)
}

func TestHandleUfuncOutLengthMismatch(t *testing.T) {
	a := arr(t, []any{1.0, 2.0, 3.0}, container.Options{})
	b := arr(t, []any{1.0, 1.0, 1.0}, container.Options{})
	short := arr(t, []any{0.0}, container.Options{})

	_, err := HandleUfunc("add", UfuncCall, []any{a, b}, short)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrOperandType)

	_, err = HandleUfunc("multiply", UfuncAccumulate, []any{a}, short)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrOperandType)

	empty, err := Empty("0 * float64", "")
	require.NoError(t, err)
	_, err = HandleUfunc("add", UfuncReduce, []any{a}, empty)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrOperandType)

	_, err = HandleUfunc("negative", UfuncCall, []any{a}, empty)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrOperandType)
}

func TestHandleUfuncZeroCopy(t *testing.T) {
	a := arr(t, []any{1.0, 2.0}, container.Options{})
	b := arr(t, []any{1.0, 1.0}, container.Options{})

	res, err := HandleUfunc("add", UfuncCall, []any{a, b}, nil)
	require.NoError(t, err)
	out := res.(*Array)

	// The wrapped result borrows the foreign buffer.
	assert.True(t, out.Block().Borrowed())
}
