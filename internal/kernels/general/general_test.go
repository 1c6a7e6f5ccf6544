package general

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plures-go/xnd/internal/device"
	"github.com/plures-go/xnd/internal/kernels"
	"github.com/plures-go/xnd/internal/mem"
	"github.com/plures-go/xnd/internal/types"
)

func TestName(t *testing.T) {
	assert.Equal(t, "general", New().Name())
}

func TestUnaryKeepsOperandDevice(t *testing.T) {
	cpu1 := device.Device{Name: "cpu", Index: 1}
	x, err := mem.FromValue([]any{1.0, 4.0}, types.MustParse("2 * float64"), cpu1)
	require.NoError(t, err)

	out, err := New().Unary(kernels.Sqrt, x, nil)
	require.NoError(t, err)
	assert.Equal(t, cpu1, out.Device())
	assert.Equal(t, []float64{1, 2}, out.AsFloat64())
}

func TestRejectsManagedOperand(t *testing.T) {
	managed := device.Device{Name: "cuda", Index: device.Managed}
	x, err := mem.FromValue([]any{1.0}, types.MustParse("1 * float64"), managed)
	require.NoError(t, err)
	y, err := mem.FromValue([]any{2.0}, types.MustParse("1 * float64"), device.Default)
	require.NoError(t, err)

	_, err = New().Binary(kernels.Add, x, y, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot reconcile devices")

	_, err = New().Unary(kernels.Negative, x, nil)
	require.Error(t, err)
}

func TestDivmod(t *testing.T) {
	a, err := mem.FromValue([]any{9}, types.MustParse("1 * int64"), device.Default)
	require.NoError(t, err)
	b, err := mem.FromValue([]any{4}, types.MustParse("1 * int64"), device.Default)
	require.NoError(t, err)

	q, r, err := New().Divmod(a, b, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, q.AsInt64())
	assert.Equal(t, []int64{1}, r.AsInt64())
}
