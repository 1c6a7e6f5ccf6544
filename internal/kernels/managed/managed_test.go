package managed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plures-go/xnd/internal/device"
	"github.com/plures-go/xnd/internal/kernels"
	"github.com/plures-go/xnd/internal/mem"
	"github.com/plures-go/xnd/internal/types"
)

var cudaManaged = device.Device{Name: "cuda", Index: device.Managed}

func managedBlock(t *testing.T, v any, typ string) *mem.Block {
	t.Helper()
	b, err := mem.FromValue(v, types.MustParse(typ), cudaManaged)
	require.NoError(t, err)
	return b
}

func TestName(t *testing.T) {
	assert.Equal(t, "cuda_managed", New().Name())
}

func TestBinaryOnManagedMemory(t *testing.T) {
	a := managedBlock(t, []any{1.0, 2.0}, "2 * float64")
	b := managedBlock(t, []any{3.0, 4.0}, "2 * float64")

	out, err := New().Binary(kernels.Add, a, b, nil)
	require.NoError(t, err)
	assert.Equal(t, []float64{4, 6}, out.AsFloat64())
	assert.Equal(t, cudaManaged, out.Device())
}

func TestRejectsNonManagedOperand(t *testing.T) {
	a := managedBlock(t, []any{1.0}, "1 * float64")
	host, err := mem.FromValue([]any{1.0}, types.MustParse("1 * float64"), device.Default)
	require.NoError(t, err)

	_, err = New().Binary(kernels.Add, a, host, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not managed memory")

	_, err = New().Unary(kernels.Negative, host, nil)
	require.Error(t, err)
}

func TestUnaryResultStaysManaged(t *testing.T) {
	x := managedBlock(t, []any{-1.5}, "1 * float64")
	out, err := New().Unary(kernels.Fabs, x, nil)
	require.NoError(t, err)
	assert.Equal(t, []float64{1.5}, out.AsFloat64())
	assert.True(t, out.Device().IsManaged())
}
