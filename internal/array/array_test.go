package array

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plures-go/xnd/internal/container"
	"github.com/plures-go/xnd/internal/device"
)

func arr(t *testing.T, v any, opts container.Options) *Array {
	t.Helper()
	a, err := New(v, opts)
	require.NoError(t, err)
	return a
}

func TestSelectGeneral(t *testing.T) {
	cpu := device.Device{Name: "cpu", Index: 0}
	cuda := device.Device{Name: "cuda", Index: 0}
	man := device.Device{Name: "cuda", Index: device.Managed}

	assert.Equal(t, "general", Select(cpu).Name())
	assert.Equal(t, "general", Select(cpu, cuda).Name())
	// A managed operand mixed with a host operand still routes to the
	// general module, which rejects it.
	assert.Equal(t, "general", Select(cpu, man).Name())
	assert.Equal(t, "cuda_managed", Select(man).Name())
	assert.Equal(t, "cuda_managed", Select(man, man).Name())
}

func TestSelectIsStable(t *testing.T) {
	cpu := device.Device{Name: "cpu", Index: 0}
	assert.Same(t, Select(cpu), Select(cpu))
}

func TestUnaryDispatch(t *testing.T) {
	a := arr(t, []any{1.0, 4.0, 9.0}, container.Options{})
	out, err := a.Sqrt()
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3}, out.Block().AsFloat64())
	// The source is untouched.
	assert.Equal(t, []float64{1, 4, 9}, a.Block().AsFloat64())
}

func TestManagedDispatch(t *testing.T) {
	a := arr(t, []any{1.0, 2.0}, container.Options{Device: "cuda:managed"})
	b := arr(t, []any{3.0, 4.0}, container.Options{Device: "cuda:managed"})
	out, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, []float64{4, 6}, out.Block().AsFloat64())
	assert.True(t, out.Device().IsManaged())
}

func TestMixedDevicesFail(t *testing.T) {
	a := arr(t, []any{1.0}, container.Options{Device: "cuda:managed"})
	b := arr(t, []any{2.0}, container.Options{})
	_, err := a.Add(b)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot reconcile devices")
}

func TestInPlaceLaw(t *testing.T) {
	a := arr(t, []any{1, 2, 3}, container.Options{})
	b := arr(t, []any{10, 20, 30}, container.Options{})

	got, err := a.IAdd(b)
	require.NoError(t, err)
	assert.Same(t, a, got)
	assert.Same(t, a.Block(), got.Block())
	assert.Equal(t, []int64{11, 22, 33}, a.Block().AsInt64())
}

func TestComparisonsYieldBool(t *testing.T) {
	a := arr(t, []any{1, 2, 3}, container.Options{})
	b := arr(t, []any{2, 2, 2}, container.Options{})
	out, err := a.Less(b)
	require.NoError(t, err)
	assert.Equal(t, "3 * bool", out.Type().String())
	assert.Equal(t, []bool{true, false, false}, out.Block().AsBool())
}

func TestDivmod(t *testing.T) {
	a := arr(t, []any{7, -7}, container.Options{})
	b := arr(t, []any{2, 2}, container.Options{})
	q, r, err := a.Divmod(b)
	require.NoError(t, err)
	assert.Equal(t, []int64{3, -4}, q.Block().AsInt64())
	assert.Equal(t, []int64{1, 1}, r.Block().AsInt64())
}

func TestTanhAndTgammaAreDistinct(t *testing.T) {
	a := arr(t, []any{3.0}, container.Options{})

	th, err := a.Tanh()
	require.NoError(t, err)
	tg, err := a.Tgamma()
	require.NoError(t, err)

	assert.InDelta(t, 0.9950547536867305, th.Block().AsFloat64()[0], 1e-12)
	assert.InDelta(t, 2.0, tg.Block().AsFloat64()[0], 1e-12)
}

func TestUnsupportedOps(t *testing.T) {
	a := arr(t, []any{1, 2}, container.Options{})
	b := arr(t, []any{3, 4}, container.Options{})

	_, err := a.MatMul(b)
	assert.ErrorIs(t, err, ErrUnsupported)
	_, err = a.Pow(b)
	assert.ErrorIs(t, err, ErrUnsupported)
	_, err = a.IPow(b)
	assert.ErrorIs(t, err, ErrUnsupported)
	_, err = a.Lshift(b)
	assert.ErrorIs(t, err, ErrUnsupported)
	_, err = a.Rshift(b)
	assert.ErrorIs(t, err, ErrUnsupported)
	_, err = a.Abs()
	assert.ErrorIs(t, err, ErrUnsupported)
	_, err = a.Bool()
	assert.ErrorIs(t, err, ErrUnsupported)
	_, err = a.Int()
	assert.ErrorIs(t, err, ErrUnsupported)
	_, err = a.Float()
	assert.ErrorIs(t, err, ErrUnsupported)
	_, err = a.Complex()
	assert.ErrorIs(t, err, ErrUnsupported)
	_, err = a.Index()
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestPosCopies(t *testing.T) {
	a := arr(t, []any{1, 2}, container.Options{})
	p, err := a.Pos()
	require.NoError(t, err)
	assert.True(t, Equal(a, p))
	p.Block().AsInt64()[0] = 99
	assert.Equal(t, []int64{1, 2}, a.Block().AsInt64())
}
