package xnd_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plures-go/xnd/types"
	"github.com/plures-go/xnd/xnd"
)

func TestConstructAndRoundTrip(t *testing.T) {
	c, err := xnd.New([]any{[]any{1, 2, 3}, []any{4, 5, 6}}, xnd.Options{})
	require.NoError(t, err)
	assert.Equal(t, "2 * 3 * int64", c.Type().String())
	assert.Equal(t, []any{
		[]any{int64(1), int64(2), int64(3)},
		[]any{int64(4), int64(5), int64(6)},
	}, c.Value())
}

func TestHintExclusivity(t *testing.T) {
	_, err := xnd.New([]any{1}, xnd.Options{Type: "1 * int64", DType: "int64"})
	assert.ErrorIs(t, err, xnd.ErrConflictingHints)
}

func TestDeviceParsing(t *testing.T) {
	d, err := xnd.ParseDevice("cuda:managed")
	require.NoError(t, err)
	assert.Equal(t, xnd.Device{Name: "cuda", Index: xnd.Managed}, d)

	_, err = xnd.ParseDevice("cuda:0:1")
	assert.ErrorIs(t, err, xnd.ErrBadDevice)
}

func TestTypeOf(t *testing.T) {
	got, err := xnd.TypeOf([]any{[]any{1.0}, []any{2.0, 3.0}}, nil)
	require.NoError(t, err)
	assert.Equal(t, "var * var * float64", got.String())

	dt := types.MustParse("int32")
	got, err = xnd.TypeOf([]any{1, 2}, dt)
	require.NoError(t, err)
	assert.Equal(t, "2 * int32", got.String())
}

func TestUnsafeFromBuffer(t *testing.T) {
	c, err := xnd.UnsafeFromBuffer([]byte("123"), "3 * uint8")
	require.NoError(t, err)
	assert.Equal(t, []any{uint8(49), uint8(50), uint8(51)}, c.Value())
}
