package mem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/x448/float16"

	"github.com/plures-go/xnd/internal/device"
	"github.com/plures-go/xnd/internal/types"
)

var cpu0 = device.Device{Name: "cpu", Index: 0}

func mustBlock(t *testing.T, v any, typ string) *Block {
	t.Helper()
	b, err := FromValue(v, types.MustParse(typ), cpu0)
	require.NoError(t, err)
	return b
}

func TestFixedRoundTrip(t *testing.T) {
	b := mustBlock(t, []any{[]any{1, 2, 3}, []any{4, 5, 6}}, "2 * 3 * int64")
	want := []any{
		[]any{int64(1), int64(2), int64(3)},
		[]any{int64(4), int64(5), int64(6)},
	}
	assert.Equal(t, want, b.Value())
	assert.Equal(t, 6, b.NumItems())
	assert.Equal(t, []int64{1, 2, 3, 4, 5, 6}, b.AsInt64())
}

func TestRaggedRoundTrip(t *testing.T) {
	b := mustBlock(t, []any{[]any{1, 2, 3}, []any{4}}, "var * var * int64")
	want := []any{
		[]any{int64(1), int64(2), int64(3)},
		[]any{int64(4)},
	}
	assert.Equal(t, want, b.Value())
	assert.Equal(t, 4, b.NumItems())
}

func TestScalarBlock(t *testing.T) {
	b := mustBlock(t, 42, "int64")
	assert.Equal(t, int64(42), b.Value())
	assert.Equal(t, 1, b.NumItems())
}

func TestCategorical(t *testing.T) {
	b := mustBlock(t, []any{"a", "b", nil, "a"}, "4 * categorical('a', 'b', NA)")
	assert.Equal(t, []any{"a", "b", nil, "a"}, b.Value())
	assert.Equal(t, []uint32{0, 1, 2, 0}, b.AsUint32())
}

func TestCategoricalErrors(t *testing.T) {
	_, err := FromValue([]any{"z"}, types.MustParse("1 * categorical('a', 'b')"), cpu0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTypeMismatch)

	_, err = FromValue([]any{nil}, types.MustParse("1 * categorical('a', 'b')"), cpu0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestEmptyCategorical(t *testing.T) {
	b, err := Empty(types.MustParse("3 * categorical('x', 'y')"), cpu0)
	require.NoError(t, err)

	// The level-index view shares the buffer.
	idx := b.AsUint32()
	require.Len(t, idx, 3)
	idx[1] = 1
	assert.Equal(t, []any{"x", "y", "x"}, b.Value())
}

func TestOption(t *testing.T) {
	b := mustBlock(t, []any{1, nil, 3}, "3 * ?int64")
	assert.Equal(t, []any{int64(1), nil, int64(3)}, b.Value())
}

func TestRecord(t *testing.T) {
	v := map[string]any{"a": "xyz", "b": []any{1, 2, 3}}
	b := mustBlock(t, v, "{a : string, b : 3 * int64}")
	want := map[string]any{
		"a": "xyz",
		"b": []any{int64(1), int64(2), int64(3)},
	}
	assert.Equal(t, want, b.Value())
}

func TestArrayOfRecords(t *testing.T) {
	v := []any{
		map[string]any{"x": 1.0, "y": 2.0},
		map[string]any{"x": 3.0, "y": 4.0},
	}
	b := mustBlock(t, v, "2 * {x : float64, y : float64}")
	assert.Equal(t, []any{
		map[string]any{"x": 1.0, "y": 2.0},
		map[string]any{"x": 3.0, "y": 4.0},
	}, b.Value())
	// Columns are densely packed per field.
	assert.Equal(t, []float64{1, 3}, b.Column(0).AsFloat64())
	assert.Equal(t, []float64{2, 4}, b.Column(1).AsFloat64())
}

func TestFloat16(t *testing.T) {
	b := mustBlock(t, []any{1.5, 2.25}, "2 * float16")
	v := b.Value().([]any)
	require.Len(t, v, 2)
	assert.Equal(t, float32(1.5), v[0].(float16.Float16).Float32())
	assert.Equal(t, float32(2.25), v[1].(float16.Float16).Float32())
}

func TestStringsAndBytes(t *testing.T) {
	b := mustBlock(t, []any{"foo", "bar"}, "2 * string")
	assert.Equal(t, []any{"foo", "bar"}, b.Value())

	b = mustBlock(t, []any{[]byte{1, 2}, []byte{3}}, "2 * bytes")
	assert.Equal(t, []any{[]byte{1, 2}, []byte{3}}, b.Value())
}

func TestEmpty(t *testing.T) {
	b, err := Empty(types.MustParse("2 * 3 * float64"), cpu0)
	require.NoError(t, err)
	assert.Equal(t, 6, b.NumItems())
	assert.Equal(t, []any{
		[]any{0.0, 0.0, 0.0},
		[]any{0.0, 0.0, 0.0},
	}, b.Value())
}

func TestEmptyErrors(t *testing.T) {
	_, err := Empty(types.MustParse("var * int64"), cpu0)
	require.Error(t, err)

	_, err = Empty(types.MustParse("N * int64"), cpu0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestUnsafeFromBytes(t *testing.T) {
	b := UnsafeFromBytes([]byte("123"), types.MustParse("3 * uint8"))
	assert.True(t, b.Borrowed())
	assert.Equal(t, []any{uint8(49), uint8(50), uint8(51)}, b.Value())
}

func TestUnsafeFromBytesSharesMemory(t *testing.T) {
	data := []byte{0, 0, 0}
	b := UnsafeFromBytes(data, types.MustParse("3 * uint8"))
	data[1] = 7
	assert.Equal(t, []any{uint8(0), uint8(7), uint8(0)}, b.Value())
}

func TestCopyContiguous(t *testing.T) {
	src := mustBlock(t, []any{[]any{1, 2, 3}, []any{4}}, "var * var * int64")
	dst, err := src.CopyContiguous(nil)
	require.NoError(t, err)
	assert.True(t, Equal(src, dst))

	// Copy never aliases the source payload.
	dst2, err := mustBlock(t, []any{1, 2}, "2 * int64").CopyContiguous(nil)
	require.NoError(t, err)
	dst2.AsInt64()[0] = 99
	assert.Equal(t, []any{int64(99), int64(2)}, dst2.Value())
}

func TestCopyContiguousCast(t *testing.T) {
	src := mustBlock(t, []any{1.9, 2.1}, "2 * float64")
	dst, err := src.CopyContiguous(types.MustParse("int32"))
	require.NoError(t, err)
	assert.Equal(t, "2 * int32", dst.Type().String())
	assert.Equal(t, []any{int32(1), int32(2)}, dst.Value())
}

func TestReshapeView(t *testing.T) {
	src := mustBlock(t, []any{[]any{1, 2, 3}, []any{4, 5, 6}}, "2 * 3 * int64")
	v, err := src.Reshape([]int{3, 2}, 'C')
	require.NoError(t, err)
	assert.Equal(t, "3 * 2 * int64", v.Type().String())
	assert.Equal(t, []any{
		[]any{int64(1), int64(2)},
		[]any{int64(3), int64(4)},
		[]any{int64(5), int64(6)},
	}, v.Value())

	// The view aliases the source memory.
	v.AsInt64()[0] = 100
	assert.Equal(t, int64(100), src.AsInt64()[0])
}

func TestReshapeIdentity(t *testing.T) {
	src := mustBlock(t, []any{[]any{1, 2, 3}, []any{4, 5, 6}}, "2 * 3 * int64")
	same, err := src.Reshape([]int{2, 3}, 0)
	require.NoError(t, err)
	assert.True(t, Equal(src, same))
	assert.True(t, src.Type().Equal(same.Type()))
}

func TestReshapeFortran(t *testing.T) {
	src := mustBlock(t, []any{[]any{1, 2, 3}, []any{4, 5, 6}}, "2 * 3 * int64")
	out, err := src.Reshape([]int{3, 2}, 'F')
	require.NoError(t, err)
	// Fortran enumeration of [[1,2,3],[4,5,6]] reads 1,4,2,5,3,6 and
	// refills a 3x2 block column-first.
	assert.Equal(t, []any{
		[]any{int64(1), int64(5)},
		[]any{int64(4), int64(3)},
		[]any{int64(2), int64(6)},
	}, out.Value())
}

func TestReshapeErrors(t *testing.T) {
	src := mustBlock(t, []any{1, 2, 3}, "3 * int64")
	_, err := src.Reshape([]int{2, 2}, 'C')
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTypeMismatch)

	_, err = src.Reshape([]int{3}, 'X')
	require.Error(t, err)

	ragged := mustBlock(t, []any{[]any{1}, []any{2, 3}}, "var * var * int64")
	_, err = ragged.Reshape([]int{3}, 'C')
	require.Error(t, err)
}

func TestConstructionErrors(t *testing.T) {
	tests := []struct {
		name string
		v    any
		typ  string
	}{
		{name: "shape mismatch", v: []any{1, 2}, typ: "3 * int64"},
		{name: "not a sequence", v: 1, typ: "3 * int64"},
		{name: "nil non-option", v: []any{1, nil}, typ: "2 * int64"},
		{name: "string as int", v: []any{"x"}, typ: "1 * int64"},
		{name: "float as int", v: []any{1.5}, typ: "1 * int64"},
		{name: "uint8 overflow", v: []any{300}, typ: "1 * uint8"},
		{name: "abstract type", v: []any{1}, typ: "N * int64"},
		{name: "missing record field", v: map[string]any{"a": 1}, typ: "{a : int64, b : int64}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromValue(tt.v, types.MustParse(tt.typ), cpu0)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrTypeMismatch)
		})
	}
}

func TestIntIntoFloatPromotes(t *testing.T) {
	b := mustBlock(t, []any{1, 2}, "2 * float64")
	assert.Equal(t, []any{1.0, 2.0}, b.Value())
}
