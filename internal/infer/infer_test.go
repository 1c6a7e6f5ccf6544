package infer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plures-go/xnd/internal/types"
)

func typeOf(t *testing.T, v any) string {
	t.Helper()
	typ, err := TypeOf(v, nil, true)
	require.NoError(t, err)
	return typ.String()
}

func TestScalars(t *testing.T) {
	tests := []struct {
		name string
		v    any
		want string
	}{
		{name: "int", v: 1, want: "int64"},
		{name: "int64", v: int64(1), want: "int64"},
		{name: "int32", v: int32(1), want: "int32"},
		{name: "uint8", v: uint8(1), want: "uint8"},
		{name: "float64", v: 1.5, want: "float64"},
		{name: "float32", v: float32(1.5), want: "float32"},
		{name: "bool", v: true, want: "bool"},
		{name: "string", v: "xyz", want: "string"},
		{name: "bytes", v: []byte("xyz"), want: "bytes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, typeOf(t, tt.v))
		})
	}
}

func TestFixedArrays(t *testing.T) {
	assert.Equal(t, "3 * int64", typeOf(t, []int64{1, 2, 3}))
	assert.Equal(t, "3 * int64", typeOf(t, []any{1, 2, 3}))
	assert.Equal(t, "2 * 3 * int64", typeOf(t, []any{[]any{1, 2, 3}, []any{4, 5, 6}}))
	assert.Equal(t, "2 * 3 * int64", typeOf(t, [][]int64{{1, 2, 3}, {4, 5, 6}}))
	assert.Equal(t, "2 * 2 * 2 * float64", typeOf(t, [][][]float64{{{1, 2}, {3, 4}}, {{5, 6}, {7, 8}}}))
}

func TestRaggedArrays(t *testing.T) {
	// A single ragged level makes every dimension ragged.
	assert.Equal(t, "var * var * int64", typeOf(t, []any{[]any{1, 2, 3}, []any{4}}))
	assert.Equal(t, "var * var * int64", typeOf(t, [][]int64{{1, 2, 3}, {4}}))
	assert.Equal(t, "var * var * var * int64", typeOf(t, []any{
		[]any{[]any{1, 2}, []any{3}},
		[]any{[]any{4, 5, 6}},
	}))
}

func TestRecords(t *testing.T) {
	// Map keys are ordered deterministically (sorted).
	got := typeOf(t, map[string]any{"b": []any{1, 2, 3}, "a": "xyz"})
	assert.Equal(t, "{a : string, b : 3 * int64}", got)
}

func TestMissingValues(t *testing.T) {
	assert.Equal(t, "3 * ?int64", typeOf(t, []any{1, nil, 3}))
	assert.Equal(t, "2 * 2 * ?float64", typeOf(t, []any{[]any{1.0, nil}, []any{3.0, 4.0}}))
}

func TestScalarPromotion(t *testing.T) {
	assert.Equal(t, "3 * float64", typeOf(t, []any{1, 2.5, 3}))
	assert.Equal(t, "2 * int64", typeOf(t, []any{int32(1), int64(2)}))
	assert.Equal(t, "2 * float64", typeOf(t, []any{float32(1), 2.0}))
}

func TestDTypeHint(t *testing.T) {
	hint := types.MustParse("int32")
	typ, err := TypeOf([]any{[]any{1, 2, 3}, []any{4, 5, 6}}, hint, false)
	require.NoError(t, err)
	assert.Equal(t, "2 * 3 * int32", typ.String())

	// Bare nil is typable only with a dtype.
	typ, err = TypeOf(nil, hint, false)
	require.NoError(t, err)
	assert.Equal(t, "?int32", typ.String())

	_, err = TypeOf(nil, nil, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInfer)
}

func TestShortcutMatchesGeneral(t *testing.T) {
	values := []any{
		[]int64{1, 2, 3},
		[]float64{1, 2},
		[]bool{true, false},
		[]string{"a", "b"},
	}

	for _, v := range values {
		fast, err := TypeOf(v, nil, true)
		require.NoError(t, err)
		slow, err := TypeOf(v, nil, false)
		require.NoError(t, err)
		assert.True(t, fast.Equal(slow), "shortcut %q != general %q", fast, slow)
	}
}

func TestErrors(t *testing.T) {
	cases := []struct {
		name string
		v    any
	}{
		{name: "empty sequence", v: []any{}},
		{name: "all nil", v: []any{nil, nil}},
		{name: "string and int", v: []any{"a", 1}},
		{name: "unsupported host type", v: struct{}{}},
		{name: "mismatched records", v: []any{
			map[string]any{"a": 1},
			map[string]any{"b": 1},
		}},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			_, err := TypeOf(tt.v, nil, false)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInfer)
		})
	}
}
