package device

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Device
	}{
		{name: "cpu zero", in: "cpu:0", want: Device{Name: "cpu", Index: 0}},
		{name: "cpu nonzero", in: "cpu:3", want: Device{Name: "cpu", Index: 3}},
		{name: "cuda managed", in: "cuda:managed", want: Device{Name: "cuda", Index: Managed}},
		{name: "large index", in: "gpu:128", want: Device{Name: "gpu", Index: 128}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseErrors(t *testing.T) {
	bad := []string{
		"cpu",
		"cpu:0:1",
		"",
		":0",
		"cpu:-1",
		"cpu:abc",
		"cpu:Managed",
	}

	for _, s := range bad {
		t.Run(s, func(t *testing.T) {
			_, err := Parse(s)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrBadDevice)
		})
	}
}

func TestStringRoundTrip(t *testing.T) {
	for _, s := range []string{"cpu:0", "cuda:managed", "gpu:7"} {
		d, err := Parse(s)
		require.NoError(t, err)
		assert.Equal(t, s, d.String())
	}
}

func TestManaged(t *testing.T) {
	d, err := Parse("cuda:managed")
	require.NoError(t, err)
	assert.True(t, d.IsManaged())
	assert.Equal(t, -1, d.Index)

	d, err = Parse("cpu:0")
	require.NoError(t, err)
	assert.False(t, d.IsManaged())
}

func TestOr(t *testing.T) {
	var unset Device
	assert.True(t, unset.IsZero())
	assert.Equal(t, Default, unset.Or(Default))

	d := Device{Name: "cuda", Index: Managed}
	assert.Equal(t, d, d.Or(Default))
}
