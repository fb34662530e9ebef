package utils

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatBigInt(t *testing.T) {
	tests := []struct {
		name     string
		amount   *big.Int
		decimals uint8
		want     string
	}{
		{"nil", nil, 18, "0"},
		{"zero", big.NewInt(0), 18, "0"},
		{"no decimals", big.NewInt(42), 0, "42"},
		{"whole", mustBig(t, "2000000000000000000"), 18, "2"},
		{"fraction trimmed", mustBig(t, "1234500000000000000"), 18, "1.2345"},
		{"smallest unit", big.NewInt(5), 18, "0.000000000000000005"},
		{"negative", mustBig(t, "-1500000000000000000"), 18, "-1.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FormatBigInt(tt.amount, tt.decimals)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatBigInt_RoundTripsParseUnits(t *testing.T) {
	for _, s := range []string{"1", "0.5", "123.456", "0.000000000000000001"} {
		units, err := ParseUnits(s, AlphDecimals)
		require.NoError(t, err)
		got, err := FormatBigInt(units, AlphDecimals)
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
}

func TestShortenID(t *testing.T) {
	assert.Equal(t, "", ShortenID(""))
	assert.Equal(t, "short-id", ShortenID("short-id"))
	assert.Equal(t, "abcdefghij123456789", ShortenID("abcdefghij123456789"))
	assert.Equal(t, "abcdefgh...23456789", ShortenID("abcdefghij0123456789"))
	assert.Equal(t,
		"503bfb16...3fd4f0c1",
		ShortenID("503bfb16ab9b0d8a6e5e4e3f2e1d0c0b0a0908070605040302010000a3fd4f0c1"))
}

func mustBig(t *testing.T, s string) *big.Int {
	t.Helper()
	v, ok := new(big.Int).SetString(s, 10)
	require.True(t, ok, "bad test fixture %q", s)
	return v
}
