package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	valid := map[string]int64{
		"10":         1000,
		"10.00":      1000,
		"10.5":       1050,
		"0.01":       1,
		"0":          0,
		" 12.34 ":    1234,
		"1234567.89": 123456789,

		"92233720368547758.07": 9223372036854775807,
	}
	for in, want := range valid {
		got, err := ParseAmount(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, in := range []string{"", "abc", "-1.00", "10.001", "1e-3"} {
		_, err := ParseAmount(in)
		assert.ErrorIs(t, err, ErrInvalidAmount, in)
	}
}

func TestParseAmount_RejectsOverflow(t *testing.T) {
	for _, in := range []string{"100000000000000000000", "92233720368547758.08", "1e30"} {
		_, err := ParseAmount(in)
		assert.ErrorIs(t, err, ErrInvalidAmount, in)
	}
}
