package main

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatOutcome(t *testing.T) {
	assert.Equal(t, "10", FormatOutcome([]int{0, 1}))
	assert.Equal(t, "01", FormatOutcome([]int{1, 0}))
	assert.Equal(t, "", FormatOutcome(nil))
}

func TestDecodeOutcome(t *testing.T) {
	tests := []struct {
		outcome    string
		sum, carry int
	}{
		{"00", 0, 0},
		{"01", 1, 0},
		{"10", 0, 1},
		{"11", 1, 1},
	}
	for _, tt := range tests {
		sum, carry, err := DecodeOutcome(tt.outcome)
		require.NoError(t, err, tt.outcome)
		assert.Equal(t, tt.sum, sum, "sum of %q", tt.outcome)
		assert.Equal(t, tt.carry, carry, "carry of %q", tt.outcome)
	}

	for _, bad := range []string{"", "1", "101", "1x"} {
		_, _, err := DecodeOutcome(bad)
		assert.Error(t, err, "outcome %q", bad)
	}
}

func TestCountsMode(t *testing.T) {
	tests := []struct {
		name   string
		counts Counts
		want   string
	}{
		{"single", Counts{"10": 1024}, "10"},
		{"majority", Counts{"00": 3, "01": 1021}, "01"},
		{"tie picks smallest", Counts{"11": 512, "01": 512}, "01"},
		{"three-way tie", Counts{"10": 5, "11": 5, "00": 5}, "00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.counts.Mode()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := Counts{}.Mode()
	assert.ErrorIs(t, err, ErrEmptyCounts)
}

func TestCountsString(t *testing.T) {
	c := Counts{"11": 2, "00": 1020, "01": 2}
	assert.Equal(t, "{'00': 1020, '01': 2, '11': 2}", c.String())
	assert.Equal(t, 1024, c.Total())
	if diff := cmp.Diff([]string{"00", "01", "11"}, c.Keys()); diff != "" {
		t.Errorf("Keys (-want +got):\n%s", diff)
	}
	assert.Equal(t, "{}", Counts{}.String())
}
