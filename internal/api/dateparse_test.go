package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlexibleDateISO(t *testing.T) {
	got, err := ParseFlexibleDate("2026-01-05")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 1, 5, 0, 0, 0, 0, time.Local), got)
}

func TestParseFlexibleDateSlashes(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
	}{
		{"1/5/26", time.Date(2026, 1, 5, 0, 0, 0, 0, time.Local)},
		{"12/31/49", time.Date(2049, 12, 31, 0, 0, 0, 0, time.Local)},
		// Two-digit years pivot at 50.
		{"12/31/50", time.Date(1950, 12, 31, 0, 0, 0, 0, time.Local)},
		{"7/4/1999", time.Date(1999, 7, 4, 0, 0, 0, 0, time.Local)},
	}
	for _, tc := range cases {
		got, err := ParseFlexibleDate(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestParseFlexibleDateRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "tomorrow", "1/5", "1/5/26/7", "13/1/26", "2/30/26", "2026-13-01", "a/b/c"} {
		_, err := ParseFlexibleDate(in)
		assert.Error(t, err, in)
	}
}
