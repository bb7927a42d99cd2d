package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTicks(t *testing.T) {
	at := time.Unix(7200, 0)

	testCases := []struct {
		name     string
		at       time.Time
		unit     time.Duration
		expected int64
	}{
		{
			name:     "hour unit",
			at:       at,
			unit:     time.Hour,
			expected: 2,
		},
		{
			name:     "second unit",
			at:       at,
			unit:     time.Second,
			expected: 7200,
		},
		{
			name:     "sub-second unit",
			at:       time.Unix(10, 0),
			unit:     100 * time.Millisecond,
			expected: 100,
		},
		{
			name:     "sub-second unit with partial tick",
			at:       time.Unix(10, int64(250*time.Millisecond)),
			unit:     time.Second,
			expected: 10,
		},
		{
			name:     "zero unit",
			at:       at,
			unit:     0,
			expected: 0,
		},
		{
			name:     "negative unit",
			at:       at,
			unit:     -time.Second,
			expected: 0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Ticks(tc.at, tc.unit))
		})
	}
}

func TestTicksToDuration(t *testing.T) {
	assert.Equal(t, 3*time.Hour, TicksToDuration(3, time.Hour))
	assert.Equal(t, 500*time.Millisecond, TicksToDuration(5, 100*time.Millisecond))
	assert.Equal(t, time.Duration(0), TicksToDuration(0, time.Hour))
}
