package signal_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"pipelined.dev/hance/signal"
)

func TestIntsAsFloats(t *testing.T) {
	tests := []struct {
		ints     []int
		size     int
		bitDepth signal.BitDepth
		expected []float32
	}{
		{
			ints:     []int{math.MaxInt16, -math.MaxInt16, 0},
			size:     3,
			bitDepth: signal.BitDepth16,
			expected: []float32{1, -1, 0},
		},
		{
			ints:     []int{1<<23 - 1, 0},
			size:     2,
			bitDepth: signal.BitDepth24,
			expected: []float32{1, 0},
		},
		{
			ints:     []int{math.MaxInt16, math.MaxInt16},
			size:     1,
			bitDepth: signal.BitDepth16,
			expected: []float32{1},
		},
		{
			ints:     nil,
			size:     4,
			expected: []float32{0, 0, 0, 0},
		},
	}

	for _, test := range tests {
		floats := make([]float32, test.size)
		n := signal.IntsAsFloats(test.ints, floats, test.bitDepth)
		assert.Equal(t, min(len(test.ints), test.size), n)
		assert.Equal(t, test.expected, floats)
	}
}

func TestFloatsAsInts(t *testing.T) {
	tests := []struct {
		floats   []float32
		bitDepth signal.BitDepth
		expected []int
	}{
		{
			floats:   []float32{1, -1, 0, 0.5},
			bitDepth: signal.BitDepth16,
			expected: []int{math.MaxInt16, -math.MaxInt16, 0, math.MaxInt16 / 2},
		},
		{
			floats:   []float32{2, -3},
			bitDepth: signal.BitDepth8,
			expected: []int{math.MaxInt8, -math.MaxInt8},
		},
		{
			floats:   []float32{},
			bitDepth: signal.BitDepth32,
			expected: []int{},
		},
	}

	for _, test := range tests {
		ints := make([]int, len(test.floats))
		signal.FloatsAsInts(test.floats, ints, test.bitDepth)
		assert.Equal(t, test.expected, ints)
	}
}

func TestDuration(t *testing.T) {
	assert.Equal(t, time.Second, signal.DurationOf(44100, 44100))
	assert.Equal(t, 500*time.Millisecond, signal.DurationOf(48000, 24000))
	assert.Equal(t, time.Duration(0), signal.DurationOf(0, 100))
	assert.Equal(t, int64(44100), signal.FramesOf(44100, time.Second))
}
