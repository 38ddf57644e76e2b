package hance_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pipelined.dev/hance"
)

// ramp returns block where every sample of frame i equals to offset+i.
func ramp(offset, frames, channels int) hance.Block {
	b := hance.Silence(frames, channels)
	for i := 0; i < frames; i++ {
		for c := 0; c < channels; c++ {
			b.Samples[i*channels+c] = float32(offset + i)
		}
	}
	return b
}

func TestReassembler(t *testing.T) {
	var tests = []struct {
		name        string
		blockSize   int
		channels    int
		submissions []int
		blocks      int
		pending     int
	}{
		{
			name:        "shorter than block",
			blockSize:   512,
			channels:    2,
			submissions: []int{1000},
			blocks:      1,
			pending:     488,
		},
		{
			name:        "exact blocks",
			blockSize:   10,
			channels:    1,
			submissions: []int{10, 20},
			blocks:      3,
			pending:     0,
		},
		{
			name:        "carry completes block",
			blockSize:   10,
			channels:    2,
			submissions: []int{3, 3, 3, 3},
			blocks:      1,
			pending:     2,
		},
		{
			name:        "empty submissions",
			blockSize:   4,
			channels:    1,
			submissions: []int{0, 3, 0, 0},
			blocks:      0,
			pending:     3,
		},
		{
			name:        "single frame blocks",
			blockSize:   1,
			channels:    3,
			submissions: []int{5, 1, 0},
			blocks:      6,
			pending:     0,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			r := hance.NewReassembler(test.blockSize, test.channels)
			var (
				emitted = []float32{}
				blocks  int
				offset  int
			)
			emit := func(b hance.Block) error {
				assert.Equal(t, test.blockSize, b.Frames())
				assert.Equal(t, test.channels, b.Channels)
				emitted = append(emitted, b.Samples...)
				blocks++
				return nil
			}
			for _, frames := range test.submissions {
				assert.Nil(t, r.Submit(ramp(offset, frames, test.channels), emit))
				offset += frames
				assert.Less(t, r.Pending(), test.blockSize)
			}
			assert.Equal(t, test.blocks, blocks)
			assert.Equal(t, test.pending, r.Pending())
			// emitted frames are the input prefix in order
			assert.Equal(t, ramp(0, blocks*test.blockSize, test.channels).Samples, emitted)
		})
	}
}

func TestReassemblerDrain(t *testing.T) {
	r := hance.NewReassembler(4, 1)
	var emitted []float32
	emit := func(b hance.Block) error {
		emitted = append(emitted, b.Samples...)
		return nil
	}
	assert.Nil(t, r.Submit(hance.Block{Samples: []float32{1, 2, 3, 4, 5, 6}, Channels: 1}, emit))
	assert.Nil(t, r.Drain(emit))
	assert.Equal(t, []float32{1, 2, 3, 4, 5, 6, 0, 0}, emitted)
	assert.Equal(t, 0, r.Pending())

	// nothing to drain
	assert.Nil(t, r.Drain(emit))
	assert.Equal(t, 8, len(emitted))
}

func TestReassemblerErrors(t *testing.T) {
	r := hance.NewReassembler(4, 2)
	err := r.Submit(hance.Block{Samples: []float32{1, 2, 3}, Channels: 1}, nil)
	assert.ErrorIs(t, err, hance.ErrChannelMismatch)
	err = r.Submit(hance.Block{Samples: []float32{1, 2, 3}, Channels: 2}, nil)
	assert.ErrorIs(t, err, hance.ErrChannelMismatch)

	errEmit := assert.AnError
	err = r.Submit(ramp(0, 5, 2), func(hance.Block) error { return errEmit })
	assert.ErrorIs(t, err, errEmit)

	r.Reset()
	assert.Equal(t, 0, r.Pending())
}
