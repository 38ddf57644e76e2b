package hance

import "fmt"

// Reassembler accumulates blocks of arbitrary size and emits blocks of
// fixed size. It keeps at most blockSize-1 frames between submissions.
type Reassembler struct {
	blockSize int
	channels  int
	carry     []float32
	pending   int // frames in carry
}

// NewReassembler returns reassembler with pre-allocated carry buffer.
func NewReassembler(blockSize, channels int) *Reassembler {
	return &Reassembler{
		blockSize: blockSize,
		channels:  channels,
		carry:     make([]float32, blockSize*channels),
	}
}

// BlockSize returns the size of emitted blocks in frames.
func (r *Reassembler) BlockSize() int {
	return r.blockSize
}

// Pending returns number of carried frames.
func (r *Reassembler) Pending() int {
	return r.pending
}

// Submit appends samples to the carry and calls emit for every full block.
// Emitted blocks share memory with the reassembler or with b, so they are
// only valid until emit returns. Empty submission is a no-op.
func (r *Reassembler) Submit(b Block, emit func(Block) error) error {
	if len(b.Samples) == 0 {
		return nil
	}
	if b.Channels != r.channels || len(b.Samples)%r.channels != 0 {
		return fmt.Errorf("submit %d samples of %d channels to %d channels: %w", len(b.Samples), b.Channels, r.channels, ErrChannelMismatch)
	}

	frames := b.Frames()
	pos := 0
	if r.pending > 0 {
		need := r.blockSize - r.pending
		if frames < need {
			copy(r.carry[r.pending*r.channels:], b.Samples)
			r.pending += frames
			return nil
		}
		copy(r.carry[r.pending*r.channels:], b.Samples[:need*r.channels])
		r.pending = 0
		pos = need
		if err := emit(Block{Samples: r.carry, Channels: r.channels}); err != nil {
			return err
		}
	}

	// full blocks are emitted straight from the input
	for ; frames-pos >= r.blockSize; pos += r.blockSize {
		if err := emit(b.Slice(pos, r.blockSize)); err != nil {
			return err
		}
	}

	if rest := frames - pos; rest > 0 {
		copy(r.carry, b.Samples[pos*r.channels:])
		r.pending = rest
	}
	return nil
}

// Drain pads the carry with silence and emits it as a full block. It's the
// only way to emit partial input and must be used at the end of stream.
func (r *Reassembler) Drain(emit func(Block) error) error {
	if r.pending == 0 {
		return nil
	}
	clear(r.carry[r.pending*r.channels:])
	r.pending = 0
	return emit(Block{Samples: r.carry, Channels: r.channels})
}

// Reset discards carried frames.
func (r *Reassembler) Reset() {
	r.pending = 0
}
