package hance

// Block is a sequence of interleaved samples. Stereo audio is stored as
// "left 1", "right 1", "left 2" and so on.
type Block struct {
	Samples  []float32
	Channels int
}

// Frames returns the number of frames in the block.
func (b Block) Frames() int {
	if b.Channels <= 0 {
		return 0
	}
	return len(b.Samples) / b.Channels
}

// Empty returns true if block has no frames.
func (b Block) Empty() bool {
	return b.Frames() == 0
}

// Slice returns a block that shares samples with b, starting at frame
// start with at most frames length. Out of range values are trimmed.
func (b Block) Slice(start, frames int) Block {
	total := b.Frames()
	if start < 0 {
		start = 0
	}
	if start >= total || frames <= 0 {
		return Block{Channels: b.Channels}
	}
	end := start + frames
	if end > total {
		end = total
	}
	return Block{
		Samples:  b.Samples[start*b.Channels : end*b.Channels],
		Channels: b.Channels,
	}
}

// Silence returns a new zero-filled block.
func Silence(frames, channels int) Block {
	return Block{
		Samples:  make([]float32, frames*channels),
		Channels: channels,
	}
}
