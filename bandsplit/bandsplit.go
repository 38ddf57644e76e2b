// Package bandsplit is an in-process enhancement engine that splits audio
// into frequency bands with Linkwitz-Riley crossovers. Every band is an
// output bus. Engine processes fixed-size blocks and delays the output by
// the configured latency, so it behaves like a block-based model.
package bandsplit

import (
	"fmt"
	"slices"

	"github.com/cwbudde/algo-dsp/dsp/delay"
	"github.com/cwbudde/algo-dsp/dsp/filter/crossover"

	"pipelined.dev/hance"
)

type (
	// Model is a loaded band-split model.
	Model struct {
		descriptor Descriptor
		released   bool
	}

	// Engine is a band-split transformer bound to the audio format.
	Engine struct {
		blockSize int
		latency   int
		channels  int
		lines     []*delay.Line
		splits    [][]*crossover.Crossover // stages per channel
		gains     []float64
		outs      []hance.Block
	}
)

// NewModel returns model for the descriptor. Descriptor must be valid.
func NewModel(d Descriptor) *Model {
	return &Model{descriptor: d}
}

// Descriptor returns model descriptor.
func (m *Model) Descriptor() Descriptor {
	return m.descriptor
}

// NumBuses returns number of bands.
func (m *Model) NumBuses() int {
	return len(m.descriptor.Buses)
}

// BusName returns the name of the band.
func (m *Model) BusName(i int) string {
	return m.descriptor.Buses[i].Name
}

// Bind creates engine for the format.
func (m *Model) Bind(channels int, sampleRate float64) (hance.Transformer, error) {
	d := m.descriptor
	if m.released {
		return nil, fmt.Errorf("model %s is released: %w", d.Name, hance.ErrBind)
	}
	if d.MaxChannels > 0 && channels > d.MaxChannels {
		return nil, fmt.Errorf("model %s supports up to %d channels, got %d: %w", d.Name, d.MaxChannels, channels, hance.ErrBind)
	}
	if len(d.SampleRates) > 0 && !slices.Contains(d.SampleRates, sampleRate) {
		return nil, fmt.Errorf("model %s doesn't support %v Hz: %w", d.Name, sampleRate, hance.ErrBind)
	}

	e := &Engine{
		blockSize: d.BlockSize,
		latency:   d.Latency,
		channels:  channels,
		lines:     make([]*delay.Line, channels),
		splits:    make([][]*crossover.Crossover, channels),
		gains:     make([]float64, len(d.Buses)),
		outs:      make([]hance.Block, len(d.Buses)),
	}
	for c := 0; c < channels; c++ {
		line, err := delay.New(d.Latency + 1)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", hance.ErrBind, err)
		}
		e.lines[c] = line
		if len(d.Buses) == 1 {
			continue
		}
		split, err := crossover.NewMultiBand(d.cutoffs(), d.Order, sampleRate)
		if err != nil {
			return nil, fmt.Errorf("model %s at %v Hz: %w: %w", d.Name, sampleRate, hance.ErrBind, err)
		}
		e.splits[c] = split.Stages()
	}
	for b := range e.outs {
		e.gains[b] = 1
		e.outs[b] = hance.Silence(d.BlockSize, channels)
	}
	return e, nil
}

// Release marks model as released. Bound engines keep working, but new
// engines cannot be bound.
func (m *Model) Release() error {
	m.released = true
	return nil
}

// BlockSize returns number of frames per transform.
func (e *Engine) BlockSize() int {
	return e.blockSize
}

// Latency returns number of leading silent frames.
func (e *Engine) Latency() int {
	return e.latency
}

// Transform splits the block into bands.
func (e *Engine) Transform(in hance.Block) ([]hance.Block, error) {
	if in.Frames() != e.blockSize || in.Channels != e.channels {
		return nil, fmt.Errorf("transform %d frames of %d channels, expected %d of %d", in.Frames(), in.Channels, e.blockSize, e.channels)
	}
	last := len(e.outs) - 1
	for f := 0; f < e.blockSize; f++ {
		for c := 0; c < e.channels; c++ {
			pos := f*e.channels + c
			// read the sample written latency frames ago
			e.lines[c].Write(float64(in.Samples[pos]))
			remainder := e.lines[c].Read(e.latency + 1)
			for b, stage := range e.splits[c] {
				lo, hi := stage.ProcessSample(remainder)
				e.outs[b].Samples[pos] = float32(lo * e.gains[b])
				remainder = hi
			}
			e.outs[last].Samples[pos] = float32(remainder * e.gains[last])
		}
	}
	return e.outs, nil
}

// Reset clears filter and delay states.
func (e *Engine) Reset() error {
	for c := range e.lines {
		e.lines[c].Reset()
		for _, stage := range e.splits[c] {
			stage.Reset()
		}
	}
	return nil
}

// SetSensitivity sets band gain. Zero sensitivity is unity gain, minimal
// sensitivity mutes the band and maximal doubles it.
func (e *Engine) SetSensitivity(bus int, value float32) error {
	if bus < 0 || bus >= len(e.gains) {
		return fmt.Errorf("band %d of %d: %w", bus, len(e.gains), hance.ErrOutOfRange)
	}
	e.gains[bus] = 1 + float64(value)/hance.MaxSensitivity
	return nil
}
