// Package mock provides mocks for engine and device components and allows
// to execute integration tests.
package mock

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"pipelined.dev/hance"
)

const (
	defaultBlockSize = 512
	defaultBus       = "mock"
)

// Loader mocks hance.Loader interface.
type Loader struct {
	Models      map[string]*Model
	ErrorOnLoad error
	Loads       int
}

// Load returns the model registered for the path.
func (l *Loader) Load(path string) (hance.Model, error) {
	l.Loads++
	if l.ErrorOnLoad != nil {
		return nil, fmt.Errorf("%w %s: %w", hance.ErrLoad, path, l.ErrorOnLoad)
	}
	m, ok := l.Models[path]
	if !ok {
		return nil, fmt.Errorf("%w %s: %w", hance.ErrLoad, path, os.ErrNotExist)
	}
	return m, nil
}

// Model mocks hance.Model interface. Every bus of bound engine outputs the
// input delayed by Latency frames and multiplied by the bus scale.
type Model struct {
	Buses     []string
	BlockSize int
	Latency   int
	// Withhold makes engine emit fewer frames instead of leading zeros.
	Withhold bool
	// Scale is a multiplier for each bus. Missing values are 1.
	Scale []float32
	// NeverConverge makes engine emit empty blocks.
	NeverConverge bool
	// Channels and SampleRate limit supported formats if not zero.
	Channels   int
	SampleRate float64

	Engines  []*Engine
	Released int
	Hooks
	ErrorOnBind    error
	ErrorOnRelease error
}

// NumBuses returns number of buses. Model without buses has one.
func (m *Model) NumBuses() int {
	if m.Buses == nil {
		return 1
	}
	return len(m.Buses)
}

// BusName returns the bus name.
func (m *Model) BusName(i int) string {
	if m.Buses == nil {
		return defaultBus
	}
	return m.Buses[i]
}

// Bind returns new engine for provided format.
func (m *Model) Bind(channels int, sampleRate float64) (hance.Transformer, error) {
	if m.ErrorOnBind != nil {
		return nil, m.ErrorOnBind
	}
	if (m.Channels != 0 && m.Channels != channels) || (m.SampleRate != 0 && m.SampleRate != sampleRate) {
		return nil, fmt.Errorf("%d channels at %v Hz: %w", channels, sampleRate, hance.ErrBind)
	}
	blockSize := m.BlockSize
	if blockSize == 0 {
		blockSize = defaultBlockSize
	}
	e := &Engine{
		model:     m,
		channels:  channels,
		blockSize: blockSize,
		outs:      make([]hance.Block, m.NumBuses()),
	}
	e.reset()
	m.Engines = append(m.Engines, e)
	return e, nil
}

// Release implements hance.Model.
func (m *Model) Release() error {
	m.Released++
	return m.ErrorOnRelease
}

// Engine mocks hance.Transformer. It also implements hance.Resetter,
// hance.SensitivityTuner and io.Closer.
type Engine struct {
	counter
	model       *Model
	channels    int
	blockSize   int
	delayed     []float32
	outs        []hance.Block
	Sensitivity map[int]float32
	Closed      int
}

// BlockSize implements hance.Transformer.
func (e *Engine) BlockSize() int {
	return e.blockSize
}

// Latency implements hance.Transformer. Withholding engine reports zero.
func (e *Engine) Latency() int {
	if e.model.Withhold {
		return 0
	}
	return e.model.Latency
}

// Transform implements hance.Transformer.
func (e *Engine) Transform(in hance.Block) ([]hance.Block, error) {
	if e.model.ErrorOnCall != nil {
		return nil, e.model.ErrorOnCall
	}
	if in.Frames() != e.blockSize {
		return nil, fmt.Errorf("transform %d frames, expected %d", in.Frames(), e.blockSize)
	}
	e.advance(e.blockSize)
	if e.model.NeverConverge {
		for b := range e.outs {
			e.outs[b] = hance.Block{Channels: e.channels}
		}
		return e.outs, nil
	}

	e.delayed = append(e.delayed, in.Samples...)
	frames := len(e.delayed)/e.channels - e.model.Latency
	if frames < 0 {
		frames = 0
	}
	n := frames * e.channels
	for b := range e.outs {
		samples := e.outs[b].Samples[:0]
		scale := e.scale(b)
		for _, v := range e.delayed[:n] {
			samples = append(samples, v*scale)
		}
		e.outs[b] = hance.Block{Samples: samples, Channels: e.channels}
	}
	e.delayed = append(e.delayed[:0], e.delayed[n:]...)
	return e.outs, nil
}

// Reset implements hance.Resetter.
func (e *Engine) Reset() error {
	e.model.Resetted = true
	if e.model.ErrorOnReset != nil {
		return e.model.ErrorOnReset
	}
	e.reset()
	return nil
}

// SetSensitivity implements hance.SensitivityTuner.
func (e *Engine) SetSensitivity(bus int, value float32) error {
	if e.Sensitivity == nil {
		e.Sensitivity = make(map[int]float32)
	}
	e.Sensitivity[bus] = value
	return nil
}

// Close implements io.Closer.
func (e *Engine) Close() error {
	e.Closed++
	return e.model.ErrorOnClose
}

func (e *Engine) reset() {
	e.counter.reset()
	e.delayed = e.delayed[:0]
	if !e.model.Withhold {
		e.delayed = append(e.delayed, make([]float32, e.model.Latency*e.channels)...)
	}
}

func (e *Engine) scale(bus int) float32 {
	if bus < len(e.model.Scale) {
		return e.model.Scale[bus]
	}
	return 1
}

// Capture mocks realtime.Capture interface. It returns blocks filled with
// Value until Limit frames are read. Zero Limit means no limit.
type Capture struct {
	counter
	Channels    int
	Value       float32
	Limit       int
	Interval    time.Duration
	ErrorOnRead error
	// OnRead is called after every successful read.
	OnRead func(reads int)
	Hooks
	Closed int
	buf    []float32
}

// Read returns block of requested size.
func (m *Capture) Read(frames int) (hance.Block, error) {
	if m.ErrorOnRead != nil {
		return hance.Block{}, m.ErrorOnRead
	}
	if m.Limit > 0 {
		if m.Frames >= m.Limit {
			return hance.Block{}, io.EOF
		}
		frames = min(frames, m.Limit-m.Frames)
	}
	time.Sleep(m.Interval)
	if cap(m.buf) < frames*m.Channels {
		m.buf = make([]float32, frames*m.Channels)
	}
	m.buf = m.buf[:frames*m.Channels]
	for i := range m.buf {
		m.buf[i] = m.Value
	}
	m.advance(frames)
	if m.OnRead != nil {
		m.OnRead(m.Calls)
	}
	return hance.Block{Samples: m.buf, Channels: m.Channels}, nil
}

// Close implements realtime.Capture.
func (m *Capture) Close() error {
	m.Closed++
	return m.ErrorOnClose
}

// Playback mocks realtime.Playback interface.
// Buffer is not thread-safe, so should not be checked while session is
// running.
type Playback struct {
	counter
	buffer       []float32
	Discard      bool
	ErrorOnWrite error
	Hooks
	Closed int
}

// Write appends block to the buffer.
func (m *Playback) Write(b hance.Block) error {
	if m.ErrorOnWrite != nil {
		return m.ErrorOnWrite
	}
	if !m.Discard {
		m.buffer = append(m.buffer, b.Samples...)
	}
	m.advance(b.Frames())
	return nil
}

// Close implements realtime.Playback.
func (m *Playback) Close() error {
	m.Closed++
	return m.ErrorOnClose
}

// Buffer returns playback's buffer.
func (m *Playback) Buffer() []float32 {
	return m.buffer
}

// Hooks allows to mock components hooks.
type Hooks struct {
	Resetted bool

	ErrorOnCall  error
	ErrorOnReset error
	ErrorOnClose error
}

// counter counts calls and frames.
type counter struct {
	Calls  int
	Frames int
}

// advance counter's metrics.
func (c *counter) advance(frames int) {
	c.Calls++
	c.Frames += frames
}

// reset resets counter's metrics.
func (c *counter) reset() {
	c.Calls, c.Frames = 0, 0
}

// ErrMock is a generic mock error.
var ErrMock = errors.New("mock error")
