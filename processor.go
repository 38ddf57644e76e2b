package hance

import (
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/rs/xid"

	"pipelined.dev/hance/metric"
	"pipelined.dev/hance/mutable"
)

// Logger is a global interface for processor loggers.
type Logger interface {
	Debug(...interface{})
	Info(...interface{})
}

// defaultFlushLimit is a duration of silence fed into engine at the end of
// stream if WithFlushLimit option isn't provided.
const defaultFlushLimit = 10 * time.Second

// Processor streams blocks of arbitrary size through the enhancement
// engine. It re-chunks input to the engine block size, routes engine
// buses and drains engine latency at the end of stream.
//
// Processor must be used by a single goroutine. State and Frames can be
// called concurrently. Bus configuration from other goroutines should be
// done with mutations.
type Processor struct {
	uid        string
	name       string
	log        Logger
	mutability mutable.Context

	model       Model
	ownsModel   bool
	transformer Transformer
	channels    int
	sampleRate  float64
	blockSize   int
	latency     int

	reassembler *Reassembler
	router      *Router
	flushLimit  time.Duration
	silence     Block

	state     atomic.Int32
	submitted atomic.Int64
	emitted   atomic.Int64
	finished  bool
	released  bool
	preRoll   int       // leading frames that are still to be discarded
	out       []float32 // reused output buffer

	metric   bool
	measures [2]metric.MeasureFunc // input and output
}

// New binds the model to the audio format and returns processor in Idle
// state. The model is not released when processor is closed.
func New(model Model, channels int, sampleRate float64, options ...Option) (*Processor, error) {
	if channels <= 0 || sampleRate <= 0 {
		return nil, fmt.Errorf("%d channels at %v Hz: %w", channels, sampleRate, ErrBind)
	}
	numBuses := model.NumBuses()
	if numBuses <= 0 {
		return nil, fmt.Errorf("model without output buses: %w", ErrBind)
	}
	transformer, err := model.Bind(channels, sampleRate)
	if err != nil {
		if !errors.Is(err, ErrBind) {
			err = fmt.Errorf("%w: %w", ErrBind, err)
		}
		return nil, err
	}

	names := make([]string, numBuses)
	for i := range names {
		names[i] = model.BusName(i)
	}
	p := &Processor{
		uid:         xid.New().String(),
		log:         defaultLogger,
		mutability:  mutable.Mutable(),
		model:       model,
		transformer: transformer,
		channels:    channels,
		sampleRate:  sampleRate,
		blockSize:   transformer.BlockSize(),
		latency:     transformer.Latency(),
		router:      NewRouter(names...),
		flushLimit:  defaultFlushLimit,
	}
	if p.blockSize <= 0 || p.latency < 0 {
		err = fmt.Errorf("engine block size %d and latency %d: %w", p.blockSize, p.latency, ErrBind)
		return nil, execErrors{err}.append(closeTransformer(transformer)).ret()
	}
	for _, option := range options {
		if err := option(p); err != nil {
			return nil, execErrors{err}.append(closeTransformer(transformer)).ret()
		}
	}
	p.reassembler = NewReassembler(p.blockSize, channels)
	p.preRoll = p.latency
	p.out = make([]float32, 0, p.blockSize*channels*numBuses)
	p.log.Debug(fmt.Sprintf("%v created: %d channels at %v Hz, block size %d, latency %d, buses %v", p, channels, sampleRate, p.blockSize, p.latency, names))
	return p, nil
}

// Create loads the model and creates processor. Loaded model is owned by
// processor and released when processor is closed.
func Create(loader Loader, path string, channels int, sampleRate float64, options ...Option) (*Processor, error) {
	model, err := loader.Load(path)
	if err != nil {
		if !errors.Is(err, ErrLoad) {
			err = fmt.Errorf("%w %s: %w", ErrLoad, path, err)
		}
		return nil, err
	}
	p, err := New(model, channels, sampleRate, options...)
	if err != nil {
		return nil, execErrors{err}.append(model.Release()).ret()
	}
	p.ownsModel = true
	return p, nil
}

// String returns processor name if it's set and unique id otherwise.
func (p *Processor) String() string {
	if p.name != "" {
		return p.name
	}
	return p.uid
}

// ID returns unique id of processor.
func (p *Processor) ID() string {
	return p.uid
}

// Mutability returns mutable context of processor. Mutations returned by
// VolumeMutation and other builders are bound to it.
func (p *Processor) Mutability() mutable.Context {
	return p.mutability
}

// State returns current processor state.
func (p *Processor) State() State {
	return State(p.state.Load())
}

// Frames returns number of frames submitted to and emitted by processor
// since stream start.
func (p *Processor) Frames() (submitted, emitted int64) {
	return p.submitted.Load(), p.emitted.Load()
}

// Channels returns number of input channels.
func (p *Processor) Channels() int {
	return p.channels
}

// OutputChannels returns number of output channels for current mode.
func (p *Processor) OutputChannels() int {
	return p.router.Channels(p.channels)
}

// SampleRate returns sample rate processor is bound to.
func (p *Processor) SampleRate() float64 {
	return p.sampleRate
}

// BlockSize returns engine block size in frames.
func (p *Processor) BlockSize() int {
	return p.blockSize
}

// Latency returns engine latency in frames.
func (p *Processor) Latency() int {
	return p.latency
}

// Process submits the block and returns routed output of all full engine
// blocks completed by this submission. Output size is not related to the
// input size and is often empty. Returned block is valid until the next
// call to processor.
func (p *Processor) Process(in Block) (Block, error) {
	switch p.State() {
	case Draining, Closed:
		return Block{}, fmt.Errorf("process in %v state: %w", p.State(), ErrInvalidState)
	case Idle:
		p.start()
	}

	p.out = p.out[:0]
	if err := p.reassembler.Submit(in, p.transform); err != nil {
		if errors.Is(err, ErrChannelMismatch) {
			return Block{}, err
		}
		return Block{}, p.fail(err)
	}
	frames := int64(in.Frames())
	p.submitted.Add(frames)
	out := p.output()
	if p.metric {
		p.measures[0](frames)
		p.measures[1](int64(out.Frames()))
	}
	return out, nil
}

// Finish drains engine latency and returns the trailing output. After
// Finish the total number of emitted frames equals to the number of
// submitted frames. Processor is closed for processing after this call,
// but it still must be closed to release the engine. Subsequent calls
// return empty block.
func (p *Processor) Finish() (Block, error) {
	if p.finished {
		return Block{Channels: p.OutputChannels()}, nil
	}
	if p.State() == Closed {
		return Block{}, fmt.Errorf("finish in %v state: %w", Closed, ErrInvalidState)
	}
	p.setState(Draining)
	p.out = p.out[:0]
	if err := p.flush(); err != nil {
		return Block{}, p.fail(err)
	}
	p.finished = true
	p.setState(Closed)
	return p.output(), nil
}

// Reset clears engine state and frame counters and moves processor to
// Idle state. Bus configuration is preserved.
func (p *Processor) Reset() error {
	if p.State() == Closed {
		return fmt.Errorf("reset in %v state: %w", Closed, ErrInvalidState)
	}
	if r, ok := p.transformer.(Resetter); ok {
		if err := r.Reset(); err != nil {
			return p.fail(fmt.Errorf("reset engine: %w", err))
		}
	}
	p.reassembler.Reset()
	p.submitted.Store(0)
	p.emitted.Store(0)
	p.preRoll = p.latency
	p.out = p.out[:0]
	p.setState(Idle)
	return nil
}

// Close releases the engine. If processor was created with Create, the
// model is released as well. Close can be called multiple times.
func (p *Processor) Close() error {
	p.setState(Closed)
	if p.released {
		return nil
	}
	p.released = true
	var errs execErrors
	errs = errs.append(closeTransformer(p.transformer))
	if p.ownsModel {
		if err := p.model.Release(); err != nil {
			errs = append(errs, fmt.Errorf("release model: %w", err))
		}
	}
	if err := errs.ret(); err != nil {
		p.log.Info(fmt.Sprintf("%v failed to close: %v", p, err))
		return err
	}
	return nil
}

// start is called when the first block is processed.
func (p *Processor) start() {
	if p.metric && p.measures[0] == nil {
		sr := int(p.sampleRate)
		p.measures[0] = metric.Meter(p.String()+".input", sr)()
		p.measures[1] = metric.Meter(p.String()+".output", sr)()
	}
	p.setState(Active)
}

// fail moves processor to closed state. Any engine failure is fatal.
func (p *Processor) fail(err error) error {
	p.setState(Closed)
	p.log.Info(fmt.Sprintf("%v failed: %v", p, err))
	return err
}

// transform runs engine over a full block and appends routed output with
// pre-roll frames discarded.
func (p *Processor) transform(in Block) error {
	outs, err := p.transformer.Transform(in)
	if err != nil {
		return fmt.Errorf("transform block: %w", err)
	}
	start := len(p.out)
	if p.out, err = p.router.Route(outs, p.out); err != nil {
		return err
	}
	channels := p.router.Channels(p.channels)
	frames := (len(p.out) - start) / channels
	if p.preRoll > 0 && frames > 0 {
		skip := min(p.preRoll, frames)
		n := copy(p.out[start:], p.out[start+skip*channels:])
		p.out = p.out[:start+n]
		p.preRoll -= skip
		frames -= skip
	}
	p.emitted.Add(int64(frames))
	return nil
}

func (p *Processor) output() Block {
	return Block{
		Samples:  p.out,
		Channels: p.router.Channels(p.channels),
	}
}

func closeTransformer(t Transformer) error {
	if c, ok := t.(io.Closer); ok {
		if err := c.Close(); err != nil {
			return fmt.Errorf("close engine: %w", err)
		}
	}
	return nil
}

type silentLogger struct{}

func (silentLogger) Debug(args ...interface{}) {}

func (silentLogger) Info(args ...interface{}) {}

var defaultLogger silentLogger
