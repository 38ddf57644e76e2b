// Package realtime runs processor in a capture, process and playback loop.
//
// Audio loop is executed in its own goroutine. Control goroutines interact
// with it only with bypass and stop flags and mutations, which are applied
// between iterations. The loop doesn't lock and doesn't allocate in steady
// state.
//
// Shutdown sequence is the same for user-requested stop and failures:
// loop exits after its current iteration, then capture, playback and
// processor are closed.
package realtime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/rs/xid"

	"pipelined.dev/hance"
	"pipelined.dev/hance/mutable"
)

// ErrDevice is returned when capture or playback fails.
var ErrDevice = errors.New("device failure")

const (
	defaultFrames = 512
	// number of mutation sets that can be pushed without blocking.
	mutationsBuffer = 16
)

type (
	// Capture is a source of captured samples.
	Capture interface {
		// Read returns block of at most frames length. Returned block is
		// valid until the next call. io.EOF finishes the session.
		Read(frames int) (hance.Block, error)
		Close() error
	}

	// Playback is a destination of processed samples.
	Playback interface {
		Write(hance.Block) error
		Close() error
	}

	// Processor is a stream processor driven by the session. It's
	// implemented by *hance.Processor.
	Processor interface {
		Process(hance.Block) (hance.Block, error)
		Channels() int
		OutputChannels() int
		BlockSize() int
		Mutability() mutable.Context
		Close() error
	}
)

// Session is a realtime processing session. Session owns capture,
// playback and processor and closes them when the loop exits.
type Session struct {
	uid      string
	log      hance.Logger
	proc     Processor
	capture  Capture
	playback Playback
	frames   int
	channels int

	bypass     atomic.Bool
	stop       atomic.Bool
	started    atomic.Bool
	iterations atomic.Int64
	underruns  atomic.Int64
	overruns   atomic.Int64

	mutations chan mutable.Mutations
	fifo      *fifo
	out       []float32
	done      chan struct{}
	stopCtx   func() bool
	err       error
	closeOnce sync.Once
}

// Option provides a way to set functional parameters to session.
type Option func(s *Session) error

// WithLogger sets logger to Session. If this option is not provided,
// processor logs are not written.
func WithLogger(logger hance.Logger) Option {
	return func(s *Session) error {
		s.log = logger
		return nil
	}
}

// WithFrames sets number of frames read from capture and written to
// playback per iteration.
func WithFrames(frames int) Option {
	return func(s *Session) error {
		if frames <= 0 {
			return fmt.Errorf("invalid number of frames %d", frames)
		}
		s.frames = frames
		return nil
	}
}

// WithBypass sets initial bypass state.
func WithBypass(bypass bool) Option {
	return func(s *Session) error {
		s.bypass.Store(bypass)
		return nil
	}
}

// New creates a session. Processor must have the same number of input and
// output channels.
func New(proc Processor, capture Capture, playback Playback, options ...Option) (*Session, error) {
	s := &Session{
		uid:       xid.New().String(),
		log:       silentLogger{},
		proc:      proc,
		capture:   capture,
		playback:  playback,
		frames:    defaultFrames,
		channels:  proc.Channels(),
		mutations: make(chan mutable.Mutations, mutationsBuffer),
		done:      make(chan struct{}),
	}
	for _, option := range options {
		if err := option(s); err != nil {
			return nil, err
		}
	}
	if proc.OutputChannels() != s.channels {
		return nil, fmt.Errorf("processor outputs %d channels for %d input: %w", proc.OutputChannels(), s.channels, hance.ErrChannelMismatch)
	}
	// processor emits at most one block more than it consumes
	s.fifo = newFIFO(2 * (s.frames + proc.BlockSize()) * s.channels)
	s.out = make([]float32, s.frames*s.channels)
	return s, nil
}

// String returns session id.
func (s *Session) String() string {
	return "session " + s.uid
}

// Start runs the audio loop in a new goroutine. Cancellation of context
// requests the stop.
func (s *Session) Start(ctx context.Context) error {
	if !s.started.CompareAndSwap(false, true) {
		return fmt.Errorf("start started %v: %w", s, hance.ErrInvalidState)
	}
	s.stopCtx = context.AfterFunc(ctx, s.Stop)
	s.log.Info(fmt.Sprintf("%v started: %d channels, %d frames, bypass %v", s, s.channels, s.frames, s.bypass.Load()))
	go s.run()
	return nil
}

// Run starts the session and waits until it's done.
func (s *Session) Run(ctx context.Context) error {
	if err := s.Start(ctx); err != nil {
		return err
	}
	return s.Wait()
}

// Stop requests the loop to exit after its current iteration. It doesn't
// wait for the loop.
func (s *Session) Stop() {
	s.stop.Store(true)
}

// Wait blocks until the loop exits and all resources are closed. Returned
// error is *ErrorRun if loop or shutdown failed.
func (s *Session) Wait() error {
	if !s.started.Load() {
		return fmt.Errorf("wait not started %v: %w", s, hance.ErrInvalidState)
	}
	<-s.done
	return s.err
}

// Done returns a channel that's closed when session is finished.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// SetBypass changes bypass state. Captured samples are forwarded to
// playback unprocessed when bypass is active.
func (s *Session) SetBypass(bypass bool) {
	if s.bypass.Swap(bypass) != bypass {
		s.log.Info(fmt.Sprintf("%v bypass %v", s, bypass))
	}
}

// ToggleBypass inverts bypass state and returns the new value.
func (s *Session) ToggleBypass() bool {
	for {
		old := s.bypass.Load()
		if s.bypass.CompareAndSwap(old, !old) {
			s.log.Info(fmt.Sprintf("%v bypass %v", s, !old))
			return !old
		}
	}
}

// Bypass returns current bypass state.
func (s *Session) Bypass() bool {
	return s.bypass.Load()
}

// Iterations returns number of completed loop iterations.
func (s *Session) Iterations() int64 {
	return s.iterations.Load()
}

// Underruns returns number of frames padded with silence because
// processor output wasn't ready.
func (s *Session) Underruns() int64 {
	return s.underruns.Load()
}

// Overruns returns number of processed frames that were discarded.
func (s *Session) Overruns() int64 {
	return s.overruns.Load()
}

// Push sends mutations to the audio loop. Mutations are applied before
// the next iteration in the order they were pushed. Mutations of other
// components are ignored. Push blocks if the loop doesn't keep up and
// returns when session is done.
func (s *Session) Push(mutations ...mutable.Mutation) {
	var ms mutable.Mutations
	for _, m := range mutations {
		if m.Context == s.proc.Mutability() {
			ms = ms.Put(m)
		}
	}
	if len(ms) == 0 {
		return
	}
	select {
	case s.mutations <- ms:
	case <-s.done:
	}
}

func (s *Session) run() {
	defer close(s.done)
	var errExec error
	for !s.stop.Load() {
		if err := s.iterate(); err != nil {
			if err != io.EOF {
				errExec = err
			}
			break
		}
		s.iterations.Add(1)
	}
	s.stopCtx()

	errShutdown := s.shutdown()
	if errExec != nil || errShutdown != nil {
		s.err = &ErrorRun{
			ErrExec:     errExec,
			ErrShutdown: errShutdown,
		}
		s.log.Info(fmt.Sprintf("%v failed: %v", s, s.err))
		return
	}
	s.log.Info(fmt.Sprintf("%v stopped after %d iterations", s, s.iterations.Load()))
}

// iterate executes a single capture, process and playback cycle.
func (s *Session) iterate() error {
	if err := s.applyMutations(); err != nil {
		return err
	}

	in, err := s.capture.Read(s.frames)
	if err != nil {
		if err == io.EOF {
			return err
		}
		return fmt.Errorf("capture: %w: %w", ErrDevice, err)
	}
	frames := in.Frames()
	if frames == 0 {
		return nil
	}

	if s.bypass.Load() {
		s.fifo.reset()
		if err := s.playback.Write(in); err != nil {
			return fmt.Errorf("playback: %w: %w", ErrDevice, err)
		}
		return nil
	}

	out, err := s.proc.Process(in)
	if err != nil {
		return fmt.Errorf("process: %w", err)
	}
	if out.Channels != s.channels && !out.Empty() {
		return fmt.Errorf("processor output has %d channels, playback expects %d: %w", out.Channels, s.channels, hance.ErrChannelMismatch)
	}
	if discarded := s.fifo.write(out.Samples); discarded > 0 {
		s.overruns.Add(int64(discarded / s.channels))
	}
	play := s.out[:min(frames, s.frames)*s.channels]
	if padded := s.fifo.read(play); padded > 0 {
		s.underruns.Add(int64(padded / s.channels))
	}
	if err := s.playback.Write(hance.Block{Samples: play, Channels: s.channels}); err != nil {
		return fmt.Errorf("playback: %w: %w", ErrDevice, err)
	}
	return nil
}

// applyMutations applies all pushed mutations without blocking.
func (s *Session) applyMutations() error {
	for {
		select {
		case ms := <-s.mutations:
			if err := ms.ApplyTo(s.proc.Mutability()); err != nil {
				return fmt.Errorf("apply mutations: %w", err)
			}
		default:
			return nil
		}
	}
}

// shutdown closes capture, playback and processor exactly once.
func (s *Session) shutdown() error {
	var errs execErrors
	s.closeOnce.Do(func() {
		if err := s.capture.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close capture: %w: %w", ErrDevice, err))
		}
		if err := s.playback.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close playback: %w: %w", ErrDevice, err))
		}
		if err := s.proc.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close processor: %w", err))
		}
	})
	return errs.ret()
}

type silentLogger struct{}

func (silentLogger) Debug(args ...interface{}) {}

func (silentLogger) Info(args ...interface{}) {}
