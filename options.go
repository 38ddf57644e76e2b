package hance

import (
	"fmt"
	"time"
)

// Option provides a way to set functional parameters to processor.
type Option func(p *Processor) error

// WithLogger sets logger to Processor. If this option is not provided,
// silent logger is used.
func WithLogger(logger Logger) Option {
	return func(p *Processor) error {
		p.log = logger
		return nil
	}
}

// WithName sets name to Processor.
func WithName(n string) Option {
	return func(p *Processor) error {
		p.name = n
		return nil
	}
}

// WithMode sets initial routing mode.
func WithMode(m Mode) Option {
	return func(p *Processor) error {
		return p.router.SetMode(m)
	}
}

// WithSelectedBus sets the bus used in Select mode.
func WithSelectedBus(bus int) Option {
	return func(p *Processor) error {
		return p.router.Select(bus)
	}
}

// WithFlushLimit sets the duration of silence which is fed into engine at
// the end of stream before it's considered not converging. Engine latency
// is always added on top of the limit.
func WithFlushLimit(d time.Duration) Option {
	return func(p *Processor) error {
		if d < 0 {
			return fmt.Errorf("negative flush limit %v", d)
		}
		p.flushLimit = d
		return nil
	}
}

// WithMetric enables expvar counters for processor input and output.
// Counters are published under processor name.
func WithMetric() Option {
	return func(p *Processor) error {
		p.metric = true
		return nil
	}
}
