// Package metric publishes stream counters with expvar.
package metric

import (
	"expvar"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"pipelined.dev/hance/signal"
)

const componentsLabel = "hance.components"

const (
	// BlockCounter measures number of blocks.
	BlockCounter = "Blocks"
	// FrameCounter measures number of frames.
	FrameCounter = "Frames"
	// LatencyCounter measures latency between measure calls.
	LatencyCounter = "Latency"
	// DurationCounter counts what's the duration of signal.
	DurationCounter = "Duration"
	// ComponentCounter counts number of meters created for component.
	ComponentCounter = "Components"
)

var (
	components = metrics{
		m: make(map[string]metric),
	}

	counters = []string{
		BlockCounter,
		FrameCounter,
		LatencyCounter,
		DurationCounter,
		ComponentCounter,
	}
)

// Get metrics values for provided component.
func Get(component string) map[string]string {
	return getCounters(component)
}

// GetAll returns counters for all measured components.
func GetAll() map[string]map[string]string {
	m := make(map[string]map[string]string)
	components.Lock()
	defer components.Unlock()
	for component := range components.m {
		m[component] = getCounters(component)
	}
	return m
}

// Components returns sorted names of all measured components.
func Components() []string {
	components.Lock()
	defer components.Unlock()
	names := make([]string, 0, len(components.m))
	for component := range components.m {
		names = append(names, component)
	}
	sort.Strings(names)
	return names
}

func getCounters(component string) map[string]string {
	m := make(map[string]string)
	for _, counter := range counters {
		v := expvar.Get(key(component, counter))
		if v != nil {
			m[counter] = v.String()
		}
	}
	return m
}

// ResetFunc returns new Measure closure. This closure is needed to postpone
// metrics capture until component is actually running.
type ResetFunc func() MeasureFunc

// MeasureFunc captures metrics when block is processed.
type MeasureFunc func(frames int64)

// Meter creates new meter closure to capture component counters.
func Meter(component string, sampleRate int) ResetFunc {
	metric := components.get(component)
	metric.components.Add(1)
	return func() MeasureFunc {
		calledAt := time.Now()
		var (
			blockSize     int64
			blockDuration time.Duration
		)
		return func(frames int64) {
			metric.latency.set(time.Since(calledAt))
			metric.blocks.Add(1)
			metric.frames.Add(frames)
			// recalculate block duration only when block size has changed
			if blockSize != frames {
				blockSize = frames
				blockDuration = signal.DurationOf(sampleRate, frames)
			}
			metric.duration.add(blockDuration)
			calledAt = time.Now()
		}
	}
}

// Discard is a measure func that doesn't capture anything.
func Discard(int64) {}

type metrics struct {
	sync.Mutex
	m map[string]metric
}

func (m *metrics) get(component string) metric {
	m.Lock()
	defer m.Unlock()
	if metric, ok := m.m[component]; ok {
		// return existing metric if available
		return metric
	}
	// create new metric
	metric := newMetric(component)
	m.m[component] = metric
	return metric
}

type metric struct {
	components *expvar.Int
	blocks     *expvar.Int
	frames     *expvar.Int
	latency    *duration
	duration   *duration
}

func newMetric(component string) metric {
	m := metric{
		components: expvar.NewInt(key(component, ComponentCounter)),
		blocks:     expvar.NewInt(key(component, BlockCounter)),
		frames:     expvar.NewInt(key(component, FrameCounter)),
		latency:    &duration{},
		duration:   &duration{},
	}
	expvar.Publish(key(component, LatencyCounter), m.latency)
	expvar.Publish(key(component, DurationCounter), m.duration)
	return m
}

func key(component, counter string) string {
	return fmt.Sprintf("%s.%s.%s", componentsLabel, component, counter)
}

// duration allows to format time.Duration metric values.
type duration struct {
	d int64
}

func (v *duration) String() string {
	return fmt.Sprintf("%q", time.Duration(atomic.LoadInt64(&v.d)))
}

func (v *duration) add(delta time.Duration) {
	atomic.AddInt64(&v.d, int64(delta))
}

func (v *duration) set(value time.Duration) {
	atomic.StoreInt64(&v.d, int64(value))
}
