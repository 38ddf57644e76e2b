package hance

import "fmt"

// Mode defines how router combines engine buses.
type Mode int

const (
	// Select outputs a single bus scaled by its gain. Other buses are
	// not read.
	Select Mode = iota
	// Mix outputs the sum of all active buses scaled by their gains.
	Mix
	// Stems outputs all buses side by side: every output frame holds
	// bus 0 channels, then bus 1 channels and so on.
	Stems
)

const (
	// MinSensitivity deactivates the bus in Mix mode.
	MinSensitivity = -100
	// MaxSensitivity is the upper bound of bus sensitivity.
	MaxSensitivity = 100
)

// Bus holds routing properties of a single engine output.
type Bus struct {
	Name        string
	Gain        float32
	Sensitivity float32
	Active      bool
}

// Router combines engine outputs into a single stream. Changes are
// applied by the next Route call.
type Router struct {
	mode     Mode
	selected int
	buses    []Bus
}

// NewRouter returns router in Select mode with the first bus selected.
// All buses are active with unity gain.
func NewRouter(names ...string) *Router {
	buses := make([]Bus, len(names))
	for i := range names {
		buses[i] = Bus{
			Name:   names[i],
			Gain:   1,
			Active: true,
		}
	}
	return &Router{buses: buses}
}

// NumBuses returns number of routed buses.
func (r *Router) NumBuses() int {
	return len(r.buses)
}

// Bus returns properties of the bus.
func (r *Router) Bus(i int) (Bus, error) {
	if err := r.check(i); err != nil {
		return Bus{}, err
	}
	return r.buses[i], nil
}

// Mode returns current routing mode.
func (r *Router) Mode() Mode {
	return r.mode
}

// SetMode changes routing mode.
func (r *Router) SetMode(m Mode) error {
	switch m {
	case Select, Mix, Stems:
		r.mode = m
		return nil
	}
	return fmt.Errorf("unknown routing mode %d", m)
}

// Selected returns index of the bus used in Select mode.
func (r *Router) Selected() int {
	return r.selected
}

// Select sets the bus used in Select mode.
func (r *Router) Select(i int) error {
	if err := r.check(i); err != nil {
		return err
	}
	r.selected = i
	return nil
}

// SetGain sets linear gain of the bus.
func (r *Router) SetGain(i int, gain float32) error {
	if err := r.check(i); err != nil {
		return err
	}
	r.buses[i].Gain = gain
	return nil
}

// SetActive enables or disables bus contribution in Mix and Stems modes.
func (r *Router) SetActive(i int, active bool) error {
	if err := r.check(i); err != nil {
		return err
	}
	r.buses[i].Active = active
	return nil
}

// SetSensitivity sets bus sensitivity clamped to [MinSensitivity,
// MaxSensitivity] and returns the value that was set. The bus is
// deactivated at MinSensitivity and activated otherwise.
func (r *Router) SetSensitivity(i int, value float32) (float32, error) {
	if err := r.check(i); err != nil {
		return 0, err
	}
	if value < MinSensitivity {
		value = MinSensitivity
	} else if value > MaxSensitivity {
		value = MaxSensitivity
	}
	r.buses[i].Sensitivity = value
	r.buses[i].Active = value > MinSensitivity
	return value, nil
}

// Channels returns number of routed channels for the number of engine
// channels.
func (r *Router) Channels(channels int) int {
	if r.mode == Stems {
		return channels * len(r.buses)
	}
	return channels
}

// Route appends combined engine outputs to dst. All outputs must have
// the same number of frames and channels.
func (r *Router) Route(outs []Block, dst []float32) ([]float32, error) {
	if len(outs) != len(r.buses) {
		return dst, fmt.Errorf("got %d buses, expected %d: %w", len(outs), len(r.buses), ErrBusMismatch)
	}
	if len(outs) == 0 {
		return dst, nil
	}
	frames, channels := outs[0].Frames(), outs[0].Channels
	for i := 1; i < len(outs); i++ {
		if outs[i].Frames() != frames || outs[i].Channels != channels {
			return dst, fmt.Errorf("bus %d has %d frames of %d channels, expected %d of %d: %w", i, outs[i].Frames(), outs[i].Channels, frames, channels, ErrBusMismatch)
		}
	}
	if frames == 0 {
		return dst, nil
	}

	switch r.mode {
	case Select:
		var out []float32
		dst, out = grow(dst, frames*channels)
		in, gain := outs[r.selected].Samples, r.buses[r.selected].Gain
		if gain == 1 {
			copy(out, in)
			break
		}
		for i := range out {
			out[i] = in[i] * gain
		}
	case Mix:
		var out []float32
		dst, out = grow(dst, frames*channels)
		clear(out)
		for b := range outs {
			if !r.buses[b].Active {
				continue
			}
			in, gain := outs[b].Samples, r.buses[b].Gain
			for i := range out {
				out[i] += in[i] * gain
			}
		}
	case Stems:
		var out []float32
		numBuses := len(outs)
		dst, out = grow(dst, frames*channels*numBuses)
		for b := range outs {
			in, gain := outs[b].Samples, r.buses[b].Gain
			if !r.buses[b].Active {
				gain = 0
			}
			for f := 0; f < frames; f++ {
				pos := (f*numBuses + b) * channels
				for c := 0; c < channels; c++ {
					out[pos+c] = in[f*channels+c] * gain
				}
			}
		}
	}
	return dst, nil
}

func (r *Router) check(i int) error {
	if i < 0 || i >= len(r.buses) {
		return fmt.Errorf("bus %d of %d: %w", i, len(r.buses), ErrOutOfRange)
	}
	return nil
}

// grow extends dst by n samples and returns the extension.
func grow(dst []float32, n int) ([]float32, []float32) {
	l := len(dst)
	if cap(dst)-l < n {
		extended := make([]float32, l, 2*(l+n))
		copy(extended, dst)
		dst = extended
	}
	dst = dst[:l+n]
	return dst, dst[l:]
}
