package bandsplit

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"pipelined.dev/hance"
)

// Descriptor defines a band-split model.
//
//	name: speech
//	block_size: 512
//	latency: 128
//	order: 4
//	sample_rates: [44100, 48000]
//	max_channels: 2
//	buses:
//	  - name: low
//	    cutoff: 300
//	  - name: voice
//	    cutoff: 3400
//	  - name: high
//
// Every bus except the last one has the upper cutoff frequency of its band.
type Descriptor struct {
	Name        string    `yaml:"name"`
	BlockSize   int       `yaml:"block_size"`
	Latency     int       `yaml:"latency"`
	Order       int       `yaml:"order"`
	SampleRates []float64 `yaml:"sample_rates"`
	MaxChannels int       `yaml:"max_channels"`
	Buses       []Bus     `yaml:"buses"`
}

// Bus defines a single band.
type Bus struct {
	Name   string  `yaml:"name"`
	Cutoff float64 `yaml:"cutoff"`
}

var errInvalidDescriptor = errors.New("invalid descriptor")

// Parse decodes and validates YAML descriptor.
func Parse(data []byte) (Descriptor, error) {
	var d Descriptor
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&d); err != nil {
		return Descriptor{}, fmt.Errorf("%w: %w", errInvalidDescriptor, err)
	}
	if err := d.validate(); err != nil {
		return Descriptor{}, err
	}
	return d, nil
}

// Load reads descriptor file and returns a model.
func Load(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", hance.ErrLoad, path, err)
	}
	d, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", hance.ErrLoad, path, err)
	}
	return NewModel(d), nil
}

// Loader loads band-split models from descriptor files.
var Loader = hance.LoaderFunc(func(path string) (hance.Model, error) {
	return Load(path)
})

func (d Descriptor) validate() error {
	if d.BlockSize <= 0 {
		return fmt.Errorf("block size %d: %w", d.BlockSize, errInvalidDescriptor)
	}
	if d.Latency < 0 {
		return fmt.Errorf("latency %d: %w", d.Latency, errInvalidDescriptor)
	}
	if len(d.Buses) == 0 {
		return fmt.Errorf("no buses: %w", errInvalidDescriptor)
	}
	if len(d.Buses) > 1 && (d.Order <= 0 || d.Order%2 != 0) {
		return fmt.Errorf("order %d must be positive and even: %w", d.Order, errInvalidDescriptor)
	}
	for i, b := range d.Buses {
		if b.Name == "" {
			return fmt.Errorf("bus %d without name: %w", i, errInvalidDescriptor)
		}
		last := i == len(d.Buses)-1
		if !last && b.Cutoff <= 0 {
			return fmt.Errorf("bus %s without cutoff: %w", b.Name, errInvalidDescriptor)
		}
		if i > 0 && !last && b.Cutoff <= d.Buses[i-1].Cutoff {
			return fmt.Errorf("bus %s cutoff %v is not ascending: %w", b.Name, b.Cutoff, errInvalidDescriptor)
		}
	}
	return nil
}

// cutoffs returns crossover frequencies.
func (d Descriptor) cutoffs() []float64 {
	freqs := make([]float64, 0, len(d.Buses)-1)
	for _, b := range d.Buses[:len(d.Buses)-1] {
		freqs = append(freqs, b.Cutoff)
	}
	return freqs
}
