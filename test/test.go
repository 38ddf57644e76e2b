// Package test contains helper functions useful for testing hance packages.
package test

import (
	"io"
	"math"
	"path/filepath"
	"testing"

	"pipelined.dev/hance/signal"
	"pipelined.dev/hance/wav"
)

// SampleRate is used by generated test files.
const SampleRate = 44100

// Sine returns interleaved sine of given frequency with the same value in
// all channels.
func Sine(frames, channels int, frequency, amplitude float64) []float32 {
	samples := make([]float32, frames*channels)
	for i := 0; i < frames; i++ {
		v := float32(amplitude * math.Sin(2*math.Pi*frequency*float64(i)/SampleRate))
		for c := 0; c < channels; c++ {
			samples[i*channels+c] = v
		}
	}
	return samples
}

// WriteWav writes samples into a new 16 bit wav file in test temp
// directory and returns its path.
func WriteWav(t *testing.T, name string, samples []float32, channels int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	sink, err := wav.NewSink(path, channels, SampleRate, signal.BitDepth16)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	if err := sink.Write(samples); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("close %s: %v", path, err)
	}
	return path
}

// ReadWav reads the whole wav file and returns its samples and number of
// channels.
func ReadWav(t *testing.T, path string) ([]float32, int) {
	t.Helper()
	pump, err := wav.NewPump(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer pump.Close()

	var samples []float32
	buf := make([]float32, 4096*pump.Channels())
	for {
		n, err := pump.Read(buf)
		if err == io.EOF {
			return samples, pump.Channels()
		}
		if err != nil {
			t.Fatalf("read %s: %v", path, err)
		}
		samples = append(samples, buf[:n]...)
	}
}
