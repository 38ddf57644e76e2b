package mp3_test

import (
	"io"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"pipelined.dev/hance/mp3"
)

func TestMp3(t *testing.T) {
	const (
		sampleRate = 44100
		frames     = 44100
	)
	path := filepath.Join(t.TempDir(), "sine.mp3")
	sink, err := mp3.NewSink(path, 2, sampleRate, 0, -1)
	assert.Nil(t, err)
	samples := make([]float32, frames*2)
	for i := 0; i < frames; i++ {
		v := float32(0.5 * math.Sin(2*math.Pi*440*float64(i)/sampleRate))
		samples[2*i], samples[2*i+1] = v, v
	}
	for i := 0; i < len(samples); i += 4096 {
		assert.Nil(t, sink.Write(samples[i:min(i+4096, len(samples))]))
	}
	assert.Nil(t, sink.Close())

	pump, err := mp3.NewPump(path)
	assert.Nil(t, err)
	assert.Equal(t, 2, pump.Channels())
	assert.Equal(t, sampleRate, pump.SampleRate())

	var (
		read int
		peak float32
	)
	buf := make([]float32, 1000)
	for {
		n, err := pump.Read(buf)
		if err == io.EOF {
			break
		}
		assert.Nil(t, err)
		for _, v := range buf[:n] {
			peak = max(peak, v)
		}
		read += n
	}
	assert.Nil(t, pump.Close())
	// encoder adds padding frames
	assert.GreaterOrEqual(t, read, len(samples))
	assert.InDelta(t, 0.5, peak, 0.1)
}

func TestMp3Errors(t *testing.T) {
	dir := t.TempDir()
	_, err := mp3.NewSink(filepath.Join(dir, "surround.mp3"), 6, 44100, 0, 0)
	assert.ErrorIs(t, err, mp3.ErrUnsupportedChannels)

	_, err = mp3.NewPump(filepath.Join(dir, "missing.mp3"))
	assert.NotNil(t, err)
}
