package wav_test

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"pipelined.dev/hance/signal"
	"pipelined.dev/hance/wav"
)

func TestWav(t *testing.T) {
	var tests = []struct {
		bitDepth  signal.BitDepth
		channels  int
		frames    int
		readSize  int
		tolerance float64
	}{
		{
			bitDepth:  signal.BitDepth16,
			channels:  2,
			frames:    1000,
			readSize:  300,
			tolerance: 1.0 / (1 << 14),
		},
		{
			bitDepth:  signal.BitDepth24,
			channels:  1,
			frames:    777,
			readSize:  777,
			tolerance: 1.0 / (1 << 22),
		},
		{
			bitDepth:  signal.BitDepth32,
			channels:  3,
			frames:    100,
			readSize:  1024,
			tolerance: 1.0 / (1 << 22),
		},
	}

	for _, test := range tests {
		path := filepath.Join(t.TempDir(), "test.wav")
		samples := make([]float32, test.frames*test.channels)
		for i := range samples {
			samples[i] = float32(i%200)/100 - 1
		}

		sink, err := wav.NewSink(path, test.channels, 44100, test.bitDepth)
		assert.Nil(t, err)
		assert.Nil(t, sink.Write(samples[:len(samples)/2]))
		assert.Nil(t, sink.Write(nil))
		assert.Nil(t, sink.Write(samples[len(samples)/2:]))
		assert.Nil(t, sink.Close())

		pump, err := wav.NewPump(path)
		assert.Nil(t, err)
		assert.Equal(t, test.channels, pump.Channels())
		assert.Equal(t, 44100, pump.SampleRate())
		assert.Equal(t, test.bitDepth, pump.BitDepth())

		var read []float32
		buf := make([]float32, test.readSize*test.channels)
		for {
			n, err := pump.Read(buf)
			if err == io.EOF {
				break
			}
			assert.Nil(t, err)
			read = append(read, buf[:n]...)
		}
		assert.Nil(t, pump.Close())

		assert.Equal(t, len(samples), len(read))
		for i := range samples {
			assert.InDelta(t, samples[i], read[i], test.tolerance)
		}
	}
}

func TestWavErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := wav.NewSink(filepath.Join(dir, "8bit.wav"), 1, 44100, signal.BitDepth8)
	assert.ErrorIs(t, err, wav.ErrUnsupportedBitDepth)

	_, err = wav.NewPump(filepath.Join(dir, "missing.wav"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	invalid := filepath.Join(dir, "invalid.wav")
	assert.Nil(t, os.WriteFile(invalid, []byte("not a wav file"), 0o644))
	_, err = wav.NewPump(invalid)
	assert.ErrorIs(t, err, wav.ErrInvalidFile)
}
