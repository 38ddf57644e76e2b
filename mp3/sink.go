package mp3

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/viert/lame"

	"pipelined.dev/hance/signal"
)

// Sink encodes samples to mp3 file.
type Sink struct {
	file *os.File
	wr   *lame.LameWriter
	ints []int
	raw  []byte
}

// NewSink creates mp3 file and initializes encoder. Zero bit rate and
// negative quality are replaced with defaults.
func NewSink(path string, channels, sampleRate, bitRate, quality int) (*Sink, error) {
	if channels != 1 && channels != 2 {
		return nil, fmt.Errorf("%d channels: %w", channels, ErrUnsupportedChannels)
	}
	if bitRate <= 0 {
		bitRate = DefaultBitRate
	}
	if quality < 0 {
		quality = DefaultQuality
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	s := Sink{
		file: f,
		wr:   lame.NewWriter(f),
	}
	s.wr.Encoder.SetBitrate(bitRate)
	s.wr.Encoder.SetQuality(quality)
	s.wr.Encoder.SetNumChannels(channels)
	s.wr.Encoder.SetInSamplerate(sampleRate)
	if channels == 1 {
		s.wr.Encoder.SetMode(lame.MONO)
	} else {
		s.wr.Encoder.SetMode(lame.JOINT_STEREO)
	}
	s.wr.Encoder.SetVBR(lame.VBR_RH)
	s.wr.Encoder.InitParams()
	return &s, nil
}

// Write encodes interleaved samples. Values are clipped to [-1, 1].
func (s *Sink) Write(samples []float32) error {
	if len(samples) == 0 {
		return nil
	}
	if cap(s.ints) < len(samples) {
		s.ints = make([]int, len(samples))
		s.raw = make([]byte, len(samples)*bytesPerSample)
	}
	s.ints = s.ints[:len(samples)]
	s.raw = s.raw[:len(samples)*bytesPerSample]
	signal.FloatsAsInts(samples, s.ints, signal.BitDepth16)
	for i, v := range s.ints {
		binary.LittleEndian.PutUint16(s.raw[i*bytesPerSample:], uint16(int16(v)))
	}
	if _, err := s.wr.Write(s.raw); err != nil {
		return err
	}
	return nil
}

// Close flushes the encoder and closes the file.
func (s *Sink) Close() error {
	if err := s.wr.Close(); err != nil {
		s.file.Close()
		return err
	}
	return s.file.Close()
}
