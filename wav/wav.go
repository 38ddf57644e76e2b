// Package wav reads and writes PCM wav files with interleaved float32
// samples.
package wav

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"pipelined.dev/hance/signal"
)

// pcmFormat is the wav format tag of integer PCM.
const pcmFormat = 1

var (
	// ErrUnsupportedBitDepth is returned when unsupported bit depth is used.
	ErrUnsupportedBitDepth = errors.New("only 16, 24 and 32 bit depth is supported")
	// ErrInvalidFile is returned when file is not a valid PCM wav.
	ErrInvalidFile = errors.New("wav is not valid")
)

type (
	// Pump reads samples from wav file.
	Pump struct {
		file     *os.File
		decoder  *wav.Decoder
		ib       *audio.IntBuffer
		channels int
		rate     int
		bitDepth signal.BitDepth
	}

	// Sink saves samples to wav file.
	Sink struct {
		file     *os.File
		encoder  *wav.Encoder
		ib       *audio.IntBuffer
		bitDepth signal.BitDepth
	}
)

// NewPump opens wav file and reads its header.
func NewPump(path string) (*Pump, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	decoder := wav.NewDecoder(file)
	if !decoder.IsValidFile() || decoder.WavAudioFormat != pcmFormat {
		return nil, closeOnError(file, fmt.Errorf("%s: %w", path, ErrInvalidFile))
	}
	bitDepth := signal.BitDepth(decoder.BitDepth)
	if !supported(bitDepth) {
		return nil, closeOnError(file, fmt.Errorf("%s has %d bits: %w", path, bitDepth, ErrUnsupportedBitDepth))
	}
	format := decoder.Format()
	return &Pump{
		file:     file,
		decoder:  decoder,
		channels: format.NumChannels,
		rate:     int(decoder.SampleRate),
		bitDepth: bitDepth,
		ib: &audio.IntBuffer{
			Format:         format,
			SourceBitDepth: int(bitDepth),
		},
	}, nil
}

// Channels returns number of channels.
func (p *Pump) Channels() int {
	return p.channels
}

// SampleRate returns sample rate of the file.
func (p *Pump) SampleRate() int {
	return p.rate
}

// BitDepth returns bit depth of the file.
func (p *Pump) BitDepth() signal.BitDepth {
	return p.bitDepth
}

// Read fills samples with interleaved data and returns number of read
// samples. It returns io.EOF when there's no more data.
func (p *Pump) Read(samples []float32) (int, error) {
	if cap(p.ib.Data) < len(samples) {
		p.ib.Data = make([]int, len(samples))
	}
	p.ib.Data = p.ib.Data[:len(samples)]
	n, err := p.decoder.PCMBuffer(p.ib)
	if err != nil && err != io.EOF {
		return 0, err
	}
	if n == 0 {
		return 0, io.EOF
	}
	return signal.IntsAsFloats(p.ib.Data[:n], samples, p.bitDepth), nil
}

// Close closes the file.
func (p *Pump) Close() error {
	return p.file.Close()
}

// NewSink creates wav file. Samples are written with provided bit depth.
func NewSink(path string, channels, sampleRate int, bitDepth signal.BitDepth) (*Sink, error) {
	if !supported(bitDepth) {
		return nil, fmt.Errorf("%d bits: %w", bitDepth, ErrUnsupportedBitDepth)
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &Sink{
		file:     file,
		encoder:  wav.NewEncoder(file, sampleRate, int(bitDepth), channels, pcmFormat),
		bitDepth: bitDepth,
		ib: &audio.IntBuffer{
			Format: &audio.Format{
				NumChannels: channels,
				SampleRate:  sampleRate,
			},
			SourceBitDepth: int(bitDepth),
		},
	}, nil
}

// Write encodes interleaved samples. Values are clipped to [-1, 1].
func (s *Sink) Write(samples []float32) error {
	if len(samples) == 0 {
		return nil
	}
	if cap(s.ib.Data) < len(samples) {
		s.ib.Data = make([]int, len(samples))
	}
	s.ib.Data = s.ib.Data[:len(samples)]
	signal.FloatsAsInts(samples, s.ib.Data, s.bitDepth)
	return s.encoder.Write(s.ib)
}

// Close flushes the encoder and closes the file.
func (s *Sink) Close() error {
	if err := s.encoder.Close(); err != nil {
		return closeOnError(s.file, err)
	}
	return s.file.Close()
}

func supported(bitDepth signal.BitDepth) bool {
	switch bitDepth {
	case signal.BitDepth16, signal.BitDepth24, signal.BitDepth32:
		return true
	}
	return false
}

func closeOnError(f *os.File, err error) error {
	if errClose := f.Close(); errClose != nil {
		return fmt.Errorf("%w: failed to close the file: %v", err, errClose)
	}
	return err
}
