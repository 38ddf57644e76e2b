package batch

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"pipelined.dev/hance/mp3"
	"pipelined.dev/hance/ogg"
	"pipelined.dev/hance/signal"
	"pipelined.dev/hance/wav"
)

// ErrUnsupportedFormat is returned when file extension is not supported.
var ErrUnsupportedFormat = errors.New("unsupported file format")

const defaultBitDepth = signal.BitDepth16

type (
	// Reader reads interleaved samples from audio file.
	Reader interface {
		// Read returns number of read samples or io.EOF.
		Read(samples []float32) (int, error)
		Channels() int
		SampleRate() int
		Close() error
	}

	// Writer writes interleaved samples to audio file.
	Writer interface {
		Write(samples []float32) error
		Close() error
	}

	// bitDepther is implemented by readers of integer PCM files.
	bitDepther interface {
		BitDepth() signal.BitDepth
	}
)

// OpenReader opens audio file. Reader is selected by extension: .wav,
// .mp3 and .ogg are supported.
func OpenReader(path string) (Reader, error) {
	var (
		r   Reader
		err error
	)
	switch ext(path) {
	case ".wav", ".wave":
		r, err = wav.NewPump(path)
	case ".mp3":
		r, err = mp3.NewPump(path)
	case ".ogg", ".oga":
		r, err = ogg.NewPump(path)
	default:
		err = ErrUnsupportedFormat
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return r, nil
}

// CreateWriter creates audio file. Writer is selected by extension: .wav
// and .mp3 are supported. Bit depth is used only by wav files.
func CreateWriter(path string, channels, sampleRate int, bitDepth signal.BitDepth) (Writer, error) {
	var (
		w   Writer
		err error
	)
	switch ext(path) {
	case ".wav", ".wave":
		w, err = wav.NewSink(path, channels, sampleRate, bitDepth)
	case ".mp3":
		w, err = mp3.NewSink(path, channels, sampleRate, mp3.DefaultBitRate, mp3.DefaultQuality)
	default:
		err = ErrUnsupportedFormat
	}
	if err != nil {
		return nil, fmt.Errorf("write %s: %w", path, err)
	}
	return w, nil
}

// CheckWriter returns error if writer for the path is not supported.
func CheckWriter(path string) error {
	switch ext(path) {
	case ".wav", ".wave", ".mp3":
		return nil
	}
	return fmt.Errorf("write %s: %w", path, ErrUnsupportedFormat)
}

// bitDepthOf returns bit depth of integer PCM reader or default.
func bitDepthOf(r Reader) signal.BitDepth {
	if b, ok := r.(bitDepther); ok {
		return b.BitDepth()
	}
	return defaultBitDepth
}

func ext(path string) string {
	return strings.ToLower(filepath.Ext(path))
}
