// Package ogg decodes Ogg Vorbis files.
package ogg

import (
	"io"
	"os"

	"github.com/jfreymuth/oggvorbis"
)

// Pump reads samples from ogg vorbis file.
type Pump struct {
	file   *os.File
	reader *oggvorbis.Reader
}

// NewPump opens ogg file and reads vorbis headers.
func NewPump(path string) (*Pump, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	reader, err := oggvorbis.NewReader(file)
	if err != nil {
		file.Close()
		return nil, err
	}
	return &Pump{
		file:   file,
		reader: reader,
	}, nil
}

// Channels returns number of channels.
func (p *Pump) Channels() int {
	return p.reader.Channels()
}

// SampleRate returns sample rate of decoded file.
func (p *Pump) SampleRate() int {
	return p.reader.SampleRate()
}

// Length returns number of frames in the file or zero if it's unknown.
func (p *Pump) Length() int64 {
	return p.reader.Length()
}

// Read fills samples with interleaved data and returns number of read
// samples. Length of samples must be a multiple of channels. It returns
// io.EOF when there's no more data.
func (p *Pump) Read(samples []float32) (int, error) {
	read := 0
	for read < len(samples) {
		n, err := p.reader.Read(samples[read:])
		read += n
		if err == io.EOF {
			break
		}
		if err != nil {
			return read, err
		}
		if n == 0 {
			break
		}
	}
	if read == 0 {
		return 0, io.EOF
	}
	return read, nil
}

// Close closes the file.
func (p *Pump) Close() error {
	return p.file.Close()
}
