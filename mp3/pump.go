package mp3

import (
	"encoding/binary"
	"io"
	"math"
	"os"

	"github.com/hajimehoshi/go-mp3"
)

// decoded stream is always stereo 16 bit.
const (
	decodedChannels = 2
	bytesPerSample  = 2
)

// Pump reads samples from mp3 file.
type Pump struct {
	file    *os.File
	decoder *mp3.Decoder
	raw     []byte
}

// NewPump opens mp3 file and decodes its first frame.
func NewPump(path string) (*Pump, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	decoder, err := mp3.NewDecoder(file)
	if err != nil {
		file.Close()
		return nil, err
	}
	return &Pump{
		file:    file,
		decoder: decoder,
	}, nil
}

// Channels returns number of channels. Decoder always provides stereo.
func (p *Pump) Channels() int {
	return decodedChannels
}

// SampleRate returns sample rate of decoded file.
func (p *Pump) SampleRate() int {
	return p.decoder.SampleRate()
}

// Read fills samples with interleaved data and returns number of read
// samples. It returns io.EOF when there's no more data.
func (p *Pump) Read(samples []float32) (int, error) {
	size := len(samples) * bytesPerSample
	if cap(p.raw) < size {
		p.raw = make([]byte, size)
	}
	p.raw = p.raw[:size]
	n, err := io.ReadFull(p.decoder, p.raw)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return 0, err
	}
	n /= bytesPerSample
	if n == 0 {
		return 0, io.EOF
	}
	for i := 0; i < n; i++ {
		v := int16(binary.LittleEndian.Uint16(p.raw[i*bytesPerSample:]))
		samples[i] = float32(v) / math.MaxInt16
	}
	return n, nil
}

// Close closes the file.
func (p *Pump) Close() error {
	return p.file.Close()
}
