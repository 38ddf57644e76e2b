// Package mp3 decodes mp3 files with go-mp3 and encodes them with lame.
// Samples are interleaved float32 values.
package mp3

import "errors"

const (
	// DefaultBitRate is used by encoder if bit rate is not set.
	DefaultBitRate = 192
	// DefaultQuality is used by encoder if quality is not set.
	DefaultQuality = 2
)

// ErrUnsupportedChannels is returned when encoder receives more than two
// channels.
var ErrUnsupportedChannels = errors.New("only mono and stereo is supported")
