// Package signal provides conversions of interleaved PCM samples. It allows
// to:
//	- convert int samples of certain bit depth to float32 and back
//	- calculate signal durations
package signal

import (
	"math"
	"time"
)

const (
	// BitDepth8 is 8 bit depth.
	BitDepth8 = BitDepth(8)
	// BitDepth16 is 16 bit depth.
	BitDepth16 = BitDepth(16)
	// BitDepth24 is 24 bit depth.
	BitDepth24 = BitDepth(24)
	// BitDepth32 is 32 bit depth.
	BitDepth32 = BitDepth(32)
)

// BitDepth contains values required for int-to-float and backward
// conversion.
type BitDepth int

// MaxValue returns max int value for the bit depth.
func (bitDepth BitDepth) MaxValue() int {
	switch bitDepth {
	case BitDepth8:
		return math.MaxInt8
	case BitDepth16:
		return math.MaxInt16
	case BitDepth24:
		return 1<<23 - 1
	case BitDepth32:
		return math.MaxInt32
	default:
		return 1
	}
}

// DurationOf returns time duration of passed frames for this sample rate.
func DurationOf(sampleRate int, frames int64) time.Duration {
	if sampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(frames) / float64(sampleRate) * float64(time.Second))
}

// FramesOf returns number of frames that takes provided duration for this
// sample rate.
func FramesOf(sampleRate int, d time.Duration) int64 {
	return int64(math.Ceil(float64(sampleRate) * d.Seconds()))
}

// IntsAsFloats converts ints into floats and returns number of converted
// samples.
func IntsAsFloats(ints []int, floats []float32, bitDepth BitDepth) int {
	n := min(len(ints), len(floats))
	divider := float64(bitDepth.MaxValue())
	for i := 0; i < n; i++ {
		floats[i] = float32(float64(ints[i]) / divider)
	}
	return n
}

// FloatsAsInts converts floats into ints and returns number of converted
// samples. Values outside of [-1, 1] are clipped.
func FloatsAsInts(floats []float32, ints []int, bitDepth BitDepth) int {
	n := min(len(floats), len(ints))
	multiplier := float64(bitDepth.MaxValue())
	for i := 0; i < n; i++ {
		ints[i] = int(float64(Clip(floats[i])) * multiplier)
	}
	return n
}

// Clip limits the value to [-1, 1] range.
func Clip(v float32) float32 {
	switch {
	case v > 1:
		return 1
	case v < -1:
		return -1
	}
	return v
}
