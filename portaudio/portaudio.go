// Package portaudio provides capture and playback of audio devices with
// portaudio blocking streams.
package portaudio

import (
	"fmt"

	"github.com/gordonklaus/portaudio"

	"pipelined.dev/hance"
)

// DefaultDevice selects default input or output device.
const DefaultDevice = -1

type (
	// Device describes available audio device.
	Device struct {
		Index             int
		Name              string
		HostAPI           string
		MaxInputChannels  int
		MaxOutputChannels int
		DefaultSampleRate float64
	}

	// Capture reads samples from input device.
	Capture struct {
		stream   *portaudio.Stream
		buf      []float32
		channels int
		closed   bool
	}

	// Playback writes samples to output device.
	Playback struct {
		stream   *portaudio.Stream
		buf      []float32
		channels int
		closed   bool
	}
)

// Devices returns all available devices.
func Devices() ([]Device, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, err
	}
	defer portaudio.Terminate()

	infos, err := portaudio.Devices()
	if err != nil {
		return nil, err
	}
	devices := make([]Device, len(infos))
	for i, info := range infos {
		devices[i] = Device{
			Index:             i,
			Name:              info.Name,
			MaxInputChannels:  info.MaxInputChannels,
			MaxOutputChannels: info.MaxOutputChannels,
			DefaultSampleRate: info.DefaultSampleRate,
		}
		if info.HostApi != nil {
			devices[i].HostAPI = info.HostApi.Name
		}
	}
	return devices, nil
}

// NewCapture opens and starts input stream of the device. Every read
// returns exactly frames.
func NewCapture(device, channels int, sampleRate float64, frames int) (*Capture, error) {
	buf := make([]float32, frames*channels)
	stream, err := open(device, true, channels, sampleRate, frames, buf)
	if err != nil {
		return nil, err
	}
	return &Capture{
		stream:   stream,
		buf:      buf,
		channels: channels,
	}, nil
}

// Read blocks until the stream buffer is captured. Requested frames must
// match the stream buffer size.
func (c *Capture) Read(frames int) (hance.Block, error) {
	if frames*c.channels != len(c.buf) {
		return hance.Block{}, fmt.Errorf("read %d frames from %d frames stream", frames, len(c.buf)/c.channels)
	}
	if err := c.stream.Read(); err != nil {
		return hance.Block{}, err
	}
	return hance.Block{Samples: c.buf, Channels: c.channels}, nil
}

// Close stops the stream and terminates portaudio.
func (c *Capture) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	return stop(c.stream)
}

// NewPlayback opens and starts output stream of the device.
func NewPlayback(device, channels int, sampleRate float64, frames int) (*Playback, error) {
	buf := make([]float32, frames*channels)
	stream, err := open(device, false, channels, sampleRate, frames, buf)
	if err != nil {
		return nil, err
	}
	return &Playback{
		stream:   stream,
		buf:      buf,
		channels: channels,
	}, nil
}

// Write blocks until the block is played. Shorter blocks are padded with
// silence.
func (p *Playback) Write(b hance.Block) error {
	if b.Channels != p.channels {
		return fmt.Errorf("write %d channels to %d channels stream: %w", b.Channels, p.channels, hance.ErrChannelMismatch)
	}
	for i := 0; i < len(b.Samples); i += len(p.buf) {
		n := copy(p.buf, b.Samples[i:])
		clear(p.buf[n:])
		if err := p.stream.Write(); err != nil {
			return err
		}
	}
	return nil
}

// Close stops the stream and terminates portaudio.
func (p *Playback) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true
	return stop(p.stream)
}

func open(device int, input bool, channels int, sampleRate float64, frames int, buf []float32) (*portaudio.Stream, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, err
	}
	info, err := deviceInfo(device, input)
	if err != nil {
		return nil, terminateOnError(err)
	}

	var params portaudio.StreamParameters
	if input {
		params = portaudio.LowLatencyParameters(info, nil)
		params.Input.Channels = channels
	} else {
		params = portaudio.LowLatencyParameters(nil, info)
		params.Output.Channels = channels
	}
	params.SampleRate = sampleRate
	params.FramesPerBuffer = frames

	stream, err := portaudio.OpenStream(params, buf)
	if err != nil {
		return nil, terminateOnError(fmt.Errorf("open %s: %w", info.Name, err))
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		return nil, terminateOnError(fmt.Errorf("start %s: %w", info.Name, err))
	}
	return stream, nil
}

func deviceInfo(device int, input bool) (*portaudio.DeviceInfo, error) {
	if device == DefaultDevice {
		if input {
			return portaudio.DefaultInputDevice()
		}
		return portaudio.DefaultOutputDevice()
	}
	infos, err := portaudio.Devices()
	if err != nil {
		return nil, err
	}
	if device < 0 || device >= len(infos) {
		return nil, fmt.Errorf("device %d of %d not found", device, len(infos))
	}
	return infos[device], nil
}

func stop(stream *portaudio.Stream) error {
	if err := stream.Stop(); err != nil {
		stream.Close()
		return terminateOnError(err)
	}
	if err := stream.Close(); err != nil {
		return terminateOnError(err)
	}
	return portaudio.Terminate()
}

func terminateOnError(err error) error {
	if errTerm := portaudio.Terminate(); errTerm != nil {
		return fmt.Errorf("%w: failed to terminate portaudio: %v", err, errTerm)
	}
	return err
}
