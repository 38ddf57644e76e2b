package hance

import (
	"fmt"

	"pipelined.dev/hance/signal"
)

// flush drains the carry and feeds silence into engine until all delayed
// frames are emitted. Output beyond the submitted frames is trimmed.
func (p *Processor) flush() error {
	if err := p.reassembler.Drain(p.transform); err != nil {
		return err
	}
	if p.silence.Empty() {
		p.silence = Silence(p.blockSize, p.channels)
	}
	limit := p.flushBlocks()
	blocks := 0
	for p.emitted.Load() < p.submitted.Load() {
		if blocks == limit {
			submitted, emitted := p.Frames()
			return fmt.Errorf("%d of %d frames emitted after %d blocks of silence: %w", emitted, submitted, blocks, ErrLatencyNotConverging)
		}
		if err := p.transform(p.silence); err != nil {
			return err
		}
		blocks++
	}
	p.log.Debug(fmt.Sprintf("%v flushed with %d blocks of silence", p, blocks))

	submitted, emitted := p.Frames()
	if extra := emitted - submitted; extra > 0 {
		channels := p.router.Channels(p.channels)
		trim := min(int(extra), len(p.out)/channels)
		p.out = p.out[:len(p.out)-trim*channels]
		p.emitted.Add(-int64(trim))
	}
	return nil
}

// flushBlocks returns the max number of silent blocks fed during flush.
func (p *Processor) flushBlocks() int {
	frames := signal.FramesOf(int(p.sampleRate), p.flushLimit) + int64(p.latency)
	return int((frames + int64(p.blockSize) - 1) / int64(p.blockSize))
}
