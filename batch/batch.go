// Package batch processes audio files with hance processor.
package batch

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"pipelined.dev/hance"
)

// BlockSize is the number of frames read from file per processor call.
const BlockSize = 65536

// ProcessFile processes input file with the model and writes the selected
// bus to output file. Output has the same number of frames as input. If
// processing fails, output file is removed.
func ProcessFile(loader hance.Loader, modelPath, inPath, outPath string, selectedBus int, options ...hance.Option) (err error) {
	if err := CheckWriter(outPath); err != nil {
		return err
	}
	r, err := OpenReader(inPath)
	if err != nil {
		return err
	}
	defer closeWith(r, &err)

	options = append([]hance.Option{hance.WithSelectedBus(selectedBus)}, options...)
	p, err := hance.Create(loader, modelPath, r.Channels(), float64(r.SampleRate()), options...)
	if err != nil {
		return err
	}
	defer closeWith(p, &err)

	w, err := CreateWriter(outPath, p.OutputChannels(), r.SampleRate(), bitDepthOf(r))
	if err != nil {
		return err
	}
	err = stream(r, p, w.Write)
	if errClose := w.Close(); errClose != nil && err == nil {
		err = fmt.Errorf("close %s: %w", outPath, errClose)
	}
	if err != nil {
		return removeOnError(err, outPath)
	}
	return nil
}

// SeparateStems processes input file with the model and writes every bus
// into its own wav file named after the bus. If processing fails, all
// output files are removed.
func SeparateStems(loader hance.Loader, modelPath, inPath, outDir string, options ...hance.Option) (err error) {
	r, err := OpenReader(inPath)
	if err != nil {
		return err
	}
	defer closeWith(r, &err)

	channels := r.Channels()
	options = append([]hance.Option{hance.WithMode(hance.Stems)}, options...)
	p, err := hance.Create(loader, modelPath, channels, float64(r.SampleRate()), options...)
	if err != nil {
		return err
	}
	defer closeWith(p, &err)

	numBuses := p.NumOutputBuses()
	paths := make([]string, 0, numBuses)
	writers := make([]Writer, 0, numBuses)
	for i := 0; i < numBuses; i++ {
		name, err := p.OutputBusName(i)
		if err != nil {
			return closeAll(err, writers, paths)
		}
		path := filepath.Join(outDir, name+".wav")
		w, err := CreateWriter(path, channels, r.SampleRate(), bitDepthOf(r))
		if err != nil {
			return closeAll(err, writers, paths)
		}
		paths = append(paths, path)
		writers = append(writers, w)
	}

	stems := make([][]float32, numBuses)
	err = stream(r, p, func(samples []float32) error {
		frames := len(samples) / (channels * numBuses)
		for b := range stems {
			stems[b] = stems[b][:0]
			for f := 0; f < frames; f++ {
				pos := (f*numBuses + b) * channels
				stems[b] = append(stems[b], samples[pos:pos+channels]...)
			}
			if err := writers[b].Write(stems[b]); err != nil {
				return err
			}
		}
		return nil
	})
	return closeAll(err, writers, paths)
}

// stream pumps reader through processor into write function.
func stream(r Reader, p *hance.Processor, write func([]float32) error) error {
	channels := r.Channels()
	buf := make([]float32, BlockSize*channels)
	for {
		n, err := r.Read(buf)
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("read: %w", err)
		}
		out, err := p.Process(hance.Block{Samples: buf[:n-n%channels], Channels: channels})
		if err != nil {
			return err
		}
		if err := write(out.Samples); err != nil {
			return fmt.Errorf("write: %w", err)
		}
	}
	out, err := p.Finish()
	if err != nil {
		return err
	}
	if err := write(out.Samples); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// closeAll closes writers and removes files if there was an error.
func closeAll(err error, writers []Writer, paths []string) error {
	for i, w := range writers {
		if errClose := w.Close(); errClose != nil && err == nil {
			err = fmt.Errorf("close %s: %w", paths[i], errClose)
		}
	}
	if err == nil {
		return nil
	}
	return removeOnError(err, paths...)
}

func removeOnError(err error, paths ...string) error {
	for _, path := range paths {
		if errRemove := os.Remove(path); errRemove != nil && !errors.Is(errRemove, os.ErrNotExist) {
			err = fmt.Errorf("%w: failed to remove %s: %v", err, path, errRemove)
		}
	}
	return err
}

// closeWith closes c and sets err if it's nil.
func closeWith(c io.Closer, err *error) {
	if errClose := c.Close(); errClose != nil && *err == nil {
		*err = errClose
	}
}
