package main

import (
	"flag"
	"fmt"
	"time"

	"pipelined.dev/hance"
	"pipelined.dev/hance/bandsplit"
	"pipelined.dev/hance/batch"
	"pipelined.dev/hance/log"
)

type processCommand struct {
	model      string
	in         string
	out        string
	bus        int
	mix        bool
	flushLimit time.Duration
}

func (cmd *processCommand) Name() string {
	return "process"
}

func (cmd *processCommand) Help() string {
	return "Process audio file and save selected or mixed buses"
}

func (cmd *processCommand) Register(fs *flag.FlagSet) {
	fs.StringVar(&cmd.model, "model", "", "model descriptor file (required)")
	fs.StringVar(&cmd.in, "in", "", "input audio file to process (required)")
	fs.StringVar(&cmd.out, "out", "", "output file to save processed audio (required)")
	fs.IntVar(&cmd.bus, "bus", 0, "index of the output bus")
	fs.BoolVar(&cmd.mix, "mix", false, "mix all buses instead of selecting one")
	fs.DurationVar(&cmd.flushLimit, "flush-limit", 10*time.Second, "max duration of silence fed to engine at the end of stream")
}

func (cmd *processCommand) Run() error {
	if err := required("model", cmd.model, "in", cmd.in, "out", cmd.out); err != nil {
		return err
	}
	options := []hance.Option{
		hance.WithName("process"),
		hance.WithLogger(log.GetLogger()),
		hance.WithFlushLimit(cmd.flushLimit),
	}
	if cmd.mix {
		options = append(options, hance.WithMode(hance.Mix))
	}
	start := time.Now()
	if err := batch.ProcessFile(bandsplit.Loader, cmd.model, cmd.in, cmd.out, cmd.bus, options...); err != nil {
		return err
	}
	fmt.Printf("Processed %s into %s in %v\n", cmd.in, cmd.out, time.Since(start))
	return nil
}

type stemsCommand struct {
	model  string
	in     string
	outDir string
}

func (cmd *stemsCommand) Name() string {
	return "stems"
}

func (cmd *stemsCommand) Help() string {
	return "Separate audio file into a wav file per bus"
}

func (cmd *stemsCommand) Register(fs *flag.FlagSet) {
	fs.StringVar(&cmd.model, "model", "", "model descriptor file (required)")
	fs.StringVar(&cmd.in, "in", "", "input audio file to process (required)")
	fs.StringVar(&cmd.outDir, "outdir", ".", "directory to save stems")
}

func (cmd *stemsCommand) Run() error {
	if err := required("model", cmd.model, "in", cmd.in); err != nil {
		return err
	}
	options := []hance.Option{
		hance.WithName("stems"),
		hance.WithLogger(log.GetLogger()),
	}
	if err := batch.SeparateStems(bandsplit.Loader, cmd.model, cmd.in, cmd.outDir, options...); err != nil {
		return err
	}
	fmt.Printf("Stems of %s saved into %s\n", cmd.in, cmd.outDir)
	return nil
}
