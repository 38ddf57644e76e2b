package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"pipelined.dev/hance"
	"pipelined.dev/hance/bandsplit"
	"pipelined.dev/hance/log"
	"pipelined.dev/hance/mutable"
	"pipelined.dev/hance/portaudio"
	"pipelined.dev/hance/realtime"
)

type liveCommand struct {
	model      string
	frames     int
	channels   int
	sampleRate float64
	inDevice   int
	outDevice  int
	bus        int
	bypass     bool
}

func (cmd *liveCommand) Name() string {
	return "live"
}

func (cmd *liveCommand) Help() string {
	return "Process audio from input device and play it back"
}

func (cmd *liveCommand) Register(fs *flag.FlagSet) {
	fs.StringVar(&cmd.model, "model", "", "model descriptor file (required)")
	fs.IntVar(&cmd.frames, "frames", 512, "frames per device buffer")
	fs.IntVar(&cmd.channels, "channels", 1, "number of channels")
	fs.Float64Var(&cmd.sampleRate, "rate", 44100, "sample rate")
	fs.IntVar(&cmd.inDevice, "in-device", portaudio.DefaultDevice, "input device index, default device if negative")
	fs.IntVar(&cmd.outDevice, "out-device", portaudio.DefaultDevice, "output device index, default device if negative")
	fs.IntVar(&cmd.bus, "bus", 0, "index of the output bus")
	fs.BoolVar(&cmd.bypass, "bypass", false, "start in bypass")
}

func (cmd *liveCommand) Run() error {
	if err := required("model", cmd.model); err != nil {
		return err
	}
	logger := log.GetLogger()
	proc, err := hance.Create(bandsplit.Loader, cmd.model, cmd.channels, cmd.sampleRate,
		hance.WithName("live"),
		hance.WithLogger(logger),
		hance.WithSelectedBus(cmd.bus),
		hance.WithMetric(),
	)
	if err != nil {
		return err
	}
	capture, err := portaudio.NewCapture(cmd.inDevice, cmd.channels, cmd.sampleRate, cmd.frames)
	if err != nil {
		return errors.Join(err, proc.Close())
	}
	playback, err := portaudio.NewPlayback(cmd.outDevice, cmd.channels, cmd.sampleRate, cmd.frames)
	if err != nil {
		return errors.Join(err, capture.Close(), proc.Close())
	}
	s, err := realtime.New(proc, capture, playback,
		realtime.WithLogger(logger),
		realtime.WithFrames(cmd.frames),
		realtime.WithBypass(cmd.bypass),
	)
	if err != nil {
		return errors.Join(err, playback.Close(), capture.Close(), proc.Close())
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	if err := s.Start(ctx); err != nil {
		return err
	}
	fmt.Println("Commands: 'p' toggles bypass, 'b <bus>' selects bus, 's <bus> <value>' sets sensitivity, 'q' quits")
	go control(os.Stdin, s, proc)

	err = s.Wait()
	fmt.Printf("Session stopped after %d iterations: %d underruns, %d overruns\n", s.Iterations(), s.Underruns(), s.Overruns())
	return err
}

// control reads commands from input until session is done.
func control(in io.Reader, s *realtime.Session, proc *hance.Processor) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "p":
			if s.ToggleBypass() {
				fmt.Println("Bypass on")
			} else {
				fmt.Println("Bypass off")
			}
		case "b", "s":
			m, err := mutation(proc, fields)
			if err != nil {
				fmt.Printf("Invalid command: %v\n", err)
				break
			}
			s.Push(m)
		case "q":
			s.Stop()
			return
		}
		select {
		case <-s.Done():
			return
		default:
		}
	}
}

// mutation parses bus command into processor mutation.
func mutation(proc *hance.Processor, fields []string) (mutable.Mutation, error) {
	if len(fields) < 2 {
		return mutable.Mutation{}, fmt.Errorf("missing bus index")
	}
	bus, err := strconv.Atoi(fields[1])
	if err != nil {
		return mutable.Mutation{}, err
	}
	if fields[0] == "b" {
		return proc.SelectMutation(bus)
	}
	if len(fields) < 3 {
		return mutable.Mutation{}, fmt.Errorf("missing sensitivity value")
	}
	value, err := strconv.ParseFloat(fields[2], 32)
	if err != nil {
		return mutable.Mutation{}, err
	}
	return proc.SensitivityMutation(bus, float32(value))
}
