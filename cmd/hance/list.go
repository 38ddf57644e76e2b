package main

import (
	"flag"
	"fmt"

	"pipelined.dev/hance/bandsplit"
	"pipelined.dev/hance/portaudio"
)

type busesCommand struct {
	model string
}

func (cmd *busesCommand) Name() string {
	return "buses"
}

func (cmd *busesCommand) Help() string {
	return "Show output buses of the model"
}

func (cmd *busesCommand) Register(fs *flag.FlagSet) {
	fs.StringVar(&cmd.model, "model", "", "model descriptor file (required)")
}

func (cmd *busesCommand) Run() error {
	if err := required("model", cmd.model); err != nil {
		return err
	}
	m, err := bandsplit.Load(cmd.model)
	if err != nil {
		return err
	}
	defer m.Release()

	d := m.Descriptor()
	fmt.Printf("Model %s: block size %d, latency %d\n", d.Name, d.BlockSize, d.Latency)
	for i := 0; i < m.NumBuses(); i++ {
		fmt.Printf("\t%d\t%s\n", i, m.BusName(i))
	}
	return nil
}

type devicesCommand struct{}

func (cmd *devicesCommand) Name() string {
	return "devices"
}

func (cmd *devicesCommand) Help() string {
	return "Show available audio devices"
}

func (cmd *devicesCommand) Register(fs *flag.FlagSet) {}

func (cmd *devicesCommand) Run() error {
	devices, err := portaudio.Devices()
	if err != nil {
		return err
	}
	for _, d := range devices {
		fmt.Printf("\t%d\t%s (%s)\tin: %d out: %d\t%v Hz\n", d.Index, d.Name, d.HostAPI, d.MaxInputChannels, d.MaxOutputChannels, d.DefaultSampleRate)
	}
	return nil
}
