package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"pipelined.dev/hance"
	"pipelined.dev/hance/mock"
	"pipelined.dev/hance/test"
)

const model = `
name: two-bands
block_size: 256
latency: 32
order: 4
sample_rates: [44100]
max_channels: 2
buses:
  - name: low
    cutoff: 1000
  - name: high
`

func writeModel(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.yaml")
	if err := os.WriteFile(path, []byte(model), 0o644); err != nil {
		t.Fatalf("write model: %v", err)
	}
	return path
}

func TestInit(t *testing.T) {
	// check if commands are registered
	assert.Equal(t, 5, len(commands))
	names := make(map[string]bool)
	for _, cmd := range commands {
		assert.False(t, names[cmd.Name()], cmd.Name())
		names[cmd.Name()] = true
	}
}

func TestRun(t *testing.T) {
	modelPath := writeModel(t)
	in := test.Sine(3000, 2, 440, 0.5)
	inPath := test.WriteWav(t, "in.wav", in, 2)
	outDir := t.TempDir()
	outPath := filepath.Join(outDir, "out.wav")

	var tests = []struct {
		args     []string
		exitCode int
	}{
		{args: []string{"hance"}, exitCode: errorExitCode},
		{args: []string{"hance", "unknown"}, exitCode: errorExitCode},
		{args: []string{"hance", "process", "-in", inPath}, exitCode: errorExitCode},
		{args: []string{"hance", "process", "-undefined"}, exitCode: errorExitCode},
		{args: []string{"hance", "buses", "-model", modelPath}, exitCode: successExitCode},
		{args: []string{"hance", "buses", "-model", "missing.yaml"}, exitCode: errorExitCode},
		{args: []string{"hance", "process", "-model", modelPath, "-in", inPath, "-out", outPath, "-bus", "1"}, exitCode: successExitCode},
		{args: []string{"hance", "process", "-model", modelPath, "-in", inPath, "-out", outPath, "-bus", "2"}, exitCode: errorExitCode},
		{args: []string{"hance", "stems", "-model", modelPath, "-in", inPath, "-outdir", outDir}, exitCode: successExitCode},
	}
	for _, c := range tests {
		cfg := config{args: c.args}
		assert.Equal(t, c.exitCode, cfg.run(), "%v", c.args)
	}

	for _, name := range []string{"low.wav", "high.wav"} {
		out, channels := test.ReadWav(t, filepath.Join(outDir, name))
		assert.Equal(t, 2, channels)
		assert.Equal(t, len(in), len(out))
	}
}

func TestMutation(t *testing.T) {
	fake := &mock.Model{Buses: []string{"low", "high"}}
	proc, err := hance.New(fake, 1, test.SampleRate)
	assert.Nil(t, err)
	defer proc.Close()

	var tests = []struct {
		fields []string
		valid  bool
	}{
		{fields: []string{"b", "1"}, valid: true},
		{fields: []string{"s", "0", "-20"}, valid: true},
		{fields: []string{"b"}},
		{fields: []string{"b", "one"}},
		{fields: []string{"b", "5"}},
		{fields: []string{"s", "1"}},
		{fields: []string{"s", "1", "loud"}},
	}
	for _, c := range tests {
		m, err := mutation(proc, c.fields)
		if !c.valid {
			assert.NotNil(t, err, "%v", c.fields)
			continue
		}
		assert.Nil(t, err, "%v", c.fields)
		assert.Equal(t, proc.Mutability(), m.Context)
		assert.Nil(t, m.Apply())
	}
	assert.Equal(t, 1, proc.SelectedOutputBus())
	bus, err := proc.OutputBus(0)
	assert.Nil(t, err)
	assert.Equal(t, float32(-20), bus.Sensitivity)
}
