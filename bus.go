package hance

import (
	"fmt"

	"pipelined.dev/hance/mutable"
)

// NumOutputBuses returns number of engine output buses.
func (p *Processor) NumOutputBuses() int {
	return p.router.NumBuses()
}

// OutputBusName returns the name of the bus.
func (p *Processor) OutputBusName(i int) (string, error) {
	b, err := p.router.Bus(i)
	if err != nil {
		return "", err
	}
	return b.Name, nil
}

// OutputBus returns routing properties of the bus.
func (p *Processor) OutputBus(i int) (Bus, error) {
	return p.router.Bus(i)
}

// Mode returns current routing mode.
func (p *Processor) Mode() Mode {
	return p.router.Mode()
}

// SelectedOutputBus returns the bus used in Select mode.
func (p *Processor) SelectedOutputBus() int {
	return p.router.Selected()
}

// SetOutputBusVolume sets linear gain of the bus.
func (p *Processor) SetOutputBusVolume(i int, gain float32) error {
	return p.router.SetGain(i, gain)
}

// SetOutputBusActive enables or disables the bus in Mix and Stems modes.
func (p *Processor) SetOutputBusActive(i int, active bool) error {
	return p.router.SetActive(i, active)
}

// SelectOutputBus sets the bus used in Select mode.
func (p *Processor) SelectOutputBus(i int) error {
	return p.router.Select(i)
}

// SetMode changes routing mode. Number of output channels changes when
// switching from or to Stems mode.
func (p *Processor) SetMode(m Mode) error {
	return p.router.SetMode(m)
}

// SetOutputBusSensitivity sets the detection sensitivity of the bus. The
// value is clamped to [MinSensitivity, MaxSensitivity] and passed to the
// engine if it's tunable. Minimal sensitivity deactivates the bus.
func (p *Processor) SetOutputBusSensitivity(i int, value float32) error {
	value, err := p.router.SetSensitivity(i, value)
	if err != nil {
		return err
	}
	if t, ok := p.transformer.(SensitivityTuner); ok {
		if err := t.SetSensitivity(i, value); err != nil {
			return fmt.Errorf("set bus %d sensitivity: %w", i, err)
		}
	}
	return nil
}

// VolumeMutation returns mutation that sets linear gain of the bus.
func (p *Processor) VolumeMutation(i int, gain float32) (mutable.Mutation, error) {
	return p.mutation(i, func() error {
		return p.SetOutputBusVolume(i, gain)
	})
}

// ActiveMutation returns mutation that enables or disables the bus.
func (p *Processor) ActiveMutation(i int, active bool) (mutable.Mutation, error) {
	return p.mutation(i, func() error {
		return p.SetOutputBusActive(i, active)
	})
}

// SelectMutation returns mutation that selects the bus.
func (p *Processor) SelectMutation(i int) (mutable.Mutation, error) {
	return p.mutation(i, func() error {
		return p.SelectOutputBus(i)
	})
}

// SensitivityMutation returns mutation that sets sensitivity of the bus.
func (p *Processor) SensitivityMutation(i int, value float32) (mutable.Mutation, error) {
	return p.mutation(i, func() error {
		return p.SetOutputBusSensitivity(i, value)
	})
}

// mutation validates bus index when mutation is created, so the caller
// gets the error before it's applied.
func (p *Processor) mutation(i int, fn mutable.MutatorFunc) (mutable.Mutation, error) {
	if err := p.router.check(i); err != nil {
		return mutable.Mutation{}, err
	}
	return p.mutability.Mutate(fn), nil
}
