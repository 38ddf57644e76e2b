package mutable_test

import (
	"fmt"

	"pipelined.dev/hance/mutable"
)

type fader struct {
	mutable.Context
	gain float32
}

func (f *fader) setGain(value float32) mutable.Mutation {
	return f.Context.Mutate(func() error {
		f.gain = value
		return nil
	})
}

func Example_mutation() {
	// create new mutable component
	component := &fader{
		Context: mutable.Mutable(),
		gain:    1,
	}
	fmt.Println(component.gain)

	// create new mutation
	mutation := component.setGain(0.5)
	fmt.Println(component.gain)

	// apply mutation
	_ = mutation.Apply()
	fmt.Println(component.gain)

	// Output:
	// 1
	// 1
	// 0.5
}
