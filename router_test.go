package hance_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pipelined.dev/hance"
)

func buses(channels int, values ...[]float32) []hance.Block {
	blocks := make([]hance.Block, len(values))
	for i := range values {
		blocks[i] = hance.Block{Samples: values[i], Channels: channels}
	}
	return blocks
}

func TestRouterSelect(t *testing.T) {
	r := hance.NewRouter("speech", "noise")
	outs := buses(2, []float32{1, 2, 3, 4}, []float32{5, 6, 7, 8})

	// default configuration reproduces the selected bus exactly
	out, err := r.Route(outs, nil)
	assert.Nil(t, err)
	assert.Equal(t, []float32{1, 2, 3, 4}, out)

	assert.Nil(t, r.Select(1))
	assert.Nil(t, r.SetGain(1, 0.5))
	out, err = r.Route(outs, out)
	assert.Nil(t, err)
	assert.Equal(t, []float32{1, 2, 3, 4, 2.5, 3, 3.5, 4}, out)

	// inactive bus is still routed in Select mode
	assert.Nil(t, r.SetActive(1, false))
	out, err = r.Route(outs, nil)
	assert.Nil(t, err)
	assert.Equal(t, []float32{2.5, 3, 3.5, 4}, out)
}

func TestRouterMix(t *testing.T) {
	r := hance.NewRouter("speech", "noise", "music")
	assert.Nil(t, r.SetMode(hance.Mix))
	outs := buses(1, []float32{1, 1}, []float32{2, 2}, []float32{4, 4})

	out, err := r.Route(outs, nil)
	assert.Nil(t, err)
	assert.Equal(t, []float32{7, 7}, out)

	assert.Nil(t, r.SetActive(1, false))
	assert.Nil(t, r.SetGain(2, 0.25))
	out, err = r.Route(outs, nil)
	assert.Nil(t, err)
	assert.Equal(t, []float32{2, 2}, out)

	v, err := r.SetSensitivity(0, -150)
	assert.Nil(t, err)
	assert.Equal(t, float32(hance.MinSensitivity), v)
	out, err = r.Route(outs, nil)
	assert.Nil(t, err)
	assert.Equal(t, []float32{1, 1}, out)

	v, err = r.SetSensitivity(0, 150)
	assert.Nil(t, err)
	assert.Equal(t, float32(hance.MaxSensitivity), v)
	b, err := r.Bus(0)
	assert.Nil(t, err)
	assert.True(t, b.Active)
}

func TestRouterStems(t *testing.T) {
	r := hance.NewRouter("vocals", "drums")
	assert.Nil(t, r.SetMode(hance.Stems))
	assert.Equal(t, 4, r.Channels(2))
	outs := buses(2, []float32{1, 2, 3, 4}, []float32{5, 6, 7, 8})

	out, err := r.Route(outs, nil)
	assert.Nil(t, err)
	assert.Equal(t, []float32{1, 2, 5, 6, 3, 4, 7, 8}, out)

	assert.Nil(t, r.SetActive(0, false))
	out, err = r.Route(outs, nil)
	assert.Nil(t, err)
	assert.Equal(t, []float32{0, 0, 5, 6, 0, 0, 7, 8}, out)
}

func TestRouterErrors(t *testing.T) {
	r := hance.NewRouter("speech", "noise")
	assert.ErrorIs(t, r.Select(2), hance.ErrOutOfRange)
	assert.ErrorIs(t, r.Select(-1), hance.ErrOutOfRange)
	assert.ErrorIs(t, r.SetGain(2, 1), hance.ErrOutOfRange)
	assert.ErrorIs(t, r.SetActive(2, true), hance.ErrOutOfRange)
	_, err := r.SetSensitivity(2, 0)
	assert.ErrorIs(t, err, hance.ErrOutOfRange)
	_, err = r.Bus(2)
	assert.ErrorIs(t, err, hance.ErrOutOfRange)
	assert.NotNil(t, r.SetMode(hance.Mode(10)))
	assert.Equal(t, 0, r.Selected())

	_, err = r.Route(buses(1, []float32{1}), nil)
	assert.ErrorIs(t, err, hance.ErrBusMismatch)
	_, err = r.Route(buses(1, []float32{1}, []float32{1, 2}), nil)
	assert.ErrorIs(t, err, hance.ErrBusMismatch)

	// empty buses produce no output
	out, err := r.Route(buses(1, nil, nil), nil)
	assert.Nil(t, err)
	assert.Empty(t, out)
}
