package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFIFO(t *testing.T) {
	f := newFIFO(4)
	assert.Equal(t, 0, f.write([]float32{1, 2, 3}))
	assert.Equal(t, 3, f.len())

	p := make([]float32, 2)
	assert.Equal(t, 0, f.read(p))
	assert.Equal(t, []float32{1, 2}, p)

	// wraps around
	assert.Equal(t, 0, f.write([]float32{4, 5, 6}))
	p = make([]float32, 4)
	assert.Equal(t, 0, f.read(p))
	assert.Equal(t, []float32{3, 4, 5, 6}, p)

	// underrun is padded with silence
	assert.Equal(t, 0, f.write([]float32{7}))
	p = []float32{9, 9, 9}
	assert.Equal(t, 2, f.read(p))
	assert.Equal(t, []float32{7, 0, 0}, p)

	// overrun discards the oldest samples
	assert.Equal(t, 0, f.write([]float32{1, 2, 3}))
	assert.Equal(t, 2, f.write([]float32{7, 8, 9}))
	p = make([]float32, 4)
	assert.Equal(t, 0, f.read(p))
	assert.Equal(t, []float32{3, 7, 8, 9}, p)

	assert.Equal(t, 3, f.write([]float32{1, 2, 3, 4, 5, 6, 7}))
	f.reset()
	assert.Equal(t, 0, f.len())
}
