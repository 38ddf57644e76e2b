package ogg_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"pipelined.dev/hance/ogg"
)

func TestPumpErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := ogg.NewPump(filepath.Join(dir, "missing.ogg"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	invalid := filepath.Join(dir, "invalid.ogg")
	assert.Nil(t, os.WriteFile(invalid, []byte("OggS is not enough"), 0o644))
	_, err = ogg.NewPump(invalid)
	assert.NotNil(t, err)
}
