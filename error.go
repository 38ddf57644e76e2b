package hance

import (
	"errors"
	"strings"
)

var (
	// ErrLoad is returned when model file is missing or corrupt.
	ErrLoad = errors.New("load model")
	// ErrBind is returned when model doesn't support requested channels
	// and sample rate.
	ErrBind = errors.New("bind model")
	// ErrOutOfRange is returned when bus index is not valid.
	ErrOutOfRange = errors.New("bus index out of range")
	// ErrInvalidState is returned if processor method cannot be executed
	// at this moment.
	ErrInvalidState = errors.New("invalid state")
	// ErrLatencyNotConverging is returned if engine doesn't emit delayed
	// audio within flush limit.
	ErrLatencyNotConverging = errors.New("latency not converging")
	// ErrChannelMismatch is returned when block doesn't match the number
	// of processor channels.
	ErrChannelMismatch = errors.New("channel mismatch")
	// ErrBusMismatch is returned when engine returns inconsistent buses.
	ErrBusMismatch = errors.New("bus mismatch")
)

// execErrors wraps errors that might occur when multiple resources are
// released.
type execErrors []error

func (e execErrors) Error() string {
	s := []string{}
	for _, se := range e {
		s = append(s, se.Error())
	}
	return strings.Join(s, ",")
}

// Is checks if any of errors match provided sentinel error.
func (e execErrors) Is(err error) bool {
	for _, se := range e {
		if errors.Is(se, err) {
			return true
		}
	}
	return false
}

// ret returns untyped nil if error is list is empty.
func (e execErrors) ret() error {
	if len(e) > 0 {
		return e
	}
	return nil
}

// append adds error to the list if it's not nil.
func (e execErrors) append(err error) execErrors {
	if err != nil {
		return append(e, err)
	}
	return e
}
