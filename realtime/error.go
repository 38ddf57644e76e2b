package realtime

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorRun is returned if session was successfully started, but the loop
// and/or shutdown failed.
type ErrorRun struct {
	ErrExec     error
	ErrShutdown error
}

func (e *ErrorRun) Error() string {
	switch {
	case e.ErrExec != nil && e.ErrShutdown != nil:
		return fmt.Sprintf("shutdown error: %v after execute error: %v", e.ErrShutdown, e.ErrExec)
	case e.ErrExec != nil:
		return fmt.Sprintf("execute error: %v", e.ErrExec)
	case e.ErrShutdown != nil:
		return fmt.Sprintf("shutdown error: %v", e.ErrShutdown)
	}
	return ""
}

// Is checks if any of errors match provided sentinel error.
func (e *ErrorRun) Is(err error) bool {
	if e.ErrExec != nil && errors.Is(e.ErrExec, err) {
		return true
	}
	if e.ErrShutdown != nil && errors.Is(e.ErrShutdown, err) {
		return true
	}
	return false
}

// execErrors wraps errors that might occur when multiple devices are
// closed.
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
