package retry

import (
	"context"
	"errors"
	"io"
	"net"
	"syscall"
)

// IOError marks a transport failure, eligible for retry under IOPolicy.
type IOError struct {
	Err error
}

func (e *IOError) Error() string {
	return e.Err.Error()
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// MarkIO wraps err as an IOError. A nil error stays nil.
func MarkIO(err error) error {
	if err == nil {
		return nil
	}
	return &IOError{err}
}

type permanentError struct {
	err error
}

func (e *permanentError) Error() string {
	return e.err.Error()
}

func (e *permanentError) Unwrap() error {
	return e.err
}

// Permanent marks err as fatal so that no policy retries it.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err}
}

// IsIO reports whether err is a transport failure.
func IsIO(err error) bool {
	if err == nil {
		return false
	}
	var ioErr *IOError
	if errors.As(err, &ioErr) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED)
}

// IsFatal reports whether err must never be retried.
func IsFatal(err error) bool {
	var permErr *permanentError
	if errors.As(err, &permErr) {
		return true
	}
	return errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}
