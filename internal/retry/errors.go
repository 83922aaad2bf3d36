package retry

import (
	"context"
	"errors"
	"net"
	"syscall"
)

var (
	ErrExhausted = &errExhausted{}
)

type errExhausted struct {
	attempts int
	err      error
}

func (e *errExhausted) Error() string {
	reason := "unknown reason"
	if e.err != nil {
		reason = e.err.Error()
	}
	return "all attempts failed: " + reason
}

func (e *errExhausted) Is(err error) bool {
	return err == ErrExhausted
}

func (e *errExhausted) Unwrap() error {
	return e.err
}

// Permanent marks err as not worth retrying. Do returns it on the first attempt.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
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

// IsPermanent reports whether err, or any error it wraps, was marked with Permanent.
func IsPermanent(err error) bool {
	var p *permanentError
	return errors.As(err, &p)
}

// Class groups failures for reporting.
type Class int

const (
	Unexpected Class = iota
	NetworkResolve
	NetworkRefused
	NetworkTimeout
	Network
)

var classNames = map[Class]string{
	Unexpected:     "unexpected error",
	NetworkResolve: "cannot resolve hostname",
	NetworkRefused: "connection failed",
	NetworkTimeout: "request timed out",
	Network:        "network error",
}

func (c Class) String() string {
	return classNames[c]
}

// IsNetwork reports whether c is one of the network classes.
func (c Class) IsNetwork() bool {
	return c != Unexpected
}

// Classify determines the Class of err.
func Classify(err error) Class {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		if dnsErr.IsTimeout {
			return NetworkTimeout
		}
		return NetworkResolve
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return NetworkTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return NetworkTimeout
	}
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) {
		return NetworkRefused
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return NetworkRefused
	}
	if netErr != nil {
		return Network
	}
	return Unexpected
}
