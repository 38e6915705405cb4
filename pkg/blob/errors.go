package blob

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Class is a typed failure classification returned by backends. The router
// decides fallback behavior from the class, never from error message text.
type Class int

const (
	// ClassOther covers auth, quota, malformed-key and any failure the
	// backend could not classify. Never triggers fallback.
	ClassOther Class = iota

	// ClassNotFound means the key (or prefix) does not exist.
	ClassNotFound

	// ClassUnreachable means the backend could not be reached at all:
	// DNS failure, connection refused, timeout. Safe to fall back on.
	ClassUnreachable
)

// Error wraps a backend failure with its classification and origin.
type Error struct {
	Backend string
	Class   Class
	err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("blob(%s): %v", e.Backend, e.err)
}

func (e *Error) Unwrap() error {
	return e.err
}

func newError(backend string, class Class, err error) *Error {
	return &Error{Backend: backend, Class: class, err: err}
}

// ClassOf extracts the classification from err. Plain errors are ClassOther.
func ClassOf(err error) Class {
	var e *Error
	if errors.As(err, &e) {
		return e.Class
	}
	return ClassOther
}

// IsNotFound reports whether err is a missing-key failure.
func IsNotFound(err error) bool {
	return ClassOf(err) == ClassNotFound
}

// classifyNetwork decides whether an unclassified transport error means the
// backend is unreachable. DNS errors, refused connections and deadline
// expiry all qualify; anything else stays ClassOther.
func classifyNetwork(err error) Class {
	if err == nil {
		return ClassOther
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ClassUnreachable
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return ClassUnreachable
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return ClassUnreachable
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ClassUnreachable
	}
	return ClassOther
}
