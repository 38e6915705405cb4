// Package sberr defines the stable error categories callers switch on
// when mapping failures to API responses.
package sberr

import (
	"errors"
	"fmt"
)

// Code represents a stable error category.
type Code string

const (
	CodeUnknown      Code = "unknown"
	CodeUnauthorized Code = "unauthorized"
	CodeBadRequest   Code = "bad_request"
	CodeNotFound     Code = "not_found"
	CodeGone         Code = "gone"
	CodeTransient    Code = "transient"
	CodeInternal     Code = "internal"
)

// Error is a value type carrying a Code plus the underlying error.
type Error struct {
	Code Code
	err  error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.err == nil {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %v", e.Code, e.err)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.err
}

// New wraps an error with the provided code. If err is nil a nil is returned.
func New(code Code, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, err: err}
}

// Newf wraps a freshly formatted error with the provided code.
func Newf(code Code, format string, args ...any) error {
	return &Error{Code: code, err: fmt.Errorf(format, args...)}
}

// IsCode reports whether err carries the given code anywhere in its chain.
func IsCode(err error, code Code) bool {
	return CodeOf(err) == code
}

// CodeOf extracts the code from err, returning CodeUnknown for plain errors.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeUnknown
}
