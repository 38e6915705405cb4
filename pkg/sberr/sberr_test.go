package sberr

import (
	"errors"
	"fmt"
	"testing"
)

func TestCodeOf(t *testing.T) {
	base := errors.New("boom")

	if got := CodeOf(New(CodeGone, base)); got != CodeGone {
		t.Errorf("expected gone, got %s", got)
	}

	if got := CodeOf(base); got != CodeUnknown {
		t.Errorf("plain error should be unknown, got %s", got)
	}

	// Code survives wrapping by callers.
	wrapped := fmt.Errorf("serving preview: %w", New(CodeNotFound, base))
	if !IsCode(wrapped, CodeNotFound) {
		t.Error("code should be found through wrapped chain")
	}
}

func TestNewNil(t *testing.T) {
	if New(CodeInternal, nil) != nil {
		t.Error("New with nil error should return nil")
	}
}

func TestUnwrap(t *testing.T) {
	base := errors.New("root cause")
	err := New(CodeTransient, base)
	if !errors.Is(err, base) {
		t.Error("wrapped error should match errors.Is")
	}
}
