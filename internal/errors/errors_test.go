package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		kind Kind
		msg  string
	}{
		{"NotFound", NotFound("play not found"), ErrNotFound, "play not found"},
		{"NotFoundf", NotFoundf("play %d not found", 7), ErrNotFound, "play 7 not found"},
		{"Validation", Validation("bad state"), ErrValidation, "bad state"},
		{"Conflict", Conflict("limit reached"), ErrConflict, "limit reached"},
		{"Conflictf", Conflictf("limit of %d reached", 200), ErrConflict, "limit of 200 reached"},
		{"InvalidInput", InvalidInput("negative amount"), ErrInvalidInput, "negative amount"},
		{"InvalidInputf", InvalidInputf("unknown track %q", "X"), ErrInvalidInput, `unknown track "X"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Kind != tt.kind {
				t.Errorf("expected Kind %v, got %v", tt.kind, tt.err.Kind)
			}
			if tt.err.Message != tt.msg {
				t.Errorf("expected Message '%s', got '%s'", tt.msg, tt.err.Message)
			}
			if tt.err.Err != nil {
				t.Errorf("expected Err to be nil, got %v", tt.err.Err)
			}
		})
	}
}

func TestError_WithUnderlying(t *testing.T) {
	cause := errors.New("connection refused")
	err := Unavailable("interpreter unreachable", cause)

	if err.Error() != "interpreter unreachable: connection refused" {
		t.Errorf("unexpected message '%s'", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to find the cause")
	}
}

func TestInternal(t *testing.T) {
	cause := errors.New("disk full")
	err := Internal(cause)
	if err.Kind != ErrInternal || err.Message != "internal error" || err.Err != cause {
		t.Errorf("unexpected internal error %+v", err)
	}
}

func TestKindOf(t *testing.T) {
	wrapped := fmt.Errorf("saving state: %w", Conflict("busy"))
	if KindOf(wrapped) != ErrConflict {
		t.Errorf("expected conflict, got %v", KindOf(wrapped))
	}
	if KindOf(errors.New("plain")) != ErrInternal {
		t.Error("expected plain errors to be internal")
	}
	if !Is(wrapped, ErrConflict) || Is(wrapped, ErrNotFound) {
		t.Error("Is did not match the wrapped kind")
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(cause, ErrValidation, "checking ticket")
	if err.Kind != ErrValidation || err.Unwrap() != cause {
		t.Errorf("unexpected wrap result %+v", err)
	}
}

func TestKind_String(t *testing.T) {
	if ErrNotFound.String() != "not found" {
		t.Errorf("unexpected name %q", ErrNotFound.String())
	}
	if Kind(42).String() != "kind(42)" {
		t.Errorf("unexpected name %q", Kind(42).String())
	}
}
