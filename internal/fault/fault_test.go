package fault

import (
	"errors"
	"fmt"
	"testing"
)

func TestNilStaysNil(t *testing.T) {
	if Recoverable("read", nil) != nil {
		t.Error("Recoverable(nil) should be nil")
	}
	if Fatal("read", nil) != nil {
		t.Error("Fatal(nil) should be nil")
	}
	if IsFatal(nil) {
		t.Error("IsFatal(nil) should be false")
	}
}

func TestClassOf(t *testing.T) {
	base := errors.New("i/o error")

	tests := []struct {
		name string
		err  error
		want Class
	}{
		{"plain error", base, ClassRecoverable},
		{"recoverable", Recoverable("adc read", base), ClassRecoverable},
		{"fatal", Fatal("publish", base), ClassFatal},
		{"wrapped fatal", fmt.Errorf("sampler: %w", Fatal("publish", base)), ClassFatal},
		{"capacity sentinel", fmt.Errorf("push: %w", ErrCapacity), ClassFatal},
		{"config sentinel", ErrConfig, ClassFatal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassOf(tt.err); got != tt.want {
				t.Errorf("ClassOf: got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestErrorMessageAndUnwrap(t *testing.T) {
	err := Fatal("publish samples", ErrCapacity)

	if got, want := err.Error(), "fatal: publish samples: capacity exceeded"; got != want {
		t.Errorf("Error(): got %q, want %q", got, want)
	}
	if !errors.Is(err, ErrCapacity) {
		t.Error("expected errors.Is to find ErrCapacity")
	}

	var fe *Error
	if !errors.As(err, &fe) {
		t.Fatal("expected errors.As to find *Error")
	}
	if fe.Op != "publish samples" {
		t.Errorf("Op: got %q", fe.Op)
	}
}
