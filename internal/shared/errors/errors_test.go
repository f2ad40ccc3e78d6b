package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestGetType(t *testing.T) {
	cause := errors.New("connection reset")

	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{"validation", Validation("missing mission"), ErrorTypeValidation},
		{"validation formatted", Validationf("no planet %q", "Kepler-1 b"), ErrorTypeValidation},
		{"not found", NotFoundf("launch %d not found", 7), ErrorTypeNotFound},
		{"persistence", WrapPersistence("failed to save launch", cause), ErrorTypePersistence},
		{"external", WrapExternal("launch data download failed", cause), ErrorTypeExternal},
		{"conflict", Conflictf("flight number %d taken", 101), ErrorTypeConflict},
		{"wrapped app error", fmt.Errorf("bootstrap: %w", External("status 500")), ErrorTypeExternal},
		{"plain error", cause, ErrorTypeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetType(tt.err); got != tt.want {
				t.Errorf("GetType() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := WrapPersistence("failed to save launch", cause)

	if !errors.Is(err, cause) {
		t.Errorf("errors.Is(err, cause) = false, want true")
	}

	if got, want := err.Error(), "failed to save launch: disk full"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	if !Is(err, ErrorTypePersistence) {
		t.Errorf("Is(err, ErrorTypePersistence) = false, want true")
	}

	if Is(nil, ErrorTypeInternal) {
		t.Errorf("Is(nil, ErrorTypeInternal) = true, want false")
	}
}
