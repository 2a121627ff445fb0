package zooerr

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorIsMatchesKind(t *testing.T) {
	err := New(NotFound, "no such task: %s", "Cln-50Sav1-050625")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("errors.Is(%v, ErrNotFound) = false, want true", err)
	}
	if errors.Is(err, ErrInvalidRole) {
		t.Fatalf("errors.Is(%v, ErrInvalidRole) = true, want false", err)
	}
}

func TestErrorIsThroughWrapping(t *testing.T) {
	base := New(InvalidAssignment, "task already completed")
	wrapped := fmt.Errorf("assign: %w", base)
	if !errors.Is(wrapped, ErrInvalidAssignment) {
		t.Fatal("wrapped error lost its kind")
	}
	if got := KindOf(wrapped); got != InvalidAssignment {
		t.Errorf("KindOf = %v, want %v", got, InvalidAssignment)
	}
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"message", New(InvalidDate, "invalid date %q", "31/02/2025"), `invalid date "31/02/2025"`},
		{"bare kind", ErrInvalidRole, "invalid staff role"},
		{"wrapped", Wrap(NotFound, "loading roster", errors.New("boom")), "loading roster: boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestKindOfForeignError(t *testing.T) {
	if got := KindOf(errors.New("plain")); got != 0 {
		t.Errorf("KindOf(plain) = %v, want 0", got)
	}
}
