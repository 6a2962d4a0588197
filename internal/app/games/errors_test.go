package games

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorString(t *testing.T) {
	err := validationError("create game", []string{"a", "b"})
	if got := err.Error(); got != "create game: a, b" {
		t.Fatalf("unexpected message %q", got)
	}

	cause := errors.New("boom")
	err = serviceError("list games", cause)
	if got := err.Error(); !strings.Contains(got, "service") || !strings.Contains(got, "boom") {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestKindOfUnwrapsWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", notFoundError("get game", "abc"))
	if KindOf(wrapped) != KindNotFound {
		t.Fatalf("expected not found kind")
	}
	if !IsKind(wrapped, KindNotFound) || IsKind(wrapped, KindConflict) {
		t.Fatalf("IsKind mismatch")
	}
	if KindOf(errors.New("plain")) != KindService {
		t.Fatalf("expected plain errors to count as service errors")
	}
	if _, ok := AsError(errors.New("plain")); ok {
		t.Fatalf("expected plain error not to unwrap")
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("duplicate")
	err := conflictError("create game", cause)
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause reachable through Unwrap")
	}
}

func TestKindString(t *testing.T) {
	kinds := map[Kind]string{
		KindService:      "service",
		KindValidation:   "validation",
		KindUnauthorised: "unauthorised_developer",
		KindNotFound:     "not_found",
		KindConflict:     "conflict",
	}
	for k, want := range kinds {
		if k.String() != want {
			t.Fatalf("expected %s got %s", want, k)
		}
	}
}
