package apperror

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOfPrefersMostSpecificCause(t *testing.T) {
	connErr := errors.New("connection refused")

	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, KindInternal},
		{"plain error", errors.New("boom"), KindInternal},
		{"validation", Validation(map[string][]string{"title": {"required"}}), KindValidation},
		{"not found", NotFound("abc"), KindNotFound},
		{"wrapped not found", fmt.Errorf("lookup: %w", NotFound("abc")), KindNotFound},
		{"create failed with genre cause", CreateFailed(GenreNotFound("Western")), KindGenreNotFound},
		{"update failed with genre cause", UpdateFailed(GenreNotFound("Western")), KindGenreNotFound},
		{"create failed with storage cause", CreateFailed(connErr), KindCreateFailed},
		{"delete failed", DeleteFailed(connErr), KindDeleteFailed},
		{"storage unavailable", StorageUnavailable("list movies", connErr), KindStorageUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Fatalf("KindOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestErrorPreservesCause(t *testing.T) {
	cause := errors.New("tcp reset")
	err := UpdateFailed(cause)

	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to be reachable through Unwrap")
	}
	if got, want := err.Error(), "update movie: update_failed: tcp reset"; got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}

	var genreErr *GenreNotFoundError
	wrapped := CreateFailed(GenreNotFound("Horror"))
	if !errors.As(wrapped, &genreErr) || genreErr.Name != "Horror" {
		t.Fatalf("expected genre cause to be preserved, got %v", wrapped)
	}
}

func TestValidationErrorMessageIsDeterministic(t *testing.T) {
	err := Validation(map[string][]string{
		"year":  {"must be a number"},
		"title": {"is required"},
	})
	want := "validation failed: title: is required; year: must be a number"
	if got := err.Error(); got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
}

func TestIsNotFound(t *testing.T) {
	if !IsNotFound(fmt.Errorf("wrap: %w", NotFound("x"))) {
		t.Fatalf("expected wrapped not found to match")
	}
	if IsNotFound(UpdateFailed(errors.New("x"))) {
		t.Fatalf("update failure is not a not-found")
	}
}
