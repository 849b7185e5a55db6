// Package apperror defines the error taxonomy shared by the catalog's
// repository, service and transport layers.
//
// Coarse failures (Error) keep the underlying cause reachable through Unwrap,
// so callers can respond with a stable signal while logs keep the real reason.
package apperror

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindGenreNotFound
	KindNotFound
	KindStorageUnavailable
	KindCreateFailed
	KindUpdateFailed
	KindDeleteFailed
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation_failed"
	case KindGenreNotFound:
		return "genre_not_found"
	case KindNotFound:
		return "not_found"
	case KindStorageUnavailable:
		return "storage_unavailable"
	case KindCreateFailed:
		return "create_failed"
	case KindUpdateFailed:
		return "update_failed"
	case KindDeleteFailed:
		return "delete_failed"
	default:
		return "internal"
	}
}

// ValidationError carries one or more messages per offending field.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, strings.Join(e.Fields[k], ", ")))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// GenreNotFoundError names the first genre that has no row in the genre table.
type GenreNotFoundError struct {
	Name string
}

func (e *GenreNotFoundError) Error() string {
	return fmt.Sprintf("genre '%s' does not exist", e.Name)
}

// NotFoundError reports that no movie exists for ID.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("movie %s not found", e.ID)
}

// Error is a coarse infrastructure failure wrapping its original cause.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Validation(fields map[string][]string) error {
	return &ValidationError{Fields: fields}
}

func GenreNotFound(name string) error {
	return &GenreNotFoundError{Name: name}
}

func NotFound(id string) error {
	return &NotFoundError{ID: id}
}

func StorageUnavailable(op string, err error) error {
	return &Error{Kind: KindStorageUnavailable, Op: op, Err: err}
}

func CreateFailed(err error) error {
	return &Error{Kind: KindCreateFailed, Op: "create movie", Err: err}
}

func UpdateFailed(err error) error {
	return &Error{Kind: KindUpdateFailed, Op: "update movie", Err: err}
}

func DeleteFailed(err error) error {
	return &Error{Kind: KindDeleteFailed, Op: "delete movie", Err: err}
}

// KindOf returns the most specific kind found in err's chain.
func KindOf(err error) Kind {
	if err == nil {
		return KindInternal
	}

	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return KindValidation
	}
	var genreErr *GenreNotFoundError
	if errors.As(err, &genreErr) {
		return KindGenreNotFound
	}
	var notFoundErr *NotFoundError
	if errors.As(err, &notFoundErr) {
		return KindNotFound
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// IsNotFound reports whether err signals an absent movie.
func IsNotFound(err error) bool {
	var notFoundErr *NotFoundError
	return errors.As(err, &notFoundErr)
}
