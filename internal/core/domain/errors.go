package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrUnauthenticated  = errors.New("unauthenticated")
	ErrForbidden        = errors.New("forbidden")
	ErrIllegalOperation = errors.New("illegal operation")
	ErrDeliveryFailed   = errors.New("delivery failed")
	ErrConflict         = errors.New("conflict")
	ErrInvalidInput     = errors.New("invalid input")
)

// NotFoundError reports every key of a lookup that matched nothing.
// A single-key lookup carries one name; batch lookups carry all misses.
type NotFoundError struct {
	Entity string // singular noun, e.g. "user role"
	Field  string // e.g. "name"
	Names  []string
}

func NewNotFound(entity, field string, names ...string) *NotFoundError {
	return &NotFoundError{Entity: entity, Field: field, Names: names}
}

func (e *NotFoundError) Error() string {
	if len(e.Names) == 1 {
		return fmt.Sprintf("no %s found with %s: %s", e.Entity, e.Field, quoteJoin(e.Names))
	}
	return fmt.Sprintf("no %ss found with %ss: %s", e.Entity, e.Field, quoteJoin(e.Names))
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// IllegalOperationError lists every protected name a mutation targeted.
type IllegalOperationError struct {
	Action string // "modify" or "remove"
	Names  []string
}

func (e *IllegalOperationError) Error() string {
	if len(e.Names) == 1 {
		return fmt.Sprintf("cannot %s read-only user role with name: %s", e.Action, quoteJoin(e.Names))
	}
	return fmt.Sprintf("cannot %s read-only user roles with names: %s", e.Action, quoteJoin(e.Names))
}

func (e *IllegalOperationError) Unwrap() error { return ErrIllegalOperation }

// ConflictError is a uniqueness violation on a natural key.
type ConflictError struct {
	Entity string
	Field  string
}

func (e *ConflictError) Error() string {
	if e.Field == "" {
		return e.Entity + " already exists"
	}
	return fmt.Sprintf("%s with this %s already exists", e.Entity, e.Field)
}

func (e *ConflictError) Unwrap() error { return ErrConflict }

func quoteJoin(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = "'" + n + "'"
	}
	return strings.Join(quoted, ", ")
}
