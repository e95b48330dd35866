package store

import (
	"errors"
	"fmt"

	"go-healthcare-records/internal/domain/entity"
)

var (
	ErrValidation = errors.New("validation failed")
	ErrReference  = errors.New("referenced record does not exist")
	ErrUniqueness = errors.New("duplicate value")
	ErrNotFound   = errors.New("record not found")
)

// ValidationError reports an attribute value outside its declared domain.
type ValidationError struct {
	Kind    entity.Kind
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s.%s: %s", e.Kind, e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// ReferenceError reports a foreign key pointing at a missing record.
type ReferenceError struct {
	Kind   entity.Kind
	Field  string
	Target entity.Kind
	ID     int64
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("%s.%s: %s %d does not exist", e.Kind, e.Field, e.Target, e.ID)
}

func (e *ReferenceError) Unwrap() error { return ErrReference }

// UniquenessError reports a value already held by another record.
type UniquenessError struct {
	Kind  entity.Kind
	Field string
	Value string
}

func (e *UniquenessError) Error() string {
	return fmt.Sprintf("%s.%s: %q already exists", e.Kind, e.Field, e.Value)
}

func (e *UniquenessError) Unwrap() error { return ErrUniqueness }

// NotFoundError reports an id absent from the store.
type NotFoundError struct {
	Kind entity.Kind
	ID   int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }
