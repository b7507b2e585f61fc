// Package schema gives a Manager an identity and an explicit way to
// construct a zero value for its type parameter, replacing the
// reflection-based instantiation spec.md's Design Notes rule out.
package schema

import "fmt"

// ConstructionError wraps a failure from a Schema's Default constructor
// (spec §7). Callers surface it rather than falling back to a reflected
// zero value.
type ConstructionError struct {
	SchemaID string
	Cause    error
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("schema %q: construction failed: %v", e.SchemaID, e.Cause)
}

func (e *ConstructionError) Unwrap() error { return e.Cause }

// Schema names a document shape and supplies the value CREATE should
// materialize when the caller wants the type's default rather than an
// explicit value (manager.MakeCreateDefault).
type Schema[T any] struct {
	// ID identifies the schema for diagnostics and Manager.Equal; it plays
	// no role in operation ordering.
	ID string
	// Default constructs the zero/initial value of T. Required: a nil
	// Default makes MakeCreateDefault always fail with ConstructionError.
	Default func() (T, error)
}

// New builds a Schema with the given id and default constructor.
func New[T any](id string, def func() (T, error)) Schema[T] {
	return Schema[T]{ID: id, Default: def}
}

// Construct invokes Default, wrapping a nil Default or a constructor
// failure in a ConstructionError.
func (s Schema[T]) Construct() (T, error) {
	var zero T
	if s.Default == nil {
		return zero, &ConstructionError{SchemaID: s.ID, Cause: fmt.Errorf("no default constructor configured")}
	}
	v, err := s.Default()
	if err != nil {
		return zero, &ConstructionError{SchemaID: s.ID, Cause: err}
	}
	return v, nil
}
