package transform

import "fmt"

// SchemaError reports a required key column that is absent from the input.
// It is fatal for the entity being normalized.
type SchemaError struct {
	Entity string
	Column string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: required column %q is absent from input", e.Entity, e.Column)
}

// ComputationError reports a cell that could not be cast or derived. The
// affected row is skipped; the rest of the entity continues.
type ComputationError struct {
	Entity string
	Row    int
	Column string
	Err    error
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("%s: row %d column %q: %v", e.Entity, e.Row, e.Column, e.Err)
}

func (e *ComputationError) Unwrap() error {
	return e.Err
}
