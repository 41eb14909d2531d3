package table

import (
	"errors"
	"fmt"
)

// Errors returned by table operations.
var (
	ErrEmptyTable          = errors.New("table has no rows")
	ErrColumnNotFound      = errors.New("column not found")
	ErrNoColumns           = errors.New("no columns selected")
	ErrUnsupportedType     = errors.New("unsupported column type")
	ErrUnsupportedStrategy = errors.New("unsupported fill strategy")
	ErrMissingFillValue    = errors.New("constant fill strategy requires a fill value")
	ErrInvalidFillValue    = errors.New("invalid fill value")
	ErrUnsupportedFormat   = errors.New("unsupported table format")
	ErrInvalidData         = errors.New("invalid data format")
	ErrInvalidExpression   = errors.New("invalid filter expression")
)

// ColumnNotFoundError reports a referenced column that is absent from the table.
type ColumnNotFoundError struct {
	Name string
}

// Error implements the error interface.
func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("column not found: %s", e.Name)
}

// Is reports whether the target matches this error.
func (e *ColumnNotFoundError) Is(target error) bool {
	return target == ErrColumnNotFound
}

// UnsupportedTypeError reports an operation applied to a column whose type
// it cannot handle.
type UnsupportedTypeError struct {
	Column    string
	Type      string
	Operation string
}

// Error implements the error interface.
func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("%s is not supported for column %s of type %s", e.Operation, e.Column, e.Type)
}

// Is reports whether the target matches this error.
func (e *UnsupportedTypeError) Is(target error) bool {
	return target == ErrUnsupportedType
}
