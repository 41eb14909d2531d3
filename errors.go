package godataset

import (
	"errors"
	"fmt"

	"github.com/BrobridgeOrg/go-dataset/table"
)

// Common errors for dataset operations.
var (
	// Version errors
	ErrVersioningDisabled = errors.New("versioning is disabled")
	ErrInvalidName        = errors.New("invalid version name")
	ErrVersionNotFound    = errors.New("version not found")

	// Table errors
	ErrEmptyTable        = table.ErrEmptyTable
	ErrColumnNotFound    = table.ErrColumnNotFound
	ErrNoColumns         = table.ErrNoColumns
	ErrUnsupportedType   = table.ErrUnsupportedType
	ErrUnsupportedFormat = table.ErrUnsupportedFormat

	// Fill errors
	ErrUnsupportedStrategy = table.ErrUnsupportedStrategy
	ErrMissingFillValue    = table.ErrMissingFillValue
	ErrInvalidFillValue    = table.ErrInvalidFillValue

	// Configuration errors
	ErrInvalidConfig = errors.New("invalid configuration")
)

// ColumnNotFoundError reports a referenced column that is absent.
type ColumnNotFoundError = table.ColumnNotFoundError

// InvalidNameError represents a version name that cannot be used.
type InvalidNameError struct {
	Name   string
	Reason string
}

// Error implements the error interface.
func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("invalid version name %q: %s", e.Name, e.Reason)
}

// Is reports whether the target matches this error.
func (e *InvalidNameError) Is(target error) bool {
	return target == ErrInvalidName
}

// VersionNotFoundError represents a version name with no saved snapshot.
type VersionNotFoundError struct {
	Name string
}

// Error implements the error interface.
func (e *VersionNotFoundError) Error() string {
	return fmt.Sprintf("version not found: %s", e.Name)
}

// Is reports whether the target matches this error.
func (e *VersionNotFoundError) Is(target error) bool {
	return target == ErrVersionNotFound
}
