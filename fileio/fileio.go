// Package fileio opens dataset files on the local filesystem or in S3.
package fileio

import (
	"context"
	"errors"
	"io"
	"strings"
)

// ErrNotFound is returned when a file does not exist.
var ErrNotFound = errors.New("file not found")

// FileIO is the interface for locating input files.
type FileIO interface {
	// Open returns a handle to the file at path. The file is not read until
	// InputFile.Open is called.
	Open(ctx context.Context, path string) (InputFile, error)

	// Exists checks if a file exists.
	Exists(ctx context.Context, path string) (bool, error)
}

// InputFile represents a readable file.
type InputFile interface {
	// Location returns the file location.
	Location() string

	// Exists checks if the file exists.
	Exists(ctx context.Context) (bool, error)

	// Length returns the file length in bytes.
	Length(ctx context.Context) (int64, error)

	// Open opens the file for reading.
	Open(ctx context.Context) (io.ReadCloser, error)
}

// IsS3 reports whether path is an s3:// or s3a:// URI.
func IsS3(path string) bool {
	return strings.HasPrefix(path, "s3://") || strings.HasPrefix(path, "s3a://")
}
