package fileio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// LocalFileIO implements FileIO for the local filesystem. Relative paths
// are resolved against the base path when one is set.
type LocalFileIO struct {
	basePath string
}

// NewLocalFileIO creates a new local file I/O handler.
func NewLocalFileIO(basePath string) *LocalFileIO {
	return &LocalFileIO{basePath: basePath}
}

// Open opens a file for reading.
func (l *LocalFileIO) Open(ctx context.Context, path string) (InputFile, error) {
	return &localInputFile{path: l.resolve(path)}, nil
}

// Exists checks if a file exists.
func (l *LocalFileIO) Exists(ctx context.Context, path string) (bool, error) {
	return statExists(l.resolve(path))
}

func (l *LocalFileIO) resolve(path string) string {
	path = normalizePath(path)
	if l.basePath != "" && !filepath.IsAbs(path) {
		return filepath.Join(l.basePath, path)
	}
	return path
}

// normalizePath removes file:// prefix if present.
func normalizePath(path string) string {
	return strings.TrimPrefix(path, "file://")
}

func statExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// localInputFile implements InputFile for local filesystem.
type localInputFile struct {
	path string
}

func (f *localInputFile) Location() string {
	return f.path
}

func (f *localInputFile) Exists(ctx context.Context) (bool, error) {
	return statExists(f.path)
}

func (f *localInputFile) Length(ctx context.Context) (int64, error) {
	info, err := os.Stat(f.path)
	if err != nil {
		return 0, wrapNotFound(f.path, err)
	}
	return info.Size(), nil
}

func (f *localInputFile) Open(ctx context.Context) (io.ReadCloser, error) {
	file, err := os.Open(f.path)
	if err != nil {
		return nil, wrapNotFound(f.path, err)
	}
	return file, nil
}

func wrapNotFound(path string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	return err
}
