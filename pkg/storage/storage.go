// Package storage persists conversation artifacts such as the synthesized
// reply audio served back to the browser.
//
// FileStore abstracts the backend so the HTTP front-end can keep its
// artifacts on local disk or in an S3-compatible bucket.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
)

// ResponseAudioKey is the key under which the latest reply audio is kept.
const ResponseAudioKey = "response.wav"

// ErrInvalidPath is returned for keys that are empty or escape the store root.
var ErrInvalidPath = errors.New("storage: invalid path")

// FileStore is a minimal interface for file-oriented storage.
//
// Paths are forward-slash separated and relative to the store root.
// Implementations must be safe for concurrent use.
type FileStore interface {
	// Read opens the named file for reading. The caller must close it.
	// Missing files yield an error wrapping fs.ErrNotExist.
	Read(ctx context.Context, path string) (io.ReadCloser, error)

	// Write opens the named file for writing, replacing any previous
	// content once the writer is closed. Writers that also implement
	// Aborter discard the pending content on Abort.
	Write(ctx context.Context, path string) (io.WriteCloser, error)

	// Delete removes the named file. Missing files are not an error.
	Delete(ctx context.Context, path string) error

	// Exists reports whether the named file exists.
	Exists(ctx context.Context, path string) (bool, error)
}

// Aborter is implemented by writers that can drop a write in progress
// without publishing it.
type Aborter interface {
	Abort() error
}

// WriteFile stores data under path. A failed write leaves any previous
// content in place when the writer supports Abort.
func WriteFile(ctx context.Context, s FileStore, path string, data []byte) error {
	w, err := s.Write(ctx, path)
	if err != nil {
		return fmt.Errorf("storage: write %s: %w", path, err)
	}
	if _, err := w.Write(data); err != nil {
		if a, ok := w.(Aborter); ok {
			a.Abort()
		} else {
			w.Close()
		}
		return fmt.Errorf("storage: write %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("storage: write %s: %w", path, err)
	}
	return nil
}

// ReadFile returns the content stored under path.
func ReadFile(ctx context.Context, s FileStore, path string) ([]byte, error) {
	r, err := s.Read(ctx, path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", path, err)
	}
	return data, nil
}

// IsNotExist reports whether err means the file is missing.
func IsNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

// cleanPath validates a store key.
func cleanPath(path string) (string, error) {
	p := strings.Trim(path, "/")
	if p == "" || !fs.ValidPath(p) {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}
	return p, nil
}
