// Package storage defines the FileStore interface for reading and writing
// rendered files. Outputs go either to the local disk or to an S3-compatible
// object store, selected by the destination URI.
//
// Writes are all-or-nothing: a destination is only replaced once the writer
// has been closed without error.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// FileStore is a minimal interface for file-oriented storage.
//
// Paths are forward-slash separated and relative to the store root.
// Implementations must be safe for concurrent use.
type FileStore interface {
	// Read opens the named file for reading.
	// The caller must close the returned ReadCloser when done.
	// If the file does not exist, an error wrapping os.ErrNotExist is returned.
	Read(ctx context.Context, path string) (io.ReadCloser, error)

	// Write opens the named file for writing. The file is replaced only
	// when the returned writer is closed after every Write succeeded;
	// until then the previous content, if any, stays visible.
	// Parent directories are created automatically.
	Write(ctx context.Context, path string) (io.WriteCloser, error)

	// Delete removes the named file.
	// If the file does not exist, Delete returns nil (idempotent).
	Delete(ctx context.Context, path string) error

	// Exists reports whether the named file exists.
	Exists(ctx context.Context, path string) (bool, error)
}

// ErrURI is returned by Resolve for malformed destinations.
var ErrURI = errors.New("storage: invalid uri")

const s3Scheme = "s3://"

// Resolve maps a destination to a store and a path within it. URIs of the
// form s3://bucket/key use an S3Store built from cfg; anything else is a
// local file path, served by a Local store rooted at its directory.
func Resolve(uri string, cfg S3Config) (FileStore, string, error) {
	if rest, ok := strings.CutPrefix(uri, s3Scheme); ok {
		bucket, key, _ := strings.Cut(rest, "/")
		if bucket == "" || key == "" || strings.HasSuffix(key, "/") {
			return nil, "", fmt.Errorf("%w: %q needs s3://bucket/key", ErrURI, uri)
		}
		client, err := NewS3Client(cfg)
		if err != nil {
			return nil, "", err
		}
		return NewS3(client, bucket, ""), key, nil
	}
	if uri == "" {
		return nil, "", fmt.Errorf("%w: empty path", ErrURI)
	}
	abs, err := filepath.Abs(uri)
	if err != nil {
		return nil, "", err
	}
	dir, name := filepath.Split(abs)
	if name == "" {
		return nil, "", fmt.Errorf("%w: %q is a directory", ErrURI, uri)
	}
	store, err := NewLocal(dir)
	if err != nil {
		return nil, "", err
	}
	return store, name, nil
}

// Aborter is implemented by writers that can discard what has been written
// so far without touching the destination.
type Aborter interface {
	Abort() error
}

// Abort discards w if it supports Aborter and closes it otherwise.
func Abort(w io.WriteCloser) error {
	if a, ok := w.(Aborter); ok {
		return a.Abort()
	}
	return w.Close()
}
