package storage

import (
	"context"
	"io"
	"os"
)

// ErrNotFound is returned when an object does not exist.
//
// Implementations return an error that satisfies errors.Is(err, ErrNotFound).
var ErrNotFound = os.ErrNotExist

// Store opens and creates named objects.
type Store interface {
	// Open opens an object for reading.
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	// Create creates or replaces an object. The object becomes visible when
	// the returned writer is closed without error.
	Create(ctx context.Context, name string) (io.WriteCloser, error)
}

// Aborter is implemented by writers that can discard a partially written
// object instead of committing it.
type Aborter interface {
	Abort() error
}

// Abort discards w if it supports aborting and closes it otherwise.
func Abort(w io.WriteCloser) error {
	if a, ok := w.(Aborter); ok {
		return a.Abort()
	}
	return w.Close()
}
