package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/axiomhq/bpe/internal/mmap"
)

// LocalStore implements Store on the local filesystem.
type LocalStore struct {
	root string
}

// NewLocalStore creates a LocalStore. Relative names resolve against root;
// absolute names are used as is.
func NewLocalStore(root string) *LocalStore {
	return &LocalStore{root: root}
}

func (s *LocalStore) path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(s.root, name)
}

// Open maps a regular file into memory and returns a reader over it.
// Pipes, FIFOs and devices report no usable size and are streamed instead.
func (s *LocalStore) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := s.path(name)
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !fi.Mode().IsRegular() {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		return f, nil
	}
	m, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Create writes to a temporary file in the target directory that is renamed
// into place on Close.
func (s *LocalStore) Create(ctx context.Context, name string) (io.WriteCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := s.path(name)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return nil, err
	}
	return &localWriter{f: f, path: path}, nil
}

type localWriter struct {
	f    *os.File
	path string
	done bool
}

func (w *localWriter) Write(p []byte) (int, error) {
	return w.f.Write(p)
}

func (w *localWriter) Close() error {
	if w.done {
		return nil
	}
	w.done = true
	err := w.f.Sync()
	if cerr := w.f.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(w.f.Name(), w.path)
	}
	if err != nil {
		return errors.Join(err, os.Remove(w.f.Name()))
	}
	return nil
}

// Abort removes the temporary file without touching the target.
func (w *localWriter) Abort() error {
	if w.done {
		return nil
	}
	w.done = true
	return errors.Join(w.f.Close(), os.Remove(w.f.Name()))
}
