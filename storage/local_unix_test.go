//go:build unix

package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestLocalStoreStreamsFIFO(t *testing.T) {
	dir := t.TempDir()
	fifo := filepath.Join(dir, "corpus.fifo")
	require.NoError(t, unix.Mkfifo(fifo, 0o600))

	errc := make(chan error, 1)
	go func() {
		f, err := os.OpenFile(fifo, os.O_WRONLY, 0)
		if err != nil {
			errc <- err
			return
		}
		_, err = io.WriteString(f, "low lower lowest")
		errc <- errors.Join(err, f.Close())
	}()

	r, err := NewLocalStore(dir).Open(context.Background(), "corpus.fifo")
	require.NoError(t, err)
	got, err := io.ReadAll(r)
	require.NoError(t, err)
	require.NoError(t, r.Close())
	require.NoError(t, <-errc)
	require.Equal(t, "low lower lowest", string(got))
}
