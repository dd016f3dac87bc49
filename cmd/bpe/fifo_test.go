//go:build unix

package main

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestLearnFromFIFO(t *testing.T) {
	fifo := filepath.Join(t.TempDir(), "corpus")
	require.NoError(t, unix.Mkfifo(fifo, 0o600))

	errc := make(chan error, 1)
	go func() {
		f, err := os.OpenFile(fifo, os.O_WRONLY, 0)
		if err != nil {
			errc <- err
			return
		}
		_, err = io.WriteString(f, "ab ab ab abc")
		errc <- errors.Join(err, f.Close())
	}()

	e, stdout, stderr := testEnv("")
	code := run(context.Background(), []string{"learn", "-u", "1", "-i", fifo}, e)
	require.NoError(t, <-errc)
	require.Equal(t, exitOK, code, stderr.String())
	assert.Equal(t, "ab\t4\n", stdout.String())
}
