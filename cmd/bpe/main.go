// Command bpe learns byte pair encoding vocabularies and applies them.
//
//	bpe learn [-u units] [-t threshold] [-prune-every n] [-i in] [-o out] [-v]
//	bpe apply [-m longest|shortest] [-s sep] [-w workers] [-format tsv/v1] [-i in] [-o out] vocab
//
// Inputs and outputs are "-" for stdin/stdout, a local path, s3://bucket/key
// or minio://bucket/key. Names ending in .zst or .lz4 are compressed.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

// usageError marks errors caused by bad invocation rather than bad data.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func usagef(format string, args ...any) error {
	return usageError{fmt.Errorf(format, args...)}
}

// env holds the process environment a command runs in.
type env struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	getenv func(string) string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], env{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
		getenv: os.Getenv,
	})
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, e env) int {
	if len(args) < 1 {
		fmt.Fprintln(e.stderr, "usage: bpe [learn|apply] [flags]")
		return exitUsage
	}
	var err error
	switch args[0] {
	case "learn":
		err = learn(ctx, args[1:], e)
	case "apply":
		err = apply(ctx, args[1:], e)
	default:
		err = usagef("unknown command %q", args[0])
	}
	return die(e.stderr, err)
}

// die reports err and maps it to an exit code.
func die(w io.Writer, err error) int {
	if err == nil {
		return exitOK
	}
	fmt.Fprintln(w, "bpe:", err)
	var ue usageError
	if errors.As(err, &ue) {
		return exitUsage
	}
	return exitFailure
}
