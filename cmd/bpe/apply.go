package main

import (
	"context"
	"errors"
	"flag"
	"runtime"

	"github.com/axiomhq/bpe"
	"github.com/axiomhq/bpe/storage"
)

func apply(ctx context.Context, args []string, e env) error {
	fs := flag.NewFlagSet("apply", flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	mode := fs.String("m", string(bpe.ModeLongest), "pattern priority: longest or shortest")
	sep := fs.String("s", bpe.DefaultSeparator, "continuation separator")
	workers := fs.Int("w", runtime.GOMAXPROCS(0), "segmentation workers")
	format := fs.String("format", string(bpe.FormatTSV), "vocabulary format")
	in := fs.String("i", "-", "text location")
	out := fs.String("o", "-", "segmented text location")
	if err := fs.Parse(args); err != nil {
		return usageError{err}
	}
	if fs.NArg() != 1 {
		return usagef("apply: expected exactly one vocabulary location")
	}
	m, err := bpe.ParseMode(*mode)
	if err != nil {
		return usageError{err}
	}
	if _, err := bpe.ParseFormat(*format); err != nil {
		return usageError{err}
	}
	if *sep == "" {
		return usageError{bpe.ErrInvalidSeparator}
	}
	if *workers <= 0 {
		return usagef("apply: -w must be positive, got %d", *workers)
	}

	vr, err := openLocation(ctx, fs.Arg(0), e)
	if err != nil {
		return err
	}
	vocab, err := bpe.ReadVocabulary(vr)
	if cerr := vr.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}

	seg, err := bpe.NewSegmenter(vocab,
		bpe.WithMode(m),
		bpe.WithSeparator(*sep),
		bpe.WithWorkers(*workers),
	)
	if err != nil {
		return err
	}

	r, err := openLocation(ctx, *in, e)
	if err != nil {
		return err
	}
	defer r.Close()
	w, err := createLocation(ctx, *out, e)
	if err != nil {
		return err
	}
	if err := seg.Segment(ctx, r, w); err != nil {
		return errors.Join(err, storage.Abort(w))
	}
	return w.Close()
}
