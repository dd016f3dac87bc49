package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"

	"github.com/axiomhq/bpe"
	"github.com/axiomhq/bpe/storage"
)

func learn(ctx context.Context, args []string, e env) error {
	fs := flag.NewFlagSet("learn", flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	units := fs.Int("u", bpe.DefaultUnits, "number of merge operations to learn")
	threshold := fs.Int64("t", 0, "drop bigrams seen fewer times than this from the candidate pool (0 disables)")
	pruneEvery := fs.Int("prune-every", bpe.DefaultPruneInterval, "merges between candidate pool prunes")
	in := fs.String("i", "-", "corpus location")
	out := fs.String("o", "-", "vocabulary location")
	verbose := fs.Bool("v", false, "log every merge")
	if err := fs.Parse(args); err != nil {
		return usageError{err}
	}
	if fs.NArg() > 0 {
		return usagef("learn: unexpected arguments %q", fs.Args())
	}
	if *units <= 0 {
		return usagef("learn: -u must be positive, got %d", *units)
	}
	if *threshold < 0 {
		return usagef("learn: -t must not be negative, got %d", *threshold)
	}
	if *pruneEvery <= 0 {
		return usagef("learn: -prune-every must be positive, got %d", *pruneEvery)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := bpe.NewLogger(slog.NewTextHandler(e.stderr, &slog.HandlerOptions{Level: level}))

	r, err := openLocation(ctx, *in, e)
	if err != nil {
		return err
	}
	corpus, err := bpe.CountWords(r)
	if cerr := r.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}

	res, err := bpe.Learn(ctx, corpus, *units,
		bpe.WithRareThreshold(*threshold),
		bpe.WithPruneInterval(*pruneEvery),
		bpe.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	w, err := createLocation(ctx, *out, e)
	if err != nil {
		return err
	}
	if _, err := res.WriteTo(w); err != nil {
		return errors.Join(err, storage.Abort(w))
	}
	return w.Close()
}
