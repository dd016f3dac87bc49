package bpe

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with field names shared by the learner and the
// segmenter.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a Logger with the given handler.
// If handler is nil, a text handler writing to stderr at info level is used.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewTextLogger creates a Logger that writes human-readable text to stderr.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NewJSONLogger creates a Logger that writes JSON to stderr.
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NoopLogger creates a Logger that discards all output.
func NoopLogger() *Logger {
	return NewLogger(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(1000),
	}))
}

// LogIndex logs construction of the bigram index.
func (l *Logger) LogIndex(ctx context.Context, words, tokens int64, bigrams int) {
	l.InfoContext(ctx, "bigram index built",
		"words", words,
		"tokens", tokens,
		"bigrams", bigrams,
	)
}

// LogMerge logs a single merge decision.
func (l *Logger) LogMerge(ctx context.Context, unit int, pair Bigram, freq int64, rewritten int) {
	l.DebugContext(ctx, "merge",
		"unit", unit,
		"pair", pair.String(),
		"freq", freq,
		"words", rewritten,
	)
}

// LogProgress logs learning progress.
func (l *Logger) LogProgress(ctx context.Context, unit, units int, freq int64, pool int) {
	l.InfoContext(ctx, "learning",
		"unit", unit,
		"units", units,
		"freq", freq,
		"candidates", pool,
	)
}

// LogPrune logs a candidate pool compaction.
func (l *Logger) LogPrune(ctx context.Context, threshold int64, pruned, remaining int) {
	l.DebugContext(ctx, "pruned rare bigrams",
		"threshold", threshold,
		"pruned", pruned,
		"remaining", remaining,
	)
}

// LogFinish logs the final state of a learning run.
func (l *Logger) LogFinish(ctx context.Context, state State, learned, requested int) {
	if state == StateExhausted {
		l.InfoContext(ctx, "candidate bigrams exhausted before all units were learned",
			"learned", learned,
			"requested", requested,
		)
		return
	}
	l.InfoContext(ctx, "learning completed",
		"learned", learned,
		"state", state.String(),
	)
}
