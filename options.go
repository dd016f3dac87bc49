package bpe

import "time"

const (
	// DefaultUnits is the number of merges learned when a caller has no
	// preference.
	DefaultUnits = 10000
	// DefaultPruneInterval is the number of merges between candidate pool
	// compactions.
	DefaultPruneInterval = 100
	// DefaultSeparator marks segmented pieces that are followed by another
	// piece of the same token.
	DefaultSeparator = "@@"

	defaultProgressInterval = 5 * time.Second
)

type options struct {
	rareThreshold    int64
	pruneInterval    int
	progressInterval time.Duration
	logger           *Logger
}

func defaultOptions() options {
	return options{
		pruneInterval:    DefaultPruneInterval,
		progressInterval: defaultProgressInterval,
	}
}

func (o *options) validate() error {
	if o.rareThreshold < 0 {
		return ErrInvalidThreshold
	}
	if o.pruneInterval <= 0 {
		return ErrInvalidPruneInterval
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	return nil
}

// Option configures Learn.
type Option func(*options)

// WithRareThreshold sets the minimum count a bigram needs to stay in the
// merge candidate pool when the pool is pruned. Zero disables pruning.
func WithRareThreshold(threshold int64) Option {
	return func(o *options) {
		o.rareThreshold = threshold
	}
}

// WithPruneInterval sets how many merges pass between prunes of the
// candidate pool. The pool is also pruned once before the first merge.
func WithPruneInterval(merges int) Option {
	return func(o *options) {
		o.pruneInterval = merges
	}
}

// WithLogger configures the logger used for progress and completion
// messages. Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithProgressInterval sets the minimum time between info-level progress
// messages.
func WithProgressInterval(d time.Duration) Option {
	return func(o *options) {
		o.progressInterval = d
	}
}

type segmentOptions struct {
	mode      Mode
	separator string
	workers   int
}

func defaultSegmentOptions() segmentOptions {
	return segmentOptions{
		mode:      ModeLongest,
		separator: DefaultSeparator,
		workers:   1,
	}
}

func (o *segmentOptions) validate() error {
	if o.mode != ModeLongest && o.mode != ModeShortest {
		return ErrInvalidMode
	}
	if o.separator == "" {
		return ErrInvalidSeparator
	}
	if o.workers <= 0 {
		return ErrInvalidWorkers
	}
	return nil
}

// SegmentOption configures NewSegmenter.
type SegmentOption func(*segmentOptions)

// WithMode selects the priority order of vocabulary patterns.
func WithMode(m Mode) SegmentOption {
	return func(o *segmentOptions) {
		o.mode = m
	}
}

// WithSeparator sets the continuation separator appended to every piece
// that is followed by another piece of the same token.
func WithSeparator(sep string) SegmentOption {
	return func(o *segmentOptions) {
		o.separator = sep
	}
}

// WithWorkers sets how many goroutines Segment uses for a line stream.
// Output order always matches input order.
func WithWorkers(n int) SegmentOption {
	return func(o *segmentOptions) {
		o.workers = n
	}
}
