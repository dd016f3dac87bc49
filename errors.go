package bpe

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidUnits is returned when the number of merge units is not positive.
	ErrInvalidUnits = errors.New("bpe: merge units must be positive")
	// ErrInvalidThreshold is returned when the rare threshold is negative.
	ErrInvalidThreshold = errors.New("bpe: rare threshold must not be negative")
	// ErrInvalidPruneInterval is returned when the prune interval is not positive.
	ErrInvalidPruneInterval = errors.New("bpe: prune interval must be positive")
	// ErrInvalidMode is returned for a matching mode other than longest or shortest.
	ErrInvalidMode = errors.New("bpe: invalid matching mode")
	// ErrInvalidSeparator is returned for an empty continuation separator.
	ErrInvalidSeparator = errors.New("bpe: continuation separator must not be empty")
	// ErrInvalidWorkers is returned when the segmentation worker count is not positive.
	ErrInvalidWorkers = errors.New("bpe: workers must be positive")
	// ErrUnsupportedFormat is returned for a vocabulary format other than FormatTSV.
	ErrUnsupportedFormat = errors.New("bpe: unsupported vocabulary format")
	// ErrMalformedRule is the sentinel wrapped by MalformedRuleError.
	ErrMalformedRule = errors.New("bpe: malformed rule")
	// ErrUnknownSymbol is returned when a rule references a symbol that is
	// neither an original character, the end-of-word marker nor an earlier
	// replacement.
	ErrUnknownSymbol = errors.New("bpe: rule references unknown symbol")
	// ErrCyclicRule is returned when a rule's replacement transitively
	// references itself.
	ErrCyclicRule = errors.New("bpe: cyclic merge rule")
)

// MalformedRuleError reports a vocabulary line that does not match the
// declared format.
//
// errors.Is(err, ErrMalformedRule) holds for every MalformedRuleError.
type MalformedRuleError struct {
	Line    int
	Content string
	Reason  string
}

func (e *MalformedRuleError) Error() string {
	return fmt.Sprintf("bpe: malformed rule at line %d (%s): %q", e.Line, e.Reason, e.Content)
}

func (e *MalformedRuleError) Unwrap() error { return ErrMalformedRule }
