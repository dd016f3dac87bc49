package bpe

import (
	"context"
	"io"

	"golang.org/x/time/rate"
)

// State is the state of a learning run.
type State uint8

const (
	// StateRunning means merges are still being selected.
	StateRunning State = iota
	// StateExhausted means the candidate pool emptied before the requested
	// number of merges was reached. This is a normal outcome.
	StateExhausted
	// StateDone means the requested number of merges was learned.
	StateDone
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateExhausted:
		return "exhausted"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// Rule records one merge: every adjacent Pair was replaced by Replacement.
// Freq is the pair's count at the moment it was selected.
type Rule struct {
	Pair        Bigram
	Replacement Symbol
	Freq        int64
}

// Result is the outcome of Learn.
type Result struct {
	// Rules holds the merges in the order they were chosen. Later rules may
	// reference replacements of earlier ones.
	Rules []Rule
	// State is StateDone or StateExhausted.
	State State
	// Requested is the number of merge units asked for.
	Requested int
	// End is the symbol used as end-of-word marker during learning.
	End Symbol
}

// Vocabulary decodes the rules into human-readable patterns.
func (r *Result) Vocabulary() (*Vocabulary, error) {
	entries, err := decodeRules(r.Rules, r.End)
	if err != nil {
		return nil, err
	}
	return &Vocabulary{Entries: entries}, nil
}

// WriteTo writes the decoded vocabulary to w in FormatTSV.
func (r *Result) WriteTo(w io.Writer) (int64, error) {
	v, err := r.Vocabulary()
	if err != nil {
		return 0, err
	}
	return v.WriteTo(w)
}

// Learn repeatedly merges the most frequent adjacent symbol pair of c until
// units merges were recorded or no candidate pair is left.
//
// Ties between equally frequent pairs go to the pair with the smaller left
// symbol, then the smaller right symbol, so runs are reproducible. Learning
// is sequential; ctx is checked between merges.
func Learn(ctx context.Context, c *Corpus, units int, opts ...Option) (*Result, error) {
	if units <= 0 {
		return nil, ErrInvalidUnits
	}
	o := defaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	if err := o.validate(); err != nil {
		return nil, err
	}

	var (
		alloc = newSymbolAllocator(c.alphabet())
		end   = alloc.allocate()
		ix    = newBigramIndex(c, end)
		res   = &Result{Requested: units, End: end, State: StateRunning}
		log   = o.logger
	)
	log.LogIndex(ctx, int64(c.Len()), c.Tokens(), len(ix.counts))

	prune := func() {
		if o.rareThreshold == 0 {
			return
		}
		pruned := ix.prune(o.rareThreshold)
		log.LogPrune(ctx, o.rareThreshold, pruned, len(ix.pool))
	}
	prune()

	progress := rate.Sometimes{Interval: o.progressInterval}
	for res.State == StateRunning {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		top, ok := ix.best()
		if !ok {
			res.State = StateExhausted
			break
		}
		repl := alloc.allocate()
		res.Rules = append(res.Rules, Rule{Pair: top.pair, Replacement: repl, Freq: top.freq})
		rewritten := ix.merge(top.pair, repl)

		unit := len(res.Rules)
		log.LogMerge(ctx, unit, top.pair, top.freq, rewritten)
		progress.Do(func() { log.LogProgress(ctx, unit, units, top.freq, len(ix.pool)) })

		switch {
		case unit >= units:
			res.State = StateDone
		case unit%o.pruneInterval == 0:
			prune()
		}
	}
	log.LogFinish(ctx, res.State, len(res.Rules), units)
	return res, nil
}

// candidate is a heap entry for merge selection.
type candidate struct {
	pair Bigram
	freq int64
}

// candidateHeap is a max-heap of candidates by freq, breaking ties by the
// smaller pair so selection is deterministic.
type candidateHeap []candidate

// Len implements heap.Interface and returns the number of elements.
func (h candidateHeap) Len() int { return len(h) }

// Less implements heap.Interface ordering by descending freq, then by
// ascending pair.
func (h candidateHeap) Less(i, j int) bool {
	if h[i].freq != h[j].freq {
		return h[i].freq > h[j].freq
	}
	return h[i].pair.less(h[j].pair)
}

// Swap implements heap.Interface swap.
func (h candidateHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

// Push implements heap.Interface push.
func (h *candidateHeap) Push(x any) { *h = append(*h, x.(candidate)) }

// Pop implements heap.Interface pop.
func (h *candidateHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[0 : n-1]
	return x
}
