package bpe

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"slices"
	"strings"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"
)

// Mode selects the priority order of vocabulary patterns during segmentation.
type Mode string

const (
	// ModeLongest prefers the longest pattern applicable at each position.
	ModeLongest Mode = "longest"
	// ModeShortest prefers the shortest pattern applicable at each position.
	ModeShortest Mode = "shortest"
)

// ParseMode validates a matching mode name.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeLongest, ModeShortest:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
}

const (
	// noBranch marks a trie node where no pattern ends.
	noBranch = math.MaxInt32
	// segmentBatch is the number of lines Segment buffers per round.
	segmentBatch = 4096
)

// trieNode is a node of the compiled pattern alternation. free and anchored
// hold the best (lowest) branch priority of a pattern ending at this node,
// anchored applying only when the match ends at the end of the token.
type trieNode struct {
	children map[byte]*trieNode
	free     int32
	anchored int32
}

func newTrieNode() *trieNode {
	return &trieNode{free: noBranch, anchored: noBranch}
}

// branch is one alternative of the compiled matcher.
type branch struct {
	pattern  string
	anchored bool
	pure     int // rune length without EndOfWord
}

// Segmenter greedily splits tokens into vocabulary patterns.
//
// The vocabulary is compiled into an ordered alternation: one branch per
// pattern, sorted by pattern length (descending for ModeLongest, ascending
// for ModeShortest, vocabulary order among equal lengths), followed by a
// catch-all branch matching any single character. At every position the
// first branch that matches wins, so every token is always fully covered.
//
// A Segmenter is immutable after construction and safe for concurrent use.
type Segmenter struct {
	root     *trieNode
	branches int
	mode     Mode
	sep      string
	workers  int
}

// NewSegmenter compiles v into a Segmenter.
func NewSegmenter(v *Vocabulary, opts ...SegmentOption) (*Segmenter, error) {
	o := defaultSegmentOptions()
	for _, fn := range opts {
		fn(&o)
	}
	if err := o.validate(); err != nil {
		return nil, err
	}
	if v == nil {
		v = &Vocabulary{}
	}
	s := &Segmenter{
		root:    newTrieNode(),
		mode:    o.mode,
		sep:     o.separator,
		workers: o.workers,
	}
	for prio, b := range orderBranches(v.Entries, o.mode) {
		s.insert(b, int32(prio))
	}
	s.branches = len(v.Entries)
	return s, nil
}

// orderBranches turns entries into branches in priority order.
func orderBranches(entries []Entry, mode Mode) []branch {
	branches := make([]branch, len(entries))
	for i, e := range entries {
		anchored := strings.HasSuffix(e.Pattern, EndOfWord)
		pure := utf8.RuneCountInString(e.Pattern)
		if anchored {
			pure -= utf8.RuneCountInString(EndOfWord)
		}
		branches[i] = branch{pattern: e.Pattern, anchored: anchored, pure: pure}
	}
	slices.SortStableFunc(branches, func(a, b branch) int {
		if mode == ModeShortest {
			return a.pure - b.pure
		}
		return b.pure - a.pure
	})
	return branches
}

func (s *Segmenter) insert(b branch, prio int32) {
	n := s.root
	for i := 0; i < len(b.pattern); i++ {
		next, ok := n.children[b.pattern[i]]
		if !ok {
			if n.children == nil {
				n.children = make(map[byte]*trieNode)
			}
			next = newTrieNode()
			n.children[b.pattern[i]] = next
		}
		n = next
	}
	if b.anchored {
		n.anchored = min(n.anchored, prio)
	} else {
		n.free = min(n.free, prio)
	}
}

// Len returns the number of vocabulary branches, excluding the catch-all.
func (s *Segmenter) Len() int { return s.branches }

// Mode returns the matching mode.
func (s *Segmenter) Mode() Mode { return s.mode }

// Separator returns the continuation separator.
func (s *Segmenter) Separator() string { return s.sep }

// match returns the end of the highest-priority branch matching cand at
// position i. The catch-all branch guarantees progress.
func (s *Segmenter) match(cand string, i int) int {
	var (
		best int32 = noBranch
		end        = -1
		n          = s.root
	)
	for j := i; j < len(cand); j++ {
		n = n.children[cand[j]]
		if n == nil {
			break
		}
		if n.free < best {
			best, end = n.free, j+1
		}
		if n.anchored < best && j+1 == len(cand) {
			best, end = n.anchored, j+1
		}
	}
	if end < 0 {
		_, size := utf8.DecodeRuneInString(cand[i:])
		end = i + size
	}
	return end
}

// SegmentWord splits a single token into pieces. Concatenating the pieces
// yields token. Empty tokens yield no pieces.
func (s *Segmenter) SegmentWord(token string) []string {
	if token == "" {
		return nil
	}
	cand := token + EndOfWord
	var pieces []string
	for i := 0; i < len(cand); {
		end := s.match(cand, i)
		pieces = append(pieces, cand[i:end])
		i = end
	}
	return trimMarker(pieces)
}

// trimMarker removes the trailing EndOfWord bytes from pieces: pieces made
// up entirely of marker text are dropped and a piece carrying marker text
// as its suffix is cut.
func trimMarker(pieces []string) []string {
	rem := len(EndOfWord)
	for rem > 0 && len(pieces) > 0 {
		last := len(pieces) - 1
		if len(pieces[last]) <= rem {
			rem -= len(pieces[last])
			pieces = pieces[:last]
			continue
		}
		pieces[last] = pieces[last][:len(pieces[last])-rem]
		rem = 0
	}
	return pieces
}

// SegmentLine segments every whitespace-delimited token of line. Pieces are
// space-separated; each piece followed by another piece of the same token
// carries the continuation separator.
func (s *Segmenter) SegmentLine(line string) string {
	var b strings.Builder
	for _, tok := range strings.Fields(line) {
		pieces := s.SegmentWord(tok)
		for k, p := range pieces {
			if b.Len() > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(p)
			if k < len(pieces)-1 {
				b.WriteString(s.sep)
			}
		}
	}
	return b.String()
}

// Segment reads lines from r and writes one segmented line to w for each.
// With more than one worker, lines are segmented concurrently in batches;
// output order always matches input order.
func (s *Segmenter) Segment(ctx context.Context, r io.Reader, w io.Writer) error {
	var (
		br    = bufio.NewReaderSize(r, 64*1024)
		bw    = bufio.NewWriter(w)
		batch = make([]string, 0, segmentBatch)
		out   = make([]string, segmentBatch)
	)
	flush := func() error {
		res := out[:len(batch)]
		if err := s.segmentLines(ctx, batch, res); err != nil {
			return err
		}
		for _, line := range res {
			if _, err := bw.WriteString(line); err != nil {
				return err
			}
			if err := bw.WriteByte('\n'); err != nil {
				return err
			}
		}
		batch = batch[:0]
		return nil
	}
	for {
		line, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		if line != "" {
			batch = append(batch, strings.TrimRight(line, "\r\n"))
			if len(batch) == segmentBatch {
				if ferr := flush(); ferr != nil {
					return ferr
				}
			}
		}
		if errors.Is(err, io.EOF) {
			break
		}
	}
	if err := flush(); err != nil {
		return err
	}
	return bw.Flush()
}

// segmentLines fills out[i] with the segmentation of lines[i].
func (s *Segmenter) segmentLines(ctx context.Context, lines, out []string) error {
	if s.workers == 1 || len(lines) < 2 {
		for i := range lines {
			out[i] = s.SegmentLine(lines[i])
		}
		return ctx.Err()
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	chunk := (len(lines) + s.workers - 1) / s.workers
	for start := 0; start < len(lines); start += chunk {
		end := min(start+chunk, len(lines))
		g.Go(func() error {
			for i := start; i < end; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				out[i] = s.SegmentLine(lines[i])
			}
			return nil
		})
	}
	return g.Wait()
}
