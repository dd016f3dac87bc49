package bpe

import (
	"container/heap"

	"github.com/RoaringBitmap/roaring/v2"
)

// word is one distinct corpus token in the arena. Its index in
// bigramIndex.words is its identity and never changes while syms shrinks.
type word struct {
	syms []Symbol
	freq int64
}

// bigramIndex tracks, for every adjacent symbol pair across all words, the
// exact weighted count and the set of words containing it.
//
// Layout:
//   - counts: pair -> sum of freq over every adjacent occurrence (exact at all times)
//   - rev:    pair -> ids of words containing the pair at least once
//   - pool:   pairs eligible for merge selection (counts minus pruned pairs)
//   - cands:  lazy max-heap over pool; entries whose freq no longer matches
//     counts, or whose pair left the pool, are discarded on access
//
// Only construction scans the whole corpus. A merge touches exactly the
// words in rev[pair].
type bigramIndex struct {
	words  []word
	counts map[Bigram]int64
	rev    map[Bigram]*roaring.Bitmap
	pool   map[Bigram]struct{}
	cands  candidateHeap
	delta  map[Bigram]int64 // scratch for rewrite
}

// newBigramIndex converts every corpus word into its initial symbol
// sequence and counts all adjacent pairs in a single pass.
func newBigramIndex(c *Corpus, end Symbol) *bigramIndex {
	words := c.words()
	ix := &bigramIndex{
		words:  make([]word, 0, len(words)),
		counts: make(map[Bigram]int64),
		rev:    make(map[Bigram]*roaring.Bitmap),
		pool:   make(map[Bigram]struct{}),
		delta:  make(map[Bigram]int64),
	}
	for _, w := range words {
		ix.words = append(ix.words, word{
			syms: symbolsFromWord(w, end),
			freq: c.Count(w),
		})
	}
	for id := range ix.words {
		w := &ix.words[id]
		for i := 0; i+1 < len(w.syms); i++ {
			p := Bigram{w.syms[i], w.syms[i+1]}
			ix.counts[p] += w.freq
			ix.reverse(p).Add(uint32(id))
		}
	}
	ix.cands = make(candidateHeap, 0, len(ix.counts))
	for p, n := range ix.counts {
		ix.pool[p] = struct{}{}
		ix.cands = append(ix.cands, candidate{pair: p, freq: n})
	}
	heap.Init(&ix.cands)
	return ix
}

func (ix *bigramIndex) reverse(p Bigram) *roaring.Bitmap {
	set, ok := ix.rev[p]
	if !ok {
		set = roaring.New()
		ix.rev[p] = set
	}
	return set
}

// count returns the exact weighted count of p.
func (ix *bigramIndex) count(p Bigram) int64 { return ix.counts[p] }

// containing returns the number of words currently containing p.
func (ix *bigramIndex) containing(p Bigram) uint64 {
	if set, ok := ix.rev[p]; ok {
		return set.GetCardinality()
	}
	return 0
}

// merge replaces every occurrence of pair with repl in the words that
// contain it and updates counts, reverse sets and the candidate pool.
// It returns the number of rewritten words.
func (ix *bigramIndex) merge(pair Bigram, repl Symbol) int {
	set, ok := ix.rev[pair]
	if !ok {
		return 0
	}
	// The reverse set is mutated while rewriting, so iterate a snapshot.
	ids := set.ToArray()
	for _, id := range ids {
		ix.rewrite(id, pair, repl)
	}
	return len(ids)
}

// rewrite moves word id from its old pairs to the pairs of its rewritten
// sequence. The net effect equals removing every old pair occurrence and
// adding every new one.
func (ix *bigramIndex) rewrite(id uint32, pair Bigram, repl Symbol) {
	w := &ix.words[id]
	clear(ix.delta)
	for i := 0; i+1 < len(w.syms); i++ {
		p := Bigram{w.syms[i], w.syms[i+1]}
		ix.delta[p] -= w.freq
		if set, ok := ix.rev[p]; ok {
			set.Remove(id)
		}
	}
	w.syms = replacePair(w.syms, pair, repl)
	for i := 0; i+1 < len(w.syms); i++ {
		p := Bigram{w.syms[i], w.syms[i+1]}
		ix.delta[p] += w.freq
		ix.reverse(p).Add(id)
	}
	for p, d := range ix.delta {
		if d != 0 {
			ix.adjust(p, d)
		}
	}
}

// adjust applies a net count change to p. Increments put p (back) into the
// candidate pool; a count reaching zero drops p everywhere.
func (ix *bigramIndex) adjust(p Bigram, d int64) {
	n := ix.counts[p] + d
	if n <= 0 {
		delete(ix.counts, p)
		delete(ix.pool, p)
		if set, ok := ix.rev[p]; ok && set.IsEmpty() {
			delete(ix.rev, p)
		}
		return
	}
	ix.counts[p] = n
	_, inPool := ix.pool[p]
	if d > 0 && !inPool {
		ix.pool[p] = struct{}{}
		inPool = true
	}
	if inPool {
		heap.Push(&ix.cands, candidate{pair: p, freq: n})
	}
}

// prune removes pairs whose count is below threshold from the candidate
// pool and compacts the heap. Counts and reverse sets are kept, so a pruned
// pair returns to the pool as soon as a merge increments it.
// It returns the number of pruned pairs.
func (ix *bigramIndex) prune(threshold int64) int {
	pruned := 0
	for p := range ix.pool {
		if ix.counts[p] < threshold {
			delete(ix.pool, p)
			pruned++
		}
	}
	ix.compact()
	return pruned
}

// compact rebuilds the heap from the pool, dropping stale entries.
func (ix *bigramIndex) compact() {
	ix.cands = ix.cands[:0]
	for p := range ix.pool {
		ix.cands = append(ix.cands, candidate{pair: p, freq: ix.counts[p]})
	}
	heap.Init(&ix.cands)
}

// best returns the pool pair with the highest count, breaking ties by the
// smaller pair. ok is false when the pool is empty.
func (ix *bigramIndex) best() (c candidate, ok bool) {
	if len(ix.cands) > 4*len(ix.pool)+1024 {
		ix.compact()
	}
	for len(ix.cands) > 0 {
		top := ix.cands[0]
		if _, in := ix.pool[top.pair]; in && ix.counts[top.pair] == top.freq {
			return top, true
		}
		heap.Pop(&ix.cands)
	}
	return candidate{}, false
}

// replacePair rewrites syms in place, substituting repl for every
// non-overlapping left-to-right occurrence of pair.
func replacePair(syms []Symbol, pair Bigram, repl Symbol) []Symbol {
	out := syms[:0]
	for i := 0; i < len(syms); {
		if i+1 < len(syms) && syms[i] == pair.Left && syms[i+1] == pair.Right {
			out = append(out, repl)
			i += 2
			continue
		}
		out = append(out, syms[i])
		i++
	}
	return out
}
