package bpe

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func corpusOf(words ...string) *Corpus {
	c := NewCorpus()
	for _, w := range words {
		c.Add(w)
	}
	return c
}

// recount rebuilds counts and reverse sets from the current word sequences.
func recount(ix *bigramIndex) (map[Bigram]int64, map[Bigram][]uint32) {
	counts := make(map[Bigram]int64)
	rev := make(map[Bigram][]uint32)
	for id, w := range ix.words {
		for i := 0; i+1 < len(w.syms); i++ {
			p := Bigram{w.syms[i], w.syms[i+1]}
			counts[p] += w.freq
			if ids := rev[p]; len(ids) == 0 || ids[len(ids)-1] != uint32(id) {
				rev[p] = append(ids, uint32(id))
			}
		}
	}
	return counts, rev
}

func checkIndex(t *testing.T, ix *bigramIndex) {
	t.Helper()
	counts, rev := recount(ix)
	require.Equal(t, counts, ix.counts)
	require.Len(t, ix.rev, len(rev), "stale reverse sets")
	for p, ids := range rev {
		require.Contains(t, ix.rev, p)
		require.Equal(t, ids, ix.rev[p].ToArray(), "reverse set for %v", p)
	}
}

func TestBigramIndexBuild(t *testing.T) {
	end := symbolBase
	ix := newBigramIndex(corpusOf("ab", "ab", "ab", "abc"), end)

	assert.Equal(t, map[Bigram]int64{
		{'a', 'b'}: 4,
		{'b', end}: 3,
		{'b', 'c'}: 1,
		{'c', end}: 1,
	}, ix.counts)
	assert.Equal(t, uint64(2), ix.containing(Bigram{'a', 'b'}))
	checkIndex(t, ix)
}

func TestBigramIndexMergeKeepsCountsExact(t *testing.T) {
	c := NewCorpus()
	_, err := c.ReadFrom(strings.NewReader("aaaa aaa banana bandana ananas nan an a aa\nbanana banana aaa"))
	require.NoError(t, err)
	alloc := newSymbolAllocator(c.alphabet())
	ix := newBigramIndex(c, alloc.allocate())
	checkIndex(t, ix)

	for range 20 {
		top, ok := ix.best()
		if !ok {
			break
		}
		ix.merge(top.pair, alloc.allocate())
		checkIndex(t, ix)
		require.Zero(t, ix.count(top.pair), "merged pair %v still counted", top.pair)
	}
}

func TestBigramIndexBestIsMaximal(t *testing.T) {
	c, err := CountWords(strings.NewReader("the quick brown fox jumps over the lazy dog the dog barks the fox runs"))
	require.NoError(t, err)
	alloc := newSymbolAllocator(c.alphabet())
	ix := newBigramIndex(c, alloc.allocate())
	for {
		top, ok := ix.best()
		if !ok {
			break
		}
		for p := range ix.pool {
			n := ix.counts[p]
			beaten := n > top.freq || (n == top.freq && p.less(top.pair))
			require.False(t, beaten, "best %v (%d) beaten by %v (%d)", top.pair, top.freq, p, n)
		}
		ix.merge(top.pair, alloc.allocate())
	}
	assert.Empty(t, ix.pool)
}

func TestBigramIndexPrune(t *testing.T) {
	ix := newBigramIndex(corpusOf("ab", "ab", "ab", "ab", "ab", "cd"), symbolBase)

	assert.Equal(t, 2, ix.prune(2))
	rare := Bigram{'c', 'd'}
	assert.NotContains(t, ix.pool, rare)
	assert.Equal(t, int64(1), ix.count(rare), "prune keeps exact counts")
	assert.Equal(t, uint64(1), ix.containing(rare), "prune keeps reverse sets")

	// An increment brings a pruned pair back into the pool.
	ix.adjust(rare, 3)
	assert.Contains(t, ix.pool, rare)
	top, ok := ix.best()
	require.True(t, ok)
	assert.Equal(t, Bigram{'a', 'b'}, top.pair)
	assert.Equal(t, int64(5), top.freq)
}

func TestBigramIndexMergeFeedsPool(t *testing.T) {
	c := NewCorpus()
	c.AddN("ab", 5)
	c.Add("abc")
	c.Add("cd")
	alloc := newSymbolAllocator(c.alphabet())
	end := alloc.allocate()
	ix := newBigramIndex(c, end)

	require.Equal(t, 4, ix.prune(2))
	tail := Bigram{'c', end}
	require.NotContains(t, ix.pool, tail)

	r := alloc.allocate()
	ix.merge(Bigram{'a', 'b'}, r)
	checkIndex(t, ix)

	// Pairs created by the merge enter selection through their increments,
	// even below the threshold; untouched pruned pairs stay out.
	assert.Contains(t, ix.pool, Bigram{r, end})
	assert.Contains(t, ix.pool, Bigram{r, 'c'})
	assert.NotContains(t, ix.pool, tail)
	assert.Equal(t, int64(1), ix.count(tail))

	top, ok := ix.best()
	require.True(t, ok)
	assert.Equal(t, Bigram{r, end}, top.pair)
	assert.Equal(t, int64(5), top.freq)
	ix.merge(top.pair, alloc.allocate())

	top, ok = ix.best()
	require.True(t, ok)
	assert.Equal(t, Bigram{r, 'c'}, top.pair)
	assert.Equal(t, int64(1), top.freq)

	require.Equal(t, 1, ix.prune(2))
	_, ok = ix.best()
	assert.False(t, ok)
}

func TestBigramIndexPrunedPairsNeverGrow(t *testing.T) {
	c, err := CountWords(strings.NewReader(pangrams))
	require.NoError(t, err)
	alloc := newSymbolAllocator(c.alphabet())
	ix := newBigramIndex(c, alloc.allocate())

	pruned := make(map[Bigram]int64)
	record := func() {
		ix.prune(3)
		for p, n := range ix.counts {
			if _, in := ix.pool[p]; !in {
				if _, seen := pruned[p]; !seen {
					pruned[p] = n
				}
			}
		}
	}
	record()
	require.NotEmpty(t, pruned)
	for {
		top, ok := ix.best()
		if !ok {
			break
		}
		ix.merge(top.pair, alloc.allocate())
		for p, n := range pruned {
			require.LessOrEqual(t, ix.count(p), n, "pruned pair %v grew", p)
			require.NotContains(t, ix.pool, p, "pruned pair %v re-entered without growing", p)
		}
		record()
	}
	checkIndex(t, ix)
}

func TestReplacePair(t *testing.T) {
	const r = Symbol(1000)
	ab := Bigram{'a', 'b'}
	tests := []struct {
		in   string
		pair Bigram
		want []Symbol
	}{
		{"ab", ab, []Symbol{r}},
		{"aab", ab, []Symbol{'a', r}},
		{"abab", ab, []Symbol{r, r}},
		{"aba", ab, []Symbol{r, 'a'}},
		{"ba", ab, []Symbol{'b', 'a'}},
		// Overlapping occurrences are replaced left to right without rematching.
		{"aaa", Bigram{'a', 'a'}, []Symbol{r, 'a'}},
		{"", ab, nil},
	}
	for _, tt := range tests {
		var in []Symbol
		for _, ch := range tt.in {
			in = append(in, Symbol(ch))
		}
		assert.Equal(t, tt.want, replacePair(in, tt.pair, r), "replacePair(%q)", tt.in)
	}
}
