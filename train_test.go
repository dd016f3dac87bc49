package bpe

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pangrams = `the quick brown fox jumps over the lazy dog
the quick brown fox jumps over the lazy dog
pack my box with five dozen liquor jugs
sphinx of black quartz judge my vow
how vexingly quick daft zebras jump
the five boxing wizards jump quickly`

func patterns(t *testing.T, res *Result) []string {
	t.Helper()
	v, err := res.Vocabulary()
	require.NoError(t, err)
	return v.Patterns()
}

func TestLearnSingleMerge(t *testing.T) {
	c, err := CountWords(strings.NewReader("ab ab ab abc"))
	require.NoError(t, err)

	res, err := Learn(context.Background(), c, 1)
	require.NoError(t, err)
	require.Equal(t, StateDone, res.State)
	require.Len(t, res.Rules, 1)
	assert.Equal(t, Bigram{'a', 'b'}, res.Rules[0].Pair)

	var buf bytes.Buffer
	_, err = res.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, "ab\t4\n", buf.String())
}

func TestLearnDeterministic(t *testing.T) {
	c, err := CountWords(strings.NewReader(pangrams))
	require.NoError(t, err)

	var outputs []string
	for range 3 {
		res, err := Learn(context.Background(), c, 200)
		require.NoError(t, err)
		var buf bytes.Buffer
		_, err = res.WriteTo(&buf)
		require.NoError(t, err)
		outputs = append(outputs, buf.String())
	}
	assert.Equal(t, outputs[0], outputs[1])
	assert.Equal(t, outputs[1], outputs[2])
}

func TestLearnTieBreak(t *testing.T) {
	c, err := CountWords(strings.NewReader("cd ab"))
	require.NoError(t, err)

	res, err := Learn(context.Background(), c, 10)
	require.NoError(t, err)
	assert.Equal(t, StateExhausted, res.State)
	assert.Equal(t, []string{"ab", "cd", "ab</w>", "cd</w>"}, patterns(t, res))
}

func TestLearnEarlyTermination(t *testing.T) {
	c, err := CountWords(strings.NewReader("abc"))
	require.NoError(t, err)

	res, err := Learn(context.Background(), c, 50)
	require.NoError(t, err)
	assert.Equal(t, StateExhausted, res.State)
	assert.Equal(t, 50, res.Requested)
	// a,b,c,</w> collapses into one symbol after three merges.
	assert.Len(t, res.Rules, 3)
	assert.Equal(t, "abc</w>", patterns(t, res)[2])
}

func TestLearnEmptyCorpus(t *testing.T) {
	res, err := Learn(context.Background(), NewCorpus(), 10)
	require.NoError(t, err)
	assert.Equal(t, StateExhausted, res.State)
	assert.Empty(t, res.Rules)

	var buf bytes.Buffer
	_, err = res.WriteTo(&buf)
	require.NoError(t, err)
	assert.Empty(t, buf.String())
}

func TestLearnFrequenciesNonIncreasing(t *testing.T) {
	c, err := CountWords(strings.NewReader(pangrams))
	require.NoError(t, err)

	res, err := Learn(context.Background(), c, 500)
	require.NoError(t, err)
	for i := 1; i < len(res.Rules); i++ {
		require.LessOrEqual(t, res.Rules[i].Freq, res.Rules[i-1].Freq, "rule %d", i)
	}
}

func TestLearnRareThreshold(t *testing.T) {
	c, err := CountWords(strings.NewReader("ab ab ab ab ab cd"))
	require.NoError(t, err)

	res, err := Learn(context.Background(), c, 10, WithRareThreshold(2))
	require.NoError(t, err)
	assert.Equal(t, StateExhausted, res.State)
	assert.Equal(t, []string{"ab", "ab</w>"}, patterns(t, res))
	for _, r := range res.Rules {
		assert.GreaterOrEqual(t, r.Freq, int64(2))
	}

	unpruned, err := Learn(context.Background(), c, 10)
	require.NoError(t, err)
	assert.Len(t, unpruned.Rules, 4)
}

func TestLearnPruneInterval(t *testing.T) {
	c, err := CountWords(strings.NewReader(pangrams))
	require.NoError(t, err)

	every, err := Learn(context.Background(), c, 300, WithRareThreshold(2), WithPruneInterval(1))
	require.NoError(t, err)
	for _, r := range every.Rules {
		assert.GreaterOrEqual(t, r.Freq, int64(2))
	}
}

func TestLearnValidation(t *testing.T) {
	c := corpusOf("ab")
	ctx := context.Background()

	_, err := Learn(ctx, c, 0)
	require.ErrorIs(t, err, ErrInvalidUnits)

	_, err = Learn(ctx, c, 1, WithRareThreshold(-1))
	require.ErrorIs(t, err, ErrInvalidThreshold)

	_, err = Learn(ctx, c, 1, WithPruneInterval(0))
	require.ErrorIs(t, err, ErrInvalidPruneInterval)
}

func TestLearnCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Learn(ctx, corpusOf("ab"), 1)
	require.ErrorIs(t, err, context.Canceled)
}

func TestLearnDecodesEveryRule(t *testing.T) {
	c, err := CountWords(strings.NewReader(pangrams))
	require.NoError(t, err)

	res, err := Learn(context.Background(), c, 1000)
	require.NoError(t, err)
	v, err := res.Vocabulary()
	require.NoError(t, err)
	require.Equal(t, len(res.Rules), v.Len())
	for i, e := range v.Entries {
		pure := strings.TrimSuffix(e.Pattern, EndOfWord)
		assert.NotContains(t, pure, EndOfWord, "rule %d", i)
		assert.GreaterOrEqual(t, len([]rune(e.Pattern)), 2, "rule %d", i)
		assert.Equal(t, res.Rules[i].Freq, e.Freq)
	}
}

// Learning on a real text corpus, when one is available.
func TestLearnCorpusFile(t *testing.T) {
	data, err := os.ReadFile("testdata/corpus.txt")
	if err != nil {
		t.Skipf("missing corpus: %v", err)
	}
	c, err := CountWords(bytes.NewReader(data))
	require.NoError(t, err)

	res, err := Learn(context.Background(), c, 2000, WithRareThreshold(2))
	require.NoError(t, err)
	v, err := res.Vocabulary()
	require.NoError(t, err)

	seg, err := NewSegmenter(v)
	require.NoError(t, err)
	for _, tok := range strings.Fields(string(data)) {
		require.Equal(t, tok, strings.Join(seg.SegmentWord(tok), ""))
	}
}

func BenchmarkLearn(b *testing.B) {
	var sb strings.Builder
	for i := range 2000 {
		fmt.Fprintf(&sb, "%s w%d ", pangrams, i%97)
	}
	c, err := CountWords(strings.NewReader(sb.String()))
	if err != nil {
		b.Fatalf("count: %v", err)
	}
	b.ReportAllocs()
	for b.Loop() {
		if _, err := Learn(context.Background(), c, 500); err != nil {
			b.Fatalf("learn: %v", err)
		}
	}
}
