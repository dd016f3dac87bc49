package bpe

import (
	"bufio"
	"io"
	"slices"
)

// maxTokenSize bounds a single whitespace-delimited token.
const maxTokenSize = 1 << 20

// Corpus counts distinct words and their occurrences.
// The zero value is not usable; create one with NewCorpus or CountWords.
type Corpus struct {
	counts map[string]int64
	tokens int64
}

// NewCorpus returns an empty corpus.
func NewCorpus() *Corpus {
	return &Corpus{counts: make(map[string]int64)}
}

// CountWords reads whitespace-delimited tokens from r into a new Corpus.
func CountWords(r io.Reader) (*Corpus, error) {
	c := NewCorpus()
	if _, err := c.ReadFrom(r); err != nil {
		return nil, err
	}
	return c, nil
}

// Add records one occurrence of word. Empty words are ignored.
func (c *Corpus) Add(word string) {
	c.AddN(word, 1)
}

// AddN records n occurrences of word. Empty words and n <= 0 are ignored.
func (c *Corpus) AddN(word string, n int64) {
	if word == "" || n <= 0 {
		return
	}
	c.counts[word] += n
	c.tokens += n
}

// ReadFrom adds every whitespace-delimited token read from r. The returned
// count is the number of tokens added.
func (c *Corpus) ReadFrom(r io.Reader) (int64, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxTokenSize)
	sc.Split(bufio.ScanWords)
	var n int64
	for sc.Scan() {
		c.Add(sc.Text())
		n++
	}
	return n, sc.Err()
}

// Len returns the number of distinct words.
func (c *Corpus) Len() int { return len(c.counts) }

// Tokens returns the total number of occurrences.
func (c *Corpus) Tokens() int64 { return c.tokens }

// Count returns the occurrence count of word.
func (c *Corpus) Count(word string) int64 { return c.counts[word] }

// words returns the distinct words in lexicographic order.
func (c *Corpus) words() []string {
	out := make([]string, 0, len(c.counts))
	for w := range c.counts {
		out = append(out, w)
	}
	slices.Sort(out)
	return out
}

// alphabet returns the set of runes occurring in any word.
func (c *Corpus) alphabet() map[rune]struct{} {
	set := make(map[rune]struct{})
	for w := range c.counts {
		for _, r := range w {
			set[r] = struct{}{}
		}
	}
	return set
}
