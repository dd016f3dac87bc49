package bpe

import (
	"fmt"
	"unicode/utf8"
)

// Core constants for symbol allocation
const (
	// symbolBase is the first code handed out for synthetic symbols. It sits
	// one past the largest Unicode code point so that, for any valid text,
	// original characters and synthetic symbols never share a code.
	symbolBase Symbol = utf8.MaxRune + 1

	// EndOfWord is the literal boundary marker used in decoded patterns and
	// appended to every token before segmentation.
	EndOfWord = "</w>"
)

// Symbol is an atomic unit of a word's representation: an original
// character (its rune value), the end-of-word marker, or a symbol produced
// by a merge.
type Symbol uint32

// Bigram is an ordered pair of adjacent symbols.
type Bigram struct {
	Left, Right Symbol
}

// less orders bigrams by left symbol, then right symbol.
func (b Bigram) less(o Bigram) bool {
	if b.Left != o.Left {
		return b.Left < o.Left
	}
	return b.Right < o.Right
}

func (b Bigram) String() string {
	return fmt.Sprintf("(%d,%d)", b.Left, b.Right)
}

// symbolAllocator issues fresh symbols for one learning run.
//
// Codes used by the seed alphabet are never issued and issued codes are
// never reused; there is no release operation.
type symbolAllocator struct {
	used map[Symbol]struct{}
	next Symbol
}

func newSymbolAllocator(alphabet map[rune]struct{}) *symbolAllocator {
	used := make(map[Symbol]struct{}, len(alphabet))
	for r := range alphabet {
		used[Symbol(r)] = struct{}{}
	}
	return &symbolAllocator{used: used, next: symbolBase}
}

// allocate returns a code not currently in use, marks it used and advances
// the cursor.
func (a *symbolAllocator) allocate() Symbol {
	for {
		if _, taken := a.used[a.next]; !taken {
			break
		}
		a.next++
	}
	sym := a.next
	a.used[sym] = struct{}{}
	a.next++
	return sym
}

// inUse reports whether sym is part of the alphabet or was allocated.
func (a *symbolAllocator) inUse(sym Symbol) bool {
	_, ok := a.used[sym]
	return ok
}

// symbolsFromWord converts word into its initial representation: one symbol
// per rune followed by the end-of-word symbol.
func symbolsFromWord(word string, end Symbol) []Symbol {
	syms := make([]Symbol, 0, utf8.RuneCountInString(word)+1)
	for _, r := range word {
		syms = append(syms, Symbol(r))
	}
	return append(syms, end)
}
