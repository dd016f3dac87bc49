// Package bpe learns and applies subword vocabularies via byte pair encoding.
//
// # Overview
//
// Byte pair encoding (BPE) builds a compact, open vocabulary by repeatedly
// merging the most frequent adjacent pair of symbols in a corpus. Every
// word starts as its characters followed by an end-of-word marker; each
// merge replaces a pair with a fresh symbol. The ordered list of merges,
// expanded back to text, is the vocabulary. Segmenting new text with it
// splits rare or unseen words into known pieces instead of producing
// out-of-vocabulary tokens.
//
// # Learning
//
// Learning keeps, for every adjacent pair, its exact corpus-weighted count
// and the set of words containing it. Only the initial index build scans
// the corpus; each merge rewrites just the words that contain the merged
// pair. Ties between equally frequent pairs are broken by symbol order, so
// a corpus always produces the same rules.
//
//	corpus, _ := bpe.CountWords(strings.NewReader("low lower lowest newer wider"))
//	res, _ := bpe.Learn(ctx, corpus, 100, bpe.WithRareThreshold(2))
//	vocab, _ := res.Vocabulary()
//	vocab.WriteTo(os.Stdout) // "pattern\tfrequency" per line
//
// Asking for more merges than the corpus supports is not an error: learning
// stops when no candidate pair is left and Result.State is StateExhausted.
//
// # Segmentation
//
// A Segmenter compiles a vocabulary into a priority-ordered greedy matcher.
// ModeLongest tries longer patterns first, ModeShortest shorter ones.
// Patterns ending in EndOfWord only match at the end of a token. A
// single-character fallback guarantees every token is covered.
//
//	seg, _ := bpe.NewSegmenter(vocab, bpe.WithMode(bpe.ModeLongest))
//	out := seg.SegmentLine("lowest newest")
//
// Pieces followed by another piece of the same token carry the
// continuation separator ("@@" by default); concatenating a token's pieces
// without separators gives back the token.
//
// # Vocabulary format
//
// FormatTSV ("tsv/v1") is the only supported on-disk layout: one rule per
// line in learning order, the decoded pattern, a tab and the frequency at
// merge time. Malformed lines fail the whole read with a
// *MalformedRuleError naming the line.
//
// # Performance Characteristics
//
// Index build: O(total symbols in distinct words)
// Merge: O(length of words containing the pair) plus O(log n) per changed pair count
// Segmentation: O(token length × longest pattern) per token, lines in parallel with WithWorkers
package bpe
