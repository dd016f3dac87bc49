package bpe

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
)

// Format names an on-disk vocabulary layout.
type Format string

const (
	// FormatTSV is the canonical layout: one rule per line in learning
	// order, "pattern<TAB>frequency", where pattern is the decoded string
	// and word-final patterns end in EndOfWord.
	FormatTSV Format = "tsv/v1"
	// FormatPairs is the historical "left right frequency" layout. It is
	// recognised only to be rejected.
	FormatPairs Format = "pairs"
)

// ParseFormat validates a format name. Only FormatTSV is supported.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatTSV, "tsv":
		return FormatTSV, nil
	case FormatPairs:
		return "", fmt.Errorf("%w: %q (convert to %s)", ErrUnsupportedFormat, s, FormatTSV)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// Entry is one decoded vocabulary pattern with its frequency at merge time.
type Entry struct {
	Pattern string
	Freq    int64
}

// Vocabulary is the decoded, ordered list of learned patterns.
// It is produced by Result.Vocabulary or read back with ReadVocabulary.
type Vocabulary struct {
	Entries []Entry
}

// ReadVocabulary reads a FormatTSV vocabulary from r.
func ReadVocabulary(r io.Reader) (*Vocabulary, error) {
	v := &Vocabulary{}
	if _, err := v.ReadFrom(r); err != nil {
		return nil, err
	}
	return v, nil
}

// Len returns the number of entries.
func (v *Vocabulary) Len() int { return len(v.Entries) }

// Patterns returns the patterns in vocabulary order.
func (v *Vocabulary) Patterns() []string {
	out := make([]string, len(v.Entries))
	for i, e := range v.Entries {
		out[i] = e.Pattern
	}
	return out
}

// WriteTo serializes the vocabulary to w in FormatTSV.
func (v *Vocabulary) WriteTo(w io.Writer) (int64, error) {
	var (
		n   int64
		bw  = bufio.NewWriter(w)
		buf []byte
	)
	for _, e := range v.Entries {
		buf = append(buf[:0], e.Pattern...)
		buf = append(buf, '\t')
		buf = strconv.AppendInt(buf, e.Freq, 10)
		buf = append(buf, '\n')
		nn, err := bw.Write(buf)
		n += int64(nn)
		if err != nil {
			return n, err
		}
	}
	return n, bw.Flush()
}

// ReadFrom replaces the vocabulary with the FormatTSV rules read from r.
// Blank lines are skipped; any other line that does not have exactly a
// non-empty pattern and a non-negative integer frequency fails the whole
// read with a *MalformedRuleError.
func (v *Vocabulary) ReadFrom(r io.Reader) (int64, error) {
	v.Entries = v.Entries[:0]
	var (
		n      int64
		lineNo int
		br     = bufio.NewReader(r)
	)
	for {
		line, err := br.ReadString('\n')
		n += int64(len(line))
		if err != nil && !errors.Is(err, io.EOF) {
			return n, err
		}
		if line == "" && errors.Is(err, io.EOF) {
			break
		}
		lineNo++
		line = strings.TrimRight(line, "\r\n")
		if line != "" {
			e, perr := parseEntry(line, lineNo)
			if perr != nil {
				return n, perr
			}
			v.Entries = append(v.Entries, e)
		}
		if errors.Is(err, io.EOF) {
			break
		}
	}
	return n, nil
}

func parseEntry(line string, lineNo int) (Entry, error) {
	malformed := func(reason string) error {
		return &MalformedRuleError{Line: lineNo, Content: line, Reason: reason}
	}
	fields := strings.Split(line, "\t")
	if len(fields) != 2 {
		return Entry{}, malformed(fmt.Sprintf("want 2 tab-separated fields, got %d", len(fields)))
	}
	pattern, freqStr := fields[0], fields[1]
	switch {
	case pattern == "":
		return Entry{}, malformed("empty pattern")
	case strings.ContainsFunc(pattern, unicode.IsSpace):
		return Entry{}, malformed("pattern contains whitespace")
	}
	freq, err := strconv.ParseInt(freqStr, 10, 64)
	if err != nil {
		return Entry{}, malformed("frequency is not an integer")
	}
	if freq < 0 {
		return Entry{}, malformed("negative frequency")
	}
	return Entry{Pattern: pattern, Freq: freq}, nil
}

// MarshalText implements encoding.TextMarshaler.
func (v *Vocabulary) MarshalText() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := v.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Vocabulary) UnmarshalText(data []byte) error {
	_, err := v.ReadFrom(bytes.NewReader(data))
	return err
}
