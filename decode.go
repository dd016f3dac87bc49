package bpe

import "fmt"

// decodeRules expands every rule's replacement symbol into the original
// characters it stands for, with the end-of-word symbol rendered as
// EndOfWord. Entries keep the order of rules.
func decodeRules(rules []Rule, end Symbol) ([]Entry, error) {
	inv := make(map[Symbol]Bigram, len(rules))
	for _, r := range rules {
		inv[r.Replacement] = r.Pair
	}
	d := &ruleDecoder{
		inv:  inv,
		end:  end,
		memo: make(map[Symbol]string, len(rules)),
	}
	entries := make([]Entry, 0, len(rules))
	for i, r := range rules {
		pattern, err := d.expand(r.Replacement)
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i+1, err)
		}
		entries = append(entries, Entry{Pattern: pattern, Freq: r.Freq})
	}
	return entries, nil
}

type ruleDecoder struct {
	inv  map[Symbol]Bigram
	end  Symbol
	memo map[Symbol]string
}

// expand resolves sym with an explicit stack; merge chains can be as long
// as the number of rules.
func (d *ruleDecoder) expand(sym Symbol) (string, error) {
	if s, ok := d.memo[sym]; ok {
		return s, nil
	}
	type frame struct {
		sym      Symbol
		expanded bool
	}
	var (
		stack  = []frame{{sym: sym}}
		active = make(map[Symbol]struct{}) // frames whose children are pending
	)
	for len(stack) > 0 {
		top := len(stack) - 1
		f := stack[top]
		if _, ok := d.memo[f.sym]; ok {
			stack = stack[:top]
			continue
		}
		pair, ok := d.inv[f.sym]
		if !ok {
			s, err := d.terminal(f.sym)
			if err != nil {
				return "", err
			}
			d.memo[f.sym] = s
			stack = stack[:top]
			continue
		}
		if f.expanded {
			d.memo[f.sym] = d.memo[pair.Left] + d.memo[pair.Right]
			delete(active, f.sym)
			stack = stack[:top]
			continue
		}
		if _, cyclic := active[f.sym]; cyclic {
			return "", fmt.Errorf("%w: symbol %d", ErrCyclicRule, f.sym)
		}
		active[f.sym] = struct{}{}
		stack[top].expanded = true
		stack = append(stack, frame{sym: pair.Right}, frame{sym: pair.Left})
	}
	return d.memo[sym], nil
}

func (d *ruleDecoder) terminal(sym Symbol) (string, error) {
	switch {
	case sym == d.end:
		return EndOfWord, nil
	case sym < symbolBase:
		return string(rune(sym)), nil
	default:
		return "", fmt.Errorf("%w: %d", ErrUnknownSymbol, sym)
	}
}
