// Package lexicon matches transcript tokens against a list of objectionable
// words and phrases, producing raw detections for the interval merger.
package lexicon

import (
	"bufio"
	"io"
	"strings"
	"unicode"
)

// Entry is one lexicon term. Multi-word phrases are stored pre-tokenized.
type Entry struct {
	Label  string
	Tokens []string
}

// Lexicon holds normalized entries, split into single words and phrases.
type Lexicon struct {
	words   map[string]string // normalized token -> label
	phrases []Entry           // entries with 2+ tokens
}

// New builds a Lexicon from raw entries. Entries are normalized the same way
// transcript tokens are; empty entries are ignored.
func New(entries []string) *Lexicon {
	lx := &Lexicon{words: make(map[string]string)}
	for _, raw := range entries {
		fields := strings.Fields(raw)
		tokens := make([]string, 0, len(fields))
		for _, f := range fields {
			if t := Normalize(f); t != "" {
				tokens = append(tokens, t)
			}
		}
		switch {
		case len(tokens) == 0:
			continue
		case len(tokens) == 1:
			lx.words[tokens[0]] = tokens[0]
		default:
			lx.phrases = append(lx.phrases, Entry{
				Label:  strings.Join(tokens, " "),
				Tokens: tokens,
			})
		}
	}
	return lx
}

// Parse reads a lexicon from its file form: one entry per line, blank lines
// and #-comments skipped.
func Parse(r io.Reader) ([]string, error) {
	var entries []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		entries = append(entries, line)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// Len reports the number of distinct entries.
func (lx *Lexicon) Len() int { return len(lx.words) + len(lx.phrases) }

// Contains reports whether the normalized form of token is a single-word
// entry. Used by the caption masker.
func (lx *Lexicon) Contains(token string) bool {
	_, ok := lx.words[Normalize(token)]
	return ok
}

// Words returns the normalized single-word entries.
func (lx *Lexicon) Words() []string {
	out := make([]string, 0, len(lx.words))
	for w := range lx.words {
		out = append(out, w)
	}
	return out
}

// Normalize lowercases a token and strips surrounding punctuation. Interior
// characters are kept, so contractions and hyphenated words survive intact.
// Whole-token equality against the result is the only match rule; substring
// containment never triggers ("housework" must not match "ho").
func Normalize(token string) string {
	t := strings.ToLower(strings.TrimSpace(token))
	return strings.TrimFunc(t, func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSymbol(r)
	})
}
