package lexicon

import (
	"sort"

	"scrub/internal/types"
)

// Token is a timestamped transcript word as delivered by the transcriber.
type Token struct {
	Text  string
	Start float64
	End   float64
}

// MatchOptions tunes phrase matching.
type MatchOptions struct {
	// PhraseGap is the maximum silence allowed between consecutive tokens of
	// a multi-word phrase, in seconds.
	PhraseGap float64
}

// DefaultPhraseGap is the intra-phrase gap tolerance applied when
// MatchOptions.PhraseGap is unset.
const DefaultPhraseGap = 2.0

// Match scans tokens for lexicon hits and returns audio-source detections.
// Tokens may arrive out of order; they are sorted by start time first.
// A token consumed by a phrase match is not also reported as a standalone
// single-word detection.
func (lx *Lexicon) Match(tokens []Token, opts MatchOptions) []types.Detection {
	gap := opts.PhraseGap
	if gap <= 0 {
		gap = DefaultPhraseGap
	}

	norm := make([]Token, 0, len(tokens))
	for _, tok := range tokens {
		t := Normalize(tok.Text)
		if t == "" {
			continue
		}
		norm = append(norm, Token{Text: t, Start: tok.Start, End: tok.End})
	}
	sort.SliceStable(norm, func(i, j int) bool { return norm[i].Start < norm[j].Start })

	consumed := make([]bool, len(norm))
	var out []types.Detection

	for i := range norm {
		if consumed[i] {
			continue
		}
		if m, ok := lx.bestPhraseAt(norm, i, gap); ok {
			for k := m.first; k <= m.last; k++ {
				consumed[k] = true
			}
			out = append(out, types.Detection{
				Start:  norm[m.first].Start,
				End:    norm[m.last].End,
				Label:  m.label,
				Source: types.SourceAudio,
			})
		}
	}

	for i, tok := range norm {
		if consumed[i] {
			continue
		}
		if label, ok := lx.words[tok.Text]; ok {
			out = append(out, types.Detection{
				Start:  tok.Start,
				End:    tok.End,
				Label:  label,
				Source: types.SourceAudio,
			})
		}
	}
	return out
}

type phraseMatch struct {
	first, last int
	label       string
}

// bestPhraseAt tries every phrase entry anchored at token index i and keeps
// the one with the most tokens; ties break on earliest end time.
func (lx *Lexicon) bestPhraseAt(tokens []Token, i int, gap float64) (phraseMatch, bool) {
	var best phraseMatch
	bestLen := 0
	found := false
	for _, ph := range lx.phrases {
		last, ok := matchPhrase(tokens, i, ph.Tokens, gap)
		if !ok {
			continue
		}
		switch {
		case len(ph.Tokens) > bestLen:
		case len(ph.Tokens) == bestLen && tokens[last].End < tokens[best.last].End:
		default:
			continue
		}
		best = phraseMatch{first: i, last: last, label: ph.Label}
		bestLen = len(ph.Tokens)
		found = true
	}
	return best, found
}

// matchPhrase checks that want appears consecutively starting at tokens[i]
// with no inter-token silence exceeding gap. Returns the index of the final
// matched token.
func matchPhrase(tokens []Token, i int, want []string, gap float64) (int, bool) {
	if i+len(want) > len(tokens) {
		return 0, false
	}
	for k, w := range want {
		idx := i + k
		if tokens[idx].Text != w {
			return 0, false
		}
		if k > 0 && tokens[idx].Start-tokens[idx-1].End > gap {
			return 0, false
		}
	}
	return i + len(want) - 1, true
}

// TranscriptTokens flattens a transcript into matcher tokens.
func TranscriptTokens(tr types.Transcript) []Token {
	var out []Token
	for _, seg := range tr.Segments {
		for _, w := range seg.Words {
			out = append(out, Token{Text: w.Word, Start: w.Start, End: w.End})
		}
	}
	return out
}
