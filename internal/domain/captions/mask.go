package captions

import (
	"regexp"
	"sort"
	"strings"

	"scrub/internal/domain/lexicon"
	"scrub/internal/types"
)

// Masker deletes lexicon words from retained cue text. This is independent
// of the removal set: a cue can survive the cut (no timeline overlap) and
// still carry a word that should not be displayed, e.g. a detection below
// the severity threshold used only for display masking.
type Masker struct {
	patterns []*regexp.Regexp
}

var (
	spaceRuns      = regexp.MustCompile(` +`)
	spaceBeforePun = regexp.MustCompile(`\s+([.,!?;:])`)
)

// NewMasker compiles whole-word patterns for every single-word lexicon
// entry, longest first so "motherfucker" is consumed before "fuck".
func NewMasker(lx *lexicon.Lexicon) *Masker {
	words := lx.Words()
	sort.Slice(words, func(i, j int) bool {
		if len(words[i]) != len(words[j]) {
			return len(words[i]) > len(words[j])
		}
		return words[i] < words[j]
	})
	m := &Masker{}
	for _, w := range words {
		m.patterns = append(m.patterns, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(w)+`\b`))
	}
	return m
}

// MaskText removes matched words from text, preserving the rest of the
// sentence. Word boundaries keep "class" safe from "ass".
func (m *Masker) MaskText(text string) string {
	if text == "" {
		return text
	}
	out := text
	for _, re := range m.patterns {
		out = re.ReplaceAllString(out, "")
	}
	out = spaceRuns.ReplaceAllString(out, " ")
	out = spaceBeforePun.ReplaceAllString(out, "$1")
	return strings.TrimSpace(out)
}

// MaskCues masks every cue's text, dropping cues left empty. Returns the
// masked list and how many cues were modified.
func (m *Masker) MaskCues(cues []types.Cue) ([]types.Cue, int) {
	out := make([]types.Cue, 0, len(cues))
	modified := 0
	for _, c := range cues {
		masked := m.MaskText(c.Text)
		if masked != c.Text {
			modified++
		}
		if strings.TrimSpace(masked) == "" {
			continue
		}
		out = append(out, types.Cue{Start: c.Start, End: c.End, Text: masked})
	}
	return out, modified
}
