package lexicon

import (
	"sort"
	"strings"

	"scrub/internal/types"
)

// MatchCues scans subtitle cue text for lexicon hits. Cue text carries no
// per-word timing, so a hit flags the whole cue span; the merger's padding
// covers boundary slop. This is the fast detection path when subtitles are
// already available and transcription can be skipped.
func (lx *Lexicon) MatchCues(cues []types.Cue) []types.Detection {
	var out []types.Detection
	for _, cue := range cues {
		labels := lx.matchText(cue.Text)
		if len(labels) == 0 {
			continue
		}
		out = append(out, types.Detection{
			Start:  cue.Start,
			End:    cue.End,
			Label:  strings.Join(labels, ", "),
			Source: types.SourceAudio,
		})
	}
	return out
}

// matchText returns the sorted set of lexicon entries found in text.
// Matching is whole-token over normalized fields; phrases must appear as
// consecutive tokens.
func (lx *Lexicon) matchText(text string) []string {
	fields := strings.Fields(text)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if t := Normalize(f); t != "" {
			tokens = append(tokens, t)
		}
	}
	if len(tokens) == 0 {
		return nil
	}

	found := make(map[string]struct{})
	for _, tok := range tokens {
		if label, ok := lx.words[tok]; ok {
			found[label] = struct{}{}
		}
	}
	for _, ph := range lx.phrases {
	next:
		for i := 0; i+len(ph.Tokens) <= len(tokens); i++ {
			for k, w := range ph.Tokens {
				if tokens[i+k] != w {
					continue next
				}
			}
			found[ph.Label] = struct{}{}
			break
		}
	}
	if len(found) == 0 {
		return nil
	}
	out := make([]string, 0, len(found))
	for l := range found {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}
