package captions

import (
	"strings"

	"scrub/internal/types"
)

// FromTranscript builds a cue list out of transcription segments, for inputs
// that arrive without a sidecar subtitle file. Empty and degenerate segments
// are skipped; the rest map one cue per segment.
func FromTranscript(tr types.Transcript) []types.Cue {
	cues := make([]types.Cue, 0, len(tr.Segments))
	for _, seg := range tr.Segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" || seg.End <= seg.Start {
			continue
		}
		cues = append(cues, types.Cue{Start: seg.Start, End: seg.End, Text: text})
	}
	return cues
}
