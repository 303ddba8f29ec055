package captions

import (
	"testing"

	"scrub/internal/types"
)

func TestFromTranscript(t *testing.T) {
	t.Parallel()

	tr := types.Transcript{Segments: []types.Segment{
		{Start: 0.0, End: 2.5, Text: "  hello there  "},
		{Start: 2.5, End: 2.5, Text: "degenerate"},
		{Start: 3.0, End: 4.0, Text: "   "},
		{Start: 4.0, End: 6.0, Text: "good bye"},
	}}

	cues := FromTranscript(tr)
	if len(cues) != 2 {
		t.Fatalf("expected 2 cues, got %+v", cues)
	}
	if cues[0] != (types.Cue{Start: 0.0, End: 2.5, Text: "hello there"}) {
		t.Fatalf("unexpected first cue: %+v", cues[0])
	}
	if cues[1].Text != "good bye" {
		t.Fatalf("unexpected second cue: %+v", cues[1])
	}
}
