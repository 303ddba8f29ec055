package types

import (
	"sort"
	"strings"
)

// Source identifies which detector produced a Detection.
type Source string

const (
	SourceAudio  Source = "audio"
	SourceVisual Source = "visual"
	SourceManual Source = "manual"
)

// Transcript is the word-timestamped output of a speech-to-text run.
type Transcript struct {
	Segments []Segment `json:"segments"`
}

type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
	Words []Word  `json:"words,omitempty"`
}

type Word struct {
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Word       string  `json:"word"`
	Confidence float64 `json:"confidence,omitempty"`
}

// Detection is a raw timestamped flag of objectionable content from one
// source. Immutable once created.
type Detection struct {
	Start  float64
	End    float64
	Label  string
	Source Source
}

// RemovalInterval is a merged, non-overlapping time range to be excised.
// Within one merged set intervals are sorted and satisfy
// interval[i].End <= interval[i+1].Start.
type RemovalInterval struct {
	Start   float64  `json:"start"`
	End     float64  `json:"end"`
	Reasons []string `json:"reasons,omitempty"`
}

// Duration returns the span of the interval in seconds.
func (r RemovalInterval) Duration() float64 { return r.End - r.Start }

// ReasonList renders the reason set as a stable comma-separated string.
func (r RemovalInterval) ReasonList() string {
	if len(r.Reasons) == 0 {
		return ""
	}
	out := make([]string, len(r.Reasons))
	copy(out, r.Reasons)
	sort.Strings(out)
	return strings.Join(out, ", ")
}

// RetainedSegment is the complement of the removal set; what survives the
// edit, expressed in original-timeline seconds.
type RetainedSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Cue is a single subtitle entry. Start and End are seconds.
type Cue struct {
	Start float64
	End   float64
	Text  string
}

// EditReport summarizes one pipeline run for logging and UI.
type EditReport struct {
	Removals     []RemovalInterval `json:"removals"`
	SegmentCount int               `json:"segment_count"`
	TotalRemoved float64           `json:"total_removed_seconds"`
	CuesBefore   int               `json:"cues_before"`
	CuesAfter    int               `json:"cues_after"`
	Warnings     int               `json:"warnings"`
}
