// Package captions rewrites a subtitle cue list so it stays frame-accurate
// after cuts: cues overlapping a removal are dropped whole, the rest are
// shifted through the timeline remap.
package captions

import (
	"sort"

	"scrub/internal/types"
)

// Remapper is the read-only view of the edit plan the resynchronizer needs.
type Remapper interface {
	Remap(t float64) float64
}

// Result is the edited cue list plus per-run bookkeeping for the report.
type Result struct {
	Cues []types.Cue
	// DroppedOverlap counts cues removed because they touched a removal.
	DroppedOverlap int
	// DroppedDegenerate counts cues discarded because their remapped span
	// collapsed; guarded against even though the drop policy should prevent it.
	DroppedDegenerate int
}

// Resync applies the removal set and remap to cues.
//
// Any nonzero overlap with a removal drops the cue entirely. Trimming was
// tried and abandoned: it produced truncated caption fragments and visible
// desync around cut points. Retained cues pass both timestamps through the
// remap and are emitted sorted by start time regardless of input order.
func Resync(cues []types.Cue, removals []types.RemovalInterval, remap Remapper) Result {
	var res Result
	for _, cue := range cues {
		if overlapsAny(cue, removals) {
			res.DroppedOverlap++
			continue
		}
		shifted := types.Cue{
			Start: remap.Remap(cue.Start),
			End:   remap.Remap(cue.End),
			Text:  cue.Text,
		}
		if shifted.End <= shifted.Start {
			res.DroppedDegenerate++
			continue
		}
		res.Cues = append(res.Cues, shifted)
	}
	sort.SliceStable(res.Cues, func(i, j int) bool {
		if res.Cues[i].Start != res.Cues[j].Start {
			return res.Cues[i].Start < res.Cues[j].Start
		}
		return res.Cues[i].End < res.Cues[j].End
	})
	return res
}

func overlapsAny(cue types.Cue, removals []types.RemovalInterval) bool {
	for _, r := range removals {
		if cue.Start < r.End && cue.End > r.Start {
			return true
		}
		if r.Start >= cue.End {
			break // removals are sorted
		}
	}
	return false
}
