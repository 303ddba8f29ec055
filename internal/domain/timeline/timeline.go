// Package timeline turns a merged removal set into the retained-segment
// complement and a piecewise time remapping from original to edited
// timestamps. The same remap drives both the media cut-list and the caption
// shift, so the two artifacts cannot drift apart.
package timeline

import (
	"errors"
	"fmt"

	"scrub/internal/types"
)

var errNonPositiveDuration = errors.New("duration must be positive")

// Plan is the immutable edit plan for one media file.
type Plan struct {
	Duration float64
	Removals []types.RemovalInterval
	Retained []types.RetainedSegment

	// offsets[i] is the cumulative retained duration preceding Retained[i].
	offsets []float64
}

// New builds a Plan from an already-merged removal set. Removals exceeding
// [0, duration] are clamped, not rejected; duration <= 0 is a configuration
// error surfaced before any processing.
func New(removals []types.RemovalInterval, duration float64) (*Plan, error) {
	if duration <= 0 {
		return nil, fmt.Errorf("timeline: %w (got %g)", errNonPositiveDuration, duration)
	}

	clamped := make([]types.RemovalInterval, 0, len(removals))
	for _, r := range removals {
		start := clamp(r.Start, 0, duration)
		end := clamp(r.End, 0, duration)
		if end <= start {
			continue
		}
		clamped = append(clamped, types.RemovalInterval{Start: start, End: end, Reasons: r.Reasons})
	}

	p := &Plan{Duration: duration, Removals: clamped}
	p.Retained = complement(clamped, duration)
	p.offsets = make([]float64, len(p.Retained))
	var acc float64
	for i, seg := range p.Retained {
		p.offsets[i] = acc
		acc += seg.End - seg.Start
	}
	return p, nil
}

// complement computes the retained segments over [0, duration]. A removal
// touching 0 or duration yields no leading/trailing segment on that side.
func complement(removals []types.RemovalInterval, duration float64) []types.RetainedSegment {
	var kept []types.RetainedSegment
	cursor := 0.0
	for _, r := range removals {
		if cursor < r.Start {
			kept = append(kept, types.RetainedSegment{Start: cursor, End: r.Start})
		}
		if r.End > cursor {
			cursor = r.End
		}
	}
	if cursor < duration {
		kept = append(kept, types.RetainedSegment{Start: cursor, End: duration})
	}
	return kept
}

// EditedDuration is the total retained time.
func (p *Plan) EditedDuration() float64 {
	if len(p.Retained) == 0 {
		return 0
	}
	last := len(p.Retained) - 1
	return p.offsets[last] + (p.Retained[last].End - p.Retained[last].Start)
}

// Remap maps an original timestamp to its position in the edited timeline.
// Timestamps inside a removed interval snap left to the edited position of
// the removal's start, which keeps caption boundary handling monotonic.
// Out-of-range input clamps to the nearest boundary.
func (p *Plan) Remap(t float64) float64 {
	if len(p.Retained) == 0 {
		return 0
	}
	if t <= p.Retained[0].Start {
		return 0
	}
	for i, seg := range p.Retained {
		if t < seg.Start {
			// Inside the removal preceding this segment: snap left.
			return p.offsets[i]
		}
		if t <= seg.End {
			return p.offsets[i] + (t - seg.Start)
		}
	}
	return p.EditedDuration()
}

// Inside reports whether t falls strictly inside a removed interval.
func (p *Plan) Inside(t float64) bool {
	for _, r := range p.Removals {
		if t > r.Start && t < r.End {
			return true
		}
	}
	return false
}

// CutList returns the ordered keep ranges handed to the media engine. It is
// identical to the retained segments; extraction and concatenation are the
// engine's concern.
func (p *Plan) CutList() []types.RetainedSegment {
	out := make([]types.RetainedSegment, len(p.Retained))
	copy(out, p.Retained)
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
