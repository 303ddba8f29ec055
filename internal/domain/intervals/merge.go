// Package intervals collapses raw detections from any mix of sources into a
// canonical sorted, non-overlapping set of removal intervals.
package intervals

import (
	"errors"
	"fmt"
	"sort"

	"scrub/internal/types"
)

// Options controls padding and merge tolerance. Duration is the media length
// in seconds and bounds every interval.
type Options struct {
	// Duration of the source media in seconds. Must be positive.
	Duration float64
	// Padding is added symmetrically to each detection before merging so no
	// audible fragment of a flagged word survives the cut.
	Padding float64
	// MergeGap joins intervals whose padded gap is at most this many seconds.
	MergeGap float64
}

// DefaultPadding and DefaultMergeGap match the tuning the pipeline ships with.
const (
	DefaultPadding  = 0.15
	DefaultMergeGap = 0.5
)

var errNonPositiveDuration = errors.New("duration must be positive")

// Validate reports configuration errors before any processing begins.
func (o Options) Validate() error {
	if o.Duration <= 0 {
		return errNonPositiveDuration
	}
	if o.Padding < 0 {
		return fmt.Errorf("padding must be >= 0, got %g", o.Padding)
	}
	if o.MergeGap < 0 {
		return fmt.Errorf("merge gap must be >= 0, got %g", o.MergeGap)
	}
	return nil
}

// Result carries the merged set plus the count of detections discarded
// during validation.
type Result struct {
	Removals []types.RemovalInterval
	Dropped  []types.Detection
}

// Merge reduces detections into the minimal non-overlapping removal set.
//
// Detections are padded, clamped to [0, duration], sorted by (start, end),
// then swept left to right: the open interval extends while the next padded
// start is within MergeGap of the current end. Reasons of absorbed
// detections are unioned. A detection with start > end is invalid and
// dropped rather than reordered; negative or out-of-range times are clamped.
// Empty input yields an empty set.
func Merge(detections []types.Detection, opts Options) (Result, error) {
	if err := opts.Validate(); err != nil {
		return Result{}, err
	}

	type padded struct {
		start, end float64
		label      string
	}
	valid := make([]padded, 0, len(detections))
	var dropped []types.Detection
	for _, d := range detections {
		if d.Start > d.End {
			dropped = append(dropped, d)
			continue
		}
		p := padded{
			start: clamp(d.Start-opts.Padding, 0, opts.Duration),
			end:   clamp(d.End+opts.Padding, 0, opts.Duration),
			label: d.Label,
		}
		if p.end <= p.start {
			// Clamped to nothing: the detection lies entirely outside the
			// media, or is a zero-length point with no padding.
			continue
		}
		valid = append(valid, p)
	}
	if len(valid) == 0 {
		return Result{Dropped: dropped}, nil
	}

	sort.SliceStable(valid, func(i, j int) bool {
		if valid[i].start != valid[j].start {
			return valid[i].start < valid[j].start
		}
		return valid[i].end < valid[j].end
	})

	var merged []types.RemovalInterval
	open := types.RemovalInterval{Start: valid[0].start, End: valid[0].end}
	reasons := newReasonSet(valid[0].label)

	for _, d := range valid[1:] {
		if d.start <= open.End+opts.MergeGap {
			// A detection fully inside the open interval contributes only
			// its label.
			if d.end > open.End {
				open.End = d.end
			}
			reasons.add(d.label)
			continue
		}
		open.Reasons = reasons.sorted()
		merged = append(merged, open)
		open = types.RemovalInterval{Start: d.start, End: d.end}
		reasons = newReasonSet(d.label)
	}
	open.Reasons = reasons.sorted()
	merged = append(merged, open)

	return Result{Removals: merged, Dropped: dropped}, nil
}

// AsDetections re-expresses a merged set as detections, preserving reasons.
// Merging the result again must yield the same set (idempotence).
func AsDetections(removals []types.RemovalInterval, source types.Source) []types.Detection {
	out := make([]types.Detection, 0, len(removals))
	for _, r := range removals {
		out = append(out, types.Detection{
			Start:  r.Start,
			End:    r.End,
			Label:  r.ReasonList(),
			Source: source,
		})
	}
	return out
}

// TotalRemoved sums the durations of a merged set.
func TotalRemoved(removals []types.RemovalInterval) float64 {
	var total float64
	for _, r := range removals {
		total += r.Duration()
	}
	return total
}

type reasonSet map[string]struct{}

func newReasonSet(label string) reasonSet {
	s := make(reasonSet)
	s.add(label)
	return s
}

func (s reasonSet) add(label string) {
	if label != "" {
		s[label] = struct{}{}
	}
}

func (s reasonSet) sorted() []string {
	if len(s) == 0 {
		return nil
	}
	out := make([]string, 0, len(s))
	for r := range s {
		out = append(out, r)
	}
	sort.Strings(out)
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
