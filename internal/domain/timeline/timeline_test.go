package timeline

import (
	"math"
	"math/rand"
	"sort"
	"testing"

	"scrub/internal/types"
)

func TestNew_RejectsNonPositiveDuration(t *testing.T) {
	t.Parallel()

	for _, d := range []float64{0, -1} {
		if _, err := New(nil, d); err == nil {
			t.Fatalf("expected error for duration %g", d)
		}
	}
}

func TestNew_ComplementAndCutList(t *testing.T) {
	t.Parallel()

	plan, err := New([]types.RemovalInterval{
		{Start: 1.0, End: 2.0},
		{Start: 10.0, End: 10.2},
	}, 20)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	want := []types.RetainedSegment{
		{Start: 0, End: 1.0},
		{Start: 2.0, End: 10.0},
		{Start: 10.2, End: 20},
	}
	got := plan.CutList()
	if len(got) != len(want) {
		t.Fatalf("expected %d segments, got %+v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("segment %d: got %+v want %+v", i, got[i], want[i])
		}
	}
}

func TestNew_RemovalTouchingEdges(t *testing.T) {
	t.Parallel()

	plan, err := New([]types.RemovalInterval{
		{Start: 0, End: 2.0},
		{Start: 8.0, End: 10.0},
	}, 10)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if len(plan.Retained) != 1 {
		t.Fatalf("edge removals must not create edge segments: %+v", plan.Retained)
	}
	if plan.Retained[0] != (types.RetainedSegment{Start: 2.0, End: 8.0}) {
		t.Fatalf("unexpected retained segment: %+v", plan.Retained[0])
	}
}

func TestNew_ClampsOutOfRangeRemovals(t *testing.T) {
	t.Parallel()

	plan, err := New([]types.RemovalInterval{
		{Start: -5, End: 1},
		{Start: 9, End: 30},
	}, 10)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if plan.Removals[0].Start != 0 || plan.Removals[1].End != 10 {
		t.Fatalf("removals must clamp to [0, duration]: %+v", plan.Removals)
	}
}

// Coverage invariant: retained segments and removals exactly tile
// [0, duration] with no gaps or double coverage.
func TestCoverageInvariant(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 100; trial++ {
		duration := 50 + rng.Float64()*100
		removals := randomRemovals(rng, duration)

		plan, err := New(removals, duration)
		if err != nil {
			t.Fatalf("new: %v", err)
		}

		type span struct {
			start, end float64
		}
		var tiles []span
		for _, r := range plan.Removals {
			tiles = append(tiles, span{r.Start, r.End})
		}
		for _, s := range plan.Retained {
			tiles = append(tiles, span{s.Start, s.End})
		}
		sort.Slice(tiles, func(i, j int) bool { return tiles[i].start < tiles[j].start })

		cursor := 0.0
		for _, tile := range tiles {
			if math.Abs(tile.start-cursor) > 1e-9 {
				t.Fatalf("trial %d: gap or overlap at %g (next tile starts %g)", trial, cursor, tile.start)
			}
			cursor = tile.end
		}
		if math.Abs(cursor-duration) > 1e-9 {
			t.Fatalf("trial %d: tiling ends at %g, want %g", trial, cursor, duration)
		}
	}
}

func TestRemap_MonotonicAndIdentityBeforeFirstRemoval(t *testing.T) {
	t.Parallel()

	plan, err := New([]types.RemovalInterval{
		{Start: 1.0, End: 2.0},
		{Start: 10.0, End: 10.2},
	}, 20)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	if got := plan.Remap(0.9); got != 0.9 {
		t.Fatalf("remap must be identity before the first removal, got %g", got)
	}
	if got := plan.Remap(3.0); math.Abs(got-2.0) > 1e-9 {
		t.Fatalf("remap(3.0) = %g, want 2.0", got)
	}
	if got := plan.Remap(4.0); math.Abs(got-3.0) > 1e-9 {
		t.Fatalf("remap(4.0) = %g, want 3.0", got)
	}

	// Snap left inside a removal.
	if got := plan.Remap(1.5); got != 1.0 {
		t.Fatalf("remap inside removal must snap to removal start, got %g", got)
	}

	// Monotonic over random pairs.
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 200; i++ {
		t1 := rng.Float64() * 20
		t2 := t1 + rng.Float64()*(20-t1)
		if plan.Remap(t1) > plan.Remap(t2)+1e-12 {
			t.Fatalf("remap not monotonic: remap(%g)=%g > remap(%g)=%g",
				t1, plan.Remap(t1), t2, plan.Remap(t2))
		}
	}
}

func TestEditedDuration(t *testing.T) {
	t.Parallel()

	plan, err := New([]types.RemovalInterval{{Start: 5, End: 8}}, 10)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if got := plan.EditedDuration(); math.Abs(got-7) > 1e-9 {
		t.Fatalf("edited duration = %g, want 7", got)
	}
	if got := plan.Remap(25); math.Abs(got-7) > 1e-9 {
		t.Fatalf("remap past end must clamp to edited duration, got %g", got)
	}
}

func TestInside(t *testing.T) {
	t.Parallel()

	plan, err := New([]types.RemovalInterval{{Start: 5, End: 8}}, 10)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if !plan.Inside(6) {
		t.Fatal("6 should be inside the removal")
	}
	if plan.Inside(5) || plan.Inside(8) {
		t.Fatal("boundaries are not inside")
	}
}

// randomRemovals builds a sorted non-overlapping set, mirroring merger output.
func randomRemovals(rng *rand.Rand, duration float64) []types.RemovalInterval {
	var out []types.RemovalInterval
	cursor := 0.0
	for cursor < duration {
		gap := rng.Float64() * duration / 5
		start := cursor + gap
		end := start + rng.Float64()*duration/10
		if start >= duration {
			break
		}
		if end > duration {
			end = duration
		}
		if end > start {
			out = append(out, types.RemovalInterval{Start: start, End: end})
		}
		cursor = end
	}
	return out
}
