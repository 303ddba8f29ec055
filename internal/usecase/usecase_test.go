package usecase

import (
	"context"
	"math"
	"testing"

	"scrub/internal/domain/lexicon"
	"scrub/internal/logging"
	"scrub/internal/types"
)

type fakeVideo struct {
	duration float64

	cutCalls  [][]types.RetainedSegment
	muteCalls [][]types.RemovalInterval
	copies    int
	extracted int
}

func (f *fakeVideo) ProbeDuration(context.Context, string) (float64, error) {
	return f.duration, nil
}

func (f *fakeVideo) ExtractAudioMono16k(context.Context, string, string) error {
	f.extracted++
	return nil
}

func (f *fakeVideo) CutSegments(_ context.Context, _, _ string, keep []types.RetainedSegment) error {
	f.cutCalls = append(f.cutCalls, keep)
	return nil
}

func (f *fakeVideo) MuteSegments(_ context.Context, _, _ string, mute []types.RemovalInterval) error {
	f.muteCalls = append(f.muteCalls, mute)
	return nil
}

func (f *fakeVideo) Copy(context.Context, string, string) error {
	f.copies++
	return nil
}

type fakeASR struct {
	tr    types.Transcript
	calls int
}

func (f *fakeASR) Transcribe(context.Context, string, string) (types.Transcript, error) {
	f.calls++
	return f.tr, nil
}

type fakeSubs struct {
	cues    []types.Cue
	written []types.Cue
	outPath string
}

func (f *fakeSubs) Parse(string) ([]types.Cue, error) { return f.cues, nil }

func (f *fakeSubs) Write(path string, cues []types.Cue) error {
	f.outPath = path
	f.written = cues
	return nil
}

func newTestUsecase(video *fakeVideo, asr *fakeASR, subs *fakeSubs, lx *lexicon.Lexicon) Usecase {
	if lx == nil {
		lx = lexicon.New([]string{"fuck"})
	}
	return New(Deps{
		Video:   video,
		ASR:     asr,
		Subs:    subs,
		Lexicon: lx,
		Log:     logging.Discard(),
	})
}

func TestRun_EndToEndScenario(t *testing.T) {
	t.Parallel()

	video := &fakeVideo{duration: 20}
	asr := &fakeASR{}
	subs := &fakeSubs{cues: []types.Cue{
		{Start: 0.0, End: 0.9, Text: "intro"},
		{Start: 3.0, End: 4.0, Text: "after"},
	}}
	uc := newTestUsecase(video, asr, subs, nil)

	res, err := uc.Run(context.Background(), Input{
		Input:    "in.mp4",
		Output:   "out.mp4",
		SubsPath: "in.srt",
		CacheDir: t.TempDir(),
		Manual: []types.Detection{
			{Start: 1.0, End: 1.5, Label: "a", Source: types.SourceManual},
			{Start: 1.4, End: 2.0, Label: "b", Source: types.SourceManual},
			{Start: 10.0, End: 10.2, Label: "c", Source: types.SourceManual},
		},
		MergeGap:  0.3,
		PhraseGap: 2.0,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if res.Report.SegmentCount != 2 {
		t.Fatalf("expected 2 removal intervals, got %+v", res.Report.Removals)
	}
	if math.Abs(res.Report.TotalRemoved-1.2) > 1e-9 {
		t.Fatalf("expected 1.2s removed, got %g", res.Report.TotalRemoved)
	}

	if len(video.cutCalls) != 1 {
		t.Fatalf("expected exactly one cut, got %d", len(video.cutCalls))
	}
	keep := video.cutCalls[0]
	if len(keep) != 3 || keep[0] != (types.RetainedSegment{Start: 0, End: 1.0}) {
		t.Fatalf("unexpected cut-list: %+v", keep)
	}

	if len(subs.written) != 2 {
		t.Fatalf("expected 2 surviving cues, got %+v", subs.written)
	}
	if subs.written[0].Start != 0.0 || subs.written[0].End != 0.9 {
		t.Fatalf("intro cue must survive unshifted: %+v", subs.written[0])
	}
	if math.Abs(subs.written[1].Start-2.0) > 1e-9 || math.Abs(subs.written[1].End-3.0) > 1e-9 {
		t.Fatalf(`"after" cue should land at [2.0, 3.0]: %+v`, subs.written[1])
	}
	if res.Report.CuesBefore != 2 || res.Report.CuesAfter != 2 {
		t.Fatalf("unexpected cue counts: %+v", res.Report)
	}
}

func TestRun_SubtitleFastPathSkipsTranscription(t *testing.T) {
	t.Parallel()

	video := &fakeVideo{duration: 60}
	asr := &fakeASR{}
	subs := &fakeSubs{cues: []types.Cue{
		{Start: 5.0, End: 6.0, Text: "oh fuck"},
		{Start: 20.0, End: 21.0, Text: "chatter"},
	}}
	uc := newTestUsecase(video, asr, subs, nil)

	res, err := uc.Run(context.Background(), Input{
		Input:     "in.mp4",
		Output:    "out.mp4",
		SubsPath:  "in.srt",
		CacheDir:  t.TempDir(),
		MergeGap:  0.5,
		PhraseGap: 2.0,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if asr.calls != 0 {
		t.Fatalf("subtitle hits must skip transcription, got %d calls", asr.calls)
	}
	if res.Report.SegmentCount != 1 {
		t.Fatalf("expected 1 removal, got %+v", res.Report.Removals)
	}
	// The flagged cue is gone; the retained one shifted left by the removal.
	if len(subs.written) != 1 || subs.written[0].Text != "chatter" {
		t.Fatalf("unexpected surviving cues: %+v", subs.written)
	}
}

func TestRun_TranscribesWhenSubtitlesAreClean(t *testing.T) {
	t.Parallel()

	video := &fakeVideo{duration: 60}
	asr := &fakeASR{tr: types.Transcript{Segments: []types.Segment{
		{Start: 0, End: 12, Words: []types.Word{
			{Start: 10.0, End: 10.4, Word: "fuck"},
		}},
	}}}
	subs := &fakeSubs{cues: []types.Cue{{Start: 1, End: 2, Text: "all clean"}}}
	uc := newTestUsecase(video, asr, subs, nil)

	res, err := uc.Run(context.Background(), Input{
		Input:     "in.mp4",
		Output:    "out.mp4",
		SubsPath:  "in.srt",
		CacheDir:  t.TempDir(),
		MergeGap:  0.5,
		PhraseGap: 2.0,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if asr.calls != 1 || video.extracted != 1 {
		t.Fatalf("clean subtitles must fall back to audio: asr=%d extract=%d", asr.calls, video.extracted)
	}
	if res.Report.SegmentCount != 1 {
		t.Fatalf("expected removal from audio detection, got %+v", res.Report.Removals)
	}
}

func TestRun_NoSidecarShipsTranscriptSubtitles(t *testing.T) {
	t.Parallel()

	video := &fakeVideo{duration: 60}
	asr := &fakeASR{tr: types.Transcript{Segments: []types.Segment{
		{Start: 0.0, End: 2.0, Text: "hello there"},
		{Start: 5.0, End: 6.0, Text: "oh fuck", Words: []types.Word{
			{Start: 5.2, End: 5.5, Word: "fuck"},
		}},
		{Start: 20.0, End: 21.0, Text: "goodbye"},
	}}}
	subs := &fakeSubs{}
	uc := newTestUsecase(video, asr, subs, nil)

	res, err := uc.Run(context.Background(), Input{
		Input:     "in.mp4",
		Output:    "out.mp4",
		CacheDir:  t.TempDir(),
		MergeGap:  0.5,
		PhraseGap: 2.0,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if asr.calls != 1 {
		t.Fatalf("no sidecar must transcribe, got %d calls", asr.calls)
	}
	// The transcript doubles as the caption source: the flagged segment is
	// cut, the rest ship shifted next to the output.
	if subs.outPath != "out.srt" {
		t.Fatalf("expected generated subtitles at out.srt, got %q", subs.outPath)
	}
	if len(subs.written) != 2 {
		t.Fatalf("expected 2 surviving cues, got %+v", subs.written)
	}
	if subs.written[0].Text != "hello there" || subs.written[0].Start != 0.0 {
		t.Fatalf("clean leading cue must survive unshifted: %+v", subs.written[0])
	}
	if math.Abs(subs.written[1].Start-19.7) > 1e-9 {
		t.Fatalf("trailing cue should shift left by the removal: %+v", subs.written[1])
	}
	if res.Report.CuesBefore != 3 || res.Report.CuesAfter != 2 {
		t.Fatalf("unexpected cue counts: %+v", res.Report)
	}
}

func TestRun_NoRemovalsCopies(t *testing.T) {
	t.Parallel()

	video := &fakeVideo{duration: 60}
	asr := &fakeASR{}
	subs := &fakeSubs{cues: []types.Cue{{Start: 1, End: 2, Text: "clean"}}}
	uc := newTestUsecase(video, asr, subs, nil)

	res, err := uc.Run(context.Background(), Input{
		Input:     "in.mp4",
		Output:    "out.mp4",
		SubsPath:  "in.srt",
		CacheDir:  t.TempDir(),
		MergeGap:  0.5,
		PhraseGap: 2.0,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if video.copies != 1 || len(video.cutCalls) != 0 {
		t.Fatalf("no-op edit must copy: copies=%d cuts=%d", video.copies, len(video.cutCalls))
	}
	if res.Report.SegmentCount != 0 || res.Report.TotalRemoved != 0 {
		t.Fatalf("expected empty report, got %+v", res.Report)
	}
	// Clean cues still pass through masking and get written.
	if len(subs.written) != 1 {
		t.Fatalf("expected cues written on no-op edit, got %+v", subs.written)
	}
}

func TestRun_MuteOnlyKeepsCueTimestamps(t *testing.T) {
	t.Parallel()

	video := &fakeVideo{duration: 60}
	asr := &fakeASR{}
	subs := &fakeSubs{cues: []types.Cue{
		{Start: 5.0, End: 6.0, Text: "oh fuck"},
		{Start: 20.0, End: 21.0, Text: "later"},
	}}
	uc := newTestUsecase(video, asr, subs, nil)

	_, err := uc.Run(context.Background(), Input{
		Input:     "in.mp4",
		Output:    "out.mp4",
		SubsPath:  "in.srt",
		CacheDir:  t.TempDir(),
		MuteOnly:  true,
		MergeGap:  0.5,
		PhraseGap: 2.0,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(video.muteCalls) != 1 || len(video.cutCalls) != 0 {
		t.Fatalf("mute-only must mute, not cut: mutes=%d cuts=%d", len(video.muteCalls), len(video.cutCalls))
	}
	// Timeline unchanged: the second cue keeps its original timestamps and
	// the first survives with the word masked out of its text.
	if len(subs.written) != 2 {
		t.Fatalf("expected both cues kept, got %+v", subs.written)
	}
	if subs.written[0].Text != "oh" {
		t.Fatalf("expected masked text, got %q", subs.written[0].Text)
	}
	if subs.written[1].Start != 20.0 {
		t.Fatalf("mute-only must not shift cues: %+v", subs.written[1])
	}
}

func TestRun_DryRunTouchesNothing(t *testing.T) {
	t.Parallel()

	video := &fakeVideo{duration: 60}
	asr := &fakeASR{}
	subs := &fakeSubs{cues: []types.Cue{{Start: 5, End: 6, Text: "oh fuck"}}}
	uc := newTestUsecase(video, asr, subs, nil)

	res, err := uc.Run(context.Background(), Input{
		Input:     "in.mp4",
		Output:    "out.mp4",
		SubsPath:  "in.srt",
		CacheDir:  t.TempDir(),
		DryRun:    true,
		MergeGap:  0.5,
		PhraseGap: 2.0,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(video.cutCalls) != 0 || video.copies != 0 || subs.outPath != "" {
		t.Fatal("dry run must not render or write")
	}
	if res.Report.SegmentCount != 1 {
		t.Fatalf("dry run still reports the plan: %+v", res.Report)
	}
}
