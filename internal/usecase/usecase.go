// Package usecase sequences detection, merging, timeline planning, cutting
// and caption resync for one media file. Orchestration is thin: every stage
// is a pure transformation and the heavy work happens behind ports.
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"scrub/internal/domain/captions"
	"scrub/internal/domain/intervals"
	"scrub/internal/domain/lexicon"
	"scrub/internal/domain/timeline"
	"scrub/internal/ports"
	"scrub/internal/types"
)

type Deps struct {
	Video   ports.MediaEngine
	ASR     ports.Transcriber
	Subs    ports.SubtitleCodec
	Lexicon *lexicon.Lexicon
	Log     *slog.Logger
}

type Usecase struct{ d Deps }

func New(d Deps) Usecase {
	if d.Log == nil {
		d.Log = slog.Default()
	}
	return Usecase{d: d}
}

type Input struct {
	Input  string
	Output string
	// SubsPath is the source caption file; empty means no captions exist and
	// the transcriber is the only dialogue producer.
	SubsPath string
	// SubsOutput receives the edited captions; derived from Output when empty.
	SubsOutput string
	CacheDir   string

	// Visual detections arrive pre-normalized from an external classifier.
	Visual []types.Detection
	// Manual override ranges merge through the same path as detections.
	Manual []types.Detection

	// ForceAudio transcribes even when subtitles produced detections.
	ForceAudio bool
	// MuteOnly silences flagged ranges instead of cutting them; the timeline
	// is unchanged so captions keep their timestamps and are only masked.
	MuteOnly bool
	// DryRun plans and reports without touching any file.
	DryRun bool

	Padding   float64
	MergeGap  float64
	PhraseGap float64
}

type Result struct {
	Report     types.EditReport
	CutList    []types.RetainedSegment
	SubsOutput string
}

func (u Usecase) Run(ctx context.Context, in Input) (Result, error) {
	log := u.d.Log

	duration, err := u.d.Video.ProbeDuration(ctx, in.Input)
	if err != nil {
		return Result{}, fmt.Errorf("probe duration: %w", err)
	}
	if duration <= 0 {
		return Result{}, fmt.Errorf("probe duration: got %g seconds", duration)
	}

	var cues []types.Cue
	if in.SubsPath != "" {
		cues, err = u.d.Subs.Parse(in.SubsPath)
		if err != nil {
			return Result{}, fmt.Errorf("parse subtitles: %w", err)
		}
		log.Info("subtitles loaded", "path", in.SubsPath, "cues", len(cues))
	}

	detections := make([]types.Detection, 0, len(in.Visual)+len(in.Manual))
	detections = append(detections, in.Visual...)
	detections = append(detections, in.Manual...)

	var subtitleHits int
	if len(cues) > 0 {
		hits := u.d.Lexicon.MatchCues(cues)
		subtitleHits = len(hits)
		detections = append(detections, hits...)
		log.Info("subtitle scan complete", "hits", subtitleHits)
	}

	// Transcribe when the subtitle scan found nothing, or when asked to.
	var transcript types.Transcript
	if in.ForceAudio || subtitleHits == 0 {
		audio, tr, aerr := u.detectFromAudio(ctx, in)
		if aerr != nil {
			return Result{}, aerr
		}
		transcript = tr
		detections = append(detections, audio...)
	}

	// Without a sidecar file the transcript becomes the caption source, so
	// the run still ships subtitles next to the cleaned media.
	if len(cues) == 0 && len(transcript.Segments) > 0 {
		cues = captions.FromTranscript(transcript)
		log.Info("subtitles built from transcript", "cues", len(cues))
	}

	merged, err := intervals.Merge(detections, intervals.Options{
		Duration: duration,
		Padding:  in.Padding,
		MergeGap: in.MergeGap,
	})
	if err != nil {
		return Result{}, err
	}
	for _, d := range merged.Dropped {
		log.Warn("discarding invalid detection",
			"start", d.Start, "end", d.End, "source", d.Source, "label", d.Label)
	}

	plan, err := timeline.New(merged.Removals, duration)
	if err != nil {
		return Result{}, err
	}

	report := types.EditReport{
		Removals:     plan.Removals,
		SegmentCount: len(plan.Removals),
		TotalRemoved: intervals.TotalRemoved(plan.Removals),
		CuesBefore:   len(cues),
		Warnings:     len(merged.Dropped),
	}

	if !in.DryRun {
		if err := u.render(ctx, in, plan); err != nil {
			return Result{}, err
		}
	}

	if len(cues) > 0 {
		edited, warnings := u.editCaptions(cues, plan, in.MuteOnly)
		report.CuesAfter = len(edited)
		report.Warnings += warnings
		if !in.DryRun {
			subsOut := in.SubsOutput
			if subsOut == "" {
				subsOut = deriveSubsOutput(in.Output, in.SubsPath)
			}
			if err := u.d.Subs.Write(subsOut, edited); err != nil {
				return Result{}, fmt.Errorf("write subtitles: %w", err)
			}
			log.Info("subtitles written", "path", subsOut, "cues", len(edited))
			return Result{Report: report, CutList: plan.CutList(), SubsOutput: subsOut}, nil
		}
	}

	return Result{Report: report, CutList: plan.CutList()}, nil
}

func (u Usecase) detectFromAudio(ctx context.Context, in Input) ([]types.Detection, types.Transcript, error) {
	log := u.d.Log
	wav := filepath.Join(in.CacheDir, "audio.wav")
	if err := u.d.Video.ExtractAudioMono16k(ctx, in.Input, wav); err != nil {
		return nil, types.Transcript{}, fmt.Errorf("extract audio: %w", err)
	}
	tr, err := u.d.ASR.Transcribe(ctx, wav, in.CacheDir)
	if err != nil {
		return nil, types.Transcript{}, fmt.Errorf("transcribe: %w", err)
	}
	hits := u.d.Lexicon.Match(lexicon.TranscriptTokens(tr), lexicon.MatchOptions{PhraseGap: in.PhraseGap})
	log.Info("audio scan complete", "hits", len(hits))
	return hits, tr, nil
}

func (u Usecase) render(ctx context.Context, in Input, plan *timeline.Plan) error {
	switch {
	case len(plan.Removals) == 0:
		u.d.Log.Info("no removals, copying input unchanged")
		return u.d.Video.Copy(ctx, in.Input, in.Output)
	case in.MuteOnly:
		return u.d.Video.MuteSegments(ctx, in.Input, in.Output, plan.Removals)
	default:
		return u.d.Video.CutSegments(ctx, in.Input, in.Output, plan.CutList())
	}
}

// editCaptions resyncs cues against the plan (unless the timeline was left
// intact by mute-only mode) and masks lexicon words in retained text.
func (u Usecase) editCaptions(cues []types.Cue, plan *timeline.Plan, muteOnly bool) ([]types.Cue, int) {
	warnings := 0
	kept := cues
	if !muteOnly {
		res := captions.Resync(cues, plan.Removals, plan)
		kept = res.Cues
		warnings += res.DroppedDegenerate
		if res.DroppedDegenerate > 0 {
			u.d.Log.Warn("dropped degenerate cues after remap", "count", res.DroppedDegenerate)
		}
		u.d.Log.Info("captions resynced",
			"kept", len(kept), "dropped_overlap", res.DroppedOverlap)
	}
	masker := captions.NewMasker(u.d.Lexicon)
	masked, modified := masker.MaskCues(kept)
	if modified > 0 {
		u.d.Log.Info("masked caption text", "cues_modified", modified)
	}
	return masked, warnings
}

func deriveSubsOutput(output, subsPath string) string {
	ext := filepath.Ext(subsPath)
	if ext == "" {
		ext = ".srt"
	}
	base := output[:len(output)-len(filepath.Ext(output))]
	return base + ext
}
