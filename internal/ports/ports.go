// Package ports declares the external collaborators the pipeline depends on.
// The core never touches codecs, caption file formats, or speech models
// directly; it consumes and produces the generic shapes defined in types.
package ports

import (
	"context"

	"scrub/internal/types"
)

// MediaEngine wraps the transcoding/muxing tool. Implementations receive a
// cut-list of keep ranges and return a file covering exactly their
// concatenation, in original encoding parameters unless told otherwise.
type MediaEngine interface {
	ProbeDuration(ctx context.Context, in string) (float64, error)
	ExtractAudioMono16k(ctx context.Context, in, outWav string) error
	CutSegments(ctx context.Context, in, out string, keep []types.RetainedSegment) error
	MuteSegments(ctx context.Context, in, out string, mute []types.RemovalInterval) error
	Copy(ctx context.Context, in, out string) error
}

// Transcriber produces word-level timestamps from extracted audio.
type Transcriber interface {
	Transcribe(ctx context.Context, wavPath, cacheDir string) (types.Transcript, error)
}

// SubtitleCodec parses and serializes concrete caption formats. The core
// only sees (start, end, text) cues.
type SubtitleCodec interface {
	Parse(path string) ([]types.Cue, error)
	Write(path string, cues []types.Cue) error
}
