package ffmpeg

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"scrub/internal/types"
)

type Adapter struct {
	ffmpeg  string
	ffprobe string
}

func New(ffmpegPath, ffprobePath string) *Adapter {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &Adapter{ffmpeg: ffmpegPath, ffprobe: ffprobePath}
}

func (a *Adapter) ProbeDuration(ctx context.Context, in string) (float64, error) {
	cmd := exec.CommandContext(ctx, a.ffprobe,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		in,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return 0, fmt.Errorf("ffprobe duration: %w\n%s", err, string(b))
	}
	s := strings.TrimSpace(string(b))
	sec, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", s, err)
	}
	return sec, nil
}

func (a *Adapter) ExtractAudioMono16k(ctx context.Context, in, outWav string) error {
	cmd := exec.CommandContext(ctx, a.ffmpeg,
		"-y",
		"-i", in,
		"-vn",
		"-ac", "1",
		"-ar", "16000",
		"-f", "wav",
		outWav,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg extract audio: %w\n%s", err, string(b))
	}
	return nil
}

// CutSegments extracts each keep range, then concatenates the parts with the
// concat demuxer. Re-encode happens at extraction so the final concat is a
// stream copy.
func (a *Adapter) CutSegments(ctx context.Context, in, out string, keep []types.RetainedSegment) error {
	if len(keep) == 0 {
		return fmt.Errorf("ffmpeg cut: empty cut-list")
	}
	if len(keep) == 1 {
		return a.extractSegment(ctx, in, out, keep[0])
	}

	tmp, err := os.MkdirTemp("", "scrub-cut-*")
	if err != nil {
		return err
	}
	defer os.RemoveAll(tmp)

	listPath := filepath.Join(tmp, "concat.txt")
	var list strings.Builder
	for i, seg := range keep {
		part := filepath.Join(tmp, fmt.Sprintf("part_%04d.mp4", i+1))
		if err := a.extractSegment(ctx, in, part, seg); err != nil {
			return err
		}
		fmt.Fprintf(&list, "file '%s'\n", part)
	}
	if err := os.WriteFile(listPath, []byte(list.String()), 0o644); err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, a.ffmpeg,
		"-y",
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
		"-c", "copy",
		out,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg concat: %w\n%s", err, string(b))
	}
	return nil
}

func (a *Adapter) extractSegment(ctx context.Context, in, out string, seg types.RetainedSegment) error {
	cmd := exec.CommandContext(ctx, a.ffmpeg,
		"-y",
		"-i", in,
		"-ss", fmtSeconds(seg.Start),
		"-t", fmtSeconds(seg.End-seg.Start),
		"-c:v", "libx264",
		"-preset", "fast",
		"-crf", "23",
		"-c:a", "aac",
		"-b:a", "128k",
		"-avoid_negative_ts", "make_zero",
		out,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg extract segment %.3f-%.3f: %w\n%s", seg.Start, seg.End, err, string(b))
	}
	return nil
}

// MuteSegments silences the flagged ranges while leaving video untouched.
// Audio must be re-encoded for the filter; video is stream-copied.
func (a *Adapter) MuteSegments(ctx context.Context, in, out string, mute []types.RemovalInterval) error {
	if len(mute) == 0 {
		return a.Copy(ctx, in, out)
	}
	conds := make([]string, 0, len(mute))
	for _, m := range mute {
		conds = append(conds, fmt.Sprintf("between(t,%.3f,%.3f)", m.Start, m.End))
	}
	filter := fmt.Sprintf("volume=enable='%s':volume=0", strings.Join(conds, "+"))

	cmd := exec.CommandContext(ctx, a.ffmpeg,
		"-y",
		"-i", in,
		"-af", filter,
		"-c:v", "copy",
		"-c:a", "aac",
		"-b:a", "128k",
		out,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg mute: %w\n%s", err, string(b))
	}
	return nil
}

// Copy duplicates the input untouched, for no-op edits.
func (a *Adapter) Copy(_ context.Context, in, out string) error {
	src, err := os.Open(in)
	if err != nil {
		return err
	}
	defer src.Close()
	dst, err := os.Create(out)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return err
	}
	return dst.Close()
}

func fmtSeconds(sec float64) string {
	return strconv.FormatFloat(sec, 'f', 3, 64)
}
