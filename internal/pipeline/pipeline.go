// Package pipeline wires adapters to the usecase for one end-to-end run.
package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"scrub/internal/domain/lexicon"
	"scrub/internal/history"
	"scrub/internal/ports"
	"scrub/internal/ports/adapters/ffmpeg"
	"scrub/internal/ports/adapters/subrip"
	"scrub/internal/ports/adapters/whispercpp"
	"scrub/internal/types"
	"scrub/internal/usecase"
)

type Config struct {
	Input  string
	Output string
	// SubsPath is the caption file; empty triggers sibling auto-detection.
	SubsPath string
	CacheDir string

	Lexicon *lexicon.Lexicon
	Manual  []types.Detection
	Visual  []types.Detection

	ForceAudio bool
	MuteOnly   bool
	DryRun     bool

	Padding   float64
	MergeGap  float64
	PhraseGap float64

	FFmpegPath   string
	FFprobePath  string
	WhisperBin   string
	WhisperModel string

	// HistoryDB is the SQLite path for run records; empty disables history.
	HistoryDB string

	Log *slog.Logger
}

func (c Config) Validate() error {
	if c.Input == "" {
		return errors.New("input is empty")
	}
	if _, err := os.Stat(c.Input); err != nil {
		return fmt.Errorf("stat input: %w", err)
	}
	if c.Output == "" {
		return errors.New("output is empty")
	}
	if c.Padding < 0 {
		return fmt.Errorf("padding must be >= 0")
	}
	if c.MergeGap < 0 {
		return fmt.Errorf("merge gap must be >= 0")
	}
	if c.PhraseGap <= 0 {
		return fmt.Errorf("phrase gap must be > 0")
	}
	if c.Lexicon == nil || c.Lexicon.Len() == 0 {
		return errors.New("lexicon is empty")
	}
	return nil
}

// Result carries the run outcome up to the CLI.
type Result struct {
	RunID      string
	Report     types.EditReport
	ReportPath string
	SubsOutput string
}

func Run(ctx context.Context, cfg Config) (Result, error) {
	log := cfg.Log
	if log == nil {
		log = slog.Default()
	}

	v := ffmpeg.New(cfg.FFmpegPath, cfg.FFprobePath)
	asr := whispercpp.New(cfg.WhisperBin, cfg.WhisperModel)
	subs := subrip.New()

	uc := usecase.New(usecase.Deps{
		Video:   v,
		ASR:     asr,
		Subs:    subs,
		Lexicon: cfg.Lexicon,
		Log:     log,
	})

	runID := uuid.NewString()
	baseCache := cfg.CacheDir
	if baseCache == "" {
		baseCache = ".cache"
	}
	cacheDir := filepath.Join(baseCache, "runs", hash(cfg.Input))
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return Result{}, err
	}
	log.Debug("workspace ready", "run_id", runID, "cache", cacheDir)

	subsPath := cfg.SubsPath
	if subsPath == "" {
		subsPath = findSiblingSubs(cfg.Input)
		if subsPath != "" {
			log.Info("auto-detected subtitles", "path", subsPath)
		}
	}

	res, err := uc.Run(ctx, usecase.Input{
		Input:      cfg.Input,
		Output:     cfg.Output,
		SubsPath:   subsPath,
		CacheDir:   cacheDir,
		Visual:     cfg.Visual,
		Manual:     cfg.Manual,
		ForceAudio: cfg.ForceAudio,
		MuteOnly:   cfg.MuteOnly,
		DryRun:     cfg.DryRun,
		Padding:    cfg.Padding,
		MergeGap:   cfg.MergeGap,
		PhraseGap:  cfg.PhraseGap,
	})
	if err != nil {
		return Result{}, err
	}

	out := Result{RunID: runID, Report: res.Report, SubsOutput: res.SubsOutput}

	if !cfg.DryRun {
		reportPath := cfg.Output + ".report.json"
		b, merr := json.MarshalIndent(res.Report, "", "  ")
		if merr != nil {
			return Result{}, fmt.Errorf("marshal report: %w", merr)
		}
		if werr := os.WriteFile(reportPath, b, 0o644); werr != nil {
			return Result{}, werr
		}
		out.ReportPath = reportPath
		log.Info("report written", "path", reportPath)

		if cfg.HistoryDB != "" {
			if herr := recordHistory(ctx, cfg, runID, res.Report); herr != nil {
				// History is bookkeeping; a failed insert must not fail the edit.
				log.Warn("recording run history failed", "error", herr)
			}
		}
	}
	return out, nil
}

func recordHistory(ctx context.Context, cfg Config, runID string, report types.EditReport) error {
	store, err := history.Open(cfg.HistoryDB)
	if err != nil {
		return err
	}
	defer store.Close()
	return store.Record(ctx, history.Entry{
		ID:         runID,
		Input:      cfg.Input,
		Output:     cfg.Output,
		FinishedAt: time.Now().UTC(),
		Report:     report,
	})
}

// findSiblingSubs looks for an .srt or .vtt next to the input with the same
// base name, including the common language-tagged ".en" variant.
func findSiblingSubs(input string) string {
	base := strings.TrimSuffix(input, filepath.Ext(input))
	for _, ext := range []string{".srt", ".vtt", ".en.srt", ".en.vtt"} {
		candidate := base + ext
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

func hash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])[:12]
}

// ensure adapters implement ports
var _ ports.MediaEngine = (*ffmpeg.Adapter)(nil)
var _ ports.Transcriber = (*whispercpp.Adapter)(nil)
var _ ports.SubtitleCodec = (*subrip.Adapter)(nil)
