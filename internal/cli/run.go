package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"scrub/internal/config"
	"scrub/internal/domain/lexicon"
	"scrub/internal/logging"
	"scrub/internal/pipeline"
	"scrub/internal/types"
)

func run(cmd *cobra.Command, input, output string) error {
	configPath, _ := cmd.Flags().GetString("config")
	subsPath, _ := cmd.Flags().GetString("subs")
	lexiconPath, _ := cmd.Flags().GetString("lexicon")
	removeSpec, _ := cmd.Flags().GetString("remove")
	visualPath, _ := cmd.Flags().GetString("visual")
	forceAudio, _ := cmd.Flags().GetBool("audio")
	muteOnly, _ := cmd.Flags().GetBool("mute-only")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	paddingOverride, _ := cmd.Flags().GetFloat64("padding")
	mergeGapOverride, _ := cmd.Flags().GetFloat64("merge-gap")

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	if err != nil {
		return err
	}

	absIn, err := filepath.Abs(input)
	if err != nil {
		return err
	}
	if output == "" {
		ext := filepath.Ext(absIn)
		output = strings.TrimSuffix(absIn, ext) + "_cleaned" + ext
	}

	lx, err := loadLexicon(lexiconPath, cfg.Filter.LexiconPath)
	if err != nil {
		return err
	}

	manual, err := parseManualRanges(removeSpec)
	if err != nil {
		return err
	}

	var visual []types.Detection
	if visualPath != "" {
		visual, err = loadVisualDetections(visualPath)
		if err != nil {
			return err
		}
	}

	padding := cfg.Filter.PaddingSeconds
	if cmd.Flags().Changed("padding") {
		padding = paddingOverride
	}
	mergeGap := cfg.Filter.MergeGapSeconds
	if cmd.Flags().Changed("merge-gap") {
		mergeGap = mergeGapOverride
	}

	ctx, cancel := context.WithTimeout(context.Background(), 12*time.Hour)
	defer cancel()

	pcfg := pipeline.Config{
		Input:    absIn,
		Output:   output,
		SubsPath: subsPath,
		CacheDir: cfg.CacheDir,

		Lexicon: lx,
		Manual:  manual,
		Visual:  visual,

		ForceAudio: forceAudio,
		MuteOnly:   muteOnly,
		DryRun:     dryRun,

		Padding:   padding,
		MergeGap:  mergeGap,
		PhraseGap: cfg.Filter.PhraseGapSeconds,

		FFmpegPath:   cfg.Tools.FFmpegPath,
		FFprobePath:  cfg.Tools.FFprobePath,
		WhisperBin:   cfg.Tools.WhisperBin,
		WhisperModel: cfg.Tools.WhisperModel,

		HistoryDB: cfg.HistoryDB,
		Log:       log,
	}
	if err := pcfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	res, err := pipeline.Run(ctx, pcfg)
	if err != nil {
		return err
	}

	cmd.Println(renderReport(res.Report))
	if dryRun {
		cmd.Println("dry run: no files written")
		return nil
	}
	cmd.Printf("cleaned media: %s\n", output)
	if res.SubsOutput != "" {
		cmd.Printf("cleaned subtitles: %s\n", res.SubsOutput)
	}
	return nil
}

func loadLexicon(flagPath, configPath string) (*lexicon.Lexicon, error) {
	path := flagPath
	if path == "" {
		path = configPath
	}
	if path == "" {
		return lexicon.Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open lexicon: %w", err)
	}
	defer f.Close()
	entries, err := lexicon.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse lexicon %s: %w", path, err)
	}
	return lexicon.New(entries), nil
}

// parseManualRanges turns "6-11,23-30" into manual-source detections.
func parseManualRanges(spec string) ([]types.Detection, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, nil
	}
	var out []types.Detection
	for _, pair := range strings.Split(spec, ",") {
		parts := strings.SplitN(strings.TrimSpace(pair), "-", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid range %q (want start-end)", pair)
		}
		start, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid range %q: %w", pair, err)
		}
		end, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid range %q: %w", pair, err)
		}
		if end <= start {
			return nil, fmt.Errorf("invalid range %q: end must be after start", pair)
		}
		out = append(out, types.Detection{Start: start, End: end, Source: types.SourceManual})
	}
	return out, nil
}
