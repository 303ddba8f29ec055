package cli

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"scrub/internal/config"
	"scrub/internal/logging"
	"scrub/internal/pipeline"
)

var videoExtensions = map[string]bool{
	".mp4":  true,
	".mkv":  true,
	".mov":  true,
	".avi":  true,
	".flv":  true,
	".webm": true,
}

func newBatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch <input-dir> <output-dir>",
		Short: "Clean every video under a directory",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, args[0], args[1])
		},
	}
	cmd.Flags().String("config", "", "Config file path")
	cmd.Flags().String("lexicon", "", "Word list file, one entry per line")
	cmd.Flags().Bool("audio", false, "Also transcribe audio even when subtitles yield detections")
	cmd.Flags().Bool("mute-only", false, "Mute flagged ranges instead of cutting them")
	cmd.Flags().Bool("dry-run", false, "Plan and report without writing any file")
	return cmd
}

func runBatch(cmd *cobra.Command, inDir, outDir string) error {
	configPath, _ := cmd.Flags().GetString("config")
	lexiconPath, _ := cmd.Flags().GetString("lexicon")
	forceAudio, _ := cmd.Flags().GetBool("audio")
	muteOnly, _ := cmd.Flags().GetBool("mute-only")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

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

	videos, err := collectVideos(inDir)
	if err != nil {
		return err
	}
	if len(videos) == 0 {
		return fmt.Errorf("no video files found in %s", inDir)
	}
	if !dryRun {
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return err
		}
	}

	lx, err := loadLexicon(lexiconPath, cfg.Filter.LexiconPath)
	if err != nil {
		return err
	}

	type batchRow struct {
		input   string
		output  string
		report  string
		removed float64
		err     error
	}
	rows := make([]batchRow, 0, len(videos))
	failed := 0

	for i, input := range videos {
		ext := filepath.Ext(input)
		base := strings.TrimSuffix(filepath.Base(input), ext)
		output := filepath.Join(outDir, base+"_cleaned"+ext)
		log.Info("batch item", "n", i+1, "of", len(videos), "input", input)

		ctx, cancel := context.WithTimeout(cmd.Context(), 12*time.Hour)
		res, runErr := pipeline.Run(ctx, pipeline.Config{
			Input:    input,
			Output:   output,
			CacheDir: cfg.CacheDir,

			Lexicon: lx,

			ForceAudio: forceAudio,
			MuteOnly:   muteOnly,
			DryRun:     dryRun,

			Padding:   cfg.Filter.PaddingSeconds,
			MergeGap:  cfg.Filter.MergeGapSeconds,
			PhraseGap: cfg.Filter.PhraseGapSeconds,

			FFmpegPath:   cfg.Tools.FFmpegPath,
			FFprobePath:  cfg.Tools.FFprobePath,
			WhisperBin:   cfg.Tools.WhisperBin,
			WhisperModel: cfg.Tools.WhisperModel,

			HistoryDB: cfg.HistoryDB,
			Log:       log,
		})
		cancel()

		row := batchRow{input: input, output: output, err: runErr}
		if runErr != nil {
			failed++
			log.Error("batch item failed", "input", input, "error", runErr)
		} else {
			row.report = fmt.Sprintf("%d segments", res.Report.SegmentCount)
			row.removed = res.Report.TotalRemoved
		}
		rows = append(rows, row)
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Input", "Result", "Removed"})
	for _, r := range rows {
		if r.err != nil {
			tw.AppendRow(table.Row{filepath.Base(r.input), "FAILED: " + r.err.Error(), ""})
			continue
		}
		tw.AppendRow(table.Row{filepath.Base(r.input), r.report, fmt.Sprintf("%.1fs", r.removed)})
	}
	cmd.Println(tw.Render())
	cmd.Printf("processed %d, failed %d\n", len(videos)-failed, failed)

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(videos))
	}
	return nil
}

// collectVideos walks dir recursively and returns the video files found,
// sorted for a stable processing order.
func collectVideos(dir string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if videoExtensions[strings.ToLower(filepath.Ext(path))] {
			out = append(out, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(out)
	return out, nil
}
