package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func Main() {
	_ = godotenv.Load() // best-effort: load .env if present

	root := &cobra.Command{
		Use:          "scrub <input> [output]",
		Short:        "Remove profanity from a media file, its audio and its subtitles",
		Args:         cobra.RangeArgs(1, 2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := ""
			if len(args) > 1 {
				output = args[1]
			}
			return run(cmd, args[0], output)
		},
	}

	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)
	root.SilenceErrors = true

	// Visible flags
	root.Flags().String("config", "", "Config file path")
	root.Flags().String("subs", "", "Subtitle file (SRT or VTT); auto-detected next to the input when omitted")
	root.Flags().String("lexicon", "", "Word list file, one entry per line")
	root.Flags().String("remove", "", `Manual ranges to remove, e.g. "6-11,23-30"`)
	root.Flags().String("visual", "", "JSON file with visual classifier detections")
	root.Flags().Bool("audio", false, "Also transcribe audio even when subtitles yield detections")
	root.Flags().Bool("mute-only", false, "Mute flagged ranges instead of cutting them")
	root.Flags().Bool("dry-run", false, "Plan and report without writing any file")

	// Hidden tuning flags (internal)
	root.Flags().Float64("padding", 0, "Padding seconds around detections")
	root.Flags().Float64("merge-gap", 0, "Merge gap seconds")
	_ = root.Flags().MarkHidden("padding")
	_ = root.Flags().MarkHidden("merge-gap")

	root.AddCommand(newBatchCommand())
	root.AddCommand(newHistoryCommand())
	root.AddCommand(newConfigCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
