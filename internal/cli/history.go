package cli

import (
	"fmt"
	"path/filepath"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"scrub/internal/config"
	"scrub/internal/history"
)

func newHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			limit, _ := cmd.Flags().GetInt("limit")

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if cfg.HistoryDB == "" {
				return fmt.Errorf("history is disabled (history_db is empty)")
			}
			store, err := history.Open(cfg.HistoryDB)
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				cmd.Println("no runs recorded")
				return nil
			}

			tw := table.NewWriter()
			tw.SetStyle(table.StyleRounded)
			tw.AppendHeader(table.Row{"Finished", "Input", "Segments", "Removed", "Cues", "Warnings"})
			for _, e := range entries {
				tw.AppendRow(table.Row{
					e.FinishedAt.Local().Format("2006-01-02 15:04"),
					filepath.Base(e.Input),
					e.Report.SegmentCount,
					fmt.Sprintf("%.1fs", e.Report.TotalRemoved),
					fmt.Sprintf("%d->%d", e.Report.CuesBefore, e.Report.CuesAfter),
					e.Report.Warnings,
				})
			}
			cmd.Println(tw.Render())
			return nil
		},
	}
	cmd.Flags().String("config", "", "Config file path")
	cmd.Flags().Int("limit", 20, "Max runs to list")
	return cmd
}

func newConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the config file",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write a sample config to the default location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := config.DefaultPath()
			if err := config.WriteSample(path); err != nil {
				return err
			}
			cmd.Printf("config written: %s\n", path)
			return nil
		},
	})
	return cmd
}
