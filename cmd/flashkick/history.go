package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/flashkick/flashkick-agent/internal/bootstrap"
	"github.com/flashkick/flashkick-agent/internal/history"
)

func newHistoryCmd(flags *globalFlags) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent submissions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if limit <= 0 {
				return fmt.Errorf("--limit must be positive")
			}
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			logger := newLogger(flags, cfg, cmd.ErrOrStderr())

			app, err := loadApp(flags, cfg, logger, bootstrap.Options{})
			if err != nil {
				return err
			}
			defer app.Close()

			records, err := app.History.List(context.Background(), limit)
			if err != nil {
				return fmt.Errorf("failed to list submissions: %w", err)
			}
			return printHistory(cmd, records)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "number of submissions to show")
	return cmd
}

func printHistory(cmd *cobra.Command, records []*history.Record) error {
	out := cmd.OutOrStdout()
	if len(records) == 0 {
		_, err := fmt.Fprintln(out, "no submissions yet")
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "WHEN\tKIND\tSTATUS\tPROGRESS\tTARGET")
	for _, r := range records {
		progress := "-"
		if r.Kind == history.KindFile {
			progress = fmt.Sprintf("%d%%", r.Progress)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", humanize.Time(r.CreatedAt), r.Kind, r.Status, progress, r.Target)
	}
	return tw.Flush()
}
