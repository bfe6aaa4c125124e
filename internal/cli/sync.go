package cli

import (
	"fmt"

	"github.com/alfasin/ttsync/pkg/sync"
	"github.com/spf13/cobra"
)

func syncCmd() *cobra.Command {
	var (
		month  string
		date   string
		auto   string
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Compute entries from the calendars and write them to the tracker",
		Long: `Reads the work and holiday calendars for the chosen period, computes per-day
time entries, reconciles them against records already in the tracker and
applies the result. Without --month or --date the current month is synced,
capped at today.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if month != "" && date != "" {
				return fmt.Errorf("--month and --date are mutually exclusive")
			}

			decide, err := newDecision(auto)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			application, err := newApp(ctx, decide)
			if err != nil {
				return err
			}
			defer application.Close()

			opts := sync.Options{DryRun: dryRun}
			var summary sync.Summary
			if date != "" {
				summary, err = application.service.SyncDate(ctx, date, opts)
			} else {
				summary, err = application.service.SyncMonth(ctx, month, opts)
			}
			if err != nil {
				return err
			}

			printSummary(cmd, summary, dryRun)
			return nil
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "month to sync (YYYY-MM)")
	cmd.Flags().StringVar(&date, "date", "", "single date to sync (YYYY-MM-DD)")
	cmd.Flags().StringVar(&auto, "auto", "", "resolve every conflict without prompting: skip, replace or add")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "compute and resolve but write nothing")

	return cmd
}

func printSummary(cmd *cobra.Command, summary sync.Summary, dryRun bool) {
	if dryRun {
		cmd.Println("Dry run, nothing was written.")
	}
	cmd.Printf("Added:      %d\n", summary.Added)
	cmd.Printf("Deleted:    %d\n", summary.Deleted)
	cmd.Printf("Skipped:    %d days\n", summary.SkippedDays)
	cmd.Printf("Unresolved: %d days\n", summary.UnresolvedDays)
	cmd.Printf("Failed:     %d\n", summary.Failed)
}
