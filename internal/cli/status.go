package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/alfasin/ttsync/internal/database"
	"github.com/alfasin/ttsync/pkg/journal"
	"github.com/spf13/cobra"
)

func statusCmd() *cobra.Command {
	var (
		limit      int
		operations bool
		asCSV      bool
	)

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show recent sync runs from the local journal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := database.Migrate(cfg.Journal.Path); err != nil {
				return fmt.Errorf("migrating journal database: %w", err)
			}
			db, err := database.Open(cfg.Journal.Path)
			if err != nil {
				return fmt.Errorf("opening journal database: %w", err)
			}
			defer db.Close()

			repo := journal.NewRepository(db)
			ctx := cmd.Context()
			runs, err := repo.ListRuns(ctx, limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				cmd.Println("No sync runs recorded yet.")
				return nil
			}

			if asCSV {
				exports := make([]journal.RunExport, 0, len(runs))
				for _, run := range runs {
					ops, err := repo.ListOperations(ctx, run.ID)
					if err != nil {
						return err
					}
					exports = append(exports, journal.RunExport{Run: run, Operations: ops})
				}
				out, err := journal.NewCsvRenderer().RenderRuns(exports)
				if err != nil {
					return err
				}
				cmd.Print(out)
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "RUN\tPERIOD\tSTARTED\tADDED\tDELETED\tSKIPPED\tUNRESOLVED\tFAILED")
			for _, run := range runs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%d\t%d\n",
					shortID(run.ID), run.Period, run.StartedAt.Format("2006-01-02 15:04"),
					run.Added, run.Deleted, run.Skipped, run.Unresolved, run.Failed)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			if !operations {
				return nil
			}
			for _, run := range runs {
				ops, err := repo.ListOperations(ctx, run.ID)
				if err != nil {
					return err
				}
				if len(ops) == 0 {
					continue
				}
				cmd.Printf("\nRun %s:\n", shortID(run.ID))
				for _, op := range ops {
					line := fmt.Sprintf("  %s %s %s/%s %.2fh [%s]", op.Date, op.Action, op.Project, op.Task, op.Hours, op.Status)
					if op.Error != "" {
						line += " " + op.Error
					}
					cmd.Println(line)
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "number of runs to show")
	cmd.Flags().BoolVar(&operations, "operations", false, "also list each run's individual operations")
	cmd.Flags().BoolVar(&asCSV, "csv", false, "print runs as CSV, one row per operation")

	return cmd
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
