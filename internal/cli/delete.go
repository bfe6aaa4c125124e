package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/alfasin/ttsync/pkg/conflict"
	"github.com/alfasin/ttsync/pkg/sync"
	"github.com/spf13/cobra"
)

func deleteCmd() *cobra.Command {
	var (
		month string
		date  string
		yes   bool
	)

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Remove every tracker entry in a month or on a date",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if month != "" && date != "" {
				return fmt.Errorf("--month and --date are mutually exclusive")
			}
			if month == "" && date == "" {
				return fmt.Errorf("one of --month or --date is required")
			}

			target := month
			if date != "" {
				target = date
			}
			if !yes && !confirm(cmd, fmt.Sprintf("Delete all tracker entries for %s?", target)) {
				cmd.Println("Aborted.")
				return nil
			}

			ctx := cmd.Context()
			// Deletion never consults the conflict resolver.
			application, err := newApp(ctx, conflict.Always(conflict.ActionSkip))
			if err != nil {
				return err
			}
			defer application.Close()

			var summary sync.Summary
			if date != "" {
				summary, err = application.service.DeleteDate(ctx, date)
			} else {
				summary, err = application.service.DeleteMonth(ctx, month)
			}
			if err != nil {
				return err
			}

			cmd.Printf("Deleted %d entries (%d failures).\n", summary.Deleted, summary.Failed)
			return nil
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "month to clear (YYYY-MM)")
	cmd.Flags().StringVar(&date, "date", "", "single date to clear (YYYY-MM-DD)")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")

	return cmd
}

func confirm(cmd *cobra.Command, question string) bool {
	cmd.Printf("%s [y/N]: ", question)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
