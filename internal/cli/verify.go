package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/alfasin/ttsync/internal/config"
	"github.com/alfasin/ttsync/internal/database"
	"github.com/alfasin/ttsync/pkg/tracker"
	"github.com/spf13/cobra"
)

// verifyCmd checks every external dependency without writing anything.
func verifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Check configuration, tracker and calendar connectivity",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			failures := 0
			check := func(name string, err error) {
				if err != nil {
					failures++
					cmd.Printf("FAIL %s: %v\n", name, err)
					return
				}
				cmd.Printf("ok   %s\n", name)
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			check("configuration", cfg.Validate())

			client := tracker.NewClient(cfg.Tracker.URL)
			check("tracker health", client.Health(ctx))
			loginErr := client.Login(ctx, cfg.Tracker.Email, cfg.Tracker.Password)
			check("tracker login", loginErr)
			if loginErr == nil {
				_, err := client.GetProjects(ctx)
				check("tracker projects", err)
			}

			check("work calendar", probeCalendar(ctx, cfg, cfg.Calendar.Work))
			check("holiday calendar", probeCalendar(ctx, cfg, cfg.Calendar.Holiday))

			check("journal database", func() error {
				if err := database.Migrate(cfg.Journal.Path); err != nil {
					return err
				}
				db, err := database.Open(cfg.Journal.Path)
				if err != nil {
					return err
				}
				return db.Close()
			}())

			if failures > 0 {
				return fmt.Errorf("%d checks failed", failures)
			}
			cmd.Println("All checks passed.")
			return nil
		},
	}
}

// probeCalendar fetches a one-week window to prove the feed is reachable and
// parseable.
func probeCalendar(ctx context.Context, cfg config.Application, source config.CalendarSource) error {
	cal, err := newCalendarSource(ctx, cfg, source)
	if err != nil {
		return err
	}
	now := time.Now()
	_, err = cal.GetEvents(ctx, now.AddDate(0, 0, -7), now)
	return err
}
