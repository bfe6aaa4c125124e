package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/alfasin/ttsync/pkg/tracker"
	"github.com/spf13/cobra"
)

func projectsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "projects",
		Short: "List the projects and tasks available in the tracker",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.Tracker.Email == "" || cfg.Tracker.Password == "" {
				return fmt.Errorf("tracker.email and tracker.password are required")
			}

			client := tracker.NewClient(cfg.Tracker.URL)
			if err := client.Login(ctx, cfg.Tracker.Email, cfg.Tracker.Password); err != nil {
				return fmt.Errorf("time tracker login: %w", err)
			}
			projects, err := client.GetProjects(ctx)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "PROJECT\tNAME\tTASK\tTASK NAME")
			for _, project := range projects {
				if len(project.Tasks) == 0 {
					fmt.Fprintf(w, "%s\t%s\t\t\n", project.ID, project.Name)
					continue
				}
				for _, task := range project.Tasks {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", project.ID, project.Name, task.ID, task.Name)
				}
			}
			return w.Flush()
		},
	}
}
