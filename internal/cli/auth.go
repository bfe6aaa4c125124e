package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/alfasin/ttsync/pkg/google"
	"github.com/spf13/cobra"
)

func authCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage calendar credentials",
	}
	cmd.AddCommand(authGoogleCmd())
	return cmd
}

// authGoogleCmd runs the one-time OAuth consent flow and stores the token
// where the google calendar source will find it.
func authGoogleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "google",
		Short: "Authorize read access to Google Calendar",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.Calendar.Google.ClientId == "" || cfg.Calendar.Google.ClientSecret == "" {
				return fmt.Errorf("calendar.google.clientid and calendar.google.clientsecret are required")
			}

			auth := google.NewAuth(cfg.Calendar.Google)
			cmd.Println("Open this URL in your browser and grant access:")
			cmd.Println()
			cmd.Println("  " + auth.AuthURL())
			cmd.Println()
			cmd.Print("Paste the authorization code here: ")

			line, err := bufio.NewReader(os.Stdin).ReadString('\n')
			if err != nil {
				return fmt.Errorf("reading authorization code: %w", err)
			}
			code := strings.TrimSpace(line)
			if code == "" {
				return fmt.Errorf("no authorization code provided")
			}

			if err := auth.Exchange(cmd.Context(), code); err != nil {
				return fmt.Errorf("exchanging authorization code: %w", err)
			}
			cmd.Printf("Token saved to %s\n", cfg.Calendar.Google.TokenFile)
			return nil
		},
	}
}
