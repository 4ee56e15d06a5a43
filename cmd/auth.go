package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kbouqdir/jobtrack/internal/config"
	"github.com/kbouqdir/jobtrack/internal/google"
)

func newAuthCmd() *cobra.Command {
	var (
		configPath string
		clear      bool
	)

	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authenticate with Google",
		Long: `Run the interactive OAuth flow: open the printed URL in a browser,
authorize read-only Gmail access and paste the authorization code back.
The token is cached locally; run with --clear to invalidate it.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if clear {
				if err := google.ClearToken(); err != nil {
					return err
				}
				fmt.Println("Cached token removed.")
				return nil
			}

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			creds := google.Credentials{
				ClientID:     cfg.Google.ClientID,
				ClientSecret: cfg.Google.ClientSecret,
			}
			if err := creds.Validate(); err != nil {
				return err
			}

			if google.HasToken() {
				fmt.Println("A cached token already exists; it will be replaced.")
			}

			fmt.Printf("Open the following URL in your browser:\n\n  %s\n\n", google.AuthURL(creds))
			fmt.Print("Enter the authorization code: ")

			reader := bufio.NewReader(os.Stdin)
			code, err := reader.ReadString('\n')
			if err != nil {
				return fmt.Errorf("failed to read authorization code: %w", err)
			}
			code = strings.TrimSpace(code)
			if code == "" {
				return fmt.Errorf("empty authorization code")
			}

			if err := google.SaveToken(cmd.Context(), creds, code); err != nil {
				return err
			}
			fmt.Println("Successfully authenticated with Gmail.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Config file path (default: search standard locations)")
	cmd.Flags().BoolVar(&clear, "clear", false, "Remove the cached token instead of authenticating")

	return cmd
}
