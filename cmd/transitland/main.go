package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ukydev/transitland-client/internal/api"
	"github.com/ukydev/transitland-client/internal/config"
	"github.com/ukydev/transitland-client/internal/tui"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var baseURL string

	cmd := &cobra.Command{
		Use:           "transitland",
		Short:         "Terminal client for the Transitland maintenance API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if baseURL != "" {
				cfg.APIBaseURL = baseURL
			}

			// The TUI owns the terminal, so logs go to a file.
			logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
			if err != nil {
				return fmt.Errorf("open log file: %w", err)
			}
			defer logFile.Close()
			cfg.SetupLogging(logFile)

			client := api.NewClient(cfg.APIBaseURL, api.WithTimeout(cfg.HTTPTimeout))
			log.WithField("base_url", cfg.APIBaseURL).Info("starting client")
			return tui.Run(client)
		},
	}

	cmd.Flags().StringVar(&baseURL, "api", "", "API base URL (overrides API_BASE_URL)")
	return cmd
}
