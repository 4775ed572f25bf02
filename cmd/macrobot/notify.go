package main

import (
	"fmt"

	"MacroBot/internal/di"
	"MacroBot/pkg/config"

	"github.com/spf13/cobra"
)

func notifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "notify",
		Short: "Push a digest of observations changed in the last window",
		Long: `Scan for observations modified within notifier.window and push one
digest message to line.recipient_id. Does nothing when no rows changed.
Intended to run from cron.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadWithEnv(configPath, config.ModeNotify)
			if err != nil {
				return fmt.Errorf("config load failed: %w", err)
			}

			notifier, cleanup, err := di.InitializeNotifier(cfg)
			if err != nil {
				return fmt.Errorf("notifier initialization failed: %w", err)
			}
			defer cleanup()

			_, err = notifier.Run(cmd.Context())
			return err
		},
	}
}
