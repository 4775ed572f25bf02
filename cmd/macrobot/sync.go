package main

import (
	"fmt"

	"MacroBot/internal/di"
	"MacroBot/pkg/config"

	"github.com/spf13/cobra"
)

func syncCmd() *cobra.Command {
	var failOnSeries bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Fetch new observations for every configured series",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadWithEnv(configPath, config.ModeSync)
			if err != nil {
				return fmt.Errorf("config load failed: %w", err)
			}

			ingest, cleanup, err := di.InitializeSync(cfg)
			if err != nil {
				return fmt.Errorf("sync initialization failed: %w", err)
			}
			defer cleanup()

			report, err := ingest.Run(cmd.Context())
			if err != nil {
				return err
			}
			if failOnSeries && report.Failed > 0 {
				return fmt.Errorf("%d of %d series failed", report.Failed, report.Series)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&failOnSeries, "strict", false, "exit non-zero when any series fails")
	return cmd
}
