package main

import (
	"fmt"

	"MacroBot/internal/di"
	"MacroBot/pkg/config"

	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the LINE webhook server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadWithEnv(configPath, config.ModeServe)
			if err != nil {
				return fmt.Errorf("config load failed: %w", err)
			}

			app, cleanup, err := di.InitializeBot(cfg)
			if err != nil {
				return fmt.Errorf("app initialization failed: %w", err)
			}
			defer cleanup()

			return app.Run(cmd.Context())
		},
	}
}
