package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"payflow/internal/config"
	"payflow/internal/infra"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log, err := infra.NewLogger(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			db, err := infra.InitDatabase(cfg, log)
			if err != nil {
				return err
			}
			defer infra.CloseDatabase(db, log)

			if err := infra.Migrate(db); err != nil {
				return err
			}
			log.Info("schema migrated", zap.String("driver", cfg.DBDriver))
			return nil
		},
	}
}
