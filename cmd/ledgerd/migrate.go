package main

import (
	"merchant-ledger/config"
	"merchant-ledger/internal/adapter/storage/postgres"
	"merchant-ledger/pkg/logger"

	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			log := logger.WithComponent(logger.New(cfg.Log.Level, cfg.Log.Pretty), "migrate")

			return postgres.Migrate(cfg.Database.DSN(), log)
		},
	}
}
