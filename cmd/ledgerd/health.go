package main

import (
	"context"
	"fmt"
	"time"

	"merchant-ledger/config"
	"merchant-ledger/internal/adapter/storage/postgres"
	"merchant-ledger/internal/adapter/storage/redis"
	"merchant-ledger/internal/core/ports"
	"merchant-ledger/pkg/logger"

	"github.com/spf13/cobra"
)

func healthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Ping the ledger's backing services",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			log := logger.WithComponent(logger.New(cfg.Log.Level, cfg.Log.Pretty), "health")

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			var checkers []ports.HealthChecker

			pool, err := postgres.NewPool(ctx, cfg.Database, log)
			if err != nil {
				return fmt.Errorf("postgresql: %w", err)
			}
			defer pool.Close()
			checkers = append(checkers, postgres.NewHealthCheck(pool))

			rdb, err := redis.NewClient(ctx, cfg.Redis, log)
			if err != nil {
				return fmt.Errorf("redis: %w", err)
			}
			defer rdb.Close()
			checkers = append(checkers, redis.NewHealthCheck(rdb))

			for _, checker := range checkers {
				if err := checker.Ping(ctx); err != nil {
					return fmt.Errorf("%s: %w", checker.Name(), err)
				}
				fmt.Printf("%s: ok\n", checker.Name())
			}
			return nil
		},
	}
}
