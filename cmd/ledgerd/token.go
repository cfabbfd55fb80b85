package main

import (
	"fmt"
	"time"

	"merchant-ledger/config"
	"merchant-ledger/internal/adapter/auth"
	"merchant-ledger/internal/core/domain"

	"github.com/spf13/cobra"
)

func issueTokenCmd() *cobra.Command {
	var validFor time.Duration

	cmd := &cobra.Command{
		Use:   "issue-token <hex-identity>",
		Short: "Issue a signed credential for a caller identity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}

			identity, err := domain.ParseIdentity(args[0])
			if err != nil {
				return fmt.Errorf("parsing identity: %w", err)
			}

			credential, err := auth.NewJWTAuthenticator(cfg.Auth).Issue(identity, validFor)
			if err != nil {
				return err
			}
			fmt.Println(credential)
			return nil
		},
	}

	cmd.Flags().DurationVar(&validFor, "valid-for", 24*time.Hour, "credential lifetime")

	return cmd
}
