package main

import (
	"fmt"

	"github.com/LavaJover/shvark-credit-service/internal/app/setup"
	"github.com/LavaJover/shvark-credit-service/internal/infrastructure/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// newSweepCmd fails and refunds generations that never reached the vendor,
// for users who will not read their history again. Run it by hand.
func newSweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "sweep",
		Short:        "Refund generations stuck in pending without a vendor task",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			zlog, err := logger.InitLogger(cfg.LogLevel, cfg.LogFormat, cfg.LogOutput)
			if err != nil {
				return err
			}
			defer zlog.Sync()

			db, err := openDatabase(cfg, zlog)
			if err != nil {
				return err
			}
			deps, err := setup.InitializeDependencies(cfg, db, zlog)
			if err != nil {
				return err
			}
			defer func() {
				if err := deps.Close(); err != nil {
					zlog.Warn("failed to close dependencies", zap.Error(err))
				}
			}()

			swept, err := setup.InitializeUseCases(deps).Generation.SweepStalePending(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "refunded %d stale generations\n", swept)
			return nil
		},
	}
}
