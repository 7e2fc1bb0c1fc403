package main

import (
	"fmt"

	"github.com/LavaJover/shvark-credit-service/internal/infrastructure/logger"
	"github.com/LavaJover/shvark-credit-service/internal/infrastructure/migrate"
	"github.com/LavaJover/shvark-credit-service/internal/infrastructure/postgres"
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:          "up",
		Short:        "Apply all pending migrations",
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

			db, err := postgres.Open(cfg.CreditDB)
			if err != nil {
				return err
			}
			if cfg.CreditDB.Driver == "sqlite" {
				zlog.Info("sqlite schema is managed by auto-migrate")
				return postgres.AutoMigrate(db)
			}
			return migrate.RunMigrations(db, cfg.CreditDB.MigrationsPath, zlog)
		},
	})

	var steps int
	down := &cobra.Command{
		Use:          "down",
		Short:        "Roll back the last migrations",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.CreditDB.Driver != "postgres" {
				return fmt.Errorf("rollback is only supported on postgres")
			}
			zlog, err := logger.InitLogger(cfg.LogLevel, cfg.LogFormat, cfg.LogOutput)
			if err != nil {
				return err
			}
			defer zlog.Sync()

			db, err := postgres.Open(cfg.CreditDB)
			if err != nil {
				return err
			}
			return migrate.RollbackMigrations(db, cfg.CreditDB.MigrationsPath, steps, zlog)
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")
	cmd.AddCommand(down)

	return cmd
}
