package main

import (
	"fmt"
	"log"
	"os"

	"github.com/LavaJover/shvark-credit-service/internal/config"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var configPath string

func newRootCmd(version, buildTime, gitCommit string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "credit-service",
		Short: "credit-service runs the image credit ledger and payment settlement API.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if err := godotenv.Load(); err != nil {
				log.Println("no .env file loaded")
			}
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file path (default $CREDIT_CONFIG_PATH)")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newMigrateCmd())
	cmd.AddCommand(newEventsCmd())
	cmd.AddCommand(newSweepCmd())
	cmd.AddCommand(newTokenCmd())
	cmd.AddCommand(newVersionCmd(version, buildTime, gitCommit))
	return cmd
}

func loadConfig() (*config.CreditConfig, error) {
	path := configPath
	if path == "" {
		path = os.Getenv("CREDIT_CONFIG_PATH")
	}
	if path == "" {
		return nil, fmt.Errorf("no config file: pass --config or set CREDIT_CONFIG_PATH")
	}
	return config.Load(path)
}
