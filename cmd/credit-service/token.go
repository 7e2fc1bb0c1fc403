package main

import (
	"fmt"
	"time"

	"github.com/LavaJover/shvark-credit-service/internal/delivery/http/middleware"
	"github.com/spf13/cobra"
)

// newTokenCmd issues a bearer token for local testing of the API.
func newTokenCmd() *cobra.Command {
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:          "token <user-id>",
		Short:        "Issue an API token for a user",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			token, err := middleware.NewToken(cfg.Auth.JWTSecret, args[0], ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime, 0 for no expiry")
	return cmd
}
