package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/LavaJover/shvark-credit-service/internal/app/setup"
	"github.com/LavaJover/shvark-credit-service/internal/infrastructure/kafka"
	"github.com/spf13/cobra"
)

// newEventsCmd tails a domain event topic to stdout.
func newEventsCmd() *cobra.Command {
	var topic, group string

	cmd := &cobra.Command{
		Use:          "events",
		Short:        "Print payment or generation events as they are published",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if topic == "" {
				topic = cfg.KafkaService.PaymentTopic
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			msgs, errs := kafka.NewDefaultKafkaSubscriber(setup.KafkaBrokers(cfg)).Subscribe(ctx, topic, group)
			for msg := range msgs {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", msg.Key, msg.Value)
			}
			select {
			case err := <-errs:
				return err
			default:
				return nil
			}
		},
	}

	cmd.Flags().StringVar(&topic, "topic", "", "topic to read (default payment topic)")
	cmd.Flags().StringVar(&group, "group", "credit-service-events", "consumer group id")
	return cmd
}
