// Command eventlog tails the employee lifecycle topic and logs every event.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gartstein/workforce/internal/employee/events"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		brokers []string
		topic   string
		group   string
	)
	cmd := &cobra.Command{
		Use:          "eventlog",
		Short:        "Log employee lifecycle events from Kafka",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := zap.NewProduction()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			consumer := events.NewConsumer(brokers, group, topic, logger)
			defer consumer.Close()
			consumer.RegisterHandler(logEvent(logger))

			logger.Info("consuming employee events", zap.String("topic", topic), zap.String("group", group))
			consumer.Run(ctx)
			logger.Info("event log stopped")
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&brokers, "brokers", []string{envOr("KAFKA_BROKERS", "localhost:9092")}, "Kafka brokers")
	cmd.Flags().StringVar(&topic, "topic", envOr("TOPIC", "employee-events"), "topic to consume")
	cmd.Flags().StringVar(&group, "group", "employee-eventlog", "consumer group id")
	return cmd
}

func logEvent(logger *zap.Logger) func(context.Context, events.Event) error {
	return func(_ context.Context, event events.Event) error {
		fields := []zap.Field{
			zap.String("event_id", event.ID.String()),
			zap.String("event_type", string(event.Type)),
			zap.Time("occurred_at", event.OccurredAt),
		}
		if event.Employee != nil {
			fields = append(fields, zap.Int64("employee_id", event.Employee.ID))
		}
		logger.Info("employee event", fields...)
		return nil
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
