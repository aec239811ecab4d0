// Command moneymate-events consumes transaction change events and logs them.
package main

import (
	"context"
	"errors"
	"os"

	"moneymate/internal/amqp"
	"moneymate/internal/cli"
	"moneymate/internal/log"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(logger)

	if !cfg.AMQPEnabled() {
		cli.Fatal(logger, "Event consumer needs a broker", errors.New("AMQP_URL is not set"))
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
	if err != nil {
		cli.Fatal(logger, "Failed to initialize AMQP client", err)
	}
	defer client.Close()

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()

	logger.Info("Consuming transaction events", "queue", cfg.AMQPQueue, log.FieldOperation, log.OpStartup)
	err = client.Consume(ctx, logEvent(logger.WithComponent(log.ComponentAMQP)))
	if err != nil && !errors.Is(err, context.Canceled) {
		cli.Fatal(logger, "Message consumption failed", err)
	}
	logger.Info("Event consumer stopped", log.FieldOperation, log.OpShutdown)
}

// logEvent writes one line per event. It never fails, so nothing is requeued.
func logEvent(logger *log.Logger) amqp.Handler {
	return func(ctx context.Context, ev amqp.TransactionEvent) error {
		args := []any{"action", ev.Action, "at", ev.Timestamp}
		if ev.ID != "" {
			args = append(args, log.FieldTransactionID, ev.ID)
		}
		if ev.Count > 0 {
			args = append(args, log.FieldCount, ev.Count)
		}
		logger.InfoContext(ctx, "Transaction event", args...)
		return nil
	}
}
