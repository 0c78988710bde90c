package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/finance-tracker/internal/core/events"
	"github.com/frahmantamala/finance-tracker/internal/messaging/amqp"
	"github.com/frahmantamala/finance-tracker/internal/recurring"
	recurringPostgres "github.com/frahmantamala/finance-tracker/internal/recurring/postgres"
	"github.com/frahmantamala/finance-tracker/pkg/logger"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start background workers",
}

var recurringWorkerCmd = &cobra.Command{
	Use:   "recurring",
	Short: "Copy last month's recurring expenses into the current month",
	RunE: func(cmd *cobra.Command, args []string) error {
		return startRecurringWorker()
	},
}

var (
	runOnce        bool
	workerInterval time.Duration
	workerPoolSize int
)

func startRecurringWorker() error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	lg := logger.Init(cfg.Logging.Level, cfg.Logging.Format)

	dbs, err := initDB(cfg.Database, false)
	if err != nil {
		return err
	}
	defer dbs.Close()

	bus := events.NewEventBus(lg)
	defer bus.Wait()
	if cfg.Messaging.AMQPURL != "" {
		publisher, err := amqp.Dial(cfg.Messaging.AMQPURL, cfg.Messaging.Exchange, lg)
		if err != nil {
			return err
		}
		defer publisher.Close()
		publisher.Register(bus)
	}

	processor := recurring.NewProcessor(
		recurringPostgres.NewRecurringRepository(dbs.Gorm),
		bus,
		lg,
		getIntFlag(workerPoolSize, cfg.Recurring.Workers),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if runOnce {
		result, err := processor.Run(ctx, time.Now())
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "users=%d checked=%d created=%d skipped=%d\n",
			result.Users, result.Checked, result.Created, result.Skipped)
		return nil
	}

	interval := cfg.Recurring.Interval
	if workerInterval > 0 {
		interval = workerInterval
	}

	lg.Info("recurring worker is running. Press Ctrl+C to stop.")
	recurring.NewWorker(processor, interval, lg).Start(ctx)
	return nil
}

func getIntFlag(flagValue, configValue int) int {
	if flagValue > 0 {
		return flagValue
	}
	return configValue
}

func init() {
	recurringWorkerCmd.Flags().BoolVar(&runOnce, "once", false, "run a single pass and exit")
	recurringWorkerCmd.Flags().DurationVar(&workerInterval, "interval", 0, "time between passes (overrides config)")
	recurringWorkerCmd.Flags().IntVar(&workerPoolSize, "workers", 0, "users processed concurrently (overrides config)")

	workerCmd.AddCommand(recurringWorkerCmd)

	rootCmd.AddCommand(workerCmd)
}
