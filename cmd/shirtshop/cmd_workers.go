package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/shirtshop/config"
	"github.com/shashiranjanraj/shirtshop/pkg/cache"
	"github.com/shashiranjanraj/shirtshop/pkg/queue"
)

var (
	queueWorkersFlag int
	queueRetryLimit  int
)

// shirtshop queue:work
var queueWorkCmd = &cobra.Command{
	Use:   "queue:work",
	Short: "Start queue workers (order event publishing)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		shutdown, err := bootApp(ctx)
		if err != nil {
			return err
		}
		defer shutdown()

		workers := queueWorkersFlag
		if workers < 1 {
			workers = config.QueueWorkers()
		}

		fmt.Printf("Queue worker started (%d workers, driver %s). Press Ctrl+C to stop.\n", workers, config.QueueDriver())
		startBackground(ctx, workers)

		<-ctx.Done()
		fmt.Println("\nQueue worker stopped.")
		return nil
	},
}

// shirtshop queue:retry
var queueRetryCmd = &cobra.Command{
	Use:   "queue:retry",
	Short: "Put persisted failed jobs back on the queue",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		shutdown, err := bootApp(ctx)
		if err != nil {
			return err
		}
		defer shutdown()

		// the in-memory queue dies with this process
		if config.QueueDriver() != "redis" || !cache.Enabled() {
			return errors.New("queue:retry needs QUEUE_DRIVER=redis and a reachable redis")
		}

		n, err := queue.RetryFailed(ctx, queueRetryLimit)
		if err != nil {
			return err
		}
		fmt.Printf("Re-queued %d failed job(s).\n", n)
		return nil
	},
}

func init() {
	queueWorkCmd.Flags().IntVarP(&queueWorkersFlag, "workers", "w", 0, "Number of concurrent workers (default QUEUE_WORKERS)")
	queueRetryCmd.Flags().IntVar(&queueRetryLimit, "limit", 100, "Maximum jobs to re-queue")
}
