package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/shashiranjanraj/shirtshop/app/jobs"
	"github.com/shashiranjanraj/shirtshop/config"
	"github.com/shashiranjanraj/shirtshop/pkg/cache"
	"github.com/shashiranjanraj/shirtshop/pkg/database"
	"github.com/shashiranjanraj/shirtshop/pkg/logger"
	"github.com/shashiranjanraj/shirtshop/pkg/publisher"
	"github.com/shashiranjanraj/shirtshop/pkg/queue"
	"github.com/shashiranjanraj/shirtshop/pkg/schedule"
	"github.com/shashiranjanraj/shirtshop/pkg/storage"
)

// bootDB loads config and opens the database connection.
func bootDB() error {
	if err := config.Load(); err != nil {
		return err
	}
	return database.Connect()
}

// bootApp brings up everything a long-running process needs: the database,
// the optional Redis cache, storage disks, the optional MongoDB log sink,
// the queue driver and the order event publisher. The returned func releases what was opened.
func bootApp(ctx context.Context) (func(), error) {
	if err := bootDB(); err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := cache.Connect(pingCtx); err != nil {
		logger.Warn("boot: redis unavailable, catalog cache disabled", "error", err)
	}

	storage.Connect(ctx)

	var logSink *logger.MongoSink
	if uri := config.LogMongoURI(); uri != "" {
		sink, err := logger.DialMongo(ctx, uri, config.LogMongoDatabase(), config.LogMongoCollection(), slog.LevelInfo)
		if err != nil {
			logger.Warn("boot: mongo log sink unavailable", "error", err)
		} else {
			logSink = sink
			logger.Tee(sink.Handler())
		}
	}

	opts := queue.Options{MaxAttempts: config.QueueMaxAttempts(), Backoff: config.QueueBackoff()}
	if config.QueueDriver() == "redis" {
		if cache.Enabled() {
			opts.Driver = queue.NewRedisDriver(cache.RDB)
		} else {
			logger.Warn("boot: QUEUE_DRIVER=redis without redis, using memory")
		}
	}
	queue.Configure(opts)
	queue.UseDB(database.DB)

	publisher.SetDefault(publisher.New(config.KafkaBrokers(), config.KafkaOrderTopic()))
	jobs.Register()

	return func() {
		if err := publisher.Default().Close(); err != nil {
			logger.Warn("boot: close publisher", "error", err)
		}
		if cache.RDB != nil {
			_ = cache.RDB.Close()
		}
		if logSink != nil {
			logSink.Close()
		}
	}, nil
}

// startBackground runs the queue workers and the failed-job retry schedule
// until ctx is cancelled.
func startBackground(ctx context.Context, workers int) {
	queue.StartWorkers(ctx, workers)

	schedule.Every(config.FailedJobRetry()).Name("queue:retry-failed").WithoutOverlapping().Run(func(ctx context.Context) {
		if _, err := queue.RetryFailed(ctx, 100); err != nil {
			logger.Error("schedule: retry failed jobs", "error", err)
		}
	})
	schedule.Start(ctx)
}
