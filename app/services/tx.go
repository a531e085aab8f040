package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shashiranjanraj/shirtshop/app/repositories"
	"github.com/shashiranjanraj/shirtshop/config"
	"github.com/shashiranjanraj/shirtshop/pkg/apperr"
	"github.com/shashiranjanraj/shirtshop/pkg/database"
	"github.com/shashiranjanraj/shirtshop/pkg/logger"
	"github.com/shashiranjanraj/shirtshop/pkg/metrics"
)

// txRunner executes one logical operation as a transaction under the
// request deadline, repeating the whole transaction when it lost a lock or
// uniqueness race.
type txRunner struct {
	repo       *repositories.Repository
	maxRetries int
	timeout    time.Duration
}

func newTxRunner(repo *repositories.Repository) txRunner {
	return txRunner{
		repo:       repo,
		maxRetries: config.CartMaxRetries(),
		timeout:    config.RequestTimeout(),
	}
}

// run returns fn's classified error unchanged; storage errors become Busy
// (contention, deadline) or Internal.
func (r txRunner) run(ctx context.Context, op string, fn func(tx *repositories.Repository) error) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	attempts := r.maxRetries
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = r.repo.WithTx(ctx, fn)
		if err == nil || !database.IsRetryable(err) || ctx.Err() != nil {
			break
		}
		if attempt < attempts {
			metrics.CartRetries.WithLabelValues(op).Inc()
			logger.WithCtx(ctx).Debug("transaction retry", "op", op, "attempt", attempt, "error", err)
		}
	}

	err = classify(ctx, op, err)
	record(op, err)
	return err
}

// read runs fn outside a transaction under the request deadline.
func (r txRunner) read(ctx context.Context, op string, fn func(repo *repositories.Repository) error) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	err := classify(ctx, op, fn(r.repo.WithContext(ctx)))
	record(op, err)
	return err
}

func classify(ctx context.Context, op string, err error) error {
	if err == nil {
		return nil
	}
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, apperr.Wrap(apperr.KindBusy, ErrTimedOut.Message, err))
	}
	if database.IsRetryable(err) {
		return fmt.Errorf("%s: %w", op, apperr.Wrap(apperr.KindBusy, ErrCartBusy.Message, err))
	}
	return fmt.Errorf("%s: %w", op, apperr.Internal(err))
}

func record(op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = apperr.KindOf(err).String()
	}
	metrics.CartOperations.WithLabelValues(op, outcome).Inc()
}
