package jobs

import (
	"context"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/sportportal/portal/internal/jobs"
)

// PaymentExpirer fails abandoned pending payments. transactions.Service
// satisfies it.
type PaymentExpirer interface {
	ExpireStale(ctx context.Context) (int64, error)
}

// ExpirePaymentsJob processes TaskTypeExpirePayments tasks.
type ExpirePaymentsJob struct {
	Payments PaymentExpirer
	Logger   *slog.Logger
	Metrics  *jobmetrics.Metrics
}

// NewExpirePaymentsJob initialises the payment sweep handler.
func NewExpirePaymentsJob(payments PaymentExpirer, logger *slog.Logger, metrics *jobmetrics.Metrics) *ExpirePaymentsJob {
	return &ExpirePaymentsJob{Payments: payments, Logger: logger, Metrics: metrics}
}

// Handle runs one sweep.
func (j *ExpirePaymentsJob) Handle(ctx context.Context, _ *asynq.Task) (err error) {
	if j == nil || j.Payments == nil {
		return errors.New("expire payments: handler not configured")
	}
	metrics := j.Metrics
	if metrics == nil {
		metrics = defaultJobMetrics
	}
	tracker := metrics.Track(TaskTypeExpirePayments)
	defer func() {
		err = tracker.End(err)
	}()

	n, err := j.Payments.ExpireStale(ctx)
	if err != nil {
		return err
	}
	metrics.AddItems(TaskTypeExpirePayments, n)
	logger := j.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("payment sweep finished", slog.String("job", TaskTypeExpirePayments), slog.Int64("expired", n))
	return nil
}
