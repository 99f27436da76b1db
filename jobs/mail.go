package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/sportportal/portal/internal/jobs"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

// Delivery hands a rendered mail to a transport.
type Delivery interface {
	Deliver(ctx context.Context, from string, payload SendEmailPayload) error
}

// LogDelivery writes mails to the log instead of an SMTP relay.
type LogDelivery struct {
	Logger *slog.Logger
}

// Deliver implements Delivery.
func (d LogDelivery) Deliver(ctx context.Context, from string, payload SendEmailPayload) error {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "mail delivered",
		slog.String("from", from),
		slog.String("to", payload.To),
		slog.String("subject", payload.Subject),
		slog.Int("body_bytes", len(payload.Body)),
	)
	return nil
}

// MailJob processes TaskTypeSendEmail tasks.
type MailJob struct {
	From     string
	Delivery Delivery
	Logger   *slog.Logger
	Metrics  *jobmetrics.Metrics
}

// NewMailJob initialises the mail handler. A nil delivery logs mails.
func NewMailJob(from string, delivery Delivery, logger *slog.Logger, metrics *jobmetrics.Metrics) *MailJob {
	if delivery == nil {
		delivery = LogDelivery{Logger: logger}
	}
	return &MailJob{From: from, Delivery: delivery, Logger: logger, Metrics: metrics}
}

// Handle delivers one mail. Malformed payloads are never retried.
func (j *MailJob) Handle(ctx context.Context, t *asynq.Task) (err error) {
	if j == nil || j.Delivery == nil {
		return errors.New("mail: handler not configured")
	}
	var payload SendEmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		j.logger().Warn("discard malformed mail", slog.Any("error", err))
		return fmt.Errorf("mail: decode payload: %w", asynq.SkipRetry)
	}
	if strings.TrimSpace(payload.To) == "" {
		return fmt.Errorf("mail: empty recipient: %w", asynq.SkipRetry)
	}

	tracker := j.metrics().Track(TaskTypeSendEmail)
	defer func() {
		err = tracker.End(err)
	}()

	if err := j.Delivery.Deliver(ctx, j.From, payload); err != nil {
		j.logger().Error("mail delivery failed", slog.String("to", payload.To), slog.Any("error", err))
		return err
	}
	j.metrics().AddItems(TaskTypeSendEmail, 1)
	return nil
}

func (j *MailJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskTypeSendEmail))
	}
	return slog.Default().With(slog.String("job", TaskTypeSendEmail))
}

func (j *MailJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}
