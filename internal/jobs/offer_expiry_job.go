package jobs

import (
	"context"
	"log/slog"
	"time"

	"dispatch/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// OfferExpiryJob periodically sweeps offers that have waited too long for
// the partner's answer and returns their orders to the dispatch pool.
// Runs every 30 seconds; the timeout itself comes from configuration and the
// job is not scheduled at all when the timeout is unset.
type OfferExpiryJob struct {
	handler commands.ExpireStaleOffersCommandHandler
	timeout time.Duration
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewOfferExpiryJob creates a sweep job expiring offers older than timeout.
func NewOfferExpiryJob(
	handler commands.ExpireStaleOffersCommandHandler,
	timeout time.Duration,
	logger *slog.Logger,
) *OfferExpiryJob {
	return &OfferExpiryJob{
		handler: handler,
		timeout: timeout,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "offer_expiry_job"),
	}
}

// Start begins the offer expiry sweep, running every 30 seconds.
func (j *OfferExpiryJob) Start() error {
	_, err := j.cron.AddFunc("*/30 * * * * *", func() {
		ctx := context.Background()

		cmd, err := commands.NewExpireStaleOffersCommand(j.timeout)
		if err != nil {
			j.logger.ErrorContext(ctx, "Offer expiry job misconfigured", "error", err)
			return
		}

		if err := j.handler.Handle(ctx, cmd); err != nil {
			j.logger.ErrorContext(ctx, "Offer expiry job failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Offer expiry job started",
		"timeout", j.timeout.String())
	return nil
}

// Stop stops the offer expiry job.
func (j *OfferExpiryJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Offer expiry job stopped")
}
