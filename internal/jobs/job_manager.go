package jobs

import (
	"fmt"
	"log/slog"
	"time"

	"dispatch/internal/core/application/usecases/commands"
)

// JobManager coordinates the scheduled jobs in the application. With no
// offer timeout configured there is nothing to schedule and StartAll is a
// no-op.
type JobManager struct {
	offerExpiryJob *OfferExpiryJob
}

// NewJobManager creates a job manager. offerTimeout <= 0 disables the offer
// expiry sweep.
func NewJobManager(
	expireOffersHandler commands.ExpireStaleOffersCommandHandler,
	offerTimeout time.Duration,
	logger *slog.Logger,
) *JobManager {
	jm := &JobManager{}
	if offerTimeout > 0 {
		jm.offerExpiryJob = NewOfferExpiryJob(expireOffersHandler, offerTimeout, logger)
	}
	return jm
}

// StartAll starts all configured jobs.
func (jm *JobManager) StartAll() error {
	if jm.offerExpiryJob != nil {
		if err := jm.offerExpiryJob.Start(); err != nil {
			return fmt.Errorf("failed to start offer expiry job: %w", err)
		}
	}
	return nil
}

// StopAll stops all configured jobs gracefully.
func (jm *JobManager) StopAll() {
	if jm.offerExpiryJob != nil {
		jm.offerExpiryJob.Stop()
	}
}
