// Package jobs provides scheduled background tasks for the dispatch core.
//
// Jobs use github.com/robfig/cron/v3 and are coordinated by JobManager:
//
//	jobManager := jobs.NewJobManager(expireOffersHandler, cfg.OfferTimeout, logger)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Available Jobs
//
// OfferExpiryJob sweeps pending offers every 30 seconds and rejects those
// older than the configured timeout, releasing the partner and returning the
// order to the dispatch pool. The timeout is off by default; without it an
// offer waits for the partner's answer indefinitely.
package jobs
