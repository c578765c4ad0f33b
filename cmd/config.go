package cmd

import "time"

// Config carries all runtime settings. Values come from the environment;
// see cmd/app/main.go for the variable names.
type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	// RoutingBaseURL points at the route-planning collaborator. Dispatch
	// degrades to straight-line paths when it is empty or unreachable.
	RoutingBaseURL string

	// KafkaBrokers is a comma-separated broker list. Empty disables the
	// Kafka event mirror; in-process broadcast still runs.
	KafkaBrokers string
	KafkaTopic   string

	AdminToken  string
	ScopeSecret string

	// OfferTimeout bounds how long an offer may sit unanswered before the
	// expiry sweep reverts it. Zero disables the sweep.
	OfferTimeout time.Duration
}
