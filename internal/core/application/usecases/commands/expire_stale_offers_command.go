package commands

import (
	"errors"
	"time"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrExpireStaleOffersCommandIsNotConstructed = errors.New(
	"ExpireStaleOffersCommand must be created via NewExpireStaleOffersCommand constructor",
)

// ExpireStaleOffersCommand sweeps offers that have waited longer than the
// configured timeout and rejects them on the partner's behalf, returning
// their orders to the dispatch pool.
type ExpireStaleOffersCommand struct { //nolint:recvcheck //using for validation
	olderThan time.Duration
	guard     guard.ConstructorGuard
}

// NewExpireStaleOffersCommand creates a sweep command for offers older than
// the given duration.
func NewExpireStaleOffersCommand(olderThan time.Duration) (ExpireStaleOffersCommand, error) {
	if olderThan <= 0 {
		return ExpireStaleOffersCommand{}, errs.NewValueIsInvalidError("olderThan")
	}

	return ExpireStaleOffersCommand{
		olderThan: olderThan,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// OlderThan returns the age beyond which a pending offer expires.
func (c ExpireStaleOffersCommand) OlderThan() time.Duration {
	return c.olderThan
}

// Validate ensures the command was created through the constructor.
func (c ExpireStaleOffersCommand) Validate() error {
	return c.guard.Validate(ErrExpireStaleOffersCommandIsNotConstructed)
}
