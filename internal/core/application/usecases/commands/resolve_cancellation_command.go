package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrResolveCancellationCommandIsNotConstructed = errors.New(
	"ResolveCancellationCommand must be created via NewResolveCancellationCommand constructor",
)

// ResolveCancellationCommand represents an admin ruling on a pending
// arbitration case: approve with a partial payout, or reject and send the
// courier back on the road. First decision wins.
type ResolveCancellationCommand struct { //nolint:recvcheck //using for validation
	requestID kernel.UUID
	approve   bool
	payout    float64
	notes     string

	guard guard.ConstructorGuard
}

// NewResolveCancellationCommand creates a command for an arbitration ruling.
// The payout is only meaningful on approval; the aggregates clamp it into
// the allowed range.
func NewResolveCancellationCommand(requestID kernel.UUID, approve bool, payout float64, notes string) (ResolveCancellationCommand, error) {
	command := ResolveCancellationCommand{
		approve: approve,
		payout:  payout,
		notes:   notes,
		guard:   guard.NewConstructorGuard(),
	}

	if err := command.setRequestID(requestID); err != nil {
		return ResolveCancellationCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c ResolveCancellationCommand) Validate() error {
	return c.guard.Validate(ErrResolveCancellationCommandIsNotConstructed)
}

// RequestID returns the arbitration case being ruled on.
func (c ResolveCancellationCommand) RequestID() kernel.UUID {
	return c.requestID
}

// Approve reports whether the ruling grants the cancellation.
func (c ResolveCancellationCommand) Approve() bool {
	return c.approve
}

// Payout returns the partial payout amount for approvals.
func (c ResolveCancellationCommand) Payout() float64 {
	return c.payout
}

// Notes returns the admin's optional note.
func (c ResolveCancellationCommand) Notes() string {
	return c.notes
}

func (c *ResolveCancellationCommand) setRequestID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("requestID", err)
	}

	c.requestID = id
	return nil
}
