package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrMarkInTransitCommandIsNotConstructed = errors.New(
	"MarkInTransitCommand must be created via NewMarkInTransitCommand constructor",
)

// MarkInTransitCommand represents the courier reporting departure toward the
// customer.
type MarkInTransitCommand struct { //nolint:recvcheck //using for validation
	deliveryID kernel.UUID
	partnerID  kernel.UUID

	guard guard.ConstructorGuard
}

// NewMarkInTransitCommand creates a command for the departure report.
func NewMarkInTransitCommand(deliveryID, partnerID kernel.UUID) (MarkInTransitCommand, error) {
	command := MarkInTransitCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setDeliveryID(deliveryID),
		command.setPartnerID(partnerID),
	); err != nil {
		return MarkInTransitCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c MarkInTransitCommand) Validate() error {
	return c.guard.Validate(ErrMarkInTransitCommandIsNotConstructed)
}

// DeliveryID returns the delivery being advanced.
func (c MarkInTransitCommand) DeliveryID() kernel.UUID {
	return c.deliveryID
}

// PartnerID returns the reporting partner.
func (c MarkInTransitCommand) PartnerID() kernel.UUID {
	return c.partnerID
}

func (c *MarkInTransitCommand) setDeliveryID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("deliveryID", err)
	}

	c.deliveryID = id
	return nil
}

func (c *MarkInTransitCommand) setPartnerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("partnerID", err)
	}

	c.partnerID = id
	return nil
}
