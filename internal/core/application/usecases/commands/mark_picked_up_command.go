package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrMarkPickedUpCommandIsNotConstructed = errors.New(
	"MarkPickedUpCommand must be created via NewMarkPickedUpCommand constructor",
)

// MarkPickedUpCommand represents the courier reporting parcel collection at
// the hub.
type MarkPickedUpCommand struct { //nolint:recvcheck //using for validation
	deliveryID kernel.UUID
	partnerID  kernel.UUID

	guard guard.ConstructorGuard
}

// NewMarkPickedUpCommand creates a command for the pickup report.
func NewMarkPickedUpCommand(deliveryID, partnerID kernel.UUID) (MarkPickedUpCommand, error) {
	command := MarkPickedUpCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setDeliveryID(deliveryID),
		command.setPartnerID(partnerID),
	); err != nil {
		return MarkPickedUpCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c MarkPickedUpCommand) Validate() error {
	return c.guard.Validate(ErrMarkPickedUpCommandIsNotConstructed)
}

// DeliveryID returns the delivery being advanced.
func (c MarkPickedUpCommand) DeliveryID() kernel.UUID {
	return c.deliveryID
}

// PartnerID returns the reporting partner.
func (c MarkPickedUpCommand) PartnerID() kernel.UUID {
	return c.partnerID
}

func (c *MarkPickedUpCommand) setDeliveryID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("deliveryID", err)
	}

	c.deliveryID = id
	return nil
}

func (c *MarkPickedUpCommand) setPartnerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("partnerID", err)
	}

	c.partnerID = id
	return nil
}
