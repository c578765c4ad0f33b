package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrRequestCancellationCommandIsNotConstructed = errors.New(
	"RequestCancellationCommand must be created via NewRequestCancellationCommand constructor",
)

// RequestCancellationCommand represents a courier asking to abandon an
// in-transit delivery. The delivery freezes in arbitration until an admin
// rules on it.
type RequestCancellationCommand struct { //nolint:recvcheck //using for validation
	deliveryID kernel.UUID
	partnerID  kernel.UUID
	reason     string

	guard guard.ConstructorGuard
}

// NewRequestCancellationCommand creates a command to open an arbitration
// case. Reason length is enforced by the delivery aggregate.
func NewRequestCancellationCommand(deliveryID, partnerID kernel.UUID, reason string) (RequestCancellationCommand, error) {
	command := RequestCancellationCommand{
		reason: reason,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setDeliveryID(deliveryID),
		command.setPartnerID(partnerID),
	); err != nil {
		return RequestCancellationCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c RequestCancellationCommand) Validate() error {
	return c.guard.Validate(ErrRequestCancellationCommandIsNotConstructed)
}

// DeliveryID returns the delivery under request.
func (c RequestCancellationCommand) DeliveryID() kernel.UUID {
	return c.deliveryID
}

// PartnerID returns the requesting partner.
func (c RequestCancellationCommand) PartnerID() kernel.UUID {
	return c.partnerID
}

// Reason returns the courier's free-text explanation.
func (c RequestCancellationCommand) Reason() string {
	return c.reason
}

func (c *RequestCancellationCommand) setDeliveryID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("deliveryID", err)
	}

	c.deliveryID = id
	return nil
}

func (c *RequestCancellationCommand) setPartnerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("partnerID", err)
	}

	c.partnerID = id
	return nil
}
