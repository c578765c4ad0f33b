package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrRejectDeliveryCommandIsNotConstructed = errors.New(
	"RejectDeliveryCommand must be created via NewRejectDeliveryCommand constructor",
)

// RejectDeliveryCommand represents a partner declining an offer. The record
// terminates, the order goes back to the dispatch queue, and the partner
// keeps their availability; re-dispatch creates a new record.
type RejectDeliveryCommand struct { //nolint:recvcheck //using for validation
	deliveryID kernel.UUID
	partnerID  kernel.UUID
	reason     string

	guard guard.ConstructorGuard
}

// NewRejectDeliveryCommand creates a command for a partner declining an
// offer. The reason is optional.
func NewRejectDeliveryCommand(deliveryID, partnerID kernel.UUID, reason string) (RejectDeliveryCommand, error) {
	command := RejectDeliveryCommand{
		reason: reason,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setDeliveryID(deliveryID),
		command.setPartnerID(partnerID),
	); err != nil {
		return RejectDeliveryCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c RejectDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrRejectDeliveryCommandIsNotConstructed)
}

// DeliveryID returns the delivery being answered.
func (c RejectDeliveryCommand) DeliveryID() kernel.UUID {
	return c.deliveryID
}

// PartnerID returns the answering partner.
func (c RejectDeliveryCommand) PartnerID() kernel.UUID {
	return c.partnerID
}

// Reason returns the optional rejection note.
func (c RejectDeliveryCommand) Reason() string {
	return c.reason
}

func (c *RejectDeliveryCommand) setDeliveryID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("deliveryID", err)
	}

	c.deliveryID = id
	return nil
}

func (c *RejectDeliveryCommand) setPartnerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("partnerID", err)
	}

	c.partnerID = id
	return nil
}
