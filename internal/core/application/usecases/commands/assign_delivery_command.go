package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrAssignDeliveryCommandIsNotConstructed = errors.New(
	"AssignDeliveryCommand must be created via NewAssignDeliveryCommand constructor",
)

// AssignDeliveryCommand represents an admin designating a specific partner
// for a specific packed order. Dispatch creates a fresh lifecycle record in
// pending acceptance and offers it to exactly that partner.
//
// Example:
//
//	cmd, err := NewAssignDeliveryCommand(orderID, partnerID)
//	if err != nil {
//	    return err
//	}
//
//	handler := NewAssignDeliveryCommandHandler(uowFactory, routing, publisher)
//	err = handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, order.ErrOrderNotPacked):
//	    // already dispatched or finished
//	case errors.Is(err, services.ErrNoHubInRange):
//	    // address outside the service area
//	}
type AssignDeliveryCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	partnerID kernel.UUID

	guard guard.ConstructorGuard
}

// NewAssignDeliveryCommand creates a command to dispatch an order to a partner.
func NewAssignDeliveryCommand(orderID, partnerID kernel.UUID) (AssignDeliveryCommand, error) {
	command := AssignDeliveryCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setOrderID(orderID),
		command.setPartnerID(partnerID),
	); err != nil {
		return AssignDeliveryCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c AssignDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrAssignDeliveryCommandIsNotConstructed)
}

// OrderID returns the order to dispatch.
func (c AssignDeliveryCommand) OrderID() kernel.UUID {
	return c.orderID
}

// PartnerID returns the designated partner.
func (c AssignDeliveryCommand) PartnerID() kernel.UUID {
	return c.partnerID
}

func (c *AssignDeliveryCommand) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("orderID", err)
	}

	c.orderID = id
	return nil
}

func (c *AssignDeliveryCommand) setPartnerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("partnerID", err)
	}

	c.partnerID = id
	return nil
}
