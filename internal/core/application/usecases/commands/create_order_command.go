package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/geo"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderCommand mirrors a packed order into the dispatch core, making it
// eligible for assignment. The order ID comes from the upstream system; the
// command carries the customer's coordinates and service tier.
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID          kernel.UUID
	customerLocation geo.Point
	tier             geo.Tier

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to mirror a packed order.
func NewCreateOrderCommand(orderID kernel.UUID, customerLocation geo.Point, tier geo.Tier) (CreateOrderCommand, error) {
	command := CreateOrderCommand{
		tier:  tier,
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setOrderID(orderID),
		command.setCustomerLocation(customerLocation),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// OrderID returns the upstream order identifier.
func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// CustomerLocation returns the delivery address coordinates.
func (c CreateOrderCommand) CustomerLocation() geo.Point {
	return c.customerLocation
}

// Tier returns the customer's service tier.
func (c CreateOrderCommand) Tier() geo.Tier {
	return c.tier
}

func (c *CreateOrderCommand) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.orderID = id
	return nil
}

func (c *CreateOrderCommand) setCustomerLocation(p geo.Point) error {
	if err := p.Validate(); err != nil {
		return err
	}

	c.customerLocation = p
	return nil
}
