package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var (
	ErrCreatePartnerCommandIsNotConstructed = errors.New(
		"CreatePartnerCommand must be created via NewCreatePartnerCommand constructor",
	)
	ErrNameIsRequired    = errors.New("name is required")
	ErrVehicleIsRequired = errors.New("vehicle is required")
)

// CreatePartnerCommand represents a request to register a new delivery
// partner. Registered partners start approved and active but unavailable;
// they toggle availability themselves when ready to ride.
//
// Example:
//
//	cmd, err := NewCreatePartnerCommand("Ravi Kumar", "bike")
//	if err != nil {
//	    return fmt.Errorf("invalid partner data: %w", err)
//	}
//
//	handler := NewCreatePartnerCommandHandler(uowFactory)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to create partner: %w", err)
//	}
//	fmt.Printf("Created partner with ID: %s", cmd.PartnerID())
type CreatePartnerCommand struct { //nolint:recvcheck //using for validation
	partnerID kernel.UUID
	name      string
	vehicle   string

	guard guard.ConstructorGuard
}

// NewCreatePartnerCommand creates a command to register a new partner.
// Automatically generates a unique ID for the partner.
func NewCreatePartnerCommand(name, vehicle string) (CreatePartnerCommand, error) {
	command := CreatePartnerCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setPartnerID(kernel.NewUUID()),
		command.setName(name),
		command.setVehicle(vehicle),
	); err != nil {
		return CreatePartnerCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c CreatePartnerCommand) Validate() error {
	return c.guard.Validate(ErrCreatePartnerCommandIsNotConstructed)
}

// PartnerID returns the generated partner ID.
func (c CreatePartnerCommand) PartnerID() kernel.UUID {
	return c.partnerID
}

// Name returns the partner name from the command.
func (c CreatePartnerCommand) Name() string {
	return c.name
}

// Vehicle returns the partner vehicle from the command.
func (c CreatePartnerCommand) Vehicle() string {
	return c.vehicle
}

func (c *CreatePartnerCommand) setPartnerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.partnerID = id
	return nil
}

func (c *CreatePartnerCommand) setName(name string) error {
	if name == "" {
		return ErrNameIsRequired
	}

	c.name = name
	return nil
}

func (c *CreatePartnerCommand) setVehicle(vehicle string) error {
	if vehicle == "" {
		return ErrVehicleIsRequired
	}

	c.vehicle = vehicle
	return nil
}
