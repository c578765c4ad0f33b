package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/geo"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrUpdatePartnerLocationCommandIsNotConstructed = errors.New(
	"UpdatePartnerLocationCommand must be created via NewUpdatePartnerLocationCommand constructor",
)

// UpdatePartnerLocationCommand represents a courier's periodic position
// report. The partner record is last-write-wins; in-transit deliveries gain
// a breadcrumb and their orders get the denormalized tracking fields
// customers poll.
type UpdatePartnerLocationCommand struct { //nolint:recvcheck //using for validation
	partnerID kernel.UUID
	location  geo.Point

	guard guard.ConstructorGuard
}

// NewUpdatePartnerLocationCommand creates a command for a position report.
func NewUpdatePartnerLocationCommand(partnerID kernel.UUID, location geo.Point) (UpdatePartnerLocationCommand, error) {
	command := UpdatePartnerLocationCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setPartnerID(partnerID),
		command.setLocation(location),
	); err != nil {
		return UpdatePartnerLocationCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c UpdatePartnerLocationCommand) Validate() error {
	return c.guard.Validate(ErrUpdatePartnerLocationCommandIsNotConstructed)
}

// PartnerID returns the reporting partner.
func (c UpdatePartnerLocationCommand) PartnerID() kernel.UUID {
	return c.partnerID
}

// Location returns the reported position.
func (c UpdatePartnerLocationCommand) Location() geo.Point {
	return c.location
}

func (c *UpdatePartnerLocationCommand) setPartnerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("partnerID", err)
	}

	c.partnerID = id
	return nil
}

func (c *UpdatePartnerLocationCommand) setLocation(p geo.Point) error {
	if err := p.Validate(); err != nil {
		return err
	}

	c.location = p
	return nil
}
