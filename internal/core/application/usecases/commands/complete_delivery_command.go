package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var (
	ErrCompleteDeliveryCommandIsNotConstructed = errors.New(
		"CompleteDeliveryCommand must be created via NewCompleteDeliveryCommand constructor",
	)
	ErrOtpIsRequired = errors.New("otp is required")
)

// CompleteDeliveryCommand represents the OTP-confirmed drop-off. The courier
// submits the code the customer reads out; an exact match finishes the
// delivery and computes earnings.
type CompleteDeliveryCommand struct { //nolint:recvcheck //using for validation
	deliveryID kernel.UUID
	partnerID  kernel.UUID
	otp        string

	guard guard.ConstructorGuard
}

// NewCompleteDeliveryCommand creates a command for the drop-off confirmation.
func NewCompleteDeliveryCommand(deliveryID, partnerID kernel.UUID, otp string) (CompleteDeliveryCommand, error) {
	command := CompleteDeliveryCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setDeliveryID(deliveryID),
		command.setPartnerID(partnerID),
		command.setOtp(otp),
	); err != nil {
		return CompleteDeliveryCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c CompleteDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrCompleteDeliveryCommandIsNotConstructed)
}

// DeliveryID returns the delivery being completed.
func (c CompleteDeliveryCommand) DeliveryID() kernel.UUID {
	return c.deliveryID
}

// PartnerID returns the reporting partner.
func (c CompleteDeliveryCommand) PartnerID() kernel.UUID {
	return c.partnerID
}

// Otp returns the submitted confirmation code.
func (c CompleteDeliveryCommand) Otp() string {
	return c.otp
}

func (c *CompleteDeliveryCommand) setDeliveryID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("deliveryID", err)
	}

	c.deliveryID = id
	return nil
}

func (c *CompleteDeliveryCommand) setPartnerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("partnerID", err)
	}

	c.partnerID = id
	return nil
}

func (c *CompleteDeliveryCommand) setOtp(otp string) error {
	if otp == "" {
		return ErrOtpIsRequired
	}

	c.otp = otp
	return nil
}
