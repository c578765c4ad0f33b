package commands

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// SetPartnerAvailabilityCommandHandler toggles a partner's availability.
type SetPartnerAvailabilityCommandHandler struct {
	uowFactory PartnerUoWFactory
	publisher  ports.EventPublisher
}

// NewSetPartnerAvailabilityCommandHandler creates a handler for availability
// toggles.
func NewSetPartnerAvailabilityCommandHandler(
	uowFactory PartnerUoWFactory,
	publisher ports.EventPublisher,
) SetPartnerAvailabilityCommandHandler {
	return SetPartnerAvailabilityCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle processes the availability toggle.
func (h SetPartnerAvailabilityCommandHandler) Handle(ctx context.Context, command SetPartnerAvailabilityCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	p, err := uow.PartnerRepository().Get(ctx, command.PartnerID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return ErrPartnerNotFound
	}
	if err != nil {
		return err
	}

	p.SetAvailability(command.Available())

	if err = uow.PartnerRepository().Update(ctx, p); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.publisher.Publish(ctx, ports.Event{
		Topic: ports.TopicAdmin,
		Name:  "partner.availability_changed",
		At:    time.Now().UTC(),
		Payload: map[string]any{
			"partner_id": p.ID().String(),
			"available":  p.IsAvailable(),
		},
	})

	return nil
}
