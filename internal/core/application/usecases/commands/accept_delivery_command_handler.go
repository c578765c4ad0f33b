package commands

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

var (
	ErrDeliveryNotFound = errors.New("delivery not found")
	// ErrDeliveryAlreadyAssigned is returned by assign when the order
	// already carries a live delivery record.
	ErrDeliveryAlreadyAssigned = errors.New("delivery is already assigned")
)

// AcceptDeliveryCommandHandler processes offer acceptance. The write is
// guarded on the pending status, so of two racing accepts exactly one
// commits; the loser observes delivery.ErrNotOffered, the same answer a
// wrong partner gets. Acceptance is also the moment the order enters the
// partner's active set.
type AcceptDeliveryCommandHandler struct {
	uowFactory DispatchUoWFactory
	publisher  ports.EventPublisher
}

// NewAcceptDeliveryCommandHandler creates a handler for offer acceptance.
func NewAcceptDeliveryCommandHandler(
	uowFactory DispatchUoWFactory,
	publisher ports.EventPublisher,
) AcceptDeliveryCommandHandler {
	return AcceptDeliveryCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle processes the acceptance command.
// Returns delivery.ErrNotOffered when the caller is not the designated
// partner or when the guarded write loses a concurrent race.
func (h AcceptDeliveryCommandHandler) Handle(ctx context.Context, command AcceptDeliveryCommand) error {
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

	record, err := uow.DeliveryRepository().Get(ctx, command.DeliveryID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return ErrDeliveryNotFound
	}
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	if err = record.Accept(command.PartnerID(), now); err != nil {
		return err
	}

	p, err := uow.PartnerRepository().Get(ctx, record.PartnerID())
	if err != nil {
		return err
	}
	if err = p.TakeOrder(record.OrderID()); err != nil {
		return err
	}

	if err = uow.DeliveryRepository().Update(ctx, record); err != nil {
		if errors.Is(err, errs.ErrVersionConflict) {
			return delivery.ErrNotOffered
		}
		return err
	}
	if err = uow.PartnerRepository().Update(ctx, p); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	payload := map[string]any{
		"delivery_id":       record.ID().String(),
		"order_id":          record.OrderID().String(),
		"partner_id":        record.PartnerID().String(),
		"estimated_arrival": record.EstimatedArrival().Format(time.RFC3339),
	}
	h.publisher.Publish(ctx, ports.Event{
		Topic:   ports.OrderTopic(record.OrderID().String()),
		Name:    "delivery.accepted",
		At:      now,
		Payload: payload,
	})
	h.publisher.Publish(ctx, ports.Event{
		Topic:   ports.TopicAdmin,
		Name:    "delivery.accepted",
		At:      now,
		Payload: payload,
	})

	return nil
}
