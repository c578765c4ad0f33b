package commands

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// RejectDeliveryCommandHandler processes offer rejection. The record
// terminates and the order reverts to packed for re-dispatch. The partner's
// active set never held the order, so it stays untouched.
type RejectDeliveryCommandHandler struct {
	uowFactory DispatchUoWFactory
	publisher  ports.EventPublisher
}

// NewRejectDeliveryCommandHandler creates a handler for offer rejection.
func NewRejectDeliveryCommandHandler(
	uowFactory DispatchUoWFactory,
	publisher ports.EventPublisher,
) RejectDeliveryCommandHandler {
	return RejectDeliveryCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle processes the rejection command.
// Returns delivery.ErrNotOffered for the wrong partner, a stale offer, or
// when a concurrent accept committed first.
func (h RejectDeliveryCommandHandler) Handle(ctx context.Context, command RejectDeliveryCommand) error {
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

	if err = record.RejectOffer(command.PartnerID(), command.Reason()); err != nil {
		return err
	}

	o, err := uow.OrderRepository().Get(ctx, record.OrderID())
	if err != nil {
		return err
	}
	o.RevertToPacked()

	if err = uow.DeliveryRepository().Update(ctx, record); err != nil {
		if errors.Is(err, errs.ErrVersionConflict) {
			return delivery.ErrNotOffered
		}
		return err
	}
	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	now := time.Now().UTC()
	h.publisher.Publish(ctx, ports.Event{
		Topic: ports.TopicAdmin,
		Name:  "delivery.rejected",
		At:    now,
		Payload: map[string]any{
			"delivery_id": record.ID().String(),
			"order_id":    record.OrderID().String(),
			"partner_id":  record.PartnerID().String(),
			"reason":      record.RejectionReason(),
		},
	})

	return nil
}
