package commands

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// CompleteDeliveryCommandHandler finishes a delivery on OTP match. The
// record, the partner stats, and the order mirror move together in one
// transaction; a wrong code leaves everything in transit.
type CompleteDeliveryCommandHandler struct {
	uowFactory DispatchUoWFactory
	publisher  ports.EventPublisher
}

// NewCompleteDeliveryCommandHandler creates a handler for drop-off
// confirmations.
func NewCompleteDeliveryCommandHandler(
	uowFactory DispatchUoWFactory,
	publisher ports.EventPublisher,
) CompleteDeliveryCommandHandler {
	return CompleteDeliveryCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle processes the drop-off confirmation.
// Returns delivery.ErrInvalidOtp on a code mismatch; retries are unlimited.
func (h CompleteDeliveryCommandHandler) Handle(ctx context.Context, command CompleteDeliveryCommand) error {
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

	if !record.PartnerID().IsEqual(command.PartnerID()) {
		return delivery.ErrNotOffered
	}

	now := time.Now().UTC()
	if err = record.Complete(command.Otp(), now); err != nil {
		return err
	}

	p, err := uow.PartnerRepository().Get(ctx, record.PartnerID())
	if err != nil {
		return err
	}
	if err = p.RecordCompletedDelivery(record.OrderID()); err != nil {
		return err
	}

	o, err := uow.OrderRepository().Get(ctx, record.OrderID())
	if err != nil {
		return err
	}
	o.MarkDelivered()

	if err = uow.DeliveryRepository().Update(ctx, record); err != nil {
		return err
	}
	if err = uow.PartnerRepository().Update(ctx, p); err != nil {
		return err
	}
	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	payload := map[string]any{
		"delivery_id":    record.ID().String(),
		"order_id":       record.OrderID().String(),
		"partner_id":     record.PartnerID().String(),
		"actual_minutes": record.ActualMinutes(),
		"earnings":       record.Earnings(),
	}
	h.publisher.Publish(ctx, ports.Event{
		Topic:   ports.OrderTopic(record.OrderID().String()),
		Name:    "delivery.delivered",
		At:      now,
		Payload: payload,
	})
	h.publisher.Publish(ctx, ports.Event{
		Topic:   ports.PartnerTopic(record.PartnerID().String()),
		Name:    "delivery.delivered",
		At:      now,
		Payload: payload,
	})
	h.publisher.Publish(ctx, ports.Event{
		Topic:   ports.TopicAdmin,
		Name:    "delivery.delivered",
		At:      now,
		Payload: payload,
	})

	return nil
}
