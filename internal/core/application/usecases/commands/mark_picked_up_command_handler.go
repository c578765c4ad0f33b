package commands

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// MarkPickedUpCommandHandler advances an accepted delivery to picked up.
type MarkPickedUpCommandHandler struct {
	uowFactory DeliveryUoWFactory
	publisher  ports.EventPublisher
}

// NewMarkPickedUpCommandHandler creates a handler for pickup reports.
func NewMarkPickedUpCommandHandler(
	uowFactory DeliveryUoWFactory,
	publisher ports.EventPublisher,
) MarkPickedUpCommandHandler {
	return MarkPickedUpCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle processes the pickup report.
func (h MarkPickedUpCommandHandler) Handle(ctx context.Context, command MarkPickedUpCommand) error {
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
	if err = record.MarkPickedUp(now); err != nil {
		return err
	}

	if err = uow.DeliveryRepository().Update(ctx, record); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	publishStageChange(ctx, h.publisher, record, "delivery.picked_up", now)

	return nil
}

// publishStageChange fans a lifecycle stage event out to the order's topic
// and the admin topic.
func publishStageChange(
	ctx context.Context,
	publisher ports.EventPublisher,
	record *delivery.Delivery,
	name string,
	now time.Time,
) {
	payload := map[string]any{
		"delivery_id": record.ID().String(),
		"order_id":    record.OrderID().String(),
		"partner_id":  record.PartnerID().String(),
		"status":      record.Status().String(),
	}
	publisher.Publish(ctx, ports.Event{
		Topic:   ports.OrderTopic(record.OrderID().String()),
		Name:    name,
		At:      now,
		Payload: payload,
	})
	publisher.Publish(ctx, ports.Event{
		Topic:   ports.TopicAdmin,
		Name:    name,
		At:      now,
		Payload: payload,
	})
}
