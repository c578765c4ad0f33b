package commands

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/cancellation"
	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// RequestCancellationCommandHandler opens an arbitration case: the delivery
// moves to cancellation-requested and a pending request is filed, both in one
// transaction.
type RequestCancellationCommandHandler struct {
	uowFactory ArbitrationUoWFactory
	publisher  ports.EventPublisher
}

// NewRequestCancellationCommandHandler creates a handler for cancellation
// requests.
func NewRequestCancellationCommandHandler(
	uowFactory ArbitrationUoWFactory,
	publisher ports.EventPublisher,
) RequestCancellationCommandHandler {
	return RequestCancellationCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle processes the cancellation request.
// Returns delivery.ErrReasonTooShort for non-actionable reasons and
// delivery.ErrInvalidTransition outside the in-transit stage.
func (h RequestCancellationCommandHandler) Handle(ctx context.Context, command RequestCancellationCommand) error {
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

	if err = record.RequestCancellation(command.Reason()); err != nil {
		return err
	}

	now := time.Now().UTC()
	request, err := cancellation.NewRequest(
		kernel.NewUUID(),
		record.ID(),
		record.PartnerID(),
		command.Reason(),
		now,
	)
	if err != nil {
		return err
	}

	if err = uow.DeliveryRepository().Update(ctx, record); err != nil {
		return err
	}
	if err = uow.CancellationRepository().Add(ctx, request); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.publisher.Publish(ctx, ports.Event{
		Topic: ports.TopicAdmin,
		Name:  "cancellation.requested",
		At:    now,
		Payload: map[string]any{
			"request_id":  request.ID().String(),
			"delivery_id": record.ID().String(),
			"order_id":    record.OrderID().String(),
			"partner_id":  record.PartnerID().String(),
			"reason":      request.Reason(),
		},
	})

	return nil
}
