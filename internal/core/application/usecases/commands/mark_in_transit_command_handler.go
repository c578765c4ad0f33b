package commands

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// MarkInTransitCommandHandler advances a picked-up delivery to in transit.
type MarkInTransitCommandHandler struct {
	uowFactory DeliveryUoWFactory
	publisher  ports.EventPublisher
}

// NewMarkInTransitCommandHandler creates a handler for departure reports.
func NewMarkInTransitCommandHandler(
	uowFactory DeliveryUoWFactory,
	publisher ports.EventPublisher,
) MarkInTransitCommandHandler {
	return MarkInTransitCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle processes the departure report.
func (h MarkInTransitCommandHandler) Handle(ctx context.Context, command MarkInTransitCommand) error {
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
	if err = record.MarkInTransit(now); err != nil {
		return err
	}

	if err = uow.DeliveryRepository().Update(ctx, record); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	publishStageChange(ctx, h.publisher, record, "delivery.in_transit", now)

	return nil
}
