package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// offerExpiredReason is recorded on records the sweep rejects.
const offerExpiredReason = "offer expired"

// ExpireStaleOffersCommandHandler processes the periodic offer sweep. Each
// stale record gets its own transaction so one conflict does not abort the
// whole pass: a partner accepting concurrently simply wins that record.
type ExpireStaleOffersCommandHandler struct {
	uowFactory DispatchUoWFactory
	publisher  ports.EventPublisher
}

// NewExpireStaleOffersCommandHandler creates a handler for the offer sweep.
func NewExpireStaleOffersCommandHandler(
	uowFactory DispatchUoWFactory,
	publisher ports.EventPublisher,
) ExpireStaleOffersCommandHandler {
	return ExpireStaleOffersCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle expires every offer older than the command's cutoff.
func (h ExpireStaleOffersCommandHandler) Handle(ctx context.Context, command ExpireStaleOffersCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	pending, err := h.uowFactory.Create().DeliveryRepository().GetAllPendingAcceptance(ctx)
	if err != nil {
		return err
	}

	cutoff := time.Now().UTC().Add(-command.OlderThan())
	for _, record := range pending {
		if record.CreatedAt().After(cutoff) {
			continue
		}

		if err := h.expire(ctx, record); err != nil {
			if errors.Is(err, errs.ErrVersionConflict) {
				continue
			}
			return err
		}
	}

	return nil
}

// expire rejects one stale offer in its own transaction.
func (h ExpireStaleOffersCommandHandler) expire(ctx context.Context, stale *delivery.Delivery) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	// Reload inside the transaction; the listing snapshot may be stale.
	record, err := uow.DeliveryRepository().Get(ctx, stale.ID())
	if err != nil {
		return err
	}

	if err = record.RejectOffer(record.PartnerID(), offerExpiredReason); err != nil {
		// Already answered between the listing and now.
		slog.DebugContext(ctx, "skipping already answered offer", "delivery_id", record.ID().String())
		return nil
	}

	o, err := uow.OrderRepository().Get(ctx, record.OrderID())
	if err != nil {
		return err
	}
	o.RevertToPacked()

	if err = uow.DeliveryRepository().Update(ctx, record); err != nil {
		return err
	}
	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	now := time.Now().UTC()
	payload := map[string]any{
		"delivery_id": record.ID().String(),
		"order_id":    record.OrderID().String(),
		"partner_id":  record.PartnerID().String(),
	}
	h.publisher.Publish(ctx, ports.Event{
		Topic:   ports.PartnerTopic(record.PartnerID().String()),
		Name:    "delivery.offer_expired",
		At:      now,
		Payload: payload,
	})
	h.publisher.Publish(ctx, ports.Event{
		Topic:   ports.TopicAdmin,
		Name:    "delivery.offer_expired",
		At:      now,
		Payload: payload,
	})

	return nil
}
