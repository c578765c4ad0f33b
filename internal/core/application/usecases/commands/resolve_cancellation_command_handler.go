package commands

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/cancellation"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

var ErrRequestNotFound = errors.New("cancellation request not found")

// ResolveCancellationCommandHandler applies an admin's arbitration ruling.
// Approval cancels the delivery with a partial payout, releases the order
// from the partner, and marks the order cancelled; rejection puts the
// delivery back in transit. The request write is guarded on the pending
// status, so of two racing admins exactly one decision sticks.
type ResolveCancellationCommandHandler struct {
	uowFactory ArbitrationUoWFactory
	publisher  ports.EventPublisher
}

// NewResolveCancellationCommandHandler creates a handler for arbitration
// rulings.
func NewResolveCancellationCommandHandler(
	uowFactory ArbitrationUoWFactory,
	publisher ports.EventPublisher,
) ResolveCancellationCommandHandler {
	return ResolveCancellationCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle processes the arbitration ruling.
// Returns cancellation.ErrAlreadyResolved when a decision already exists,
// including when a concurrent ruling commits first.
func (h ResolveCancellationCommandHandler) Handle(ctx context.Context, command ResolveCancellationCommand) error {
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

	request, err := uow.CancellationRepository().Get(ctx, command.RequestID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return ErrRequestNotFound
	}
	if err != nil {
		return err
	}

	record, err := uow.DeliveryRepository().Get(ctx, request.DeliveryID())
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	eventName := "cancellation.rejected"

	if command.Approve() {
		if err = request.Approve(command.Payout(), command.Notes(), now); err != nil {
			return err
		}
		if err = record.ApproveCancellation(request.Payout()); err != nil {
			return err
		}

		p, perr := uow.PartnerRepository().Get(ctx, record.PartnerID())
		if perr != nil {
			return perr
		}
		if err = p.ReleaseOrder(record.OrderID()); err != nil {
			return err
		}

		o, oerr := uow.OrderRepository().Get(ctx, record.OrderID())
		if oerr != nil {
			return oerr
		}
		o.MarkCancelled()

		if err = uow.PartnerRepository().Update(ctx, p); err != nil {
			return err
		}
		if err = uow.OrderRepository().Update(ctx, o); err != nil {
			return err
		}

		eventName = "cancellation.approved"
	} else {
		if err = request.Reject(command.Notes(), now); err != nil {
			return err
		}
		if err = record.ResumeTransit(); err != nil {
			return err
		}
	}

	if err = uow.CancellationRepository().Update(ctx, request); err != nil {
		if errors.Is(err, errs.ErrVersionConflict) {
			return cancellation.ErrAlreadyResolved
		}
		return err
	}
	if err = uow.DeliveryRepository().Update(ctx, record); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	payload := map[string]any{
		"request_id":  request.ID().String(),
		"delivery_id": record.ID().String(),
		"order_id":    record.OrderID().String(),
		"partner_id":  record.PartnerID().String(),
		"payout":      request.Payout(),
		"notes":       request.AdminNotes(),
	}
	h.publisher.Publish(ctx, ports.Event{
		Topic:   ports.PartnerTopic(record.PartnerID().String()),
		Name:    eventName,
		At:      now,
		Payload: payload,
	})
	h.publisher.Publish(ctx, ports.Event{
		Topic:   ports.OrderTopic(record.OrderID().String()),
		Name:    eventName,
		At:      now,
		Payload: payload,
	})
	h.publisher.Publish(ctx, ports.Event{
		Topic:   ports.TopicAdmin,
		Name:    eventName,
		At:      now,
		Payload: payload,
	})

	return nil
}
