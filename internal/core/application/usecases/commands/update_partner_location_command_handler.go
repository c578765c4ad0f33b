package commands

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// UpdatePartnerLocationCommandHandler applies a courier's position report.
// Beyond the partner record itself, every in-transit delivery of the courier
// gains a breadcrumb, and its order mirror receives the reported position
// plus the recomputed route progress.
type UpdatePartnerLocationCommandHandler struct {
	uowFactory DispatchUoWFactory
	publisher  ports.EventPublisher
}

// NewUpdatePartnerLocationCommandHandler creates a handler for position
// reports.
func NewUpdatePartnerLocationCommandHandler(
	uowFactory DispatchUoWFactory,
	publisher ports.EventPublisher,
) UpdatePartnerLocationCommandHandler {
	return UpdatePartnerLocationCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle processes the position report.
func (h UpdatePartnerLocationCommandHandler) Handle(ctx context.Context, command UpdatePartnerLocationCommand) error {
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

	now := time.Now().UTC()
	if err = p.UpdateLocation(command.Location(), now); err != nil {
		return err
	}
	if err = uow.PartnerRepository().Update(ctx, p); err != nil {
		return err
	}

	active, err := uow.DeliveryRepository().GetActiveByPartner(ctx, p.ID())
	if err != nil {
		return err
	}

	tracked := make([]*delivery.Delivery, 0, len(active))
	for _, record := range active {
		if record.Status() != delivery.InTransit {
			continue
		}

		if err = record.RecordBreadcrumb(command.Location(), now); err != nil {
			return err
		}

		o, oerr := uow.OrderRepository().Get(ctx, record.OrderID())
		if oerr != nil {
			return oerr
		}
		if err = o.TrackProgress(command.Location(), record.ProgressPercent(command.Location())); err != nil {
			return err
		}

		if err = uow.DeliveryRepository().Update(ctx, record); err != nil {
			return err
		}
		if err = uow.OrderRepository().Update(ctx, o); err != nil {
			return err
		}

		tracked = append(tracked, record)
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.publisher.Publish(ctx, ports.Event{
		Topic: ports.TopicAdmin,
		Name:  "partner.location_updated",
		At:    now,
		Payload: map[string]any{
			"partner_id": p.ID().String(),
			"lat":        command.Location().Lat(),
			"lng":        command.Location().Lng(),
		},
	})

	for _, record := range tracked {
		h.publisher.Publish(ctx, ports.Event{
			Topic: ports.OrderTopic(record.OrderID().String()),
			Name:  "partner.location_updated",
			At:    now,
			Payload: map[string]any{
				"delivery_id":      record.ID().String(),
				"partner_id":       p.ID().String(),
				"lat":              command.Location().Lat(),
				"lng":              command.Location().Lng(),
				"progress_percent": record.ProgressPercent(command.Location()),
			},
		})
	}

	return nil
}
