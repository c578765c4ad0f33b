package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"dispatch/internal/core/domain/model/geo"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

var (
	ErrOrderNotFound   = errors.New("order not found")
	ErrPartnerNotFound = errors.New("partner not found")
)

// AssignDeliveryCommandHandler orchestrates dispatch: loads the order and the
// designated partner, plans the display route, and asks the domain dispatcher
// to create the pending-acceptance record. The record and the order mirror
// commit in a single transaction; the offer event fans out only after commit.
// The partner is validated here but untouched until acceptance.
//
// Routing degradation: when the routing collaborator fails, the record falls
// back to a straight pickup-to-drop-off line and dispatch proceeds.
type AssignDeliveryCommandHandler struct {
	uowFactory DispatchUoWFactory
	routing    ports.RoutingClient
	publisher  ports.EventPublisher
	hubs       []geo.Hub
}

// NewAssignDeliveryCommandHandler creates a handler for dispatch operations.
func NewAssignDeliveryCommandHandler(
	uowFactory DispatchUoWFactory,
	routing ports.RoutingClient,
	publisher ports.EventPublisher,
	hubs []geo.Hub,
) AssignDeliveryCommandHandler {
	return AssignDeliveryCommandHandler{
		uowFactory: uowFactory,
		routing:    routing,
		publisher:  publisher,
		hubs:       hubs,
	}
}

// Handle processes the dispatch command.
// Returns ErrOrderNotFound or ErrPartnerNotFound for missing aggregates,
// ErrDeliveryAlreadyAssigned when the order already carries a live record,
// and passes through the domain errors for ineligible orders and partners.
func (h AssignDeliveryCommandHandler) Handle(ctx context.Context, command AssignDeliveryCommand) error {
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

	o, err := uow.OrderRepository().Get(ctx, command.OrderID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return ErrOrderNotFound
	}
	if err != nil {
		return err
	}

	p, err := uow.PartnerRepository().Get(ctx, command.PartnerID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return ErrPartnerNotFound
	}
	if err != nil {
		return err
	}

	path := h.planRoute(ctx, o.CustomerLocation())

	now := time.Now().UTC()
	record, err := services.NewDeliveryDispatcher().Dispatch(o, p, h.hubs, path, now)
	if err != nil {
		return err
	}

	if err = uow.DeliveryRepository().Add(ctx, record); err != nil {
		if errors.Is(err, ports.ErrActiveDeliveryExists) {
			return ErrDeliveryAlreadyAssigned
		}
		return err
	}
	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	payload := map[string]any{
		"delivery_id":       record.ID().String(),
		"order_id":          record.OrderID().String(),
		"partner_id":        record.PartnerID().String(),
		"hub_id":            record.HubID(),
		"estimated_minutes": record.EstimatedMinutes(),
	}
	h.publisher.Publish(ctx, ports.Event{
		Topic:   ports.PartnerTopic(record.PartnerID().String()),
		Name:    "delivery.offered",
		At:      now,
		Payload: payload,
	})
	h.publisher.Publish(ctx, ports.Event{
		Topic:   ports.TopicAdmin,
		Name:    "delivery.offered",
		At:      now,
		Payload: payload,
	})

	return nil
}

// planRoute asks the routing collaborator for the display polyline. A nil
// result makes the record degrade to a straight line.
func (h AssignDeliveryCommandHandler) planRoute(ctx context.Context, dropoff geo.Point) []geo.Point {
	hub, ok := geo.NearestHub(dropoff, h.hubs)
	if !ok {
		return nil
	}

	path, err := h.routing.PlanRoute(ctx, hub.Location, dropoff)
	if err != nil {
		slog.WarnContext(ctx, "route planning failed, falling back to straight line",
			slog.String("hub_id", hub.ID),
			slog.Any("error", err))
		return nil
	}

	return path
}
