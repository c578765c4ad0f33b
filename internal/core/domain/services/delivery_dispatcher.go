package services

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/geo"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/partner"
)

// ErrPartnerUnavailable is returned when the designated partner cannot take
// an assignment: toggled unavailable, not approved, or deactivated.
var ErrPartnerUnavailable = errors.New("partner is not available for assignment")

// ErrNoHubInRange is returned when no pickup hub lies within serviceable
// range of the customer's address. The order stays packed.
var ErrNoHubInRange = errors.New("no hub within serviceable range of the delivery address")

// DeliveryDispatcher is a domain service responsible for turning a packed
// order plus an admin-designated partner into a fresh delivery lifecycle
// record.
//
// Key responsibilities:
//   - Validating the order is eligible for dispatch
//   - Validating the partner can accept the assignment
//   - Selecting the pickup hub nearest to the customer
//   - Sampling the tier-based delivery estimate exactly once
//   - Creating the pending-acceptance record with a fresh OTP
//
// Business rules:
//   - Only packed orders are dispatchable
//   - The partner must be available, approved, and active
//   - Hub selection is nearest-first within the serviceable range
//   - The estimate and OTP are fixed at creation and never regenerated
//
// Example usage:
//
//	dispatcher := NewDeliveryDispatcher()
//	d, err := dispatcher.Dispatch(packedOrder, chosenPartner, geo.DefaultHubs(), path, time.Now())
//	if errors.Is(err, ErrNoHubInRange) {
//	    // Address is outside the service area
//	    return
//	}
type DeliveryDispatcher struct{}

// NewDeliveryDispatcher creates a new DeliveryDispatcher instance.
func NewDeliveryDispatcher() DeliveryDispatcher {
	return DeliveryDispatcher{}
}

// Dispatch creates the delivery record for an order/partner pair and flips
// the order to out-for-delivery. The partner's active set is untouched until
// the offer is accepted.
//
// Parameters:
//   - o: The packed order to fulfill
//   - p: The admin-designated courier
//   - hubs: The hub network to pick the pickup point from
//   - path: The display polyline from the routing collaborator; may be nil,
//     in which case the record degrades to a straight pickup-to-drop-off line
//   - now: The dispatch timestamp
//
// Returns:
//   - *delivery.Delivery: The pending-acceptance record offered to the partner
//   - error: ErrOrderNotPacked, ErrPartnerUnavailable, ErrNoHubInRange, or
//     validation errors from the aggregates involved
func (d DeliveryDispatcher) Dispatch(
	o *order.Order,
	p *partner.DeliveryPartner,
	hubs []geo.Hub,
	path []geo.Point,
	now time.Time,
) (*delivery.Delivery, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	if !o.IsPacked() {
		return nil, order.ErrOrderNotPacked
	}
	if !p.CanAcceptAssignment() {
		return nil, ErrPartnerUnavailable
	}

	hub, ok := geo.NearestHub(o.CustomerLocation(), hubs)
	if !ok {
		return nil, ErrNoHubInRange
	}

	estimate := geo.SampleDeliveryMinutes(o.Tier())

	record, err := delivery.NewDelivery(
		kernel.NewUUID(),
		o.ID(),
		p.ID(),
		hub.ID,
		hub.Location,
		o.CustomerLocation(),
		estimate,
		path,
		now,
	)
	if err != nil {
		return nil, err
	}

	if err = o.MarkOutForDelivery(); err != nil {
		return nil, err
	}

	return record, nil
}
