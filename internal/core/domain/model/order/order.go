// Package order keeps the dispatch core's view of an order: the fields the
// dispatcher and the lifecycle handlers read and write. The full order record
// lives upstream; this mirror tracks fulfillment status, the customer's
// coordinates, the service tier, and the denormalized tracking fields
// customers poll.
package order

import (
	"errors"
	"fmt"

	"dispatch/internal/core/domain/model/geo"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// Domain errors for the order mirror.
var (
	// ErrOrderIsNotConstructed is returned when using an improperly initialized Order.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")
	// ErrOrderNotPacked is returned when dispatch is attempted against an
	// order that is not sitting packed at a hub.
	ErrOrderNotPacked = errors.New("order is not in packed status")
)

// Status is the fulfillment state of an order as the dispatch core sees it.
type Status int

const (
	// StatusUnknown is the zero value and never valid.
	StatusUnknown Status = iota
	// StatusPacked means the parcel waits at a hub, eligible for dispatch.
	StatusPacked
	// StatusOutForDelivery means a courier holds an active delivery for it.
	StatusOutForDelivery
	// StatusDelivered means the OTP drop-off completed.
	StatusDelivered
	// StatusCancelled means an approved cancellation ended fulfillment.
	StatusCancelled
)

var orderStatusStrings = map[Status]string{
	StatusPacked:         "packed",
	StatusOutForDelivery: "out_for_delivery",
	StatusDelivered:      "delivered",
	StatusCancelled:      "cancelled",
}

// String returns the wire name of the status.
func (s Status) String() string {
	if name, ok := orderStatusStrings[s]; ok {
		return name
	}
	return "unknown"
}

// Validate checks the status is one of the known states.
func (s Status) Validate() error {
	if _, ok := orderStatusStrings[s]; !ok {
		return errs.NewValueIsInvalidError(fmt.Sprintf("order status %d", s))
	}
	return nil
}

// ParseStatus maps a wire name back to a Status.
func ParseStatus(name string) (Status, error) {
	for s, n := range orderStatusStrings {
		if n == name {
			return s, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidError(fmt.Sprintf("order status %q", name))
}

// Order is the local mirror of one order. The dispatch core flips its status
// as the delivery lifecycle advances and denormalizes the live tracking
// fields onto it so customers can poll without joining delivery records.
type Order struct {
	// id matches the upstream order identifier
	id kernel.UUID
	// customerLocation is the delivery address coordinates
	customerLocation geo.Point
	// tier is the customer's service tier, driving the SLA estimate
	tier geo.Tier
	// status is the mirrored fulfillment state
	status Status
	// progressPercent is the denormalized route progress, 0..100
	progressPercent int
	// partnerLocation is the courier's last reported position, nil until
	// the first report
	partnerLocation *geo.Point
	// guard ensures the order was properly constructed
	guard guard.ConstructorGuard
}

// NewOrder mirrors a packed order into the dispatch core.
func NewOrder(id kernel.UUID, customerLocation geo.Point, tier geo.Tier) (*Order, error) {
	o := &Order{
		status: StatusPacked,
		tier:   tier,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setCustomerLocation(customerLocation),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreOrder reconstructs the mirror from persistence.
func RestoreOrder(
	id kernel.UUID,
	customerLocation geo.Point,
	tier geo.Tier,
	status Status,
	progressPercent int,
	partnerLocation *geo.Point,
) (*Order, error) {
	if err := status.Validate(); err != nil {
		return nil, err
	}

	o := &Order{
		status:          status,
		tier:            tier,
		progressPercent: progressPercent,
		partnerLocation: partnerLocation,
		guard:           guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setCustomerLocation(customerLocation),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// Validate checks the aggregate was created through a constructor.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// ID returns the order identifier.
func (o *Order) ID() kernel.UUID { return o.id }

// CustomerLocation returns the delivery address coordinates.
func (o *Order) CustomerLocation() geo.Point { return o.customerLocation }

// Tier returns the customer's service tier.
func (o *Order) Tier() geo.Tier { return o.tier }

// Status returns the mirrored fulfillment state.
func (o *Order) Status() Status { return o.status }

// ProgressPercent returns the denormalized route progress.
func (o *Order) ProgressPercent() int { return o.progressPercent }

// PartnerLocation returns the courier's last reported position, nil until
// the first report.
func (o *Order) PartnerLocation() *geo.Point {
	if o.partnerLocation == nil {
		return nil
	}
	c := *o.partnerLocation
	return &c
}

// IsPacked reports whether the order is eligible for dispatch.
func (o *Order) IsPacked() bool { return o.status == StatusPacked }

// MarkOutForDelivery flips the mirror when a dispatch record is created.
func (o *Order) MarkOutForDelivery() error {
	if o.status != StatusPacked {
		return fmt.Errorf("%w: status is %s", ErrOrderNotPacked, o.status)
	}
	o.status = StatusOutForDelivery
	return nil
}

// RevertToPacked puts the order back on the dispatch queue after the offered
// partner rejected, so the admin can pick another courier.
func (o *Order) RevertToPacked() {
	o.status = StatusPacked
	o.progressPercent = 0
	o.partnerLocation = nil
}

// MarkDelivered records the completed drop-off.
func (o *Order) MarkDelivered() {
	o.status = StatusDelivered
	o.progressPercent = 100
}

// MarkCancelled records an approved cancellation.
func (o *Order) MarkCancelled() {
	o.status = StatusCancelled
}

// TrackProgress denormalizes the courier's position and route progress onto
// the order. Progress is clamped to [0, 100].
func (o *Order) TrackProgress(partnerLocation geo.Point, percent int) error {
	if err := partnerLocation.Validate(); err != nil {
		return err
	}

	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	o.partnerLocation = &partnerLocation
	o.progressPercent = percent
	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setCustomerLocation(p geo.Point) error {
	if err := p.Validate(); err != nil {
		return err
	}
	o.customerLocation = p
	return nil
}
