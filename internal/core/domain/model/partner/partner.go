package partner

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/geo"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// Domain errors for partner operations.
var (
	// ErrNameIsRequired is returned when creating a partner without a name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
	// ErrVehicleIsRequired is returned when creating a partner without a vehicle descriptor.
	ErrVehicleIsRequired = errs.NewValueIsRequiredError("vehicle")
	// ErrPartnerIsNotConstructed is returned when using an improperly initialized DeliveryPartner.
	ErrPartnerIsNotConstructed = errors.New("DeliveryPartner must be created via NewDeliveryPartner constructor")
	// ErrOrderAlreadyHeld is returned when taking an order that is already in the active set.
	ErrOrderAlreadyHeld = errors.New("order is already in the partner's active set")
	// ErrOrderNotHeld is returned when releasing an order the partner does not carry.
	ErrOrderNotHeld = errors.New("order is not in the partner's active set")
)

// DeliveryPartner is the aggregate root for a courier. It owns the partner's
// identity, reported position, availability, and the references to every
// delivery currently in flight.
//
// Invariants:
//   - Valid unique identifier, non-empty name and vehicle descriptor
//   - Each order reference appears in the active set at most once
//   - The lifetime delivery count only grows
//
// The struct uses private fields; all mutation goes through validated methods.
type DeliveryPartner struct {
	// id uniquely identifies the partner
	id kernel.UUID
	// name is the partner's display name
	name string
	// vehicle describes how the partner moves (e.g. "bike", "scooter")
	vehicle string
	// location is the most recently reported position, nil until first report
	location *geo.Point
	// locationAt is when the current location was reported
	locationAt time.Time
	// available is the partner-controlled duty toggle
	available bool
	// approved is set by back-office vetting; unapproved partners never receive offers
	approved bool
	// active distinguishes live accounts from suspended ones
	active bool
	// activeOrders holds the order references currently assigned to the partner
	activeOrders []kernel.UUID
	// rating is the running customer rating, 0 when unrated
	rating float64
	// deliveredCount is the lifetime number of completed deliveries
	deliveredCount int
	// guard ensures the partner was properly constructed
	guard guard.ConstructorGuard
}

// NewDeliveryPartner creates a freshly registered partner. New partners start
// approved and active but unavailable; the partner goes on duty explicitly via
// SetAvailability.
func NewDeliveryPartner(id kernel.UUID, name, vehicle string) (*DeliveryPartner, error) {
	p := &DeliveryPartner{
		approved: true,
		active:   true,
		guard:    guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		p.setID(id),
		p.setName(name),
		p.setVehicle(vehicle),
	); err != nil {
		return nil, err
	}

	return p, nil
}

// RestoreDeliveryPartner reconstructs a partner aggregate from persistent
// storage, including flags, active order references, rating, and counters.
// The restored partner behaves identically to one mutated through normal
// domain operations.
func RestoreDeliveryPartner(
	id kernel.UUID,
	name, vehicle string,
	location *geo.Point,
	locationAt time.Time,
	available, approved, active bool,
	activeOrders []kernel.UUID,
	rating float64,
	deliveredCount int,
) (*DeliveryPartner, error) {
	p := &DeliveryPartner{
		locationAt:     locationAt,
		available:      available,
		approved:       approved,
		active:         active,
		rating:         rating,
		deliveredCount: deliveredCount,
		guard:          guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		p.setID(id),
		p.setName(name),
		p.setVehicle(vehicle),
	); err != nil {
		return nil, err
	}

	if location != nil {
		if err := location.Validate(); err != nil {
			return nil, err
		}
		loc := *location
		p.location = &loc
	}

	p.activeOrders = make([]kernel.UUID, len(activeOrders))
	copy(p.activeOrders, activeOrders)

	return p, nil
}

// Validate checks the aggregate was created through a constructor.
func (p *DeliveryPartner) Validate() error {
	if p == nil {
		return ErrPartnerIsNotConstructed
	}
	return p.guard.Validate(ErrPartnerIsNotConstructed)
}

// IsEqual compares two partners by identifier.
func (p *DeliveryPartner) IsEqual(other *DeliveryPartner) bool {
	return other != nil && p.id.IsEqual(other.id)
}

// ID returns the partner's unique identifier.
func (p *DeliveryPartner) ID() kernel.UUID {
	return p.id
}

// Name returns the partner's display name.
func (p *DeliveryPartner) Name() string {
	return p.name
}

// Vehicle returns the vehicle descriptor.
func (p *DeliveryPartner) Vehicle() string {
	return p.vehicle
}

// Location returns the most recently reported position, or nil before the
// first report.
func (p *DeliveryPartner) Location() *geo.Point {
	if p.location == nil {
		return nil
	}
	loc := *p.location
	return &loc
}

// LocationAt returns when the current location was reported.
func (p *DeliveryPartner) LocationAt() time.Time {
	return p.locationAt
}

// IsAvailable reports the partner-controlled duty flag.
func (p *DeliveryPartner) IsAvailable() bool {
	return p.available
}

// IsApproved reports back-office approval.
func (p *DeliveryPartner) IsApproved() bool {
	return p.approved
}

// IsActive reports whether the account is live.
func (p *DeliveryPartner) IsActive() bool {
	return p.active
}

// Rating returns the running customer rating.
func (p *DeliveryPartner) Rating() float64 {
	return p.rating
}

// DeliveredCount returns the lifetime number of completed deliveries.
func (p *DeliveryPartner) DeliveredCount() int {
	return p.deliveredCount
}

// ActiveOrders returns a copy of the in-flight order references.
func (p *DeliveryPartner) ActiveOrders() []kernel.UUID {
	out := make([]kernel.UUID, len(p.activeOrders))
	copy(out, p.activeOrders)
	return out
}

// HasActiveOrder reports whether the given order is currently held.
func (p *DeliveryPartner) HasActiveOrder(orderID kernel.UUID) bool {
	for _, id := range p.activeOrders {
		if id.IsEqual(orderID) {
			return true
		}
	}
	return false
}

// CanAcceptAssignment reports whether the partner is a valid dispatch
// candidate: on duty, approved, and active.
func (p *DeliveryPartner) CanAcceptAssignment() bool {
	return p.available && p.approved && p.active
}

// SetAvailability toggles the duty flag. Going off duty does not affect
// deliveries already in flight.
func (p *DeliveryPartner) SetAvailability(available bool) {
	p.available = available
}

// UpdateLocation records a reported position. Updates arrive at
// partner-controlled intervals and are last-write-wins: the most recent call
// overwrites whatever was there, with no ordering check against locationAt.
func (p *DeliveryPartner) UpdateLocation(location geo.Point, at time.Time) error {
	if err := location.Validate(); err != nil {
		return err
	}

	p.location = &location
	p.locationAt = at
	return nil
}

// TakeOrder adds an order reference to the active set.
func (p *DeliveryPartner) TakeOrder(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	if p.HasActiveOrder(orderID) {
		return ErrOrderAlreadyHeld
	}

	p.activeOrders = append(p.activeOrders, orderID)
	return nil
}

// ReleaseOrder removes an order reference from the active set without
// crediting a completed delivery. Used for rejections and cancellations.
func (p *DeliveryPartner) ReleaseOrder(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	for i, id := range p.activeOrders {
		if id.IsEqual(orderID) {
			p.activeOrders = append(p.activeOrders[:i], p.activeOrders[i+1:]...)
			return nil
		}
	}
	return ErrOrderNotHeld
}

// RecordCompletedDelivery releases the order and increments the lifetime
// delivery count. Called exactly once per successful OTP-confirmed drop-off.
func (p *DeliveryPartner) RecordCompletedDelivery(orderID kernel.UUID) error {
	if err := p.ReleaseOrder(orderID); err != nil {
		return err
	}

	p.deliveredCount++
	return nil
}

func (p *DeliveryPartner) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	p.id = id
	return nil
}

func (p *DeliveryPartner) setName(name string) error {
	if name == "" {
		return ErrNameIsRequired
	}
	p.name = name
	return nil
}

func (p *DeliveryPartner) setVehicle(vehicle string) error {
	if vehicle == "" {
		return ErrVehicleIsRequired
	}
	p.vehicle = vehicle
	return nil
}
