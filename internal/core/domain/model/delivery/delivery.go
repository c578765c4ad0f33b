package delivery

import (
	"errors"
	"fmt"
	"math"
	"time"

	"dispatch/internal/core/domain/model/geo"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

const (
	// cancellationReasonMinLen is the minimum free-text length for a
	// courier-initiated cancellation request to be actionable.
	cancellationReasonMinLen = 10

	// MaxCancellationPayout bounds the admin-approved partial payout.
	MaxCancellationPayout = 30.0

	// baseEarning and perKmEarning define the payout for a completed delivery.
	baseEarning  = 10.0
	perKmEarning = 5.0
)

// Domain errors for delivery operations.
var (
	// ErrDeliveryIsNotConstructed is returned when using an improperly initialized Delivery.
	ErrDeliveryIsNotConstructed = errors.New("Delivery must be created via NewDelivery constructor")
	// ErrNotOffered is returned when an offer response arrives from the wrong
	// partner, or after the offer has already moved on. A loser of a
	// concurrent accept race observes this error.
	ErrNotOffered = errors.New("delivery is not offered to this partner")
	// ErrInvalidOtp is returned when the supplied drop-off code does not match.
	// Retries are unlimited; the delivery stays in transit.
	ErrInvalidOtp = errors.New("supplied OTP does not match")
	// ErrReasonTooShort is returned when a cancellation reason carries too
	// little text to be actionable.
	ErrReasonTooShort = errors.New("cancellation reason must be at least 10 characters")
)

// EarningsStatus tracks the payout state of a delivery's earnings.
type EarningsStatus int

const (
	// EarningsNone means no earnings have been computed yet.
	EarningsNone EarningsStatus = iota
	// EarningsPending means the amount is fixed and awaits payout.
	EarningsPending
	// EarningsPaid means the payout ledger settled the amount.
	EarningsPaid
)

// String returns the wire name of the earnings status.
func (s EarningsStatus) String() string {
	switch s {
	case EarningsPending:
		return "pending"
	case EarningsPaid:
		return "paid"
	default:
		return "none"
	}
}

// ParseEarningsStatus resolves a wire name back to its EarningsStatus.
func ParseEarningsStatus(name string) EarningsStatus {
	switch name {
	case "pending":
		return EarningsPending
	case "paid":
		return EarningsPaid
	default:
		return EarningsNone
	}
}

// Breadcrumb is a timestamped coordinate recorded along the courier's route.
type Breadcrumb struct {
	Point geo.Point
	At    time.Time
}

// Delivery is the aggregate root for one courier's fulfillment of one order.
// It owns the lifecycle status, the confirmation OTP, the planned path and
// recorded breadcrumbs, timestamps per stage, and the earnings outcome.
//
// Invariants:
//   - Exactly one non-terminal Delivery exists per order at any time
//     (enforced by the repository; the aggregate carries the status marker
//     the repository guards on)
//   - The OTP is generated once at creation and never changes
//   - The estimated minutes are sampled once at dispatch and never re-sampled
//   - Only the designated partner can answer the offer
type Delivery struct {
	// id uniquely identifies the delivery record
	id kernel.UUID
	// orderID references the order being fulfilled
	orderID kernel.UUID
	// partnerID references the designated courier
	partnerID kernel.UUID
	// hubID names the pickup hub
	hubID string
	// pickup is the hub's coordinates
	pickup geo.Point
	// dropoff is the customer's delivery coordinates
	dropoff geo.Point
	// status is the current lifecycle state
	status Status
	// loadedStatus is the status observed when the aggregate was created or
	// restored. Repositories use it as the compare-and-swap guard so that two
	// concurrent accept calls cannot both win.
	loadedStatus Status
	// otp is the drop-off confirmation code, immutable after creation
	otp Otp
	// estimatedMinutes is the tier-sampled SLA estimate, persisted once
	estimatedMinutes int
	// estimatedArrival is set when the partner accepts (now + estimate)
	estimatedArrival *time.Time
	// distanceKm is the straight-line hub-to-customer distance
	distanceKm float64
	// path is the display polyline from the routing collaborator
	path []geo.Point
	// breadcrumbs are the recorded route points, in arrival order
	breadcrumbs []Breadcrumb
	// stage timestamps, nil until the stage is reached
	createdAt   time.Time
	acceptedAt  *time.Time
	pickedUpAt  *time.Time
	inTransitAt *time.Time
	deliveredAt *time.Time
	// actualMinutes is the elapsed accept-to-delivered duration
	actualMinutes int
	// earnings is the computed or admin-approved payout amount
	earnings float64
	// earningsStatus tracks payout settlement
	earningsStatus EarningsStatus
	// cancellationReason is the courier's free-text reason, if any
	cancellationReason string
	// rejectionReason is the partner's optional offer-rejection note
	rejectionReason string
	// guard ensures the delivery was properly constructed
	guard guard.ConstructorGuard
}

// NewDelivery creates a fresh lifecycle record in PendingAcceptance with a
// newly generated OTP. The estimate in minutes must already be sampled by the
// dispatcher (exactly once per delivery); the path is the display polyline,
// which may be just [pickup, dropoff] when the routing collaborator is down.
func NewDelivery(
	id, orderID, partnerID kernel.UUID,
	hubID string,
	pickup, dropoff geo.Point,
	estimatedMinutes int,
	path []geo.Point,
	now time.Time,
) (*Delivery, error) {
	d := &Delivery{
		status:           PendingAcceptance,
		loadedStatus:     PendingAcceptance,
		otp:              NewOtp(),
		estimatedMinutes: estimatedMinutes,
		createdAt:        now,
		earningsStatus:   EarningsNone,
		guard:            guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		d.setID(id),
		d.setOrderID(orderID),
		d.setPartnerID(partnerID),
		d.setHubID(hubID),
		d.setPickup(pickup),
		d.setDropoff(dropoff),
		d.setEstimatedMinutes(estimatedMinutes),
	); err != nil {
		return nil, err
	}

	d.distanceKm = geo.DistanceKm(pickup, dropoff)
	d.setPath(path)

	return d, nil
}

// RestoreDelivery reconstructs a delivery aggregate from persistence. The
// restored record captures its persisted status as the compare-and-swap
// marker for subsequent guarded updates.
func RestoreDelivery(
	id, orderID, partnerID kernel.UUID,
	hubID string,
	pickup, dropoff geo.Point,
	status Status,
	otp Otp,
	estimatedMinutes int,
	estimatedArrival *time.Time,
	distanceKm float64,
	path []geo.Point,
	breadcrumbs []Breadcrumb,
	createdAt time.Time,
	acceptedAt, pickedUpAt, inTransitAt, deliveredAt *time.Time,
	actualMinutes int,
	earnings float64,
	earningsStatus EarningsStatus,
	cancellationReason, rejectionReason string,
) (*Delivery, error) {
	if err := status.Validate(); err != nil {
		return nil, err
	}
	if err := otp.Validate(); err != nil {
		return nil, err
	}

	d := &Delivery{
		status:             status,
		loadedStatus:       status,
		otp:                otp,
		estimatedMinutes:   estimatedMinutes,
		estimatedArrival:   estimatedArrival,
		distanceKm:         distanceKm,
		createdAt:          createdAt,
		acceptedAt:         acceptedAt,
		pickedUpAt:         pickedUpAt,
		inTransitAt:        inTransitAt,
		deliveredAt:        deliveredAt,
		actualMinutes:      actualMinutes,
		earnings:           earnings,
		earningsStatus:     earningsStatus,
		cancellationReason: cancellationReason,
		rejectionReason:    rejectionReason,
		guard:              guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		d.setID(id),
		d.setOrderID(orderID),
		d.setPartnerID(partnerID),
		d.setHubID(hubID),
		d.setPickup(pickup),
		d.setDropoff(dropoff),
	); err != nil {
		return nil, err
	}

	d.setPath(path)
	d.breadcrumbs = make([]Breadcrumb, len(breadcrumbs))
	copy(d.breadcrumbs, breadcrumbs)

	return d, nil
}

// Validate checks the aggregate was created through a constructor.
func (d *Delivery) Validate() error {
	if d == nil {
		return ErrDeliveryIsNotConstructed
	}
	return d.guard.Validate(ErrDeliveryIsNotConstructed)
}

// IsEqual compares two deliveries by identifier.
func (d *Delivery) IsEqual(other *Delivery) bool {
	return other != nil && d.id.IsEqual(other.id)
}

// ID returns the delivery's unique identifier.
func (d *Delivery) ID() kernel.UUID { return d.id }

// OrderID returns the fulfilled order's identifier.
func (d *Delivery) OrderID() kernel.UUID { return d.orderID }

// PartnerID returns the designated courier's identifier.
func (d *Delivery) PartnerID() kernel.UUID { return d.partnerID }

// HubID returns the pickup hub identifier.
func (d *Delivery) HubID() string { return d.hubID }

// Pickup returns the hub coordinates.
func (d *Delivery) Pickup() geo.Point { return d.pickup }

// Dropoff returns the customer coordinates.
func (d *Delivery) Dropoff() geo.Point { return d.dropoff }

// Status returns the current lifecycle state.
func (d *Delivery) Status() Status { return d.status }

// LoadedStatus returns the status observed at creation or restore time.
// Persistence adapters use it as the guard value for compare-and-swap writes.
func (d *Delivery) LoadedStatus() Status { return d.loadedStatus }

// Otp returns the drop-off confirmation code.
func (d *Delivery) Otp() Otp { return d.otp }

// EstimatedMinutes returns the tier-sampled SLA estimate.
func (d *Delivery) EstimatedMinutes() int { return d.estimatedMinutes }

// EstimatedArrival returns the promised arrival time, nil until accepted.
func (d *Delivery) EstimatedArrival() *time.Time { return cloned(d.estimatedArrival) }

// DistanceKm returns the straight-line hub-to-customer distance.
func (d *Delivery) DistanceKm() float64 { return d.distanceKm }

// Path returns a copy of the display polyline.
func (d *Delivery) Path() []geo.Point {
	out := make([]geo.Point, len(d.path))
	copy(out, d.path)
	return out
}

// Breadcrumbs returns a copy of the recorded route points.
func (d *Delivery) Breadcrumbs() []Breadcrumb {
	out := make([]Breadcrumb, len(d.breadcrumbs))
	copy(out, d.breadcrumbs)
	return out
}

// CreatedAt returns when the record was created.
func (d *Delivery) CreatedAt() time.Time { return d.createdAt }

// AcceptedAt returns when the partner accepted, nil before that.
func (d *Delivery) AcceptedAt() *time.Time { return cloned(d.acceptedAt) }

// PickedUpAt returns when the parcel was collected, nil before that.
func (d *Delivery) PickedUpAt() *time.Time { return cloned(d.pickedUpAt) }

// InTransitAt returns when the courier departed, nil before that.
func (d *Delivery) InTransitAt() *time.Time { return cloned(d.inTransitAt) }

// DeliveredAt returns the drop-off time, nil before completion.
func (d *Delivery) DeliveredAt() *time.Time { return cloned(d.deliveredAt) }

// ActualMinutes returns the elapsed accept-to-delivered duration.
func (d *Delivery) ActualMinutes() int { return d.actualMinutes }

// Earnings returns the computed or approved payout amount.
func (d *Delivery) Earnings() float64 { return d.earnings }

// EarningsStatus returns the payout settlement state.
func (d *Delivery) EarningsStatus() EarningsStatus { return d.earningsStatus }

// CancellationReason returns the courier's free-text reason, if any.
func (d *Delivery) CancellationReason() string { return d.cancellationReason }

// RejectionReason returns the partner's offer-rejection note, if any.
func (d *Delivery) RejectionReason() string { return d.rejectionReason }

// Accept commits the designated partner to the delivery and starts the SLA
// timer: the promised arrival becomes now plus the sampled estimate.
//
// Returns ErrNotOffered when the caller is not the designated partner or the
// offer has already moved on (for example an admin reassigned after a manual
// timeout, or a duplicate accept lost the race).
func (d *Delivery) Accept(partnerID kernel.UUID, now time.Time) error {
	if !d.partnerID.IsEqual(partnerID) {
		return ErrNotOffered
	}
	if d.status != PendingAcceptance {
		return fmt.Errorf("%w: status is %s", ErrNotOffered, d.status)
	}

	next, err := d.status.TransitionTo(Accepted)
	if err != nil {
		return err
	}

	d.status = next
	d.acceptedAt = &now
	arrival := geo.ExpectedArrival(now, d.estimatedMinutes)
	d.estimatedArrival = &arrival
	return nil
}

// RejectOffer declines the offer. Only the designated partner may decline,
// and only while the offer is pending. Rejection is terminal for this record;
// the order reverts to packed so the admin can dispatch a new record to
// another partner. The partner's availability is untouched.
func (d *Delivery) RejectOffer(partnerID kernel.UUID, reason string) error {
	if !d.partnerID.IsEqual(partnerID) {
		return ErrNotOffered
	}
	if d.status != PendingAcceptance {
		return fmt.Errorf("%w: status is %s", ErrNotOffered, d.status)
	}

	next, err := d.status.TransitionTo(Rejected)
	if err != nil {
		return err
	}

	d.status = next
	d.rejectionReason = reason
	return nil
}

// MarkPickedUp records parcel collection at the hub and appends a breadcrumb
// at the pickup point.
func (d *Delivery) MarkPickedUp(now time.Time) error {
	next, err := d.status.TransitionTo(PickedUp)
	if err != nil {
		return err
	}

	d.status = next
	d.pickedUpAt = &now
	d.breadcrumbs = append(d.breadcrumbs, Breadcrumb{Point: d.pickup, At: now})
	return nil
}

// MarkInTransit records departure toward the customer and appends a
// breadcrumb at the pickup point.
func (d *Delivery) MarkInTransit(now time.Time) error {
	next, err := d.status.TransitionTo(InTransit)
	if err != nil {
		return err
	}

	d.status = next
	d.inTransitAt = &now
	d.breadcrumbs = append(d.breadcrumbs, Breadcrumb{Point: d.pickup, At: now})
	return nil
}

// RecordBreadcrumb appends a reported en-route position. Only meaningful
// while the courier is actually moving toward the customer.
func (d *Delivery) RecordBreadcrumb(point geo.Point, at time.Time) error {
	if err := point.Validate(); err != nil {
		return err
	}
	if d.status != InTransit && d.status != CancellationRequested {
		return fmt.Errorf("%w: cannot record breadcrumb in %s", ErrInvalidTransition, d.status)
	}

	d.breadcrumbs = append(d.breadcrumbs, Breadcrumb{Point: point, At: at})
	return nil
}

// ProgressPercent estimates how far along the route the courier is, based on
// the remaining straight-line distance from current to the drop-off point.
// The result is clamped to [0, 100]. Customers poll this denormalized value
// on their order rather than receiving live pushes.
func (d *Delivery) ProgressPercent(current geo.Point) int {
	if d.distanceKm <= 0 {
		return 100
	}

	remaining := geo.DistanceKm(current, d.dropoff)
	percent := int(math.Round((1 - remaining/d.distanceKm) * 100))
	if percent < 0 {
		return 0
	}
	if percent > 100 {
		return 100
	}
	return percent
}

// Complete performs the OTP-confirmed drop-off. Valid only while in transit.
//
// On an exact OTP match the delivery becomes Delivered, the actual elapsed
// duration is recorded, and earnings are computed from the recorded distance
// with payout pending. On a mismatch it returns ErrInvalidOtp and the
// delivery stays in transit; retries are unlimited with no lockout.
func (d *Delivery) Complete(suppliedOtp string, now time.Time) error {
	if d.status != InTransit {
		return fmt.Errorf("%w: cannot complete from %s", ErrInvalidTransition, d.status)
	}
	if !d.otp.Matches(suppliedOtp) {
		return ErrInvalidOtp
	}

	next, err := d.status.TransitionTo(Delivered)
	if err != nil {
		return err
	}

	d.status = next
	d.deliveredAt = &now
	if d.acceptedAt != nil {
		d.actualMinutes = int(math.Round(now.Sub(*d.acceptedAt).Minutes()))
	}
	d.earnings = math.Round((baseEarning+perKmEarning*d.distanceKm)*100) / 100
	d.earningsStatus = EarningsPending
	d.breadcrumbs = append(d.breadcrumbs, Breadcrumb{Point: d.dropoff, At: now})
	return nil
}

// RequestCancellation moves an in-transit delivery into arbitration. The
// reason must carry enough free text to be actionable.
func (d *Delivery) RequestCancellation(reason string) error {
	if len(reason) < cancellationReasonMinLen {
		return ErrReasonTooShort
	}

	next, err := d.status.TransitionTo(CancellationRequested)
	if err != nil {
		return err
	}

	d.status = next
	d.cancellationReason = reason
	return nil
}

// ApproveCancellation finalizes an admin-approved cancellation with a partial
// payout, clamped to [0, MaxCancellationPayout].
func (d *Delivery) ApproveCancellation(payout float64) error {
	next, err := d.status.TransitionTo(Cancelled)
	if err != nil {
		return err
	}

	d.status = next
	d.earnings = clampPayout(payout)
	d.earningsStatus = EarningsPending
	return nil
}

// ResumeTransit puts the delivery back in transit after an admin rejected the
// cancellation request; the courier must continue.
func (d *Delivery) ResumeTransit() error {
	next, err := d.status.TransitionTo(InTransit)
	if err != nil {
		return err
	}

	d.status = next
	return nil
}

func clampPayout(amount float64) float64 {
	if amount < 0 {
		return 0
	}
	if amount > MaxCancellationPayout {
		return MaxCancellationPayout
	}
	return amount
}

func cloned(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

func (d *Delivery) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	d.id = id
	return nil
}

func (d *Delivery) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("orderID", err)
	}
	d.orderID = id
	return nil
}

func (d *Delivery) setPartnerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("partnerID", err)
	}
	d.partnerID = id
	return nil
}

func (d *Delivery) setHubID(hubID string) error {
	if hubID == "" {
		return errs.NewValueIsRequiredError("hubID")
	}
	d.hubID = hubID
	return nil
}

func (d *Delivery) setPickup(p geo.Point) error {
	if err := p.Validate(); err != nil {
		return err
	}
	d.pickup = p
	return nil
}

func (d *Delivery) setDropoff(p geo.Point) error {
	if err := p.Validate(); err != nil {
		return err
	}
	d.dropoff = p
	return nil
}

func (d *Delivery) setEstimatedMinutes(minutes int) error {
	if minutes <= 0 {
		return errs.NewValueIsRequiredError("estimatedMinutes")
	}
	d.estimatedMinutes = minutes
	return nil
}

// setPath stores the display polyline, degrading to the two-point straight
// line when the routing collaborator provided nothing.
func (d *Delivery) setPath(path []geo.Point) {
	if len(path) < 2 {
		d.path = []geo.Point{d.pickup, d.dropoff}
		return
	}
	d.path = make([]geo.Point, len(path))
	copy(d.path, path)
}
