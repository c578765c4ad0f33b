// Package cancellation holds the arbitration record for courier-initiated
// cancellation requests. A request is created when a courier asks to abandon
// an in-transit delivery and is resolved exactly once by an admin, either
// approving it with a partial payout or rejecting it.
package cancellation

import (
	"errors"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// maxPayout bounds the admin-approved partial payout amount.
const maxPayout = 30.0

// Domain errors for cancellation arbitration.
var (
	// ErrRequestIsNotConstructed is returned when using an improperly initialized Request.
	ErrRequestIsNotConstructed = errors.New("Request must be created via NewRequest constructor")
	// ErrAlreadyResolved is returned on the second and later resolution
	// attempts. Arbitration is first-decision-wins.
	ErrAlreadyResolved = errors.New("cancellation request is already resolved")
	// ErrReasonIsRequired is returned when the request carries no reason.
	ErrReasonIsRequired = errs.NewValueIsRequiredError("reason")
)

// ResolutionStatus is the arbitration outcome of a cancellation request.
type ResolutionStatus int

const (
	// Pending means no admin has ruled on the request yet.
	Pending ResolutionStatus = iota
	// Approved means the cancellation was granted with a partial payout.
	Approved
	// RequestRejected means the courier must resume the delivery.
	RequestRejected
)

var resolutionStrings = map[ResolutionStatus]string{
	Pending:         "pending",
	Approved:        "approved",
	RequestRejected: "rejected",
}

// String returns the wire name of the resolution status.
func (s ResolutionStatus) String() string {
	if name, ok := resolutionStrings[s]; ok {
		return name
	}
	return "unknown"
}

// ParseResolutionStatus resolves a wire name back to its ResolutionStatus.
func ParseResolutionStatus(name string) ResolutionStatus {
	for status, str := range resolutionStrings {
		if str == name {
			return status
		}
	}
	return Pending
}

// Request is the aggregate root for one arbitration case. It is resolved at
// most once; concurrent admin decisions race on the pending status and only
// one wins.
type Request struct {
	// id uniquely identifies the request
	id kernel.UUID
	// deliveryID references the delivery under arbitration
	deliveryID kernel.UUID
	// partnerID references the requesting courier
	partnerID kernel.UUID
	// reason is the courier's free-text explanation
	reason string
	// status is the arbitration outcome
	status ResolutionStatus
	// loadedStatus is the status at creation or restore time, the
	// compare-and-swap guard for repository writes
	loadedStatus ResolutionStatus
	// payout is the approved partial amount, zero unless approved
	payout float64
	// adminNotes is the resolving admin's optional note
	adminNotes string
	// requestedAt is when the courier filed the request
	requestedAt time.Time
	// resolvedAt is when an admin ruled, nil while pending
	resolvedAt *time.Time
	// guard ensures the request was properly constructed
	guard guard.ConstructorGuard
}

// NewRequest files a pending arbitration case. The reason is assumed to be
// validated by the delivery aggregate before the case is opened.
func NewRequest(id, deliveryID, partnerID kernel.UUID, reason string, now time.Time) (*Request, error) {
	r := &Request{
		status:       Pending,
		loadedStatus: Pending,
		requestedAt:  now,
		guard:        guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		r.setID(id),
		r.setDeliveryID(deliveryID),
		r.setPartnerID(partnerID),
		r.setReason(reason),
	); err != nil {
		return nil, err
	}

	return r, nil
}

// RestoreRequest reconstructs an arbitration case from persistence.
func RestoreRequest(
	id, deliveryID, partnerID kernel.UUID,
	reason string,
	status ResolutionStatus,
	payout float64,
	adminNotes string,
	requestedAt time.Time,
	resolvedAt *time.Time,
) (*Request, error) {
	r := &Request{
		status:       status,
		loadedStatus: status,
		payout:       payout,
		adminNotes:   adminNotes,
		requestedAt:  requestedAt,
		resolvedAt:   resolvedAt,
		guard:        guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		r.setID(id),
		r.setDeliveryID(deliveryID),
		r.setPartnerID(partnerID),
		r.setReason(reason),
	); err != nil {
		return nil, err
	}

	return r, nil
}

// Validate checks the aggregate was created through a constructor.
func (r *Request) Validate() error {
	if r == nil {
		return ErrRequestIsNotConstructed
	}
	return r.guard.Validate(ErrRequestIsNotConstructed)
}

// ID returns the request's unique identifier.
func (r *Request) ID() kernel.UUID { return r.id }

// DeliveryID returns the delivery under arbitration.
func (r *Request) DeliveryID() kernel.UUID { return r.deliveryID }

// PartnerID returns the requesting courier.
func (r *Request) PartnerID() kernel.UUID { return r.partnerID }

// Reason returns the courier's explanation.
func (r *Request) Reason() string { return r.reason }

// Status returns the current arbitration outcome.
func (r *Request) Status() ResolutionStatus { return r.status }

// LoadedStatus returns the status observed at creation or restore time.
func (r *Request) LoadedStatus() ResolutionStatus { return r.loadedStatus }

// Payout returns the approved partial amount.
func (r *Request) Payout() float64 { return r.payout }

// AdminNotes returns the resolving admin's note.
func (r *Request) AdminNotes() string { return r.adminNotes }

// RequestedAt returns when the courier filed the request.
func (r *Request) RequestedAt() time.Time { return r.requestedAt }

// ResolvedAt returns when an admin ruled, nil while pending.
func (r *Request) ResolvedAt() *time.Time {
	if r.resolvedAt == nil {
		return nil
	}
	c := *r.resolvedAt
	return &c
}

// IsResolved reports whether an admin has already ruled.
func (r *Request) IsResolved() bool { return r.status != Pending }

// Approve grants the cancellation with a partial payout, clamped to
// [0, maxPayout]. Returns ErrAlreadyResolved when a decision has already
// been made.
func (r *Request) Approve(payout float64, notes string, now time.Time) error {
	if r.status != Pending {
		return fmt.Errorf("%w: status is %s", ErrAlreadyResolved, r.status)
	}

	r.status = Approved
	r.payout = clampPayout(payout)
	r.adminNotes = notes
	r.resolvedAt = &now
	return nil
}

// Reject denies the cancellation; the courier must resume the delivery.
// Returns ErrAlreadyResolved when a decision has already been made.
func (r *Request) Reject(notes string, now time.Time) error {
	if r.status != Pending {
		return fmt.Errorf("%w: status is %s", ErrAlreadyResolved, r.status)
	}

	r.status = RequestRejected
	r.adminNotes = notes
	r.resolvedAt = &now
	return nil
}

func clampPayout(amount float64) float64 {
	if amount < 0 {
		return 0
	}
	if amount > maxPayout {
		return maxPayout
	}
	return amount
}

func (r *Request) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	r.id = id
	return nil
}

func (r *Request) setDeliveryID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("deliveryID", err)
	}
	r.deliveryID = id
	return nil
}

func (r *Request) setPartnerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("partnerID", err)
	}
	r.partnerID = id
	return nil
}

func (r *Request) setReason(reason string) error {
	if reason == "" {
		return ErrReasonIsRequired
	}
	r.reason = reason
	return nil
}
