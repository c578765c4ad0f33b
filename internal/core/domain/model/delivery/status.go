package delivery

import (
	"errors"
	"fmt"
)

// ErrInvalidTransition is returned when a lifecycle operation is attempted
// from a state that does not permit it. Callers typically refetch the record
// and retry at the UI layer; the engine never retries on their behalf.
var ErrInvalidTransition = errors.New("invalid delivery status transition")

// Status represents the lifecycle state of a delivery. It implements a state
// machine with defined transitions so that couriers, admins, and customers
// always observe a consistent progression.
//
// State transitions:
//
//	PendingAcceptance -> Accepted | Rejected
//	Accepted          -> PickedUp
//	PickedUp          -> InTransit
//	InTransit         -> Delivered | CancellationRequested
//	CancellationRequested -> Cancelled | InTransit (resume on rejection)
//
// Delivered, Cancelled, and Rejected are terminal.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// PendingAcceptance is the initial status: the offer sits with exactly one
	// designated partner who has not yet responded.
	PendingAcceptance

	// Accepted indicates the partner committed to the delivery; the SLA timer
	// starts here.
	Accepted

	// Rejected indicates the partner declined the offer. Terminal; the order
	// reverts to packed for re-dispatch under a fresh record.
	Rejected

	// PickedUp indicates the partner collected the parcel at the hub.
	PickedUp

	// InTransit indicates the partner is en route to the customer.
	InTransit

	// CancellationRequested indicates the partner asked to abort mid-route and
	// awaits an admin decision.
	CancellationRequested

	// Delivered indicates OTP-confirmed drop-off. Terminal.
	Delivered

	// Cancelled indicates an admin approved a mid-route cancellation. Terminal.
	Cancelled
)

// statusStrings maps every Status to its wire/display name.
var statusStrings = map[Status]string{
	Unknown:               "unknown",
	PendingAcceptance:     "pending_acceptance",
	Accepted:              "accepted",
	Rejected:              "rejected",
	PickedUp:              "picked_up",
	InTransit:             "in_transit",
	CancellationRequested: "cancellation_requested",
	Delivered:             "delivered",
	Cancelled:             "cancelled",
}

// statusTransitions enumerates the permitted next states per state.
// Terminal states have no entries.
var statusTransitions = map[Status][]Status{
	PendingAcceptance:     {Accepted, Rejected},
	Accepted:              {PickedUp},
	PickedUp:              {InTransit},
	InTransit:             {Delivered, CancellationRequested},
	CancellationRequested: {Cancelled, InTransit},
}

// String returns the wire name of the status, or "unknown" for invalid values.
func (s Status) String() string {
	if str, ok := statusStrings[s]; ok {
		return str
	}
	return "unknown"
}

// Validate checks that the Status is one of the defined lifecycle states.
// Used when reconstructing deliveries from persistence.
func (s Status) Validate() error {
	if s == Unknown {
		return fmt.Errorf("%w: %d is not a valid status", ErrInvalidTransition, s)
	}
	if _, ok := statusStrings[s]; !ok {
		return fmt.Errorf("%w: %d is not a valid status", ErrInvalidTransition, s)
	}
	return nil
}

// ParseStatus resolves a wire name back to its Status. Unrecognized names
// yield Unknown, which fails Validate during restore.
func ParseStatus(name string) Status {
	for status, str := range statusStrings {
		if str == name {
			return status
		}
	}
	return Unknown
}

// IsTerminal reports whether no further transitions are possible.
func (s Status) IsTerminal() bool {
	switch s {
	case Delivered, Cancelled, Rejected:
		return true
	default:
		return false
	}
}

// TransitionTo validates the move from s to next and returns next on success.
// Any move not listed in the lifecycle yields ErrInvalidTransition with both
// states named, so a stale client can see exactly which race it lost.
func (s Status) TransitionTo(next Status) (Status, error) {
	for _, allowed := range statusTransitions[s] {
		if next == allowed {
			return next, nil
		}
	}
	return Unknown, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s, next)
}
