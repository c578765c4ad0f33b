// Package delivery provides the Delivery aggregate: the lifecycle record
// tracking one courier's fulfillment of one order, from the assignment offer
// through OTP-confirmed drop-off.
//
// The package includes:
//   - Delivery: the aggregate root with timestamps, route data, and earnings
//   - Status: a state machine enforcing the delivery lifecycle
//   - Otp: the fixed-length numeric confirmation code, generated once
//   - Breadcrumb: a timestamped coordinate recorded along the route
//
// Lifecycle:
//
//	PendingAcceptance ──┬──> Accepted ──> PickedUp ──> InTransit ──┬──> Delivered
//	                    │                                  ^       │
//	                    └──> Rejected                      │       └──> CancellationRequested
//	                                                       │                 │        │
//	                                                       └──── (resume) ───┘        └──> Cancelled
//
// Delivered, Cancelled, and Rejected are terminal. Re-dispatch after a
// rejection or cancellation creates a new Delivery record; a terminal record
// is never reused.
package delivery
