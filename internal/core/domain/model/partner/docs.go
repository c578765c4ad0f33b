// Package partner provides the DeliveryPartner aggregate: the courier who
// carries deliveries between hubs and customers.
//
// The aggregate tracks identity, the vehicle descriptor, the most recently
// reported location, availability and approval flags, the set of order
// references currently in flight, the partner's rating, and the lifetime
// delivery count.
//
// Key business rules:
//   - A partner is a dispatch candidate only while available, approved, and active
//   - Location updates are last-write-wins; stale updates are cosmetic, not errors
//   - An order may be held at most once in the active set
//   - A partner with in-flight deliveries is never deleted
package partner
