// Package services provides domain services that orchestrate business
// operations across multiple aggregates of the dispatch core. It implements
// workflows that don't naturally belong to a single aggregate root.
//
// The package includes:
//   - DeliveryDispatcher: A domain service that creates delivery lifecycle
//     records for packed orders and admin-designated partners
//
// Domain services coordinate between aggregates, implementing business logic
// that spans multiple bounded contexts following Domain-Driven Design
// principles.
package services
