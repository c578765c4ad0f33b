// Package ports defines the contracts between the dispatch core and its
// infrastructure: repositories, the unit of work, the routing collaborator,
// the event publisher, and the token verifier. These interfaces enable
// dependency inversion and testability.
package ports

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
)

// ErrActiveDeliveryExists is returned by Add when the order already carries
// a non-terminal delivery record.
var ErrActiveDeliveryExists = errors.New("order already has an active delivery")

// DeliveryRepository defines the persistence contract for delivery lifecycle
// records.
//
// Update writes are guarded: the row is matched on both the identifier and
// the status the aggregate was loaded with, so two handlers racing on the
// same record cannot both win. The loser receives errs.ErrVersionConflict.
type DeliveryRepository interface {
	// Add persists a new delivery record.
	// Returns ErrActiveDeliveryExists when a non-terminal record already
	// exists for the same order, keeping at most one live delivery per order.
	Add(ctx context.Context, aggregate *delivery.Delivery) error

	// Update persists changes to an existing record using the guarded write
	// described above.
	Update(ctx context.Context, aggregate *delivery.Delivery) error

	// Get retrieves a delivery record by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*delivery.Delivery, error)

	// GetActiveByOrder retrieves the non-terminal record for an order.
	// Returns errs.ObjectNotFoundError when the order has no live delivery.
	GetActiveByOrder(ctx context.Context, orderID kernel.UUID) (*delivery.Delivery, error)

	// GetActiveByPartner retrieves all non-terminal records assigned to a
	// partner, newest first.
	GetActiveByPartner(ctx context.Context, partnerID kernel.UUID) ([]*delivery.Delivery, error)

	// GetAllPendingAcceptance retrieves all records still waiting for the
	// partner's answer, oldest first.
	GetAllPendingAcceptance(ctx context.Context) ([]*delivery.Delivery, error)
}
