package ports

import (
	"context"

	"dispatch/internal/core/domain/model/cancellation"
	"dispatch/internal/core/domain/model/kernel"
)

// CancellationRepository defines the persistence contract for arbitration
// cases.
//
// Update writes are guarded on the loaded resolution status, so two admins
// resolving the same case concurrently cannot both win; the loser receives
// errs.ErrVersionConflict.
type CancellationRepository interface {
	// Add persists a newly filed arbitration case.
	Add(ctx context.Context, aggregate *cancellation.Request) error

	// Update persists a resolution using the guarded write described above.
	Update(ctx context.Context, aggregate *cancellation.Request) error

	// Get retrieves an arbitration case by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*cancellation.Request, error)

	// GetPendingByDelivery retrieves the unresolved case for a delivery.
	// Returns errs.ObjectNotFoundError when none is pending.
	GetPendingByDelivery(ctx context.Context, deliveryID kernel.UUID) (*cancellation.Request, error)

	// GetAllPending retrieves all unresolved cases, oldest first.
	GetAllPending(ctx context.Context) ([]*cancellation.Request, error)
}
