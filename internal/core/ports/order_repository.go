package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for the order mirror.
type OrderRepository interface {
	// Add persists a newly mirrored order.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order mirror, including the
	// denormalized tracking fields.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order mirror by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetAllPacked retrieves all orders eligible for dispatch, oldest first.
	GetAllPacked(ctx context.Context) ([]*order.Order, error)
}
