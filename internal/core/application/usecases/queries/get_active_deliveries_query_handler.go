package queries

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
)

// GetActiveDeliveriesQueryHandler retrieves non-terminal deliveries from the
// database.
type GetActiveDeliveriesQueryHandler struct {
	db *gorm.DB
}

// NewGetActiveDeliveriesQueryHandler creates a handler for the live fleet
// view. Requires a GORM database connection for query execution.
func NewGetActiveDeliveriesQueryHandler(db *gorm.DB) GetActiveDeliveriesQueryHandler {
	return GetActiveDeliveriesQueryHandler{db: db}
}

// Handle executes the query to retrieve all active deliveries.
// Excludes delivered, cancelled, and rejected records; oldest first.
func (h GetActiveDeliveriesQueryHandler) Handle(
	ctx context.Context,
	query GetActiveDeliveriesQuery,
) ([]GetActiveDeliveriesQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	deliveries := make([]GetActiveDeliveriesQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			order_id,
			partner_id,
			hub_id,
			status,
			estimated_minutes,
			estimated_arrival,
			created_at
		FROM deliveries
		WHERE status NOT IN (?, ?, ?)
		ORDER BY created_at
	`, delivery.Delivered.String(), delivery.Cancelled.String(), delivery.Rejected.String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var d GetActiveDeliveriesQueryResponse
		var id, orderID, partnerID uuid.UUID

		err = rows.Scan(
			&id,
			&orderID,
			&partnerID,
			&d.HubID,
			&d.Status,
			&d.EstimatedMinutes,
			&d.EstimatedArrival,
			&d.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		if d.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if d.OrderID, err = kernel.UUIDFromBytes(orderID[:]); err != nil {
			return nil, err
		}
		if d.PartnerID, err = kernel.UUIDFromBytes(partnerID[:]); err != nil {
			return nil, err
		}

		deliveries = append(deliveries, d)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return deliveries, nil
}
