package queries

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"dispatch/internal/core/domain/model/kernel"
)

// GetAvailablePartnersQueryHandler retrieves available partners from the
// database. Uses direct SQL queries for optimal read performance in the CQRS
// pattern.
type GetAvailablePartnersQueryHandler struct {
	db *gorm.DB
}

// NewGetAvailablePartnersQueryHandler creates a handler for available
// partner queries. Requires a GORM database connection for query execution.
func NewGetAvailablePartnersQueryHandler(db *gorm.DB) GetAvailablePartnersQueryHandler {
	return GetAvailablePartnersQueryHandler{db: db}
}

// Handle executes the query to retrieve all available partners.
// Returns partners that are available, approved, and active, best rated
// first.
func (h GetAvailablePartnersQueryHandler) Handle(
	ctx context.Context,
	query GetAvailablePartnersQuery,
) ([]GetAvailablePartnersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	partners := make([]GetAvailablePartnersQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			name,
			vehicle,
			rating,
			delivered_count,
			location_lat,
			location_lng
		FROM partners
		WHERE available AND approved AND active
		ORDER BY rating DESC, name
	`).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var p GetAvailablePartnersQueryResponse
		var id uuid.UUID

		err = rows.Scan(
			&id,
			&p.Name,
			&p.Vehicle,
			&p.Rating,
			&p.DeliveredCount,
			&p.Lat,
			&p.Lng,
		)
		if err != nil {
			return nil, err
		}

		partnerID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		p.ID = partnerID
		partners = append(partners, p)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return partners, nil
}
