// Package partnerrepo provides data transfer objects and mapping functions
// for delivery partner persistence.
package partnerrepo

import (
	"encoding/json"
	"time"

	"dispatch/internal/core/domain/model/geo"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/partner"

	"github.com/google/uuid"
)

// PartnerDTO represents the database structure for persisting partner
// aggregates. The location columns are nullable because a partner has no
// position until the first report; the active order references are a small
// JSONB array that is never queried per element.
type PartnerDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name           string    `gorm:"type:varchar(255);not null"`
	Vehicle        string    `gorm:"type:varchar(64);not null"`
	LocationLat    *float64
	LocationLng    *float64
	LocationAt     time.Time
	Available      bool   `gorm:"not null;index"`
	Approved       bool   `gorm:"not null"`
	Active         bool   `gorm:"not null"`
	ActiveOrders   string `gorm:"type:jsonb"`
	Rating         float64
	DeliveredCount int
}

// TableName specifies the database table name for partner entities.
func (PartnerDTO) TableName() string {
	return "partners"
}

// fromDomain converts a partner domain aggregate to its database
// representation.
func fromDomain(aggregate *partner.DeliveryPartner) (PartnerDTO, error) {
	orderIDs := make([]string, 0, len(aggregate.ActiveOrders()))
	for _, id := range aggregate.ActiveOrders() {
		orderIDs = append(orderIDs, id.String())
	}
	rawOrders, err := json.Marshal(orderIDs)
	if err != nil {
		return PartnerDTO{}, err
	}

	dto := PartnerDTO{
		ID:             aggregate.ID().Bytes(),
		Name:           aggregate.Name(),
		Vehicle:        aggregate.Vehicle(),
		LocationAt:     aggregate.LocationAt(),
		Available:      aggregate.IsAvailable(),
		Approved:       aggregate.IsApproved(),
		Active:         aggregate.IsActive(),
		ActiveOrders:   string(rawOrders),
		Rating:         aggregate.Rating(),
		DeliveredCount: aggregate.DeliveredCount(),
	}

	if loc := aggregate.Location(); loc != nil {
		lat, lng := loc.Lat(), loc.Lng()
		dto.LocationLat = &lat
		dto.LocationLng = &lng
	}

	return dto, nil
}

// toDomain converts a database DTO to a partner domain aggregate.
func toDomain(dto PartnerDTO) (*partner.DeliveryPartner, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var location *geo.Point
	if dto.LocationLat != nil && dto.LocationLng != nil {
		point, pointErr := geo.NewPoint(*dto.LocationLat, *dto.LocationLng)
		if pointErr != nil {
			return nil, pointErr
		}
		location = &point
	}

	activeOrders, err := activeOrdersToDomain(dto.ActiveOrders)
	if err != nil {
		return nil, err
	}

	return partner.RestoreDeliveryPartner(
		id,
		dto.Name, dto.Vehicle,
		location,
		dto.LocationAt,
		dto.Available, dto.Approved, dto.Active,
		activeOrders,
		dto.Rating,
		dto.DeliveredCount,
	)
}

func activeOrdersToDomain(raw string) ([]kernel.UUID, error) {
	if raw == "" {
		return nil, nil
	}

	var stored []string
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return nil, err
	}

	orderIDs := make([]kernel.UUID, 0, len(stored))
	for _, s := range stored {
		id, err := kernel.UUIDFromString(s)
		if err != nil {
			return nil, err
		}
		orderIDs = append(orderIDs, id)
	}
	return orderIDs, nil
}
