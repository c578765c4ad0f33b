// Package orderrepo provides data transfer objects and mapping functions for
// the order mirror. The mirror denormalizes live tracking fields so customer
// reads never join delivery records.
package orderrepo

import (
	"time"

	"dispatch/internal/core/domain/model/geo"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting order mirrors.
type OrderDTO struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	CustomerLat     float64   `gorm:"not null"`
	CustomerLng     float64   `gorm:"not null"`
	Tier            string    `gorm:"type:varchar(16);not null"`
	Status          string    `gorm:"type:varchar(32);not null;index"`
	ProgressPercent int
	PartnerLat      *float64
	PartnerLng      *float64
	// CreatedAt is set by GORM on insert; dispatch eligibility scans use it
	// for oldest-first ordering.
	CreatedAt time.Time
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// fromDomain converts an order domain aggregate to its database
// representation.
func fromDomain(aggregate *order.Order) OrderDTO {
	dto := OrderDTO{
		ID:              aggregate.ID().Bytes(),
		CustomerLat:     aggregate.CustomerLocation().Lat(),
		CustomerLng:     aggregate.CustomerLocation().Lng(),
		Tier:            string(aggregate.Tier()),
		Status:          aggregate.Status().String(),
		ProgressPercent: aggregate.ProgressPercent(),
	}

	if loc := aggregate.PartnerLocation(); loc != nil {
		lat, lng := loc.Lat(), loc.Lng()
		dto.PartnerLat = &lat
		dto.PartnerLng = &lng
	}

	return dto
}

// toDomain converts a database DTO to an order domain aggregate.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	customerLocation, err := geo.NewPoint(dto.CustomerLat, dto.CustomerLng)
	if err != nil {
		return nil, err
	}

	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	var partnerLocation *geo.Point
	if dto.PartnerLat != nil && dto.PartnerLng != nil {
		point, pointErr := geo.NewPoint(*dto.PartnerLat, *dto.PartnerLng)
		if pointErr != nil {
			return nil, pointErr
		}
		partnerLocation = &point
	}

	return order.RestoreOrder(
		id,
		customerLocation,
		geo.Tier(dto.Tier),
		status,
		dto.ProgressPercent,
		partnerLocation,
	)
}
