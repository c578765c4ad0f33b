// Package deliveryrepo provides data transfer objects and mapping functions
// for delivery lifecycle persistence. The status column stores the wire name
// of the lifecycle state and doubles as the compare-and-swap guard for
// concurrent writes.
package deliveryrepo

import (
	"encoding/json"
	"time"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/geo"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// DeliveryDTO represents the database structure for persisting delivery
// aggregates. The planned route and recorded breadcrumbs are stored as JSONB
// documents since the core never queries individual points.
type DeliveryDTO struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID            uuid.UUID `gorm:"type:uuid;not null;index"`
	PartnerID          uuid.UUID `gorm:"type:uuid;not null;index"`
	HubID              string    `gorm:"type:varchar(64);not null"`
	PickupLat          float64   `gorm:"not null"`
	PickupLng          float64   `gorm:"not null"`
	DropoffLat         float64   `gorm:"not null"`
	DropoffLng         float64   `gorm:"not null"`
	Status             string    `gorm:"type:varchar(32);not null;index"`
	Otp                string    `gorm:"type:varchar(8);not null"`
	EstimatedMinutes   int       `gorm:"not null"`
	EstimatedArrival   *time.Time
	DistanceKm         float64 `gorm:"not null"`
	Path               string  `gorm:"type:jsonb"`
	Breadcrumbs        string  `gorm:"type:jsonb"`
	CreatedAt          time.Time
	AcceptedAt         *time.Time
	PickedUpAt         *time.Time
	InTransitAt        *time.Time
	DeliveredAt        *time.Time
	ActualMinutes      int
	Earnings           float64
	EarningsStatus     string `gorm:"type:varchar(16);not null"`
	CancellationReason string `gorm:"type:text"`
	RejectionReason    string `gorm:"type:text"`
}

// TableName specifies the database table name for delivery entities.
func (DeliveryDTO) TableName() string {
	return "deliveries"
}

// pointJSON is the JSONB shape of one route coordinate.
type pointJSON struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// breadcrumbJSON is the JSONB shape of one recorded route point.
type breadcrumbJSON struct {
	Lat float64   `json:"lat"`
	Lng float64   `json:"lng"`
	At  time.Time `json:"at"`
}

// fromDomain converts a delivery domain aggregate to its database
// representation.
func fromDomain(aggregate *delivery.Delivery) (DeliveryDTO, error) {
	path := make([]pointJSON, 0, len(aggregate.Path()))
	for _, p := range aggregate.Path() {
		path = append(path, pointJSON{Lat: p.Lat(), Lng: p.Lng()})
	}
	rawPath, err := json.Marshal(path)
	if err != nil {
		return DeliveryDTO{}, err
	}

	crumbs := make([]breadcrumbJSON, 0, len(aggregate.Breadcrumbs()))
	for _, b := range aggregate.Breadcrumbs() {
		crumbs = append(crumbs, breadcrumbJSON{Lat: b.Point.Lat(), Lng: b.Point.Lng(), At: b.At})
	}
	rawCrumbs, err := json.Marshal(crumbs)
	if err != nil {
		return DeliveryDTO{}, err
	}

	return DeliveryDTO{
		ID:                 aggregate.ID().Bytes(),
		OrderID:            aggregate.OrderID().Bytes(),
		PartnerID:          aggregate.PartnerID().Bytes(),
		HubID:              aggregate.HubID(),
		PickupLat:          aggregate.Pickup().Lat(),
		PickupLng:          aggregate.Pickup().Lng(),
		DropoffLat:         aggregate.Dropoff().Lat(),
		DropoffLng:         aggregate.Dropoff().Lng(),
		Status:             aggregate.Status().String(),
		Otp:                aggregate.Otp().String(),
		EstimatedMinutes:   aggregate.EstimatedMinutes(),
		EstimatedArrival:   aggregate.EstimatedArrival(),
		DistanceKm:         aggregate.DistanceKm(),
		Path:               string(rawPath),
		Breadcrumbs:        string(rawCrumbs),
		CreatedAt:          aggregate.CreatedAt(),
		AcceptedAt:         aggregate.AcceptedAt(),
		PickedUpAt:         aggregate.PickedUpAt(),
		InTransitAt:        aggregate.InTransitAt(),
		DeliveredAt:        aggregate.DeliveredAt(),
		ActualMinutes:      aggregate.ActualMinutes(),
		Earnings:           aggregate.Earnings(),
		EarningsStatus:     aggregate.EarningsStatus().String(),
		CancellationReason: aggregate.CancellationReason(),
		RejectionReason:    aggregate.RejectionReason(),
	}, nil
}

// toDomain converts a database DTO to a delivery domain aggregate using
// RestoreDelivery, so the restored record carries its persisted status as the
// guard for the next write.
func toDomain(dto DeliveryDTO) (*delivery.Delivery, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}
	partnerID, err := kernel.UUIDFromBytes(dto.PartnerID[:])
	if err != nil {
		return nil, err
	}

	pickup, err := geo.NewPoint(dto.PickupLat, dto.PickupLng)
	if err != nil {
		return nil, err
	}
	dropoff, err := geo.NewPoint(dto.DropoffLat, dto.DropoffLng)
	if err != nil {
		return nil, err
	}

	otp, err := delivery.RestoreOtp(dto.Otp)
	if err != nil {
		return nil, err
	}

	path, err := pathToDomain(dto.Path)
	if err != nil {
		return nil, err
	}
	crumbs, err := breadcrumbsToDomain(dto.Breadcrumbs)
	if err != nil {
		return nil, err
	}

	return delivery.RestoreDelivery(
		id, orderID, partnerID,
		dto.HubID,
		pickup, dropoff,
		delivery.ParseStatus(dto.Status),
		otp,
		dto.EstimatedMinutes,
		dto.EstimatedArrival,
		dto.DistanceKm,
		path,
		crumbs,
		dto.CreatedAt,
		dto.AcceptedAt, dto.PickedUpAt, dto.InTransitAt, dto.DeliveredAt,
		dto.ActualMinutes,
		dto.Earnings,
		delivery.ParseEarningsStatus(dto.EarningsStatus),
		dto.CancellationReason, dto.RejectionReason,
	)
}

func pathToDomain(raw string) ([]geo.Point, error) {
	if raw == "" {
		return nil, nil
	}

	var stored []pointJSON
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return nil, err
	}

	path := make([]geo.Point, 0, len(stored))
	for _, p := range stored {
		point, err := geo.NewPoint(p.Lat, p.Lng)
		if err != nil {
			return nil, err
		}
		path = append(path, point)
	}
	return path, nil
}

func breadcrumbsToDomain(raw string) ([]delivery.Breadcrumb, error) {
	if raw == "" {
		return nil, nil
	}

	var stored []breadcrumbJSON
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return nil, err
	}

	crumbs := make([]delivery.Breadcrumb, 0, len(stored))
	for _, b := range stored {
		point, err := geo.NewPoint(b.Lat, b.Lng)
		if err != nil {
			return nil, err
		}
		crumbs = append(crumbs, delivery.Breadcrumb{Point: point, At: b.At})
	}
	return crumbs, nil
}
