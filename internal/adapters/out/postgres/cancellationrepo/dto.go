// Package cancellationrepo provides data transfer objects and mapping
// functions for arbitration case persistence. The status column doubles as
// the compare-and-swap guard so only one admin decision lands.
package cancellationrepo

import (
	"time"

	"dispatch/internal/core/domain/model/cancellation"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// RequestDTO represents the database structure for persisting cancellation
// requests.
type RequestDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	DeliveryID  uuid.UUID `gorm:"type:uuid;not null;index"`
	PartnerID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Reason      string    `gorm:"type:text;not null"`
	Status      string    `gorm:"type:varchar(16);not null;index"`
	Payout      float64
	AdminNotes  string `gorm:"type:text"`
	RequestedAt time.Time
	ResolvedAt  *time.Time
}

// TableName specifies the database table name for cancellation requests.
func (RequestDTO) TableName() string {
	return "cancellation_requests"
}

// fromDomain converts a cancellation request aggregate to its database
// representation.
func fromDomain(aggregate *cancellation.Request) RequestDTO {
	return RequestDTO{
		ID:          aggregate.ID().Bytes(),
		DeliveryID:  aggregate.DeliveryID().Bytes(),
		PartnerID:   aggregate.PartnerID().Bytes(),
		Reason:      aggregate.Reason(),
		Status:      aggregate.Status().String(),
		Payout:      aggregate.Payout(),
		AdminNotes:  aggregate.AdminNotes(),
		RequestedAt: aggregate.RequestedAt(),
		ResolvedAt:  aggregate.ResolvedAt(),
	}
}

// toDomain converts a database DTO to a cancellation request aggregate.
func toDomain(dto RequestDTO) (*cancellation.Request, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	deliveryID, err := kernel.UUIDFromBytes(dto.DeliveryID[:])
	if err != nil {
		return nil, err
	}
	partnerID, err := kernel.UUIDFromBytes(dto.PartnerID[:])
	if err != nil {
		return nil, err
	}

	return cancellation.RestoreRequest(
		id, deliveryID, partnerID,
		dto.Reason,
		cancellation.ParseResolutionStatus(dto.Status),
		dto.Payout,
		dto.AdminNotes,
		dto.RequestedAt,
		dto.ResolvedAt,
	)
}
