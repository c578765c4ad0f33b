package deliveryrepo

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"

	"gorm.io/gorm"
)

// terminalStatuses are the lifecycle states from which no transition exists.
// Rows in any other state count as live.
var terminalStatuses = []string{
	delivery.Delivered.String(),
	delivery.Cancelled.String(),
	delivery.Rejected.String(),
}

// GormDeliveryRepository implements DeliveryRepository using GORM.
//
// Update is a guarded write: the UPDATE matches the row on both the
// identifier and the status the aggregate was loaded with. When a concurrent
// handler already moved the row to another state the write affects zero rows
// and the caller receives a version conflict instead of silently clobbering
// the winner.
type GormDeliveryRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormDeliveryRepository creates a new GORM delivery repository.
func NewGormDeliveryRepository(db *gorm.DB, tracker aggregateTracker) *GormDeliveryRepository {
	return &GormDeliveryRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new delivery record, enforcing at most one live record per
// order.
func (r *GormDeliveryRepository) Add(ctx context.Context, aggregate *delivery.Delivery) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}

	var live int64
	if err := r.db.WithContext(ctx).
		Model(&DeliveryDTO{}).
		Where("order_id = ? AND status NOT IN ?", dto.OrderID, terminalStatuses).
		Count(&live).Error; err != nil {
		return err
	}
	if live > 0 {
		return ports.ErrActiveDeliveryExists
	}

	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing delivery record with the guarded write. Zero rows
// affected means another writer won the race on this record.
func (r *GormDeliveryRepository) Update(ctx context.Context, aggregate *delivery.Delivery) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&DeliveryDTO{}).
		Where("id = ? AND status = ?", dto.ID, aggregate.LoadedStatus().String()).
		Select("*").
		Omit("id").
		Updates(dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewVersionConflictError("delivery", aggregate.ID().String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a delivery record by ID.
func (r *GormDeliveryRepository) Get(ctx context.Context, id kernel.UUID) (*delivery.Delivery, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto DeliveryDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("delivery", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetActiveByOrder retrieves the single non-terminal record for an order.
func (r *GormDeliveryRepository) GetActiveByOrder(ctx context.Context, orderID kernel.UUID) (*delivery.Delivery, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dto DeliveryDTO
	if err := r.db.WithContext(ctx).
		Where("order_id = ? AND status NOT IN ?", orderID.Bytes(), terminalStatuses).
		First(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("delivery for order", orderID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetActiveByPartner retrieves all non-terminal records assigned to a
// partner, newest first.
func (r *GormDeliveryRepository) GetActiveByPartner(ctx context.Context, partnerID kernel.UUID) ([]*delivery.Delivery, error) {
	if err := partnerID.Validate(); err != nil {
		return nil, err
	}

	var dtos []DeliveryDTO
	if err := r.db.WithContext(ctx).
		Where("partner_id = ? AND status NOT IN ?", partnerID.Bytes(), terminalStatuses).
		Order("created_at DESC").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	return allToDomain(dtos)
}

// GetAllPendingAcceptance retrieves all records still waiting for the
// partner's answer, oldest first. The offer expiry job feeds on this.
func (r *GormDeliveryRepository) GetAllPendingAcceptance(ctx context.Context) ([]*delivery.Delivery, error) {
	var dtos []DeliveryDTO
	if err := r.db.WithContext(ctx).
		Where("status = ?", delivery.PendingAcceptance.String()).
		Order("created_at ASC").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	return allToDomain(dtos)
}

func allToDomain(dtos []DeliveryDTO) ([]*delivery.Delivery, error) {
	records := make([]*delivery.Delivery, 0, len(dtos))
	for _, dto := range dtos {
		record, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}
