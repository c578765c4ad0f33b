package cancellationrepo

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/cancellation"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormCancellationRepository implements CancellationRepository using GORM.
//
// Update matches the row on both the identifier and the resolution status
// the aggregate was loaded with. Two admins ruling on the same case race on
// the pending row; the second UPDATE affects zero rows and surfaces a version
// conflict.
type GormCancellationRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormCancellationRepository creates a new GORM cancellation repository.
func NewGormCancellationRepository(db *gorm.DB, tracker aggregateTracker) *GormCancellationRepository {
	return &GormCancellationRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a newly filed arbitration case to the database.
func (r *GormCancellationRepository) Add(ctx context.Context, aggregate *cancellation.Request) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update persists a resolution with the guarded write described on the
// repository type.
func (r *GormCancellationRepository) Update(ctx context.Context, aggregate *cancellation.Request) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)

	result := r.db.WithContext(ctx).
		Model(&RequestDTO{}).
		Where("id = ? AND status = ?", dto.ID, aggregate.LoadedStatus().String()).
		Select("*").
		Omit("id").
		Updates(dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewVersionConflictError("cancellation request", aggregate.ID().String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves an arbitration case by ID.
func (r *GormCancellationRepository) Get(ctx context.Context, id kernel.UUID) (*cancellation.Request, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto RequestDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("cancellation request", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetPendingByDelivery retrieves the unresolved case for a delivery.
func (r *GormCancellationRepository) GetPendingByDelivery(ctx context.Context, deliveryID kernel.UUID) (*cancellation.Request, error) {
	if err := deliveryID.Validate(); err != nil {
		return nil, err
	}

	var dto RequestDTO
	if err := r.db.WithContext(ctx).
		Where("delivery_id = ? AND status = ?", deliveryID.Bytes(), cancellation.Pending.String()).
		First(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("cancellation request for delivery", deliveryID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllPending retrieves all unresolved cases, oldest first.
func (r *GormCancellationRepository) GetAllPending(ctx context.Context) ([]*cancellation.Request, error) {
	var dtos []RequestDTO
	if err := r.db.WithContext(ctx).
		Where("status = ?", cancellation.Pending.String()).
		Order("requested_at ASC").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	requests := make([]*cancellation.Request, 0, len(dtos))
	for _, dto := range dtos {
		request, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}

	return requests, nil
}
