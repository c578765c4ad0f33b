package commands_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/geo"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

func testPoint(t *testing.T, lat, lng float64) geo.Point {
	t.Helper()
	p, err := geo.NewPoint(lat, lng)
	require.NoError(t, err)
	return p
}

// pendingDeliveryFor builds a record in pending acceptance offered to the
// given partner.
func pendingDeliveryFor(t *testing.T, partnerID kernel.UUID) *delivery.Delivery {
	t.Helper()
	record, err := delivery.NewDelivery(
		kernel.NewUUID(),
		kernel.NewUUID(),
		partnerID,
		"hub-esplanade",
		testPoint(t, 22.5726, 88.3639),
		testPoint(t, 22.6000, 88.4000),
		18,
		nil,
		time.Now().UTC(),
	)
	require.NoError(t, err)
	return record
}

func pendingDelivery(t *testing.T) *delivery.Delivery {
	t.Helper()
	return pendingDeliveryFor(t, kernel.NewUUID())
}

func TestAcceptDeliveryCommandHandler_Handle_Success(t *testing.T) {
	// Arrange
	ctx := t.Context()
	p := availablePartner(t)
	record := pendingDeliveryFor(t, p.ID())

	cmd, err := commands.NewAcceptDeliveryCommand(record.ID(), p.ID())
	require.NoError(t, err)

	mockRepo := new(MockDeliveryRepository)
	mockPartnerRepo := new(MockPartnerRepository)
	mockUoW := new(MockUoW)
	mockFactory := new(MockDispatchUoWFactory)
	publisher := new(RecordingPublisher)

	mock.InOrder(
		mockUoW.On("Begin", ctx).Return(nil).Once(),
		mockUoW.On("DeliveryRepository").Return(mockRepo).Once(),
		mockRepo.On("Get", ctx, record.ID()).Return(record, nil).Once(),
		mockUoW.On("PartnerRepository").Return(mockPartnerRepo).Once(),
		mockPartnerRepo.On("Get", ctx, p.ID()).Return(p, nil).Once(),
		mockUoW.On("DeliveryRepository").Return(mockRepo).Once(),
		mockRepo.On("Update", ctx, record).Return(nil).Once(),
		mockUoW.On("PartnerRepository").Return(mockPartnerRepo).Once(),
		mockPartnerRepo.On("Update", ctx, p).Return(nil).Once(),
		mockUoW.On("Commit", ctx).Return(nil).Once(),
		mockUoW.On("Rollback", ctx).Return(nil).Once(),
	)
	mockFactory.On("Create").Return(mockUoW).Once()

	handler := commands.NewAcceptDeliveryCommandHandler(mockFactory, publisher)

	// Act
	err = handler.Handle(ctx, cmd)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, delivery.Accepted, record.Status())
	assert.NotNil(t, record.EstimatedArrival())
	// acceptance is when the order enters the active set
	assert.True(t, p.HasActiveOrder(record.OrderID()))

	events := publisher.Events()
	require.Len(t, events, 2)
	assert.Equal(t, "delivery.accepted", events[0].Name)

	mockFactory.AssertExpectations(t)
	mockUoW.AssertExpectations(t)
	mockRepo.AssertExpectations(t)
	mockPartnerRepo.AssertExpectations(t)
}

func TestAcceptDeliveryCommandHandler_Handle_WrongPartner(t *testing.T) {
	// Arrange
	ctx := t.Context()
	record := pendingDelivery(t)

	cmd, err := commands.NewAcceptDeliveryCommand(record.ID(), kernel.NewUUID())
	require.NoError(t, err)

	mockRepo := new(MockDeliveryRepository)
	mockUoW := new(MockUoW)
	mockFactory := new(MockDispatchUoWFactory)

	mock.InOrder(
		mockUoW.On("Begin", ctx).Return(nil).Once(),
		mockUoW.On("DeliveryRepository").Return(mockRepo).Once(),
		mockRepo.On("Get", ctx, record.ID()).Return(record, nil).Once(),
		mockUoW.On("Rollback", ctx).Return(nil).Once(),
	)
	mockFactory.On("Create").Return(mockUoW).Once()

	handler := commands.NewAcceptDeliveryCommandHandler(mockFactory, new(RecordingPublisher))

	// Act
	err = handler.Handle(ctx, cmd)

	// Assert
	require.ErrorIs(t, err, delivery.ErrNotOffered)
	assert.Equal(t, delivery.PendingAcceptance, record.Status())
	mockUoW.AssertExpectations(t)
	mockRepo.AssertExpectations(t)
}

func TestAcceptDeliveryCommandHandler_Handle_LosesRace(t *testing.T) {
	// Arrange
	ctx := t.Context()
	p := availablePartner(t)
	record := pendingDeliveryFor(t, p.ID())

	cmd, err := commands.NewAcceptDeliveryCommand(record.ID(), p.ID())
	require.NoError(t, err)

	conflict := errs.NewVersionConflictError("delivery", record.ID())
	mockRepo := new(MockDeliveryRepository)
	mockPartnerRepo := new(MockPartnerRepository)
	mockUoW := new(MockUoW)
	mockFactory := new(MockDispatchUoWFactory)

	mock.InOrder(
		mockUoW.On("Begin", ctx).Return(nil).Once(),
		mockUoW.On("DeliveryRepository").Return(mockRepo).Once(),
		mockRepo.On("Get", ctx, record.ID()).Return(record, nil).Once(),
		mockUoW.On("PartnerRepository").Return(mockPartnerRepo).Once(),
		mockPartnerRepo.On("Get", ctx, p.ID()).Return(p, nil).Once(),
		mockUoW.On("DeliveryRepository").Return(mockRepo).Once(),
		mockRepo.On("Update", ctx, record).Return(conflict).Once(),
		mockUoW.On("Rollback", ctx).Return(nil).Once(),
	)
	mockFactory.On("Create").Return(mockUoW).Once()

	handler := commands.NewAcceptDeliveryCommandHandler(mockFactory, new(RecordingPublisher))

	// Act
	err = handler.Handle(ctx, cmd)

	// Assert
	require.ErrorIs(t, err, delivery.ErrNotOffered)
	mockUoW.AssertExpectations(t)
	mockRepo.AssertExpectations(t)
	mockPartnerRepo.AssertExpectations(t)
}

func TestAcceptDeliveryCommandHandler_Handle_DeliveryNotFound(t *testing.T) {
	// Arrange
	ctx := t.Context()
	deliveryID := kernel.NewUUID()

	cmd, err := commands.NewAcceptDeliveryCommand(deliveryID, kernel.NewUUID())
	require.NoError(t, err)

	mockRepo := new(MockDeliveryRepository)
	mockUoW := new(MockUoW)
	mockFactory := new(MockDispatchUoWFactory)

	mock.InOrder(
		mockUoW.On("Begin", ctx).Return(nil).Once(),
		mockUoW.On("DeliveryRepository").Return(mockRepo).Once(),
		mockRepo.On("Get", ctx, deliveryID).
			Return(nil, errs.NewObjectNotFoundError("delivery", deliveryID)).Once(),
		mockUoW.On("Rollback", ctx).Return(nil).Once(),
	)
	mockFactory.On("Create").Return(mockUoW).Once()

	handler := commands.NewAcceptDeliveryCommandHandler(mockFactory, new(RecordingPublisher))

	// Act
	err = handler.Handle(ctx, cmd)

	// Assert
	require.ErrorIs(t, err, commands.ErrDeliveryNotFound)
	mockUoW.AssertExpectations(t)
	mockRepo.AssertExpectations(t)
}

func TestAcceptDeliveryCommandHandler_Handle_InvalidCommand(t *testing.T) {
	// Arrange
	ctx := t.Context()
	var invalidCmd commands.AcceptDeliveryCommand

	mockFactory := new(MockDispatchUoWFactory)
	handler := commands.NewAcceptDeliveryCommandHandler(mockFactory, new(RecordingPublisher))

	// Act
	err := handler.Handle(ctx, invalidCmd)

	// Assert
	require.ErrorIs(t, err, commands.ErrAcceptDeliveryCommandIsNotConstructed)
	mockFactory.AssertExpectations(t)
}
