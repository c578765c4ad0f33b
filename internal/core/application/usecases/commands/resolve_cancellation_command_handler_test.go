package commands_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/cancellation"
	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
)

// arbitrationCase wires a delivery frozen in cancellation-requested to its
// pending request, plus the partner and order the resolution touches.
func arbitrationCase(t *testing.T) (*delivery.Delivery, *cancellation.Request, *order.Order) {
	t.Helper()

	o := packedOrder(t, 22.6000, 88.4000)
	record, err := delivery.NewDelivery(
		kernel.NewUUID(), o.ID(), kernel.NewUUID(),
		"hub-esplanade",
		testPoint(t, 22.5726, 88.3639), o.CustomerLocation(),
		18, nil, time.Now().UTC(),
	)
	require.NoError(t, err)

	now := time.Now().UTC()
	require.NoError(t, o.MarkOutForDelivery())
	require.NoError(t, record.Accept(record.PartnerID(), now))
	require.NoError(t, record.MarkPickedUp(now))
	require.NoError(t, record.MarkInTransit(now))
	require.NoError(t, record.RequestCancellation("flat tyre on the highway"))

	request, err := cancellation.NewRequest(
		kernel.NewUUID(), record.ID(), record.PartnerID(),
		record.CancellationReason(), now,
	)
	require.NoError(t, err)

	return record, request, o
}

func TestResolveCancellationCommandHandler_Handle_Approve(t *testing.T) {
	// Arrange
	ctx := t.Context()
	record, request, o := arbitrationCase(t)

	p := availablePartner(t)
	require.NoError(t, p.TakeOrder(record.OrderID()))

	cmd, err := commands.NewResolveCancellationCommand(request.ID(), true, 15, "breakdown confirmed")
	require.NoError(t, err)

	mockDeliveryRepo := new(MockDeliveryRepository)
	mockPartnerRepo := new(MockPartnerRepository)
	mockOrderRepo := new(MockOrderRepository)
	mockCancellationRepo := new(MockCancellationRepository)
	mockUoW := new(MockUoW)
	mockFactory := new(MockArbitrationUoWFactory)
	publisher := new(RecordingPublisher)

	mock.InOrder(
		mockUoW.On("Begin", ctx).Return(nil).Once(),
		mockUoW.On("CancellationRepository").Return(mockCancellationRepo).Once(),
		mockCancellationRepo.On("Get", ctx, request.ID()).Return(request, nil).Once(),
		mockUoW.On("DeliveryRepository").Return(mockDeliveryRepo).Once(),
		mockDeliveryRepo.On("Get", ctx, record.ID()).Return(record, nil).Once(),
		mockUoW.On("PartnerRepository").Return(mockPartnerRepo).Once(),
		mockPartnerRepo.On("Get", ctx, record.PartnerID()).Return(p, nil).Once(),
		mockUoW.On("OrderRepository").Return(mockOrderRepo).Once(),
		mockOrderRepo.On("Get", ctx, record.OrderID()).Return(o, nil).Once(),
		mockUoW.On("PartnerRepository").Return(mockPartnerRepo).Once(),
		mockPartnerRepo.On("Update", ctx, p).Return(nil).Once(),
		mockUoW.On("OrderRepository").Return(mockOrderRepo).Once(),
		mockOrderRepo.On("Update", ctx, o).Return(nil).Once(),
		mockUoW.On("CancellationRepository").Return(mockCancellationRepo).Once(),
		mockCancellationRepo.On("Update", ctx, request).Return(nil).Once(),
		mockUoW.On("DeliveryRepository").Return(mockDeliveryRepo).Once(),
		mockDeliveryRepo.On("Update", ctx, record).Return(nil).Once(),
		mockUoW.On("Commit", ctx).Return(nil).Once(),
		mockUoW.On("Rollback", ctx).Return(nil).Once(),
	)
	mockFactory.On("Create").Return(mockUoW).Once()

	handler := commands.NewResolveCancellationCommandHandler(mockFactory, publisher)

	// Act
	err = handler.Handle(ctx, cmd)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, cancellation.Approved, request.Status())
	assert.Equal(t, delivery.Cancelled, record.Status())
	assert.InDelta(t, 15.0, record.Earnings(), 0.001)
	assert.Equal(t, order.StatusCancelled, o.Status())
	assert.False(t, p.HasActiveOrder(record.OrderID()))

	events := publisher.Events()
	require.Len(t, events, 3)
	assert.Equal(t, "cancellation.approved", events[0].Name)

	mockUoW.AssertExpectations(t)
	mockCancellationRepo.AssertExpectations(t)
	mockDeliveryRepo.AssertExpectations(t)
}

func TestResolveCancellationCommandHandler_Handle_Reject(t *testing.T) {
	// Arrange
	ctx := t.Context()
	record, request, _ := arbitrationCase(t)

	cmd, err := commands.NewResolveCancellationCommand(request.ID(), false, 0, "not verifiable")
	require.NoError(t, err)

	mockDeliveryRepo := new(MockDeliveryRepository)
	mockCancellationRepo := new(MockCancellationRepository)
	mockUoW := new(MockUoW)
	mockFactory := new(MockArbitrationUoWFactory)
	publisher := new(RecordingPublisher)

	mock.InOrder(
		mockUoW.On("Begin", ctx).Return(nil).Once(),
		mockUoW.On("CancellationRepository").Return(mockCancellationRepo).Once(),
		mockCancellationRepo.On("Get", ctx, request.ID()).Return(request, nil).Once(),
		mockUoW.On("DeliveryRepository").Return(mockDeliveryRepo).Once(),
		mockDeliveryRepo.On("Get", ctx, record.ID()).Return(record, nil).Once(),
		mockUoW.On("CancellationRepository").Return(mockCancellationRepo).Once(),
		mockCancellationRepo.On("Update", ctx, request).Return(nil).Once(),
		mockUoW.On("DeliveryRepository").Return(mockDeliveryRepo).Once(),
		mockDeliveryRepo.On("Update", ctx, record).Return(nil).Once(),
		mockUoW.On("Commit", ctx).Return(nil).Once(),
		mockUoW.On("Rollback", ctx).Return(nil).Once(),
	)
	mockFactory.On("Create").Return(mockUoW).Once()

	handler := commands.NewResolveCancellationCommandHandler(mockFactory, publisher)

	// Act
	err = handler.Handle(ctx, cmd)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, cancellation.RequestRejected, request.Status())
	assert.Equal(t, delivery.InTransit, record.Status())
	mockUoW.AssertExpectations(t)
}

func TestResolveCancellationCommandHandler_Handle_AlreadyResolved(t *testing.T) {
	// Arrange
	ctx := t.Context()
	record, request, _ := arbitrationCase(t)
	require.NoError(t, request.Approve(10, "", time.Now().UTC()))

	cmd, err := commands.NewResolveCancellationCommand(request.ID(), false, 0, "")
	require.NoError(t, err)

	mockDeliveryRepo := new(MockDeliveryRepository)
	mockCancellationRepo := new(MockCancellationRepository)
	mockUoW := new(MockUoW)
	mockFactory := new(MockArbitrationUoWFactory)

	mock.InOrder(
		mockUoW.On("Begin", ctx).Return(nil).Once(),
		mockUoW.On("CancellationRepository").Return(mockCancellationRepo).Once(),
		mockCancellationRepo.On("Get", ctx, request.ID()).Return(request, nil).Once(),
		mockUoW.On("DeliveryRepository").Return(mockDeliveryRepo).Once(),
		mockDeliveryRepo.On("Get", ctx, record.ID()).Return(record, nil).Once(),
		mockUoW.On("Rollback", ctx).Return(nil).Once(),
	)
	mockFactory.On("Create").Return(mockUoW).Once()

	handler := commands.NewResolveCancellationCommandHandler(mockFactory, new(RecordingPublisher))

	// Act
	err = handler.Handle(ctx, cmd)

	// Assert
	require.ErrorIs(t, err, cancellation.ErrAlreadyResolved)
	mockUoW.AssertExpectations(t)
}

func TestResolveCancellationCommandHandler_Handle_LosesRace(t *testing.T) {
	// Arrange
	ctx := t.Context()
	record, request, _ := arbitrationCase(t)

	cmd, err := commands.NewResolveCancellationCommand(request.ID(), false, 0, "")
	require.NoError(t, err)

	conflict := errs.NewVersionConflictError("cancellation request", request.ID())
	mockDeliveryRepo := new(MockDeliveryRepository)
	mockCancellationRepo := new(MockCancellationRepository)
	mockUoW := new(MockUoW)
	mockFactory := new(MockArbitrationUoWFactory)

	mock.InOrder(
		mockUoW.On("Begin", ctx).Return(nil).Once(),
		mockUoW.On("CancellationRepository").Return(mockCancellationRepo).Once(),
		mockCancellationRepo.On("Get", ctx, request.ID()).Return(request, nil).Once(),
		mockUoW.On("DeliveryRepository").Return(mockDeliveryRepo).Once(),
		mockDeliveryRepo.On("Get", ctx, record.ID()).Return(record, nil).Once(),
		mockUoW.On("CancellationRepository").Return(mockCancellationRepo).Once(),
		mockCancellationRepo.On("Update", ctx, request).Return(conflict).Once(),
		mockUoW.On("Rollback", ctx).Return(nil).Once(),
	)
	mockFactory.On("Create").Return(mockUoW).Once()

	handler := commands.NewResolveCancellationCommandHandler(mockFactory, new(RecordingPublisher))

	// Act
	err = handler.Handle(ctx, cmd)

	// Assert
	require.ErrorIs(t, err, cancellation.ErrAlreadyResolved)
	mockUoW.AssertExpectations(t)
}
