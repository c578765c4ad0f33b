package commands_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

// inTransitCase builds a delivery in transit together with its mirrored
// order.
func inTransitCase(t *testing.T) (*delivery.Delivery, *order.Order) {
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
	return record, o
}

func TestCompleteDeliveryCommandHandler_Handle_Success(t *testing.T) {
	// Arrange
	ctx := t.Context()
	record, o := inTransitCase(t)

	p := availablePartner(t)
	require.NoError(t, p.TakeOrder(record.OrderID()))

	cmd, err := commands.NewCompleteDeliveryCommand(record.ID(), record.PartnerID(), record.Otp().String())
	require.NoError(t, err)

	mockDeliveryRepo := new(MockDeliveryRepository)
	mockPartnerRepo := new(MockPartnerRepository)
	mockOrderRepo := new(MockOrderRepository)
	mockUoW := new(MockUoW)
	mockFactory := new(MockDispatchUoWFactory)
	publisher := new(RecordingPublisher)

	mock.InOrder(
		mockUoW.On("Begin", ctx).Return(nil).Once(),
		mockUoW.On("DeliveryRepository").Return(mockDeliveryRepo).Once(),
		mockDeliveryRepo.On("Get", ctx, record.ID()).Return(record, nil).Once(),
		mockUoW.On("PartnerRepository").Return(mockPartnerRepo).Once(),
		mockPartnerRepo.On("Get", ctx, record.PartnerID()).Return(p, nil).Once(),
		mockUoW.On("OrderRepository").Return(mockOrderRepo).Once(),
		mockOrderRepo.On("Get", ctx, record.OrderID()).Return(o, nil).Once(),
		mockUoW.On("DeliveryRepository").Return(mockDeliveryRepo).Once(),
		mockDeliveryRepo.On("Update", ctx, record).Return(nil).Once(),
		mockUoW.On("PartnerRepository").Return(mockPartnerRepo).Once(),
		mockPartnerRepo.On("Update", ctx, p).Return(nil).Once(),
		mockUoW.On("OrderRepository").Return(mockOrderRepo).Once(),
		mockOrderRepo.On("Update", ctx, o).Return(nil).Once(),
		mockUoW.On("Commit", ctx).Return(nil).Once(),
		mockUoW.On("Rollback", ctx).Return(nil).Once(),
	)
	mockFactory.On("Create").Return(mockUoW).Once()

	handler := commands.NewCompleteDeliveryCommandHandler(mockFactory, publisher)

	// Act
	err = handler.Handle(ctx, cmd)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, delivery.Delivered, record.Status())
	assert.Equal(t, delivery.EarningsPending, record.EarningsStatus())
	assert.Equal(t, order.StatusDelivered, o.Status())
	assert.Equal(t, 1, p.DeliveredCount())

	events := publisher.Events()
	require.Len(t, events, 3)
	assert.Equal(t, "delivery.delivered", events[0].Name)

	mockUoW.AssertExpectations(t)
	mockDeliveryRepo.AssertExpectations(t)
}

func TestCompleteDeliveryCommandHandler_Handle_WrongOtp(t *testing.T) {
	// Arrange
	ctx := t.Context()
	record, _ := inTransitCase(t)

	wrong := "000000"
	if record.Otp().Matches(wrong) {
		wrong = "111111"
	}

	cmd, err := commands.NewCompleteDeliveryCommand(record.ID(), record.PartnerID(), wrong)
	require.NoError(t, err)

	mockDeliveryRepo := new(MockDeliveryRepository)
	mockUoW := new(MockUoW)
	mockFactory := new(MockDispatchUoWFactory)

	mock.InOrder(
		mockUoW.On("Begin", ctx).Return(nil).Once(),
		mockUoW.On("DeliveryRepository").Return(mockDeliveryRepo).Once(),
		mockDeliveryRepo.On("Get", ctx, record.ID()).Return(record, nil).Once(),
		mockUoW.On("Rollback", ctx).Return(nil).Once(),
	)
	mockFactory.On("Create").Return(mockUoW).Once()

	handler := commands.NewCompleteDeliveryCommandHandler(mockFactory, new(RecordingPublisher))

	// Act
	err = handler.Handle(ctx, cmd)

	// Assert
	require.ErrorIs(t, err, delivery.ErrInvalidOtp)
	assert.Equal(t, delivery.InTransit, record.Status())
	mockUoW.AssertExpectations(t)
}
