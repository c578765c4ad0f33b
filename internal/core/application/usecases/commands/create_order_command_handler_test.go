package commands_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/geo"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
)

func TestCreateOrderCommandHandler_Handle_Success(t *testing.T) {
	// Arrange
	ctx := t.Context()
	orderID := kernel.NewUUID()

	cmd, err := commands.NewCreateOrderCommand(orderID, testPoint(t, 22.6000, 88.4000), geo.TierGold)
	require.NoError(t, err)

	mockRepo := new(MockOrderRepository)
	mockUoW := new(MockUoW)
	mockFactory := new(MockOrderUoWFactory)
	publisher := new(RecordingPublisher)

	var captured *order.Order
	mock.InOrder(
		mockUoW.On("Begin", ctx).Return(nil).Once(),
		mockUoW.On("OrderRepository").Return(mockRepo).Once(),
		mockRepo.On("Add", ctx, mock.MatchedBy(func(o *order.Order) bool {
			captured = o
			return true
		})).Return(nil).Once(),
		mockUoW.On("Commit", ctx).Return(nil).Once(),
		mockUoW.On("Rollback", ctx).Return(nil).Once(),
	)
	mockFactory.On("Create").Return(mockUoW).Once()

	handler := commands.NewCreateOrderCommandHandler(mockFactory, publisher)

	// Act
	err = handler.Handle(ctx, cmd)

	// Assert
	require.NoError(t, err)
	require.NotNil(t, captured)
	assert.True(t, captured.ID().IsEqual(orderID))
	assert.Equal(t, order.StatusPacked, captured.Status())

	events := publisher.Events()
	require.Len(t, events, 1)
	assert.Equal(t, ports.TopicAdmin, events[0].Topic)
	assert.Equal(t, "order.created", events[0].Name)
	assert.Equal(t, orderID.String(), events[0].Payload["order_id"])

	mockFactory.AssertExpectations(t)
	mockUoW.AssertExpectations(t)
	mockRepo.AssertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_AddFails_NoEvent(t *testing.T) {
	// Arrange
	ctx := t.Context()
	orderID := kernel.NewUUID()

	cmd, err := commands.NewCreateOrderCommand(orderID, testPoint(t, 22.6000, 88.4000), geo.TierGold)
	require.NoError(t, err)

	mockRepo := new(MockOrderRepository)
	mockUoW := new(MockUoW)
	mockFactory := new(MockOrderUoWFactory)
	publisher := new(RecordingPublisher)

	mock.InOrder(
		mockUoW.On("Begin", ctx).Return(nil).Once(),
		mockUoW.On("OrderRepository").Return(mockRepo).Once(),
		mockRepo.On("Add", ctx, mock.Anything).Return(errors.New("insert failed")).Once(),
		mockUoW.On("Rollback", ctx).Return(nil).Once(),
	)
	mockFactory.On("Create").Return(mockUoW).Once()

	handler := commands.NewCreateOrderCommandHandler(mockFactory, publisher)

	// Act
	err = handler.Handle(ctx, cmd)

	// Assert
	require.Error(t, err)
	assert.Empty(t, publisher.Events())
	mockUoW.AssertExpectations(t)
	mockRepo.AssertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_InvalidCommand(t *testing.T) {
	// Arrange
	ctx := t.Context()
	var invalidCmd commands.CreateOrderCommand

	mockFactory := new(MockOrderUoWFactory)
	handler := commands.NewCreateOrderCommandHandler(mockFactory, new(RecordingPublisher))

	// Act
	err := handler.Handle(ctx, invalidCmd)

	// Assert
	require.ErrorIs(t, err, commands.ErrCreateOrderCommandIsNotConstructed)
	mockFactory.AssertExpectations(t)
}
