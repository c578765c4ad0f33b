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
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/partner"
)

// pendingDeliveryAt creates a pending offer created at the given time, with
// the order out for delivery and the partner still waiting to answer.
func pendingDeliveryAt(t *testing.T, createdAt time.Time) (*delivery.Delivery, *partner.DeliveryPartner, *order.Order) {
	t.Helper()

	pickup, err := geo.NewPoint(22.5726, 88.3639)
	require.NoError(t, err)
	dropoff, err := geo.NewPoint(22.6100, 88.4000)
	require.NoError(t, err)

	o, err := order.NewOrder(kernel.NewUUID(), dropoff, geo.TierGold)
	require.NoError(t, err)

	p, err := partner.NewDeliveryPartner(kernel.NewUUID(), "Ravi", "bike")
	require.NoError(t, err)
	p.SetAvailability(true)
	require.NoError(t, o.MarkOutForDelivery())

	record, err := delivery.NewDelivery(
		kernel.NewUUID(), o.ID(), p.ID(),
		"hub-esplanade",
		pickup, dropoff,
		20,
		[]geo.Point{pickup, dropoff},
		createdAt,
	)
	require.NoError(t, err)

	return record, p, o
}

func TestExpireStaleOffersCommandHandler_Handle_ExpiresOnlyStaleOffers(t *testing.T) {
	stale, stalePartner, staleOrder := pendingDeliveryAt(t, time.Now().UTC().Add(-10*time.Minute))
	fresh, _, _ := pendingDeliveryAt(t, time.Now().UTC())

	deliveryRepo := new(MockDeliveryRepository)
	orderRepo := new(MockOrderRepository)

	uow := new(MockUoW)
	uow.On("Begin", mock.Anything).Return(nil)
	uow.On("Commit", mock.Anything).Return(nil)
	uow.On("Rollback", mock.Anything).Return(nil)
	uow.On("DeliveryRepository").Return(deliveryRepo)
	uow.On("OrderRepository").Return(orderRepo)

	factory := new(MockDispatchUoWFactory)
	factory.On("Create").Return(uow)

	deliveryRepo.On("GetAllPendingAcceptance", mock.Anything).
		Return([]*delivery.Delivery{stale, fresh}, nil)
	deliveryRepo.On("Get", mock.Anything, stale.ID()).Return(stale, nil)
	deliveryRepo.On("Update", mock.Anything, stale).Return(nil)
	orderRepo.On("Get", mock.Anything, staleOrder.ID()).Return(staleOrder, nil)
	orderRepo.On("Update", mock.Anything, staleOrder).Return(nil)

	publisher := new(RecordingPublisher)
	handler := commands.NewExpireStaleOffersCommandHandler(factory, publisher)

	cmd, err := commands.NewExpireStaleOffersCommand(5 * time.Minute)
	require.NoError(t, err)

	require.NoError(t, handler.Handle(t.Context(), cmd))

	assert.Equal(t, delivery.Rejected, stale.Status())
	assert.Equal(t, delivery.PendingAcceptance, fresh.Status())
	// a pending offer never touched the partner's active set
	assert.False(t, stalePartner.HasActiveOrder(staleOrder.ID()))
	assert.Equal(t, order.StatusPacked, staleOrder.Status())

	// The fresh offer was never reloaded or touched.
	deliveryRepo.AssertNumberOfCalls(t, "Get", 1)

	events := publisher.Events()
	require.Len(t, events, 2)
	assert.Equal(t, "delivery.offer_expired", events[0].Name)
	assert.Equal(t, "delivery.offer_expired", events[1].Name)

	deliveryRepo.AssertExpectations(t)
	orderRepo.AssertExpectations(t)
}

func TestExpireStaleOffersCommandHandler_Handle_NothingPending_NoWrites(t *testing.T) {
	deliveryRepo := new(MockDeliveryRepository)
	deliveryRepo.On("GetAllPendingAcceptance", mock.Anything).
		Return([]*delivery.Delivery{}, nil)

	uow := new(MockUoW)
	uow.On("DeliveryRepository").Return(deliveryRepo)

	factory := new(MockDispatchUoWFactory)
	factory.On("Create").Return(uow)

	publisher := new(RecordingPublisher)
	handler := commands.NewExpireStaleOffersCommandHandler(factory, publisher)

	cmd, err := commands.NewExpireStaleOffersCommand(5 * time.Minute)
	require.NoError(t, err)

	require.NoError(t, handler.Handle(t.Context(), cmd))

	assert.Empty(t, publisher.Events())
	deliveryRepo.AssertExpectations(t)
}

func TestNewExpireStaleOffersCommand_NonPositiveTimeout_Fails(t *testing.T) {
	_, err := commands.NewExpireStaleOffersCommand(0)
	require.Error(t, err)
}
