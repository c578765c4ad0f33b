package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	postgrescontainer "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	postgresadapter "dispatch/internal/adapters/out/postgres"
	"dispatch/internal/adapters/out/postgres/cancellationrepo"
	"dispatch/internal/adapters/out/postgres/deliveryrepo"
	"dispatch/internal/adapters/out/postgres/orderrepo"
	"dispatch/internal/adapters/out/postgres/partnerrepo"
	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/geo"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/partner"
	"dispatch/internal/core/ports"
)

// UnitOfWorkIntegrationTestSuite exercises the gorm Unit of Work against a
// real PostgreSQL instance: transaction lifecycle, multi-aggregate commits,
// and rollback visibility.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *postgrescontainer.PostgresContainer
	db        *gorm.DB
	factory   ports.UnitOfWorkFactory
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgrescontainer.Run(ctx,
		"postgres:15-alpine",
		postgrescontainer.WithDatabase("testdb"),
		postgrescontainer.WithUsername("testuser"),
		postgrescontainer.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(30*time.Second)),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(
		&deliveryrepo.DeliveryDTO{},
		&partnerrepo.PartnerDTO{},
		&orderrepo.OrderDTO{},
		&cancellationrepo.RequestDTO{},
	))

	suite.factory = postgresadapter.NewGormUnitOfWorkFactory(db)
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE deliveries, partners, orders, cancellation_requests").Error
	suite.Require().NoError(err)
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) TestTransactionLifecycle() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Begin(ctx), "repeated begin reuses the open transaction")
	suite.Require().NoError(uow.Commit(ctx))

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Rollback(ctx))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCommitWithoutBegin_Fails() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().Error(uow.Commit(ctx))
	suite.Require().Error(uow.Rollback(ctx))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestDispatchWorkflow_CommitsAllAggregates() {
	ctx := context.Background()
	uow := suite.factory.Create()

	testOrder := createWorkflowOrder(suite.T())
	testPartner := createWorkflowPartner(suite.T())

	suite.Require().NoError(uow.Begin(ctx))

	suite.Require().NoError(uow.OrderRepository().Add(ctx, testOrder))
	suite.Require().NoError(uow.PartnerRepository().Add(ctx, testPartner))

	suite.Require().NoError(testPartner.TakeOrder(testOrder.ID()))
	suite.Require().NoError(testOrder.MarkOutForDelivery())

	record := createWorkflowDelivery(suite.T(), testOrder, testPartner)
	suite.Require().NoError(uow.DeliveryRepository().Add(ctx, record))
	suite.Require().NoError(uow.PartnerRepository().Update(ctx, testPartner))
	suite.Require().NoError(uow.OrderRepository().Update(ctx, testOrder))

	suite.Require().NoError(uow.Commit(ctx))

	verify := suite.factory.Create()

	persistedOrder, err := verify.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(order.StatusOutForDelivery, persistedOrder.Status())

	persistedPartner, err := verify.PartnerRepository().Get(ctx, testPartner.ID())
	suite.Require().NoError(err)
	suite.True(persistedPartner.HasActiveOrder(testOrder.ID()))

	persistedRecord, err := verify.DeliveryRepository().Get(ctx, record.ID())
	suite.Require().NoError(err)
	suite.Equal(delivery.PendingAcceptance, persistedRecord.Status())
	suite.True(persistedRecord.PartnerID().IsEqual(testPartner.ID()))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestRollback_DiscardsAllAggregates() {
	ctx := context.Background()
	uow := suite.factory.Create()

	testOrder := createWorkflowOrder(suite.T())
	testPartner := createWorkflowPartner(suite.T())

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, testOrder))
	suite.Require().NoError(uow.PartnerRepository().Add(ctx, testPartner))

	_, err := uow.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err, "transaction sees its own writes")

	suite.Require().NoError(uow.Rollback(ctx))

	verify := suite.factory.Create()
	_, err = verify.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().Error(err)
	_, err = verify.PartnerRepository().Get(ctx, testPartner.ID())
	suite.Require().Error(err)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestTransactionIsolation() {
	ctx := context.Background()

	uow1 := suite.factory.Create()
	uow2 := suite.factory.Create()

	order1 := createWorkflowOrder(suite.T())
	order2 := createWorkflowOrder(suite.T())

	suite.Require().NoError(uow1.Begin(ctx))
	suite.Require().NoError(uow2.Begin(ctx))

	suite.Require().NoError(uow1.OrderRepository().Add(ctx, order1))
	suite.Require().NoError(uow2.OrderRepository().Add(ctx, order2))

	_, err := uow1.OrderRepository().Get(ctx, order2.ID())
	suite.Require().Error(err, "uncommitted writes stay invisible across transactions")

	suite.Require().NoError(uow1.Commit(ctx))
	suite.Require().NoError(uow2.Rollback(ctx))

	verify := suite.factory.Create()
	_, err = verify.OrderRepository().Get(ctx, order1.ID())
	suite.Require().NoError(err)
	_, err = verify.OrderRepository().Get(ctx, order2.ID())
	suite.Require().Error(err)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestWithoutTransaction_AutoCommits() {
	ctx := context.Background()
	uow := suite.factory.Create()

	testOrder := createWorkflowOrder(suite.T())
	suite.Require().NoError(uow.OrderRepository().Add(ctx, testOrder))

	verify := suite.factory.Create()
	persisted, err := verify.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.True(persisted.ID().IsEqual(testOrder.ID()))
}

func createWorkflowOrder(t *testing.T) *order.Order {
	t.Helper()
	location, err := geo.NewPoint(22.6100, 88.4000)
	if err != nil {
		t.Fatal(err)
	}
	o, err := order.NewOrder(kernel.NewUUID(), location, geo.TierSilver)
	if err != nil {
		t.Fatal(err)
	}
	return o
}

func createWorkflowPartner(t *testing.T) *partner.DeliveryPartner {
	t.Helper()
	p, err := partner.NewDeliveryPartner(kernel.NewUUID(), "Workflow Partner", "bike")
	if err != nil {
		t.Fatal(err)
	}
	p.SetAvailability(true)
	return p
}

func createWorkflowDelivery(t *testing.T, o *order.Order, p *partner.DeliveryPartner) *delivery.Delivery {
	t.Helper()
	pickup, err := geo.NewPoint(22.5726, 88.3639)
	if err != nil {
		t.Fatal(err)
	}
	record, err := delivery.NewDelivery(
		kernel.NewUUID(), o.ID(), p.ID(),
		"hub-esplanade",
		pickup, o.CustomerLocation(),
		22,
		[]geo.Point{pickup, o.CustomerLocation()},
		time.Now().UTC(),
	)
	if err != nil {
		t.Fatal(err)
	}
	return record
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
