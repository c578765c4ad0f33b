package cmd

import (
	"log/slog"

	"gorm.io/gorm"

	httpin "dispatch/internal/adapters/in/http"
	"dispatch/internal/adapters/out/postgres"
	"dispatch/internal/adapters/out/routing"
	"dispatch/internal/broadcast"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/geo"
	"dispatch/internal/core/ports"
	"dispatch/internal/jobs"
)

// CompositionRoot wires adapters into use case handlers. Handlers are cheap
// value types, so each Create* call builds a fresh one over the shared
// factories.
type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory

	hub       *broadcast.Hub
	publisher ports.EventPublisher
	routing   ports.RoutingClient
	hubs      []geo.Hub
}

// NewCompositionRoot builds the object graph. The publisher fans events out
// to the in-process hub and, when mirrors are configured, to them as well.
func NewCompositionRoot(
	config Config,
	gormDB *gorm.DB,
	mirrors ...ports.EventPublisher,
) CompositionRoot {
	hub := broadcast.NewHub()

	publishers := append([]ports.EventPublisher{hub}, mirrors...)

	return CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		hub:        hub,
		publisher:  broadcast.NewMultiPublisher(publishers...),
		routing:    routing.NewClient(config.RoutingBaseURL),
		hubs:       geo.DefaultHubs(),
	}
}

func (c *CompositionRoot) CreateCreatePartnerCommandHandler() commands.CreatePartnerCommandHandler {
	var f commands.PartnerUoWFactory = FuncPartnerUoWFactory(func() commands.PartnerUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreatePartnerCommandHandler(f)
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateOrderCommandHandler(f, c.publisher)
}

func (c *CompositionRoot) CreateAssignDeliveryCommandHandler() commands.AssignDeliveryCommandHandler {
	var f commands.DispatchUoWFactory = FuncDispatchUoWFactory(func() commands.DispatchUoW {
		return c.uowFactory.Create()
	})
	return commands.NewAssignDeliveryCommandHandler(f, c.routing, c.publisher, c.hubs)
}

func (c *CompositionRoot) CreateAcceptDeliveryCommandHandler() commands.AcceptDeliveryCommandHandler {
	var f commands.DispatchUoWFactory = FuncDispatchUoWFactory(func() commands.DispatchUoW {
		return c.uowFactory.Create()
	})
	return commands.NewAcceptDeliveryCommandHandler(f, c.publisher)
}

func (c *CompositionRoot) CreateRejectDeliveryCommandHandler() commands.RejectDeliveryCommandHandler {
	var f commands.DispatchUoWFactory = FuncDispatchUoWFactory(func() commands.DispatchUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRejectDeliveryCommandHandler(f, c.publisher)
}

func (c *CompositionRoot) CreateMarkPickedUpCommandHandler() commands.MarkPickedUpCommandHandler {
	var f commands.DeliveryUoWFactory = FuncDeliveryUoWFactory(func() commands.DeliveryUoW {
		return c.uowFactory.Create()
	})
	return commands.NewMarkPickedUpCommandHandler(f, c.publisher)
}

func (c *CompositionRoot) CreateMarkInTransitCommandHandler() commands.MarkInTransitCommandHandler {
	var f commands.DeliveryUoWFactory = FuncDeliveryUoWFactory(func() commands.DeliveryUoW {
		return c.uowFactory.Create()
	})
	return commands.NewMarkInTransitCommandHandler(f, c.publisher)
}

func (c *CompositionRoot) CreateCompleteDeliveryCommandHandler() commands.CompleteDeliveryCommandHandler {
	var f commands.DispatchUoWFactory = FuncDispatchUoWFactory(func() commands.DispatchUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCompleteDeliveryCommandHandler(f, c.publisher)
}

func (c *CompositionRoot) CreateRequestCancellationCommandHandler() commands.RequestCancellationCommandHandler {
	var f commands.ArbitrationUoWFactory = FuncArbitrationUoWFactory(func() commands.ArbitrationUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRequestCancellationCommandHandler(f, c.publisher)
}

func (c *CompositionRoot) CreateResolveCancellationCommandHandler() commands.ResolveCancellationCommandHandler {
	var f commands.ArbitrationUoWFactory = FuncArbitrationUoWFactory(func() commands.ArbitrationUoW {
		return c.uowFactory.Create()
	})
	return commands.NewResolveCancellationCommandHandler(f, c.publisher)
}

func (c *CompositionRoot) CreateUpdatePartnerLocationCommandHandler() commands.UpdatePartnerLocationCommandHandler {
	var f commands.DispatchUoWFactory = FuncDispatchUoWFactory(func() commands.DispatchUoW {
		return c.uowFactory.Create()
	})
	return commands.NewUpdatePartnerLocationCommandHandler(f, c.publisher)
}

func (c *CompositionRoot) CreateSetPartnerAvailabilityCommandHandler() commands.SetPartnerAvailabilityCommandHandler {
	var f commands.PartnerUoWFactory = FuncPartnerUoWFactory(func() commands.PartnerUoW {
		return c.uowFactory.Create()
	})
	return commands.NewSetPartnerAvailabilityCommandHandler(f, c.publisher)
}

func (c *CompositionRoot) CreateExpireStaleOffersCommandHandler() commands.ExpireStaleOffersCommandHandler {
	var f commands.DispatchUoWFactory = FuncDispatchUoWFactory(func() commands.DispatchUoW {
		return c.uowFactory.Create()
	})
	return commands.NewExpireStaleOffersCommandHandler(f, c.publisher)
}

func (c *CompositionRoot) CreateGetAvailablePartnersQueryHandler() queries.GetAvailablePartnersQueryHandler {
	return queries.NewGetAvailablePartnersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetActiveDeliveriesQueryHandler() queries.GetActiveDeliveriesQueryHandler {
	return queries.NewGetActiveDeliveriesQueryHandler(c.gormDB)
}

// CreateHTTPServer bundles every handler behind the echo route table.
func (c *CompositionRoot) CreateHTTPServer() *httpin.Server {
	handlers := httpin.Handlers{
		CreatePartner:          c.CreateCreatePartnerCommandHandler(),
		CreateOrder:            c.CreateCreateOrderCommandHandler(),
		AssignDelivery:         c.CreateAssignDeliveryCommandHandler(),
		AcceptDelivery:         c.CreateAcceptDeliveryCommandHandler(),
		RejectDelivery:         c.CreateRejectDeliveryCommandHandler(),
		MarkPickedUp:           c.CreateMarkPickedUpCommandHandler(),
		MarkInTransit:          c.CreateMarkInTransitCommandHandler(),
		CompleteDelivery:       c.CreateCompleteDeliveryCommandHandler(),
		RequestCancellation:    c.CreateRequestCancellationCommandHandler(),
		ResolveCancellation:    c.CreateResolveCancellationCommandHandler(),
		UpdatePartnerLocation:  c.CreateUpdatePartnerLocationCommandHandler(),
		SetPartnerAvailability: c.CreateSetPartnerAvailabilityCommandHandler(),

		AvailablePartners: c.CreateGetAvailablePartnersQueryHandler(),
		ActiveDeliveries:  c.CreateGetActiveDeliveriesQueryHandler(),
	}

	verifier := httpin.NewStaticTokenVerifier(c.config.AdminToken, c.config.ScopeSecret)

	return httpin.NewServer(handlers, c.hub, verifier)
}

// CreateJobManager configures background jobs. The offer expiry sweep is
// only scheduled when a positive timeout is configured.
func (c *CompositionRoot) CreateJobManager(logger *slog.Logger) *jobs.JobManager {
	return jobs.NewJobManager(c.CreateExpireStaleOffersCommandHandler(), c.config.OfferTimeout, logger)
}

type FuncPartnerUoWFactory func() commands.PartnerUoW

func (f FuncPartnerUoWFactory) Create() commands.PartnerUoW {
	return f()
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncDeliveryUoWFactory func() commands.DeliveryUoW

func (f FuncDeliveryUoWFactory) Create() commands.DeliveryUoW {
	return f()
}

type FuncDispatchUoWFactory func() commands.DispatchUoW

func (f FuncDispatchUoWFactory) Create() commands.DispatchUoW {
	return f()
}

type FuncArbitrationUoWFactory func() commands.ArbitrationUoW

func (f FuncArbitrationUoWFactory) Create() commands.ArbitrationUoW {
	return f()
}
