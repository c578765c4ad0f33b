// Package http exposes the dispatch core over a REST API plus a server-sent
// event stream for live fan-out. Mutating partner endpoints act on the
// identity the presented token resolves to; admins drive dispatch and
// arbitration.
package http

import (
	"net/http"
	"strings"
	"time"

	"dispatch/internal/broadcast"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/geo"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"

	"github.com/labstack/echo/v4"
)

// Handlers bundles the application use cases the server dispatches to.
type Handlers struct {
	CreatePartner          commands.CreatePartnerCommandHandler
	CreateOrder            commands.CreateOrderCommandHandler
	AssignDelivery         commands.AssignDeliveryCommandHandler
	AcceptDelivery         commands.AcceptDeliveryCommandHandler
	RejectDelivery         commands.RejectDeliveryCommandHandler
	MarkPickedUp           commands.MarkPickedUpCommandHandler
	MarkInTransit          commands.MarkInTransitCommandHandler
	CompleteDelivery       commands.CompleteDeliveryCommandHandler
	RequestCancellation    commands.RequestCancellationCommandHandler
	ResolveCancellation    commands.ResolveCancellationCommandHandler
	UpdatePartnerLocation  commands.UpdatePartnerLocationCommandHandler
	SetPartnerAvailability commands.SetPartnerAvailabilityCommandHandler

	AvailablePartners queries.GetAvailablePartnersQueryHandler
	ActiveDeliveries  queries.GetActiveDeliveriesQueryHandler
}

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	handlers Handlers
	hub      *broadcast.Hub
	verifier ports.TokenVerifier
}

// NewServer creates an HTTP server over the given use cases, broadcast hub,
// and credential verifier.
func NewServer(handlers Handlers, hub *broadcast.Hub, verifier ports.TokenVerifier) *Server {
	return &Server{
		handlers: handlers,
		hub:      hub,
		verifier: verifier,
	}
}

// RegisterRoutes attaches all API routes to the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")

	api.POST("/partners", s.CreatePartner)
	api.GET("/partners/available", s.GetAvailablePartners)
	api.POST("/partners/location", s.UpdatePartnerLocation)
	api.POST("/partners/availability", s.SetPartnerAvailability)

	api.POST("/orders", s.CreateOrder)

	api.GET("/deliveries/active", s.GetActiveDeliveries)
	api.POST("/deliveries/assign", s.AssignDelivery)
	api.POST("/deliveries/:id/accept", s.AcceptDelivery)
	api.POST("/deliveries/:id/reject", s.RejectDelivery)
	api.POST("/deliveries/:id/pickup", s.MarkPickedUp)
	api.POST("/deliveries/:id/transit", s.MarkInTransit)
	api.POST("/deliveries/:id/complete", s.CompleteDelivery)
	api.POST("/deliveries/:id/cancellation-request", s.RequestCancellation)

	api.POST("/cancellations/:id/resolve", s.ResolveCancellation)

	api.GET("/events", s.StreamEvents)
}

// authenticate resolves the request's credential to an identity. The token
// comes from the Authorization header (Bearer scheme) or, for event stream
// clients that cannot set headers, the "token" query parameter.
func (s *Server) authenticate(ctx echo.Context) (ports.Identity, error) {
	token := ctx.QueryParam("token")
	if header := ctx.Request().Header.Get(echo.HeaderAuthorization); header != "" {
		token = strings.TrimPrefix(header, "Bearer ")
	}
	if token == "" {
		return ports.Identity{}, ports.ErrInvalidToken
	}
	return s.verifier.Verify(ctx.Request().Context(), token)
}

func (s *Server) requireAdmin(ctx echo.Context) error {
	identity, err := s.authenticate(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	if identity.Role != ports.RoleAdmin {
		return echo.NewHTTPError(http.StatusForbidden, "admin role required")
	}
	return nil
}

func (s *Server) requirePartner(ctx echo.Context) (kernel.UUID, error) {
	identity, err := s.authenticate(ctx)
	if err != nil {
		return kernel.UUID{}, echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	if identity.Role != ports.RolePartner {
		return kernel.UUID{}, echo.NewHTTPError(http.StatusForbidden, "partner role required")
	}
	return identity.SubjectID, nil
}

// CreatePartner handles POST /api/v1/partners.
func (s *Server) CreatePartner(ctx echo.Context) error {
	if err := s.requireAdmin(ctx); err != nil {
		return err
	}

	var body createPartnerRequest
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	cmd, err := commands.NewCreatePartnerCommand(body.Name, body.Vehicle)
	if err != nil {
		return renderError(ctx, err)
	}

	if err := s.handlers.CreatePartner.Handle(ctx.Request().Context(), cmd); err != nil {
		return renderError(ctx, err)
	}

	return ctx.NoContent(http.StatusCreated)
}

// CreateOrder handles POST /api/v1/orders. The upstream order system calls
// this when an order is packed; omitting the id mirrors a locally generated
// order for manual testing.
func (s *Server) CreateOrder(ctx echo.Context) error {
	if err := s.requireAdmin(ctx); err != nil {
		return err
	}

	var body createOrderRequest
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	orderID := kernel.NewUUID()
	if body.ID != "" {
		parsed, err := kernel.UUIDFromString(body.ID)
		if err != nil {
			return badRequest(ctx, "invalid order id")
		}
		orderID = parsed
	}

	location, err := geo.NewPoint(body.Lat, body.Lng)
	if err != nil {
		return renderError(ctx, err)
	}

	cmd, err := commands.NewCreateOrderCommand(orderID, location, geo.Tier(body.Tier))
	if err != nil {
		return renderError(ctx, err)
	}

	if err := s.handlers.CreateOrder.Handle(ctx.Request().Context(), cmd); err != nil {
		return renderError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, idResponse{ID: orderID.String()})
}

// AssignDelivery handles POST /api/v1/deliveries/assign.
func (s *Server) AssignDelivery(ctx echo.Context) error {
	if err := s.requireAdmin(ctx); err != nil {
		return err
	}

	var body assignDeliveryRequest
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	orderID, err := kernel.UUIDFromString(body.OrderID)
	if err != nil {
		return badRequest(ctx, "invalid order id")
	}
	partnerID, err := kernel.UUIDFromString(body.PartnerID)
	if err != nil {
		return badRequest(ctx, "invalid partner id")
	}

	cmd, err := commands.NewAssignDeliveryCommand(orderID, partnerID)
	if err != nil {
		return renderError(ctx, err)
	}

	if err := s.handlers.AssignDelivery.Handle(ctx.Request().Context(), cmd); err != nil {
		return renderError(ctx, err)
	}

	return ctx.NoContent(http.StatusCreated)
}

// AcceptDelivery handles POST /api/v1/deliveries/:id/accept. The acting
// partner comes from the credential, never the body.
func (s *Server) AcceptDelivery(ctx echo.Context) error {
	partnerID, err := s.requirePartner(ctx)
	if err != nil {
		return err
	}

	deliveryID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "invalid delivery id")
	}

	cmd, err := commands.NewAcceptDeliveryCommand(deliveryID, partnerID)
	if err != nil {
		return renderError(ctx, err)
	}

	if err := s.handlers.AcceptDelivery.Handle(ctx.Request().Context(), cmd); err != nil {
		return renderError(ctx, err)
	}

	return ctx.NoContent(http.StatusOK)
}

// RejectDelivery handles POST /api/v1/deliveries/:id/reject.
func (s *Server) RejectDelivery(ctx echo.Context) error {
	partnerID, err := s.requirePartner(ctx)
	if err != nil {
		return err
	}

	deliveryID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "invalid delivery id")
	}

	var body rejectDeliveryRequest
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	cmd, err := commands.NewRejectDeliveryCommand(deliveryID, partnerID, body.Reason)
	if err != nil {
		return renderError(ctx, err)
	}

	if err := s.handlers.RejectDelivery.Handle(ctx.Request().Context(), cmd); err != nil {
		return renderError(ctx, err)
	}

	return ctx.NoContent(http.StatusOK)
}

// MarkPickedUp handles POST /api/v1/deliveries/:id/pickup.
func (s *Server) MarkPickedUp(ctx echo.Context) error {
	partnerID, err := s.requirePartner(ctx)
	if err != nil {
		return err
	}

	deliveryID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "invalid delivery id")
	}

	cmd, err := commands.NewMarkPickedUpCommand(deliveryID, partnerID)
	if err != nil {
		return renderError(ctx, err)
	}

	if err := s.handlers.MarkPickedUp.Handle(ctx.Request().Context(), cmd); err != nil {
		return renderError(ctx, err)
	}

	return ctx.NoContent(http.StatusOK)
}

// MarkInTransit handles POST /api/v1/deliveries/:id/transit.
func (s *Server) MarkInTransit(ctx echo.Context) error {
	partnerID, err := s.requirePartner(ctx)
	if err != nil {
		return err
	}

	deliveryID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "invalid delivery id")
	}

	cmd, err := commands.NewMarkInTransitCommand(deliveryID, partnerID)
	if err != nil {
		return renderError(ctx, err)
	}

	if err := s.handlers.MarkInTransit.Handle(ctx.Request().Context(), cmd); err != nil {
		return renderError(ctx, err)
	}

	return ctx.NoContent(http.StatusOK)
}

// CompleteDelivery handles POST /api/v1/deliveries/:id/complete. The partner
// relays the OTP collected from the customer at the door.
func (s *Server) CompleteDelivery(ctx echo.Context) error {
	partnerID, err := s.requirePartner(ctx)
	if err != nil {
		return err
	}

	deliveryID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "invalid delivery id")
	}

	var body completeDeliveryRequest
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	cmd, err := commands.NewCompleteDeliveryCommand(deliveryID, partnerID, body.Otp)
	if err != nil {
		return renderError(ctx, err)
	}

	if err := s.handlers.CompleteDelivery.Handle(ctx.Request().Context(), cmd); err != nil {
		return renderError(ctx, err)
	}

	return ctx.NoContent(http.StatusOK)
}

// RequestCancellation handles POST /api/v1/deliveries/:id/cancellation-request.
func (s *Server) RequestCancellation(ctx echo.Context) error {
	partnerID, err := s.requirePartner(ctx)
	if err != nil {
		return err
	}

	deliveryID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "invalid delivery id")
	}

	var body requestCancellationRequest
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	cmd, err := commands.NewRequestCancellationCommand(deliveryID, partnerID, body.Reason)
	if err != nil {
		return renderError(ctx, err)
	}

	if err := s.handlers.RequestCancellation.Handle(ctx.Request().Context(), cmd); err != nil {
		return renderError(ctx, err)
	}

	return ctx.NoContent(http.StatusAccepted)
}

// ResolveCancellation handles POST /api/v1/cancellations/:id/resolve.
func (s *Server) ResolveCancellation(ctx echo.Context) error {
	if err := s.requireAdmin(ctx); err != nil {
		return err
	}

	requestID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "invalid request id")
	}

	var body resolveCancellationRequest
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	cmd, err := commands.NewResolveCancellationCommand(requestID, body.Approve, body.Payout, body.Notes)
	if err != nil {
		return renderError(ctx, err)
	}

	if err := s.handlers.ResolveCancellation.Handle(ctx.Request().Context(), cmd); err != nil {
		return renderError(ctx, err)
	}

	return ctx.NoContent(http.StatusOK)
}

// UpdatePartnerLocation handles POST /api/v1/partners/location for the
// authenticated partner.
func (s *Server) UpdatePartnerLocation(ctx echo.Context) error {
	partnerID, err := s.requirePartner(ctx)
	if err != nil {
		return err
	}

	var body updateLocationRequest
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	location, err := geo.NewPoint(body.Lat, body.Lng)
	if err != nil {
		return renderError(ctx, err)
	}

	cmd, err := commands.NewUpdatePartnerLocationCommand(partnerID, location)
	if err != nil {
		return renderError(ctx, err)
	}

	if err := s.handlers.UpdatePartnerLocation.Handle(ctx.Request().Context(), cmd); err != nil {
		return renderError(ctx, err)
	}

	return ctx.NoContent(http.StatusOK)
}

// SetPartnerAvailability handles POST /api/v1/partners/availability for the
// authenticated partner.
func (s *Server) SetPartnerAvailability(ctx echo.Context) error {
	partnerID, err := s.requirePartner(ctx)
	if err != nil {
		return err
	}

	var body setAvailabilityRequest
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	cmd, err := commands.NewSetPartnerAvailabilityCommand(partnerID, body.Available)
	if err != nil {
		return renderError(ctx, err)
	}

	if err := s.handlers.SetPartnerAvailability.Handle(ctx.Request().Context(), cmd); err != nil {
		return renderError(ctx, err)
	}

	return ctx.NoContent(http.StatusOK)
}

// GetAvailablePartners handles GET /api/v1/partners/available.
func (s *Server) GetAvailablePartners(ctx echo.Context) error {
	if err := s.requireAdmin(ctx); err != nil {
		return err
	}

	partners, err := s.handlers.AvailablePartners.Handle(
		ctx.Request().Context(), queries.NewGetAvailablePartnersQuery())
	if err != nil {
		return renderError(ctx, err)
	}

	response := make([]partnerResponse, len(partners))
	for i, p := range partners {
		response[i] = partnerResponse{
			ID:             p.ID.String(),
			Name:           p.Name,
			Vehicle:        p.Vehicle,
			Rating:         p.Rating,
			DeliveredCount: p.DeliveredCount,
			Lat:            p.Lat,
			Lng:            p.Lng,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetActiveDeliveries handles GET /api/v1/deliveries/active.
func (s *Server) GetActiveDeliveries(ctx echo.Context) error {
	if err := s.requireAdmin(ctx); err != nil {
		return err
	}

	records, err := s.handlers.ActiveDeliveries.Handle(
		ctx.Request().Context(), queries.NewGetActiveDeliveriesQuery())
	if err != nil {
		return renderError(ctx, err)
	}

	response := make([]deliveryResponse, len(records))
	for i, record := range records {
		var arrival *string
		if record.EstimatedArrival != nil {
			formatted := record.EstimatedArrival.Format(time.RFC3339)
			arrival = &formatted
		}

		response[i] = deliveryResponse{
			ID:               record.ID.String(),
			OrderID:          record.OrderID.String(),
			PartnerID:        record.PartnerID.String(),
			HubID:            record.HubID,
			Status:           record.Status,
			EstimatedMinutes: record.EstimatedMinutes,
			EstimatedArrival: arrival,
			CreatedAt:        record.CreatedAt.Format(time.RFC3339),
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, errorResponse{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}
