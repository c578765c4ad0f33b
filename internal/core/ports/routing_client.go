package ports

import (
	"context"

	"dispatch/internal/core/domain/model/geo"
)

// RoutingClient plans a display polyline between two points by calling the
// external routing collaborator.
//
// The route is cosmetic: callers must degrade to a straight from/to line when
// the collaborator is unreachable, and never fail dispatch because of it.
type RoutingClient interface {
	// PlanRoute returns the polyline from pickup to drop-off, endpoints
	// included.
	PlanRoute(ctx context.Context, from, to geo.Point) ([]geo.Point, error)
}
