// Package queries contains read operations for retrieving system state.
// Implements the Query pattern for read operations in the CQRS architecture.
// Queries return optimized read models for specific use cases.
package queries

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrGetAvailablePartnersQueryIsNotConstructed = errors.New(
	"GetAvailablePartnersQuery must be created via NewGetAvailablePartnersQuery constructor",
)

// GetAvailablePartnersQuery retrieves all partners currently open to new
// offers. Admins use the result to pick a courier for a packed order.
//
// Example:
//
//	query := NewGetAvailablePartnersQuery()
//	handler := NewGetAvailablePartnersQueryHandler(db)
//
//	partners, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to retrieve partners: %w", err)
//	}
type GetAvailablePartnersQuery struct {
	guard guard.ConstructorGuard
}

// NewGetAvailablePartnersQuery creates a query to retrieve available partners.
func NewGetAvailablePartnersQuery() GetAvailablePartnersQuery {
	return GetAvailablePartnersQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetAvailablePartnersQuery) Validate() error {
	return q.guard.Validate(ErrGetAvailablePartnersQueryIsNotConstructed)
}

// GetAvailablePartnersQueryResponse represents one available partner in the
// read model.
type GetAvailablePartnersQueryResponse struct {
	ID             kernel.UUID
	Name           string
	Vehicle        string
	Rating         float64
	DeliveredCount int
	Lat            *float64
	Lng            *float64
}
