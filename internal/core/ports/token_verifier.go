package ports

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/kernel"
)

// ErrInvalidToken is returned when a presented credential cannot be resolved
// to an identity.
var ErrInvalidToken = errors.New("token is invalid or expired")

// Role is the caller category a verified credential resolves to.
type Role string

const (
	// RoleAdmin sees every topic and drives dispatch and arbitration.
	RoleAdmin Role = "admin"
	// RolePartner is a courier; scoped to its own partner topic.
	RolePartner Role = "partner"
	// RoleCustomer follows a single order topic.
	RoleCustomer Role = "customer"
)

// Identity is the result of credential verification, resolved once per
// connection or request and then trusted for its lifetime.
type Identity struct {
	// Role is the caller category.
	Role Role
	// SubjectID is the partner ID for RolePartner and the order ID for
	// RoleCustomer; zero for RoleAdmin.
	SubjectID kernel.UUID
}

// TokenVerifier resolves a presented credential to an identity.
type TokenVerifier interface {
	// Verify validates the token and returns the identity it carries.
	// Returns ErrInvalidToken when the credential cannot be resolved.
	Verify(ctx context.Context, token string) (Identity, error)
}
