package auth

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/congo-pay/customer_auth/internal/customer"
)

// LocalsKey is the fiber.Ctx Locals key holding the request's Principal.
const LocalsKey = "principal"

type principalKey struct{}

// Principal binds a verified customer and its authorities to one request.
type Principal struct {
	Customer    customer.Customer
	Authorities []string
}

// NewPrincipal builds a Principal carrying the customer's granted authorities.
func NewPrincipal(c customer.Customer) Principal {
	return Principal{Customer: c, Authorities: c.Authorities()}
}

// HasAuthority reports whether p was granted authority.
func (p Principal) HasAuthority(authority string) bool {
	for _, a := range p.Authorities {
		if a == authority {
			return true
		}
	}
	return false
}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the Principal stored by WithPrincipal.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

// Install binds p to the request, both in Locals and in the user context.
func Install(c *fiber.Ctx, p Principal) {
	c.Locals(LocalsKey, p)
	c.SetUserContext(WithPrincipal(c.UserContext(), p))
}

// FromRequest returns the Principal installed on the request, if any.
func FromRequest(c *fiber.Ctx) (Principal, bool) {
	p, ok := c.Locals(LocalsKey).(Principal)
	return p, ok
}
