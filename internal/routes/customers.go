package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/congo-pay/customer_auth/internal/auth"
)

// RegisterCustomerRoutes wires endpoints that need an authenticated customer.
// r is expected to be the /customers group guarded by RequireAuthenticated.
func RegisterCustomerRoutes(r fiber.Router, h *auth.Handler) {
	r.Get("/me", h.Me)
}
