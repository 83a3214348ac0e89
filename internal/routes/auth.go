package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/congo-pay/customer_auth/internal/auth"
)

// RegisterAuthRoutes wires the public login and registration endpoints.
func RegisterAuthRoutes(r fiber.Router, h *auth.Handler, rateLimiter, idempotency fiber.Handler) {
	group := r.Group("/auth")
	group.Post("/login", chain(rateLimiter, h.Login)...)
	group.Post("/register", chain(idempotency, h.Register)...)
}

func chain(mw fiber.Handler, h fiber.Handler) []fiber.Handler {
	if mw == nil {
		return []fiber.Handler{h}
	}
	return []fiber.Handler{mw, h}
}
