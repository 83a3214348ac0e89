package auth

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes the login, registration and profile endpoints.
type Handler struct {
	svc *Service
}

// NewHandler builds an auth HTTP handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Login validates credentials and returns a signed token.
func (h *Handler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid request body")
	}
	res, err := h.svc.Login(c.UserContext(), req)
	if err != nil {
		return toHTTPError(err)
	}
	return c.Status(http.StatusOK).JSON(res)
}

// Register creates a customer account.
func (h *Handler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid request body")
	}
	res, err := h.svc.Register(c.UserContext(), req)
	if err != nil {
		return toHTTPError(err)
	}
	return c.Status(http.StatusCreated).JSON(res)
}

// Me returns the authenticated customer's public profile.
func (h *Handler) Me(c *fiber.Ctx) error {
	p, ok := FromRequest(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"customer":    p.Customer.Public(),
		"authorities": p.Authorities,
	})
}

func toHTTPError(err error) error {
	switch {
	case errors.Is(err, ErrInvalidLoginCredentials):
		return fiber.NewError(http.StatusUnauthorized, ErrInvalidLoginCredentials.Error())
	case errors.Is(err, ErrDuplicateCustomer):
		return fiber.NewError(http.StatusConflict, ErrDuplicateCustomer.Error())
	case errors.Is(err, ErrInvalidPhoneNumber):
		return fiber.NewError(http.StatusBadRequest, ErrInvalidPhoneNumber.Error())
	case errors.Is(err, ErrInvalidRegistration):
		return fiber.NewError(http.StatusBadRequest, err.Error())
	default:
		return err
	}
}
