package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/congo-pay/customer_auth/internal/auth"
	"github.com/congo-pay/customer_auth/internal/customer"
	"github.com/congo-pay/customer_auth/internal/logging"
	"github.com/congo-pay/customer_auth/internal/metrics"
	"github.com/congo-pay/customer_auth/internal/token"
)

const bearerPrefix = "bearer "

// TokenDecoder is the subset of token.Codec used by the filter.
type TokenDecoder interface {
	ExtractSubject(raw string) (string, error)
	IsValid(raw string, c customer.Customer) bool
}

// CustomerLookup resolves a token subject to a customer.
type CustomerLookup interface {
	FindByPhoneNumber(ctx context.Context, phone string) (customer.Customer, error)
}

// Authenticate resolves an optional bearer token to a Principal.
//
// A missing header, another scheme, or a token that fails to decode leaves the
// request anonymous and passes it on. A token that decodes but cannot be tied
// to a known customer aborts the request with 401. An already installed
// Principal is never replaced.
func Authenticate(tokens TokenDecoder, customers CustomerLookup, logger *slog.Logger, m *metrics.Auth) fiber.Handler {
	if logger == nil {
		logger = logging.Discard()
	}
	return func(c *fiber.Ctx) error {
		log := logging.FromContext(c.UserContext(), logger)

		raw, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			m.IncFilter(metrics.OutcomeAnonymous, "no_bearer")
			log.Debug("no bearer token, continuing anonymously")
			return c.Next()
		}

		phone, err := tokens.ExtractSubject(raw)
		if err != nil {
			kind := token.KindOf(err)
			m.IncFilter(metrics.OutcomeAnonymous, string(kind))
			log.Info("bearer token ignored", slog.String("kind", string(kind)), slog.String("error", err.Error()))
			return c.Next()
		}

		if _, already := auth.FromRequest(c); already {
			m.IncFilter(metrics.OutcomeSkipped, "")
			return c.Next()
		}

		cust, err := customers.FindByPhoneNumber(c.UserContext(), phone)
		if err != nil {
			if errors.Is(err, customer.ErrNotFound) {
				return reject(c, log, m)
			}
			m.IncFilter(metrics.OutcomeError, "")
			return fmt.Errorf("load customer for token: %w", err)
		}

		if !tokens.IsValid(raw, cust) {
			return reject(c, log, m)
		}

		auth.Install(c, auth.NewPrincipal(cust))
		m.IncFilter(metrics.OutcomeSuccess, "")
		return c.Next()
	}
}

// RequireAuthenticated rejects anonymous requests. Mount it after Authenticate.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := auth.FromRequest(c); !ok {
			return fiber.NewError(http.StatusUnauthorized, "authentication required")
		}
		return c.Next()
	}
}

// RequireAuthority rejects requests whose Principal lacks authority.
func RequireAuthority(authority string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, ok := auth.FromRequest(c)
		if !ok {
			return fiber.NewError(http.StatusUnauthorized, "authentication required")
		}
		if !p.HasAuthority(authority) {
			return fiber.NewError(http.StatusForbidden, "forbidden")
		}
		return c.Next()
	}
}

func reject(c *fiber.Ctx, log *slog.Logger, m *metrics.Auth) error {
	m.IncFilter(metrics.OutcomeRejected, "")
	log.Info("bearer token rejected", slog.String("path", c.Path()))
	return fiber.NewError(http.StatusUnauthorized, auth.ErrAuthenticationRejected.Error())
}

func bearerToken(header string) (string, bool) {
	if len(header) < len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return "", false
	}
	return strings.TrimSpace(header[len(bearerPrefix):]), true
}
