package middleware

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/congo-pay/customer_auth/internal/auth"
	"github.com/congo-pay/customer_auth/internal/logging"
)

// Audit emits one structured log line per request once the chain returns.
func Audit(logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}

		attrs := []any{
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Int("status", status),
			slog.Duration("duration", time.Since(start)),
		}
		if p, ok := auth.FromRequest(c); ok {
			attrs = append(attrs, slog.String("customer_id", p.Customer.ID))
		}

		log := logging.FromContext(c.UserContext(), logger)
		switch {
		case status >= fiber.StatusInternalServerError:
			if err != nil {
				attrs = append(attrs, slog.Any("error", err))
			}
			log.Error("request completed", attrs...)
		case status >= fiber.StatusBadRequest:
			log.Warn("request completed", attrs...)
		default:
			log.Info("request completed", attrs...)
		}
		return err
	}
}
