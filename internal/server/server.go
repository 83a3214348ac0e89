package server

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/congo-pay/customer_auth/internal/config"
	"github.com/congo-pay/customer_auth/internal/logging"
	"github.com/congo-pay/customer_auth/internal/metrics"
	"github.com/congo-pay/customer_auth/internal/routes"
)

// Server wraps the Fiber application and shared dependencies.
type Server struct {
	app   *fiber.App
	cfg   config.Config
	db    *pgxpool.Pool
	cache *redis.Client
}

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

// New instantiates the HTTP server and delegates route wiring to routes.Setup.
func New(cfg config.Config, db *pgxpool.Pool, cache *redis.Client, logger *slog.Logger) (*Server, error) {
	return newServer(cfg, db, cache, logger, nil)
}

func newServer(cfg config.Config, db *pgxpool.Pool, cache *redis.Client, logger *slog.Logger, m *metrics.Auth) (*Server, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		ErrorHandler: ErrorHandler(logger),
	})

	if err := routes.Setup(app, routes.Deps{Cfg: cfg, DB: db, Cache: cache, Logger: logger, Metrics: m}); err != nil {
		return nil, err
	}

	return &Server{app: app, cfg: cfg, db: db, cache: cache}, nil
}

// ErrorHandler renders errors as {message, status}. Errors that are not a
// *fiber.Error become an opaque 500.
func ErrorHandler(logger *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		body := ErrorBody{Message: "internal server error", Status: fiber.StatusInternalServerError}
		var fe *fiber.Error
		if errors.As(err, &fe) {
			body = ErrorBody{Message: fe.Message, Status: fe.Code}
		} else {
			logging.FromContext(c.UserContext(), logger).Error("unhandled error", slog.Any("error", err))
		}
		return c.Status(body.Status).JSON(body)
	}
}

// App exposes the underlying Fiber app, mainly for app.Test in tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen starts the HTTP server.
func (s *Server) Listen() error {
	return s.app.Listen(s.cfg.Address())
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}
