package routes

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/congo-pay/customer_auth/internal/auth"
	"github.com/congo-pay/customer_auth/internal/config"
	"github.com/congo-pay/customer_auth/internal/customer"
	"github.com/congo-pay/customer_auth/internal/logging"
	"github.com/congo-pay/customer_auth/internal/metrics"
	"github.com/congo-pay/customer_auth/internal/middleware"
	"github.com/congo-pay/customer_auth/internal/notification"
	"github.com/congo-pay/customer_auth/internal/token"
)

const metricsNamespace = "customer_auth"

// Deps aggregates shared dependencies required to wire routes.
// DB and Cache may be nil in development; Metrics defaults to a fresh registry.
type Deps struct {
	Cfg     config.Config
	DB      *pgxpool.Pool
	Cache   *redis.Client
	Logger  *slog.Logger
	Metrics *metrics.Auth
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	// Enforce DB/Redis presence outside of dev, even though config also checks.
	if !d.Cfg.IsDev() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}
	if d.Logger == nil {
		d.Logger = logging.Discard()
	}
	if d.Metrics == nil {
		d.Metrics = metrics.New(metricsNamespace)
	}

	// Middlewares
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	// Plain text access log in desired format: [HH:MM:SS] 200 -  145ms METHOD /path
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))
	app.Use(middleware.Audit(d.Logger))
	if len(d.Cfg.CORSOrigins) > 0 {
		app.Use(cors.New(cors.Config{
			AllowOrigins: strings.Join(d.Cfg.CORSOrigins, ","),
			AllowHeaders: "Origin, Content-Type, Accept, Authorization, Idempotency-Key, X-Request-ID",
			AllowMethods: "GET,POST,OPTIONS",
		}))
	}

	// Health and metrics
	RegisterHealthRoutes(app, d)
	app.Get("/metrics", adaptor.HTTPHandler(d.Metrics.Handler()))

	// Services and handlers
	var customerRepo customer.Repository
	if d.DB != nil {
		customerRepo = customer.NewPostgresRepository(d.DB)
	} else {
		customerRepo = customer.NewMemoryRepository()
	}
	customerSvc, err := customer.NewService(customerRepo, d.Cfg.BcryptCost)
	if err != nil {
		return err
	}
	codec, err := token.NewCodec([]byte(d.Cfg.JWTSecret), d.Cfg.TokenTTL, token.WithIssuer(d.Cfg.JWTIssuer))
	if err != nil {
		return err
	}
	authSvc := auth.NewService(auth.Deps{
		Verifier:  customerSvc,
		Customers: customerSvc,
		Tokens:    codec,
		Notifier:  notification.NewLoggerNotifier(d.Logger),
		Metrics:   d.Metrics,
		Logger:    d.Logger,
	})
	authHandler := auth.NewHandler(authSvc)

	// Every request passes the bearer token filter; anonymous requests continue.
	app.Use(middleware.Authenticate(codec, customerSvc, d.Logger, d.Metrics))

	// Public routes
	rateLimiter := middleware.LoginRateLimit(d.Cache, d.Cfg.LoginAttemptsPerMinute)
	idempotency := middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger)
	RegisterAuthRoutes(app, authHandler, rateLimiter, idempotency)

	// Protected routes
	protected := app.Group("/customers", middleware.RequireAuthenticated())
	RegisterCustomerRoutes(protected, authHandler)

	return nil
}
