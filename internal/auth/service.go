package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"golang.org/x/crypto/bcrypt"

	"github.com/congo-pay/customer_auth/internal/customer"
	"github.com/congo-pay/customer_auth/internal/logging"
	"github.com/congo-pay/customer_auth/internal/metrics"
	"github.com/congo-pay/customer_auth/internal/notification"
	"github.com/congo-pay/customer_auth/internal/token"
)

const phoneNumberLength = 10

var asciiDigits = regexp.MustCompile(`^[0-9]+$`)

// CredentialVerifier checks a phone number and password pair.
type CredentialVerifier interface {
	Verify(ctx context.Context, phone, password string) (customer.Customer, error)
}

// CustomerStore is the storage collaborator used by login and registration.
type CustomerStore interface {
	FindByPhoneNumber(ctx context.Context, phone string) (customer.Customer, error)
	ExistsByPhoneNumber(ctx context.Context, phone string) (bool, error)
	Create(ctx context.Context, in customer.NewCustomer) (customer.Customer, error)
}

// TokenIssuer signs tokens for a subject.
type TokenIssuer interface {
	Issue(subject string) (token.Issued, error)
}

// Service coordinates login and registration.
type Service struct {
	verifier  CredentialVerifier
	customers CustomerStore
	tokens    TokenIssuer
	notifier  notification.Notifier
	metrics   *metrics.Auth
	logger    *slog.Logger
}

// Deps groups Service collaborators. Notifier and Metrics are optional.
type Deps struct {
	Verifier  CredentialVerifier
	Customers CustomerStore
	Tokens    TokenIssuer
	Notifier  notification.Notifier
	Metrics   *metrics.Auth
	Logger    *slog.Logger
}

// NewService builds the login/registration orchestrator.
func NewService(d Deps) *Service {
	logger := d.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	return &Service{
		verifier:  d.Verifier,
		customers: d.Customers,
		tokens:    d.Tokens,
		notifier:  d.Notifier,
		metrics:   d.Metrics,
		logger:    logger,
	}
}

// Login verifies credentials, loads the customer and issues a token.
func (s *Service) Login(ctx context.Context, req LoginRequest) (LoginResult, error) {
	start := time.Now()
	logger := logging.FromContext(ctx, s.logger)

	if _, err := s.verifier.Verify(ctx, req.PhoneNumber, req.Password); err != nil {
		if errors.Is(err, customer.ErrInvalidCredentials) {
			s.metrics.ObserveLogin(metrics.OutcomeFailure, time.Since(start))
			logger.Warn("login rejected", slog.String("phone", notification.Mask(req.PhoneNumber)))
			return LoginResult{}, ErrInvalidLoginCredentials
		}
		s.metrics.ObserveLogin(metrics.OutcomeError, time.Since(start))
		return LoginResult{}, fmt.Errorf("verify credentials: %w", err)
	}

	c, err := s.customers.FindByPhoneNumber(ctx, req.PhoneNumber)
	if err != nil {
		if errors.Is(err, customer.ErrNotFound) {
			s.metrics.ObserveLogin(metrics.OutcomeFailure, time.Since(start))
			return LoginResult{}, ErrInvalidLoginCredentials
		}
		s.metrics.ObserveLogin(metrics.OutcomeError, time.Since(start))
		return LoginResult{}, fmt.Errorf("load customer: %w", err)
	}

	issued, err := s.tokens.Issue(c.PhoneNumber)
	if err != nil {
		s.metrics.ObserveLogin(metrics.OutcomeError, time.Since(start))
		return LoginResult{}, fmt.Errorf("issue token: %w", err)
	}

	s.metrics.ObserveLogin(metrics.OutcomeSuccess, time.Since(start))
	logger.Info("customer logged in", slog.String("customer_id", c.ID))

	return LoginResult{
		Message:     loginSucceeded,
		Status:      http.StatusOK,
		JWTToken:    issued.Token,
		ExpiresAt:   issued.ExpiresAt.Unix(),
		Name:        c.Name,
		PhoneNumber: c.PhoneNumber,
		Customer:    c.Public(),
	}, nil
}

// Register creates a customer. Checks run in order and the first failure wins:
// duplicate phone number, then length, then digits, then the rest of the body.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (RegistrationResult, error) {
	logger := logging.FromContext(ctx, s.logger)

	exists, err := s.customers.ExistsByPhoneNumber(ctx, req.PhoneNumber)
	if err != nil {
		s.metrics.IncRegistration(metrics.OutcomeError)
		return RegistrationResult{}, fmt.Errorf("check phone number: %w", err)
	}
	if exists {
		s.metrics.IncRegistration(metrics.OutcomeFailure)
		return RegistrationResult{}, ErrDuplicateCustomer
	}
	if err := validatePhoneNumber(req.PhoneNumber); err != nil {
		s.metrics.IncRegistration(metrics.OutcomeFailure)
		return RegistrationResult{}, err
	}
	if err := req.Validate(); err != nil {
		s.metrics.IncRegistration(metrics.OutcomeFailure)
		return RegistrationResult{}, fmt.Errorf("%w: %v", ErrInvalidRegistration, err)
	}

	created, err := s.customers.Create(ctx, customer.NewCustomer{
		Name:        req.Name,
		PhoneNumber: req.PhoneNumber,
		Password:    req.Password,
		Address:     req.Address,
	})
	if err != nil {
		switch {
		case errors.Is(err, customer.ErrDuplicatePhoneNumber):
			s.metrics.IncRegistration(metrics.OutcomeFailure)
			return RegistrationResult{}, ErrDuplicateCustomer
		case errors.Is(err, bcrypt.ErrPasswordTooLong):
			s.metrics.IncRegistration(metrics.OutcomeFailure)
			return RegistrationResult{}, fmt.Errorf("%w: password: the length must be no more than %d bytes", ErrInvalidRegistration, maxPasswordBytes)
		}
		s.metrics.IncRegistration(metrics.OutcomeError)
		return RegistrationResult{}, fmt.Errorf("create customer: %w", err)
	}

	s.metrics.IncRegistration(metrics.OutcomeSuccess)
	logger.Info("customer registered", slog.String("customer_id", created.ID))

	if s.notifier != nil {
		msg := notification.Message{
			Kind:        notification.KindCustomerRegistered,
			Destination: created.PhoneNumber,
			Body:        fmt.Sprintf("Welcome %s, your account is ready.", created.Name),
		}
		if err := s.notifier.Send(ctx, msg); err != nil {
			logger.Warn("registration notification failed", slog.Any("error", err))
		}
	}

	return RegistrationResult{
		Message:  registrationSucceeded,
		Status:   http.StatusCreated,
		Customer: created.Public(),
	}, nil
}

func validatePhoneNumber(phone string) error {
	if err := validation.Validate(phone, validation.Required, validation.Length(phoneNumberLength, phoneNumberLength)); err != nil {
		return ErrInvalidPhoneNumber
	}
	if err := validation.Validate(phone, validation.Match(asciiDigits)); err != nil {
		return ErrInvalidPhoneNumber
	}
	return nil
}
