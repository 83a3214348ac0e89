package customer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Service manages the customer lifecycle and verifies login credentials.
type Service struct {
	repo Repository
	cost int
	// decoy is compared against when the phone number is unknown so both
	// failure paths spend a bcrypt comparison.
	decoy []byte
}

// NewService creates a customer service hashing passwords at the given bcrypt cost.
func NewService(repo Repository, cost int) (*Service, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	decoy, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), cost)
	if err != nil {
		return nil, fmt.Errorf("prepare decoy hash: %w", err)
	}
	return &Service{repo: repo, cost: cost, decoy: decoy}, nil
}

// Create hashes the password and stores a new customer.
func (s *Service) Create(ctx context.Context, in NewCustomer) (Customer, error) {
	if in.Password == "" {
		return Customer{}, errors.New("password is required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return Customer{}, fmt.Errorf("hash password: %w", err)
	}

	c := Customer{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(in.Name),
		PhoneNumber:  in.PhoneNumber,
		PasswordHash: hash,
		Address:      strings.TrimSpace(in.Address),
		Role:         DefaultRole,
		CreatedAt:    time.Now().UTC(),
	}
	return s.repo.Create(ctx, c)
}

// FindByPhoneNumber loads a customer; ErrNotFound when absent.
func (s *Service) FindByPhoneNumber(ctx context.Context, phone string) (Customer, error) {
	return s.repo.FindByPhoneNumber(ctx, phone)
}

// ExistsByPhoneNumber reports whether phone is already registered.
func (s *Service) ExistsByPhoneNumber(ctx context.Context, phone string) (bool, error) {
	return s.repo.ExistsByPhoneNumber(ctx, phone)
}

// Verify checks a phone number and password pair. Unknown phone numbers and
// wrong passwords both yield ErrInvalidCredentials.
func (s *Service) Verify(ctx context.Context, phone, password string) (Customer, error) {
	c, err := s.repo.FindByPhoneNumber(ctx, phone)
	if errors.Is(err, ErrNotFound) {
		_ = bcrypt.CompareHashAndPassword(s.decoy, []byte(password))
		return Customer{}, ErrInvalidCredentials
	}
	if err != nil {
		return Customer{}, err
	}

	if err := bcrypt.CompareHashAndPassword(c.PasswordHash, []byte(password)); err != nil {
		return Customer{}, ErrInvalidCredentials
	}
	return c, nil
}
