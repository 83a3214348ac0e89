package customer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

// Repository persists customers. Create must enforce phone number uniqueness
// atomically and report a clash as ErrDuplicatePhoneNumber.
type Repository interface {
	Create(ctx context.Context, c Customer) (Customer, error)
	FindByPhoneNumber(ctx context.Context, phone string) (Customer, error)
	ExistsByPhoneNumber(ctx context.Context, phone string) (bool, error)
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed customer repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new customer.
func (r *PostgresRepository) Create(ctx context.Context, c Customer) (Customer, error) {
	id, err := uuid.Parse(c.ID)
	if err != nil {
		return Customer{}, fmt.Errorf("customer id: %w", err)
	}
	_, err = r.db.Exec(ctx, `INSERT INTO customers (id, name, phone_number, password_hash, address, role, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)`, id, c.Name, c.PhoneNumber, c.PasswordHash, c.Address, c.Role, c.CreatedAt.UTC())
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return Customer{}, ErrDuplicatePhoneNumber
		}
		return Customer{}, fmt.Errorf("insert customer: %w", err)
	}
	return c, nil
}

// FindByPhoneNumber fetches a customer by phone number.
func (r *PostgresRepository) FindByPhoneNumber(ctx context.Context, phone string) (Customer, error) {
	row := r.db.QueryRow(ctx, `SELECT id, name, phone_number, password_hash, address, role, created_at
        FROM customers WHERE phone_number = $1`, phone)
	var (
		id        uuid.UUID
		createdAt time.Time
		c         Customer
	)
	if err := row.Scan(&id, &c.Name, &c.PhoneNumber, &c.PasswordHash, &c.Address, &c.Role, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Customer{}, ErrNotFound
		}
		return Customer{}, fmt.Errorf("select customer: %w", err)
	}
	c.ID = id.String()
	c.CreatedAt = createdAt.UTC()
	return c, nil
}

// ExistsByPhoneNumber reports whether the phone number is registered.
func (r *PostgresRepository) ExistsByPhoneNumber(ctx context.Context, phone string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM customers WHERE phone_number = $1)`, phone).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check customer: %w", err)
	}
	return exists, nil
}
