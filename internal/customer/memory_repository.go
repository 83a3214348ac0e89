package customer

import (
	"context"
	"sync"
)

type memoryRepository struct {
	mu        sync.RWMutex
	customers map[string]Customer
}

// NewMemoryRepository builds an in-memory customer store for tests and local runs.
func NewMemoryRepository() Repository {
	return &memoryRepository{customers: make(map[string]Customer)}
}

func (r *memoryRepository) Create(_ context.Context, c Customer) (Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.customers[c.PhoneNumber]; exists {
		return Customer{}, ErrDuplicatePhoneNumber
	}
	r.customers[c.PhoneNumber] = c
	return c, nil
}

func (r *memoryRepository) FindByPhoneNumber(_ context.Context, phone string) (Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.customers[phone]
	if !ok {
		return Customer{}, ErrNotFound
	}
	return c, nil
}

func (r *memoryRepository) ExistsByPhoneNumber(_ context.Context, phone string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.customers[phone]
	return ok, nil
}
