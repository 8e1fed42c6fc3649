package repositories

import (
	"context"
	"sync"
	"time"

	"catalog/internal/errs"
	"catalog/internal/models"
)

// MemoryUserRepository is an in-memory implementation of UserRepository.
// Every save draws a fresh identifier from a Sequence; an email resolves to the user saved
// last under it.
type MemoryUserRepository struct {
	byEmail map[string]models.UserResponse
	ids     *Sequence
	mu      sync.RWMutex
}

// NewMemoryUserRepository creates a new instance of MemoryUserRepository.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		byEmail: make(map[string]models.UserResponse),
		ids:     NewSequence(FirstUserID),
	}
}

// Save assigns user.ID and keeps a copy for lookups by email.
func (r *MemoryUserRepository) Save(_ context.Context, user *models.UserResponse) error {
	if user == nil {
		return errs.InvalidArgument("user must not be nil")
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.ids.Next()
	user.ID = &id
	if user.Email != "" {
		r.byEmail[user.Email] = *user
	}
	return nil
}

// FindByEmail returns a copy of the user saved last under email.
func (r *MemoryUserRepository) FindByEmail(_ context.Context, email string) (*models.UserResponse, error) {
	if email == "" {
		return nil, errs.InvalidArgument("email must not be empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byEmail[email]
	if !ok {
		return nil, errs.NotFound("user", "email", email)
	}
	id := *user.ID
	user.ID = &id
	return &user, nil
}
