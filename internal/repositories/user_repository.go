package repositories

import (
	"context"

	"catalog/internal/models"
)

// UserRepository defines the interface for user data access.
//
// Save assigns the identifier on the passed response. Two strategies implement it:
// GORMUserRepository takes the id from the table's key, MemoryUserRepository from a Sequence.
type UserRepository interface {
	Save(ctx context.Context, user *models.UserResponse) error
	FindByEmail(ctx context.Context, email string) (*models.UserResponse, error)
}
