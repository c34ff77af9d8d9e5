package storage

import (
	"context"

	"github.com/iudanet/celar/internal/models"
)

// UserStorage defines interface for user data persistence
type UserStorage interface {
	// CreateUser creates a new user in the storage.
	// The username primary key is the only uniqueness guard: the insert either
	// succeeds or fails with ErrUserAlreadyExists, there is no separate lookup.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByUsername retrieves user by username
	// Returns ErrUserNotFound if user doesn't exist
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// ListUsers returns up to limit users ordered by username
	ListUsers(ctx context.Context, limit int) ([]*models.User, error)
}
