// Package users provides durable storage for user accounts.
package users

import (
	"context"

	"github.com/ddanilovs/chargekeeper/internal/models"
)

// Repository describes storage operations for user accounts.
// Implementations are backed by a local SQLite database on devices or by
// PostgreSQL in a hosted deployment.
type Repository interface {
	// Create persists a new user, assigning its ID and creation timestamp.
	// It fails with common.ErrAlreadyExists if the username or email is
	// already taken.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByUsername returns the user with the given username, or
	// common.ErrNotFound.
	GetByUsername(ctx context.Context, username string) (*models.User, error)

	// GetByID returns the user with the given id, or common.ErrNotFound.
	GetByID(ctx context.Context, id int64) (*models.User, error)
}
