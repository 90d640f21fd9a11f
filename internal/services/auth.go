// Package services contains the application services sitting between the CLI
// and the repositories: authentication/session handling and schedule
// management. The CLI never reaches repositories directly.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/ddanilovs/chargekeeper/internal/auth"
	"github.com/ddanilovs/chargekeeper/internal/common"
	"github.com/ddanilovs/chargekeeper/internal/models"
	"github.com/ddanilovs/chargekeeper/internal/repositories/metadata"
	"github.com/ddanilovs/chargekeeper/internal/repositories/users"
)

// AuthService defines account and session operations for the CLI.
//
// Contract:
//   - Register: create a new account; the password is stored only as a
//     bcrypt hash.
//   - Login: verify credentials and persist a signed session token so the
//     session survives restarts.
//   - CurrentUser: rehydrate the logged-in user from the stored token.
//   - Logout: drop the stored session.
//
// All methods must honor context cancellation/timeouts.
type AuthService interface {
	Register(ctx context.Context, username, email string, password []byte) (*models.User, error)
	Login(ctx context.Context, username string, password []byte) (*models.User, error)
	CurrentUser(ctx context.Context) (*models.User, error)
	Logout(ctx context.Context) error
}

// authService is the concrete AuthService backed by the user repository and
// the local metadata store.
type authService struct {
	users         users.Repository
	metadata      metadata.Repository
	secretKey     []byte
	tokenValidity time.Duration
}

// NewAuthService constructs an AuthService over the given repositories.
func NewAuthService(u users.Repository, m metadata.Repository, secretKey []byte, tokenValidity time.Duration) AuthService {
	return &authService{users: u, metadata: m, secretKey: secretKey, tokenValidity: tokenValidity}
}

// Register creates a new account. Duplicate usernames or emails surface as
// common.ErrAlreadyExists from the repository; no partial row is persisted.
func (a *authService) Register(ctx context.Context, username, email string, password []byte) (*models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if username == "" {
		return nil, &models.MissingFieldError{Field: "username"}
	}
	if email == "" {
		return nil, &models.MissingFieldError{Field: "email"}
	}
	if len(password) == 0 {
		return nil, &models.MissingFieldError{Field: "password"}
	}

	hash, err := bcrypt.GenerateFromPassword(password, bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		UserName:     username,
		Email:        email,
		PasswordHash: string(hash),
	}

	user, err = a.users.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return user, nil
}

// Login verifies the credentials and persists a fresh session token.
// Unknown usernames and wrong passwords both map to common.ErrUnauthorized.
func (a *authService) Login(ctx context.Context, username string, password []byte) (*models.User, error) {
	user, err := a.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), password) != nil {
		return nil, common.ErrUnauthorized
	}

	token, err := auth.GenerateToken(user.ID, a.secretKey, a.tokenValidity)
	if err != nil {
		return nil, common.ErrInternal
	}

	if err := a.metadata.Set(ctx, common.SessionTokenKey, []byte(token)); err != nil {
		return nil, fmt.Errorf("error saving session: %w", err)
	}

	return user, nil
}

// CurrentUser restores the session from the stored token. A missing,
// expired, or invalid token yields common.ErrUnauthorized; expired and
// invalid tokens are also cleared so the next call is cheap.
func (a *authService) CurrentUser(ctx context.Context) (*models.User, error) {
	token, err := a.metadata.Get(ctx, common.SessionTokenKey)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized
		}
		return nil, fmt.Errorf("error reading session: %w", err)
	}

	userID, err := auth.GetUserIDFromToken(string(token), a.secretKey)
	if err != nil {
		_ = a.metadata.Delete(ctx, common.SessionTokenKey)
		return nil, common.ErrUnauthorized
	}

	user, err := a.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}

	return user, nil
}

// Logout drops the stored session token.
func (a *authService) Logout(ctx context.Context) error {
	return a.metadata.Delete(ctx, common.SessionTokenKey)
}
