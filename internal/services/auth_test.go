package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ddanilovs/chargekeeper/internal/common"
	"github.com/ddanilovs/chargekeeper/internal/models"
)

var testSecret = []byte("test-secret")

func setupAuthService(t *testing.T) (AuthService, *testRepos) {
	t.Helper()
	repos := setupRepos(t)
	return NewAuthService(repos.users, repos.metadata, testSecret, time.Hour), repos
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupAuthService(t)

	user, err := svc.Register(ctx, "alice", "alice@example.com", []byte("secret"))
	require.NoError(t, err)
	require.NotZero(t, user.ID)
	assert.Equal(t, "alice", user.UserName)

	// never the plaintext
	assert.NotEqual(t, "secret", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret")))
}

func TestRegisterMissingFields(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupAuthService(t)

	tests := []struct {
		name     string
		username string
		email    string
		password []byte
		field    string
	}{
		{"no username", "", "a@example.com", []byte("x"), "username"},
		{"blank username", "   ", "a@example.com", []byte("x"), "username"},
		{"no email", "alice", "", []byte("x"), "email"},
		{"no password", "alice", "a@example.com", nil, "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.username, tt.email, tt.password)
			var missing *models.MissingFieldError
			require.True(t, errors.As(err, &missing))
			assert.Equal(t, tt.field, missing.Field)
		})
	}
}

func TestRegisterDuplicate(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupAuthService(t)

	_, err := svc.Register(ctx, "alice", "alice@example.com", []byte("secret"))
	require.NoError(t, err)

	_, err = svc.Register(ctx, "alice", "other@example.com", []byte("secret"))
	assert.ErrorIs(t, err, common.ErrAlreadyExists)
}

func TestLoginAndCurrentUser(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupAuthService(t)

	registered, err := svc.Register(ctx, "alice", "alice@example.com", []byte("secret"))
	require.NoError(t, err)

	logged, err := svc.Login(ctx, "alice", []byte("secret"))
	require.NoError(t, err)
	assert.Equal(t, registered.ID, logged.ID)

	// the session token is persisted, so a later call restores the user
	current, err := svc.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, current.ID)
	assert.Equal(t, "alice", current.UserName)
}

func TestLoginWrongPassword(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupAuthService(t)

	_, err := svc.Register(ctx, "alice", "alice@example.com", []byte("secret"))
	require.NoError(t, err)

	_, err = svc.Login(ctx, "alice", []byte("wrong"))
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestLoginUnknownUser(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupAuthService(t)

	_, err := svc.Login(ctx, "nobody", []byte("secret"))
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestCurrentUserNoSession(t *testing.T) {
	svc, _ := setupAuthService(t)

	_, err := svc.CurrentUser(context.Background())
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestCurrentUserGarbageTokenIsCleared(t *testing.T) {
	ctx := context.Background()
	svc, repos := setupAuthService(t)

	require.NoError(t, repos.metadata.Set(ctx, common.SessionTokenKey, []byte("not-a-token")))

	_, err := svc.CurrentUser(ctx)
	assert.ErrorIs(t, err, common.ErrUnauthorized)

	// the broken token was removed
	_, err = repos.metadata.Get(ctx, common.SessionTokenKey)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupAuthService(t)

	_, err := svc.Register(ctx, "alice", "alice@example.com", []byte("secret"))
	require.NoError(t, err)
	_, err = svc.Login(ctx, "alice", []byte("secret"))
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx))

	_, err = svc.CurrentUser(ctx)
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}
