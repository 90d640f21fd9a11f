package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ddanilovs/chargekeeper/internal/common"
	"github.com/ddanilovs/chargekeeper/internal/dbx"
	"github.com/ddanilovs/chargekeeper/internal/models"
)

// PostgresRepository implements Repository over PostgreSQL for hosted
// deployments of the store.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a PostgresRepository bound to the given handle.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new user row inside a transaction, pre-checking the
// unique fields so the caller gets common.ErrAlreadyExists instead of a
// driver-specific constraint error.
func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var exists bool
		if err := tx.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`, user.UserName,
		).Scan(&exists); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		if exists {
			return fmt.Errorf("username %q: %w", user.UserName, common.ErrAlreadyExists)
		}

		if err := tx.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, user.Email,
		).Scan(&exists); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		if exists {
			return fmt.Errorf("email %q: %w", user.Email, common.ErrAlreadyExists)
		}

		var (
			id      int64
			created time.Time
		)
		err := tx.QueryRowContext(ctx,
			`INSERT INTO users (username, email, password_hash)
			 VALUES ($1, $2, $3)
			 RETURNING id, created_at`,
			user.UserName, user.Email, user.PasswordHash,
		).Scan(&id, &created)
		if err != nil {
			return fmt.Errorf("failed to insert user: %w", err)
		}

		user.ID = id
		user.CreatedAt = created.UTC()
		return nil
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// GetByUsername returns a user by username.
func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getOne(ctx,
		`SELECT id, username, email, password_hash, created_at FROM users WHERE username = $1`,
		username)
}

// GetByID returns a user by id.
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getOne(ctx,
		`SELECT id, username, email, password_hash, created_at FROM users WHERE id = $1`,
		id)
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg any) (*models.User, error) {
	user := &models.User{}
	var createdAt time.Time

	err := r.db.QueryRowContext(ctx, query, arg).
		Scan(&user.ID, &user.UserName, &user.Email, &user.PasswordHash, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	user.CreatedAt = createdAt.UTC()
	return user, nil
}

// compile-time interface check
var _ Repository = (*PostgresRepository)(nil)
