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

// SQLiteRepository implements Repository over a local SQLite database.
// Timestamps are stored as unix seconds.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository returns a SQLiteRepository bound to the given handle.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Create inserts a new user row. The uniqueness pre-checks and the insert run
// in one transaction; the UNIQUE indexes remain as a backstop.
func (r *SQLiteRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	created := time.Now().UTC().Truncate(time.Second)

	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var exists int
		if err := tx.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM users WHERE username = ?)`, user.UserName,
		).Scan(&exists); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		if exists != 0 {
			return fmt.Errorf("username %q: %w", user.UserName, common.ErrAlreadyExists)
		}

		if err := tx.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM users WHERE email = ?)`, user.Email,
		).Scan(&exists); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		if exists != 0 {
			return fmt.Errorf("email %q: %w", user.Email, common.ErrAlreadyExists)
		}

		res, err := tx.ExecContext(ctx,
			`INSERT INTO users (username, email, password_hash, created_at)
			 VALUES (?, ?, ?, ?)`,
			user.UserName, user.Email, user.PasswordHash, created.Unix(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert user: %w", err)
		}

		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get inserted id: %w", err)
		}

		user.ID = id
		user.CreatedAt = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// GetByUsername returns a user by username.
func (r *SQLiteRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getOne(ctx,
		`SELECT id, username, email, password_hash, created_at FROM users WHERE username = ?`,
		username)
}

// GetByID returns a user by id.
func (r *SQLiteRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getOne(ctx,
		`SELECT id, username, email, password_hash, created_at FROM users WHERE id = ?`,
		id)
}

func (r *SQLiteRepository) getOne(ctx context.Context, query string, arg any) (*models.User, error) {
	user := &models.User{}
	var createdAt int64

	err := r.db.QueryRowContext(ctx, query, arg).
		Scan(&user.ID, &user.UserName, &user.Email, &user.PasswordHash, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	user.CreatedAt = time.Unix(createdAt, 0).UTC()
	return user, nil
}

// compile-time interface check
var _ Repository = (*SQLiteRepository)(nil)
