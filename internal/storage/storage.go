// Package storage opens the persistent store, applies migrations, and bundles
// the per-entity repositories for injection into services. The store instance
// is constructed explicitly by the application root and closed by it; there is
// no global singleton or lazy init.
package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"

	// Registers the "sqlite" driver (pure Go).
	_ "modernc.org/sqlite"

	// Registers the "pgx" driver.
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/pressly/goose/v3"

	"github.com/ddanilovs/chargekeeper/internal/common"
	"github.com/ddanilovs/chargekeeper/internal/logging"
	"github.com/ddanilovs/chargekeeper/internal/repositories/metadata"
	"github.com/ddanilovs/chargekeeper/internal/repositories/schedules"
	"github.com/ddanilovs/chargekeeper/internal/repositories/users"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationsFS embed.FS

// Store owns the database handle and exposes the repositories bound to it.
type Store struct {
	db *sql.DB

	Users     users.Repository
	Schedules schedules.Repository
	Metadata  metadata.Repository
}

// Open connects to the database described by dsn, applies migrations, and
// returns a ready Store. DSNs starting with postgres:// (or postgresql://)
// select the PostgreSQL backend; anything else is treated as a SQLite file
// path.
func Open(ctx context.Context, dsn string, logger logging.Logger) (*Store, error) {
	if isPostgresDSN(dsn) {
		logger.Info(ctx, "opening store", "engine", "postgres")
		return openPostgres(ctx, dsn)
	}
	logger.Info(ctx, "opening store", "engine", "sqlite", "path", dsn)
	return openSQLite(ctx, dsn)
}

func isPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

func openSQLite(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	// SQLite is a single-writer engine; one connection avoids SQLITE_BUSY
	// and makes write ordering trivial.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := applyPragmas(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	if err := runMigrations(ctx, db, "sqlite3", "migrations/sqlite"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	return &Store{
		db:        db,
		Users:     users.NewSQLiteRepository(db),
		Schedules: schedules.NewSQLiteRepository(db),
		Metadata:  metadata.NewSQLiteRepository(db),
	}, nil
}

func openPostgres(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	if err := runMigrations(ctx, db, "postgres", "migrations/postgres"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	return &Store{
		db:        db,
		Users:     users.NewPostgresRepository(db),
		Schedules: schedules.NewPostgresRepository(db),
		Metadata:  metadata.NewPostgresRepository(db),
	}, nil
}

// applyPragmas configures the SQLite connection for durability and
// referential integrity.
func applyPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA foreign_keys=ON;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

func runMigrations(ctx context.Context, db *sql.DB, dialect, dir string) error {
	goose.SetBaseFS(migrationsFS)

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, dir)
}

// DB exposes the raw handle for transactional service helpers.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close releases the underlying database resources. Using the Store after
// Close fails; Close itself reports common.ErrStorageUnavailable when called
// twice.
func (s *Store) Close() error {
	if s.db == nil {
		return common.ErrStorageUnavailable
	}
	err := s.db.Close()
	s.db = nil
	return err
}
