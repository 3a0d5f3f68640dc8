// Package sqlite implements the user and session repositories on an
// embedded SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/ynvYauneEnovore/auth-service/internal/domain/entities"
	"github.com/ynvYauneEnovore/auth-service/pkg/constants"
)

// Store provides user and session persistence backed by SQLite.
//
// The database runs in WAL mode with a single writer connection, which is
// all a single-instance deployment needs. Store also implements the
// HealthChecker contract: the readiness monitor pings the database through
// it on every sweep.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewStore opens (or creates) the database at path and initializes the
// schema. Use ":memory:" for an ephemeral in-process database.
func NewStore(path string, logger *slog.Logger) (*Store, error) {
	dsn := path
	if path != ":memory:" {
		dsn = fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL", path)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", constants.ErrOpenDatabase, err)
	}

	// SQLite only supports a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	store := &Store{
		db:     db,
		logger: logger.With("component", "storage"),
	}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: %w", constants.ErrInitSchema, err)
	}

	return store, nil
}

// initSchema creates the database schema if it doesn't exist.
func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id),
		refresh_token_hash TEXT NOT NULL UNIQUE,
		expires_at INTEGER NOT NULL,
		created_at INTEGER NOT NULL,
		revoked_at INTEGER
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_user_id ON sessions(user_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// CreateUser inserts a new user.
func (s *Store) CreateUser(ctx context.Context, user *entities.User) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		user.ID, user.Email, user.PasswordHash, user.CreatedAt.Unix(), user.UpdatedAt.Unix(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return errors.New(constants.ErrEmailTaken)
		}
		return err
	}
	return nil
}

// GetUserByEmail returns the user with the given email, or nil when absent.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, created_at, updated_at FROM users WHERE email = ?`, email))
}

// GetUserByID returns the user with the given ID, or nil when absent.
func (s *Store) GetUserByID(ctx context.Context, id string) (*entities.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, created_at, updated_at FROM users WHERE id = ?`, id))
}

func (s *Store) scanUser(row *sql.Row) (*entities.User, error) {
	var user entities.User
	var createdAt, updatedAt int64

	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	user.CreatedAt = time.Unix(createdAt, 0).UTC()
	user.UpdatedAt = time.Unix(updatedAt, 0).UTC()
	return &user, nil
}

// CreateSession inserts a new refresh-token session.
func (s *Store) CreateSession(ctx context.Context, session *entities.Session) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, user_id, refresh_token_hash, expires_at, created_at) VALUES (?, ?, ?, ?, ?)`,
		session.ID, session.UserID, session.RefreshTokenHash, session.ExpiresAt.Unix(), session.CreatedAt.Unix(),
	)
	return err
}

// GetSessionByTokenHash returns the session matching the refresh token
// digest, or nil when absent.
func (s *Store) GetSessionByTokenHash(ctx context.Context, tokenHash string) (*entities.Session, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, refresh_token_hash, expires_at, created_at, revoked_at FROM sessions WHERE refresh_token_hash = ?`,
		tokenHash)

	var session entities.Session
	var expiresAt, createdAt int64
	var revokedAt sql.NullInt64

	err := row.Scan(&session.ID, &session.UserID, &session.RefreshTokenHash, &expiresAt, &createdAt, &revokedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	session.ExpiresAt = time.Unix(expiresAt, 0).UTC()
	session.CreatedAt = time.Unix(createdAt, 0).UTC()
	if revokedAt.Valid {
		t := time.Unix(revokedAt.Int64, 0).UTC()
		session.RevokedAt = &t
	}

	return &session, nil
}

// RevokeSession marks a single session as revoked.
func (s *Store) RevokeSession(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE sessions SET revoked_at = ? WHERE id = ? AND revoked_at IS NULL`,
		time.Now().Unix(), id)
	return err
}

// RevokeUserSessions marks every active session of the user as revoked.
func (s *Store) RevokeUserSessions(ctx context.Context, userID string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE sessions SET revoked_at = ? WHERE user_id = ? AND revoked_at IS NULL`,
		time.Now().Unix(), userID)
	return err
}

// DeleteExpiredSessions removes sessions past their expiry. Called by the
// background cleanup task; returns the number of rows removed.
func (s *Store) DeleteExpiredSessions(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at < ?`, before.Unix())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// HealthCheck pings the database.
func (s *Store) HealthCheck(ctx context.Context) error {
	if s.db == nil {
		return fmt.Errorf("%s: database is not initialized", constants.ErrHealthCheck)
	}
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%s: %w", constants.ErrHealthCheck, err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
