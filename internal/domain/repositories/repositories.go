// Package repositories defines the contracts between the domain services
// and the infrastructure layer.
package repositories

import (
	"context"

	"github.com/ynvYauneEnovore/auth-service/internal/domain/entities"
)

// UserRepository persists user accounts.
type UserRepository interface {
	CreateUser(ctx context.Context, user *entities.User) error
	GetUserByEmail(ctx context.Context, email string) (*entities.User, error)
	GetUserByID(ctx context.Context, id string) (*entities.User, error)
}

// SessionRepository persists refresh-token sessions.
type SessionRepository interface {
	CreateSession(ctx context.Context, session *entities.Session) error
	GetSessionByTokenHash(ctx context.Context, tokenHash string) (*entities.Session, error)
	RevokeSession(ctx context.Context, id string) error
	RevokeUserSessions(ctx context.Context, userID string) error
}

// TokenRepository issues and validates access tokens.
type TokenRepository interface {
	IssueAccessToken(ctx context.Context, user *entities.User) (token string, expiresIn int64, err error)
	ValidateAccessToken(ctx context.Context, token string) (*entities.Principal, error)
}

// EventPublisher publishes audit events. Publishing is fire-and-forget:
// a failure must never fail the request that produced the event.
type EventPublisher interface {
	Publish(ctx context.Context, event *entities.Event) error
	Close() error
}

// HealthChecker is implemented by every dependency the readiness monitor
// tracks.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
