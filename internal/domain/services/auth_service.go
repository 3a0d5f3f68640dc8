package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/ynvYauneEnovore/auth-service/internal/domain/entities"
	"github.com/ynvYauneEnovore/auth-service/internal/domain/repositories"
	"github.com/ynvYauneEnovore/auth-service/pkg/constants"
)

// Domain errors surfaced to the presentation layer. Handlers map these to
// HTTP status codes; everything else is an internal error.
var (
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrWeakPassword       = fmt.Errorf("password must be at least %d characters", constants.MinPasswordLength)
	ErrEmailTaken         = errors.New(constants.ErrEmailTaken)
	ErrInvalidCredentials = errors.New(constants.ErrInvalidCredentials)
	ErrInvalidSession     = errors.New(constants.ErrSessionNotFound)
)

// AuthMetrics records authentication outcomes. A nil recorder disables
// recording.
type AuthMetrics interface {
	RecordRegistration()
	RecordLogin(result string)
	RecordTokenIssued(tokenType string)
}

// AuthService implements the authentication flows: registration, login,
// token refresh with rotation, and logout.
type AuthService struct {
	users           repositories.UserRepository
	sessions        repositories.SessionRepository
	tokens          repositories.TokenRepository
	events          repositories.EventPublisher
	logger          *slog.Logger
	metrics         AuthMetrics
	refreshTokenTTL time.Duration
}

// NewAuthService creates a new auth service.
func NewAuthService(
	users repositories.UserRepository,
	sessions repositories.SessionRepository,
	tokens repositories.TokenRepository,
	events repositories.EventPublisher,
	logger *slog.Logger,
	metrics AuthMetrics,
	refreshTokenTTL time.Duration,
) *AuthService {
	return &AuthService{
		users:           users,
		sessions:        sessions,
		tokens:          tokens,
		events:          events,
		logger:          logger.With("component", "auth"),
		metrics:         metrics,
		refreshTokenTTL: refreshTokenTTL,
	}
}

// Register creates a new user account.
func (s *AuthService) Register(ctx context.Context, email, password string) (*entities.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrInvalidEmail
	}

	if len(password) < constants.MinPasswordLength {
		return nil, ErrWeakPassword
	}

	if existing, err := s.users.GetUserByEmail(ctx, email); err == nil && existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), constants.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &entities.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("%s: %w", constants.ErrCreateUser, err)
	}

	if s.metrics != nil {
		s.metrics.RecordRegistration()
	}
	s.publishEvent(ctx, constants.SubjectUserRegistered, user)

	s.logger.Info("user registered", "user_id", user.ID)
	return user, nil
}

// Login verifies credentials and issues a token pair.
func (s *AuthService) Login(ctx context.Context, email, password string) (*entities.TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil || user == nil {
		// Burn a bcrypt comparison so response timing does not reveal
		// whether the account exists.
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		s.recordLogin("failure")
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.recordLogin("failure")
		return nil, ErrInvalidCredentials
	}

	pair, err := s.issueTokenPair(ctx, user)
	if err != nil {
		s.recordLogin("error")
		return nil, err
	}

	s.recordLogin("success")
	s.publishEvent(ctx, constants.SubjectUserLogin, user)

	s.logger.Info("user logged in", "user_id", user.ID)
	return pair, nil
}

// Refresh exchanges a valid refresh token for a new token pair. The used
// session is revoked so each refresh token is single-use.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*entities.TokenPair, error) {
	session, err := s.sessions.GetSessionByTokenHash(ctx, hashRefreshToken(refreshToken))
	if err != nil || session == nil {
		return nil, ErrInvalidSession
	}

	if session.Revoked() || session.Expired(time.Now().UTC()) {
		return nil, ErrInvalidSession
	}

	user, err := s.users.GetUserByID(ctx, session.UserID)
	if err != nil || user == nil {
		return nil, ErrInvalidSession
	}

	// Rotation: revoke before issuing so a replayed token cannot race a
	// second pair out of the same session.
	if err := s.sessions.RevokeSession(ctx, session.ID); err != nil {
		return nil, fmt.Errorf("failed to revoke session: %w", err)
	}

	pair, err := s.issueTokenPair(ctx, user)
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, constants.SubjectTokenRefreshed, user)

	s.logger.Info("token refreshed", "user_id", user.ID)
	return pair, nil
}

// Logout revokes every session belonging to the user.
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	if err := s.sessions.RevokeUserSessions(ctx, userID); err != nil {
		return fmt.Errorf("failed to revoke sessions: %w", err)
	}

	s.publishEvent(ctx, constants.SubjectUserLogout, &entities.User{ID: userID})

	s.logger.Info("user logged out", "user_id", userID)
	return nil
}

// Authenticate validates an access token and resolves the user behind it.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*entities.User, error) {
	principal, err := s.tokens.ValidateAccessToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", constants.ErrInvalidToken, err)
	}

	user, err := s.users.GetUserByID(ctx, principal.UserID)
	if err != nil || user == nil {
		return nil, errors.New(constants.ErrUserNotFound)
	}

	return user, nil
}

func (s *AuthService) issueTokenPair(ctx context.Context, user *entities.User) (*entities.TokenPair, error) {
	accessToken, expiresIn, err := s.tokens.IssueAccessToken(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}

	refreshToken, err := newRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	now := time.Now().UTC()
	session := &entities.Session{
		ID:               uuid.NewString(),
		UserID:           user.ID,
		RefreshTokenHash: hashRefreshToken(refreshToken),
		ExpiresAt:        now.Add(s.refreshTokenTTL),
		CreatedAt:        now,
	}

	if err := s.sessions.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("%s: %w", constants.ErrCreateSession, err)
	}

	if s.metrics != nil {
		s.metrics.RecordTokenIssued(constants.TokenTypeAccess)
		s.metrics.RecordTokenIssued(constants.TokenTypeRefresh)
	}

	return &entities.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    constants.TokenTypeBearer,
		ExpiresIn:    expiresIn,
	}, nil
}

func (s *AuthService) recordLogin(result string) {
	if s.metrics != nil {
		s.metrics.RecordLogin(result)
	}
}

func (s *AuthService) publishEvent(ctx context.Context, subject string, user *entities.User) {
	if s.events == nil {
		return
	}

	event := &entities.Event{
		Subject:   subject,
		UserID:    user.ID,
		Email:     user.Email,
		Timestamp: time.Now().UTC(),
	}

	if err := s.events.Publish(ctx, event); err != nil {
		// Audit events are best-effort; the request already succeeded.
		s.logger.Warn("failed to publish event", "subject", subject, "error", err.Error())
	}
}

// dummyHash is compared against when the account does not exist.
var dummyHash = mustHash("auth-service-timing-pad")

func mustHash(s string) []byte {
	h, err := bcrypt.GenerateFromPassword([]byte(s), constants.BcryptCost)
	if err != nil {
		panic(err)
	}
	return h
}

// newRefreshToken generates a 256-bit opaque token, base64url encoded.
func newRefreshToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// hashRefreshToken returns the hex SHA-256 digest stored in place of the token.
func hashRefreshToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
