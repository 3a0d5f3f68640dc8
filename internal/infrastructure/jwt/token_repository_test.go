package jwt

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ynvYauneEnovore/auth-service/internal/domain/entities"
)

const (
	testSecret   = "test-signing-secret"
	testIssuer   = "auth-service"
	testAudience = "auth-service"
)

func testUser() *entities.User {
	return &entities.User{
		ID:    "user-123",
		Email: "alice@example.com",
	}
}

func TestNewTokenRepository_EmptySecret(t *testing.T) {
	_, err := NewTokenRepository("", testIssuer, testAudience, 15*time.Minute)
	assert.Error(t, err)
}

func TestTokenRepository_IssueAndValidate(t *testing.T) {
	repo, err := NewTokenRepository(testSecret, testIssuer, testAudience, 15*time.Minute)
	require.NoError(t, err)

	token, expiresIn, err := repo.IssueAccessToken(context.Background(), testUser())
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, int64(900), expiresIn)

	principal, err := repo.ValidateAccessToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", principal.UserID)
	assert.Equal(t, "alice@example.com", principal.Email)
}

func TestTokenRepository_RejectsWrongSecret(t *testing.T) {
	issuer, err := NewTokenRepository(testSecret, testIssuer, testAudience, 15*time.Minute)
	require.NoError(t, err)
	verifier, err := NewTokenRepository("a-different-secret", testIssuer, testAudience, 15*time.Minute)
	require.NoError(t, err)

	token, _, err := issuer.IssueAccessToken(context.Background(), testUser())
	require.NoError(t, err)

	_, err = verifier.ValidateAccessToken(context.Background(), token)
	assert.Error(t, err)
}

func TestTokenRepository_RejectsWrongIssuer(t *testing.T) {
	issuer, err := NewTokenRepository(testSecret, "other-service", testAudience, 15*time.Minute)
	require.NoError(t, err)
	verifier, err := NewTokenRepository(testSecret, testIssuer, testAudience, 15*time.Minute)
	require.NoError(t, err)

	token, _, err := issuer.IssueAccessToken(context.Background(), testUser())
	require.NoError(t, err)

	_, err = verifier.ValidateAccessToken(context.Background(), token)
	assert.Error(t, err)
}

func TestTokenRepository_RejectsExpiredToken(t *testing.T) {
	// Expiry far enough in the past to clear the allowed clock skew.
	repo, err := NewTokenRepository(testSecret, testIssuer, testAudience, -5*time.Minute)
	require.NoError(t, err)

	token, _, err := repo.IssueAccessToken(context.Background(), testUser())
	require.NoError(t, err)

	_, err = repo.ValidateAccessToken(context.Background(), token)
	assert.Error(t, err)
}

func TestTokenRepository_RejectsGarbage(t *testing.T) {
	repo, err := NewTokenRepository(testSecret, testIssuer, testAudience, 15*time.Minute)
	require.NoError(t, err)

	_, err = repo.ValidateAccessToken(context.Background(), "not-a-jwt")
	assert.Error(t, err)
}

func TestAuthClaims_Validate(t *testing.T) {
	access := &AuthClaims{TokenUse: "access"}
	assert.NoError(t, access.Validate(context.Background()))

	refresh := &AuthClaims{TokenUse: "refresh"}
	assert.Error(t, refresh.Validate(context.Background()))
}
