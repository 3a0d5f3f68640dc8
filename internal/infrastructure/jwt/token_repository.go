// Package jwt implements access-token issuance and validation using HMAC
// signing with the shared JWT_SECRET.
package jwt

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/google/uuid"
	jose "gopkg.in/go-jose/go-jose.v2"
	josejwt "gopkg.in/go-jose/go-jose.v2/jwt"

	"github.com/ynvYauneEnovore/auth-service/internal/domain/entities"
)

// AuthClaims contains the custom claims carried by access tokens.
type AuthClaims struct {
	Email    string `json:"email,omitempty"`
	TokenUse string `json:"token_use"`
}

// Validate provides additional middleware validation of the custom claims.
func (c *AuthClaims) Validate(_ context.Context) error {
	if c.TokenUse != "access" {
		return errors.New("token is not an access token")
	}
	return nil
}

// TokenRepository implements the domain TokenRepository interface.
type TokenRepository struct {
	secret    []byte
	issuer    string
	audience  string
	ttl       time.Duration
	signer    jose.Signer
	validator *validator.Validator
}

// NewTokenRepository creates a token repository signing and validating with
// the given shared secret.
func NewTokenRepository(secret, issuer, audience string, ttl time.Duration) (*TokenRepository, error) {
	if secret == "" {
		return nil, errors.New("JWT secret must not be empty")
	}

	key := []byte(secret)

	signer, err := jose.NewSigner(
		jose.SigningKey{Algorithm: jose.HS256, Key: key},
		(&jose.SignerOptions{}).WithType("JWT"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create signer: %w", err)
	}

	// Factory for custom JWT claims target
	customClaims := func() validator.CustomClaims {
		return &AuthClaims{}
	}

	jwtValidator, err := validator.New(
		func(_ context.Context) (interface{}, error) { return key, nil },
		validator.HS256,
		issuer,
		[]string{audience},
		validator.WithCustomClaims(customClaims),
		validator.WithAllowedClockSkew(time.Minute),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT validator: %w", err)
	}

	return &TokenRepository{
		secret:    key,
		issuer:    issuer,
		audience:  audience,
		ttl:       ttl,
		signer:    signer,
		validator: jwtValidator,
	}, nil
}

// IssueAccessToken signs a new access token for the user. Returns the
// compact token and its lifetime in seconds.
func (r *TokenRepository) IssueAccessToken(_ context.Context, user *entities.User) (string, int64, error) {
	now := time.Now().UTC()

	registered := josejwt.Claims{
		ID:       uuid.NewString(),
		Issuer:   r.issuer,
		Subject:  user.ID,
		Audience: josejwt.Audience{r.audience},
		IssuedAt: josejwt.NewNumericDate(now),
		Expiry:   josejwt.NewNumericDate(now.Add(r.ttl)),
	}

	custom := AuthClaims{
		Email:    user.Email,
		TokenUse: "access",
	}

	token, err := josejwt.Signed(r.signer).Claims(registered).Claims(custom).CompactSerialize()
	if err != nil {
		return "", 0, fmt.Errorf("failed to sign token: %w", err)
	}

	return token, int64(r.ttl.Seconds()), nil
}

// ValidateAccessToken validates a compact token and extracts the principal.
func (r *TokenRepository) ValidateAccessToken(ctx context.Context, token string) (*entities.Principal, error) {
	claims, err := r.validator.ValidateToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	validated, ok := claims.(*validator.ValidatedClaims)
	if !ok {
		return nil, errors.New("invalid claims type")
	}

	if validated.RegisteredClaims.Subject == "" {
		return nil, errors.New("token has no subject")
	}

	principal := &entities.Principal{
		UserID: validated.RegisteredClaims.Subject,
	}

	if custom, ok := validated.CustomClaims.(*AuthClaims); ok {
		principal.Email = custom.Email
	}

	return principal, nil
}
