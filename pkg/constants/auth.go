package constants

import "time"

// Authentication constants
const (
	// Header names
	AuthorizationHeader = "Authorization"

	// Token prefixes
	BearerPrefix = "Bearer "

	// Token types
	TokenTypeBearer  = "Bearer"
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"

	// Password policy
	MinPasswordLength = 8
	BcryptCost        = 10
)

// Token lifetime defaults
const (
	DefaultAccessTokenTTL  = 15 * time.Minute
	DefaultRefreshTokenTTL = 30 * 24 * time.Hour
	DefaultJWTIssuer       = "auth-service"
	DefaultJWTAudience     = "auth-service"
)
