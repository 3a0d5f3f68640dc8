package constants

// Error messages (centralized from scattered string literals)
const (
	ErrHealthCheck     = "health check failed"
	ErrShutdownTimeout = "shutdown timeout exceeded"

	// Configuration errors
	ErrMissingJWTSecret  = "required configuration JWT_SECRET is not set"
	ErrMissingDBPassword = "required configuration DB_PASSWORD is not set"

	// Authentication errors
	ErrInvalidToken       = "invalid token"
	ErrInvalidCredentials = "invalid email or password"
	ErrEmailTaken         = "email address is already registered"
	ErrSessionNotFound    = "session not found"
	ErrSessionRevoked     = "session has been revoked"
	ErrSessionExpired     = "session has expired"
	ErrUserNotFound       = "user not found"

	// Storage errors
	ErrOpenDatabase  = "failed to open database"
	ErrInitSchema    = "failed to initialize schema"
	ErrCreateUser    = "failed to create user"
	ErrCreateSession = "failed to create session"
)

// Error contexts (for structured error logging)
const (
	ContextValidation = "validation"
	ContextStorage    = "storage"
	ContextMessaging  = "messaging"
	ContextAuth       = "authentication"
)
