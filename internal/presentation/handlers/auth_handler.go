package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ynvYauneEnovore/auth-service/internal/domain/services"
	"github.com/ynvYauneEnovore/auth-service/internal/infrastructure/logging"
	"github.com/ynvYauneEnovore/auth-service/pkg/constants"
)

// AuthHandler serves the authentication API under /api/v1/auth.
type AuthHandler struct {
	authService *services.AuthService
	logger      *slog.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService *services.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger.With("component", "api"),
	}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// HandleRegister handles POST /api/v1/auth/register.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	user, err := h.authService.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeAuthError(w, r, err)
		return
	}

	writeJSONStatus(w, http.StatusCreated, user)
}

// HandleLogin handles POST /api/v1/auth/login.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	pair, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeAuthError(w, r, err)
		return
	}

	writeJSONStatus(w, http.StatusOK, pair)
}

// HandleRefresh handles POST /api/v1/auth/refresh.
func (h *AuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	if req.RefreshToken == "" {
		writeJSONStatus(w, http.StatusBadRequest, errorResponse{Error: "refresh_token is required"})
		return
	}

	pair, err := h.authService.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		h.writeAuthError(w, r, err)
		return
	}

	writeJSONStatus(w, http.StatusOK, pair)
}

// HandleLogout handles POST /api/v1/auth/logout. Requires a bearer token.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	user, ok := h.authenticate(w, r)
	if !ok {
		return
	}

	if err := h.authService.Logout(r.Context(), user.ID); err != nil {
		h.writeAuthError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleMe handles GET /api/v1/auth/me. Requires a bearer token.
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := h.authenticate(w, r)
	if !ok {
		return
	}

	writeJSONStatus(w, http.StatusOK, user)
}

// RegisterRoutes registers the auth API routes.
func (h *AuthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/auth/register", h.HandleRegister)
	mux.HandleFunc("POST /api/v1/auth/login", h.HandleLogin)
	mux.HandleFunc("POST /api/v1/auth/refresh", h.HandleRefresh)
	mux.HandleFunc("POST /api/v1/auth/logout", h.HandleLogout)
	mux.HandleFunc("GET /api/v1/auth/me", h.HandleMe)
}

// decodeBody decodes the JSON request body, writing a 400 on failure.
func (h *AuthHandler) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, constants.MaxRequestBodySize)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSONStatus(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return false
	}
	return true
}

// authenticate resolves the bearer token, writing a 401 on failure.
func (h *AuthHandler) authenticate(w http.ResponseWriter, r *http.Request) (user authenticatedUser, ok bool) {
	header := r.Header.Get(constants.AuthorizationHeader)
	token := strings.TrimPrefix(header, constants.BearerPrefix)
	if header == "" || token == header {
		writeJSONStatus(w, http.StatusUnauthorized, errorResponse{Error: "missing bearer token"})
		return user, false
	}

	authenticated, err := h.authService.Authenticate(r.Context(), token)
	if err != nil {
		writeJSONStatus(w, http.StatusUnauthorized, errorResponse{Error: constants.ErrInvalidToken})
		return user, false
	}

	return authenticatedUser{authenticated.ID, authenticated.Email}, true
}

type authenticatedUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// writeAuthError maps domain errors to HTTP status codes. Per-request
// errors never affect liveness or readiness.
func (h *AuthHandler) writeAuthError(w http.ResponseWriter, r *http.Request, err error) {
	logger := logging.FromContext(r.Context(), h.logger)

	switch {
	case errors.Is(err, services.ErrInvalidEmail), errors.Is(err, services.ErrWeakPassword):
		writeJSONStatus(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, services.ErrEmailTaken):
		writeJSONStatus(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, services.ErrInvalidCredentials), errors.Is(err, services.ErrInvalidSession):
		writeJSONStatus(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})
	default:
		logger.Error("request failed", "error", err.Error())
		writeJSONStatus(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}
