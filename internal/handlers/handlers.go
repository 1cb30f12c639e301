package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gauravnehare1411/introducer-app-backend/internal/domain"
	"github.com/gauravnehare1411/introducer-app-backend/internal/service"
	"github.com/gauravnehare1411/introducer-app-backend/pkg/logger"
)

type Handlers struct {
	authService     service.AuthService
	referralService service.ReferralService
	mortgageService service.MortgageService
}

func New(
	authService service.AuthService,
	referralService service.ReferralService,
	mortgageService service.MortgageService,
) *Handlers {
	return &Handlers{
		authService:     authService,
		referralService: referralService,
		mortgageService: mortgageService,
	}
}

type contextKey string

const userContextKey contextKey = "user"

// RequireAuth validates the bearer token and loads the account behind it.
func (h *Handlers) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			writeError(w, http.StatusUnauthorized, "Missing or invalid authorization header", "UNAUTHORIZED")
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		user, err := h.authService.Authenticate(r.Context(), token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Unauthorized", "UNAUTHORIZED")
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		ctx = context.WithValue(ctx, logger.UserIDKey, user.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin allows only admin accounts through. Must run after RequireAuth.
func (h *Handlers) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := currentUser(r)
		if user == nil || user.Role != domain.RoleAdmin {
			writeError(w, http.StatusForbidden, "Insufficient permissions", "FORBIDDEN")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func currentUser(r *http.Request) *domain.User {
	if user, ok := r.Context().Value(userContextKey).(*domain.User); ok {
		return user
	}
	return nil
}

func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, statusCode int, message, code string) {
	writeJSON(w, statusCode, map[string]string{
		"error": message,
		"code":  code,
	})
}

// writeServiceError translates domain error kinds to HTTP responses. Anything
// unmapped is an infrastructure fault: logged, reported generically.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error(), "INVALID_INPUT")
	case errors.Is(err, domain.ErrEmailTaken):
		writeError(w, http.StatusConflict, "Email already registered", "EMAIL_EXISTS")
	case errors.Is(err, domain.ErrNoPendingRegistration):
		writeError(w, http.StatusNotFound, "No pending registration for this email", "NO_PENDING_REGISTRATION")
	case errors.Is(err, domain.ErrCodeStillValid):
		writeError(w, http.StatusTooManyRequests, "Current verification code is still valid", "CODE_STILL_VALID")
	case errors.Is(err, domain.ErrInvalidOrExpiredCode):
		writeError(w, http.StatusBadRequest, "Invalid or expired verification code", "INVALID_CODE")
	case errors.Is(err, domain.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Incorrect email or password", "INVALID_CREDENTIALS")
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "Unauthorized", "UNAUTHORIZED")
	case errors.Is(err, domain.ErrAccountNotFound):
		writeError(w, http.StatusNotFound, "Account not found", "NOT_FOUND")
	case errors.Is(err, domain.ErrReferralNotFound):
		writeError(w, http.StatusNotFound, "Referral not found or already up to date", "NOT_FOUND")
	default:
		logger.ErrorContext(r.Context(), "Unhandled service error", "error", err, "path", r.URL.Path)
		writeError(w, http.StatusInternalServerError, "Internal server error", "INTERNAL_ERROR")
	}
}
