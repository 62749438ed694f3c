package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"sewadar-registry/internal/model"
)

type tokenVerifier interface {
	Verify(token string) (*model.AuthClaims, error)
}

type identityStore interface {
	FindActiveByID(ctx context.Context, id string) (model.User, error)
}

type contextKey string

const identityContextKey contextKey = "request_identity"

// AuthMiddleware is the per-request gate: header shape, token verification,
// then a live re-check of the subject against the credential store. Token
// claims are a snapshot, so the role claim is trusted until expiry, but
// existence and the active flag are re-read on every request — deactivation
// must bite before the token expires.
type AuthMiddleware struct {
	verifier tokenVerifier
	users    identityStore
}

func NewAuthMiddleware(verifier tokenVerifier, users identityStore) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier, users: users}
}

func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := strings.TrimSpace(r.Header.Get("Authorization"))
		if header == "" {
			m.reject(w, r, http.StatusUnauthorized, "Access token required", "")
			return
		}

		// Exactly two space-separated parts with the literal scheme "Bearer".
		parts := strings.Split(header, " ")
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			m.reject(w, r, http.StatusUnauthorized, "Invalid authorization header format", "")
			return
		}

		claims, err := m.verifier.Verify(parts[1])
		switch {
		case errors.Is(err, model.ErrTokenExpired), errors.Is(err, model.ErrInvalidSignature):
			m.reject(w, r, http.StatusForbidden, "Invalid or expired token", "")
			return
		case err != nil:
			m.reject(w, r, http.StatusUnauthorized, "Invalid or expired token", "")
			return
		}

		if claims.Type != "access" {
			m.reject(w, r, http.StatusForbidden, "Invalid or expired token", claims.UserID)
			return
		}

		user, err := m.users.FindActiveByID(r.Context(), claims.UserID)
		if err != nil {
			m.reject(w, r, http.StatusForbidden, "User account not found or deactivated", claims.UserID)
			return
		}

		identity := &model.RequestIdentity{
			UserID:    claims.UserID,
			Email:     claims.Email,
			Role:      claims.Role,
			FirstName: user.FirstName,
			LastName:  user.LastName,
		}

		ctx := context.WithValue(r.Context(), identityContextKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRoles gates a route on role membership. It runs after RequireAuth
// and checks the role carried by the resolved identity; the check is
// all-or-nothing against the closed role set.
func (m *AuthMiddleware) RequireRoles(allowedRoles ...model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if !ok {
				m.reject(w, r, http.StatusUnauthorized, "Access token required", "")
				return
			}

			if !identity.Role.In(allowedRoles...) {
				m.reject(w, r, http.StatusForbidden, "Insufficient permissions", identity.UserID)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func IdentityFromContext(ctx context.Context) (*model.RequestIdentity, bool) {
	identity, ok := ctx.Value(identityContextKey).(*model.RequestIdentity)
	return identity, ok
}

func (m *AuthMiddleware) reject(w http.ResponseWriter, r *http.Request, status int, message string, subjectID string) {
	attrs := []any{
		"path", r.URL.Path,
		"method", r.Method,
		"client_ip", r.RemoteAddr,
		"status", status,
		"reason", message,
	}
	if subjectID != "" {
		attrs = append(attrs, "subject_id", subjectID)
	}
	slog.Warn("request rejected", attrs...)

	code := "UNAUTHORIZED"
	if status == http.StatusForbidden {
		code = "FORBIDDEN"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: false,
		Error: &model.APIError{
			Code:    code,
			Message: message,
		},
	})
}
