package middleware

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"github.com/derdine/forum-service/internal/utils/jwt"
	"github.com/derdine/forum-service/internal/utils/response"
)

type contextKey string

const UserIDKey contextKey = "userID"

const (
	HeaderUserID     = "x-user-id"
	HeaderAdminToken = "x-admin-token"
)

// ErrNotPermitted is returned by an AuthPolicy that rejects the caller.
var ErrNotPermitted = errors.New("not permitted")

// Identity resolves who is calling and stores the user id in the request
// context. A bearer token wins over the x-user-id header; a bearer token
// that fails validation is rejected. Requests with neither pass through
// anonymously.
func Identity(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := r.Header.Get(HeaderUserID)

			if authHeader := r.Header.Get("Authorization"); authHeader != "" {
				if !strings.HasPrefix(authHeader, "Bearer ") {
					response.WriteJSON(w, http.StatusUnauthorized, response.GeneralError(
						errors.New("Invalid authorization header format")))
					return
				}

				token := strings.TrimPrefix(authHeader, "Bearer ")
				subject, err := jwt.ExtractUserIDFromToken(token, jwtSecret)
				if err != nil {
					response.WriteJSON(w, http.StatusUnauthorized, response.GeneralError(
						errors.New("Invalid token")))
					return
				}
				userID = subject
			}

			if userID != "" {
				r = r.WithContext(context.WithValue(r.Context(), UserIDKey, userID))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetUserIDFromContext extracts the user ID from the request context
func GetUserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	return userID, ok && userID != ""
}

// AuthPolicy decides whether a caller may perform a guarded action. It is
// chosen once at startup; handlers consult it and nothing below them does.
type AuthPolicy interface {
	RequireAdmin(r *http.Request) error
	RequireSelfOrAdmin(r *http.Request, userID string) error
	RequireSelf(r *http.Request, userID string) error
}

// AllowAllPolicy permits everything. Development only.
type AllowAllPolicy struct{}

func (AllowAllPolicy) RequireAdmin(*http.Request) error { return nil }
func (AllowAllPolicy) RequireSelfOrAdmin(*http.Request, string) error { return nil }
func (AllowAllPolicy) RequireSelf(*http.Request, string) error { return nil }

// StrictPolicy checks the x-admin-token header against the configured
// token and the caller identity against the target user.
type StrictPolicy struct {
	adminToken []byte
}

func NewStrictPolicy(adminToken string) *StrictPolicy {
	return &StrictPolicy{adminToken: []byte(adminToken)}
}

func (p *StrictPolicy) isAdmin(r *http.Request) bool {
	token := r.Header.Get(HeaderAdminToken)
	if token == "" || len(p.adminToken) == 0 {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), p.adminToken) == 1
}

func (p *StrictPolicy) RequireAdmin(r *http.Request) error {
	if !p.isAdmin(r) {
		return ErrNotPermitted
	}
	return nil
}

func (p *StrictPolicy) RequireSelfOrAdmin(r *http.Request, userID string) error {
	if p.isAdmin(r) {
		return nil
	}
	return p.RequireSelf(r, userID)
}

func (p *StrictPolicy) RequireSelf(r *http.Request, userID string) error {
	caller, ok := GetUserIDFromContext(r.Context())
	if !ok || caller != userID {
		return ErrNotPermitted
	}
	return nil
}

// PolicyFor returns the strict policy in production and AllowAllPolicy
// everywhere else.
func PolicyFor(production bool, adminToken string) AuthPolicy {
	if production {
		return NewStrictPolicy(adminToken)
	}
	return AllowAllPolicy{}
}
