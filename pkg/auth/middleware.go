package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/GlebRadaev/afriart/pkg/utils"
	"go.uber.org/zap"
)

type ContextKey string

const PrincipalKey ContextKey = "principal"

// Principal is the authenticated caller attached to the request context.
type Principal struct {
	SubjectID int
	Name      string
	IsAdmin   bool
	TokenID   string
	ExpiresAt time.Time
}

type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, PrincipalKey, p)
}

func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(PrincipalKey).(Principal)
	return p, ok
}

func BearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	return token, token != ""
}

// Authenticator decodes the bearer token once per request. revoked may be nil.
func Authenticator(jwtService JWTServiceInterface, revoked RevocationChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := BearerToken(r)
			if !ok {
				utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			claims, err := jwtService.ValidateToken(token)
			if err != nil {
				if errors.Is(err, ErrTokenExpired) {
					utils.RespondWithError(w, http.StatusUnauthorized, "Token has expired")
					return
				}
				utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			subjectID, _ := claims.SubjectID()

			if revoked != nil && claims.Id != "" {
				isRevoked, err := revoked.IsRevoked(r.Context(), claims.Id)
				if err != nil {
					zap.L().Warn("token denylist unavailable, accepting token", zap.Error(err))
				}
				if isRevoked {
					utils.RespondWithError(w, http.StatusUnauthorized, "Token has been revoked")
					return
				}
			}

			ctx := WithPrincipal(r.Context(), Principal{
				SubjectID: subjectID,
				Name:      claims.Name,
				IsAdmin:   claims.IsAdmin,
				TokenID:   claims.Id,
				ExpiresAt: time.Unix(claims.ExpiresAt, 0),
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := PrincipalFromContext(r.Context())
		if !ok {
			utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		if !p.IsAdmin {
			utils.RespondWithError(w, http.StatusForbidden, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireUser admits customer tokens only. Admin and user ids come from
// different tables, so an admin subject must never act as a customer.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := PrincipalFromContext(r.Context())
		if !ok {
			utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		if p.IsAdmin {
			utils.RespondWithError(w, http.StatusForbidden, "Customer account required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
