package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/saulo-duarte/interviewace-api/internal/config"
)

type contextKey string

const claimsKey contextKey = "userClaims"

func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := config.WithContext(r.Context())

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			config.Error(w, http.StatusUnauthorized, "No token provided")
			return
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			config.Error(w, http.StatusUnauthorized, "Invalid or expire token")
			return
		}

		claims, err := ValidateJWT(parts[1])
		if err != nil {
			log.WithError(err).Warn("rejected access token")
			config.Error(w, http.StatusUnauthorized, "Invalid or expire token")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
	})
}

// RequireRole must run after AuthMiddleware.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := GetUserClaimsFromContext(r.Context())
			if err != nil {
				config.Error(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			for _, role := range roles {
				if claims.HasRole(role) {
					next.ServeHTTP(w, r)
					return
				}
			}
			config.Error(w, http.StatusForbidden, "Forbidden")
		})
	}
}

func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

func GetUserClaimsFromContext(ctx context.Context) (*Claims, error) {
	claims, ok := ctx.Value(claimsKey).(*Claims)
	if !ok || claims == nil {
		return nil, errors.New("user claims not found in context")
	}
	return claims, nil
}
