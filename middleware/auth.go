package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/codewithus/ledgerbridge/models"
	"github.com/codewithus/ledgerbridge/security"
)

type contextKey string

const claimsContextKey contextKey = "claims"

// ClaimsFrom returns the verified token claims for the request, or nil if
// the request did not pass through AuthMiddleware.
func ClaimsFrom(ctx context.Context) *security.Claims {
	claims, _ := ctx.Value(claimsContextKey).(*security.Claims)
	return claims
}

func AuthMiddleware(jwt *security.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			claims, err := jwt.ValidateToken(token)
			if err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), claimsContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole gates a route to the given roles. It must run after
// AuthMiddleware.
func RequireRole(roles ...models.Role) func(http.Handler) http.Handler {
	wanted := make(map[models.Role]bool, len(roles))
	for _, role := range roles {
		wanted[role] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := ClaimsFrom(r.Context())
			if claims == nil || !wanted[claims.Role] {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
