package middleware

import (
	"context"
	"net/http"

	"lemonshop_server/structs"

	"github.com/MonkyMars/gecho"
)

// Context keys for storing session data in request context
type contextKey string

const ClaimsContextKey contextKey = "claims"

// AdminAuthMiddleware protects routes to only logged-in admins
func (mw *Middleware) AdminAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := mw.authService.Authenticate(r)
		if err != nil {
			mw.logger.Warn("Rejected admin request", gecho.Field("path", r.URL.Path), gecho.Field("error", err))
			gecho.Unauthorized(w, gecho.WithMessage("Invalid or missing session"), gecho.Send())
			return
		}

		ctx := context.WithValue(r.Context(), ClaimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetClaimsFromContext is a helper function to extract the claims from request context
func GetClaimsFromContext(ctx context.Context) (*structs.SessionClaims, bool) {
	claims, ok := ctx.Value(ClaimsContextKey).(*structs.SessionClaims)
	return claims, ok
}
