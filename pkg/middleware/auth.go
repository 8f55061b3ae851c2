package middleware

import (
	"net/http"
	"strings"

	"github.com/hbdiaz/ferremat/pkg/auth"
	"github.com/hbdiaz/ferremat/pkg/response"
)

// Auth validates the Bearer token and stores the authenticated caller
// (user id + role) in the request context. Downstream code reads it with
// auth.CallerFromCtx or cx.Caller().
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			response.Unauthorized(w)
			return
		}

		claims, err := auth.ValidateToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			response.Error(w, http.StatusUnauthorized, "Token inválido o expirado")
			return
		}

		ctx := auth.WithCaller(r.Context(), auth.FromClaims(claims))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
