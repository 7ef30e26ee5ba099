package httpapi

import (
	"net/http"
	"strings"
)

// RequireToken returns middleware that validates the bearer token on the
// Authorization header. If the token is missing or invalid, it responds
// 401 without calling the next handler.
func RequireToken(validToken string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing authorization header"})
				return
			}

			token := strings.TrimPrefix(header, "Bearer ")
			if token == header || token != validToken {
				writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid token"})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
