package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/BerylCAtieno/transcript-summarizer/internal/utils"
)

// AdminAuth guards the admin endpoints with a shared token.
// Mode: required | optional | disabled
func AdminAuth(mode, expectedToken string, logger *utils.Logger) func(http.Handler) http.Handler {
	mode = strings.ToLower(strings.TrimSpace(mode))
	expected := strings.TrimSpace(expectedToken)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if mode == "disabled" {
				next.ServeHTTP(w, r)
				return
			}

			if expected == "" {
				logger.Error("Admin auth required but ADMIN_TOKEN is empty")
				writeError(w, http.StatusServiceUnavailable, "admin auth not configured")
				return
			}

			provided := extractAdminToken(r)
			if provided == "" {
				if mode == "optional" {
					next.ServeHTTP(w, r)
					return
				}
				writeError(w, http.StatusUnauthorized, "missing admin token")
				return
			}

			if subtle.ConstantTimeCompare([]byte(provided), []byte(expected)) != 1 {
				writeError(w, http.StatusUnauthorized, "invalid admin token")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func extractAdminToken(r *http.Request) string {
	auth := strings.TrimSpace(r.Header.Get("Authorization"))
	if strings.HasPrefix(strings.ToLower(auth), "bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return strings.TrimSpace(r.Header.Get("X-Admin-Token"))
}
