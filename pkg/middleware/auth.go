package middleware

import (
	"net/http"

	"branch-locator/pkg/utils"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const AdminKeyHeader = "X-Admin-Key"

// AdminKey guards diagnostic routes with a bcrypt-hashed shared key.
// An empty hash leaves the routes open.
func AdminKey(keyHash string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if keyHash == "" {
			return next
		}
		hash := []byte(keyHash)

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(AdminKeyHeader)
			if key == "" {
				utils.ResponseUnauthorized(w, "Missing admin key")
				return
			}

			if err := bcrypt.CompareHashAndPassword(hash, []byte(key)); err != nil {
				logger.Warn("Admin check: invalid key",
					zap.String("path", r.URL.Path),
					zap.String("ip", ClientIP(r)))
				utils.ResponseUnauthorized(w, "Invalid admin key")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
