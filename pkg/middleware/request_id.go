package middleware

import (
	"net/http"

	"branch-locator/pkg/utils"
)

const RequestIDHeader = "X-Request-ID"

// RequestID propagates an incoming X-Request-ID or assigns a new one.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" || len(id) > 64 {
			id = utils.GenerateUUIDString()
		}
		w.Header().Set(RequestIDHeader, id)

		ctx := utils.SetRequestID(r.Context(), id)
		ctx = utils.SetClientIP(ctx, ClientIP(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
