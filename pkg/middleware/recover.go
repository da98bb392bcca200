package middleware

import (
	"errors"
	"net/http"

	"branch-locator/pkg/utils"

	"go.uber.org/zap"
)

// Recover turns a handler panic into a 500 envelope. Booking channel panics
// never reach here; the fan-out recovers those itself.
func Recover(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(rec)
				}

				requestID, _ := utils.GetRequestID(r.Context())
				logger.Error("Handler panic recovered",
					zap.Any("panic", rec),
					zap.String("request_id", requestID),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Stack("stack"),
				)
				utils.ResponseInternalError(w, "Internal server error")
			}()
			next.ServeHTTP(w, r)
		})
	}
}
