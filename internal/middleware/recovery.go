package middleware

import (
	"net/http"
	"runtime/debug"

	"go.uber.org/zap"

	"todo-backend/pkg/api"
)

// Recovery middleware handles panics and converts them to a generic 500
func Recovery(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					if err == http.ErrAbortHandler {
						panic(err)
					}

					logger.Error("panic recovered",
						zap.Any("panic", err),
						zap.String("requestID", GetRequestIDFromRequest(r)),
						zap.String("method", r.Method),
						zap.String("path", r.URL.Path),
						zap.ByteString("stack", debug.Stack()),
					)

					// Nothing can be sent once the body has started
					if w.Header().Get("Content-Type") == "" {
						api.Error(w, http.StatusInternalServerError, "Internal server error")
					}
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
