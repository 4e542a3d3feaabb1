// Package handlers provides the HTTP handlers for the todo API.
package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"todo-backend/internal/middleware"
	"todo-backend/pkg/api"
	"todo-backend/pkg/auth"
	appErrors "todo-backend/pkg/errors"
)

// internalErrorMessage is the only text a client sees for a 5xx.
const internalErrorMessage = "An internal error occurred"

// getUserID safely extracts userID from context
func getUserID(r *http.Request) (string, bool) {
	return auth.UserIDFromContext(r.Context())
}

// handleServiceError converts service errors to appropriate HTTP responses.
// Client errors carry their message; everything else is logged in full and
// answered with a generic 500.
func handleServiceError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error) {
	fields := []zap.Field{
		zap.Error(err),
		zap.String("requestID", middleware.GetRequestIDFromRequest(r)),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	}

	appErr := appErrors.As(err)
	if appErr == nil {
		logger.Error("unclassified error", fields...)
		api.Error(w, http.StatusInternalServerError, internalErrorMessage)
		return
	}

	status := appErr.HTTPStatus()
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", fields...)
		api.Error(w, status, internalErrorMessage)
		return
	}

	logger.Info("request rejected", append(fields, zap.Int("status", status))...)
	api.Error(w, status, appErr.Message)
}
