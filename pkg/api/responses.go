package api

import (
	"encoding/json"
	"net/http"

	"todo-backend/internal/domain"
)

// TodoItemResponse wraps a single todo, as returned by create.
type TodoItemResponse struct {
	Item domain.Todo `json:"item"`
}

// TodoListResponse wraps the caller's todos.
type TodoListResponse struct {
	Items []domain.Todo `json:"items"`
}

// ErrorResponse is a standardized error message for API responses.
type ErrorResponse struct {
	Message string `json:"message"`
}

func setCommonHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// Success sends a standardized successful HTTP response with optional JSON data.
// A nil payload produces an empty body.
func Success(w http.ResponseWriter, statusCode int, data interface{}) {
	setCommonHeaders(w)
	if data == nil {
		w.WriteHeader(statusCode)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// NoContent sends a 204 with no body.
func NoContent(w http.ResponseWriter) {
	setCommonHeaders(w)
	w.WriteHeader(http.StatusNoContent)
}

// Error sends a standardized error response with consistent JSON format.
func Error(w http.ResponseWriter, statusCode int, message string) {
	setCommonHeaders(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Message: message})
}
