package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"todo-backend/internal/domain"
	"todo-backend/internal/service/todo"
	"todo-backend/pkg/api"
)

// TodoHandler handles todo HTTP requests with injected dependencies.
type TodoHandler struct {
	service todo.Service
	logger  *zap.Logger
}

// NewTodoHandler creates a new todo handler.
func NewTodoHandler(service todo.Service, logger *zap.Logger) *TodoHandler {
	return &TodoHandler{service: service, logger: logger}
}

// Create handles POST /todos
func (h *TodoHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		api.Error(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req api.CreateTodoRequest
	if err := api.DecodeAndValidate(r.Body, &req); err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	created, err := h.service.Create(r.Context(), userID, todo.CreateInput{
		Name:    *req.Name,
		DueDate: req.DueDate,
		Note:    req.Note,
	})
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	api.Success(w, http.StatusCreated, api.TodoItemResponse{Item: created})
}

// List handles GET /todos
func (h *TodoHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		api.Error(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	todos, err := h.service.List(r.Context(), userID)
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	api.Success(w, http.StatusOK, api.TodoListResponse{Items: todos})
}

// Update handles PATCH /todos/{todoId}
func (h *TodoHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		api.Error(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	todoID := chi.URLParam(r, "todoId")

	var req api.UpdateTodoRequest
	if err := api.DecodeAndValidate(r.Body, &req); err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	err := h.service.Update(r.Context(), userID, todoID, domain.TodoUpdate{
		Name:            *req.Name,
		DueDate:         *req.DueDate,
		Done:            *req.Done,
		ExpectedVersion: req.Version,
	})
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	api.Success(w, http.StatusOK, nil)
}

// UpdateNote handles PATCH /todos/{todoId}/note
func (h *TodoHandler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		api.Error(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	todoID := chi.URLParam(r, "todoId")

	var req api.UpdateTodoNoteRequest
	if err := api.DecodeAndValidate(r.Body, &req); err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	if err := h.service.UpdateNote(r.Context(), userID, todoID, *req.Note); err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	api.Success(w, http.StatusOK, nil)
}

// Delete handles DELETE /todos/{todoId}
func (h *TodoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		api.Error(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	todoID := chi.URLParam(r, "todoId")

	if err := h.service.Delete(r.Context(), userID, todoID); err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	api.NoContent(w)
}
