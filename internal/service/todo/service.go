// Package todo provides the business logic behind the todo endpoints.
package todo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"todo-backend/internal/domain"
	"todo-backend/internal/repository"
	appErrors "todo-backend/pkg/errors"
)

// CreateInput is a validated create request. Nil fields take their defaults.
type CreateInput struct {
	Name    string
	DueDate *string
	Note    *string
}

// Service defines the interface for todo business operations.
type Service interface {
	// Create assigns an id and defaults, then stores the todo
	Create(ctx context.Context, userID string, input CreateInput) (domain.Todo, error)

	// List returns every todo owned by the user
	List(ctx context.Context, userID string) ([]domain.Todo, error)

	// Update replaces name, dueDate and done on an existing todo
	Update(ctx context.Context, userID, todoID string, update domain.TodoUpdate) error

	// UpdateNote replaces only the note on an existing todo
	UpdateNote(ctx context.Context, userID, todoID, note string) error

	// Delete removes a todo; deleting a missing todo succeeds
	Delete(ctx context.Context, userID, todoID string) error
}

// Option customizes a service.
type Option func(*service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

// WithIDGenerator replaces the UUID generator used for todoId.
func WithIDGenerator(newID func() string) Option {
	return func(s *service) { s.newID = newID }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *service) { s.logger = logger }
}

// service implements the Service interface with concrete business logic.
type service struct {
	repo   repository.TodoRepository
	now    func() time.Time
	newID  func() string
	logger *zap.Logger
}

// NewService creates a new todo service with the provided repository.
func NewService(repo repository.TodoRepository, opts ...Option) Service {
	s := &service{
		repo:   repo,
		now:    time.Now,
		newID:  uuid.NewString,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Create(ctx context.Context, userID string, input CreateInput) (domain.Todo, error) {
	if !domain.ValidName(input.Name) {
		return domain.Todo{}, appErrors.NewValidation("name cannot be empty")
	}

	now := s.now().UTC()
	todo := domain.Todo{
		TodoID:    s.newID(),
		UserID:    userID,
		CreatedAt: now.Format(time.RFC3339),
		Name:      input.Name,
		DueDate:   domain.DefaultDueDate(now),
		Done:      false,
		Note:      "",
		Version:   1,
	}
	if input.DueDate != nil {
		if !domain.ValidDate(*input.DueDate) {
			return domain.Todo{}, appErrors.NewValidation("dueDate must be a date in YYYY-MM-DD format")
		}
		todo.DueDate = *input.DueDate
	}
	if input.Note != nil {
		todo.Note = *input.Note
	}

	stored, err := s.repo.Create(ctx, todo)
	if err != nil {
		return domain.Todo{}, s.translate(err, "failed to create todo")
	}

	s.logger.Info("todo created", zap.String("userID", userID), zap.String("todoID", stored.TodoID))
	return stored, nil
}

func (s *service) List(ctx context.Context, userID string) ([]domain.Todo, error) {
	todos, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, s.translate(err, "failed to list todos")
	}
	if todos == nil {
		todos = []domain.Todo{}
	}
	return todos, nil
}

func (s *service) Update(ctx context.Context, userID, todoID string, update domain.TodoUpdate) error {
	if !domain.ValidName(update.Name) {
		return appErrors.NewValidation("name cannot be empty")
	}
	if !domain.ValidDate(update.DueDate) {
		return appErrors.NewValidation("dueDate must be a date in YYYY-MM-DD format")
	}

	if err := s.repo.UpdateFull(ctx, userID, todoID, update); err != nil {
		return s.translate(err, "failed to update todo")
	}
	return nil
}

func (s *service) UpdateNote(ctx context.Context, userID, todoID, note string) error {
	if err := s.repo.UpdateNote(ctx, userID, todoID, note); err != nil {
		return s.translate(err, "failed to update todo note")
	}
	return nil
}

func (s *service) Delete(ctx context.Context, userID, todoID string) error {
	err := s.repo.Delete(ctx, userID, todoID)
	if err != nil && !repository.IsNotFound(err) {
		return s.translate(err, "failed to delete todo")
	}
	return nil
}

// translate maps repository errors onto application error types.
func (s *service) translate(err error, message string) error {
	switch {
	case repository.IsNotFound(err):
		return appErrors.NewNotFound("todo not found")
	case repository.IsConflict(err):
		return appErrors.NewConflict("todo was modified by another request")
	default:
		s.logger.Error(message, zap.Error(err))
		return appErrors.NewStore(message, err)
	}
}
