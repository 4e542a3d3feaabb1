// Package mocks provides mock implementations of repository interfaces for testing.
package mocks

import (
	"context"
	"sync"

	"todo-backend/internal/domain"
	"todo-backend/internal/repository"
	"todo-backend/internal/repository/memstore"
)

// MockRepository is an in-memory TodoRepository with per-method error
// injection and call counting.
type MockRepository struct {
	*memstore.Store

	mu sync.RWMutex

	// For testing error scenarios
	shouldFailOn map[string]error
	calls        map[string]int
}

var _ repository.TodoRepository = (*MockRepository)(nil)

// NewMockRepository creates a new mock repository instance.
func NewMockRepository() *MockRepository {
	return &MockRepository{
		Store:        memstore.New(),
		shouldFailOn: make(map[string]error),
		calls:        make(map[string]int),
	}
}

// SetError configures the mock to return an error for a specific method.
// Useful for testing error handling in services.
func (m *MockRepository) SetError(method string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shouldFailOn[method] = err
}

// ClearErrors removes all configured errors.
func (m *MockRepository) ClearErrors() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shouldFailOn = make(map[string]error)
}

// Calls returns how many times method was invoked.
func (m *MockRepository) Calls(method string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls[method]
}

// checkError records the call and returns an error if one is configured for
// the given method.
func (m *MockRepository) checkError(method string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls[method]++
	if err, exists := m.shouldFailOn[method]; exists {
		return err
	}
	return nil
}

func (m *MockRepository) Create(ctx context.Context, todo domain.Todo) (domain.Todo, error) {
	if err := m.checkError("Create"); err != nil {
		return domain.Todo{}, err
	}
	return m.Store.Create(ctx, todo)
}

func (m *MockRepository) ListByUser(ctx context.Context, userID string) ([]domain.Todo, error) {
	if err := m.checkError("ListByUser"); err != nil {
		return nil, err
	}
	return m.Store.ListByUser(ctx, userID)
}

func (m *MockRepository) UpdateFull(ctx context.Context, userID, todoID string, update domain.TodoUpdate) error {
	if err := m.checkError("UpdateFull"); err != nil {
		return err
	}
	return m.Store.UpdateFull(ctx, userID, todoID, update)
}

func (m *MockRepository) UpdateNote(ctx context.Context, userID, todoID, note string) error {
	if err := m.checkError("UpdateNote"); err != nil {
		return err
	}
	return m.Store.UpdateNote(ctx, userID, todoID, note)
}

func (m *MockRepository) Delete(ctx context.Context, userID, todoID string) error {
	if err := m.checkError("Delete"); err != nil {
		return err
	}
	return m.Store.Delete(ctx, userID, todoID)
}
