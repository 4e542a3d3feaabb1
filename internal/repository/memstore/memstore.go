// Package memstore is an in-process TodoRepository for the local server
// and tests. It mirrors the DynamoDB store's semantics.
package memstore

import (
	"context"
	"sort"
	"sync"

	"todo-backend/internal/domain"
	"todo-backend/internal/repository"
)

type itemKey struct {
	userID string
	todoID string
}

// Store keeps todos in a map keyed by (userId, todoId).
type Store struct {
	mu    sync.RWMutex
	items map[itemKey]domain.Todo
}

var _ repository.TodoRepository = (*Store)(nil)

// New creates an empty store.
func New() *Store {
	return &Store{items: make(map[itemKey]domain.Todo)}
}

func (s *Store) Create(_ context.Context, todo domain.Todo) (domain.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[itemKey{todo.UserID, todo.TodoID}] = todo
	return todo, nil
}

// ListByUser returns the user's todos ordered by todoId, like a query on
// the table's sort key.
func (s *Store) ListByUser(_ context.Context, userID string) ([]domain.Todo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	todos := make([]domain.Todo, 0)
	for k, todo := range s.items {
		if k.userID == userID {
			todos = append(todos, todo)
		}
	}
	sort.Slice(todos, func(i, j int) bool { return todos[i].TodoID < todos[j].TodoID })
	return todos, nil
}

func (s *Store) UpdateFull(_ context.Context, userID, todoID string, update domain.TodoUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := itemKey{userID, todoID}
	todo, ok := s.items[k]
	if !ok {
		return repository.NewNotFound(userID, todoID)
	}
	if update.ExpectedVersion != nil && *update.ExpectedVersion != todo.Version {
		return repository.NewConflict(todoID, "version mismatch")
	}

	todo.Name = update.Name
	todo.DueDate = update.DueDate
	todo.Done = update.Done
	todo.Version++
	s.items[k] = todo
	return nil
}

func (s *Store) UpdateNote(_ context.Context, userID, todoID, note string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := itemKey{userID, todoID}
	todo, ok := s.items[k]
	if !ok {
		return repository.NewNotFound(userID, todoID)
	}

	todo.Note = note
	todo.Version++
	s.items[k] = todo
	return nil
}

func (s *Store) Delete(_ context.Context, userID, todoID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.items, itemKey{userID, todoID})
	return nil
}

// Len reports how many todos are stored across all users.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
