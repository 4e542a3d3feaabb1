// Package repository defines the storage contract for todos. Implementations
// live in subpackages (ddb, memstore) and never leak their SDK types.
package repository

import (
	"context"

	"todo-backend/internal/domain"
)

// TodoRepository is the store accessor. Every method maps to exactly one
// logical call against the backing table.
type TodoRepository interface {
	// Create stores todo unconditionally and returns the stored item.
	Create(ctx context.Context, todo domain.Todo) (domain.Todo, error)

	// ListByUser returns every todo in the user's partition.
	ListByUser(ctx context.Context, userID string) ([]domain.Todo, error)

	// UpdateFull replaces name, dueDate and done. It fails with ErrNotFound
	// when no item matches, and ErrConflict when update.ExpectedVersion is set
	// and differs from the stored version.
	UpdateFull(ctx context.Context, userID, todoID string, update domain.TodoUpdate) error

	// UpdateNote replaces only the note. It fails with ErrNotFound when no
	// item matches.
	UpdateNote(ctx context.Context, userID, todoID, note string) error

	// Delete removes the item if present. Deleting a missing item succeeds.
	Delete(ctx context.Context, userID, todoID string) error
}
