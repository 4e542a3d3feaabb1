package repository

import (
	"errors"
	"fmt"
)

// ErrNotFound represents a resource not found error in the repository layer.
type ErrNotFound struct {
	Resource string // The type of resource, "todo"
	ID       string // The identifier that was not found
	UserID   string // The owning user
}

func (e ErrNotFound) Error() string {
	if e.UserID != "" {
		return fmt.Sprintf("%s with ID '%s' not found for user '%s'", e.Resource, e.ID, e.UserID)
	}
	return fmt.Sprintf("%s with ID '%s' not found", e.Resource, e.ID)
}

// IsNotFound checks if an error is a repository not found error.
func IsNotFound(err error) bool {
	var target ErrNotFound
	return errors.As(err, &target)
}

// ErrConflict represents a conflict error in the repository layer.
type ErrConflict struct {
	Resource string // The type of resource, "todo"
	ID       string // The identifier that caused the conflict
	Reason   string // The reason for the conflict
}

func (e ErrConflict) Error() string {
	return fmt.Sprintf("conflict with %s '%s': %s", e.Resource, e.ID, e.Reason)
}

// IsConflict checks if an error is a repository conflict error.
func IsConflict(err error) bool {
	var target ErrConflict
	return errors.As(err, &target)
}

// ErrStore wraps any failure of the underlying data store.
type ErrStore struct {
	Op  string // Repository operation, e.g. "UpdateFull"
	Err error
}

func (e ErrStore) Error() string {
	return fmt.Sprintf("store operation %s failed: %v", e.Op, e.Err)
}

func (e ErrStore) Unwrap() error {
	return e.Err
}

// IsStore checks if an error is a repository store error.
func IsStore(err error) bool {
	var target ErrStore
	return errors.As(err, &target)
}

// NewNotFound creates a new ErrNotFound for a user's todo.
func NewNotFound(userID, todoID string) ErrNotFound {
	return ErrNotFound{Resource: "todo", ID: todoID, UserID: userID}
}

// NewConflict creates a new ErrConflict.
func NewConflict(todoID, reason string) ErrConflict {
	return ErrConflict{Resource: "todo", ID: todoID, Reason: reason}
}

// NewStoreError creates a new ErrStore.
func NewStoreError(op string, err error) ErrStore {
	return ErrStore{Op: op, Err: err}
}
