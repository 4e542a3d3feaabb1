package memstore

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo-backend/internal/domain"
	"todo-backend/internal/repository"
)

func seed(t *testing.T, s *Store, userID, todoID string) domain.Todo {
	t.Helper()
	todo, err := s.Create(context.Background(), domain.Todo{
		TodoID:        todoID,
		UserID:        userID,
		Name:          "Buy milk",
		DueDate:       "2024-03-03",
		Note:          "keep",
		AttachmentURL: "https://example.com/a.png",
		Version:       1,
	})
	require.NoError(t, err)
	return todo
}

func TestListIsScopedToUser(t *testing.T) {
	s := New()
	seed(t, s, "alice", "t2")
	seed(t, s, "alice", "t1")
	seed(t, s, "bob", "t3")

	todos, err := s.ListByUser(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, todos, 2)
	assert.Equal(t, "t1", todos[0].TodoID)
	assert.Equal(t, "t2", todos[1].TodoID)

	empty, err := s.ListByUser(context.Background(), "carol")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestUpdateFull(t *testing.T) {
	ctx := context.Background()

	t.Run("ReplacesThreeFieldsOnly", func(t *testing.T) {
		s := New()
		seed(t, s, "alice", "t1")

		require.NoError(t, s.UpdateFull(ctx, "alice", "t1", domain.TodoUpdate{Name: "Buy oat milk", DueDate: "2024-03-04", Done: true}))

		todos, _ := s.ListByUser(ctx, "alice")
		got := todos[0]
		assert.Equal(t, "Buy oat milk", got.Name)
		assert.Equal(t, "2024-03-04", got.DueDate)
		assert.True(t, got.Done)
		assert.Equal(t, "keep", got.Note)
		assert.Equal(t, "https://example.com/a.png", got.AttachmentURL)
		assert.Equal(t, 2, got.Version)
	})

	t.Run("OtherUsersItemIsNotFound", func(t *testing.T) {
		s := New()
		seed(t, s, "alice", "t1")

		err := s.UpdateFull(ctx, "bob", "t1", domain.TodoUpdate{Name: "x", DueDate: "2024-03-04"})
		assert.True(t, repository.IsNotFound(err))
	})

	t.Run("VersionMismatch", func(t *testing.T) {
		s := New()
		seed(t, s, "alice", "t1")
		stale := 7

		err := s.UpdateFull(ctx, "alice", "t1", domain.TodoUpdate{Name: "x", DueDate: "2024-03-04", ExpectedVersion: &stale})
		assert.True(t, repository.IsConflict(err))
	})
}

func TestUpdateNote(t *testing.T) {
	ctx := context.Background()
	s := New()
	seed(t, s, "alice", "t1")

	require.NoError(t, s.UpdateNote(ctx, "alice", "t1", ""))
	todos, _ := s.ListByUser(ctx, "alice")
	assert.Equal(t, "", todos[0].Note)
	assert.Equal(t, "Buy milk", todos[0].Name)

	assert.True(t, repository.IsNotFound(s.UpdateNote(ctx, "alice", "missing", "x")))
}

func TestDeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := New()
	seed(t, s, "alice", "t1")

	require.NoError(t, s.Delete(ctx, "alice", "t1"))
	require.NoError(t, s.Delete(ctx, "alice", "t1"))
	assert.Equal(t, 0, s.Len())
}

func TestConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	s := New()
	seed(t, s, "alice", "t1")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = s.UpdateNote(ctx, "alice", "t1", "n")
		}()
		go func() {
			defer wg.Done()
			_, _ = s.ListByUser(ctx, "alice")
		}()
	}
	wg.Wait()

	todos, _ := s.ListByUser(ctx, "alice")
	assert.Equal(t, 51, todos[0].Version)
}
