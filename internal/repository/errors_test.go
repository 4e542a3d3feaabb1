package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorHelpers(t *testing.T) {
	notFound := fmt.Errorf("wrapped: %w", NewNotFound("u1", "t1"))
	conflict := NewConflict("t1", "version mismatch")
	cause := errors.New("throttled")
	store := NewStoreError("ListByUser", cause)

	assert.True(t, IsNotFound(notFound))
	assert.False(t, IsNotFound(conflict))
	assert.True(t, IsConflict(conflict))
	assert.True(t, IsStore(store))
	assert.ErrorIs(t, store, cause)
	assert.Equal(t, "todo with ID 't1' not found for user 'u1'", NewNotFound("u1", "t1").Error())
}

func TestConfig(t *testing.T) {
	cfg := NewConfig("", "CreatedAtIndex")
	assert.Equal(t, "Todos", cfg.TableName)
	assert.NoError(t, cfg.Validate())

	assert.Error(t, Config{}.Validate())
	assert.Error(t, Config{TableName: "t", QueryPageLimit: -1}.Validate())
}
