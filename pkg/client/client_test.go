package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"todo-backend/internal/handlers"
	"todo-backend/internal/repository/memstore"
	"todo-backend/internal/router"
	"todo-backend/internal/service/todo"
	"todo-backend/pkg/auth"
)

func newAPIServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()
	logger := zap.NewNop()
	svc := todo.NewService(memstore.New(), todo.WithLogger(logger))
	rt := router.NewRouter(
		handlers.NewTodoHandler(svc, logger),
		handlers.NewHealthHandler("test"),
		nil, nil, logger,
		router.Options{BasePath: "/dev"},
	)
	server := httptest.NewServer(rt.Setup())
	t.Cleanup(server.Close)

	generator, err := auth.NewJWTGenerator(auth.JWTGeneratorConfig{
		SigningMethod: "HS256",
		SecretKey:     "client-test",
		ExpiryTime:    time.Hour,
	})
	require.NoError(t, err)
	token, err := generator.GenerateToken("carol")
	require.NoError(t, err)
	return server, token
}

func TestAPIClientRoundTrip(t *testing.T) {
	server, token := newAPIServer(t)
	c := NewAPIClient(server.URL+"/dev/", StaticToken(token), nil)
	ctx := context.Background()

	created, err := c.CreateTodo(ctx, "Write tests", "2030-05-01", "")
	require.NoError(t, err)
	assert.NotEmpty(t, created.TodoID)
	assert.Equal(t, "carol", created.UserID)
	assert.Equal(t, "2030-05-01", created.DueDate)

	require.NoError(t, c.UpdateTodo(ctx, created.TodoID, "Write more tests", "2030-05-02", true))
	require.NoError(t, c.UpdateTodoNote(ctx, created.TodoID, "table driven"))

	todos, err := c.ListTodos(ctx)
	require.NoError(t, err)
	require.Len(t, todos, 1)
	assert.Equal(t, "Write more tests", todos[0].Name)
	assert.True(t, todos[0].Done)
	assert.Equal(t, "table driven", todos[0].Note)

	require.NoError(t, c.DeleteTodo(ctx, created.TodoID))
	require.NoError(t, c.DeleteTodo(ctx, created.TodoID))

	todos, err = c.ListTodos(ctx)
	require.NoError(t, err)
	assert.Empty(t, todos)
}

func TestAPIClientErrors(t *testing.T) {
	server, token := newAPIServer(t)
	ctx := context.Background()

	t.Run("not found", func(t *testing.T) {
		c := NewAPIClient(server.URL, StaticToken(token), nil)
		err := c.UpdateTodoNote(ctx, "missing", "x")

		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
		assert.NotEmpty(t, apiErr.Message)
	})

	t.Run("validation", func(t *testing.T) {
		c := NewAPIClient(server.URL, StaticToken(token), nil)
		_, err := c.CreateTodo(ctx, "", "2030-05-01", "")

		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	})

	t.Run("unauthorized", func(t *testing.T) {
		c := NewAPIClient(server.URL, StaticToken("garbage"), nil)
		_, err := c.ListTodos(ctx)

		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	})
}
