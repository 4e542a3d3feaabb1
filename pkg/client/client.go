// Package client is a Go client for the todo API together with a state
// controller that keeps a local, optimistically updated list of todos.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"todo-backend/internal/domain"
	"todo-backend/pkg/api"
)

// TokenSource supplies the bearer token sent with every request.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a TokenSource that always returns the same token.
type StaticToken string

// Token implements TokenSource.
func (s StaticToken) Token(context.Context) (string, error) {
	return string(s), nil
}

// APIError is a non-2xx response from the API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("todo api: %d %s", e.StatusCode, e.Message)
}

// Backend is the remote surface the Controller drives.
type Backend interface {
	ListTodos(ctx context.Context) ([]domain.Todo, error)
	CreateTodo(ctx context.Context, name, dueDate, note string) (domain.Todo, error)
	UpdateTodo(ctx context.Context, todoID, name, dueDate string, done bool) error
	UpdateTodoNote(ctx context.Context, todoID, note string) error
	DeleteTodo(ctx context.Context, todoID string) error
}

// APIClient calls the todo HTTP API.
type APIClient struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
}

var _ Backend = (*APIClient)(nil)

// NewAPIClient creates a client for the API rooted at baseURL, including any
// stage prefix such as "https://abc.execute-api.us-east-1.amazonaws.com/dev".
// A nil httpClient uses a client with a 10 second timeout.
func NewAPIClient(baseURL string, tokens TokenSource, httpClient *http.Client) *APIClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &APIClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		tokens:     tokens,
	}
}

// ListTodos returns the caller's todos.
func (c *APIClient) ListTodos(ctx context.Context) ([]domain.Todo, error) {
	var out api.TodoListResponse
	if err := c.do(ctx, http.MethodGet, "/todos", nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// CreateTodo creates a todo and returns it as stored.
func (c *APIClient) CreateTodo(ctx context.Context, name, dueDate, note string) (domain.Todo, error) {
	body := api.CreateTodoRequest{Name: &name, DueDate: &dueDate, Note: &note}
	var out api.TodoItemResponse
	if err := c.do(ctx, http.MethodPost, "/todos", body, &out); err != nil {
		return domain.Todo{}, err
	}
	return out.Item, nil
}

// UpdateTodo replaces name, dueDate and done.
func (c *APIClient) UpdateTodo(ctx context.Context, todoID, name, dueDate string, done bool) error {
	body := api.UpdateTodoRequest{Name: &name, DueDate: &dueDate, Done: &done}
	return c.do(ctx, http.MethodPatch, "/todos/"+url.PathEscape(todoID), body, nil)
}

// UpdateTodoNote replaces the note.
func (c *APIClient) UpdateTodoNote(ctx context.Context, todoID, note string) error {
	body := api.UpdateTodoNoteRequest{Note: &note}
	return c.do(ctx, http.MethodPatch, "/todos/"+url.PathEscape(todoID)+"/note", body, nil)
}

// DeleteTodo deletes a todo. Deleting a missing todo is not an error.
func (c *APIClient) DeleteTodo(ctx context.Context, todoID string) error {
	return c.do(ctx, http.MethodDelete, "/todos/"+url.PathEscape(todoID), nil, nil)
}

func (c *APIClient) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return fmt.Errorf("get token: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var msg api.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&msg); err == nil && msg.Message != "" {
			apiErr.Message = msg.Message
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
