package api

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "todo-backend/pkg/errors"
)

func TestDecodeCreateTodoRequest(t *testing.T) {
	t.Run("NameOnly", func(t *testing.T) {
		var req CreateTodoRequest
		require.NoError(t, DecodeAndValidate(strings.NewReader(`{"name":"Buy milk"}`), &req))
		assert.Equal(t, "Buy milk", *req.Name)
		assert.Nil(t, req.DueDate)
		assert.Nil(t, req.Note)
	})

	t.Run("AllFields", func(t *testing.T) {
		var req CreateTodoRequest
		body := `{"name":"Buy milk","dueDate":"2024-03-03","note":"2%"}`
		require.NoError(t, DecodeAndValidate(strings.NewReader(body), &req))
		assert.Equal(t, "2024-03-03", *req.DueDate)
		assert.Equal(t, "2%", *req.Note)
	})

	invalid := []struct {
		name    string
		body    string
		message string
	}{
		{"MissingName", `{"dueDate":"2024-03-03"}`, "name is required"},
		{"NullName", `{"name":null}`, "name is required"},
		{"EmptyName", `{"name":""}`, "name must not be empty"},
		{"BlankName", `{"name":"   "}`, "name must not be empty"},
		{"NumericName", `{"name":42}`, "name must be a string"},
		{"BadDate", `{"name":"x","dueDate":"03/03/2024"}`, "dueDate must be a date"},
		{"MalformedJSON", `{"name":`, "not valid JSON"},
		{"EmptyBody", ``, "request body is required"},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			var req CreateTodoRequest
			err := DecodeAndValidate(strings.NewReader(tt.body), &req)
			require.Error(t, err)
			assert.True(t, apperrors.IsValidation(err))
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestDecodeUpdateTodoRequest(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		var req UpdateTodoRequest
		body := `{"name":"Buy oat milk","dueDate":"2024-03-04","done":false,"note":"ignored"}`
		require.NoError(t, DecodeAndValidate(strings.NewReader(body), &req))
		assert.False(t, *req.Done)
		assert.Nil(t, req.Version)
	})

	t.Run("WithVersion", func(t *testing.T) {
		var req UpdateTodoRequest
		body := `{"name":"a","dueDate":"2024-03-04","done":true,"version":3}`
		require.NoError(t, DecodeAndValidate(strings.NewReader(body), &req))
		assert.Equal(t, 3, *req.Version)
	})

	invalid := []struct {
		name string
		body string
	}{
		{"MissingDone", `{"name":"a","dueDate":"2024-03-04"}`},
		{"MissingDueDate", `{"name":"a","done":true}`},
		{"MissingName", `{"dueDate":"2024-03-04","done":true}`},
		{"DoneNotBool", `{"name":"a","dueDate":"2024-03-04","done":"yes"}`},
		{"ZeroVersion", `{"name":"a","dueDate":"2024-03-04","done":true,"version":0}`},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			var req UpdateTodoRequest
			err := DecodeAndValidate(strings.NewReader(tt.body), &req)
			assert.True(t, apperrors.IsValidation(err))
		})
	}
}

func TestDecodeUpdateTodoNoteRequest(t *testing.T) {
	t.Run("EmptyNoteAllowed", func(t *testing.T) {
		var req UpdateTodoNoteRequest
		require.NoError(t, DecodeAndValidate(strings.NewReader(`{"note":""}`), &req))
		assert.Equal(t, "", *req.Note)
	})

	t.Run("MissingNote", func(t *testing.T) {
		var req UpdateTodoNoteRequest
		err := DecodeAndValidate(strings.NewReader(`{}`), &req)
		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("NoteNotString", func(t *testing.T) {
		var req UpdateTodoNoteRequest
		err := DecodeAndValidate(strings.NewReader(`{"note":false}`), &req)
		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("TrailingWhitespaceAllowed", func(t *testing.T) {
		var req UpdateTodoNoteRequest
		require.NoError(t, DecodeAndValidate(strings.NewReader("{\"note\":\"a\"}\n  "), &req))
	})

	t.Run("TrailingData", func(t *testing.T) {
		for _, body := range []string{`{"note":"a"} garbage`, `{"note":"a"}{"note":"b"}`, `{"note":"a"}]`} {
			var req UpdateTodoNoteRequest
			err := DecodeAndValidate(strings.NewReader(body), &req)
			assert.True(t, apperrors.IsValidation(err), body)
		}
	})
}
