package docs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

func TestRegisteredDocIsJSON(t *testing.T) {
	doc, err := swag.ReadDoc()
	require.NoError(t, err)

	var parsed map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(doc), &parsed))
	assert.Equal(t, "3.0.3", parsed["openapi"])

	paths, ok := parsed["paths"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, paths, "/todos")
	assert.Contains(t, paths, "/todos/{todoId}")
	assert.Contains(t, paths, "/todos/{todoId}/note")
}
