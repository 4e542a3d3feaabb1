package auth

import (
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "todo-backend/pkg/errors"
)

func signedToken(t *testing.T, claims jwt.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("any-secret"))
	require.NoError(t, err)
	return token
}

func TestExtractUserID(t *testing.T) {
	withSub := signedToken(t, jwt.MapClaims{"sub": "user-123"})
	withoutSub := signedToken(t, jwt.MapClaims{"email": "someone@example.com"})

	t.Run("ReturnsSubject", func(t *testing.T) {
		userID, err := ExtractUserID("Bearer " + withSub)
		require.NoError(t, err)
		assert.Equal(t, "user-123", userID)
	})

	t.Run("IgnoresSignature", func(t *testing.T) {
		// Token signed with a different key still yields its subject.
		other, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "user-9"}).
			SignedString([]byte("unrelated"))
		require.NoError(t, err)

		userID, err := ExtractUserID("Bearer " + other)
		require.NoError(t, err)
		assert.Equal(t, "user-9", userID)
	})

	failures := []struct {
		name   string
		header string
	}{
		{"MissingHeader", ""},
		{"WrongScheme", "Basic " + withSub},
		{"NoToken", "Bearer"},
		{"ExtraParts", "Bearer " + withSub + " trailing"},
		{"NotAJWT", "Bearer not-a-jwt"},
		{"NoSubject", "Bearer " + withoutSub},
	}
	for _, tt := range failures {
		t.Run(tt.name, func(t *testing.T) {
			userID, err := ExtractUserID(tt.header)
			require.Error(t, err)
			assert.Empty(t, userID)
			assert.True(t, apperrors.IsMalformedToken(err))
		})
	}
}

func TestSubjectFromAuthorizer(t *testing.T) {
	t.Run("Nil", func(t *testing.T) {
		_, ok := SubjectFromAuthorizer(nil)
		assert.False(t, ok)
	})

	t.Run("JWTAuthorizer", func(t *testing.T) {
		sub, ok := SubjectFromAuthorizer(&events.APIGatewayV2HTTPRequestContextAuthorizerDescription{
			JWT: &events.APIGatewayV2HTTPRequestContextAuthorizerJWTDescription{
				Claims: map[string]string{"sub": "user-1"},
			},
		})
		assert.True(t, ok)
		assert.Equal(t, "user-1", sub)
	})

	t.Run("LambdaAuthorizer", func(t *testing.T) {
		sub, ok := SubjectFromAuthorizer(&events.APIGatewayV2HTTPRequestContextAuthorizerDescription{
			Lambda: map[string]interface{}{"sub": "user-2"},
		})
		assert.True(t, ok)
		assert.Equal(t, "user-2", sub)
	})

	t.Run("NoSubject", func(t *testing.T) {
		_, ok := SubjectFromAuthorizer(&events.APIGatewayV2HTTPRequestContextAuthorizerDescription{
			JWT: &events.APIGatewayV2HTTPRequestContextAuthorizerJWTDescription{Claims: map[string]string{}},
		})
		assert.False(t, ok)
	})
}
