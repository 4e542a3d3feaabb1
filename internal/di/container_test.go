package di

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo-backend/pkg/auth"
	"todo-backend/pkg/config"
)

func memoryConfig() *config.Config {
	return &config.Config{
		Environment:   "test",
		AWSRegion:     "us-east-1",
		Store:         config.StoreMemory,
		LogLevel:      "error",
		EnableMetrics: true,
	}
}

func TestInitializeContainerWithMemoryStore(t *testing.T) {
	container, err := InitializeContainer(context.Background(), memoryConfig())
	require.NoError(t, err)

	assert.NotNil(t, container.Logger)
	assert.NotNil(t, container.Repository)
	assert.NotNil(t, container.Service)
	assert.NotNil(t, container.Collector)

	rec := httptest.NewRecorder()
	container.Router.Setup().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestProvideLogger(t *testing.T) {
	cfg := memoryConfig()
	cfg.LogLevel = "loud"

	_, err := ProvideLogger(cfg)
	assert.Error(t, err)
}

func TestProvideCollectorDisabled(t *testing.T) {
	cfg := memoryConfig()
	cfg.EnableMetrics = false

	assert.Nil(t, ProvideCollector(cfg))
}

func TestProvideVerifier(t *testing.T) {
	cfg := memoryConfig()

	verifier, err := ProvideVerifier(cfg)
	require.NoError(t, err)
	assert.Nil(t, verifier, "no secret means no in-process verification")

	cfg.JWTSecret = "secret"
	verifier, err = ProvideVerifier(cfg)
	require.NoError(t, err)
	assert.NotNil(t, verifier)

	cfg.IsLambda = true
	verifier, err = ProvideVerifier(cfg)
	require.NoError(t, err)
	assert.Nil(t, verifier, "the gateway authorizer verifies on Lambda")
}

func TestProvideRouterOptions(t *testing.T) {
	cfg := memoryConfig()
	cfg.BasePath = "/dev"
	cfg.EnableCircuitBreaker = true

	opts := ProvideRouterOptions(cfg)
	assert.Equal(t, "/dev", opts.BasePath)
	assert.True(t, opts.ExposeMetrics)
	assert.True(t, opts.CircuitBreaker)

	cfg.IsLambda = true
	assert.False(t, ProvideRouterOptions(cfg).ExposeMetrics)
}

func TestProvideVerifierRS256(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	pub, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)

	cfg := memoryConfig()
	cfg.JWTSigningMethod = auth.MethodRS256
	cfg.JWTPublicKey = string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pub}))

	verifier, err := ProvideVerifier(cfg)
	require.NoError(t, err)
	require.NotNil(t, verifier)

	generator, err := auth.NewJWTGenerator(auth.JWTGeneratorConfig{
		SigningMethod: auth.MethodRS256,
		PrivateKey:    string(pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})),
	})
	require.NoError(t, err)
	token, err := generator.GenerateToken("auth0|123")
	require.NoError(t, err)

	claims, err := verifier.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "auth0|123", claims.Subject)
}
