package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"CONFIG_FILE", "SERVER_ADDRESS", "BASE_PATH", "ENVIRONMENT", "AWS_REGION",
		"TABLE_NAME", "INDEX_NAME", "DYNAMODB_ENDPOINT", "STORE", "AWS_LAMBDA_FUNCTION_NAME",
		"LOG_LEVEL", "JWT_SIGNING_METHOD", "JWT_SECRET", "JWT_PUBLIC_KEY", "JWT_ISSUER", "JWT_AUDIENCE", "ENABLE_METRICS",
		"ENABLE_TRACING", "ENABLE_CIRCUIT_BREAKER",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		clearEnv(t)

		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, "Todos", cfg.TableName)
		assert.Equal(t, StoreDynamoDB, cfg.Store)
		assert.Equal(t, ":8080", cfg.ServerAddress)
		assert.True(t, cfg.IsDevelopment())
		assert.False(t, cfg.IsLambda)
		assert.False(t, cfg.VerifyTokens())
	})

	t.Run("EnvironmentOverrides", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("TABLE_NAME", "Todos-dev")
		t.Setenv("INDEX_NAME", "CreatedAtIndex")
		t.Setenv("STORE", "Memory")
		t.Setenv("JWT_SECRET", "s3cret")
		t.Setenv("JWT_AUDIENCE", "web,cli")
		t.Setenv("ENABLE_TRACING", "true")

		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, "Todos-dev", cfg.TableName)
		assert.Equal(t, "CreatedAtIndex", cfg.IndexName)
		assert.Equal(t, StoreMemory, cfg.Store)
		assert.Equal(t, []string{"web", "cli"}, cfg.JWTAudience)
		assert.True(t, cfg.EnableTracing)
		assert.True(t, cfg.VerifyTokens())
	})

	t.Run("FileThenEnvironment", func(t *testing.T) {
		clearEnv(t)
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("tableName: FromFile\nbasePath: /dev\nlogLevel: debug\n"), 0o600))
		t.Setenv("CONFIG_FILE", path)
		t.Setenv("LOG_LEVEL", "warn")

		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, "FromFile", cfg.TableName)
		assert.Equal(t, "/dev", cfg.BasePath)
		assert.Equal(t, "warn", cfg.LogLevel)
	})

	t.Run("MissingFile", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "absent.yaml"))

		_, err := LoadConfig()
		assert.Error(t, err)
	})

	t.Run("RS256PublicKeyFromEnv", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("JWT_SIGNING_METHOD", "rs256")
		t.Setenv("JWT_PUBLIC_KEY", `-----BEGIN PUBLIC KEY-----\nMIIB\n-----END PUBLIC KEY-----`)

		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, "RS256", cfg.JWTSigningMethod)
		assert.Equal(t, "-----BEGIN PUBLIC KEY-----\nMIIB\n-----END PUBLIC KEY-----", cfg.JWTPublicKey)
		assert.True(t, cfg.VerifyTokens())
	})

	t.Run("LambdaSkipsLocalVerification", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("AWS_LAMBDA_FUNCTION_NAME", "todo-api")
		t.Setenv("ENVIRONMENT", "production")
		t.Setenv("JWT_SECRET", "ignored")

		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.True(t, cfg.IsLambda)
		assert.False(t, cfg.VerifyTokens())
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"DefaultsAreValid", func(*Config) {}, false},
		{"UnknownStore", func(c *Config) { c.Store = "redis" }, true},
		{"DynamoDBNeedsTable", func(c *Config) { c.TableName = "" }, true},
		{"MemoryNeedsNoTable", func(c *Config) { c.Store = StoreMemory; c.TableName = "" }, false},
		{"RelativeBasePath", func(c *Config) { c.BasePath = "dev" }, true},
		{"ProductionNeedsSecret", func(c *Config) { c.Environment = "production" }, true},
		{"ProductionRejectsMemory", func(c *Config) {
			c.Environment = "production"
			c.JWTSecret = "x"
			c.Store = StoreMemory
		}, true},
		{"UnknownSigningMethod", func(c *Config) { c.JWTSigningMethod = "ES512" }, true},
		{"RS256NeedsPublicKey", func(c *Config) { c.JWTSigningMethod = "RS256" }, true},
		{"ProductionRS256", func(c *Config) {
			c.Environment = "production"
			c.JWTSigningMethod = "RS256"
			c.JWTPublicKey = "pem"
		}, false},
		{"ProductionLambda", func(c *Config) {
			c.Environment = "production"
			c.IsLambda = true
		}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaults()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
