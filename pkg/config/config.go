package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Store backends selectable with STORE.
const (
	StoreDynamoDB = "dynamodb"
	StoreMemory   = "memory"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string `yaml:"serverAddress"`
	BasePath      string `yaml:"basePath"`
	Environment   string `yaml:"environment"`

	// AWS configuration
	AWSRegion        string `yaml:"awsRegion"`
	TableName        string `yaml:"tableName"`
	IndexName        string `yaml:"indexName"` // createdAt LSI, optional
	DynamoDBEndpoint string `yaml:"dynamodbEndpoint"`
	Store            string `yaml:"store"`

	// Lambda configuration
	IsLambda           bool   `yaml:"-"`
	LambdaFunctionName string `yaml:"-"`

	// Logging
	LogLevel string `yaml:"logLevel"`

	// Authentication
	JWTSigningMethod string   `yaml:"jwtSigningMethod"` // HS256 or RS256
	JWTSecret        string   `yaml:"jwtSecret"`
	JWTPublicKey     string   `yaml:"jwtPublicKey"` // PEM, for RS256
	JWTIssuer        string   `yaml:"jwtIssuer"`
	JWTAudience      []string `yaml:"jwtAudience"`

	// Feature flags
	EnableMetrics        bool `yaml:"enableMetrics"`
	EnableTracing        bool `yaml:"enableTracing"`
	EnableCircuitBreaker bool `yaml:"enableCircuitBreaker"`
}

// defaults returns the configuration used when neither a file nor the
// environment says otherwise.
func defaults() *Config {
	return &Config{
		ServerAddress:    ":8080",
		Environment:      "development",
		AWSRegion:        "us-east-1",
		TableName:        "Todos",
		Store:            StoreDynamoDB,
		LogLevel:         "info",
		JWTSigningMethod: "HS256",
		JWTIssuer:        "todo-backend",
		EnableMetrics:    true,
	}
}

// LoadConfig builds the configuration from defaults, then the YAML file named
// by CONFIG_FILE (if any), then environment variables.
func LoadConfig() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.ServerAddress = getEnv("SERVER_ADDRESS", c.ServerAddress)
	c.BasePath = getEnv("BASE_PATH", c.BasePath)
	c.Environment = getEnv("ENVIRONMENT", c.Environment)

	c.AWSRegion = getEnv("AWS_REGION", c.AWSRegion)
	c.TableName = getEnv("TABLE_NAME", c.TableName)
	c.IndexName = getEnv("INDEX_NAME", c.IndexName)
	c.DynamoDBEndpoint = getEnv("DYNAMODB_ENDPOINT", c.DynamoDBEndpoint)
	c.Store = strings.ToLower(getEnv("STORE", c.Store))

	c.LambdaFunctionName = getEnv("AWS_LAMBDA_FUNCTION_NAME", "")
	c.IsLambda = c.LambdaFunctionName != ""

	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)

	c.JWTSigningMethod = strings.ToUpper(getEnv("JWT_SIGNING_METHOD", c.JWTSigningMethod))
	c.JWTSecret = getEnv("JWT_SECRET", c.JWTSecret)
	// Single-line env values carry PEM newlines as \n.
	c.JWTPublicKey = strings.ReplaceAll(getEnv("JWT_PUBLIC_KEY", c.JWTPublicKey), `\n`, "\n")
	c.JWTIssuer = getEnv("JWT_ISSUER", c.JWTIssuer)
	if aud := getEnv("JWT_AUDIENCE", ""); aud != "" {
		c.JWTAudience = strings.Split(aud, ",")
	}

	c.EnableMetrics = getEnvBool("ENABLE_METRICS", c.EnableMetrics)
	c.EnableTracing = getEnvBool("ENABLE_TRACING", c.EnableTracing)
	c.EnableCircuitBreaker = getEnvBool("ENABLE_CIRCUIT_BREAKER", c.EnableCircuitBreaker)
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	if c.Store != StoreDynamoDB && c.Store != StoreMemory {
		return fmt.Errorf("STORE must be %q or %q, got %q", StoreDynamoDB, StoreMemory, c.Store)
	}
	if c.Store == StoreDynamoDB && c.TableName == "" {
		return fmt.Errorf("TABLE_NAME is required")
	}
	if c.BasePath != "" && !strings.HasPrefix(c.BasePath, "/") {
		return fmt.Errorf("BASE_PATH must start with /")
	}

	switch c.JWTSigningMethod {
	case "HS256", "":
	case "RS256":
		if !c.IsLambda && c.JWTPublicKey == "" {
			return fmt.Errorf("JWT_PUBLIC_KEY is required for RS256")
		}
	default:
		return fmt.Errorf("JWT_SIGNING_METHOD must be HS256 or RS256, got %q", c.JWTSigningMethod)
	}

	if c.IsProduction() {
		if c.Store == StoreMemory {
			return fmt.Errorf("the memory store cannot be used in production")
		}
		// Outside Lambda nothing upstream verifies tokens.
		if !c.IsLambda && !c.hasVerificationKey() {
			return fmt.Errorf("JWT_SECRET or JWT_PUBLIC_KEY is required in production")
		}
	}

	return nil
}

// VerifyTokens reports whether bearer tokens must be verified in-process.
func (c *Config) VerifyTokens() bool {
	return !c.IsLambda && c.hasVerificationKey()
}

func (c *Config) hasVerificationKey() bool {
	if c.JWTSigningMethod == "RS256" {
		return c.JWTPublicKey != ""
	}
	return c.JWTSecret != ""
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return value == "yes"
	}
	return b
}
