package repository

import "fmt"

// Config represents the configuration needed for repository implementations.
type Config struct {
	TableName string // Primary table name for data storage
	IndexName string // Optional createdAt index used by ListByUser

	// Performance settings
	QueryPageLimit int32 // Items requested per Query page, 0 lets DynamoDB decide
}

// Validate checks if the configuration has all required fields and valid values.
func (c Config) Validate() error {
	if c.TableName == "" {
		return fmt.Errorf("TableName is required")
	}
	if c.QueryPageLimit < 0 {
		return fmt.Errorf("QueryPageLimit cannot be negative")
	}
	return nil
}

// WithDefaults returns a new Config with default values applied for optional fields.
func (c Config) WithDefaults() Config {
	config := c
	if config.TableName == "" {
		config.TableName = "Todos"
	}
	return config
}

// NewConfig creates a new repository configuration with required fields.
func NewConfig(tableName, indexName string) Config {
	return Config{
		TableName: tableName,
		IndexName: indexName,
	}.WithDefaults()
}
