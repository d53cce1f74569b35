package config

import (
	"os"
	"strconv"

	"wrangle/internal/errors"
)

// StoreBackend selects the relation store implementation
type StoreBackend string

const (
	BackendBadger   StoreBackend = "badger"
	BackendPostgres StoreBackend = "postgres"
)

// Config represents the complete application configuration
type Config struct {
	Server ServerConfig
	Store  StoreConfig
	Upload UploadConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port string
}

// StoreConfig holds relation store settings
type StoreConfig struct {
	Backend      StoreBackend
	BadgerDir    string // embedded store directory (badger backend)
	DatabaseURL  string // connection string (postgres backend)
	Schema       string // target schema (postgres backend)
	CacheEnabled bool
}

// UploadConfig holds raw upload storage settings
type UploadConfig struct {
	Dir         string
	MaxFileSize int64
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port: getEnvOrDefault("PORT", "8080"),
		},
		Store: StoreConfig{
			Backend:      StoreBackend(getEnvOrDefault("STORE_BACKEND", string(BackendBadger))),
			BadgerDir:    getEnvOrDefault("STORE_DIR", "data/relations"),
			DatabaseURL:  getEnvOrDefault("DATABASE_URL", ""),
			Schema:       getEnvOrDefault("DB_SCHEMA", "public"),
			CacheEnabled: getEnvBoolOrDefault("STORE_CACHE_ENABLED", true),
		},
		Upload: UploadConfig{
			Dir:         getEnvOrDefault("UPLOAD_DIR", "uploads"),
			MaxFileSize: getEnvInt64OrDefault("MAX_FILE_SIZE", 50*1024*1024),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func validateConfig(config *Config) error {
	switch config.Store.Backend {
	case BackendBadger:
		if config.Store.BadgerDir == "" {
			return errors.ConfigInvalid("STORE_DIR is required for the badger backend")
		}
	case BackendPostgres:
		if config.Store.DatabaseURL == "" {
			return errors.ConfigInvalid("DATABASE_URL is required for the postgres backend")
		}
	default:
		return errors.ConfigInvalid("STORE_BACKEND must be badger or postgres")
	}
	if config.Upload.MaxFileSize <= 0 {
		return errors.ConfigInvalid("MAX_FILE_SIZE must be positive")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}
