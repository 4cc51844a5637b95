// Package config handles application configuration loading and management.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultCORSOrigins are the local UI dev servers allowed when
// CORS_ALLOWED_ORIGINS is unset.
var DefaultCORSOrigins = []string{
	"http://localhost:5173",
	"http://localhost:5174",
	"http://localhost:3000",
}

// Config holds all configuration for the application.
type Config struct {
	Server     ServerConfig
	Secrets    SecretsConfig
	CommonVars CommonVarsConfig
	DocDB      DocDBConfig
	ActionLog  ActionLogConfig
	Variables  VariablesConfig
	Log        LogConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host        string
	Port        int
	GinMode     string
	CORSOrigins []string
}

// Address returns the server address in host:port format.
func (c ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// SecretsConfig holds secret backend configuration.
type SecretsConfig struct {
	Type          string
	Namespace     string
	Label         string
	Kubeconfig    string
	InCluster     bool
	EncryptionKey string
}

// CommonVarsConfig holds the common variables provider configuration.
type CommonVarsConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	HashKey  string
}

// DocDBConfig holds document database configuration.
type DocDBConfig struct {
	Type     string
	URI      string
	Database string
}

// ActionLogConfig holds audit pipeline configuration.
type ActionLogConfig struct {
	QueueSize     int
	Retention     time.Duration
	RetentionCron string
}

// VariablesConfig holds variable store configuration.
type VariablesConfig struct {
	DefaultSecret      string
	AsyncDeleteTimeout time.Duration
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string
	Format string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host:        getEnv("SERVER_HOST", "0.0.0.0"),
			Port:        getEnvAsInt("SERVER_PORT", 8080),
			GinMode:     getEnv("GIN_MODE", "debug"),
			CORSOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", DefaultCORSOrigins),
		},
		Secrets: SecretsConfig{
			Type:          getEnv("SECRETS_TYPE", "kubernetes"),
			Namespace:     getEnv("SECRETS_NAMESPACE", "default"),
			Label:         getEnv("SECRETS_LABEL", "unifiedui.io/variables"),
			Kubeconfig:    getEnv("KUBECONFIG", ""),
			InCluster:     getEnvAsBool("SECRETS_IN_CLUSTER", false),
			EncryptionKey: getEnv("SECRETS_ENCRYPTION_KEY", ""),
		},
		CommonVars: CommonVarsConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			HashKey:  getEnv("COMMON_VARIABLES_KEY", "common-variables"),
		},
		DocDB: DocDBConfig{
			Type:     getEnv("DOCDB_TYPE", "mongodb"),
			URI:      getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGODB_DATABASE", "variables"),
		},
		ActionLog: ActionLogConfig{
			QueueSize:     getEnvAsInt("ACTION_LOG_QUEUE_SIZE", 1000),
			Retention:     time.Duration(getEnvAsInt("ACTION_LOG_RETENTION_DAYS", 90)) * 24 * time.Hour,
			RetentionCron: getEnv("ACTION_LOG_RETENTION_CRON", "0 3 * * *"),
		},
		Variables: VariablesConfig{
			DefaultSecret:      getEnv("VARIABLES_DEFAULT_SECRET", "secured-variables"),
			AsyncDeleteTimeout: time.Duration(getEnvAsInt("VARIABLES_ASYNC_DELETE_TIMEOUT_SECONDS", 30)) * time.Second,
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks settings that have no sensible fallback.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Variables.DefaultSecret) == "" {
		return fmt.Errorf("VARIABLES_DEFAULT_SECRET must not be empty")
	}
	if c.ActionLog.QueueSize <= 0 {
		return fmt.Errorf("ACTION_LOG_QUEUE_SIZE must be positive, got %d", c.ActionLog.QueueSize)
	}
	if c.Variables.AsyncDeleteTimeout <= 0 {
		return fmt.Errorf("VARIABLES_ASYNC_DELETE_TIMEOUT_SECONDS must be positive")
	}
	return nil
}

// getEnv gets an environment variable with a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer with a default value.
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
