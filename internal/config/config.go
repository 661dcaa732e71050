package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"gridimport/internal/errors"

	"github.com/joho/godotenv"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Import   ImportConfig
	LogLevel string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// DatabaseConfig holds database connection settings. An empty URL keeps
// import results in memory.
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Enabled reports whether results are persisted to Postgres
func (d DatabaseConfig) Enabled() bool {
	return d.URL != ""
}

// ImportConfig holds parsing settings
type ImportConfig struct {
	// Workers bounds concurrent column passes per sheet; 0 means GOMAXPROCS
	Workers int
	// HeaderRow takes column ids from the first non-blank row
	HeaderRow bool
	// GuessCSV retypes text columns of CSV uploads
	GuessCSV bool
	// GuessXLSX retypes pure text columns of workbooks as well
	GuessXLSX bool
	// MaxUploadBytes caps a single upload
	MaxUploadBytes int64
	// MaxConcurrent bounds parses running at once across requests
	MaxConcurrent int64
	// UploadDir receives uploads while they are parsed; empty uses os.TempDir
	UploadDir string
}

// Load reads configuration from environment variables and validates it.
// A .env file in the working directory is applied first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// LoadFiles is Load with explicit env files; missing files are an error
func LoadFiles(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil {
		return nil, errors.Wrap(err, "failed to load env files")
	}
	return FromEnv()
}

// FromEnv builds the configuration from the current process environment
func FromEnv() (*Config, error) {
	config := &Config{
		Server:   loadServerConfig(),
		Database: loadDatabaseConfig(),
		Import:   loadImportConfig(),
		LogLevel: strings.ToUpper(getEnvOrDefault("LOG_LEVEL", "INFO")),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Port:            getEnvOrDefault("PORT", "8080"),
		ReadTimeout:     getEnvDurationOrDefault("SERVER_READ_TIMEOUT", 30*time.Second),
		WriteTimeout:    getEnvDurationOrDefault("SERVER_WRITE_TIMEOUT", 2*time.Minute),
		ShutdownTimeout: getEnvDurationOrDefault("SERVER_SHUTDOWN_TIMEOUT", 15*time.Second),
	}
}

func loadDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		URL:             getEnvOrDefault("DATABASE_URL", ""),
		MaxOpenConns:    getEnvIntOrDefault("DB_MAX_OPEN_CONNS", 10),
		MaxIdleConns:    getEnvIntOrDefault("DB_MAX_IDLE_CONNS", 5),
		ConnMaxLifetime: getEnvDurationOrDefault("DB_CONN_MAX_LIFETIME", 30*time.Minute),
	}
}

func loadImportConfig() ImportConfig {
	return ImportConfig{
		Workers:        getEnvIntOrDefault("IMPORT_WORKERS", 0),
		HeaderRow:      getEnvBoolOrDefault("IMPORT_HEADER_ROW", true),
		GuessCSV:       getEnvBoolOrDefault("IMPORT_GUESS_CSV", true),
		GuessXLSX:      getEnvBoolOrDefault("IMPORT_GUESS_XLSX", false),
		MaxUploadBytes: getEnvInt64OrDefault("IMPORT_MAX_UPLOAD_BYTES", 32<<20),
		MaxConcurrent:  getEnvInt64OrDefault("IMPORT_MAX_CONCURRENT", 4),
		UploadDir:      getEnvOrDefault("IMPORT_UPLOAD_DIR", ""),
	}
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("PORT is required")
	}
	if _, err := strconv.Atoi(config.Server.Port); err != nil {
		return errors.ConfigInvalid("PORT must be numeric")
	}
	if config.Import.Workers < 0 {
		return errors.ConfigInvalid("IMPORT_WORKERS cannot be negative")
	}
	if config.Import.MaxUploadBytes <= 0 {
		return errors.ConfigInvalid("IMPORT_MAX_UPLOAD_BYTES must be positive")
	}
	if config.Import.MaxConcurrent <= 0 {
		return errors.ConfigInvalid("IMPORT_MAX_CONCURRENT must be positive")
	}
	if config.Database.Enabled() && !strings.HasPrefix(config.Database.URL, "postgres") {
		return errors.ConfigInvalid("DATABASE_URL must be a postgres URL")
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

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
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

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
