// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment string
	Server      ServerConfig
	Database    DatabaseConfig
	Log         LogConfig
	CORS        CORSConfig
	RateLimit   RateLimitConfig
	Backup      BackupConfig
	AWS         AWSConfig
	I18n        I18nConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	ReadTimeout  int
	WriteTimeout int
	IdleTimeout  int
}

type DatabaseConfig struct {
	// Locator names the store as "<scheme>:<name>", e.g. "sqlite:inventory_v2.db".
	Locator      string
	DataDir      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  int
	BusyTimeout  int // in milliseconds
	LogLevel     string
	SeedMockData bool
}

type LogConfig struct {
	Level  string
	Format string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

type BackupConfig struct {
	Dir           string
	IntervalHours int
}

type AWSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	S3Bucket        string
	S3Prefix        string
}

type I18nConfig struct {
	DefaultLocale string
}

func Load() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	dataDir := getEnv("DATA_DIR", defaultDataDir())

	config := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "1421"),
			Host:         getEnv("SERVER_HOST", "127.0.0.1"),
			ReadTimeout:  getEnvAsInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvAsInt("SERVER_WRITE_TIMEOUT", 15),
			IdleTimeout:  getEnvAsInt("SERVER_IDLE_TIMEOUT", 60),
		},
		Database: DatabaseConfig{
			Locator:      getEnv("DB_LOCATOR", DefaultLocator),
			DataDir:      dataDir,
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 1),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 1),
			MaxLifetime:  getEnvAsInt("DB_MAX_LIFETIME", 0),
			BusyTimeout:  getEnvAsInt("DB_BUSY_TIMEOUT_MS", 5000),
			LogLevel:     getEnv("DB_LOG_LEVEL", "warn"),
			SeedMockData: getEnvAsBool("SEED_MOCK_DATA", false),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{
				"tauri://localhost",
				"http://tauri.localhost",
				"http://localhost:1420",
			}),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: getEnvAsFloat("RATE_LIMIT_RPS", 50),
			Burst:             getEnvAsInt("RATE_LIMIT_BURST", 100),
		},
		Backup: BackupConfig{
			Dir:           getEnv("BACKUP_DIR", filepath.Join(dataDir, "backups")),
			IntervalHours: getEnvAsInt("BACKUP_INTERVAL_HOURS", 0),
		},
		AWS: AWSConfig{
			Region:          getEnv("AWS_REGION", "us-east-1"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			S3Bucket:        getEnv("AWS_S3_BUCKET", ""),
			S3Prefix:        getEnv("AWS_S3_PREFIX", "backups"),
		},
		I18n: I18nConfig{
			DefaultLocale: getEnv("DEFAULT_LOCALE", "en"),
		},
	}

	return config, config.Validate()
}

func (c *Config) Validate() error {
	if _, err := ParseLocator(c.Database.Locator); err != nil {
		return err
	}

	if c.Database.MaxOpenConns < 1 {
		return fmt.Errorf("DB_MAX_OPEN_CONNS must be at least 1")
	}

	if c.Database.BusyTimeout < 0 {
		return fmt.Errorf("DB_BUSY_TIMEOUT_MS must not be negative")
	}

	if c.AWS.AccessKeyID != "" && c.AWS.S3Bucket == "" {
		return fmt.Errorf("AWS_S3_BUCKET is required when AWS credentials are set")
	}

	if c.Backup.IntervalHours < 0 {
		return fmt.Errorf("BACKUP_INTERVAL_HOURS must not be negative")
	}

	return nil
}

// defaultDataDir mirrors where the desktop shell keeps its application data.
func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "inventory-pos")
	}
	return "./data"
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(strings.ToLower(value)); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
