package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"
)

// FileEnv names the variable pointing at an optional TOML config file.
const FileEnv = "CODECRAFT_CONFIG"

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Storage   StorageConfig   `toml:"storage"`
	Upload    UploadConfig    `toml:"upload"`
	Preview   PreviewConfig   `toml:"preview"`
	Logging   LogConfig       `toml:"logging"`
	RateLimit RateLimitConfig `toml:"rate_limit"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port           string   `envconfig:"PORT" toml:"port"`
	Host           string   `envconfig:"HOST" toml:"host"`
	AllowedOrigins []string `envconfig:"CORS_ORIGINS" toml:"allowed_origins"`
}

// StorageConfig selects and configures the persistence backend.
type StorageConfig struct {
	Backend  string `envconfig:"STORAGE_BACKEND" toml:"backend"` // memory, file, sqlite, postgres, s3
	Key      string `envconfig:"STORAGE_KEY" toml:"key"`
	Path     string `envconfig:"STORAGE_PATH" toml:"path"` // directory for file, database file for sqlite
	DSN      string `envconfig:"STORAGE_DSN" toml:"dsn"`
	Compress bool   `envconfig:"STORAGE_COMPRESS" toml:"compress"`
	Watch    bool   `envconfig:"STORAGE_WATCH" toml:"watch"`

	// Circuit breaker for postgres and s3. Zero threshold disables it.
	BreakerThreshold int `envconfig:"STORAGE_BREAKER_THRESHOLD" toml:"breaker_threshold"`
	BreakerCooldown  int `envconfig:"STORAGE_BREAKER_COOLDOWN" toml:"breaker_cooldown_seconds"`

	S3 S3Config `toml:"s3"`
}

// S3Config holds object store settings for the s3 backend.
type S3Config struct {
	Endpoint  string `envconfig:"S3_ENDPOINT" toml:"endpoint"`
	Region    string `envconfig:"S3_REGION" toml:"region"`
	Bucket    string `envconfig:"S3_BUCKET" toml:"bucket"`
	Prefix    string `envconfig:"S3_PREFIX" toml:"prefix"`
	AccessKey string `envconfig:"S3_ACCESS_KEY" toml:"access_key"`
	SecretKey string `envconfig:"S3_SECRET_KEY" toml:"secret_key"`
	UseSSL    bool   `envconfig:"S3_USE_SSL" toml:"use_ssl"`
}

// UploadConfig bounds uploads.
type UploadConfig struct {
	MaxBytes int64 `envconfig:"UPLOAD_MAX_BYTES" toml:"max_bytes"`
}

// PreviewConfig tunes the preview composer.
type PreviewConfig struct {
	CacheSize    int  `envconfig:"PREVIEW_CACHE_SIZE" toml:"cache_size"`
	InlineAssets bool `envconfig:"PREVIEW_INLINE_ASSETS" toml:"inline_assets"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" toml:"level"`
	Development bool   `envconfig:"LOG_DEV" toml:"development"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" toml:"requests_per_second"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" toml:"burst"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" toml:"enabled"`
}

// Load builds the configuration: defaults, then the TOML file named by
// CODECRAFT_CONFIG (if any), then environment variables.
func Load() (*Config, error) {
	return LoadFile(os.Getenv(FileEnv))
}

// LoadFile is Load with an explicit TOML path. An empty path skips the file.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := toml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// Validate rejects combinations the server cannot start with.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case "memory", "file", "sqlite":
	case "postgres":
		if c.Storage.DSN == "" {
			return errors.New("config: postgres storage requires STORAGE_DSN")
		}
	case "s3":
		if c.Storage.S3.Endpoint == "" || c.Storage.S3.Bucket == "" {
			return errors.New("config: s3 storage requires S3_ENDPOINT and S3_BUCKET")
		}
	default:
		return fmt.Errorf("config: unknown storage backend %q", c.Storage.Backend)
	}
	if c.Storage.Key == "" {
		return errors.New("config: storage key must not be empty")
	}
	if c.Upload.MaxBytes <= 0 {
		return errors.New("config: upload max bytes must be positive")
	}
	return nil
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           "8000",
			Host:           "0.0.0.0",
			AllowedOrigins: []string{"*"},
		},
		Storage: StorageConfig{
			Backend: "file",
			Key:     "codecraft-projects",
			Path:    "data",

			BreakerThreshold: 5,
			BreakerCooldown:  30,
		},
		Upload: UploadConfig{
			MaxBytes: 5 * 1024 * 1024,
		},
		Preview: PreviewConfig{
			CacheSize: 64,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
	}
}
