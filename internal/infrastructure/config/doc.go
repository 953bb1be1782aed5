// Package config provides 12-factor configuration management for the CodeCraft backend.
//
// Configuration starts from built-in defaults, is overlaid by an optional
// TOML file named in CODECRAFT_CONFIG, and finally by environment variables.
// Both binaries load a .env file into the environment before any of this runs.
//
// Configuration Sections:
//   - Server: HTTP server settings (port, host, CORS origins)
//   - Storage: Persistence backend, key, compression and file watching
//   - Upload: Upload size ceiling
//   - Preview: Render cache size and asset inlining
//   - Logging: Log level and output format
//   - RateLimit: Per-IP rate limiting configuration
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	fmt.Printf("Server running on %s:%s\n", cfg.Server.Host, cfg.Server.Port)
//
// Environment Variables:
//   - PORT, HOST, CORS_ORIGINS
//   - STORAGE_BACKEND, STORAGE_KEY, STORAGE_PATH, STORAGE_DSN, STORAGE_COMPRESS, STORAGE_WATCH
//   - STORAGE_BREAKER_THRESHOLD, STORAGE_BREAKER_COOLDOWN (seconds)
//   - S3_ENDPOINT, S3_REGION, S3_BUCKET, S3_PREFIX, S3_ACCESS_KEY, S3_SECRET_KEY, S3_USE_SSL
//   - UPLOAD_MAX_BYTES, PREVIEW_CACHE_SIZE, PREVIEW_INLINE_ASSETS
//   - LOG_LEVEL, LOG_DEV
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST, RATE_LIMIT_ENABLED
package config
