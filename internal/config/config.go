package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/templui/folio/internal/validation"
)

type Config struct {
	// Application
	AppName  string
	AppEnv   string
	AppURL   string
	Port     string
	LogLevel string

	// Content
	RecordsPath   string // JSON or YAML records file
	PublicPath    string // Root for /artwork and /descriptions when STORAGE_DRIVER=local
	WatchRecords  bool
	MaxUploadSize int64

	// Security
	AdminPasswordHash string // bcrypt hash, preferred
	AdminPassword     string // plain shared secret, development fallback
	JWTSecret         string
	JWTExpiry         time.Duration
	TrustProxy        bool // key login rate limits by X-Forwarded-For

	// Observability (optional)
	SentryDSN string

	// Storage: "local" (default) or "s3" (MinIO, AWS S3, Cloudflare R2, DigitalOcean Spaces, etc.)
	StorageDriver string
	S3Region      string
	S3Bucket      string
	S3AccessKey   string
	S3SecretKey   string
	S3Endpoint    string // Optional: for S3-compatible services (MinIO, DO Spaces, R2, etc.)
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		// Application
		AppName:  envString("APP_NAME", "Folio"),
		AppEnv:   envRequired("APP_ENV"), // Required: 'development' or 'production'
		AppURL:   envString("APP_URL", "http://localhost:8090"),
		Port:     envString("PORT", "8090"),
		LogLevel: envString("LOG_LEVEL", ""),

		// Content
		RecordsPath:   envString("RECORDS_PATH", "./data/artworks.json"),
		PublicPath:    envString("PUBLIC_PATH", "./public"),
		WatchRecords:  envBool("WATCH_RECORDS", true),
		MaxUploadSize: envInt64("MAX_UPLOAD_SIZE", 20<<20), // 20 MB per image

		// Security
		AdminPasswordHash: envString("ADMIN_PASSWORD_HASH", ""),
		AdminPassword:     envString("ADMIN_PASSWORD", ""),
		JWTSecret:         envRequired("JWT_SECRET"),
		JWTExpiry:         envDuration("JWT_EXPIRY", 12*time.Hour),
		TrustProxy:        envBool("TRUST_PROXY", false),

		// Observability
		SentryDSN: envString("SENTRY_DSN", ""),

		// Storage
		StorageDriver: envString("STORAGE_DRIVER", "local"),
		S3Region:      envString("S3_REGION", ""),
		S3Bucket:      envString("S3_BUCKET", ""),
		S3AccessKey:   envString("S3_ACCESS_KEY", ""),
		S3SecretKey:   envString("S3_SECRET_KEY", ""),
		S3Endpoint:    envString("S3_ENDPOINT", ""), // Optional: for non-AWS providers
	}

	if cfg.StorageDriver == "s3" {
		validateS3(cfg)
	}

	if cfg.AdminPasswordHash == "" && cfg.AdminPassword == "" {
		slog.Error("config requires ADMIN_PASSWORD_HASH or ADMIN_PASSWORD")
		os.Exit(1)
	}

	// Production: validate admin secret
	if cfg.IsProduction() {
		validateProduction(cfg)
	}

	return cfg
}

func validateS3(cfg *Config) {
	for key, value := range map[string]string{
		"S3_REGION": cfg.S3Region,
		"S3_BUCKET": cfg.S3Bucket,
	} {
		if value == "" {
			slog.Error("config required env var missing", "key", key, "storage_driver", "s3")
			os.Exit(1)
		}
	}
}

// validateProduction ensures the admin secret is strong enough for a public deployment.
// Development allows a short plain ADMIN_PASSWORD for easier local testing.
func validateProduction(cfg *Config) {
	if cfg.AdminPasswordHash != "" {
		_, err := bcrypt.Cost([]byte(cfg.AdminPasswordHash))
		if err != nil {
			slog.Error("ADMIN_PASSWORD_HASH is not a bcrypt hash", "error", err)
			os.Exit(1)
		}
		return
	}

	err := validation.ValidateAdminPassword(cfg.AdminPassword)
	if err != nil {
		slog.Error("production deployment requires a strong ADMIN_PASSWORD",
			"error", err,
			"hint", "set ADMIN_PASSWORD_HASH to a bcrypt hash instead")
		os.Exit(1)
	}
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("config invalid bool, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
}

func envInt64(key string, def int64) int64 {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		slog.Warn("config invalid integer, using default", "key", key, "value", v, "default", def)
		return def
	}
	return n
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func envRequired(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	slog.Error("config required env var missing", "key", key)
	os.Exit(1)
	return ""
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Sanitized returns a copy of the config with only public/safe fields.
// All secrets and credentials are excluded.
// Safe to expose in ctx and client-facing responses.
func (c *Config) Sanitized() *Config {
	return &Config{
		AppName:       c.AppName,
		AppEnv:        c.AppEnv,
		AppURL:        c.AppURL,
		Port:          c.Port,
		MaxUploadSize: c.MaxUploadSize,
		StorageDriver: c.StorageDriver,

		S3Endpoint: c.S3Endpoint,
	}
}
