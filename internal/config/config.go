package config

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// B2Config holds Backblaze B2 settings.
type B2Config struct {
	KeyID  string
	AppKey string
	Bucket string
}

// StorageConfig selects and configures the file storage backend.
// Provider is one of "local", "minio" or "b2".
type StorageConfig struct {
	Provider  string
	LocalPath string
	MinIO     MinIOConfig
	B2        B2Config
}

// JWTConfig holds signing settings for bearer tokens and share links.
type JWTConfig struct {
	Secret      string
	ShareSecret string
	Issuer      string
	Audience    string
	TokenTTL    time.Duration
}

// RateLimitConfig configures the fixed-window limiter guarding public endpoints.
// Store is one of "memory", "redis" or "memcached".
type RateLimitConfig struct {
	Store         string
	Limit         int
	Window        time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	MemcachedAddr string
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level string
	// Format is "json" or "console".
	Format string
	// File, when set, receives a rotated copy of the JSON log stream.
	File string
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost        string
	Port           string
	Env            string
	FrontendURL    string
	AllowedOrigins []string
	MaxUploadBytes int64
	Database       DatabaseConfig
	Storage        StorageConfig
	JWT            JWTConfig
	RateLimit      RateLimitConfig
	Log            LogConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost:        getEnv("APP_HOST", "localhost:8080"),
		Port:           getEnv("PORT", "8080"), // default only for non-sensitive value
		Env:            strings.ToLower(getEnv("ENV", "development")),
		FrontendURL:    strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:3000"), "/"),
		AllowedOrigins: getEnvList("ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		MaxUploadBytes: int64(getEnvInt("MAX_UPLOAD_BYTES", 20<<20)),
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		Storage: StorageConfig{
			Provider:  strings.ToLower(getEnv("STORAGE_PROVIDER", "local")),
			LocalPath: getEnv("STORAGE_LOCAL_PATH", "uploads"),
			MinIO: MinIOConfig{
				Endpoint:  getEnv("MINIO_ENDPOINT", ""),
				AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
				SecretKey: getEnv("MINIO_SECRET_KEY", ""),
				Bucket:    getEnv("MINIO_BUCKET", ""),
				UseSSL:    getEnvBool("MINIO_USE_SSL", false),
			},
			B2: B2Config{
				KeyID:  getEnv("B2_APPLICATION_KEY_ID", ""),
				AppKey: getEnv("B2_APPLICATION_KEY", ""),
				Bucket: getEnv("B2_BUCKET_NAME", ""),
			},
		},
		JWT: JWTConfig{
			Secret:      getEnv("JWT_KEY", ""),
			ShareSecret: getEnv("JWT_SHARE_KEY", ""),
			Issuer:      getEnv("JWT_ISSUER", "pdfshare"),
			Audience:    getEnv("JWT_AUDIENCE", "pdfshare-client"),
			TokenTTL:    getEnvDuration("JWT_TTL", 7*24*time.Hour),
		},
		RateLimit: RateLimitConfig{
			Store:         strings.ToLower(getEnv("RATE_LIMIT_STORE", "memory")),
			Limit:         getEnvInt("RATE_LIMIT_COMMENTS", 5),
			Window:        getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),
			RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       getEnvInt("REDIS_DB", 0),
			MemcachedAddr: getEnv("MEMCACHED_ADDR", "localhost:11211"),
		},
		Log: LogConfig{
			Level:  strings.ToLower(getEnv("LOG_LEVEL", "info")),
			Format: strings.ToLower(getEnv("LOG_FORMAT", "json")),
			File:   getEnv("LOG_FILE", ""),
		},
	}
}

// Validate reports configuration that would make the service unusable.
func (c *AppConfig) Validate() error {
	if strings.TrimSpace(c.JWT.Secret) == "" {
		return fmt.Errorf("JWT_KEY is required")
	}
	switch c.Storage.Provider {
	case "local", "minio", "b2":
	default:
		return fmt.Errorf("unsupported STORAGE_PROVIDER %q", c.Storage.Provider)
	}
	switch c.RateLimit.Store {
	case "memory", "redis", "memcached":
	default:
		return fmt.Errorf("unsupported RATE_LIMIT_STORE %q", c.RateLimit.Store)
	}
	if c.JWT.ShareSecret != "" && c.JWT.ShareSecret == c.JWT.Secret {
		return fmt.Errorf("JWT_SHARE_KEY must differ from JWT_KEY")
	}
	if c.RateLimit.Limit <= 0 || c.RateLimit.Window <= 0 {
		return fmt.Errorf("rate limit and window must be positive")
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive")
	}
	return nil
}

const shareKeyLabel = "pdfshare/share-link/v1"

// ShareSigningKey returns the key used for share-link JWTs. Without JWT_SHARE_KEY it is
// derived from the bearer key, so the two token kinds never share a signing key.
func (c JWTConfig) ShareSigningKey() string {
	if c.ShareSecret != "" {
		return c.ShareSecret
	}
	mac := hmac.New(sha256.New, []byte(c.Secret))
	mac.Write([]byte(shareKeyLabel))
	return hex.EncodeToString(mac.Sum(nil))
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err == nil {
			return d
		}
	}
	return def
}

func getEnvList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
