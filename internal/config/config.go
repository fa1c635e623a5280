package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// DefaultJWTSecret is only acceptable for local development. Validate
// rejects it when APP_ENV is production.
const DefaultJWTSecret = "dev_secret"

type Config struct {
	AppEnv string
	Server ServerConfig

	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Hash     HashConfig
	Upload   UploadConfig
	CORS     CORSConfig

	RateLimitLogin time.Duration
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type RedisConfig struct {
	URL string
}

type JWTConfig struct {
	Secret string
	Expiry time.Duration
}

type HashConfig struct {
	Cost int
}

type UploadConfig struct {
	// Provider is "local" or "cloudinary".
	Provider string
	Dir      string
	// PublicPath is the URL prefix uploaded files are served from when the
	// local provider is active.
	PublicPath string
}

type CORSConfig struct {
	AllowedOrigins string
}

func Load() (*Config, error) {
	// Don't fail if .env doesn't exist (might be prod env vars)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv: getEnv("APP_ENV", "development"),
		Server: ServerConfig{
			Port: getEnv("PORT", "5000"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "trade_aid_user"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     getEnv("DB_NAME", "trade_aid_dev"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		Redis: RedisConfig{
			URL: os.Getenv("REDIS_URL"),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", DefaultJWTSecret),
		},
		Upload: UploadConfig{
			Provider:   getEnv("STORAGE_PROVIDER", "local"),
			Dir:        getEnv("UPLOAD_DIR", "uploads"),
			PublicPath: getEnv("UPLOAD_PUBLIC_PATH", "/uploads"),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnv("ALLOWED_ORIGINS", "*"),
		},
	}

	var err error
	cfg.JWT.Expiry, err = time.ParseDuration(getEnv("JWT_EXPIRY", "168h"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRY: %w", err)
	}

	cfg.Hash.Cost, err = strconv.Atoi(getEnv("BCRYPT_COST", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid BCRYPT_COST: %w", err)
	}

	cfg.RateLimitLogin, err = time.ParseDuration(getEnv("RATE_LIMIT_LOGIN", "0s"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_LOGIN: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate catches configurations that must never reach production. The
// default signing secret is tolerated in development so the server still
// boots locally, but it is a hard error anywhere else.
func (c *Config) Validate() error {
	if c.JWT.Secret == DefaultJWTSecret && c.AppEnv == "production" {
		return fmt.Errorf("JWT_SECRET is set to the insecure default; set an explicit secret in production")
	}
	if c.JWT.Expiry <= 0 {
		return fmt.Errorf("JWT_EXPIRY must be positive")
	}
	if c.Hash.Cost < 4 || c.Hash.Cost > 31 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 31, got %d", c.Hash.Cost)
	}
	switch c.Upload.Provider {
	case "local", "cloudinary":
	default:
		return fmt.Errorf("unknown STORAGE_PROVIDER %q", c.Upload.Provider)
	}
	return nil
}

// UsesDefaultSecret reports whether the insecure development secret is
// active so the caller can log a warning at startup.
func (c *Config) UsesDefaultSecret() bool {
	return c.JWT.Secret == DefaultJWTSecret
}

// DSN builds the PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
