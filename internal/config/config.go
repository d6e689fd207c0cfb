package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server      ServerConfig
	Postgres    PostgresConfig
	Redis       RedisConfig
	JWT         JWTConfig
	ObjectStore ObjectStoreConfig
	RateLimit   RateLimitConfig
}

type ServerConfig struct {
	Port        string
	Environment string
	FrontendURL string
}

type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

func (p PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode)
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type JWTConfig struct {
	Secret      string
	ExpiryHours int
}

// ObjectStoreConfig points at an S3-compatible bucket (Cloudflare R2 in
// production, hence the account id in the endpoint).
type ObjectStoreConfig struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	PublicURL       string
}

func (o ObjectStoreConfig) Endpoint() string {
	return fmt.Sprintf("https://%s.r2.cloudflarestorage.com", o.AccountID)
}

// CategoryQuota is the quota for one admission category.
type CategoryQuota struct {
	MaxRequests int
	Window      time.Duration
}

// RateLimitConfig carries the per-category quotas. Defaults match the
// production values; each can be overridden through env.
type RateLimitConfig struct {
	General      CategoryQuota
	StrictGlobal CategoryQuota
	Upload       CategoryQuota
	Search       CategoryQuota
	Write        CategoryQuota
	Auth         CategoryQuota
}

func Load() (*Config, error) {
	postgresPort, err := getEnvInt("POSTGRES_PORT", 5432)
	if err != nil {
		return nil, err
	}

	redisPort, err := getEnvInt("REDIS_PORT", 6379)
	if err != nil {
		return nil, err
	}

	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}

	jwtExpiry, err := getEnvInt("JWT_EXPIRY_HOURS", 24)
	if err != nil {
		return nil, err
	}

	rateLimit, err := loadRateLimitConfig()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:        getEnv("SERVER_PORT", "8080"),
			Environment: getEnv("ENVIRONMENT", "development"),
			FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
		},
		Postgres: PostgresConfig{
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     postgresPort,
			User:     getEnv("POSTGRES_USER", "postgres"),
			Password: getEnv("POSTGRES_PASSWORD", ""),
			Database: getEnv("POSTGRES_DB", "inkwell"),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Enabled:  getEnv("REDIS_ENABLED", "true") == "true",
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     redisPort,
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		JWT: JWTConfig{
			Secret:      getEnv("JWT_SECRET", ""),
			ExpiryHours: jwtExpiry,
		},
		ObjectStore: ObjectStoreConfig{
			AccountID:       getEnv("R2_ACCOUNT_ID", ""),
			AccessKeyID:     getEnv("R2_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("R2_SECRET_ACCESS_KEY", ""),
			Bucket:          getEnv("R2_BUCKET", "inkwell-uploads"),
			PublicURL:       getEnv("R2_PUBLIC_URL", ""),
		},
		RateLimit: rateLimit,
	}

	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func loadRateLimitConfig() (RateLimitConfig, error) {
	cfg := RateLimitConfig{}

	quotas := []struct {
		dst           *CategoryQuota
		envPrefix     string
		defaultMax    int
		defaultWindow time.Duration
	}{
		{&cfg.General, "RATE_GENERAL", 100, time.Minute},
		{&cfg.StrictGlobal, "RATE_STRICT", 30, time.Second},
		{&cfg.Upload, "RATE_UPLOAD", 20, time.Minute},
		{&cfg.Search, "RATE_SEARCH", 30, time.Minute},
		{&cfg.Write, "RATE_WRITE", 10, time.Minute},
		{&cfg.Auth, "RATE_AUTH", 10, time.Minute},
	}

	for _, q := range quotas {
		max, err := getEnvInt(q.envPrefix+"_MAX", q.defaultMax)
		if err != nil {
			return RateLimitConfig{}, err
		}

		window, err := getEnvDuration(q.envPrefix+"_WINDOW", q.defaultWindow)
		if err != nil {
			return RateLimitConfig{}, err
		}

		if max <= 0 || window <= 0 {
			return RateLimitConfig{}, fmt.Errorf("%s quota must be positive", q.envPrefix)
		}

		q.dst.MaxRequests = max
		q.dst.Window = window
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}

	return parsed, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}

	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}

	return parsed, nil
}
