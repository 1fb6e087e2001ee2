package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Storage drivers understood by the client.
const (
	StorageSQLite = "sqlite"
	StorageMemory = "memory"
	StorageRedis  = "redis"
)

// Config holds the configuration of both binaries. Each binary reads the
// sections it needs.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Client   ClientConfig
	Storage  StorageConfig
	Cache    CacheConfig
	Logger   LoggerConfig
}

// ServerConfig configures the upstream data API.
type ServerConfig struct {
	HTTPPort          string
	GinMode           string
	ReferenceCurrency string
}

// DatabaseConfig configures the server's SQLite database.
type DatabaseConfig struct {
	Path string
}

// JWTConfig configures token issuing and validation on the server.
type JWTConfig struct {
	Secret     string
	Issuer     string
	Audience   string
	Expiration time.Duration
}

// ClientConfig configures how the client reaches the data API.
type ClientConfig struct {
	APIURL      string
	HTTPTimeout time.Duration
}

// StorageConfig selects the client's durable key/value backend.
type StorageConfig struct {
	Driver        string
	Path          string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string
}

// CacheConfig holds the per-dataset expiry windows.
type CacheConfig struct {
	CountryTTL time.Duration
	RatesTTL   time.Duration
}

// LoggerConfig configures the logger.
type LoggerConfig struct {
	Level string
}

// Load reads an optional dotenv file and then the process environment.
func Load(configPath string) (*Config, error) {
	if configPath != "" {
		if err := godotenv.Load(configPath); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	cfg := &Config{}

	cfg.Server.HTTPPort = getEnv("HTTP_PORT", DefaultHTTPPort)
	cfg.Server.GinMode = getEnv("GIN_MODE", DefaultGinMode)
	cfg.Server.ReferenceCurrency = getEnv("REFERENCE_CURRENCY", DefaultReferenceCurrency)

	cfg.Database.Path = getEnv("DB_PATH", DefaultDBPath)

	cfg.JWT.Secret = getEnv("JWT_SECRET", DefaultJWTSecret)
	cfg.JWT.Issuer = getEnv("JWT_ISSUER", DefaultJWTIssuer)
	cfg.JWT.Audience = getEnv("JWT_AUDIENCE", DefaultJWTAudience)
	cfg.JWT.Expiration = getEnvDuration("JWT_EXPIRATION", DefaultJWTExpiration)

	cfg.Client.APIURL = getEnv("API_URL", DefaultAPIURL)
	cfg.Client.HTTPTimeout = getEnvDuration("HTTP_TIMEOUT", DefaultHTTPTimeout)

	cfg.Storage.Driver = getEnv("STORAGE_DRIVER", DefaultStorageDriver)
	cfg.Storage.Path = getEnv("STORAGE_PATH", defaultStoragePath())
	cfg.Storage.RedisAddr = getEnv("REDIS_ADDR", DefaultRedisAddr)
	cfg.Storage.RedisPassword = getEnv("REDIS_PASSWORD", "")
	cfg.Storage.RedisDB = getEnvInt("REDIS_DB", DefaultRedisDB)
	cfg.Storage.RedisPrefix = getEnv("REDIS_PREFIX", DefaultRedisPrefix)

	cfg.Cache.CountryTTL = getEnvDuration("COUNTRY_CACHE_TTL", DefaultCountryCacheTTL)
	cfg.Cache.RatesTTL = getEnvDuration("RATES_CACHE_TTL", DefaultRatesCacheTTL)

	cfg.Logger.Level = getEnv("LOG_LEVEL", DefaultLogLevel)

	return cfg, nil
}

func defaultStoragePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultStorageFile
	}
	return filepath.Join(home, DefaultStorageDir, DefaultStorageFile)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// ValidateServer checks the values the server binary reads.
func (c *Config) ValidateServer() error {
	if c.Server.HTTPPort == "" {
		return fmt.Errorf("HTTP_PORT is required")
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	if c.JWT.Expiration <= 0 {
		return fmt.Errorf("JWT_EXPIRATION must be positive")
	}

	if c.Server.ReferenceCurrency == "" {
		return fmt.Errorf("REFERENCE_CURRENCY is required")
	}

	return c.validateLogger()
}

// ValidateClient checks the values the client binary reads. Server settings
// are ignored.
func (c *Config) ValidateClient() error {
	if c.Client.APIURL == "" {
		return fmt.Errorf("API_URL is required")
	}

	if c.Client.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}

	switch c.Storage.Driver {
	case StorageSQLite, StorageMemory, StorageRedis:
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER: %s", c.Storage.Driver)
	}

	if c.Cache.CountryTTL <= 0 || c.Cache.RatesTTL <= 0 {
		return fmt.Errorf("cache TTLs must be positive")
	}

	return c.validateLogger()
}

func (c *Config) validateLogger() error {
	if _, err := logrus.ParseLevel(c.Logger.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", c.Logger.Level)
	}
	return nil
}
