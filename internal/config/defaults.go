package config

import "time"

// Server defaults
const (
	DefaultHTTPPort          = "8008"
	DefaultGinMode           = "release"
	DefaultDBPath            = "country-converter.db"
	DefaultReferenceCurrency = "SEK"
	DefaultLogLevel          = "info"
)

// JWT defaults
const (
	DefaultJWTSecret     = "development-insecure-secret-change-me"
	DefaultJWTIssuer     = "country-converter"
	DefaultJWTAudience   = "country-converter-clients"
	DefaultJWTExpiration = 24 * time.Hour
)

// Client defaults
const (
	DefaultAPIURL      = "http://localhost:8008"
	DefaultHTTPTimeout = 10 * time.Second
)

// Storage defaults
const (
	DefaultStorageDriver = "sqlite"
	DefaultStorageDir    = ".country-converter"
	DefaultStorageFile   = "storage.db"
	DefaultRedisAddr     = "localhost:6379"
	DefaultRedisDB       = 0
	DefaultRedisPrefix   = "country-converter:"
)

// Cache defaults
const (
	DefaultCountryCacheTTL = 24 * time.Hour
	DefaultRatesCacheTTL   = 60 * time.Second
)
