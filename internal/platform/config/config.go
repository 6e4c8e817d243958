package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage drivers.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

const (
	defaultJWTSecret = "a-very-secret-key-should-be-longer-and-random"
	defaultJWTIssuer = "church-finance-app"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL       string
	Port              string
	IsProduction      bool
	StorageDriver     string
	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// Calendar and caching
	DefaultTimezone   string
	CacheSize         int
	MaxWatchedTenants int

	// Google Sheets listing function
	SheetsRateLimit   string // ulule/limiter format, e.g. "30-M"
	GoogleAPIEndpoint string

	PosthogAPIKey      string
	PosthogEndpoint    string
	CORSAllowedOrigins []string

	// DevSeedUserID, with the memory driver outside production, gets admin
	// on a demo church at boot.
	DevSeedUserID string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("STORAGE_DRIVER", StoragePostgres)
	viper.SetDefault("JWT_SECRET", defaultJWTSecret)
	viper.SetDefault("JWT_EXPIRY_DURATION", "24h")
	viper.SetDefault("JWT_ISSUER", defaultJWTIssuer)
	viper.SetDefault("DEFAULT_TIMEZONE", "America/Sao_Paulo")
	viper.SetDefault("CACHE_SIZE", 4096)
	viper.SetDefault("MAX_WATCHED_TENANTS", 256)
	viper.SetDefault("SHEETS_RATE_LIMIT", "30-M")
	viper.SetDefault("GOOGLE_API_ENDPOINT", "")
	viper.SetDefault("POSTHOG_API_KEY", "")
	viper.SetDefault("POSTHOG_ENDPOINT", "")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173")
	viper.SetDefault("DEV_SEED_USER_ID", "")

	// Actual environment variables override .env values and defaults.
	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.StorageDriver = strings.ToLower(viper.GetString("STORAGE_DRIVER"))
	switch cfg.StorageDriver {
	case StoragePostgres, StorageMemory:
	default:
		return nil, fmt.Errorf("unsupported STORAGE_DRIVER %q (want %s or %s)", cfg.StorageDriver, StoragePostgres, StorageMemory)
	}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" && cfg.StorageDriver == StoragePostgres {
		return nil, fmt.Errorf("PGSQL_URL must be set when STORAGE_DRIVER is %s", StoragePostgres)
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "" || cfg.JWTSecret == defaultJWTSecret {
		if cfg.IsProduction {
			return nil, fmt.Errorf("JWT_SECRET must be set in production")
		}
		cfg.JWTSecret = defaultJWTSecret
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	// Session latches expire together with the token, so this also bounds
	// how long an automatic overdue sweep is remembered.
	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil || jwtExpiryDuration <= 0 {
		jwtExpiryDuration = 24 * time.Hour
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration.String())
	}
	cfg.JWTExpiryDuration = jwtExpiryDuration

	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")
	if cfg.JWTIssuer == "" {
		cfg.JWTIssuer = defaultJWTIssuer
		log.Printf("Warning: JWT_ISSUER not set. Defaulting to %s.\n", cfg.JWTIssuer)
	}

	cfg.DefaultTimezone = viper.GetString("DEFAULT_TIMEZONE")
	if _, err := time.LoadLocation(cfg.DefaultTimezone); err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_TIMEZONE %q: %w", cfg.DefaultTimezone, err)
	}

	cfg.CacheSize = viper.GetInt("CACHE_SIZE")
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = 4096
		log.Printf("Warning: Invalid CACHE_SIZE. Defaulting to %d.\n", cfg.CacheSize)
	}

	cfg.MaxWatchedTenants = viper.GetInt("MAX_WATCHED_TENANTS")
	if cfg.MaxWatchedTenants <= 0 {
		cfg.MaxWatchedTenants = 256
		log.Printf("Warning: Invalid MAX_WATCHED_TENANTS. Defaulting to %d.\n", cfg.MaxWatchedTenants)
	}

	cfg.SheetsRateLimit = viper.GetString("SHEETS_RATE_LIMIT")
	cfg.GoogleAPIEndpoint = viper.GetString("GOOGLE_API_ENDPOINT")

	cfg.PosthogAPIKey = viper.GetString("POSTHOG_API_KEY")
	cfg.PosthogEndpoint = viper.GetString("POSTHOG_ENDPOINT")

	for _, origin := range strings.Split(viper.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	cfg.DevSeedUserID = viper.GetString("DEV_SEED_USER_ID")

	return cfg, nil
}
