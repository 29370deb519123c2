package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

const (
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type Config struct {
	ServerPort           string
	Environment          string
	StorageDriver        string
	SQLitePath           string
	DatabaseURL          string
	SessionSecret        string
	SessionTTL           time.Duration
	CatalogPath          string
	CloudinaryURL        string
	NotificationDuration time.Duration
	CORSOrigins          []string
}

// Load reads configuration from the environment (and a .env file if one
// exists), then applies command-line flag overrides from args.
func Load(args []string) (*Config, error) {
	// .env file is optional, continue without it
	_ = godotenv.Load()

	sessionTTL, err := getDuration("SESSION_TTL", 30*time.Minute)
	if err != nil {
		return nil, err
	}
	notificationDuration, err := getDuration("NOTIFICATION_DURATION", 3*time.Second)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		ServerPort:           getEnv("PORT", "8080"),
		Environment:          getEnv("ENVIRONMENT", "development"),
		StorageDriver:        getEnv("STORAGE_DRIVER", StorageSQLite),
		SQLitePath:           getEnv("SQLITE_PATH", "storefront.db"),
		DatabaseURL:          getEnv("DATABASE_URL", ""),
		SessionSecret:        getEnv("SESSION_SECRET", ""),
		SessionTTL:           sessionTTL,
		CatalogPath:          getEnv("CATALOG_PATH", ""),
		CloudinaryURL:        getEnv("CLOUDINARY_URL", ""),
		NotificationDuration: notificationDuration,
		CORSOrigins:          splitList(getEnv("CORS_ORIGINS", "*")),
	}

	flags := pflag.NewFlagSet("storefront-server", pflag.ContinueOnError)
	flags.StringVar(&cfg.ServerPort, "port", cfg.ServerPort, "HTTP listen port")
	flags.StringVar(&cfg.StorageDriver, "storage", cfg.StorageDriver, "storage driver: sqlite, postgres or memory")
	flags.StringVar(&cfg.SQLitePath, "sqlite-path", cfg.SQLitePath, "sqlite database file")
	flags.StringVar(&cfg.CatalogPath, "catalog", cfg.CatalogPath, "product catalog YAML file")
	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.StorageDriver {
	case StorageSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required for the sqlite storage driver")
		}
	case StoragePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres storage driver")
		}
	case StorageMemory:
	default:
		return fmt.Errorf("unknown storage driver %q", c.StorageDriver)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
