package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Mode selects where the register's collaborators live.
const (
	// ModeConnected talks to the central backend over REST.
	ModeConnected = "connected"
	// ModeStandalone keeps everything in the register's local database.
	ModeStandalone = "standalone"
)

type Config struct {
	ServerPort int
	Mode       string

	// connected mode
	BackendBaseURL string
	BackendToken   string
	BackendTimeout time.Duration

	// standalone mode
	PostgresURL   string
	MigrationsDir string

	// register identity
	RegisterID string
	SiteID     string

	// active-session cache
	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	SessionCacheFile string

	JWTSecret string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: no .env file found, using environment")
	}

	cfg := &Config{
		ServerPort:       8090,
		Mode:             getEnvOrDefault("CAISSE_MODE", ModeConnected),
		BackendBaseURL:   os.Getenv("CAISSE_BACKEND_URL"),
		BackendToken:     os.Getenv("CAISSE_BACKEND_TOKEN"),
		BackendTimeout:   10 * time.Second,
		PostgresURL:      os.Getenv("CAISSE_POSTGRES_URL"),
		MigrationsDir:    getEnvOrDefault("CAISSE_MIGRATIONS_DIR", "migrations"),
		RegisterID:       os.Getenv("CAISSE_REGISTER_ID"),
		SiteID:           os.Getenv("CAISSE_SITE_ID"),
		RedisAddr:        os.Getenv("CAISSE_REDIS_ADDR"),
		RedisPassword:    os.Getenv("CAISSE_REDIS_PASSWORD"),
		SessionCacheFile: getEnvOrDefault("CAISSE_SESSION_CACHE_FILE", "caisse_session.json"),
		JWTSecret:        getEnvOrDefault("CAISSE_JWT_SECRET", "dev-only-secret"),
	}

	if port := os.Getenv("PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT %q", port)
		}
		cfg.ServerPort = p
	}
	if db := os.Getenv("CAISSE_REDIS_DB"); db != "" {
		n, err := strconv.Atoi(db)
		if err != nil {
			return nil, fmt.Errorf("invalid CAISSE_REDIS_DB %q", db)
		}
		cfg.RedisDB = n
	}
	if t := os.Getenv("CAISSE_BACKEND_TIMEOUT"); t != "" {
		d, err := time.ParseDuration(t)
		if err != nil {
			return nil, fmt.Errorf("invalid CAISSE_BACKEND_TIMEOUT %q", t)
		}
		cfg.BackendTimeout = d
	}

	switch cfg.Mode {
	case ModeConnected:
		if cfg.BackendBaseURL == "" {
			return nil, fmt.Errorf("CAISSE_BACKEND_URL is required in connected mode")
		}
	case ModeStandalone:
		if cfg.PostgresURL == "" {
			return nil, fmt.Errorf("CAISSE_POSTGRES_URL is required in standalone mode")
		}
	default:
		return nil, fmt.Errorf("invalid CAISSE_MODE %q (allowed: connected, standalone)", cfg.Mode)
	}
	return cfg, nil
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
