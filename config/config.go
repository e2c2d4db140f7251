package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store backends selectable with STORE_BACKEND.
const (
	BackendPostgres = "postgres"
	BackendMongo    = "mongo"
	BackendSQLite   = "sqlite"
)

// Config holds application configuration loaded from environment variables
type Config struct {
	Port string

	StoreBackend string
	PGURL        string
	MongoURI     string
	MongoDB      string
	SQLitePath   string

	AVKey      string
	ECBBaseURL string

	RateCacheTTL        time.Duration
	FrontierPoints      int
	SimulationCount     int
	SolverMaxIterations int

	AdminKey    string
	CORSOrigins []string
	LogLevel    string
}

// Load reads configuration from environment variables. A .env file in the
// working directory is read first; variables already set in the shell win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:         getenv("PORT", "8080"),
		StoreBackend: strings.ToLower(getenv("STORE_BACKEND", BackendPostgres)),
		PGURL:        os.Getenv("PG_URL"),
		MongoURI:     os.Getenv("MONGODB_URI"),
		MongoDB:      getenv("MONGODB_DATABASE", "cluster-markowitz"),
		SQLitePath:   getenv("SQLITE_PATH", "markowitz.db"),
		AVKey:        os.Getenv("AV_KEY"),
		ECBBaseURL:   os.Getenv("ECB_BASE_URL"),
		AdminKey:     os.Getenv("ADMIN_KEY"),
		LogLevel:     getenv("LOG_LEVEL", "info"),
	}

	switch cfg.StoreBackend {
	case BackendPostgres:
		if cfg.PGURL == "" {
			return nil, fmt.Errorf("PG_URL environment variable is required")
		}
	case BackendMongo:
		if cfg.MongoURI == "" {
			return nil, fmt.Errorf("MONGODB_URI environment variable is required")
		}
	case BackendSQLite:
	default:
		return nil, fmt.Errorf("STORE_BACKEND must be one of postgres, mongo or sqlite, got %q", cfg.StoreBackend)
	}

	if cfg.AVKey == "" {
		return nil, fmt.Errorf("AV_KEY environment variable is required")
	}

	var err error
	if cfg.RateCacheTTL, err = time.ParseDuration(getenv("RATE_CACHE_TTL", "12h")); err != nil {
		return nil, fmt.Errorf("invalid RATE_CACHE_TTL: %w", err)
	}
	if cfg.FrontierPoints, err = positiveInt("FRONTIER_POINTS", 300); err != nil {
		return nil, err
	}
	if cfg.SimulationCount, err = positiveInt("SIMULATION_COUNT", 50000); err != nil {
		return nil, err
	}
	if cfg.SolverMaxIterations, err = positiveInt("SOLVER_MAX_ITERATIONS", 1000); err != nil {
		return nil, err
	}

	for _, o := range strings.Split(os.Getenv("CORS_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, o)
		}
	}

	return cfg, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func positiveInt(key string, def int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, raw)
	}
	return n, nil
}
