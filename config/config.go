package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is the application configuration, loaded once at startup and passed
// into component constructors. Nothing reads the environment after Load.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Log      LogConfig
	Metrics  MetricsConfig
	Media    MediaConfig
	Search   SearchConfig
	CORS     CORSConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port string
	Env  string
}

// DatabaseConfig holds connection and pool settings.
type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	// QueryTimeout bounds every storage operation so a wedged connection
	// surfaces as an error instead of hanging the request.
	QueryTimeout time.Duration
}

// GetDSN builds the Postgres connection string.
func (d DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// JWTConfig holds token signing settings.
type JWTConfig struct {
	Secret     string
	Expiration time.Duration
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string
}

// MetricsConfig holds metrics settings.
type MetricsConfig struct {
	Enabled bool
	Prefix  string
}

// MediaConfig holds the root directory for exhibit-scoped media storage.
type MediaConfig struct {
	Root string
}

// SearchConfig holds the search/index collaborator settings. An empty
// Endpoint disables indexing. Strict makes a failed index call roll back a
// publish instead of logging and proceeding.
type SearchConfig struct {
	Endpoint string
	Strict   bool
	Timeout  time.Duration
}

// CORSConfig holds the allowed browser origin.
type CORSConfig struct {
	Origin string
}

// Load reads configuration from the environment, consulting .env when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Env:  getEnv("APP_ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			Name:            getEnv("DB_NAME", "exhibits"),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 100),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 1*time.Hour),
			QueryTimeout:    getEnvAsDuration("DB_QUERY_TIMEOUT", 10*time.Second),
		},
		JWT: JWTConfig{
			Secret:     getEnv("JWT_SECRET", ""),
			Expiration: getEnvAsDuration("JWT_EXPIRATION", 24*time.Hour),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Metrics: MetricsConfig{
			Enabled: getEnvAsBool("METRICS_ENABLED", true),
			Prefix:  getEnv("METRICS_PREFIX", "exhibits"),
		},
		Media: MediaConfig{
			Root: getEnv("MEDIA_ROOT", "./media"),
		},
		Search: SearchConfig{
			Endpoint: getEnv("SEARCH_ENDPOINT", ""),
			Strict:   getEnvAsBool("SEARCH_STRICT", false),
			Timeout:  getEnvAsDuration("SEARCH_TIMEOUT", 10*time.Second),
		},
		CORS: CORSConfig{
			Origin: getEnv("CORS_ORIGIN", "http://localhost:3000"),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
