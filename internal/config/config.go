package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Session store backends.
const (
	SessionBackendBolt  = "bolt"
	SessionBackendRedis = "redis"
)

// Config aggregates all runtime settings required by the console.
type Config struct {
	AppName     string
	Environment string
	HTTP        HTTPConfig
	Upstream    UpstreamConfig
	Session     SessionConfig
	Redis       RedisConfig
	Cache       CacheConfig
	Context     ContextConfig
	Logger      LoggerConfig
}

// HTTPConfig configures the console's own listener.
type HTTPConfig struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// UpstreamConfig points at the restaurant API the console fronts.
type UpstreamConfig struct {
	BaseURL string
	Timeout time.Duration
}

// SessionConfig selects and configures session persistence.
type SessionConfig struct {
	Backend   string
	BoltPath  string
	KeyPrefix string
}

type RedisConfig struct {
	URL      string
	Password string
	DB       int
}

// CacheConfig tunes the janitor that evicts unwatched stale entries.
type CacheConfig struct {
	SweepInterval time.Duration
	Retention     time.Duration
}

type ContextConfig struct {
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

type LoggerConfig struct {
	Level    string
	Encoding string
}

// Load reads configuration from environment variables (optionally .env)
// and applies defaults so the console can boot in any environment.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{
		AppName:     getString("APP_NAME", "dishboard-console"),
		Environment: getString("APP_ENV", "development"),
		HTTP: HTTPConfig{
			Host:         getString("SERVER_HOST", "0.0.0.0"),
			Port:         getString("SERVER_PORT", "8080"),
			ReadTimeout:  getDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
			IdleTimeout:  getDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
		},
		Upstream: UpstreamConfig{
			BaseURL: getString("UPSTREAM_BASE_URL", "http://localhost:5000/api"),
			Timeout: getDuration("UPSTREAM_TIMEOUT", 10*time.Second),
		},
		Session: SessionConfig{
			Backend:   getString("SESSION_BACKEND", SessionBackendBolt),
			BoltPath:  getString("SESSION_BOLT_PATH", "./data/session.db"),
			KeyPrefix: getString("SESSION_KEY_PREFIX", "console:"),
		},
		Redis: RedisConfig{
			URL:      getString("REDIS_URL", "redis://localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getInt("REDIS_DB", 0),
		},
		Cache: CacheConfig{
			SweepInterval: getDuration("CACHE_SWEEP_INTERVAL", time.Minute),
			Retention:     getDuration("CACHE_RETENTION", 15*time.Minute),
		},
		Context: ContextConfig{
			RequestTimeout:  getDuration("REQUEST_TIMEOUT_SECONDS", 5*time.Second),
			ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT_SECONDS", 15*time.Second),
		},
		Logger: LoggerConfig{
			Level:    getString("LOG_LEVEL", "info"),
			Encoding: getString("LOG_ENCODING", "json"),
		},
	}

	if cfg.Session.Backend != SessionBackendBolt && cfg.Session.Backend != SessionBackendRedis {
		return nil, fmt.Errorf("unknown session backend %q", cfg.Session.Backend)
	}

	return cfg, nil
}

// MustLoad panics if configuration cannot be loaded.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func getString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}

// Address returns the HTTP listen address for the fasthttp server.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%s", c.HTTP.Host, c.HTTP.Port)
}
