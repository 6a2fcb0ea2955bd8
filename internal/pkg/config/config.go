package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Session SessionConfig
	Backend BackendConfig
	Journal JournalConfig
	Mongo   MongoConfig
	Redis   RedisConfig
}

type SessionConfig struct {
	// Secret signs the browser session cookie.
	Secret string        `env:"SESSION_SECRET, required"`
	TTL    time.Duration `env:"SESSION_TTL,    default=168h"`
	Secure bool          `env:"SESSION_SECURE, default=false"`
}

type BackendConfig struct {
	URL            string        `env:"BACKEND_URL,                default=http://localhost:8000"`
	Timeout        time.Duration `env:"BACKEND_TIMEOUT,            default=30s"`
	ExplicitIntent bool          `env:"TRANSITION_EXPLICIT_INTENT, default=false"`
	Breaker        BreakerConfig
}

type BreakerConfig struct {
	MaxRequests  uint32        `env:"BREAKER_MAX_REQUESTS,  default=1"`
	Interval     time.Duration `env:"BREAKER_INTERVAL,      default=60s"`
	Timeout      time.Duration `env:"BREAKER_TIMEOUT,       default=30s"`
	MinRequests  uint32        `env:"BREAKER_MIN_REQUESTS,  default=5"`
	FailureRatio float64       `env:"BREAKER_FAILURE_RATIO, default=0.6"`
}

type JournalConfig struct {
	Workers int `env:"JOURNAL_WORKERS, default=4"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=workboard"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// IsDevelopment reports whether the process runs in the development environment.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads a .env file when one is present, then configuration from
// environment variables using go-envconfig. Variables already set in the
// environment win over the file.
func Load() *Config {
	cfg, err := load(context.Background(), envconfig.OsLookuper(), ".env")
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

func load(ctx context.Context, lookuper envconfig.Lookuper, dotenv ...string) (*Config, error) {
	if len(dotenv) > 0 {
		if err := godotenv.Load(dotenv...); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read %v: %w", dotenv, err)
		}
	}

	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, err
	}
	return &cfg, nil
}
