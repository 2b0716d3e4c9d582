package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port            string        `env:"PORT,             default=8080"`
	Env             string        `env:"ENV,              default=development"`
	LogLevel        string        `env:"LOG_LEVEL,        default=info"`
	LogPretty       bool          `env:"LOG_PRETTY,       default=false"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT, default=10s"`
	CORSOrigins     []string      `env:"CORS_ALLOWED_ORIGINS, default=http://localhost:5173,http://127.0.0.1:5173,http://localhost:5000,http://127.0.0.1:5000"`

	Mongo     MongoConfig
	Redis     RedisConfig
	Tracking  TrackingConfig
	Broadcast BroadcastConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=delivery"`
}

type RedisConfig struct {
	Enabled bool   `env:"REDIS_ENABLED, default=false"`
	Addr    string `env:"REDIS_ADDR,    default=localhost:6379"`
	DB      int    `env:"REDIS_DB,      default=0"`
}

// TrackingConfig controls the simulated live-position feed.
type TrackingConfig struct {
	RouteFile       string        `env:"ROUTE_FILE,                default=coordinates/routes/example_1.json"`
	Interval        time.Duration `env:"TRACKING_INTERVAL,         default=3s"`
	ThresholdMeters float64       `env:"TRACKING_THRESHOLD_METERS, default=5"`
}

// BroadcastConfig sizes the asynchronous emission dispatcher.
type BroadcastConfig struct {
	Workers int `env:"BROADCAST_WORKERS, default=4"`
	Buffer  int `env:"BROADCAST_BUFFER,  default=256"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadWith(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadWith reads configuration from the given lookuper.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: l,
	}); err != nil {
		return nil, err
	}
	return &cfg, nil
}
