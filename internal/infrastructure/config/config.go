package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config holds the user-service settings. JWT_SECRET has no default and is
// required: a process without a signing secret must refuse to start rather
// than issue unverifiable tokens.
type Config struct {
	Port      string        `env:"PORT,       default=4001"`
	Env       string        `env:"ENV,        default=development"`
	LogLevel  string        `env:"LOG_LEVEL,  default=info"`
	JWTSecret string        `env:"JWT_SECRET, required"`
	TokenTTL  time.Duration `env:"TOKEN_TTL,  default=168h"`

	Mongo MongoConfig
	Redis RedisConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=pairprep_users"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Production reports whether the process runs with production settings,
// which among other things turns on the Secure cookie flag.
func (c *Config) Production() bool {
	return c.Env == "production"
}

// Load reads the user-service configuration from environment variables.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	return &cfg, nil
}

// GatewayConfig holds the gateway settings. The gateway never verifies
// tokens itself, so it carries no signing secret.
type GatewayConfig struct {
	Port            string        `env:"GATEWAY_PORT,     default=3000"`
	Env             string        `env:"ENV,              default=development"`
	LogLevel        string        `env:"LOG_LEVEL,        default=info"`
	UserServiceURL  string        `env:"USER_SERVICE_URL, default=http://localhost:4001"`
	UpstreamTimeout time.Duration `env:"UPSTREAM_TIMEOUT, default=10s"`
}

// LoadGateway reads the gateway configuration from environment variables.
func LoadGateway(ctx context.Context) (*GatewayConfig, error) {
	var cfg GatewayConfig
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("load gateway configuration: %w", err)
	}
	return &cfg, nil
}
