package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port       string `env:"PORT,        default=5000"`
	Env        string `env:"ENV,         default=development"`
	LogLevel   string `env:"LOG_LEVEL,   default=info"`
	AppVersion string `env:"APP_VERSION, default=1.0.0"`

	// CORSOrigins is a comma separated list of allowed origins.
	CORSOrigins string `env:"CORS_ORIGINS, default=http://localhost:3000"`

	Auth      AuthConfig
	Bootstrap BootstrapConfig
	RateLimit RateLimitConfig
	Mongo     MongoConfig
	Redis     RedisConfig
}

// AuthConfig holds the token settings. JWTSecret has no default: when it is
// empty the server still starts, but every protected request fails with a
// configuration error.
type AuthConfig struct {
	JWTSecret string        `env:"JWT_SECRET"`
	Issuer    string        `env:"JWT_ISSUER, default=multidisease-platform"`
	TokenTTL  time.Duration `env:"JWT_TTL,    default=24h"`
}

// BootstrapConfig seeds a SUPERADMIN account into an empty user store.
type BootstrapConfig struct {
	AdminEmail    string `env:"BOOTSTRAP_ADMIN_EMAIL"`
	AdminPassword string `env:"BOOTSTRAP_ADMIN_PASSWORD"`
}

type RateLimitConfig struct {
	Max    int64         `env:"RATE_LIMIT_MAX,    default=100"`
	Window time.Duration `env:"RATE_LIMIT_WINDOW, default=15m"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=multidisease_platform"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
	PoolSize int    `env:"REDIS_POOL_SIZE, default=0"`
}

// IsDevelopment reports whether the process runs in development mode.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

// AllowedOrigins splits CORSOrigins into a list, dropping blanks.
func (c *Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	return &cfg, nil
}

// MustLoad is Load for process start-up: it panics on error.
func MustLoad() *Config {
	cfg, err := Load(context.Background())
	if err != nil {
		panic(err.Error())
	}
	return cfg
}
