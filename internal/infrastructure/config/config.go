package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Client holds everything the client binary needs from the environment.
// LIBRARY_API_URL is the one required variable.
type Client struct {
	APIURL    string        `env:"LIBRARY_API_URL, required"`
	Timeout   time.Duration `env:"LIBRARY_API_TIMEOUT, default=15s"`
	LogLevel  string        `env:"LOG_LEVEL,  default=info"`
	LogPretty bool          `env:"LOG_PRETTY, default=true"`
}

// DevServer holds the environment of the development backend double.
// An empty REDIS_ADDR selects the in-memory session store.
type DevServer struct {
	Port          string `env:"PORT,           default=4000"`
	LogLevel      string `env:"LOG_LEVEL,      default=info"`
	SessionSecret string `env:"SESSION_SECRET, default=dev-only-secret"`
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisDB       int    `env:"REDIS_DB, default=0"`
	// OTPFixed pins every registration OTP to one value so local flows can
	// be driven without a mail inbox. Empty means random codes (logged).
	OTPFixed string `env:"OTP_FIXED, default=000000"`
}

// LoadClient reads client configuration from environment variables.
func LoadClient(ctx context.Context) (*Client, error) {
	var cfg Client
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// LoadDevServer reads dev-server configuration from environment variables.
func LoadDevServer(ctx context.Context) (*DevServer, error) {
	var cfg DevServer
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
