package config

import (
	"fmt"
	"os"
	"time"

	"github.com/jessevdk/go-flags"
)

// Config holds all runtime options for the dashboard client.
type Config struct {
	Addr string `long:"addr" env:"ADDR" default:":3000" description:"Listen address"`

	// External backends
	APIBaseURL  string `long:"api-base-url" env:"API_BASE_URL" default:"http://localhost:8080" description:"Monitor backend base URL"`
	AuthBaseURL string `long:"auth-base-url" env:"AUTH_BASE_URL" default:"http://localhost:8081" description:"Auth backend base URL"`

	// Route guard
	JWTSecret string `long:"jwt-secret" env:"JWT_SECRET" description:"Shared secret the route token cookie is verified against"`

	// Session validation
	ValidateInterval time.Duration `long:"validate-interval" env:"VALIDATE_INTERVAL" default:"5m" description:"Session revalidation interval"`

	// Session mirror
	MirrorMode string `long:"mirror-mode" env:"MIRROR_MODE" default:"file" choice:"memory" choice:"file" choice:"redis" description:"Session mirror backend"`
	MirrorPath string `long:"mirror-path" env:"MIRROR_PATH" default:"./data/session.json" description:"Mirror file path (file mode)"`

	Redis struct {
		Addr     string `long:"redis-addr" env:"REDIS_ADDR" default:"localhost:6379" description:"Redis address"`
		Password string `long:"redis-password" env:"REDIS_PASSWORD" description:"Redis password"`
		DB       int    `long:"redis-db" env:"REDIS_DB" default:"0" description:"Redis database number"`
	} `group:"Redis Options"`

	// Cookie baseline
	Domain       string `long:"domain" env:"DOMAIN" description:"Cookie domain"`
	SecureCookie bool   `long:"secure-cookie" env:"SECURE_COOKIE" description:"Mark cookies as Secure"`
}

// Load parses configuration from command line flags and environment variables.
func Load() (*Config, error) {
	var cfg Config

	parser := flags.NewParser(&cfg, flags.Default)
	parser.Usage = "[OPTIONS]"

	if _, err := parser.Parse(); err != nil {
		if flags.WroteHelp(err) {
			os.Exit(0)
		}
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return &cfg, nil
}

// Cookie returns the shared security baseline for all cookies the client
// issues or clears.
func (c *Config) Cookie() CookieConfig {
	return CookieConfig{
		Domain:   c.Domain,
		IsSecure: c.SecureCookie,
		HttpOnly: true, // Always HttpOnly for security
	}
}
