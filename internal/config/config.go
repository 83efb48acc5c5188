// Package config loads server configuration from the environment, with
// an optional .env file for local development.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the server needs to start.
type Config struct {
	Port    int
	DBPath  string
	Timeout time.Duration

	GitHubClientID     string
	GitHubClientSecret string
	GitHubCallbackURL  string
	GitHubAPIBase      string
	UserAgent          string

	// JWTSecret is optional. When empty, OAuth flows complete without
	// issuing a session cookie and /me is disabled.
	JWTSecret string
}

// Load reads configuration from the environment. A .env file in the
// working directory is merged in first when present; real environment
// variables win over file values.
func Load() (*Config, error) {
	// Missing .env is the normal case in production.
	_ = godotenv.Load()

	cfg := &Config{
		Port:               8080,
		DBPath:             getEnv("DB_PATH", "folio.db"),
		Timeout:            10 * time.Second,
		GitHubClientID:     os.Getenv("GITHUB_CLIENT_ID"),
		GitHubClientSecret: os.Getenv("GITHUB_CLIENT_SECRET"),
		GitHubCallbackURL:  os.Getenv("GITHUB_CALLBACK_URL"),
		GitHubAPIBase:      getEnv("GITHUB_API_BASE", "https://api.github.com"),
		UserAgent:          getEnv("USER_AGENT", "folio"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
	}

	if raw := os.Getenv("PORT"); raw != "" {
		port, err := strconv.Atoi(raw)
		if err != nil || port < 1 || port > 65535 {
			return nil, fmt.Errorf("config: invalid PORT %q", raw)
		}
		cfg.Port = port
	}

	// The default callback follows the configured port so that overriding
	// PORT alone still produces a redirect URI that matches the server.
	if cfg.GitHubCallbackURL == "" {
		cfg.GitHubCallbackURL = fmt.Sprintf("http://localhost:%d/auth/github/oauth/oauth", cfg.Port)
	}

	if raw := os.Getenv("REQUEST_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("config: invalid REQUEST_TIMEOUT %q", raw)
		}
		cfg.Timeout = d
	}

	// Collect all missing credentials so one run reports every problem.
	var missing []string
	if cfg.GitHubClientID == "" {
		missing = append(missing, "GITHUB_CLIENT_ID")
	}
	if cfg.GitHubClientSecret == "" {
		missing = append(missing, "GITHUB_CLIENT_SECRET")
	}
	if len(missing) > 0 {
		return nil, errors.New("config: missing required environment variables: " + strings.Join(missing, ", "))
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
