// Package config loads application configuration from the environment.
//
// CONFIG STRATEGY:
// Every knob is an environment variable, declared once as a struct tag on
// Config. env.Parse reads and type-converts them in one call, so main.go
// never touches os.Getenv directly. In development a .env file in the
// working directory is loaded first (and is simply absent in production).
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config holds every configuration parameter of the server.
//
// JWT_SECRET has no default on purpose — token signing with a well-known
// secret would let anyone mint valid credentials. Load() fails fast instead.
type Config struct {
	Port   int    `env:"PORT" envDefault:"8080"`
	DBPath string `env:"DB_PATH" envDefault:"data/explorer.db"`

	// JWTSecret signs access tokens. Generate with: openssl rand -hex 32
	JWTSecret string `env:"JWT_SECRET"`

	// CountriesBaseURL points at the external country-data provider.
	// Overridable so tests can aim the gateway at a local httptest server.
	CountriesBaseURL string `env:"COUNTRIES_BASE_URL" envDefault:"https://restcountries.com/v3.1"`

	// GitHub OAuth sign-in is optional: the routes are only registered when
	// both ClientID and ClientSecret are set.
	GitHubClientID     string `env:"GITHUB_CLIENT_ID"`
	GitHubClientSecret string `env:"GITHUB_CLIENT_SECRET"`
	GitHubCallbackURL  string `env:"GITHUB_CALLBACK_URL"`
}

// Load reads the configuration from the environment, preceded by an
// optional .env file. Returns an error if JWT_SECRET is missing or any
// variable fails to parse.
func Load() (*Config, error) {
	// .env is a development convenience; ignore its absence.
	if _, err := os.Stat(".env"); !os.IsNotExist(err) {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("config: loading .env file: %w", err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: parsing environment: %w", err)
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("config: JWT_SECRET must be set")
	}

	if cfg.GitHubCallbackURL == "" {
		cfg.GitHubCallbackURL = fmt.Sprintf("http://localhost:%d/auth/github/callback", cfg.Port)
	}

	return cfg, nil
}

// GitHubEnabled reports whether the optional GitHub sign-in flow should be
// wired into the router.
func (c *Config) GitHubEnabled() bool {
	return c.GitHubClientID != "" && c.GitHubClientSecret != ""
}
