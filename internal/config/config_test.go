package config

import "testing"

// t.Setenv automatically restores the previous value when the test ends,
// so these tests don't leak environment state into each other.

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-at-least-16-chars!!")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.DBPath != "data/explorer.db" {
		t.Errorf("DBPath = %q, want data/explorer.db", cfg.DBPath)
	}
	if cfg.CountriesBaseURL != "https://restcountries.com/v3.1" {
		t.Errorf("CountriesBaseURL = %q", cfg.CountriesBaseURL)
	}
	// Callback URL is derived from the port when unset.
	if cfg.GitHubCallbackURL != "http://localhost:8080/auth/github/callback" {
		t.Errorf("GitHubCallbackURL = %q", cfg.GitHubCallbackURL)
	}
}

func TestLoad_MissingJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatal("Load() should fail when JWT_SECRET is unset")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-at-least-16-chars!!")
	t.Setenv("PORT", "9999")
	t.Setenv("COUNTRIES_BASE_URL", "http://127.0.0.1:7000/v3.1")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Port != 9999 {
		t.Errorf("Port = %d, want 9999", cfg.Port)
	}
	if cfg.CountriesBaseURL != "http://127.0.0.1:7000/v3.1" {
		t.Errorf("CountriesBaseURL = %q", cfg.CountriesBaseURL)
	}
}

func TestGitHubEnabled(t *testing.T) {
	cfg := &Config{}
	if cfg.GitHubEnabled() {
		t.Error("GitHubEnabled() = true with no credentials")
	}

	cfg.GitHubClientID = "id"
	if cfg.GitHubEnabled() {
		t.Error("GitHubEnabled() = true with only a client ID")
	}

	cfg.GitHubClientSecret = "secret"
	if !cfg.GitHubEnabled() {
		t.Error("GitHubEnabled() = false with both credentials set")
	}
}
