package config

import (
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		Port:                "8080",
		DatabaseURL:         "data/mono.db",
		RelayURL:            "http://localhost:8080/api/generate",
		SummaryTimeout:      time.Minute,
		OpenRouterMaxTokens: 8000,
		AdminAuthMode:       "required",
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid config", mutate: func(c *Config) {}},
		{name: "missing api key is allowed", mutate: func(c *Config) { c.OpenRouterAPIKey = "" }},
		{name: "missing port", mutate: func(c *Config) { c.Port = "" }, wantErr: true},
		{name: "missing database", mutate: func(c *Config) { c.DatabaseURL = "" }, wantErr: true},
		{name: "missing relay url", mutate: func(c *Config) { c.RelayURL = "" }, wantErr: true},
		{name: "zero timeout", mutate: func(c *Config) { c.SummaryTimeout = 0 }, wantErr: true},
		{name: "zero max tokens", mutate: func(c *Config) { c.OpenRouterMaxTokens = 0 }, wantErr: true},
		{name: "bad admin mode", mutate: func(c *Config) { c.AdminAuthMode = "sometimes" }, wantErr: true},
		{name: "disabled admin mode", mutate: func(c *Config) { c.AdminAuthMode = "disabled" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("OPENROUTER_MODEL", "")
	t.Setenv("SUMMARY_TIMEOUT", "")
	t.Setenv("ADMIN_AUTH_MODE", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.OpenRouterModel != DefaultModel {
		t.Errorf("expected default model %s, got %s", DefaultModel, cfg.OpenRouterModel)
	}
	if cfg.SummaryTimeout != 60*time.Second {
		t.Errorf("expected 60s timeout, got %s", cfg.SummaryTimeout)
	}
	if cfg.OpenRouterMaxTokens != 8000 {
		t.Errorf("expected 8000 max tokens, got %d", cfg.OpenRouterMaxTokens)
	}
}

func TestLoadRejectsBadDuration(t *testing.T) {
	t.Setenv("SUMMARY_TIMEOUT", "soon")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unparseable SUMMARY_TIMEOUT")
	}
}
