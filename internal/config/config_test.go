package config

import (
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func validConfig(t *testing.T) *Config {
	t.Helper()
	return &Config{
		Port:           "8081",
		SQLiteDBPath:   filepath.Join(t.TempDir(), "test.db"),
		JWTSecret:      "0123456789abcdef",
		TokenTTL:       24 * time.Hour,
		UploadDir:      t.TempDir(),
		MaxUploadBytes: 5 << 20,
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.Port != "8081" {
		t.Errorf("default port = %q", cfg.Port)
	}
	if cfg.TokenTTL != 24*time.Hour {
		t.Errorf("default token TTL = %v", cfg.TokenTTL)
	}
	if cfg.AMQPExchange != "fintrack" || cfg.AMQPQueue != "budget_alerts" {
		t.Errorf("default AMQP names = %q/%q", cfg.AMQPExchange, cfg.AMQPQueue)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("TOKEN_TTL", "2h")
	t.Setenv("MAX_UPLOAD_BYTES", "2048")

	cfg := Load()
	if cfg.Port != "9000" {
		t.Errorf("port = %q", cfg.Port)
	}
	if cfg.TokenTTL != 2*time.Hour {
		t.Errorf("token TTL = %v", cfg.TokenTTL)
	}
	if cfg.MaxUploadBytes != 2048 {
		t.Errorf("max upload = %d", cfg.MaxUploadBytes)
	}
}

func TestValidate(t *testing.T) {
	if err := validConfig(t).Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		message string
	}{
		{"bad port", func(c *Config) { c.Port = "http" }, "invalid port"},
		{"port out of range", func(c *Config) { c.Port = "70000" }, "invalid port"},
		{"missing secret", func(c *Config) { c.JWTSecret = "" }, "JWT_SECRET must be set"},
		{"short secret", func(c *Config) { c.JWTSecret = "short" }, "too short"},
		{"tiny ttl", func(c *Config) { c.TokenTTL = time.Second }, "token TTL"},
		{"bad amqp scheme", func(c *Config) { c.AMQPURL = "http://broker" }, "AMQP URL scheme"},
		{"tiny upload limit", func(c *Config) { c.MaxUploadBytes = 10 }, "max upload size"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.message) {
				t.Errorf("error %q does not mention %q", err, tt.message)
			}
		})
	}
}

func TestValidateCollectsAllProblems(t *testing.T) {
	cfg := validConfig(t)
	cfg.Port = "nope"
	cfg.JWTSecret = ""
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"invalid port", "JWT_SECRET"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q missing %q", err, want)
		}
	}
}
