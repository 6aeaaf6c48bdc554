package config

import (
	"strings"
	"testing"
)

func baseConfig() *Config {
	return &Config{
		Telegram: TelegramConfig{Token: "123:abc"},
	}
}

func TestNormalizeDefaults(t *testing.T) {
	cfg := baseConfig()
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.Telegram.RunMode != RunModeLongpoll {
		t.Fatalf("run mode = %q", cfg.Telegram.RunMode)
	}
	if cfg.Sheets.CredentialsFile != "service-account.json" {
		t.Fatalf("credentials file = %q", cfg.Sheets.CredentialsFile)
	}
	if cfg.Bindings.Backend != BindingsBolt {
		t.Fatalf("bindings backend = %q", cfg.Bindings.Backend)
	}
	if cfg.Bindings.BoltPath == "" {
		t.Fatal("bolt path not defaulted")
	}
}

func TestNormalizeRequiresToken(t *testing.T) {
	cfg := &Config{}
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for missing token")
	}
}

func TestNormalizeRunModeAlias(t *testing.T) {
	cfg := baseConfig()
	cfg.Telegram.RunMode = "Polling"
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.Telegram.RunMode != RunModeLongpoll {
		t.Fatalf("run mode = %q", cfg.Telegram.RunMode)
	}
}

func TestNormalizeWebhookRequiresEndpoint(t *testing.T) {
	cfg := baseConfig()
	cfg.Telegram.RunMode = RunModeWebhook
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for webhook without url")
	}

	cfg = baseConfig()
	cfg.Telegram.RunMode = RunModeWebhook
	cfg.Webhook = WebhookConfig{URL: "https://bot.example.com", Listen: "0.0.0.0", Port: 8443}
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
}

func TestNormalizePostgresBackend(t *testing.T) {
	cfg := baseConfig()
	cfg.Bindings.Backend = "postgres"
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for postgres without host")
	}

	cfg = baseConfig()
	cfg.Bindings.Backend = "Postgres"
	cfg.Database.Host = "localhost"
	cfg.Database.Name = "ledgerbot"
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.Bindings.Backend != BindingsPostgres {
		t.Fatalf("backend = %q", cfg.Bindings.Backend)
	}
	if cfg.Database.Port != "5432" || cfg.Database.SSLMode != "disable" {
		t.Fatalf("database defaults = %q %q", cfg.Database.Port, cfg.Database.SSLMode)
	}
}

func TestNormalizeRejectsUnknownBackend(t *testing.T) {
	cfg := baseConfig()
	cfg.Bindings.Backend = "redis"
	err := Normalize(cfg)
	if err == nil || !strings.Contains(err.Error(), "bindings.backend") {
		t.Fatalf("err = %v", err)
	}
}

func TestNormalizeRateLimitExcludes(t *testing.T) {
	cfg := baseConfig()
	cfg.RateLimit.ExcludeUpdates = []string{" Callback ", "MESSAGE"}
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.RateLimit.ExcludeUpdates[0] != "callback" || cfg.RateLimit.ExcludeUpdates[1] != "message" {
		t.Fatalf("excludes = %v", cfg.RateLimit.ExcludeUpdates)
	}

	cfg = baseConfig()
	cfg.RateLimit.ExcludeUpdates = []string{"inline_query"}
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for unknown exclude")
	}
}
