package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.toml"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.RateLimit.MaxRequests != 100 {
		t.Errorf("MaxRequests = %d, want 100", cfg.RateLimit.MaxRequests)
	}
	if cfg.RateLimitWindow() != 15*time.Minute {
		t.Errorf("RateLimitWindow = %v, want 15m", cfg.RateLimitWindow())
	}
	if cfg.LLM.Temperature != 0.6 || cfg.LLM.MaxTokens != 1000 {
		t.Errorf("llm sampling = (%v, %d), want (0.6, 1000)", cfg.LLM.Temperature, cfg.LLM.MaxTokens)
	}
	if cfg.Chat.HistoryTurns != 0 {
		t.Errorf("HistoryTurns = %d, want 0", cfg.Chat.HistoryTurns)
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[app]
port = 6000

[database]
driver = "mysql"
dsn = ""
host = "db.internal"
user = "visa"
password = "secret"
db = "visas"
params = "parseTime=true"

[ratelimit]
max_requests = 10
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("APP_PORT", "7000")
	t.Setenv("LLM_API_KEY", "gsk-test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.App.Port != 7000 {
		t.Errorf("Port = %d, want env override 7000", cfg.App.Port)
	}
	if cfg.RateLimit.MaxRequests != 10 {
		t.Errorf("MaxRequests = %d, want 10 from file", cfg.RateLimit.MaxRequests)
	}
	if cfg.LLM.APIKey != "gsk-test" {
		t.Errorf("APIKey = %q, want gsk-test", cfg.LLM.APIKey)
	}
	want := "visa:secret@tcp(db.internal:3306)/visas?parseTime=true"
	if got := cfg.DatabaseDSN(); got != want {
		t.Errorf("DatabaseDSN = %q, want %q", got, want)
	}
}

func TestValidate_RejectsBadValues(t *testing.T) {
	cfg := defaultConfig()
	cfg.Database.Driver = "postgres"
	cfg.RateLimit.MaxRequests = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestGetEnvAsList(t *testing.T) {
	t.Setenv("ORIGINS", " http://a.test , ,http://b.test")
	got := getEnvAsList("ORIGINS", nil)
	if len(got) != 2 || got[0] != "http://a.test" || got[1] != "http://b.test" {
		t.Errorf("getEnvAsList = %v", got)
	}
}

func TestValidate_TrustedProxies(t *testing.T) {
	cfg := defaultConfig()
	if len(cfg.App.TrustedProxies) != 0 || cfg.App.MaxBodyBytes != 100<<10 {
		t.Fatalf("app defaults = %+v", cfg.App)
	}

	cfg.App.TrustedProxies = []string{"10.0.0.1", "172.16.0.0/12"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	cfg.App.TrustedProxies = []string{"proxy.internal"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for non-IP trusted proxy")
	}
}
