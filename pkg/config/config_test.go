package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const sampleYAML = `
environment: test
server:
  port: 9090
  read_timeout: 5s
  write_timeout: 5s
  shutdown_timeout: 5s
logging:
  level: debug
  format: json
  output: stdout
backend:
  type: none
provider:
  base_url: http://localhost:9999
  api_key: test-key
  symbol: AAPL
  lookback_days: 365
  timeout: 5s
  retry_attempts: 2
forecast:
  horizon_days: 180
  cache_ttl: 10m
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Provider.Symbol != "AAPL" {
		t.Errorf("symbol = %q, want AAPL", cfg.Provider.Symbol)
	}
	if cfg.Forecast.HorizonDays != 180 {
		t.Errorf("horizon = %d, want 180", cfg.Forecast.HorizonDays)
	}
	if cfg.Forecast.CacheTTL != 10*time.Minute {
		t.Errorf("cache ttl = %v, want 10m", cfg.Forecast.CacheTTL)
	}
}

func TestLoadRejectsBadBackend(t *testing.T) {
	body := sampleYAML + "\n"
	cfg, err := Load(writeConfig(t, body))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg.Backend.Type = "postgres"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for unknown backend")
	}
}

func TestLoadRejectsMissingSymbol(t *testing.T) {
	body := `
environment: test
backend:
  type: none
provider:
  base_url: http://localhost:9999
`
	if _, err := Load(writeConfig(t, body)); err == nil {
		t.Fatal("expected validation error for missing symbol")
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("SYMBOL", "MSFT")
	t.Setenv("BACKEND", "kafka")
	t.Setenv("KAFKA_BROKERS", "b1:9092,b2:9092")

	cfg, err := LoadWithEnv(writeConfig(t, sampleYAML))
	if err != nil {
		t.Fatalf("load with env: %v", err)
	}
	if cfg.Provider.Symbol != "MSFT" {
		t.Errorf("symbol = %q, want MSFT", cfg.Provider.Symbol)
	}
	if cfg.Backend.Type != "kafka" {
		t.Errorf("backend = %q, want kafka", cfg.Backend.Type)
	}
	if len(cfg.Kafka.Brokers) != 2 || cfg.Kafka.Brokers[1] != "b2:9092" {
		t.Errorf("brokers = %v", cfg.Kafka.Brokers)
	}
}
