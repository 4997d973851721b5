package server

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/iwvelando/payment-plans/pkg/constants"
)

func TestLoadConfigDefaultsWhenMissing(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Address != constants.DefaultServerAddress {
		t.Fatalf("expected default address, got %q", cfg.Address)
	}
	if cfg.BodySizeBytes() != constants.DefaultMaxBodySizeBytes {
		t.Fatalf("expected default max body size, got %d", cfg.BodySizeBytes())
	}
	if cfg.CacheTTLDuration() != 10*time.Minute {
		t.Fatalf("expected default cache TTL, got %s", cfg.CacheTTLDuration())
	}
	if cfg.CacheMaxEntries != constants.DefaultCacheMaxEntries {
		t.Fatalf("expected default cache limit, got %d", cfg.CacheMaxEntries)
	}
	if cfg.RedisURL != "" {
		t.Fatalf("expected no redis by default, got %q", cfg.RedisURL)
	}
	if cfg.Quote.Company != constants.DefaultCompany {
		t.Fatalf("expected default quote branding, got %+v", cfg.Quote)
	}
	if cfg.Logging.Level != "" || cfg.Logging.Format != "" || cfg.Logging.OutputFile != "" {
		t.Fatalf("expected empty logging defaults, got %+v", cfg.Logging)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "server-config.yaml")

	contents := []byte(`address: 127.0.0.1:9000
maxBodySize: 2M
cacheTTL: 90s
cacheMaxEntries: 500
redisURL: redis://localhost:6379/2
logging:
  level: debug
  format: console
  outputFile: /tmp/server.log
quote:
  company: PLDG
  footer:
    - Sales office
`)
	if err := os.WriteFile(path, contents, 0600); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Address != "127.0.0.1:9000" {
		t.Fatalf("expected address override, got %s", cfg.Address)
	}
	if cfg.BodySizeBytes() != 2*1024*1024 {
		t.Fatalf("expected max body override, got %d", cfg.BodySizeBytes())
	}
	if cfg.CacheTTLDuration() != 90*time.Second {
		t.Fatalf("expected cache TTL override, got %s", cfg.CacheTTLDuration())
	}
	if cfg.CacheMaxEntries != 500 {
		t.Fatalf("expected cache limit override, got %d", cfg.CacheMaxEntries)
	}
	if cfg.RedisURL != "redis://localhost:6379/2" {
		t.Fatalf("expected redis url override, got %s", cfg.RedisURL)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("expected logging level debug, got %s", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "console" {
		t.Fatalf("expected logging format console, got %s", cfg.Logging.Format)
	}
	if cfg.Logging.OutputFile != "/tmp/server.log" {
		t.Fatalf("expected logging outputFile /tmp/server.log, got %s", cfg.Logging.OutputFile)
	}
	if cfg.Quote.Company != "PLDG" || cfg.Quote.Project != constants.DefaultProject {
		t.Fatalf("expected partial branding override, got %+v", cfg.Quote)
	}
	if len(cfg.Quote.Footer) != 1 || cfg.Quote.Footer[0] != "Sales office" {
		t.Fatalf("expected footer override, got %v", cfg.Quote.Footer)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := map[string]string{
		"Bad size":   "maxBodySize: invalid",
		"Bad TTL":    "cacheTTL: soon",
		"Negative":   "cacheTTL: -1m",
		"Bad limit":  "cacheMaxEntries: -5",
		"Not a YAML": "address: [unterminated",
	}

	for name, contents := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.yaml")
			if err := os.WriteFile(path, []byte(contents), 0600); err != nil {
				t.Fatalf("failed to write temp config: %v", err)
			}
			if _, err := LoadConfig(path); err == nil {
				t.Fatal("expected error but got nil")
			}
		})
	}
}

func TestSetBodySizeBytes(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	cfg.SetBodySizeBytes(1024)
	if cfg.BodySizeBytes() != 1024 || cfg.MaxBodySize != "1024" {
		t.Fatalf("SetBodySizeBytes did not apply, got %d/%s", cfg.BodySizeBytes(), cfg.MaxBodySize)
	}
	cfg.SetBodySizeBytes(0)
	if cfg.BodySizeBytes() != 1024 {
		t.Fatalf("SetBodySizeBytes(0) should be ignored")
	}
}

func TestParseSize(t *testing.T) {
	tests := map[string]int64{
		"":          constants.DefaultMaxBodySizeBytes,
		"1024":      1024,
		"512b":      512,
		"256K":      256 * 1024,
		"1m":        1024 * 1024,
		"3MB":       3 * 1024 * 1024,
		"  4096   ": 4096,
	}

	for input, expected := range tests {
		got, err := ParseSize(input)
		if err != nil {
			t.Fatalf("parseSize(%q) returned error: %v", input, err)
		}
		if got != expected {
			t.Fatalf("parseSize(%q) = %d, expected %d", input, got, expected)
		}
	}

	if _, err := ParseSize("1GB"); err == nil {
		t.Fatal("expected error for unsupported unit")
	}
	if _, err := ParseSize("abc"); err == nil {
		t.Fatal("expected error for invalid number")
	}
}
