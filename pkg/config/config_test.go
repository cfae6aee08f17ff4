package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Ingest.Limit != 40 {
		t.Errorf("Expected default ingest limit to be 40, got %d", config.Ingest.Limit)
	}

	if config.Ingest.MaxContentLength != 15_000_000 {
		t.Errorf("Expected default max content length to be 15000000, got %d", config.Ingest.MaxContentLength)
	}

	if config.Paths.BaseDir != "imgvault_data" {
		t.Errorf("Expected default base dir to be imgvault_data, got %s", config.Paths.BaseDir)
	}

	if config.HTTP.PageTimeout != 10*time.Second {
		t.Errorf("Expected default page timeout to be 10s, got %v", config.HTTP.PageTimeout)
	}
}

func TestPathsDerivedFromBase(t *testing.T) {
	p := PathsConfig{BaseDir: "/srv/vault"}

	if p.MemoryDir() != filepath.Join("/srv/vault", "memory") {
		t.Errorf("Unexpected memory dir: %s", p.MemoryDir())
	}
	if p.ImagesDir() != filepath.Join("/srv/vault", "data", "images") {
		t.Errorf("Unexpected images dir: %s", p.ImagesDir())
	}
	if p.LogsDir() != filepath.Join("/srv/vault", "logs") {
		t.Errorf("Unexpected logs dir: %s", p.LogsDir())
	}
}

func TestLoadFromEnv(t *testing.T) {
	os.Setenv("IMGVAULT_BASE_DIR", "/tmp/test-vault")
	os.Setenv("IMGVAULT_INGEST_LIMIT", "7")
	os.Setenv("IMGVAULT_USER_AGENT", "TestBot/0.1")
	os.Setenv("IMGVAULT_LOG_LEVEL", "debug")

	defer func() {
		os.Unsetenv("IMGVAULT_BASE_DIR")
		os.Unsetenv("IMGVAULT_INGEST_LIMIT")
		os.Unsetenv("IMGVAULT_USER_AGENT")
		os.Unsetenv("IMGVAULT_LOG_LEVEL")
	}()

	config := DefaultConfig()
	if err := config.LoadFromEnv(); err != nil {
		t.Fatalf("Failed to load from environment: %v", err)
	}

	if config.Paths.BaseDir != "/tmp/test-vault" {
		t.Errorf("Expected base dir /tmp/test-vault, got %s", config.Paths.BaseDir)
	}
	if config.Ingest.Limit != 7 {
		t.Errorf("Expected ingest limit 7, got %d", config.Ingest.Limit)
	}
	if config.HTTP.UserAgent != "TestBot/0.1" {
		t.Errorf("Expected user agent TestBot/0.1, got %s", config.HTTP.UserAgent)
	}
	if config.Logging.Level != "debug" {
		t.Errorf("Expected log level debug, got %s", config.Logging.Level)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	yaml := `paths:
  base_dir: /data/vault
ingest:
  limit: 12
  max_content_length: 1000000
logging:
  level: warn
`
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	config := DefaultConfig()
	if err := config.LoadFromFile(path); err != nil {
		t.Fatalf("Failed to load config file: %v", err)
	}

	if config.Paths.BaseDir != "/data/vault" {
		t.Errorf("Expected base dir /data/vault, got %s", config.Paths.BaseDir)
	}
	if config.Ingest.Limit != 12 {
		t.Errorf("Expected ingest limit 12, got %d", config.Ingest.Limit)
	}
	if config.Ingest.MaxContentLength != 1000000 {
		t.Errorf("Expected max content length 1000000, got %d", config.Ingest.MaxContentLength)
	}
	if config.Logging.Level != "warn" {
		t.Errorf("Expected log level warn, got %s", config.Logging.Level)
	}
	// Untouched sections keep defaults
	if config.HTTP.UserAgent != "ImgvaultBot/1.0 (Research)" {
		t.Errorf("Expected default user agent, got %s", config.HTTP.UserAgent)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid defaults", func(c *Config) {}, false},
		{"empty base dir", func(c *Config) { c.Paths.BaseDir = "" }, true},
		{"zero limit", func(c *Config) { c.Ingest.Limit = 0 }, true},
		{"negative rate limit", func(c *Config) { c.Ingest.RequestsPerMinute = -1 }, true},
		{"zero timeout", func(c *Config) { c.HTTP.HeadTimeout = 0 }, true},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, true},
		{"empty user agent", func(c *Config) { c.HTTP.UserAgent = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(config)
			err := config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestEnsureDirs(t *testing.T) {
	base := filepath.Join(t.TempDir(), "vault")
	config := DefaultConfig()
	config.Paths.BaseDir = base

	if err := config.EnsureDirs(); err != nil {
		t.Fatalf("EnsureDirs failed: %v", err)
	}

	for _, dir := range []string{config.Paths.MemoryDir(), config.Paths.ImagesDir(), config.Paths.LogsDir()} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Errorf("Expected directory %s to exist: %v", dir, err)
			continue
		}
		if !info.IsDir() {
			t.Errorf("Expected %s to be a directory", dir)
		}
	}
}
