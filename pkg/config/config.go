package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for imgvault. It is constructed once at
// startup and passed explicitly to each component, so tests can point the
// whole path tree at a temporary directory.
type Config struct {
	// Filesystem layout
	Paths PathsConfig `yaml:"paths" json:"paths"`

	// Outbound HTTP behavior
	HTTP HTTPConfig `yaml:"http" json:"http"`

	// Ingestion limits
	Ingest IngestConfig `yaml:"ingest" json:"ingest"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// PathsConfig describes the fixed directory tree rooted at BaseDir.
type PathsConfig struct {
	BaseDir string `yaml:"base_dir" json:"base_dir"`
}

// MemoryDir is where the event log lives.
func (p PathsConfig) MemoryDir() string { return filepath.Join(p.BaseDir, "memory") }

// ImagesDir is the content-addressed image store.
func (p PathsConfig) ImagesDir() string { return filepath.Join(p.BaseDir, "data", "images") }

// LogsDir holds application log files.
func (p PathsConfig) LogsDir() string { return filepath.Join(p.BaseDir, "logs") }

// EventLogFile is the single JSON document holding all event records.
func (p PathsConfig) EventLogFile() string { return filepath.Join(p.MemoryDir(), "events.json") }

// HTTPConfig holds outbound request settings. The system sends anonymous
// GET/HEAD requests only: no cookies, no auth, no proxy configuration.
type HTTPConfig struct {
	UserAgent    string        `yaml:"user_agent" json:"user_agent"`
	PageTimeout  time.Duration `yaml:"page_timeout" json:"page_timeout"`
	HeadTimeout  time.Duration `yaml:"head_timeout" json:"head_timeout"`
	FetchTimeout time.Duration `yaml:"fetch_timeout" json:"fetch_timeout"`
}

// IngestConfig holds ingestion limits.
type IngestConfig struct {
	// Limit caps accepted images per run.
	Limit int `yaml:"limit" json:"limit"`
	// MaxContentLength rejects candidates whose declared length exceeds it.
	MaxContentLength int64 `yaml:"max_content_length" json:"max_content_length"`
	// RequestsPerMinute bounds outbound request rate. 0 disables limiting.
	RequestsPerMinute int `yaml:"requests_per_minute" json:"requests_per_minute"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config with the stock directory tree and limits.
func DefaultConfig() *Config {
	return &Config{
		Paths: PathsConfig{
			BaseDir: "imgvault_data",
		},
		HTTP: HTTPConfig{
			UserAgent:    "ImgvaultBot/1.0 (Research)",
			PageTimeout:  10 * time.Second,
			HeadTimeout:  5 * time.Second,
			FetchTimeout: 5 * time.Second,
		},
		Ingest: IngestConfig{
			Limit:             40,
			MaxContentLength:  15_000_000,
			RequestsPerMinute: 60,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}

// LoadFromEnv overrides configuration from environment variables.
func (c *Config) LoadFromEnv() error {
	if baseDir := os.Getenv("IMGVAULT_BASE_DIR"); baseDir != "" {
		c.Paths.BaseDir = baseDir
	}
	if ua := os.Getenv("IMGVAULT_USER_AGENT"); ua != "" {
		c.HTTP.UserAgent = ua
	}
	if limit := os.Getenv("IMGVAULT_INGEST_LIMIT"); limit != "" {
		var val int
		fmt.Sscanf(limit, "%d", &val)
		if val > 0 {
			c.Ingest.Limit = val
		}
	}
	if rpm := os.Getenv("IMGVAULT_REQUESTS_PER_MINUTE"); rpm != "" {
		var val int
		fmt.Sscanf(rpm, "%d", &val)
		if val >= 0 {
			c.Ingest.RequestsPerMinute = val
		}
	}
	if level := os.Getenv("IMGVAULT_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file. An empty path falls
// back to the standard search locations; a missing file is not an error.
func (c *Config) LoadFromFile(path string) error {
	if path == "" {
		path = findConfigFile()
		if path == "" {
			return nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches standard locations in order of precedence.
func findConfigFile() string {
	locations := []string{
		".imgvault.yaml",
		".imgvault.yml",
		filepath.Join(xdg.ConfigHome, "imgvault", "config.yaml"),
		filepath.Join(xdg.ConfigHome, "imgvault", "config.yml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks the configuration for values no component can work with.
func (c *Config) Validate() error {
	var errs []error

	if c.Paths.BaseDir == "" {
		errs = append(errs, errors.New("base directory is required"))
	}
	if c.HTTP.UserAgent == "" {
		errs = append(errs, errors.New("user agent is required"))
	}
	if c.HTTP.PageTimeout <= 0 || c.HTTP.HeadTimeout <= 0 || c.HTTP.FetchTimeout <= 0 {
		errs = append(errs, errors.New("all HTTP timeouts must be positive"))
	}
	if c.Ingest.Limit <= 0 {
		errs = append(errs, errors.New("ingest limit must be positive"))
	}
	if c.Ingest.MaxContentLength <= 0 {
		errs = append(errs, errors.New("max content length must be positive"))
	}
	if c.Ingest.RequestsPerMinute < 0 {
		errs = append(errs, errors.New("requests per minute cannot be negative"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// EnsureDirs creates the directory tree if absent.
func (c *Config) EnsureDirs() error {
	for _, dir := range []string{c.Paths.MemoryDir(), c.Paths.ImagesDir(), c.Paths.LogsDir()} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// Save writes the configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges cobra flag values into the configuration.
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if baseDir, ok := flags["base-dir"].(string); ok && baseDir != "" {
		c.Paths.BaseDir = baseDir
	}
	if limit, ok := flags["limit"].(int); ok && limit > 0 {
		c.Ingest.Limit = limit
	}
	if rpm, ok := flags["rate-limit"].(int); ok && rpm >= 0 {
		c.Ingest.RequestsPerMinute = rpm
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
	if userAgent, ok := flags["user-agent"].(string); ok && userAgent != "" {
		c.HTTP.UserAgent = userAgent
	}
}

// Load loads configuration from all sources with proper precedence.
// Precedence order: flags > environment variables > .env file > config file > defaults.
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// .env files are optional
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".imgvault.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
