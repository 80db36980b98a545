// Package config provides configuration loading and validation for the service and CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/jonathan/ats-resume/internal/export"
)

// Config represents the service configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults and environment variables win.
type Config struct {
	// Server
	Port       int    `json:"port,omitempty"`
	CORSOrigin string `json:"cors_origin,omitempty"`
	MaxBodyMB  int    `json:"max_body_mb,omitempty"` // request body limit in megabytes

	// Storage
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL; empty uses in-memory metrics

	// Rendering
	AssetDir string `json:"asset_dir,omitempty"` // directory with ats.html and style.css; empty uses embedded assets

	// Export
	ChromePath    string `json:"chrome_path,omitempty"`    // Chrome executable; empty searches PATH
	ExportTimeout string `json:"export_timeout,omitempty"` // Go duration, e.g. "30s"
	ExportWorkers int    `json:"export_workers,omitempty"` // concurrent browsers; 0 derives from GOMAXPROCS
	ReadySignal   string `json:"ready_signal,omitempty"`   // "networkidle" or "load"

	// Behavior
	Verbose bool `json:"verbose,omitempty"` // Print detailed debug information
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Port:          3000,
		CORSOrigin:    "*",
		MaxBodyMB:     15,
		ExportTimeout: "30s",
		ReadySignal:   string(export.ReadyNetworkIdle),
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Load builds the effective configuration: the optional file at path merged
// over Defaults, then environment overrides, then validation.
func Load(path string) (Config, error) {
	file := &Config{}
	if path != "" {
		loaded, err := LoadConfig(path)
		if err != nil {
			return Config{}, err
		}
		file = loaded
	}

	cfg := file.MergeWithDefaults(Defaults())
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.CORSOrigin == "" {
		result.CORSOrigin = defaults.CORSOrigin
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.AssetDir == "" {
		result.AssetDir = defaults.AssetDir
	}
	if result.ChromePath == "" {
		result.ChromePath = defaults.ChromePath
	}
	if result.ExportTimeout == "" {
		result.ExportTimeout = defaults.ExportTimeout
	}
	if result.ReadySignal == "" {
		result.ReadySignal = defaults.ReadySignal
	}

	// Int fields: use default if zero
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.MaxBodyMB == 0 {
		result.MaxBodyMB = defaults.MaxBodyMB
	}
	if result.ExportWorkers == 0 {
		result.ExportWorkers = defaults.ExportWorkers
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// ApplyEnv overrides fields from environment variables read through getenv.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config error: invalid PORT %q: %w", v, err)
		}
		c.Port = port
	}
	if v := getenv("DATABASE_URL"); v != "" {
		c.DatabaseURL = v
	}
	if v := getenv("ASSET_DIR"); v != "" {
		c.AssetDir = v
	}
	if v := getenv("CHROME_PATH"); v != "" {
		c.ChromePath = v
	}
	if v := getenv("EXPORT_TIMEOUT"); v != "" {
		c.ExportTimeout = v
	}
	if v := getenv("EXPORT_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config error: invalid EXPORT_WORKERS %q: %w", v, err)
		}
		c.ExportWorkers = n
	}
	if v := getenv("READY_SIGNAL"); v != "" {
		c.ReadySignal = v
	}
	if v := getenv("CORS_ORIGIN"); v != "" {
		c.CORSOrigin = v
	}
	return nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}
	if c.ExportWorkers < 0 {
		return fmt.Errorf("config error: 'export_workers' must be non-negative")
	}
	if c.MaxBodyMB < 0 {
		return fmt.Errorf("config error: 'max_body_mb' must be non-negative")
	}
	if c.ExportTimeout != "" {
		d, err := time.ParseDuration(c.ExportTimeout)
		if err != nil {
			return fmt.Errorf("config error: invalid 'export_timeout': %w", err)
		}
		if d <= 0 {
			return fmt.Errorf("config error: 'export_timeout' must be positive")
		}
	}
	if _, err := export.ParseReadySignal(c.ReadySignal); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	// Validate paths exist (if specified)
	if c.AssetDir != "" {
		if _, err := os.Stat(c.AssetDir); os.IsNotExist(err) {
			return fmt.Errorf("config error: asset directory not found: %s", c.AssetDir)
		}
	}
	if c.ChromePath != "" {
		if _, err := os.Stat(c.ChromePath); os.IsNotExist(err) {
			return fmt.Errorf("config error: chrome executable not found: %s", c.ChromePath)
		}
	}

	return nil
}

// Timeout returns ExportTimeout as a duration, or zero when unset or invalid.
func (c *Config) Timeout() time.Duration {
	d, err := time.ParseDuration(c.ExportTimeout)
	if err != nil {
		return 0
	}
	return d
}

// Ready returns the parsed ready signal, defaulting to network idle.
func (c *Config) Ready() export.ReadySignal {
	r, err := export.ParseReadySignal(c.ReadySignal)
	if err != nil {
		return export.ReadyNetworkIdle
	}
	return r
}

// MaxBodyBytes returns the request body limit in bytes.
func (c *Config) MaxBodyBytes() int64 {
	return int64(c.MaxBodyMB) << 20
}
