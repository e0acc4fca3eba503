// Package config loads the salesboard configuration: defaults, then the
// user's config file, then environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/alexmendoza/salesboard/internal/domain"
)

const (
	// UserConfigDir is the directory under $HOME for the config file.
	UserConfigDir = ".config/salesboard"
	// UserConfigFile is the name of the config file.
	UserConfigFile = "config.yaml"
)

// Config is the complete salesboard configuration.
type Config struct {
	Backend  BackendConfig  `yaml:"backend"`
	User     UserConfig     `yaml:"user"`
	Schedule ScheduleConfig `yaml:"schedule"`
	// DBPath is the local cache database. Empty means the default path
	// under the user config directory.
	DBPath string `yaml:"db_path"`
	// Verbose enables structured use-case logging to stderr.
	Verbose bool `yaml:"verbose"`
}

// BackendConfig configures the proposal backend connection.
type BackendConfig struct {
	// URL is the backend base URL.
	URL string `yaml:"url"`
	// TimeoutMs is the per-request timeout in milliseconds.
	TimeoutMs int `yaml:"timeout_ms"`
}

// UserConfig identifies the current user to the backend.
type UserConfig struct {
	Username string   `yaml:"username"`
	Roles    []string `yaml:"roles"`
}

// ScheduleConfig holds scheduler display settings.
type ScheduleConfig struct {
	IncludeWeekends bool `yaml:"include_weekends"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Backend: BackendConfig{
			URL:       "http://localhost:8080",
			TimeoutMs: 10000,
		},
		Schedule: ScheduleConfig{
			IncludeWeekends: false,
		},
	}
}

// Roles parses the configured role strings, skipping unknown values.
func (c *Config) Roles() []domain.Role {
	var roles []domain.Role
	for _, s := range c.User.Roles {
		role, err := domain.ParseRole(s)
		if err != nil {
			continue
		}
		roles = append(roles, role)
	}
	return roles
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Backend.URL == "" {
		return fmt.Errorf("backend.url is required")
	}
	if c.Backend.TimeoutMs <= 0 {
		return fmt.Errorf("backend.timeout_ms must be positive")
	}
	if c.User.Username == "" {
		return fmt.Errorf("user.username is required")
	}
	for _, s := range c.User.Roles {
		if _, err := domain.ParseRole(s); err != nil {
			return fmt.Errorf("user.roles: %w", err)
		}
	}
	return nil
}

// LoadFromFile reads a config file into a Config.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &cfg, nil
}

// SaveToFile writes the config as YAML, creating parent directories.
func (c *Config) SaveToFile(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Merge overlays non-zero fields of other onto c.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}
	c.Backend.URL = domain.CoalesceStr(other.Backend.URL, c.Backend.URL)
	if other.Backend.TimeoutMs > 0 {
		c.Backend.TimeoutMs = other.Backend.TimeoutMs
	}
	c.User.Username = domain.CoalesceStr(other.User.Username, c.User.Username)
	if len(other.User.Roles) > 0 {
		c.User.Roles = other.User.Roles
	}
	if other.Schedule.IncludeWeekends {
		c.Schedule.IncludeWeekends = true
	}
	c.DBPath = domain.CoalesceStr(other.DBPath, c.DBPath)
	if other.Verbose {
		c.Verbose = true
	}
}

// Load builds the effective configuration: defaults, then the user config
// file (SALESBOARD_CONFIG overrides its location), then environment
// variables. Validation runs on the merged result.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	path := os.Getenv("SALESBOARD_CONFIG")
	if path == "" {
		path = userConfigPath()
	}
	if path != "" {
		fileCfg, err := LoadFromFile(path)
		switch {
		case err == nil:
			cfg.Merge(fileCfg)
		case !os.IsNotExist(err):
			return nil, err
		}
	}

	applyEnv(cfg)

	if cfg.DBPath == "" {
		cfg.DBPath = defaultDBPath()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("SALESBOARD_BACKEND_URL"); v != "" {
		cfg.Backend.URL = v
	}
	if v := os.Getenv("SALESBOARD_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Backend.TimeoutMs = n
		}
	}
	if v := os.Getenv("SALESBOARD_USERNAME"); v != "" {
		cfg.User.Username = v
	}
	if v := os.Getenv("SALESBOARD_ROLES"); v != "" {
		cfg.User.Roles = splitRoles(v)
	}
	if v := os.Getenv("SALESBOARD_WEEKENDS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Schedule.IncludeWeekends = b
		}
	}
	if v := os.Getenv("SALESBOARD_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("SALESBOARD_VERBOSE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Verbose = b
		}
	}
}

func splitRoles(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func userConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, UserConfigDir, UserConfigFile)
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "salesboard.db"
	}
	return filepath.Join(home, UserConfigDir, "salesboard.db")
}
