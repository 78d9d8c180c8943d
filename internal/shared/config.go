package shared

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

const defaultSessionTTL = 12 * time.Hour

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Database DatabaseConfig `toml:"database"`
	Session  SessionConfig  `toml:"session"`
	Server   ServerConfig   `toml:"server"`
	YouTube  YouTubeConfig  `toml:"youtube"`
}

// DatabaseConfig contains database connection settings for the durable store.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// SessionConfig controls where session-scoped state lives.
//
// Path is the CLI session database; empty means a file in the OS temp directory.
// Backend selects the HTTP server's per-cookie session storage: "memory" or "redis".
type SessionConfig struct {
	Path      string `toml:"path"`
	Backend   string `toml:"backend"`
	RedisAddr string `toml:"redis_addr"`
	RedisDB   int    `toml:"redis_db"`
	TTL       string `toml:"ttl"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host          string `toml:"host"`
	Port          int    `toml:"port"`
	SecureCookies bool   `toml:"secure_cookies"`
}

// YouTubeConfig contains YouTube Data API settings for the search collaborator.
type YouTubeConfig struct {
	BaseURL    string  `toml:"base_url"`
	APIKey     string  `toml:"api_key"`
	RateLimit  float64 `toml:"rate_limit"`
	MaxResults int     `toml:"max_results"`
}

// SessionPath returns the CLI session database path.
func (c SessionConfig) SessionPath() string {
	if c.Path != "" {
		return c.Path
	}
	return filepath.Join(os.TempDir(), "vidshelf-session.db")
}

// TTLDuration parses TTL, falling back to 12h when empty or malformed.
func (c SessionConfig) TTLDuration() time.Duration {
	if c.TTL == "" {
		return defaultSessionTTL
	}
	d, err := time.ParseDuration(c.TTL)
	if err != nil || d <= 0 {
		return defaultSessionTTL
	}
	return d
}

// Addr returns the host:port listen address.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// LoadConfigOrDefault loads path when it exists and otherwise returns [DefaultConfig].
func LoadConfigOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return DefaultConfig(), nil
	}
	return LoadConfig(path)
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
