package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
//
// Spotify client credentials are deliberately absent: they are passed on the
// command line and handed straight to the authenticator.
type Config struct {
	API      APIConfig      `toml:"api"`
	Auth     AuthConfig     `toml:"auth"`
	Output   OutputConfig   `toml:"output"`
	Database DatabaseConfig `toml:"database"`
}

// APIConfig contains Spotify Web API client settings.
type APIConfig struct {
	BaseURL           string  `toml:"base_url"`
	TimeoutSeconds    int     `toml:"timeout_seconds"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	PageSize          int     `toml:"page_size"`
	MaxPages          int     `toml:"max_pages"`
}

// AuthConfig contains OAuth2 endpoint and token cache settings.
type AuthConfig struct {
	AuthURL        string `toml:"auth_url"`
	TokenURL       string `toml:"token_url"`
	TokenCacheDir  string `toml:"token_cache_dir"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	OpenBrowser    bool   `toml:"open_browser"`
}

// OutputConfig contains the directories written by an export run.
type OutputConfig struct {
	CacheDir     string `toml:"cache_dir"`
	PlaylistsDir string `toml:"playlists_dir"`
}

// DatabaseConfig contains run history database settings. An empty path disables the history.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// Timeout returns the per-request timeout.
func (c APIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Timeout returns how long to wait for the authorization callback.
func (c AuthConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep the values of [DefaultConfig].
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// Validate reports values that would make an export run misbehave.
func (c *Config) Validate() error {
	switch {
	case c.API.BaseURL == "":
		return fmt.Errorf("%w: api.base_url must be set", ErrInvalidConfig)
	case c.API.PageSize < 1 || c.API.PageSize > 50:
		return fmt.Errorf("%w: api.page_size must be between 1 and 50, got %d", ErrInvalidConfig, c.API.PageSize)
	case c.API.MaxPages < 1:
		return fmt.Errorf("%w: api.max_pages must be positive, got %d", ErrInvalidConfig, c.API.MaxPages)
	case c.API.TimeoutSeconds < 1:
		return fmt.Errorf("%w: api.timeout_seconds must be positive", ErrInvalidConfig)
	case c.API.RequestsPerSecond <= 0:
		return fmt.Errorf("%w: api.requests_per_second must be positive", ErrInvalidConfig)
	case c.Auth.TimeoutSeconds < 1:
		return fmt.Errorf("%w: auth.timeout_seconds must be positive", ErrInvalidConfig)
	case c.Output.CacheDir == "" || c.Output.PlaylistsDir == "":
		return fmt.Errorf("%w: output directories must be set", ErrInvalidConfig)
	}
	return nil
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
