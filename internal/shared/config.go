package shared

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Destination DestinationConfig `toml:"destination"`
	Migration   MigrationConfig   `toml:"migration"`
	Database    DatabaseConfig    `toml:"database"`
	Server      ServerConfig      `toml:"server"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Spotify SpotifyConfig `toml:"spotify"`
	YouTube YouTubeConfig `toml:"youtube"`
}

// SpotifyConfig contains Spotify API credentials.
type SpotifyConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RedirectURI  string `toml:"redirect_uri"`
}

// YouTubeConfig contains credentials for both destination variants: OAuth
// client settings for the YouTube Data API, and proxy settings for the
// YouTube Music proxy.
type YouTubeConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RedirectURI  string `toml:"redirect_uri"`
	ProxyURL     string `toml:"proxy_url"`
	AuthFile     string `toml:"auth_file"`
}

// DestinationConfig selects which destination client implementation to use.
type DestinationConfig struct {
	Provider string `toml:"provider"`
}

// MigrationConfig contains tunables for the migration engine.
type MigrationConfig struct {
	TitlePrefix string `toml:"title_prefix"`
	SearchLimit int    `toml:"search_limit"`
	BatchSize   int    `toml:"batch_size"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// LoadConfig reads and parses a TOML configuration file from the specified
// path, then applies environment-variable overrides.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	config.applyEnv()
	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the
// embedded example config, with environment-variable overrides applied.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	config.applyEnv()
	return &config
}

// applyEnv overrides credential fields from TUNEX_* environment variables so
// secrets can live in the environment (or a .env file) instead of config.toml.
func (c *Config) applyEnv() {
	overrides := map[string]*string{
		"TUNEX_SPOTIFY_CLIENT_ID":     &c.Credentials.Spotify.ClientID,
		"TUNEX_SPOTIFY_CLIENT_SECRET": &c.Credentials.Spotify.ClientSecret,
		"TUNEX_SPOTIFY_REDIRECT_URI":  &c.Credentials.Spotify.RedirectURI,
		"TUNEX_YOUTUBE_CLIENT_ID":     &c.Credentials.YouTube.ClientID,
		"TUNEX_YOUTUBE_CLIENT_SECRET": &c.Credentials.YouTube.ClientSecret,
		"TUNEX_YOUTUBE_REDIRECT_URI":  &c.Credentials.YouTube.RedirectURI,
		"TUNEX_YOUTUBE_PROXY_URL":     &c.Credentials.YouTube.ProxyURL,
		"TUNEX_YOUTUBE_AUTH_FILE":     &c.Credentials.YouTube.AuthFile,
		"TUNEX_DESTINATION":           &c.Destination.Provider,
	}

	for key, target := range overrides {
		if value := os.Getenv(key); value != "" {
			*target = value
		}
	}
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
