package shared

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"slices"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// OutputFormats lists the export formats accepted in [OutputConfig.Format].
var OutputFormats = []string{"csv", "json", "yaml", "markdown", "text"}

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Catalog     CatalogConfig     `toml:"catalog"`
	Generator   GeneratorConfig   `toml:"generator"`
	Database    DatabaseConfig    `toml:"database"`
	Cache       CacheConfig       `toml:"cache"`
	Output      OutputConfig      `toml:"output"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Spotify SpotifyConfig `toml:"spotify"`
}

// SpotifyConfig contains Spotify API client credentials.
type SpotifyConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
}

// Valid reports whether both client credentials are present and not the example placeholders.
func (s SpotifyConfig) Valid() bool {
	if s.ClientID == "" || s.ClientSecret == "" {
		return false
	}
	return s.ClientID != "your_spotify_client_id" && s.ClientSecret != "your_spotify_client_secret"
}

// CatalogConfig contains catalog endpoint and request settings.
type CatalogConfig struct {
	BaseURL           string  `toml:"base_url"`
	TokenURL          string  `toml:"token_url"`
	Market            string  `toml:"market"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// GeneratorConfig contains the sampling parameters for a playlist build.
type GeneratorConfig struct {
	TargetSize      int   `toml:"target_size"`
	AlbumsPerArtist int   `toml:"albums_per_artist"`
	TracksPerAlbum  int   `toml:"tracks_per_album"`
	Shuffle         bool  `toml:"shuffle"`
	SoloOnly        bool  `toml:"solo_only"`
	MaxArtists      int   `toml:"max_artists"`
	Seed            int64 `toml:"seed"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// CacheConfig toggles the artist resolution cache.
type CacheConfig struct {
	Enabled bool `toml:"enabled"`
}

// OutputConfig contains export defaults.
type OutputConfig struct {
	Path   string `toml:"path"`
	Format string `toml:"format"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
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

// SaveConfig encodes config as TOML and writes it to path.
func SaveConfig(path string, config *Config) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// LoadEnv loads a .env file from the working directory when present and overlays Spotify credentials found in the environment.
//
// SPOTIPY_CLIENT_ID and SPOTIPY_CLIENT_SECRET win over SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET.
func LoadEnv(config *Config) {
	_ = godotenv.Load()

	if id := firstEnv("SPOTIPY_CLIENT_ID", "SPOTIFY_CLIENT_ID"); id != "" {
		config.Credentials.Spotify.ClientID = id
	}
	if secret := firstEnv("SPOTIPY_CLIENT_SECRET", "SPOTIFY_CLIENT_SECRET"); secret != "" {
		config.Credentials.Spotify.ClientSecret = secret
	}
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

// Validate checks generator and output settings.
func (c *Config) Validate() error {
	g := c.Generator
	switch {
	case g.TargetSize <= 0:
		return fmt.Errorf("%w: generator.target_size must be positive, got %d", ErrInvalidConfig, g.TargetSize)
	case g.AlbumsPerArtist <= 0:
		return fmt.Errorf("%w: generator.albums_per_artist must be positive, got %d", ErrInvalidConfig, g.AlbumsPerArtist)
	case g.TracksPerAlbum <= 0:
		return fmt.Errorf("%w: generator.tracks_per_album must be positive, got %d", ErrInvalidConfig, g.TracksPerAlbum)
	case g.MaxArtists <= 0:
		return fmt.Errorf("%w: generator.max_artists must be positive, got %d", ErrInvalidConfig, g.MaxArtists)
	case g.Seed < 0:
		return fmt.Errorf("%w: generator.seed must not be negative, got %d", ErrInvalidConfig, g.Seed)
	}

	if c.Catalog.RequestsPerSecond < 0 {
		return fmt.Errorf("%w: catalog.requests_per_second must not be negative", ErrInvalidConfig)
	}

	if !slices.Contains(OutputFormats, c.Output.Format) {
		return fmt.Errorf("%w: unknown output.format %q", ErrInvalidConfig, c.Output.Format)
	}

	return nil
}
