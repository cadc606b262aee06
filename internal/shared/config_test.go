package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "./playgen.db" {
			t.Errorf("expected database path ./playgen.db, got %s", config.Database.Path)
		}

		if config.Generator.TargetSize != 40 {
			t.Errorf("expected target size 40, got %d", config.Generator.TargetSize)
		}

		if config.Generator.AlbumsPerArtist != 20 || config.Generator.TracksPerAlbum != 5 {
			t.Errorf("unexpected sampling defaults: %+v", config.Generator)
		}

		if !config.Generator.Shuffle || !config.Generator.SoloOnly {
			t.Error("expected shuffle and solo_only enabled by default")
		}

		if config.Catalog.Market != "US" {
			t.Errorf("expected market US, got %s", config.Catalog.Market)
		}

		if config.Output.Path != "playlist.csv" || config.Output.Format != "csv" {
			t.Errorf("unexpected output defaults: %+v", config.Output)
		}

		if config.Credentials.Spotify.Valid() {
			t.Error("placeholder credentials should not be valid")
		}

		if err := config.Validate(); err != nil {
			t.Errorf("default config should validate: %v", err)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		if config.Database.Path != DefaultConfig().Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")

		testConfig := `[generator]
target_size = 25
solo_only = false

[credentials.spotify]
client_id = "test_client_id"
client_secret = "test_secret"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Generator.TargetSize != 25 {
			t.Errorf("expected target size 25, got %d", config.Generator.TargetSize)
		}

		if config.Generator.SoloOnly {
			t.Error("expected solo_only false")
		}

		if config.Generator.TracksPerAlbum != 5 {
			t.Errorf("missing keys should keep defaults, got tracks_per_album %d", config.Generator.TracksPerAlbum)
		}

		if !config.Credentials.Spotify.Valid() {
			t.Error("expected credentials to be valid")
		}
	})

	t.Run("LoadConfig Missing File", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("SaveConfig", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		config := DefaultConfig()
		config.Generator.Seed = 42

		if err := SaveConfig(configPath, config); err != nil {
			t.Fatalf("failed to save config: %v", err)
		}

		loaded, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load saved config: %v", err)
		}
		if loaded.Generator.Seed != 42 {
			t.Errorf("expected seed 42, got %d", loaded.Generator.Seed)
		}
	})

	t.Run("LoadEnv", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("SPOTIPY_CLIENT_ID", "env_id")
		t.Setenv("SPOTIPY_CLIENT_SECRET", "")
		t.Setenv("SPOTIFY_CLIENT_SECRET", "fallback_secret")

		config := DefaultConfig()
		LoadEnv(config)

		if config.Credentials.Spotify.ClientID != "env_id" {
			t.Errorf("expected env_id, got %s", config.Credentials.Spotify.ClientID)
		}
		if config.Credentials.Spotify.ClientSecret != "fallback_secret" {
			t.Errorf("expected fallback_secret, got %s", config.Credentials.Spotify.ClientSecret)
		}
	})

	t.Run("Validate", func(t *testing.T) {
		tc := []struct {
			name   string
			mutate func(*Config)
		}{
			{"zero target size", func(c *Config) { c.Generator.TargetSize = 0 }},
			{"negative albums per artist", func(c *Config) { c.Generator.AlbumsPerArtist = -1 }},
			{"zero tracks per album", func(c *Config) { c.Generator.TracksPerAlbum = 0 }},
			{"zero max artists", func(c *Config) { c.Generator.MaxArtists = 0 }},
			{"negative seed", func(c *Config) { c.Generator.Seed = -7 }},
			{"negative rate", func(c *Config) { c.Catalog.RequestsPerSecond = -1 }},
			{"unknown format", func(c *Config) { c.Output.Format = "xml" }},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				config := DefaultConfig()
				tt.mutate(config)
				if err := config.Validate(); !errors.Is(err, ErrInvalidConfig) {
					t.Errorf("expected ErrInvalidConfig, got %v", err)
				}
			})
		}
	})
}
