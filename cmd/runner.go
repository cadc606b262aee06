package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/Danpaek111/spotipy-playlist-generator/internal/repositories"
	"github.com/Danpaek111/spotipy-playlist-generator/internal/services"
	"github.com/Danpaek111/spotipy-playlist-generator/internal/shared"
	"github.com/Danpaek111/spotipy-playlist-generator/internal/tasks"
	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	catalog    services.Catalog
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Catalog    services.Catalog
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		catalog:    opts.Catalog,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		buildCommand, artistsCommand, setupCommand, cacheCommand, serveCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger replaces the logger used by commands and the engines they create.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// Before loads the configuration named by --config, overlays .env credentials and connects the catalog.
//
// A missing config file is not an error; the embedded defaults are used instead.
func (r *Runner) Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.Bool("verbose") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}

	if path := cmd.String("config"); path != "" {
		r.configPath = path
	}

	if r.configPath != "" {
		if _, err := os.Stat(r.configPath); err == nil {
			config, err := shared.LoadConfig(r.configPath)
			if err != nil {
				return ctx, fmt.Errorf("%w: %v", shared.ErrInvalidConfig, err)
			}
			if err := config.Validate(); err != nil {
				return ctx, fmt.Errorf("%s: %w", r.configPath, err)
			}
			r.config = config
		} else {
			r.logger.Debug("config file not found, using defaults", "path", r.configPath)
		}
	}

	shared.LoadEnv(r.config)

	if r.catalog == nil && r.config.Credentials.Spotify.Valid() {
		catalog, err := r.newCatalog()
		if err != nil {
			return ctx, err
		}
		r.catalog = catalog
	}

	return ctx, nil
}

func (r *Runner) newCatalog() (*services.SpotifyService, error) {
	creds := r.config.Credentials.Spotify
	svc, err := services.NewSpotifyService(
		map[string]string{"client_id": creds.ClientID, "client_secret": creds.ClientSecret},
		services.WithBaseURL(r.config.Catalog.BaseURL),
		services.WithTokenURL(r.config.Catalog.TokenURL),
		services.WithRateLimit(r.config.Catalog.RequestsPerSecond),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Spotify service: %w", err)
	}
	return svc, nil
}

func (r *Runner) requireCatalog() error {
	if r.catalog == nil {
		return fmt.Errorf("%w: set SPOTIPY_CLIENT_ID and SPOTIPY_CLIENT_SECRET or [credentials.spotify] in %s",
			shared.ErrMissingCredentials, r.configPath)
	}
	return nil
}

// authenticate fetches a catalog token up front when the catalog supports it.
func (r *Runner) authenticate(ctx context.Context) error {
	auth, ok := r.catalog.(interface{ Authenticate(context.Context) error })
	if !ok {
		return nil
	}
	if err := auth.Authenticate(ctx); err != nil {
		return fmt.Errorf("%s rejected the configured credentials: %w", r.catalog.Name(), err)
	}
	return nil
}

// openDatabase opens the configured SQLite database with migrations applied.
func (r *Runner) openDatabase() (*sql.DB, error) {
	db, err := shared.OpenMigrated(r.config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", r.config.Database.Path, err)
	}
	return db, nil
}

// newEngine creates a playlist engine for the catalog, with the artist cache when useCache is set.
// The returned close function releases the cache database and is always safe to call.
func (r *Runner) newEngine(ctx context.Context, useCache bool) (*tasks.PlaylistEngine, func(), error) {
	if err := r.requireCatalog(); err != nil {
		return nil, func() {}, err
	}
	if err := r.authenticate(ctx); err != nil {
		return nil, func() {}, err
	}

	opts := []tasks.EngineOption{tasks.WithEngineLogger(shared.WithLogger(r.logger, "catalog", r.catalog.Name()))}
	if !useCache {
		return tasks.NewPlaylistEngine(r.catalog, opts...), func() {}, nil
	}

	db, err := r.openDatabase()
	if err != nil {
		return nil, func() {}, err
	}

	cache := repositories.NewArtistCacheAdapter(repositories.NewArtistRepository(db))
	opts = append(opts, tasks.WithArtistCache(cache))
	return tasks.NewPlaylistEngine(r.catalog, opts...), func() { db.Close() }, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
