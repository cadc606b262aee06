package main

import (
	"context"
	"fmt"
	"os"

	"github.com/Danpaek111/spotipy-playlist-generator/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupConfig writes the bundled configuration template to the --config path.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	if r.configPath == "" {
		return fmt.Errorf("%w: --config path is empty", shared.ErrMissingArgument)
	}

	if _, err := os.Stat(r.configPath); err == nil {
		if !cmd.Bool("force") {
			r.writePlain("Config already exists at %s (use --force to reset it)\n", r.configPath)
			return nil
		}
		return r.resetConfig()
	}

	if err := shared.CreateConfigFile(r.configPath); err != nil {
		return err
	}

	r.logger.Info("config file created", "path", r.configPath)
	r.writePlain("✓ Config written to %s\n", r.configPath)
	r.writePlainln("Next steps:")
	r.writePlain("1. Set client_id and client_secret under [credentials.spotify], or export SPOTIPY_CLIENT_ID and SPOTIPY_CLIENT_SECRET\n")
	r.writePlain("2. Run 'playgen build -a \"Radiohead\"'\n")
	return nil
}

// resetConfig rewrites the config file with default settings, keeping the credentials stored in it.
func (r *Runner) resetConfig() error {
	existing, err := shared.LoadConfig(r.configPath)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidConfig, err)
	}

	config := shared.DefaultConfig()
	config.Credentials = existing.Credentials
	if err := shared.SaveConfig(r.configPath, config); err != nil {
		return err
	}

	r.logger.Info("config file reset", "path", r.configPath)
	r.writePlain("✓ Config reset to defaults at %s (credentials kept)\n", r.configPath)
	return nil
}

// SetupDatabase initializes the database and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	path := r.config.Database.Path
	r.logger.Info("initializing database", "path", path)

	db, err := shared.NewDatabase(path)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	if cmd.Bool("rollback") {
		if err := shared.RollbackMigration(db); err != nil {
			return fmt.Errorf("failed to roll back migration: %w", err)
		}
		r.logger.Info("rolled back latest migration", "path", path)
		r.writePlain("✓ Rolled back the latest migration on %s\n", path)
		return nil
	}

	r.logger.Info("running database migrations")
	applied, err := shared.RunMigrations(db)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	r.logger.Infof("setup complete for database: %v", path)
	r.writePlain("✓ Database ready at %s (%d migrations applied)\n", path, applied)
	return nil
}
