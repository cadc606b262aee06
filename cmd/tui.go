package main

import (
	"context"
	"fmt"

	"github.com/Danpaek111/spotipy-playlist-generator/internal/shared"
	"github.com/Danpaek111/spotipy-playlist-generator/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive playlist builder.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/playgen-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	engine, closeEngine, err := r.newEngine(ctx, cmd.Bool("cache") || r.config.Cache.Enabled)
	if err != nil {
		return err
	}
	defer closeEngine()

	opts := ui.Options{
		Request:    r.baseRequest(),
		OutputPath: r.config.Output.Path,
		Format:     r.config.Output.Format,
	}

	p := tea.NewProgram(ui.NewModel(ctx, engine, opts), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
