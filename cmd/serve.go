package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/Danpaek111/spotipy-playlist-generator/internal/server"
	"github.com/urfave/cli/v3"
)

// Serve exposes playlist builds over HTTP until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	engine, closeEngine, err := r.newEngine(ctx, cmd.Bool("cache") || r.config.Cache.Enabled)
	if err != nil {
		return err
	}
	defer closeEngine()

	api := &server.API{
		Engine:   engine,
		Catalog:  r.catalog,
		Defaults: r.baseRequest(),
		Logger:   r.logger.WithPrefix("http"),
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return server.Serve(ctx, server.New(cmd.String("addr"), api.Handler()), api.Logger)
}
