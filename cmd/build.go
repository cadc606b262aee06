package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/Danpaek111/spotipy-playlist-generator/internal/formatter"
	"github.com/Danpaek111/spotipy-playlist-generator/internal/sampler"
	"github.com/Danpaek111/spotipy-playlist-generator/internal/shared"
	"github.com/Danpaek111/spotipy-playlist-generator/internal/tasks"
	"github.com/urfave/cli/v3"
)

// buildOptions are the resolved settings of one build invocation: config values overridden by flags.
type buildOptions struct {
	request  tasks.BuildRequest
	output   string
	format   string
	export   bool
	useCache bool
}

// baseRequest is a build request carrying the configured generator settings and no names.
func (r *Runner) baseRequest() tasks.BuildRequest {
	gen := r.config.Generator
	return tasks.BuildRequest{
		TargetSize: gen.TargetSize,
		MaxArtists: gen.MaxArtists,
		Seed:       uint64(gen.Seed),
		Options: sampler.Options{
			AlbumsPerArtist: gen.AlbumsPerArtist,
			TracksPerAlbum:  gen.TracksPerAlbum,
			Shuffle:         gen.Shuffle,
			SoloOnly:        gen.SoloOnly,
			Market:          r.config.Catalog.Market,
		},
	}
}

// buildOptionsFromCommand merges the command's flags over the loaded configuration.
func (r *Runner) buildOptionsFromCommand(cmd *cli.Command) (buildOptions, error) {
	var names []string
	for _, v := range cmd.StringSlice("artist") {
		names = append(names, tasks.SplitNames(v)...)
	}
	names = append(names, tasks.SplitNames(strings.Join(cmd.Args().Slice(), ","))...)
	if len(names) == 0 {
		return buildOptions{}, fmt.Errorf("%w: at least one artist is required (--artist NAME)", shared.ErrMissingArgument)
	}

	req := r.baseRequest()
	req.Names = names
	opts := &req.Options
	if cmd.IsSet("albums-per-artist") {
		opts.AlbumsPerArtist = int(cmd.Int("albums-per-artist"))
	}
	if cmd.IsSet("tracks-per-album") {
		opts.TracksPerAlbum = int(cmd.Int("tracks-per-album"))
	}
	if cmd.IsSet("shuffle") {
		opts.Shuffle = cmd.Bool("shuffle")
	}
	if cmd.IsSet("solo-only") {
		opts.SoloOnly = cmd.Bool("solo-only")
	}
	if cmd.IsSet("market") {
		opts.Market = strings.ToUpper(strings.TrimSpace(cmd.String("market")))
	}

	if cmd.IsSet("size") {
		req.TargetSize = int(cmd.Int("size"))
	}
	if cmd.IsSet("seed") {
		req.Seed = cmd.Uint64("seed")
	}

	switch {
	case req.TargetSize <= 0:
		return buildOptions{}, fmt.Errorf("%w: --size must be positive, got %d", shared.ErrInvalidFlag, req.TargetSize)
	case opts.AlbumsPerArtist <= 0:
		return buildOptions{}, fmt.Errorf("%w: --albums-per-artist must be positive, got %d", shared.ErrInvalidFlag, opts.AlbumsPerArtist)
	case opts.TracksPerAlbum <= 0:
		return buildOptions{}, fmt.Errorf("%w: --tracks-per-album must be positive, got %d", shared.ErrInvalidFlag, opts.TracksPerAlbum)
	}

	output := r.config.Output.Path
	if cmd.IsSet("output") {
		output = cmd.String("output")
	}

	format := r.config.Output.Format
	switch {
	case cmd.IsSet("format"):
		format = cmd.String("format")
	case cmd.IsSet("output"):
		format = formatter.FormatFromPath(output)
	}
	format, err := formatter.Normalize(format)
	if err != nil {
		return buildOptions{}, err
	}

	return buildOptions{
		request:  req,
		output:   output,
		format:   format,
		export:   !cmd.Bool("no-export") && output != "",
		useCache: cmd.Bool("cache") || r.config.Cache.Enabled,
	}, nil
}

// Build resolves the seed artists, assembles a playlist, writes the export file and prints the result.
func (r *Runner) Build(ctx context.Context, cmd *cli.Command) error {
	opts, err := r.buildOptionsFromCommand(cmd)
	if err != nil {
		return err
	}
	useJSON := cmd.Bool("json")

	engine, closeEngine, err := r.newEngine(ctx, opts.useCache)
	if err != nil {
		return err
	}
	defer closeEngine()

	r.logger.Info("building playlist", "artists", strings.Join(opts.request.Names, ", "), "size", opts.request.TargetSize)
	if !useJSON {
		r.writePlain("Building playlist from: %s\n", strings.Join(opts.request.Names, ", "))
	}

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			if useJSON {
				r.logger.Debug(update.Message, "phase", update.Phase)
				continue
			}
			r.writePlain("%s\n", update.Message)
		}
	}()

	result, err := engine.Build(ctx, opts.request, progressCh)
	if err == nil && opts.export {
		err = engine.Export(result, opts.output, opts.format, progressCh)
	}
	close(progressCh)
	<-done

	if err != nil {
		return err
	}

	if useJSON {
		return r.writeJSON(result, true)
	}
	return r.writeBuildSummary(result, opts, cmd.Bool("table"))
}

func (r *Runner) writeBuildSummary(result *tasks.BuildResult, opts buildOptions, table bool) error {
	if len(result.Tracks) == 0 {
		r.writePlainln("No tracks found for the selected artists.")
		return nil
	}

	r.writePlain("\n")
	r.writePlainHeader(fmt.Sprintf("Playlist (%d tracks)", len(result.Tracks)))
	if table {
		formatter.WriteTable(r.output, result.Tracks)
	} else {
		listing, err := formatter.ExportToText(result.Tracks)
		if err != nil {
			return err
		}
		if err := r.writePlain("%s", listing); err != nil {
			return err
		}
	}

	if len(result.Tracks) < opts.request.TargetSize {
		r.writePlainln("Only %d of %d requested tracks were available.", len(result.Tracks), opts.request.TargetSize)
	}
	if len(result.NotFound) > 0 {
		r.writePlainln("Artists not found: %s", strings.Join(result.NotFound, ", "))
	}
	if len(result.Truncated) > 0 {
		r.writePlainln("Skipped (too many artists): %s", strings.Join(result.Truncated, ", "))
	}
	if opts.export {
		r.writePlainln("✓ Saved %d tracks to %s", len(result.Tracks), opts.output)
	}
	r.writePlain("Seed: %d\n", result.Seed)
	return nil
}
