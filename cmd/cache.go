package main

import (
	"context"
	"strconv"

	"github.com/Danpaek111/spotipy-playlist-generator/internal/repositories"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v3"
)

// cachedArtist is the JSON shape of one cache entry.
type cachedArtist struct {
	Query      string `json:"query"`
	ArtistID   string `json:"artist_id"`
	Name       string `json:"name"`
	Popularity int    `json:"popularity"`
	CachedAt   string `json:"cached_at"`
}

// CacheList prints every cached artist resolution in insertion order.
func (r *Runner) CacheList(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	entries, err := repositories.NewArtistRepository(db).List(nil)
	if err != nil {
		return err
	}

	rows := make([]cachedArtist, 0, len(entries))
	for _, e := range entries {
		a := e.Artist()
		rows = append(rows, cachedArtist{
			Query:      e.Query(),
			ArtistID:   a.ID,
			Name:       a.Name,
			Popularity: a.Popularity,
			CachedAt:   e.UpdatedAt().Format("2006-01-02 15:04:05"),
		})
	}

	if cmd.Bool("json") {
		return r.writeJSON(rows, true)
	}

	if len(rows) == 0 {
		return r.writePlain("Artist cache is empty\n")
	}

	table := tablewriter.NewWriter(r.output)
	table.SetHeader([]string{"#", "Query", "Artist", "Popularity", "ID", "Cached"})
	table.SetAutoWrapText(false)
	for i, row := range rows {
		table.Append([]string{strconv.Itoa(i + 1), row.Query, row.Name, strconv.Itoa(row.Popularity), row.ArtistID, row.CachedAt})
	}
	table.Render()
	return nil
}

// CacheClear removes every cached artist resolution.
func (r *Runner) CacheClear(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	removed, err := repositories.NewArtistRepository(db).Purge()
	if err != nil {
		return err
	}

	r.logger.Info("artist cache cleared", "removed", removed)
	return r.writePlain("✓ Removed %d cached artists\n", removed)
}
