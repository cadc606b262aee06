package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Danpaek111/spotipy-playlist-generator/internal/models"
	"github.com/Danpaek111/spotipy-playlist-generator/internal/shared"
	"github.com/Danpaek111/spotipy-playlist-generator/internal/tasks"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v3"
)

// artistSearchResult is the JSON shape of `artists search`.
type artistSearchResult struct {
	Query      string          `json:"query"`
	Candidates []models.Artist `json:"candidates"`
	Pick       *models.Artist  `json:"pick"`
}

// ArtistsSearch lists catalog matches for a name and marks the one a build would use.
func (r *Runner) ArtistsSearch(ctx context.Context, cmd *cli.Command) error {
	name := strings.TrimSpace(cmd.StringArg("name"))
	if name == "" {
		return fmt.Errorf("%w: artist name is required", shared.ErrMissingArgument)
	}
	limit := int(cmd.Int("limit"))
	if limit <= 0 {
		return fmt.Errorf("%w: --limit must be positive, got %d", shared.ErrInvalidFlag, limit)
	}

	if err := r.requireCatalog(); err != nil {
		return err
	}

	r.logger.Debug("searching artists", "name", name, "limit", limit)
	candidates, err := r.catalog.SearchArtists(ctx, name, limit)
	if err != nil {
		return fmt.Errorf("failed to search artists: %w", err)
	}
	pick := tasks.PickArtist(name, candidates)

	if cmd.Bool("json") {
		if candidates == nil {
			candidates = []models.Artist{}
		}
		return r.writeJSON(artistSearchResult{Query: name, Candidates: candidates, Pick: pick}, true)
	}

	if pick == nil {
		return r.writePlain("No artists found for %q\n", name)
	}

	table := tablewriter.NewWriter(r.output)
	table.SetHeader([]string{"", "Name", "Popularity", "ID"})
	table.SetAutoWrapText(false)
	for _, a := range candidates {
		marker := ""
		if a.ID == pick.ID {
			marker = "→"
		}
		table.Append([]string{marker, a.Name, strconv.Itoa(a.Popularity), a.ID})
	}
	table.Render()

	return r.writePlainln("A build for %q would use %s (%s)", name, pick.Name, pick.ID)
}
