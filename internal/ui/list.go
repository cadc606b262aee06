package ui

import (
	"fmt"

	"github.com/Danpaek111/spotipy-playlist-generator/internal/models"
	"github.com/charmbracelet/bubbles/list"
)

var _ list.Item = trackItem{}

// trackItem wraps [models.Track] to implement [list.Item].
type trackItem struct {
	index int
	track models.Track
}

func (i trackItem) FilterValue() string { return i.track.Name + " " + i.track.Artist }
func (i trackItem) Title() string       { return fmt.Sprintf("%02d. %s", i.index, i.track.Name) }
func (i trackItem) Description() string {
	desc := i.track.Artist
	if i.track.SpotifyURL != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.track.SpotifyURL)
	}
	return desc
}

func trackItems(tracks []models.Track) []list.Item {
	items := make([]list.Item, len(tracks))
	for i, t := range tracks {
		items[i] = trackItem{index: i + 1, track: t}
	}
	return items
}
