package tasks

import (
	"fmt"
	"strings"

	"github.com/Danpaek111/spotipy-playlist-generator/internal/models"
	"github.com/Danpaek111/spotipy-playlist-generator/internal/sampler"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	ResolveArtists Phase = iota
	BuildPools
	AssemblePlaylist
	ExportPlaylist
)

func (p Phase) String() string {
	switch p {
	case ResolveArtists:
		return "resolve_artists"
	case BuildPools:
		return "build_pools"
	case AssemblePlaylist:
		return "assemble_playlist"
	case ExportPlaylist:
		return "export_playlist"
	default:
		return ""
	}
}

func truncatedUpdate(kept, dropped []string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolveArtists,
		Step:    0,
		Total:   len(kept),
		Message: fmt.Sprintf("You entered %d artists. Using the first %d: %s", len(kept)+len(dropped), len(kept), strings.Join(kept, ", ")),
		Data:    dropped,
	}
}

func resolvingUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolveArtists,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Searching for %s...", step, total, name),
	}
}

func resolvedUpdate(step, total int, name string, artist *models.Artist, cached bool) ProgressUpdate {
	if artist == nil {
		return ProgressUpdate{
			Phase:   ResolveArtists,
			Step:    step,
			Total:   total,
			Message: fmt.Sprintf("[%d/%d] ✗ %s: not found", step, total, name),
		}
	}

	source := ""
	if cached {
		source = " (cached)"
	}
	return ProgressUpdate{
		Phase:   ResolveArtists,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s → %s%s", step, total, name, artist.Name, source),
		Data:    artist,
	}
}

func poolBuiltUpdate(step, total int, artist models.Artist, pool *sampler.Pool) ProgressUpdate {
	return ProgressUpdate{
		Phase:   BuildPools,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s: %d candidates from %d releases", step, total, artist.Name, pool.Len(), pool.Albums),
		Data:    pool,
	}
}

func samplingUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   BuildPools,
		Step:    0,
		Total:   total,
		Message: "Sampling discographies...",
	}
}

func assembledUpdate(result *BuildResult, target int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AssemblePlaylist,
		Step:    len(result.Tracks),
		Total:   target,
		Message: fmt.Sprintf("Assembled %d of %d tracks from %d artists", len(result.Tracks), target, len(result.Artists)),
		Data:    result,
	}
}

func exportingUpdate(path, format string, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportPlaylist,
		Step:    0,
		Total:   1,
		Message: fmt.Sprintf("Exporting %d tracks to %s (%s)...", count, path, format),
	}
}

func exportedUpdate(path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportPlaylist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Saved to %s", path),
		Data:    path,
	}
}
