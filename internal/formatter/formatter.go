// package formatter provides functions to export playlist data to various formats (CSV, JSON, YAML, Markdown, plain text)
package formatter

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/Danpaek111/spotipy-playlist-generator/internal/models"
	"github.com/Danpaek111/spotipy-playlist-generator/internal/shared"
	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"
)

// CSVHeader is the header row of a CSV export.
var CSVHeader = []string{"track", "artist", "spotify_url"}

var aliases = map[string]string{
	"md":  "markdown",
	"txt": "text",
	"yml": "yaml",
}

// Formats returns the export format names accepted by [Render] and [WriteExport].
func Formats() []string {
	return slices.Clone(shared.OutputFormats)
}

// Normalize maps a format name or alias (md, txt, yml) to its canonical name.
func Normalize(format string) (string, error) {
	f := strings.ToLower(strings.TrimSpace(format))
	if canonical, ok := aliases[f]; ok {
		f = canonical
	}
	if !slices.Contains(shared.OutputFormats, f) {
		return "", fmt.Errorf("%w: unknown format %q (want one of %s)", shared.ErrInvalidFlag, format, strings.Join(Formats(), ", "))
	}
	return f, nil
}

// FormatFromPath guesses a format from path's extension, falling back to csv.
func FormatFromPath(path string) string {
	if f, err := Normalize(strings.TrimPrefix(filepath.Ext(path), ".")); err == nil {
		return f
	}
	return "csv"
}

// ExportToCSV writes one row per track under [CSVHeader].
//
// Rows end in CRLF and a field is quoted only when it contains a comma, a double quote, CR or LF,
// with embedded quotes doubled. Leading spaces are left bare.
func ExportToCSV(tracks []models.Track) ([]byte, error) {
	var buf bytes.Buffer
	writeCSVRecord(&buf, CSVHeader)
	for _, t := range tracks {
		writeCSVRecord(&buf, []string{t.Name, t.Artist, t.SpotifyURL})
	}
	return buf.Bytes(), nil
}

func writeCSVRecord(buf *bytes.Buffer, record []string) {
	for i, field := range record {
		if i > 0 {
			buf.WriteByte(',')
		}
		if !strings.ContainsAny(field, ",\"\r\n") {
			buf.WriteString(field)
			continue
		}
		buf.WriteByte('"')
		buf.WriteString(strings.ReplaceAll(field, `"`, `""`))
		buf.WriteByte('"')
	}
	buf.WriteString("\r\n")
}

// ExportToJSON converts tracks to an indented JSON array.
func ExportToJSON(tracks []models.Track) ([]byte, error) {
	if tracks == nil {
		tracks = []models.Track{}
	}
	data, err := shared.MarshalJSON(tracks, true)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// ExportToYAML converts tracks to a YAML sequence.
func ExportToYAML(tracks []models.Track) ([]byte, error) {
	if tracks == nil {
		tracks = []models.Track{}
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(tracks); err != nil {
		return nil, fmt.Errorf("failed to marshal YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to marshal YAML: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportToMarkdown converts tracks to a numbered Markdown list linking each track.
func ExportToMarkdown(tracks []models.Track) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Playlist\n\n")
	buf.WriteString(fmt.Sprintf("**Tracks**: %d\n\n", len(tracks)))

	buf.WriteString("## Tracks\n\n")
	for i, t := range tracks {
		title := t.Name
		if t.SpotifyURL != "" {
			title = fmt.Sprintf("[%s](%s)", t.Name, t.SpotifyURL)
		}
		buf.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, title, t.Artist))
	}

	return buf.Bytes(), nil
}

// ExportToText converts tracks to the numbered listing printed after a build:
// "01. name — artist" with the link indented on the next line.
func ExportToText(tracks []models.Track) ([]byte, error) {
	var buf bytes.Buffer
	for i, t := range tracks {
		buf.WriteString(fmt.Sprintf("%02d. %s — %s\n", i+1, t.Name, t.Artist))
		buf.WriteString(fmt.Sprintf("    %s\n", t.SpotifyURL))
	}
	return buf.Bytes(), nil
}

// Render converts tracks using the named format.
func Render(tracks []models.Track, format string) ([]byte, error) {
	f, err := Normalize(format)
	if err != nil {
		return nil, err
	}

	switch f {
	case "json":
		return ExportToJSON(tracks)
	case "yaml":
		return ExportToYAML(tracks)
	case "markdown":
		return ExportToMarkdown(tracks)
	case "text":
		return ExportToText(tracks)
	default:
		return ExportToCSV(tracks)
	}
}

// WriteExport renders tracks in the named format and writes them to path, creating parent directories.
func WriteExport(tracks []models.Track, path, format string) error {
	if path == "" {
		return fmt.Errorf("%w: output path is empty", shared.ErrInvalidInput)
	}

	data, err := Render(tracks, format)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s file: %w", format, err)
	}
	return nil
}

// WriteTable renders tracks as a bordered table.
func WriteTable(w io.Writer, tracks []models.Track) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"#", "Track", "Artist", "Spotify URL"})
	table.SetAutoWrapText(false)
	table.SetRowLine(false)

	for i, t := range tracks {
		table.Append([]string{strconv.Itoa(i + 1), t.Name, t.Artist, t.SpotifyURL})
	}
	table.Render()
}
