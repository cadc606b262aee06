package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Spotify green for headings, the rest for status text.
const (
	colorAccent = "#1DB954"
	colorOK     = "#04B575"
	colorError  = "#E22134"
	colorWarn   = "#FFA42B"
	colorMuted  = "#727272"
)

var styles = NewPalette(colorAccent, colorOK, colorError, colorWarn, colorMuted)

// Palette is a simple stylesheet of named [lipgloss.Style] values.
type Palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
}

// NewPalette builds a palette from foreground colors for titles, success, errors, warnings and help text.
func NewPalette(title, ok, err, warn, help string) *Palette {
	return &Palette{
		title: newBold(title).MarginBottom(1),
		ok:    newBold(ok),
		err:   newBold(err),
		warn:  newStyle(warn),
		help:  newStyle(help).Italic(true),
	}
}

func newStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func newBold(fg string) lipgloss.Style {
	return newStyle(fg).Bold(true)
}
