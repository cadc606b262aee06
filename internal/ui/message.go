package ui

import (
	"github.com/Danpaek111/spotipy-playlist-generator/internal/tasks"
	tea "github.com/charmbracelet/bubbletea"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgProgressUpdate MsgKind = iota
	MsgBuildComplete
	MsgExportComplete
)

type buildResult struct {
	result *tasks.BuildResult
	err    error
}

type exportResult struct {
	path string
	err  error
}

// progressUpdateMsg is the constructor for [MsgProgressUpdate]
func progressUpdateMsg(update tasks.ProgressUpdate) Msg {
	return Msg{kind: MsgProgressUpdate, data: update}
}

// buildCompleteMsg is the constructor for [MsgBuildComplete]
func buildCompleteMsg(result *tasks.BuildResult, err error) Msg {
	return Msg{kind: MsgBuildComplete, data: buildResult{result, err}}
}

// exportCompleteMsg is the constructor for [MsgExportComplete]
func exportCompleteMsg(path string, err error) Msg {
	return Msg{kind: MsgExportComplete, data: exportResult{path, err}}
}
