// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI replaces the command line prompts with a three-view workflow:
//  1. [InputView] : Enter comma-separated artists and a playlist size
//  2. [BuildView] : Monitor real-time progress updates while the playlist is sampled
//  3. [ResultView] : Browse the playlist and save it to the configured export file
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Progress updates flow through a channel from the [tasks.Generator], providing non-blocking status reporting during builds.
//
// Keyboard navigation uses vim-style bindings (j/k, tab, enter, esc, s, r, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
