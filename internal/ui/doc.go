// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for playlist resolution:
//  1. [TrackListView] : Review the parsed playlist entries
//  2. [ConfirmView] : Confirm the resolution run
//  3. [ResolveView] : Monitor real-time progress updates
//  4. [ResultView] : Browse matched releases and the unmatched remainder
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Progress updates flow through a channel from the resolution Engine, providing non-blocking status reporting during a run.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
