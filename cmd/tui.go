package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/wavecrate/cuedex/internal/formatter"
	"github.com/wavecrate/cuedex/internal/shared"
	"github.com/wavecrate/cuedex/internal/ui"
)

// TUI launches the interactive terminal UI for playlist resolution.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if r.engine == nil {
		return fmt.Errorf("%w: resolution engine not initialized", shared.ErrServiceUnavailable)
	}

	path := cmd.StringArg("file")
	if path == "" {
		return fmt.Errorf("%w: playlist file path", shared.ErrMissingArgument)
	}

	queries, err := formatter.ParsePlaylistFile(path)
	if err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/cuedex-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	model := ui.NewModel(ctx, r.engine, queries)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
