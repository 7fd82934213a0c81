package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/wavecrate/cuedex/internal/formatter"
	"github.com/wavecrate/cuedex/internal/models"
	"github.com/wavecrate/cuedex/internal/shared"
)

// ResolveTrack resolves a single track and prints the outcome.
func (r *Runner) ResolveTrack(ctx context.Context, cmd *cli.Command) error {
	q := models.TrackQuery{
		Title:     cmd.String("title"),
		Artist:    cmd.String("artist"),
		TitleOnly: cmd.Bool("title-only"),
		YearHint:  int(cmd.Int("year")),
		KeyHint:   cmd.String("key"),
	}

	r.logger.Info("resolving track", "title", q.Title, "artist", q.Artist)

	result, err := r.engine.ResolveTrack(ctx, q)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(result, cmd.Bool("pretty"))
	}

	if !result.Matched() {
		r.writePlain("✗ No match (%d candidates across %d queries)\n", len(result.Candidates), len(result.Audits))
		return nil
	}

	best := result.Best
	r.writePlain("✓ %s - %s\n", best.Artists, best.Title)
	r.writePlain("  %s\n", best.URL)
	if best.Key != "" {
		r.writePlain("  Key: %s\n", best.Key)
	}
	if best.BPM != 0 {
		r.writePlain("  BPM: %d\n", best.BPM)
	}
	if best.Label != "" {
		r.writePlain("  Label: %s\n", best.Label)
	}
	if best.ReleaseDate != "" {
		r.writePlain("  Released: %s\n", best.ReleaseDate)
	}
	r.writePlain("  Score: %d (%d candidates considered)\n", best.Score, len(result.Candidates))

	if cmd.Bool("open") {
		if err := shared.OpenBrowser(best.URL); err != nil {
			r.logger.Warn("failed to open browser", "error", err)
		}
	}
	return nil
}

// ResolvePlaylist resolves a playlist file and prints or writes the results.
func (r *Runner) ResolvePlaylist(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("file")
	if path == "" {
		return fmt.Errorf("%w: playlist file path", shared.ErrMissingArgument)
	}

	queries, err := formatter.ParsePlaylistFile(path)
	if err != nil {
		return err
	}

	r.logger.Info("starting playlist resolution", "file", path, "tracks", len(queries))
	r.writePlain("Resolving %d tracks...\n\n", len(queries))

	progressCh := make(chan models.ProgressInfo, 50)
	go func() {
		for info := range progressCh {
			if info.Final {
				continue
			}
			r.writePlain("  [%d/%d] %s\n", info.CompletedTracks, info.TotalTracks, info.CurrentTrack)
		}
	}()

	results, err := r.engine.ResolvePlaylist(ctx, queries, progressCh)
	close(progressCh)

	if err != nil {
		return err
	}

	matched := 0
	for _, res := range results {
		if res.Matched() {
			matched++
		}
	}

	r.writePlain("\n")
	r.writePlainHeader("Resolution Complete")
	r.writePlain("Matched: %d/%d tracks\n", matched, len(results))

	if matched < len(results) {
		r.writePlain("\nUnmatched:\n")
		for _, res := range results {
			if res.Matched() {
				continue
			}
			label := res.Query.Title
			if res.Query.Artist != "" {
				label = res.Query.Artist + " - " + label
			}
			r.writePlain("  - %s\n", label)
		}
	}

	if output := cmd.String("output"); output != "" {
		if err := formatter.WriteResults(results, cmd.String("format"), output); err != nil {
			return err
		}
		r.writePlain("\nResults written to %s\n", output)
	}
	return nil
}
