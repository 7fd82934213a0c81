package tasks

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/wavecrate/cuedex/internal/models"
	"github.com/wavecrate/cuedex/internal/score"
	"github.com/wavecrate/cuedex/internal/services"
	"github.com/wavecrate/cuedex/internal/shared"
)

// Resolver defines the track-resolution operations exposed to the CLI and UI.
type Resolver interface {
	// ResolveTrack resolves a single playlist entry under the per-track budget.
	ResolveTrack(ctx context.Context, q models.TrackQuery) (*models.TrackResult, error)

	// ResolvePlaylist resolves every entry concurrently. Results are ordered
	// identically to the input regardless of completion order.
	ResolvePlaylist(ctx context.Context, queries []models.TrackQuery, progress chan<- models.ProgressInfo) ([]models.TrackResult, error)
}

// Engine implements Resolver. Contains dependencies on the catalog
// collaborators and the scorer; all shared state (cache, rate limiter) lives
// behind those collaborators.
type Engine struct {
	searcher services.Searcher
	fetcher  services.Fetcher
	scorer   *score.Scorer
	cfg      shared.ResolverConfig
	logger   *log.Logger
}

// NewEngine creates a new Engine with the provided collaborators.
func NewEngine(searcher services.Searcher, fetcher services.Fetcher, scorer *score.Scorer, cfg shared.ResolverConfig, logger *log.Logger) *Engine {
	return &Engine{
		searcher: searcher,
		fetcher:  fetcher,
		scorer:   scorer,
		cfg:      cfg,
		logger:   logger,
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *Engine) sendProgress(progress chan<- models.ProgressInfo, info models.ProgressInfo) {
	if progress == nil {
		return
	}
	select {
	case progress <- info:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

// sendFinal delivers the final update with a blocking send. It runs after
// every worker has drained, so blocking cannot stall track work; a cancelled
// context still unblocks it.
func (e *Engine) sendFinal(ctx context.Context, progress chan<- models.ProgressInfo, info models.ProgressInfo) {
	if progress == nil {
		return
	}
	select {
	case progress <- info:
	case <-ctx.Done():
	}
}

// ResolveTrack resolves a single track. Budget expiry is a normal outcome:
// the result then carries the best candidate found so far. The returned
// result is owned exclusively by the caller.
func (e *Engine) ResolveTrack(ctx context.Context, q models.TrackQuery) (*models.TrackResult, error) {
	if e.searcher == nil || e.fetcher == nil {
		return nil, fmt.Errorf("%w: catalog collaborators not initialized", shared.ErrServiceUnavailable)
	}

	trackCtx, cancel := context.WithTimeout(ctx, e.cfg.PerTrackBudget())
	defer cancel()

	m := &matcher{
		searcher:   e.searcher,
		fetcher:    e.fetcher,
		scorer:     e.scorer,
		minAccept:  e.cfg.MinAcceptScore,
		maxResults: e.cfg.MaxSearchResults,
		logger:     e.logger,
	}
	return m.resolve(trackCtx, q), nil
}
