package tasks

import (
	"context"
	"sync"
	"time"

	"github.com/wavecrate/cuedex/internal/models"
	"github.com/wavecrate/cuedex/internal/shared"
)

// trackJob pairs a query with its position in the input slice.
type trackJob struct {
	pos   int
	query models.TrackQuery
}

// trackDone carries one finished track back to the aggregator.
type trackDone struct {
	pos    int
	result models.TrackResult
}

// ResolvePlaylist resolves every entry through a bounded worker pool.
//
// The result slice is index-aligned to the input regardless of completion
// order. Cancelling the context stops new track work; tracks already running
// terminate with their best-so-far. A playlist run always completes with
// partial results even when individual tracks exhaust their budget or hit
// repeated transient failures.
func (e *Engine) ResolvePlaylist(ctx context.Context, queries []models.TrackQuery, progress chan<- models.ProgressInfo) ([]models.TrackResult, error) {
	if e.searcher == nil || e.fetcher == nil {
		return nil, shared.ErrServiceUnavailable
	}
	if len(queries) == 0 {
		return nil, shared.ErrEmptyPlaylist
	}

	workers := e.cfg.WorkerCount
	if workers <= 0 {
		workers = 4
	}
	if workers > len(queries) {
		workers = len(queries)
	}

	runID := shared.GenerateID()
	start := time.Now()
	e.logger.Info("resolving playlist", "run_id", runID, "tracks", len(queries), "workers", workers)

	jobs := make(chan trackJob, len(queries))
	done := make(chan trackDone, len(queries))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go e.resolveWorker(ctx, &wg, jobs, done)
	}

	for i, q := range queries {
		jobs <- trackJob{pos: i, query: q}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(done)
	}()

	// Single aggregator: progress counters are only touched here, so no
	// update can be lost to a concurrent writer.
	results := make([]models.TrackResult, len(queries))
	completed, matched := 0, 0
	var lastSent time.Time

	for d := range done {
		results[d.pos] = d.result
		completed++
		if d.result.Matched() {
			matched++
		}

		if time.Since(lastSent) >= progressInterval {
			e.sendProgress(progress, resolvingUpdate(runID, len(queries), completed, matched, trackLabel(d.result.Query), time.Since(start)))
			lastSent = time.Now()
		}
	}

	e.sendFinal(ctx, progress, finalUpdate(runID, len(queries), completed, matched, time.Since(start)))
	e.logger.Info("playlist resolved",
		"run_id", runID,
		"matched", matched,
		"unmatched", completed-matched,
		"elapsed", time.Since(start))
	return results, nil
}

// resolveWorker runs matcher jobs until the jobs channel drains. After a
// global cancel, remaining jobs yield empty no-query results so the output
// stays index-aligned.
func (e *Engine) resolveWorker(ctx context.Context, wg *sync.WaitGroup, jobs <-chan trackJob, done chan<- trackDone) {
	defer wg.Done()

	for job := range jobs {
		if ctx.Err() != nil {
			done <- trackDone{
				pos: job.pos,
				result: models.TrackResult{
					Index:          job.query.Index,
					Query:          job.query,
					LastQueryIndex: -1,
				},
			}
			continue
		}

		res, err := e.ResolveTrack(ctx, job.query)
		if err != nil || res == nil {
			res = &models.TrackResult{
				Index:          job.query.Index,
				Query:          job.query,
				LastQueryIndex: -1,
			}
			if err != nil {
				res.Err = err.Error()
			}
		}
		done <- trackDone{pos: job.pos, result: *res}
	}
}

// trackLabel renders a query for progress display.
func trackLabel(q models.TrackQuery) string {
	if q.Artist == "" {
		return q.Title
	}
	return q.Artist + " - " + q.Title
}
