package tasks

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/wavecrate/cuedex/internal/mix"
	"github.com/wavecrate/cuedex/internal/models"
	"github.com/wavecrate/cuedex/internal/query"
	"github.com/wavecrate/cuedex/internal/score"
	"github.com/wavecrate/cuedex/internal/services"
)

// matcherState enumerates the resolution states for one track.
type matcherState int

const (
	stateInit matcherState = iota
	stateQuerying
	stateScoring
	stateDone
)

// matcher resolves one track: it issues queries in plan order, scores every
// fetched candidate, and stops on early exit, budget expiry or query
// exhaustion. One matcher serves one resolve call and is not reused.
type matcher struct {
	searcher   services.Searcher
	fetcher    services.Fetcher
	scorer     *score.Scorer
	minAccept  int
	maxResults int
	logger     *log.Logger
}

// resolve drives the state machine to completion. Given identical collaborator
// responses the outcome is fully deterministic, tie-breaks included.
//
// The context carries both the per-track budget and the global cancellation;
// either expiring terminates the run with the best candidate found so far.
func (m *matcher) resolve(ctx context.Context, q models.TrackQuery) *models.TrackResult {
	result := &models.TrackResult{
		Index:          q.Index,
		Query:          q,
		LastQueryIndex: -1,
	}

	queries := query.Generate(q)

	queryMix := q.Mix
	if queryMix == nil {
		queryMix = mix.Parse(q.Title)
	}

	bestIdx := -1 // into result.Candidates
	seen := make(map[string]bool)
	qi := 0
	var urls []string

	state := stateInit
	for state != stateDone {
		switch state {
		case stateInit:
			if len(queries) == 0 {
				state = stateDone
				continue
			}
			state = stateQuerying

		case stateQuerying:
			if qi >= len(queries) || ctx.Err() != nil {
				state = stateDone
				continue
			}
			urls = m.runQuery(ctx, result, qi, queries[qi])
			state = stateScoring

		case stateScoring:
			earlyExit := m.scoreCandidates(ctx, result, q, queryMix, qi, urls, seen, &bestIdx)
			if earlyExit || result.Err != "" {
				state = stateDone
				continue
			}
			qi++
			state = stateQuerying
		}
	}

	if bestIdx >= 0 && result.Candidates[bestIdx].Score >= m.minAccept {
		result.Candidates[bestIdx].IsWinner = true
		result.Best = &result.Candidates[bestIdx]
	}
	return result
}

// runQuery issues one search and records its audit entry. A transient search
// failure contributes zero candidates and never aborts the track.
func (m *matcher) runQuery(ctx context.Context, result *models.TrackResult, qi int, text string) []string {
	result.LastQueryIndex = qi
	start := time.Now()

	urls, err := m.search(ctx, text)
	if err != nil {
		m.logger.Debug("search failed", "query", text, "error", err)
		urls = nil
	}

	result.Audits = append(result.Audits, models.QueryAudit{
		Query:           text,
		QueryIndex:      qi,
		CandidatesFound: len(urls),
		ElapsedMS:       time.Since(start).Milliseconds(),
	})
	return urls
}

// scoreCandidates fetches and scores one query's candidate URLs, updating the
// best-so-far index. Returns true when the current best satisfies the
// early-exit predicate: accept-threshold score, guard-clean, and a mix shape
// compatible with the input's intent.
func (m *matcher) scoreCandidates(ctx context.Context, result *models.TrackResult, q models.TrackQuery, queryMix *models.MixDescriptor, qi int, urls []string, seen map[string]bool, bestIdx *int) bool {
	for ci, candidateURL := range urls {
		if ctx.Err() != nil {
			return false
		}
		if seen[candidateURL] {
			continue
		}

		start := time.Now()
		fields, err := m.fetch(ctx, candidateURL)
		if err != nil {
			// Not marked as seen: a later query may retry this URL.
			m.logger.Debug("fetch failed", "url", candidateURL, "error", err)
			continue
		}
		seen[candidateURL] = true

		cand, err := m.scorer.Score(q, *fields, qi, ci, time.Since(start).Milliseconds())
		if err != nil {
			// Construction invariant violated; fail this track, not the batch.
			result.Err = err.Error()
			return false
		}

		result.Candidates = append(result.Candidates, cand)
		if betterCandidate(cand, result.Candidates, *bestIdx) {
			*bestIdx = len(result.Candidates) - 1
		}

		if *bestIdx >= 0 {
			best := result.Candidates[*bestIdx]
			if best.Score >= m.minAccept && best.GuardOK && score.MixCompatible(queryMix, mix.Parse(best.Title)) {
				return true
			}
		}
	}
	return false
}

// betterCandidate reports whether cand beats the current best. Guard-rejected
// candidates never qualify; ties break toward the lower query index, then the
// lower candidate index.
func betterCandidate(cand models.Candidate, candidates []models.Candidate, bestIdx int) bool {
	if !cand.GuardOK {
		return false
	}
	if bestIdx < 0 {
		return true
	}
	best := candidates[bestIdx]
	if cand.Score != best.Score {
		return cand.Score > best.Score
	}
	if cand.QueryIndex != best.QueryIndex {
		return cand.QueryIndex < best.QueryIndex
	}
	return cand.CandidateIndex < best.CandidateIndex
}

// search races the collaborator call against the context so a hung search
// cannot outlive the track budget. The abandoned call's reply is discarded.
func (m *matcher) search(ctx context.Context, text string) ([]string, error) {
	type reply struct {
		urls []string
		err  error
	}
	ch := make(chan reply, 1)
	go func() {
		urls, err := m.searcher.Search(ctx, text, m.maxResults)
		ch <- reply{urls, err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		return r.urls, r.err
	}
}

// fetch races the collaborator call against the context, like search.
func (m *matcher) fetch(ctx context.Context, url string) (*models.ReleaseFields, error) {
	type reply struct {
		fields *models.ReleaseFields
		err    error
	}
	ch := make(chan reply, 1)
	go func() {
		fields, err := m.fetcher.Fetch(ctx, url)
		ch <- reply{fields, err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		return r.fields, r.err
	}
}
