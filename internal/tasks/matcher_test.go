package tasks

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/wavecrate/cuedex/internal/models"
	"github.com/wavecrate/cuedex/internal/query"
	"github.com/wavecrate/cuedex/internal/score"
	"github.com/wavecrate/cuedex/internal/shared"
	testutil "github.com/wavecrate/cuedex/internal/testing"
)

func testConfig() shared.ResolverConfig {
	return shared.ResolverConfig{
		WorkerCount:           2,
		PerTrackBudgetSeconds: 10,
		MinAcceptScore:        88,
		MaxSearchResults:      40,
	}
}

func testEngine(searcher *testutil.MockSearcher, fetcher *testutil.MockFetcher, cfg shared.ResolverConfig) *Engine {
	return NewEngine(searcher, fetcher, score.New(score.DefaultConfig()), cfg, shared.NewLogger(io.Discard))
}

// flakyFetcher fails its first n calls, then serves fields for any URL.
type flakyFetcher struct {
	mu       sync.Mutex
	failures int
	fields   models.ReleaseFields
	calls    int
}

func (f *flakyFetcher) Fetch(ctx context.Context, url string) (*models.ReleaseFields, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.calls <= f.failures {
		return nil, shared.ErrFetchFailed
	}
	fields := f.fields
	fields.URL = url
	return &fields, nil
}

func TestResolveTrack(t *testing.T) {
	t.Run("early exit issues exactly one query", func(t *testing.T) {
		q := models.TrackQuery{
			Title:    "Never Sleep Again",
			Artist:   "Tim Green",
			YearHint: 2019,
			KeyHint:  "8A",
		}
		firstQuery := query.Generate(q)[0]

		searcher := &testutil.MockSearcher{
			Results: map[string][]string{firstQuery: {"https://catalog/t/1"}},
		}
		fetcher := &testutil.MockFetcher{
			Pages: map[string]models.ReleaseFields{
				"https://catalog/t/1": {
					URL:     "https://catalog/t/1",
					Title:   "Never Sleep Again (Original Mix)",
					Artists: "Tim Green",
					Year:    2019,
					Key:     "8A",
				},
			},
		}
		engine := testEngine(searcher, fetcher, testConfig())

		result, err := engine.ResolveTrack(context.Background(), q)
		if err != nil {
			t.Fatalf("resolve failed: %v", err)
		}

		if !result.Matched() {
			t.Fatal("expected a winner")
		}
		if !result.Best.IsWinner {
			t.Error("best candidate should carry the winner flag")
		}
		if result.Best.URL != "https://catalog/t/1" {
			t.Errorf("winner url = %q", result.Best.URL)
		}
		if got := len(searcher.Searches()); got != 1 {
			t.Errorf("issued %d queries, want 1", got)
		}
		if result.LastQueryIndex != 0 {
			t.Errorf("last query index = %d, want 0", result.LastQueryIndex)
		}
		if len(result.Audits) != 1 {
			t.Errorf("got %d audits, want 1", len(result.Audits))
		}
	})

	t.Run("guard rejected candidate is never the winner", func(t *testing.T) {
		q := models.TrackQuery{Title: "Tension (Ivory Remix)", Artist: "Sylvan"}
		firstQuery := query.Generate(q)[0]

		searcher := &testutil.MockSearcher{
			Results: map[string][]string{firstQuery: {"https://catalog/t/7"}},
		}
		fetcher := &testutil.MockFetcher{
			Pages: map[string]models.ReleaseFields{
				"https://catalog/t/7": {
					URL:     "https://catalog/t/7",
					Title:   "Tension (Perc Remix)",
					Artists: "Sylvan",
				},
			},
		}
		engine := testEngine(searcher, fetcher, testConfig())

		result, err := engine.ResolveTrack(context.Background(), q)
		if err != nil {
			t.Fatalf("resolve failed: %v", err)
		}

		if result.Matched() {
			t.Fatal("guard-rejected candidate must not win")
		}
		if len(result.Candidates) != 1 {
			t.Fatalf("got %d candidates, want 1 in the audit trail", len(result.Candidates))
		}
		cand := result.Candidates[0]
		if cand.GuardOK {
			t.Error("candidate should be guard rejected")
		}
		if cand.RejectReason == "" {
			t.Error("guard rejection must carry a reason")
		}
		if cand.IsWinner {
			t.Error("guard-rejected candidate flagged as winner")
		}
	})

	t.Run("hanging fetch still returns within the budget", func(t *testing.T) {
		q := models.TrackQuery{Title: "Strobe", Artist: "deadmau5"}
		firstQuery := query.Generate(q)[0]

		searcher := &testutil.MockSearcher{
			Results: map[string][]string{firstQuery: {"https://catalog/t/1"}},
		}
		fetcher := &testutil.MockFetcher{Hang: true}

		cfg := testConfig()
		cfg.PerTrackBudgetSeconds = 1
		engine := testEngine(searcher, fetcher, cfg)

		start := time.Now()
		result, err := engine.ResolveTrack(context.Background(), q)
		elapsed := time.Since(start)

		if err != nil {
			t.Fatalf("resolve failed: %v", err)
		}
		if elapsed > 3*time.Second {
			t.Errorf("resolve took %v, budget is 1s", elapsed)
		}
		if result.Matched() {
			t.Error("no candidate could have been scored")
		}
		if len(result.Candidates) != 0 {
			t.Errorf("got %d candidates, want 0", len(result.Candidates))
		}
	})

	t.Run("empty title and artist yield an empty result without error", func(t *testing.T) {
		engine := testEngine(&testutil.MockSearcher{}, &testutil.MockFetcher{}, testConfig())

		result, err := engine.ResolveTrack(context.Background(), models.TrackQuery{})
		if err != nil {
			t.Fatalf("resolve failed: %v", err)
		}
		if result.Matched() {
			t.Error("expected no winner")
		}
		if len(result.Candidates) != 0 || len(result.Audits) != 0 {
			t.Error("expected no candidates and no audits")
		}
		if result.LastQueryIndex != -1 {
			t.Errorf("last query index = %d, want -1", result.LastQueryIndex)
		}
		if got := len(engine.searcher.(*testutil.MockSearcher).Searches()); got != 0 {
			t.Errorf("issued %d queries, want 0", got)
		}
	})

	t.Run("search failures are absorbed as zero-candidate audits", func(t *testing.T) {
		q := models.TrackQuery{Title: "Opus", Artist: "Eric Prydz"}
		searcher := &testutil.MockSearcher{Err: shared.ErrSearchFailed}
		engine := testEngine(searcher, &testutil.MockFetcher{}, testConfig())

		result, err := engine.ResolveTrack(context.Background(), q)
		if err != nil {
			t.Fatalf("resolve failed: %v", err)
		}
		if result.Matched() {
			t.Error("expected no winner")
		}
		if result.Err != "" {
			t.Errorf("transient failures must not set Err, got %q", result.Err)
		}
		if len(result.Audits) != len(query.Generate(q)) {
			t.Errorf("got %d audits, want one per planned query (%d)", len(result.Audits), len(query.Generate(q)))
		}
		for _, audit := range result.Audits {
			if audit.CandidatesFound != 0 {
				t.Errorf("query %q reported %d candidates, want 0", audit.Query, audit.CandidatesFound)
			}
		}
	})

	t.Run("equal scores keep the earlier candidate", func(t *testing.T) {
		q := models.TrackQuery{Title: "Never Sleep Again", Artist: "Tim Green"}
		firstQuery := query.Generate(q)[0]

		fields := models.ReleaseFields{
			Title:   "Never Sleep Again (Original Mix)",
			Artists: "Tim Green",
		}
		first, second := fields, fields
		first.URL = "https://catalog/t/1"
		second.URL = "https://catalog/t/2"

		searcher := &testutil.MockSearcher{
			Results: map[string][]string{firstQuery: {first.URL, second.URL}},
		}
		fetcher := &testutil.MockFetcher{
			Pages: map[string]models.ReleaseFields{first.URL: first, second.URL: second},
		}
		engine := testEngine(searcher, fetcher, testConfig())

		result, err := engine.ResolveTrack(context.Background(), q)
		if err != nil {
			t.Fatalf("resolve failed: %v", err)
		}
		if !result.Matched() {
			t.Fatal("expected a winner")
		}
		if result.Best.URL != first.URL {
			t.Errorf("winner = %q, tie must break toward the earlier candidate", result.Best.URL)
		}
		if result.Best.CandidateIndex != 0 {
			t.Errorf("winner candidate index = %d, want 0", result.Best.CandidateIndex)
		}
	})

	t.Run("duplicate urls across queries are fetched once", func(t *testing.T) {
		q := models.TrackQuery{Title: "Hyph Mngo", Artist: "Joy Orbison"}
		plan := query.Generate(q)
		if len(plan) < 2 {
			t.Fatalf("plan too short for this test: %d", len(plan))
		}

		// Same low-scoring URL from two consecutive queries.
		searcher := &testutil.MockSearcher{
			Results: map[string][]string{
				plan[0]: {"https://catalog/t/5"},
				plan[1]: {"https://catalog/t/5"},
			},
		}
		fetcher := &testutil.MockFetcher{
			Pages: map[string]models.ReleaseFields{
				"https://catalog/t/5": {URL: "https://catalog/t/5", Title: "Something Else Entirely", Artists: "Nobody"},
			},
		}
		engine := testEngine(searcher, fetcher, testConfig())

		if _, err := engine.ResolveTrack(context.Background(), q); err != nil {
			t.Fatalf("resolve failed: %v", err)
		}
		if got := len(fetcher.Fetches()); got != 1 {
			t.Errorf("fetched %d times, want 1", got)
		}
	})

	t.Run("failed fetch is retried when a later query returns the url", func(t *testing.T) {
		q := models.TrackQuery{Title: "Hyph Mngo", Artist: "Joy Orbison"}
		plan := query.Generate(q)
		if len(plan) < 2 {
			t.Fatalf("plan too short for this test: %d", len(plan))
		}

		searcher := &testutil.MockSearcher{
			Results: map[string][]string{
				plan[0]: {"https://catalog/t/5"},
				plan[1]: {"https://catalog/t/5"},
			},
		}
		fetcher := &flakyFetcher{
			failures: 1,
			fields:   models.ReleaseFields{Title: "Hyph Mngo", Artists: "Joy Orbison"},
		}
		engine := NewEngine(searcher, fetcher, score.New(score.DefaultConfig()), testConfig(), shared.NewLogger(io.Discard))

		result, err := engine.ResolveTrack(context.Background(), q)
		if err != nil {
			t.Fatalf("resolve failed: %v", err)
		}
		if !result.Matched() {
			t.Fatal("retry via the second query should produce a winner")
		}
		if result.Best.QueryIndex != 1 {
			t.Errorf("winner query index = %d, want 1", result.Best.QueryIndex)
		}
		if fetcher.calls != 2 {
			t.Errorf("fetched %d times, want 2", fetcher.calls)
		}
	})
}

func TestBetterCandidate(t *testing.T) {
	mk := func(score, qi, ci int, guardOK bool) models.Candidate {
		return models.Candidate{Score: score, QueryIndex: qi, CandidateIndex: ci, GuardOK: guardOK}
	}

	t.Run("guard rejected never qualifies", func(t *testing.T) {
		if betterCandidate(mk(200, 0, 0, false), nil, -1) {
			t.Error("guard-rejected candidate became best")
		}
	})

	t.Run("higher score wins", func(t *testing.T) {
		candidates := []models.Candidate{mk(50, 0, 0, true)}
		if !betterCandidate(mk(60, 1, 0, true), candidates, 0) {
			t.Error("higher score should replace best")
		}
		if betterCandidate(mk(40, 0, 0, true), candidates, 0) {
			t.Error("lower score should not replace best")
		}
	})

	t.Run("ties break by query index then candidate index", func(t *testing.T) {
		candidates := []models.Candidate{mk(50, 1, 1, true)}
		if !betterCandidate(mk(50, 0, 5, true), candidates, 0) {
			t.Error("lower query index should win the tie")
		}
		if !betterCandidate(mk(50, 1, 0, true), candidates, 0) {
			t.Error("lower candidate index should win the tie")
		}
		if betterCandidate(mk(50, 1, 2, true), candidates, 0) {
			t.Error("higher candidate index should lose the tie")
		}
	})
}
