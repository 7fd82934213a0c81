package tasks

import (
	"time"

	"github.com/wavecrate/cuedex/internal/models"
)

// progressInterval throttles intermediate progress updates. The final update
// is always sent regardless of the interval.
const progressInterval = 250 * time.Millisecond

func resolvingUpdate(runID string, total, completed, matched int, current string, elapsed time.Duration) models.ProgressInfo {
	return models.ProgressInfo{
		RunID:           runID,
		TotalTracks:     total,
		CompletedTracks: completed,
		MatchedCount:    matched,
		UnmatchedCount:  completed - matched,
		CurrentTrack:    current,
		Elapsed:         elapsed,
	}
}

func finalUpdate(runID string, total, completed, matched int, elapsed time.Duration) models.ProgressInfo {
	return models.ProgressInfo{
		RunID:           runID,
		TotalTracks:     total,
		CompletedTracks: completed,
		MatchedCount:    matched,
		UnmatchedCount:  completed - matched,
		Elapsed:         elapsed,
		Final:           true,
	}
}
