package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/wavecrate/cuedex/internal/models"
)

var (
	_ list.Item = queryItem{}
	_ list.Item = matchItem{}
)

// queryItem wraps [models.TrackQuery] to implement [list.Item].
type queryItem struct {
	query models.TrackQuery
}

func (i queryItem) FilterValue() string { return i.query.Title }
func (i queryItem) Title() string       { return i.query.Title }
func (i queryItem) Description() string {
	desc := i.query.Artist
	if desc == "" {
		desc = "(title only)"
	}
	if i.query.YearHint != 0 {
		desc = fmt.Sprintf("%s • %d", desc, i.query.YearHint)
	}
	if i.query.KeyHint != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.query.KeyHint)
	}
	return desc
}

// matchItem wraps one resolved [models.TrackResult] to implement [list.Item].
type matchItem struct {
	result models.TrackResult
}

func (i matchItem) FilterValue() string { return i.result.Query.Title }

func (i matchItem) Title() string {
	if i.result.Best == nil {
		return fmt.Sprintf("✗ %s", i.result.Query.Title)
	}
	return fmt.Sprintf("✓ %s", i.result.Best.Title)
}

func (i matchItem) Description() string {
	best := i.result.Best
	if best == nil {
		return fmt.Sprintf("no match (%d candidates considered)", len(i.result.Candidates))
	}
	desc := best.Artists
	if best.Key != "" {
		desc = fmt.Sprintf("%s • %s", desc, best.Key)
	}
	if best.BPM != 0 {
		desc = fmt.Sprintf("%s • %d BPM", desc, best.BPM)
	}
	return fmt.Sprintf("%s • score %d", desc, best.Score)
}
