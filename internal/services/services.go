package services

import (
	"context"
	"time"

	"github.com/wavecrate/cuedex/internal/models"
)

// Searcher issues one search query against the catalog and returns candidate
// track URLs in result-page order, truncated to maxResults.
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]string, error)
}

// Fetcher retrieves one catalog track page and extracts its release fields.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*models.ReleaseFields, error)
}

// Cache is the subset of the cache repository the catalog clients need.
type Cache interface {
	Get(key string) (string, bool)
	Set(key, value string, ttl time.Duration) error
}
