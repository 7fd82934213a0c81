package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/wavecrate/cuedex/internal/shared"
)

// CacheStats prints entry counts for the catalog cache.
func (r *Runner) CacheStats(ctx context.Context, cmd *cli.Command) error {
	if r.cache == nil {
		return fmt.Errorf("%w: cache not initialized", shared.ErrServiceUnavailable)
	}

	stats, err := r.cache.Stats()
	if err != nil {
		return fmt.Errorf("failed to read cache stats: %w", err)
	}

	r.writePlainHeader("Catalog Cache")
	r.writePlain("Entries: %d\n", stats.Entries)
	r.writePlain("Expired: %d\n", stats.Expired)
	if !stats.Oldest.IsZero() {
		r.writePlain("Oldest:  %s\n", stats.Oldest.Format("2006-01-02 15:04:05"))
	}
	return nil
}

// CachePurge deletes expired cache entries.
func (r *Runner) CachePurge(ctx context.Context, cmd *cli.Command) error {
	if r.cache == nil {
		return fmt.Errorf("%w: cache not initialized", shared.ErrServiceUnavailable)
	}

	removed, err := r.cache.PurgeExpired()
	if err != nil {
		return fmt.Errorf("failed to purge cache: %w", err)
	}

	r.logger.Info("cache purged", "removed", removed)
	r.writePlain("✓ Removed %d expired entries\n", removed)
	return nil
}

// CacheClear deletes every cache entry.
func (r *Runner) CacheClear(ctx context.Context, cmd *cli.Command) error {
	if r.cache == nil {
		return fmt.Errorf("%w: cache not initialized", shared.ErrServiceUnavailable)
	}

	removed, err := r.cache.Clear()
	if err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}

	r.logger.Info("cache cleared", "removed", removed)
	r.writePlain("✓ Removed %d entries\n", removed)
	return nil
}
