package repositories

import (
	"database/sql"
	"fmt"
	"time"
)

// CacheRepository stores string values under opaque keys with an expiry.
// It implements the Cache interface consumed by the catalog collaborators.
type CacheRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewCacheRepository creates a new CacheRepository with the given database connection
func NewCacheRepository(db *sql.DB) *CacheRepository {
	return &CacheRepository{db: db, now: time.Now}
}

// Migrate creates the cache schema if it does not exist.
func (r *CacheRepository) Migrate() error {
	query := `
		CREATE TABLE IF NOT EXISTS catalog_cache (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			expires_at INTEGER NOT NULL,
			created_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_catalog_cache_expiry ON catalog_cache(expires_at);
	`
	if _, err := r.db.Exec(query); err != nil {
		return fmt.Errorf("failed to create cache schema: %w", err)
	}
	return nil
}

// Get retrieves a cached value. Expired entries are treated as absent.
func (r *CacheRepository) Get(key string) (string, bool) {
	var value string
	var expiresAt int64
	err := r.db.QueryRow(
		"SELECT value, expires_at FROM catalog_cache WHERE key = ?", key,
	).Scan(&value, &expiresAt)
	if err != nil {
		return "", false
	}
	if r.now().Unix() >= expiresAt {
		return "", false
	}
	return value, true
}

// Set stores a value under key for ttl. An existing entry is overwritten
// (last writer wins).
func (r *CacheRepository) Set(key, value string, ttl time.Duration) error {
	now := r.now()
	_, err := r.db.Exec(
		"INSERT OR REPLACE INTO catalog_cache (key, value, expires_at, created_at) VALUES (?, ?, ?, ?)",
		key, value, now.Add(ttl).Unix(), now.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}

// PurgeExpired deletes entries past their expiry and returns how many were removed.
func (r *CacheRepository) PurgeExpired() (int64, error) {
	res, err := r.db.Exec("DELETE FROM catalog_cache WHERE expires_at <= ?", r.now().Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to purge cache: %w", err)
	}
	return res.RowsAffected()
}

// Clear removes every cache entry and returns how many were removed.
func (r *CacheRepository) Clear() (int64, error) {
	res, err := r.db.Exec("DELETE FROM catalog_cache")
	if err != nil {
		return 0, fmt.Errorf("failed to clear cache: %w", err)
	}
	return res.RowsAffected()
}

// CacheStats summarizes the cache contents for the CLI.
type CacheStats struct {
	Entries int64
	Expired int64
	Oldest  time.Time
}

// Stats reports entry counts and the oldest entry's creation time.
func (r *CacheRepository) Stats() (CacheStats, error) {
	var stats CacheStats
	now := r.now().Unix()

	err := r.db.QueryRow("SELECT COUNT(*) FROM catalog_cache").Scan(&stats.Entries)
	if err != nil {
		return stats, fmt.Errorf("failed to count cache entries: %w", err)
	}
	err = r.db.QueryRow("SELECT COUNT(*) FROM catalog_cache WHERE expires_at <= ?", now).Scan(&stats.Expired)
	if err != nil {
		return stats, fmt.Errorf("failed to count expired entries: %w", err)
	}

	var oldest sql.NullInt64
	err = r.db.QueryRow("SELECT MIN(created_at) FROM catalog_cache").Scan(&oldest)
	if err != nil {
		return stats, fmt.Errorf("failed to read oldest entry: %w", err)
	}
	if oldest.Valid {
		stats.Oldest = time.Unix(oldest.Int64, 0)
	}
	return stats, nil
}
