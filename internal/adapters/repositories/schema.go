package repositories

import (
	"database/sql"
	"errors"
	"fmt"
)

// InitSchema creates the Postgres tables used by the geocode cache.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createGeocodeCacheQuery := `
	CREATE TABLE IF NOT EXISTS geocode_cache (
		query_key TEXT PRIMARY KEY,
		candidates JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_geocode_cache_updated_at
	ON geocode_cache(updated_at);
	`

	statements := []string{
		createGeocodeCacheQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// PurgeGeocodeCache removes cache rows last written before the cutoff
// interval (a Postgres interval string such as "168 hours").
func PurgeGeocodeCache(db *sql.DB, olderThan string) (int64, error) {
	if db == nil {
		return 0, errors.New("purge geocode cache: DB is nil")
	}

	res, err := db.Exec(`DELETE FROM geocode_cache WHERE updated_at < now() - $1::interval;`, olderThan)
	if err != nil {
		return 0, fmt.Errorf("purge geocode cache: delete: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge geocode cache: rows affected: %w", err)
	}
	return n, nil
}
