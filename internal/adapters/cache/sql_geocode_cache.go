package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"storefront-delivery-service/internal/domain"
	"storefront-delivery-service/internal/platform/obs"
	"strings"
	"time"
)

// SQLGeocodeCache is a Postgres-backed cache mapping normalized search keys
// to the candidate list the geocoder returned for them.
type SQLGeocodeCache struct {
	DB  *sql.DB
	TTL time.Duration
	now func() time.Time
}

func NewSQLGeocodeCache(db *sql.DB, ttl time.Duration) *SQLGeocodeCache {
	return &SQLGeocodeCache{DB: db, TTL: ttl, now: time.Now}
}

// Get returns the cached candidates for key. Entries older than TTL are
// reported as a miss.
func (s *SQLGeocodeCache) Get(
	ctx context.Context,
	key string,
) (_ []domain.AddressCandidate, _ bool, err error) {
	defer obs.Time(ctx, "geocode.cache.Get")(&err)

	if s.DB == nil {
		return nil, false, errors.New("geocode cache: db is nil")
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return nil, false, nil
	}

	q := `
	SELECT candidates, updated_at
	FROM geocode_cache
	WHERE query_key = $1;
	`

	var raw []byte
	var updatedAt time.Time
	err = s.DB.QueryRowContext(ctx, q, key).Scan(&raw, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get geocode cache: query geocode_cache table: %w", err)
	}

	if s.TTL > 0 && s.now().Sub(updatedAt) > s.TTL {
		return nil, false, nil
	}

	var out []domain.AddressCandidate
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, false, fmt.Errorf("get geocode cache: decode candidates: %w", err)
	}

	return out, true, nil
}

// Put stores candidates under key, replacing any previous entry.
func (s *SQLGeocodeCache) Put(ctx context.Context, key string, candidates []domain.AddressCandidate) error {
	if s.DB == nil {
		return errors.New("geocode cache: db is nil")
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("insert geocode cache: empty query key")
	}

	raw, err := json.Marshal(candidates)
	if err != nil {
		return fmt.Errorf("insert geocode cache: encode candidates: %w", err)
	}

	q := `
	INSERT INTO geocode_cache (query_key, candidates, updated_at)
	VALUES ($1, $2, $3)
	ON CONFLICT (query_key) DO UPDATE
	SET candidates = EXCLUDED.candidates,
		updated_at = EXCLUDED.updated_at;
	`
	if _, err := s.DB.ExecContext(ctx, q, key, raw, s.now().UTC()); err != nil {
		return fmt.Errorf("insert geocode cache key=%q: %w", key, err)
	}

	return nil
}
