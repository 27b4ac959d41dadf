package geocode

import (
	"context"
	"errors"
	"fmt"
	"storefront-delivery-service/internal/domain"
	"storefront-delivery-service/internal/platform/obs"
	"storefront-delivery-service/internal/ports"
	"strings"
	"unicode/utf8"
)

// CachingGeocoder checks a persistent cache before delegating to the
// wrapped geocoder and stores fresh non-empty results. Cache failures are
// logged and never fail a search.
type CachingGeocoder struct {
	inner ports.Geocoder
	cache ports.GeocodeCache
}

func NewCachingGeocoder(inner ports.Geocoder, cache ports.GeocodeCache) (*CachingGeocoder, error) {
	if inner == nil {
		return nil, errors.New("caching geocoder: inner geocoder is nil")
	}
	return &CachingGeocoder{inner: inner, cache: cache}, nil
}

// CacheKey builds the normalized cache key for a query and result limit.
func CacheKey(query string, maxResults int) string {
	return fmt.Sprintf("%s|%d", strings.ToLower(normalize(query)), maxResults)
}

func (g *CachingGeocoder) Search(
	ctx context.Context,
	query string,
	maxResults int,
	minChars int,
) ([]domain.AddressCandidate, error) {
	norm := normalize(query)
	if norm == "" || utf8.RuneCountInString(norm) < minChars {
		return []domain.AddressCandidate{}, nil
	}

	key := CacheKey(norm, maxResults)
	log := obs.FromContext(ctx)

	if g.cache != nil {
		hit, ok, err := g.cache.Get(ctx, key)
		switch {
		case err != nil:
			obs.GeocodeCacheLookups.WithLabelValues("error").Inc()
			log.WithError(err).Warn("geocode cache read failed")
		case ok:
			obs.GeocodeCacheLookups.WithLabelValues("hit").Inc()
			return hit, nil
		default:
			obs.GeocodeCacheLookups.WithLabelValues("miss").Inc()
		}
	}

	fresh, err := g.inner.Search(ctx, norm, maxResults, minChars)
	if err != nil {
		return nil, err
	}

	if g.cache != nil && len(fresh) > 0 {
		if err := g.cache.Put(ctx, key, fresh); err != nil {
			log.WithError(err).Warn("geocode cache write failed")
		}
	}

	return fresh, nil
}
