package ports

import (
	"context"
	"storefront-delivery-service/internal/domain"
)

// Contract for turning free-text addresses into candidate coordinates.
type Geocoder interface {
	// Search returns at most maxResults candidates for query. Queries with
	// fewer than minChars characters yield an empty result without any
	// outbound call.
	Search(ctx context.Context, query string, maxResults int, minChars int) ([]domain.AddressCandidate, error)
}

// Port: persistent storage for search results keyed by a normalized query.
type GeocodeCache interface {
	Get(ctx context.Context, key string) ([]domain.AddressCandidate, bool, error)
	Put(ctx context.Context, key string, candidates []domain.AddressCandidate) error
}
