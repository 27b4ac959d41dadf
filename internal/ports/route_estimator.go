package ports

import (
	"context"
	"storefront-delivery-service/internal/domain"
)

// Contract for retrieving travel time between the store and a destination.
type RouteEstimator interface {
	// Estimate returns the travel duration in whole minutes, rounded up.
	Estimate(ctx context.Context, from domain.Coordinates, to domain.Coordinates) (int, error)
}

// Locator reports the device's current position.
type Locator interface {
	Locate(ctx context.Context) (domain.Coordinates, error)
}
