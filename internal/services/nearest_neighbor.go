package services

import (
	"context"
	"errors"
	"math"
	"storefront-delivery-service/internal/delivery"
	"storefront-delivery-service/internal/domain"
	"storefront-delivery-service/internal/platform/obs"
	"storefront-delivery-service/internal/ports"
)

// PlanDeliveryRun orders the given stops with a greedy nearest-neighbor
// walk starting at start.
//
// Each step picks the closest remaining order by great-circle distance.
// It does not attempt global route optimization.
// Travel minutes per leg are looked up from estimator when one is given;
// a failed lookup leaves the leg without minutes and marks the run as
// incomplete instead of failing the plan.
func PlanDeliveryRun(
	ctx context.Context,
	start domain.Coordinates,
	orders []*domain.Order,
	estimator ports.RouteEstimator,
	returnToStart bool,
) (*domain.DeliveryRun, error) {
	if err := start.Validate(); err != nil {
		return nil, errors.New("plan delivery run: invalid start location")
	}

	run := &domain.DeliveryRun{
		Start:    start,
		Stops:    []domain.RunStop{},
		Complete: true,
	}

	remaining := make([]*domain.Order, 0, len(orders))
	for _, o := range orders {
		if o == nil || o.Location == nil || o.Location.Validate() != nil {
			continue
		}
		remaining = append(remaining, o)
	}

	current := start
	for len(remaining) > 0 {
		bestIdx := -1
		minMeters := math.Inf(1)

		// Tie-breaker on order id keeps the walk deterministic.
		for i, o := range remaining {
			d := delivery.Distance(current, *o.Location)
			if d < minMeters || (d == minMeters && o.ID < remaining[bestIdx].ID) {
				minMeters = d
				bestIdx = i
			}
		}

		best := remaining[bestIdx]
		stop := domain.RunStop{
			OrderID:     best.ID,
			Address:     best.Address,
			Coordinates: *best.Location,
			LegMeters:   int(math.Round(minMeters)),
		}
		stop.LegMinutes = legMinutes(ctx, estimator, current, *best.Location)

		run.TotalMeters += stop.LegMeters
		if stop.LegMinutes != nil {
			run.TotalMinutes += *stop.LegMinutes
		} else {
			run.Complete = false
		}
		run.Stops = append(run.Stops, stop)

		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
		current = *best.Location
	}

	// Optionally include the return leg to the store in the totals.
	if returnToStart && len(run.Stops) > 0 {
		run.TotalMeters += int(math.Round(delivery.Distance(current, start)))
		if m := legMinutes(ctx, estimator, current, start); m != nil {
			run.TotalMinutes += *m
		} else {
			run.Complete = false
		}
	}

	return run, nil
}

func legMinutes(ctx context.Context, estimator ports.RouteEstimator, from, to domain.Coordinates) *int {
	if estimator == nil {
		return nil
	}
	m, err := estimator.Estimate(ctx, from, to)
	if err != nil {
		obs.FromContext(ctx).WithError(err).Debug("run leg duration unavailable")
		return nil
	}
	return &m
}
