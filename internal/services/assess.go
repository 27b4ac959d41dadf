package services

import (
	"context"
	"fmt"
	"storefront-delivery-service/internal/delivery"
	"storefront-delivery-service/internal/domain"
	"storefront-delivery-service/internal/platform/obs"
	"storefront-delivery-service/internal/ports"
	"strconv"
	"time"
)

// DeliveryAssessor answers "can the store deliver here, and how long does
// it take" for a point or a free-text address.
type DeliveryAssessor struct {
	Geocoder     ports.Geocoder
	Estimator    ports.RouteEstimator
	Store        domain.Coordinates
	RadiusMeters float64
	MaxResults   int
	MinChars     int
	ETATimeout   time.Duration
}

type AddressAssessment struct {
	Candidate  domain.AddressCandidate
	Assessment domain.DeliveryAssessment
}

// AssessCoordinates evaluates c against the delivery radius. For in-range
// points it also asks for a travel time; a failed lookup only leaves
// ETAMinutes unset.
func (s *DeliveryAssessor) AssessCoordinates(ctx context.Context, c domain.Coordinates) (_ domain.DeliveryAssessment, err error) {
	defer obs.Time(ctx, "assess.Coordinates")(&err)

	if err := c.Validate(); err != nil {
		return domain.DeliveryAssessment{}, err
	}

	radius := s.RadiusMeters
	if radius <= 0 {
		radius = delivery.DefaultRadiusMeters
	}
	a := delivery.Evaluate(s.Store, c, radius)
	obs.DeliveryAssessments.WithLabelValues(strconv.FormatBool(a.InRange)).Inc()

	if !a.InRange || s.Estimator == nil {
		return a, nil
	}

	timeout := s.ETATimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	etaCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	minutes, etaErr := s.Estimator.Estimate(etaCtx, s.Store, c)
	if etaErr != nil {
		obs.FromContext(ctx).WithError(etaErr).Info("travel time unavailable")
		return a, nil
	}
	a.ETAMinutes = &minutes
	return a, nil
}

// AssessAddress geocodes address and assesses its best match. An empty
// search result is reported as domain.ErrGeocodeEmpty.
func (s *DeliveryAssessor) AssessAddress(ctx context.Context, address string) (AddressAssessment, error) {
	if s.Geocoder == nil {
		return AddressAssessment{}, fmt.Errorf("assess address: %w: no geocoder", domain.ErrGeocodeUnavailable)
	}

	maxResults := s.MaxResults
	if maxResults <= 0 {
		maxResults = 1
	}
	cands, err := s.Geocoder.Search(ctx, address, maxResults, s.MinChars)
	if err != nil {
		return AddressAssessment{}, fmt.Errorf("assess address: %w", err)
	}
	if len(cands) == 0 {
		return AddressAssessment{}, domain.ErrGeocodeEmpty
	}

	best := cands[0]
	a, err := s.AssessCoordinates(ctx, best.Coordinates)
	if err != nil {
		return AddressAssessment{}, fmt.Errorf("assess address: %w", err)
	}
	return AddressAssessment{Candidate: best, Assessment: a}, nil
}
