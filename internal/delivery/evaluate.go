package delivery

import (
	"storefront-delivery-service/internal/domain"

	"github.com/golang/geo/s2"
)

// DefaultRadiusMeters is the delivery radius around the store.
const DefaultRadiusMeters = 10000

// earthRadiusInMeters is the Earth's volumetric mean radius.
const earthRadiusInMeters = 6371000

// Distance returns the great-circle distance between a and b in meters.
func Distance(a, b domain.Coordinates) float64 {
	p1 := s2.LatLngFromDegrees(a.Lat, a.Lon)
	p2 := s2.LatLngFromDegrees(b.Lat, b.Lon)
	return p1.Distance(p2).Radians() * earthRadiusInMeters
}

// Evaluate decides whether candidate lies within radiusMeters of store.
// The boundary is inclusive. ETAMinutes is left unset.
func Evaluate(store, candidate domain.Coordinates, radiusMeters float64) domain.DeliveryAssessment {
	d := Distance(store, candidate)
	return domain.DeliveryAssessment{
		DistanceMeters: d,
		InRange:        d <= radiusMeters,
	}
}
