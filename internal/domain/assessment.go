package domain

import (
	"fmt"
	"math"
)

// DeliveryAssessment is the derived in/out-of-range decision for one
// selected address. A new selection replaces it entirely.
type DeliveryAssessment struct {
	DistanceMeters float64
	InRange        bool
	// ETAMinutes is nil until (and unless) the route service answers.
	ETAMinutes *int
}

// RoundedMeters is the distance rounded to the nearest meter for display.
func (a DeliveryAssessment) RoundedMeters() int {
	return int(math.Round(a.DistanceMeters))
}

// Kilometers formats the distance in km with one decimal, e.g. "15.0".
func (a DeliveryAssessment) Kilometers() string {
	return fmt.Sprintf("%.1f", a.DistanceMeters/1000)
}
