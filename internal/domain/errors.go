package domain

import "errors"

var (
	// Address search failed at the network or service level.
	ErrGeocodeUnavailable = errors.New("geocode unavailable")
	// Address search succeeded but returned zero candidates.
	ErrGeocodeEmpty = errors.New("address not found")
	// Route/ETA lookup failed; callers degrade silently.
	ErrRouteUnavailable = errors.New("route unavailable")

	ErrGeolocationDenied      = errors.New("geolocation permission denied")
	ErrGeolocationUnavailable = errors.New("geolocation position unavailable")
	ErrGeolocationTimeout     = errors.New("geolocation timed out")

	// Catch-all for marker placement and distance handling failures.
	ErrProcessingFailed = errors.New("processing failed")

	ErrInvalidCoordinates = errors.New("invalid coordinates")
	ErrNotFound           = errors.New("not found")
	ErrUnauthorized       = errors.New("unauthorized")
)
