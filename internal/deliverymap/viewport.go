package deliverymap

import (
	"math"
	"storefront-delivery-service/internal/domain"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

const (
	MinZoom = 8
	MaxZoom = 18

	// Nominal map size in pixels used to fit bounds, minus padding.
	mapWidthPx  = 600
	mapHeightPx = 400
	paddingPx   = 50
	tileSizePx  = 256
)

type Bounds struct {
	SouthWest domain.Coordinates `json:"southWest"`
	NorthEast domain.Coordinates `json:"northEast"`
}

type Viewport struct {
	Center domain.Coordinates `json:"center"`
	Zoom   int                `json:"zoom"`
	// Bounds is nil for a plain centered view.
	Bounds *Bounds `json:"bounds,omitempty"`
}

func clampZoom(z int) int {
	if z < MinZoom {
		return MinZoom
	}
	if z > MaxZoom {
		return MaxZoom
	}
	return z
}

func centeredOn(c domain.Coordinates, zoom int) Viewport {
	return Viewport{Center: c, Zoom: clampZoom(zoom)}
}

func toLatLng(c domain.Coordinates) s2.LatLng { return s2.LatLngFromDegrees(c.Lat, c.Lon) }

func fromLatLng(ll s2.LatLng) domain.Coordinates {
	return domain.Coordinates{Lat: ll.Lat.Degrees(), Lon: ll.Lng.Degrees()}
}

// mercatorY projects a latitude to the Web Mercator y coordinate.
func mercatorY(lat s1.Angle) float64 {
	return math.Log(math.Tan(math.Pi/4 + lat.Radians()/2))
}

// fitBounds returns the viewport that shows every point, with the zoom
// picked the way slippy maps do and clamped to [MinZoom, MaxZoom].
func fitBounds(points ...domain.Coordinates) Viewport {
	rect := s2.EmptyRect()
	for _, p := range points {
		rect = rect.AddPoint(toLatLng(p))
	}

	w := float64(mapWidthPx - 2*paddingPx)
	h := float64(mapHeightPx - 2*paddingPx)

	zoom := MaxZoom
	lngSpan := rect.Size().Lng.Degrees()
	if lngSpan > 0 {
		z := math.Log2(w * 360 / (tileSizePx * lngSpan))
		zoom = min(zoom, int(math.Floor(z)))
	}
	latFrac := (mercatorY(rect.Hi().Lat) - mercatorY(rect.Lo().Lat)) / (2 * math.Pi)
	if latFrac > 0 {
		z := math.Log2(h / tileSizePx / latFrac)
		zoom = min(zoom, int(math.Floor(z)))
	}

	return Viewport{
		Center: fromLatLng(rect.Center()),
		Zoom:   clampZoom(zoom),
		Bounds: &Bounds{
			SouthWest: fromLatLng(rect.Lo()),
			NorthEast: fromLatLng(rect.Hi()),
		},
	}
}
