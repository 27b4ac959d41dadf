package geocode

import (
	"encoding/json"
	"fmt"
	"storefront-delivery-service/internal/domain"
	"strconv"
	"strings"
)

type searchItem struct {
	Lat         *string `json:"lat"`
	Lon         *string `json:"lon"`
	DisplayName string  `json:"display_name"`
	Address     struct {
		Road         string `json:"road"`
		Suburb       string `json:"suburb"`
		CityDistrict string `json:"city_district"`
		City         string `json:"city"`
	} `json:"address"`
}

// ParseSearchResponse converts a Nominatim search body into candidates.
// The body must be a JSON array; every item needs parseable lat/lon
// strings inside the valid coordinate range.
func ParseSearchResponse(body []byte) ([]domain.AddressCandidate, error) {
	var items []searchItem
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	out := make([]domain.AddressCandidate, 0, len(items))
	for i, it := range items {
		if it.Lat == nil || it.Lon == nil {
			return nil, fmt.Errorf("search result #%d: missing lat/lon", i+1)
		}

		lat, err := strconv.ParseFloat(strings.TrimSpace(*it.Lat), 64)
		if err != nil {
			return nil, fmt.Errorf("search result #%d: invalid lat %q: %w", i+1, *it.Lat, err)
		}
		lon, err := strconv.ParseFloat(strings.TrimSpace(*it.Lon), 64)
		if err != nil {
			return nil, fmt.Errorf("search result #%d: invalid lon %q: %w", i+1, *it.Lon, err)
		}

		c := domain.Coordinates{Lat: lat, Lon: lon}
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("search result #%d: %w", i+1, err)
		}

		out = append(out, domain.AddressCandidate{
			DisplayText: displayText(it),
			Coordinates: c,
		})
	}

	return out, nil
}

// displayText joins road, suburb, city district and city, falling back to
// the service's own display name when none of them is present.
func displayText(it searchItem) string {
	parts := make([]string, 0, 4)
	for _, p := range []string{it.Address.Road, it.Address.Suburb, it.Address.CityDistrict, it.Address.City} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return strings.TrimSpace(it.DisplayName)
	}
	return strings.Join(parts, ", ")
}
