package geocode

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"storefront-delivery-service/internal/domain"
	"storefront-delivery-service/internal/platform/httpx"
	"storefront-delivery-service/internal/platform/obs"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/time/rate"
)

// maxBodyBytes bounds how much of a search response is read.
const maxBodyBytes = 1 << 20

type NominatimConfig struct {
	BaseURL   string
	Locality  string
	UserAgent string
	// RequestsPerSecond <= 0 disables outbound limiting.
	RequestsPerSecond float64
	Timeout           time.Duration
}

// NominatimClient implements ports.Geocoder on top of the OpenStreetMap
// Nominatim search API.
//
// Every query is suffixed with a fixed locality so results are biased to
// the delivery area. Requests are never retried; a failed search surfaces
// as domain.ErrGeocodeUnavailable.
//
// The client is safe for concurrent use.
type NominatimClient struct {
	http     *httpx.Client
	baseURL  string
	locality string
}

func NewNominatimClient(cfg NominatimConfig) (*NominatimClient, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errors.New("nominatim base url is empty")
	}
	if strings.TrimSpace(cfg.UserAgent) == "" {
		return nil, errors.New("nominatim requires an identifying user agent")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := httpx.New(timeout)
	client.Header.Set("User-Agent", cfg.UserAgent)
	client.Header.Set("Accept", "application/json")
	if cfg.RequestsPerSecond > 0 {
		client.Limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	return &NominatimClient{
		http:     client,
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		locality: strings.TrimSpace(cfg.Locality),
	}, nil
}

// normalize collapses whitespace so equivalent inputs build the same query.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Search runs one address search. Queries shorter than minChars return an
// empty result without contacting the service.
func (n *NominatimClient) Search(
	ctx context.Context,
	query string,
	maxResults int,
	minChars int,
) (_ []domain.AddressCandidate, err error) {
	norm := normalize(query)
	if utf8.RuneCountInString(norm) < minChars || norm == "" {
		return []domain.AddressCandidate{}, nil
	}
	if maxResults < 1 {
		maxResults = 1
	}

	defer obs.Time(ctx, "nominatim.Search")(&err)

	q := norm
	if n.locality != "" {
		q = norm + ", " + n.locality
	}

	req, err := n.http.NewRequest(ctx, http.MethodGet, n.baseURL+"/search", nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build search request: %v", domain.ErrGeocodeUnavailable, err)
	}
	params := req.URL.Query()
	params.Set("format", "json")
	params.Set("q", q)
	params.Set("limit", strconv.Itoa(maxResults))
	params.Set("addressdetails", "1")
	req.URL.RawQuery = params.Encode()

	resp, err := n.http.Do(req)
	if err != nil {
		obs.GeocodeRequests.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("%w: search %q: %v", domain.ErrGeocodeUnavailable, norm, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		obs.GeocodeRequests.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("%w: read search response: %v", domain.ErrGeocodeUnavailable, err)
	}

	candidates, err := ParseSearchResponse(body)
	if err != nil {
		obs.GeocodeRequests.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("%w: %v", domain.ErrGeocodeUnavailable, err)
	}

	if len(candidates) > maxResults {
		candidates = candidates[:maxResults]
	}

	if len(candidates) == 0 {
		obs.GeocodeRequests.WithLabelValues("empty").Inc()
	} else {
		obs.GeocodeRequests.WithLabelValues("ok").Inc()
	}

	return candidates, nil
}
