package routing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"storefront-delivery-service/internal/domain"
	"storefront-delivery-service/internal/platform/httpx"
	"storefront-delivery-service/internal/platform/obs"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

type OSRMConfig struct {
	BaseURL     string
	Profile     string
	Timeout     time.Duration
	MaxAttempts int
}

// OSRMClient implements ports.RouteEstimator using the OSRM route service.
// Only the duration of the first route is used; geometry is not requested.
type OSRMClient struct {
	http    *httpx.Client
	baseURL string
	profile string
}

func NewOSRMClient(cfg OSRMConfig) (*OSRMClient, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errors.New("osrm base url is empty")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	profile := cfg.Profile
	if profile == "" {
		profile = "driving"
	}

	client := httpx.New(timeout)
	client.MaxAttempts = cfg.MaxAttempts

	return &OSRMClient{
		http:    client,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		profile: profile,
	}, nil
}

// Estimate returns the driving time from -> to in minutes, rounded up.
func (o *OSRMClient) Estimate(
	ctx context.Context,
	from domain.Coordinates,
	to domain.Coordinates,
) (_ int, err error) {
	defer obs.Time(ctx, "osrm.Estimate")(&err)
	defer func() {
		if err != nil {
			obs.RouteRequests.WithLabelValues("error").Inc()
			return
		}
		obs.RouteRequests.WithLabelValues("ok").Inc()
	}()

	endpoint := fmt.Sprintf(
		"%s/route/v1/%s/%s;%s?overview=false",
		o.baseURL, o.profile, osrmPoint(from), osrmPoint(to),
	)

	resp, err := o.http.DoWithRetry(ctx, func() (*http.Request, error) {
		return o.http.NewRequest(ctx, http.MethodGet, endpoint, nil)
	})
	if err != nil {
		return 0, fmt.Errorf("%w: route request: %v", domain.ErrRouteUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return 0, fmt.Errorf("%w: read route response: %v", domain.ErrRouteUnavailable, err)
	}

	seconds, err := ParseRouteDuration(body)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrRouteUnavailable, err)
	}

	return MinutesCeil(seconds), nil
}

// ParseRouteDuration extracts routes[0].duration (seconds) from an OSRM
// route response. The response must report code "Ok".
func ParseRouteDuration(body []byte) (float64, error) {
	if !gjson.ValidBytes(body) {
		return 0, errors.New("route response is not valid json")
	}

	doc := gjson.ParseBytes(body)
	if code := doc.Get("code"); code.Exists() && code.String() != "Ok" {
		return 0, fmt.Errorf("route service returned code %q", code.String())
	}

	d := doc.Get("routes.0.duration")
	if !d.Exists() {
		return 0, errors.New("route response has no routes[0].duration")
	}
	if d.Type != gjson.Number {
		return 0, fmt.Errorf("routes[0].duration is not a number: %s", d.Raw)
	}

	seconds := d.Float()
	if seconds < 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return 0, fmt.Errorf("routes[0].duration out of range: %v", seconds)
	}
	return seconds, nil
}

// MinutesCeil converts a duration in seconds to whole minutes, rounding up.
func MinutesCeil(seconds float64) int {
	return int(math.Ceil(seconds / 60))
}

// osrmPoint formats c the way OSRM expects it: lon,lat.
func osrmPoint(c domain.Coordinates) string {
	ll := c.CoordsToList()
	return fmt.Sprintf("%.6f,%.6f", ll[0], ll[1])
}
