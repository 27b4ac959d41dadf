package obs

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Outbound address searches by result (ok, empty, error).
	GeocodeRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_geocode_requests_total",
		Help: "Number of outbound geocode searches by result",
	}, []string{"result"})

	GeocodeCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_geocode_cache_lookups_total",
		Help: "Geocode cache lookups by result (hit, miss, error)",
	}, []string{"result"})

	RouteRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_route_requests_total",
		Help: "Number of outbound route/ETA lookups by result",
	}, []string{"result"})

	DeliveryAssessments = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_delivery_assessments_total",
		Help: "Delivery range decisions by outcome",
	}, []string{"in_range"})

	OrdersCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_orders_created_total",
		Help: "The total number of accepted orders",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "storefront_http_request_duration_seconds",
		Help:    "Time spent serving HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "status"})
)
