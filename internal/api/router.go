package api

import (
	"net/http"
	"storefront-delivery-service/internal/api/handlers"
	"storefront-delivery-service/internal/auth"
	"storefront-delivery-service/internal/platform/report"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps carries the services the HTTP layer needs. It is filled in by the
// composition root so handlers stay unaware of concrete adapters.
type Deps struct {
	Health   *handlers.HealthHandler
	Delivery *handlers.DeliveryHandler
	Orders   *handlers.OrderHandler
	Products *handlers.ProductHandler
	Auth     *handlers.AuthHandler
	Issuer   *auth.Issuer
	// Inbound limit for the geocode proxy. Nil disables it.
	GeocodeLimiter *RateLimiter
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
func NewRouter(d Deps) http.Handler {
	mux := http.NewServeMux()

	anyUser := requireAuth(d.Issuer)
	admin := requireAuth(d.Issuer, auth.RoleAdmin)

	search := d.Delivery.Search
	if d.GeocodeLimiter != nil {
		search = d.GeocodeLimiter.Wrap(search)
	}

	mux.HandleFunc("GET /health", d.Health.Health)
	mux.HandleFunc("GET /api/health", d.Health.Health)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/geocode/search", search)
	mux.HandleFunc("POST /api/delivery/assess", d.Delivery.Assess)
	mux.HandleFunc("GET /api/delivery/config", d.Delivery.Config)

	mux.HandleFunc("POST /api/auth/login", d.Auth.Login)
	mux.HandleFunc("POST /api/auth/customer-login", d.Auth.CustomerLogin)
	mux.HandleFunc("POST /api/auth/change-password", admin(d.Auth.ChangePassword))

	mux.HandleFunc("GET /api/orders", admin(d.Orders.List))
	mux.HandleFunc("POST /api/orders", anyUser(d.Orders.Create))
	mux.HandleFunc("GET /api/orders/{id}", anyUser(d.Orders.Get))
	mux.HandleFunc("PATCH /api/orders/{id}", admin(d.Orders.UpdateStatus))
	mux.HandleFunc("DELETE /api/orders/{id}", admin(d.Orders.Delete))
	mux.HandleFunc("GET /api/admin/orders/export", admin(d.Orders.Export))
	mux.HandleFunc("GET /api/admin/delivery-run", admin(d.Orders.DeliveryRun))

	mux.HandleFunc("GET /api/products", d.Products.List)
	mux.HandleFunc("GET /api/products/{id}", d.Products.Get)
	mux.HandleFunc("POST /api/products", admin(d.Products.Create))
	mux.HandleFunc("PUT /api/products/{id}", admin(d.Products.Update))
	mux.HandleFunc("DELETE /api/products/{id}", admin(d.Products.Delete))

	return report.Middleware(loggingMiddleware(securityHeaders(mux)))
}
