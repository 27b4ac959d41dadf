package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"storefront-delivery-service/internal/adapters/geocode"
	"storefront-delivery-service/internal/adapters/notify"
	"storefront-delivery-service/internal/adapters/repositories"
	"storefront-delivery-service/internal/adapters/routing"
	"storefront-delivery-service/internal/api/handlers"
	"storefront-delivery-service/internal/auth"
	"storefront-delivery-service/internal/domain"
	"storefront-delivery-service/internal/services"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testStore = domain.Coordinates{Lat: -6.914744, Lon: 107.609810}

type testServer struct {
	h      http.Handler
	issuer *auth.Issuer
	geo    *geocode.MockGeocoder
}

func newTestServer(t *testing.T, limiter *RateLimiter) *testServer {
	t.Helper()

	issuer, err := auth.NewIssuer("test-secret", time.Hour, time.Hour)
	require.NoError(t, err)
	admin, err := auth.NewAdminAccount("umkmcipas", "rahasia123")
	require.NoError(t, err)

	geo := geocode.NewMockGeocoder()
	geo.Add("Jalan Braga", domain.AddressCandidate{
		DisplayText: "Jalan Braga, Sumur Bandung, Bandung",
		Coordinates: domain.Coordinates{Lat: -6.9175, Lon: 107.6091},
	})

	eta := 9
	est := routing.NewMockEstimator(nil)
	est.Fallback = &eta

	assessor := &services.DeliveryAssessor{
		Geocoder:     geo,
		Estimator:    est,
		Store:        testStore,
		RadiusMeters: 10000,
		MaxResults:   5,
		MinChars:     3,
	}

	products := repositories.NewMemoryProductRepository()
	require.NoError(t, products.Seed(context.Background(), repositories.DefaultProducts()))

	orders := services.NewOrderService(repositories.NewMemoryOrderRepository(), notify.LogNotifier{}, testStore, 10000)

	h := NewRouter(Deps{
		Health: &handlers.HealthHandler{Version: "test", StartedAt: time.Now()},
		Delivery: &handlers.DeliveryHandler{
			Geocoder:    geo,
			Assessor:    assessor,
			StoreName:   "Toko UMKM CIPAS",
			DefaultZoom: 12,
			MaxResults:  5,
			MinChars:    3,
		},
		Orders:         &handlers.OrderHandler{Orders: orders, Estimator: est},
		Products:       &handlers.ProductHandler{Products: services.NewProductService(products)},
		Auth:           &handlers.AuthHandler{Issuer: issuer, Admin: admin},
		Issuer:         issuer,
		GeocodeLimiter: limiter,
	})
	return &testServer{h: h, issuer: issuer, geo: geo}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	s.h.ServeHTTP(rr, req)
	return rr
}

func (s *testServer) adminToken(t *testing.T) string {
	t.Helper()
	tok, err := s.issuer.IssueAdmin("umkmcipas")
	require.NoError(t, err)
	return tok
}

func (s *testServer) customerToken(t *testing.T, email string) string {
	t.Helper()
	tok, err := s.issuer.IssueCustomer(email, "Siti")
	require.NoError(t, err)
	return tok
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), v), rr.Body.String())
}

func TestHealthSetsRequestAndSecurityHeaders(t *testing.T) {
	s := newTestServer(t, nil)

	rr := s.do(t, http.MethodGet, "/api/health", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
	assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))

	var res map[string]any
	decode(t, rr, &res)
	assert.Equal(t, "ok", res["status"])
	assert.Equal(t, "test", res["version"])
}

func TestGeocodeSearch(t *testing.T) {
	s := newTestServer(t, nil)

	rr := s.do(t, http.MethodGet, "/api/geocode/search", "", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = s.do(t, http.MethodGet, "/api/geocode/search?q=Jalan+Braga&limit=50", "", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = s.do(t, http.MethodGet, "/api/geocode/search?q=Jalan+Braga", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var res struct {
		Candidates []struct {
			DisplayText string  `json:"displayText"`
			Lat         float64 `json:"lat"`
		} `json:"candidates"`
	}
	decode(t, rr, &res)
	require.Len(t, res.Candidates, 1)
	assert.Equal(t, "Jalan Braga, Sumur Bandung, Bandung", res.Candidates[0].DisplayText)
}

func TestGeocodeSearchRateLimited(t *testing.T) {
	s := newTestServer(t, NewRateLimiter(0.001, 1))

	first := s.do(t, http.MethodGet, "/api/geocode/search?q=Jalan+Braga", "", nil)
	second := s.do(t, http.MethodGet, "/api/geocode/search?q=Jalan+Braga", "", nil)

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Len(t, s.geo.Calls(), 1)
}

func TestAssess(t *testing.T) {
	s := newTestServer(t, nil)

	rr := s.do(t, http.MethodPost, "/api/delivery/assess", "", map[string]any{"lat": -6.9175, "lng": 107.6091})
	require.Equal(t, http.StatusOK, rr.Code)
	var in struct {
		InRange    bool `json:"inRange"`
		ETAMinutes *int `json:"etaMinutes"`
	}
	decode(t, rr, &in)
	assert.True(t, in.InRange)
	require.NotNil(t, in.ETAMinutes)
	assert.Equal(t, 9, *in.ETAMinutes)

	rr = s.do(t, http.MethodPost, "/api/delivery/assess", "", map[string]any{"lat": -6.7756, "lng": 107.6186})
	require.Equal(t, http.StatusOK, rr.Code)
	var out struct {
		InRange    bool   `json:"inRange"`
		DistanceKm string `json:"distanceKm"`
		ETAMinutes *int   `json:"etaMinutes"`
	}
	decode(t, rr, &out)
	assert.False(t, out.InRange)
	assert.Nil(t, out.ETAMinutes)

	rr = s.do(t, http.MethodPost, "/api/delivery/assess", "", map[string]any{"address": "Jalan Braga"})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"candidate"`)

	rr = s.do(t, http.MethodPost, "/api/delivery/assess", "", map[string]any{"address": "Nowhere street"})
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = s.do(t, http.MethodPost, "/api/delivery/assess", "", map[string]any{"lat": 95, "lng": 107.6})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = s.do(t, http.MethodPost, "/api/delivery/assess", "", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestDeliveryConfig(t *testing.T) {
	s := newTestServer(t, nil)

	rr := s.do(t, http.MethodGet, "/api/delivery/config", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var res struct {
		RadiusMeters float64 `json:"radiusMeters"`
		DefaultZoom  int     `json:"defaultZoom"`
	}
	decode(t, rr, &res)
	assert.Equal(t, 10000.0, res.RadiusMeters)
	assert.Equal(t, 12, res.DefaultZoom)
}

func TestLogin(t *testing.T) {
	s := newTestServer(t, nil)

	rr := s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"username": "umkmcipas", "password": "wrong-pass"})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"username": "umkmcipas", "password": "rahasia123"})
	require.Equal(t, http.StatusOK, rr.Code)
	var res struct {
		Token string `json:"token"`
	}
	decode(t, rr, &res)

	claims, err := s.issuer.Parse(res.Token)
	require.NoError(t, err)
	assert.Equal(t, auth.RoleAdmin, claims.Role)

	rr = s.do(t, http.MethodPost, "/api/auth/customer-login", "", map[string]string{"email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = s.do(t, http.MethodPost, "/api/auth/customer-login", "", map[string]string{"email": "Siti@Example.com", "name": "Siti"})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"email":"siti@example.com"`)
}

func TestChangePasswordRequiresAdmin(t *testing.T) {
	s := newTestServer(t, nil)
	body := map[string]string{"currentPassword": "rahasia123", "newPassword": "lebih-rahasia"}

	rr := s.do(t, http.MethodPost, "/api/auth/change-password", s.customerToken(t, "siti@example.com"), body)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = s.do(t, http.MethodPost, "/api/auth/change-password", s.adminToken(t), body)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"username": "umkmcipas", "password": "lebih-rahasia"})
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestOrderLifecycle(t *testing.T) {
	s := newTestServer(t, nil)
	customer := s.customerToken(t, "siti@example.com")
	admin := s.adminToken(t)

	body := map[string]any{
		"name":    "Siti Aminah",
		"product": "Bayam Organik",
		"qty":     2,
		"address": "Jalan Braga No. 10, Bandung",
		"lat":     -6.9175,
		"lng":     107.6091,
	}

	rr := s.do(t, http.MethodPost, "/api/orders", "", body)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = s.do(t, http.MethodPost, "/api/orders", customer, body)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var created struct {
		OrderID string `json:"orderId"`
		Order   struct {
			Status        string `json:"status"`
			CustomerEmail string `json:"customerEmail"`
			InRange       *bool  `json:"inRange"`
		} `json:"order"`
	}
	decode(t, rr, &created)
	require.NotEmpty(t, created.OrderID)
	assert.Equal(t, "pending", created.Order.Status)
	assert.Equal(t, "siti@example.com", created.Order.CustomerEmail)
	require.NotNil(t, created.Order.InRange)
	assert.True(t, *created.Order.InRange)

	rr = s.do(t, http.MethodGet, "/api/orders", customer, nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = s.do(t, http.MethodGet, "/api/orders/"+created.OrderID, customer, nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = s.do(t, http.MethodGet, "/api/orders/"+created.OrderID, s.customerToken(t, "budi@example.com"), nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = s.do(t, http.MethodGet, "/api/admin/delivery-run", admin, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), created.OrderID)

	rr = s.do(t, http.MethodPatch, "/api/orders/"+created.OrderID, admin, map[string]string{"status": "shipped-ish"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = s.do(t, http.MethodPatch, "/api/orders/"+created.OrderID, admin, map[string]string{"status": "processing"})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"status":"processing"`)

	rr = s.do(t, http.MethodGet, "/api/orders", admin, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var list []map[string]any
	decode(t, rr, &list)
	assert.Len(t, list, 1)

	rr = s.do(t, http.MethodGet, "/api/admin/orders/export", admin, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "attachment")
	assert.True(t, strings.HasPrefix(rr.Body.String(), "ID,Date,Customer Name"))

	rr = s.do(t, http.MethodDelete, "/api/orders/"+created.OrderID, admin, nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = s.do(t, http.MethodDelete, "/api/orders/"+created.OrderID, admin, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCreateOrderValidation(t *testing.T) {
	s := newTestServer(t, nil)

	rr := s.do(t, http.MethodPost, "/api/orders", s.customerToken(t, "siti@example.com"), map[string]any{
		"name":    "S",
		"product": "",
		"qty":     0,
		"address": "short",
	})
	require.Equal(t, http.StatusBadRequest, rr.Code)

	var res struct {
		Fields map[string]string `json:"fields"`
	}
	decode(t, rr, &res)
	assert.Contains(t, res.Fields, "name")
	assert.Contains(t, res.Fields, "product")
	assert.Contains(t, res.Fields, "qty")
	assert.Contains(t, res.Fields, "address")
}

func TestRejectsUnknownFields(t *testing.T) {
	s := newTestServer(t, nil)

	rr := s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"username": "umkmcipas", "pass": "x"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestProducts(t *testing.T) {
	s := newTestServer(t, nil)

	rr := s.do(t, http.MethodGet, "/api/products", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var list []map[string]any
	decode(t, rr, &list)
	assert.Len(t, list, 3)

	body := map[string]any{"name": "Tomat", "price": 12000, "unit": "kg", "category": "sayuran", "stock": 5}
	rr = s.do(t, http.MethodPost, "/api/products", "", body)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = s.do(t, http.MethodPost, "/api/products", s.adminToken(t), body)
	require.Equal(t, http.StatusCreated, rr.Code)
	var created struct {
		ID string `json:"id"`
	}
	decode(t, rr, &created)

	body["price"] = 13000
	rr = s.do(t, http.MethodPut, "/api/products/"+created.ID, s.adminToken(t), body)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"price":13000`)

	rr = s.do(t, http.MethodGet, "/api/products/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
