package services

import (
	"context"
	"encoding/csv"
	"errors"
	"math"
	"storefront-delivery-service/internal/adapters/geocode"
	"storefront-delivery-service/internal/adapters/repositories"
	"storefront-delivery-service/internal/adapters/routing"
	"storefront-delivery-service/internal/domain"
	"storefront-delivery-service/internal/ports"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var storeLoc = domain.Coordinates{Lat: -6.914744, Lon: 107.609810}

func f64(v float64) *float64 { return &v }

type recordingNotifier struct {
	mu     sync.Mutex
	orders []*domain.Order
	err    error
}

func (n *recordingNotifier) OrderCreated(ctx context.Context, o *domain.Order) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.orders = append(n.orders, o)
	return n.err
}

func newOrderService(n ports.OrderNotifier) *OrderService {
	s := NewOrderService(repositories.NewMemoryOrderRepository(), n, storeLoc, 10000)
	s.now = func() time.Time { return time.Date(2026, 4, 2, 3, 4, 5, 0, time.UTC) }
	seq := 0
	s.newID = func() string {
		seq++
		return "ord-" + string(rune('0'+seq))
	}
	return s
}

func payload() ports.OrderPayload {
	return ports.OrderPayload{
		Name:    "Siti Aminah",
		Product: "Bayam Organik",
		Qty:     2,
		Address: "Jalan Braga No. 10, Bandung",
		Lat:     f64(-6.9175),
		Lng:     f64(107.6091),
	}
}

func TestCreateOrderRecordsDistance(t *testing.T) {
	n := &recordingNotifier{}
	s := newOrderService(n)

	o, err := s.Create(context.Background(), payload(), "siti@example.com")
	require.NoError(t, err)
	assert.Equal(t, "ord-1", o.ID)
	assert.Equal(t, domain.OrderStatusPending, o.Status)
	assert.Equal(t, "siti@example.com", o.CustomerEmail)
	require.NotNil(t, o.InRange)
	assert.True(t, *o.InRange)
	require.NotNil(t, o.DistanceMeters)
	assert.Less(t, *o.DistanceMeters, 1000)
	assert.Len(t, n.orders, 1)

	got, err := s.Get(context.Background(), "ord-1")
	require.NoError(t, err)
	assert.Equal(t, o.Name, got.Name)
}

func TestCreateOrderOutOfRangeIsAccepted(t *testing.T) {
	s := newOrderService(nil)
	p := payload()
	p.Lat = f64(storeLoc.Lat + (15000.0/6371000)*180/math.Pi)
	p.Lng = f64(storeLoc.Lon)

	o, err := s.Create(context.Background(), p, "")
	require.NoError(t, err)
	assert.False(t, *o.InRange)
	assert.Equal(t, 15000, *o.DistanceMeters)
}

func TestCreateOrderNotifierFailureDoesNotFail(t *testing.T) {
	s := newOrderService(&recordingNotifier{err: errors.New("kafka down")})
	_, err := s.Create(context.Background(), payload(), "")
	assert.NoError(t, err)
}

func TestValidatePayload(t *testing.T) {
	p := payload()
	p.Lng = nil
	var verr *domain.ValidationError
	require.ErrorAs(t, ValidatePayload(p), &verr)
	assert.Contains(t, verr.Fields, "location")

	p = payload()
	p.Lat = f64(95)
	require.ErrorAs(t, ValidatePayload(p), &verr)
	assert.Contains(t, verr.Fields, "location")

	p = payload()
	p.IsCustomRequest = true
	require.ErrorAs(t, ValidatePayload(p), &verr)
	assert.Contains(t, verr.Fields, "product")

	p.Product = "Request: Daun Kelor"
	assert.NoError(t, ValidatePayload(p))

	p = payload()
	p.Lat, p.Lng = nil, nil
	assert.NoError(t, ValidatePayload(p))
}

func TestUpdateStatusAndDelete(t *testing.T) {
	s := newOrderService(nil)
	o, err := s.Create(context.Background(), payload(), "")
	require.NoError(t, err)

	_, err = s.UpdateStatus(context.Background(), o.ID, "shipped")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	u, err := s.UpdateStatus(context.Background(), o.ID, domain.OrderStatusProcessing)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusProcessing, u.Status)

	_, err = s.Delete(context.Background(), o.ID)
	require.NoError(t, err)
	_, err = s.Get(context.Background(), o.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestExportCSV(t *testing.T) {
	s := newOrderService(nil)
	_, err := s.Create(context.Background(), payload(), "")
	require.NoError(t, err)

	p := payload()
	p.Lat, p.Lng = nil, nil
	p.Address = "Jalan Dago, \"Gang Mawar\", Bandung"
	_, err = s.Create(context.Background(), p, "")
	require.NoError(t, err)

	raw, err := s.ExportCSV(context.Background())
	require.NoError(t, err)

	rows, err := csv.NewReader(strings.NewReader(string(raw))).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, exportHeader, rows[0])
	assert.Equal(t, "2026-04-02T03:04:05Z", rows[1][1])

	var dago []string
	for _, r := range rows[1:] {
		if r[0] == "ord-2" {
			dago = r
		}
	}
	require.NotNil(t, dago)
	assert.Equal(t, "Jalan Dago, \"Gang Mawar\", Bandung", dago[5])
	assert.Equal(t, "", dago[7])
}

func TestPendingRunSkipsOutOfRangeAndDone(t *testing.T) {
	s := newOrderService(nil)
	ctx := context.Background()

	near, err := s.Create(ctx, payload(), "")
	require.NoError(t, err)

	far := payload()
	far.Lat = f64(-7.5)
	_, err = s.Create(ctx, far, "")
	require.NoError(t, err)

	done, err := s.Create(ctx, payload(), "")
	require.NoError(t, err)
	_, err = s.UpdateStatus(ctx, done.ID, domain.OrderStatusDelivered)
	require.NoError(t, err)

	run, err := s.PendingRun(ctx, nil, false)
	require.NoError(t, err)
	require.Len(t, run.Stops, 1)
	assert.Equal(t, near.ID, run.Stops[0].OrderID)
}

func TestAssessCoordinates(t *testing.T) {
	dest := domain.Coordinates{Lat: -6.9175, Lon: 107.6191}
	est := routing.NewMockEstimator([]routing.MockLeg{{From: storeLoc, To: dest, Minutes: 8}})
	a := &DeliveryAssessor{Estimator: est, Store: storeLoc, RadiusMeters: 10000}

	got, err := a.AssessCoordinates(context.Background(), dest)
	require.NoError(t, err)
	assert.True(t, got.InRange)
	require.NotNil(t, got.ETAMinutes)
	assert.Equal(t, 8, *got.ETAMinutes)

	far, err := a.AssessCoordinates(context.Background(), domain.Coordinates{Lat: -7.2, Lon: 107.6})
	require.NoError(t, err)
	assert.False(t, far.InRange)
	assert.Nil(t, far.ETAMinutes)
	assert.Equal(t, 1, est.Calls())

	_, err = a.AssessCoordinates(context.Background(), domain.Coordinates{Lat: 91})
	assert.ErrorIs(t, err, domain.ErrInvalidCoordinates)
}

func TestAssessCoordinatesETAFailureIsSilent(t *testing.T) {
	a := &DeliveryAssessor{Estimator: routing.NewMockEstimator(nil), Store: storeLoc, RadiusMeters: 10000}
	got, err := a.AssessCoordinates(context.Background(), storeLoc)
	require.NoError(t, err)
	assert.True(t, got.InRange)
	assert.Nil(t, got.ETAMinutes)
}

func TestAssessAddress(t *testing.T) {
	g := geocode.NewMockGeocoder()
	g.Add("jalan braga", domain.AddressCandidate{DisplayText: "Jalan Braga, Bandung", Coordinates: domain.Coordinates{Lat: -6.9175, Lon: 107.6091}})
	a := &DeliveryAssessor{Geocoder: g, Store: storeLoc, RadiusMeters: 10000, MaxResults: 5, MinChars: 3}

	got, err := a.AssessAddress(context.Background(), "jalan braga")
	require.NoError(t, err)
	assert.Equal(t, "Jalan Braga, Bandung", got.Candidate.DisplayText)
	assert.True(t, got.Assessment.InRange)

	_, err = a.AssessAddress(context.Background(), "tidak ada")
	assert.ErrorIs(t, err, domain.ErrGeocodeEmpty)

	g.Fail("rusak", domain.ErrGeocodeUnavailable)
	_, err = a.AssessAddress(context.Background(), "rusak")
	assert.ErrorIs(t, err, domain.ErrGeocodeUnavailable)
}
