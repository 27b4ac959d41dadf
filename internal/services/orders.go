package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"storefront-delivery-service/internal/delivery"
	"storefront-delivery-service/internal/domain"
	"storefront-delivery-service/internal/platform/obs"
	"storefront-delivery-service/internal/platform/report"
	"storefront-delivery-service/internal/ports"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const customRequestPrefix = "Request: "

// OrderService implements the order store behind the REST API.
type OrderService struct {
	orders       ports.OrderRepository
	notifier     ports.OrderNotifier
	store        domain.Coordinates
	radiusMeters float64
	now          func() time.Time
	newID        func() string
}

func NewOrderService(
	orders ports.OrderRepository,
	notifier ports.OrderNotifier,
	store domain.Coordinates,
	radiusMeters float64,
) *OrderService {
	if radiusMeters <= 0 {
		radiusMeters = delivery.DefaultRadiusMeters
	}
	return &OrderService{
		orders:       orders,
		notifier:     notifier,
		store:        store,
		radiusMeters: radiusMeters,
		now:          time.Now,
		newID:        func() string { return uuid.NewString() },
	}
}

// ValidatePayload applies the same field rules as the storefront form.
func ValidatePayload(p ports.OrderPayload) error {
	verr := domain.ValidateOrderFields(domain.OrderFields{
		Name:    p.Name,
		Product: p.Product,
		Qty:     p.Qty,
		Address: p.Address,
	})
	add := func(field, msg string) {
		if verr == nil {
			verr = &domain.ValidationError{Fields: map[string]string{}}
		}
		verr.Fields[field] = msg
	}

	if p.IsCustomRequest {
		if !strings.HasPrefix(p.Product, customRequestPrefix) {
			add("product", "custom requests must start with \"Request: \"")
		} else if msg := domain.ValidateCustomProduct(strings.TrimPrefix(p.Product, customRequestPrefix)); msg != "" {
			add("product", msg)
		}
	}

	switch {
	case (p.Lat == nil) != (p.Lng == nil):
		add("location", "lat and lng must be given together")
	case p.Lat != nil:
		if err := (domain.Coordinates{Lat: *p.Lat, Lon: *p.Lng}).Validate(); err != nil {
			add("location", err.Error())
		}
	}

	if verr == nil {
		return nil
	}
	return verr
}

// Create validates the payload and stores a pending order. Orders with a
// location record their distance from the store and whether it is within
// the delivery radius; out-of-range orders are accepted.
func (s *OrderService) Create(ctx context.Context, p ports.OrderPayload, customerEmail string) (_ *domain.Order, err error) {
	defer obs.Time(ctx, "orders.Create")(&err)

	if err := ValidatePayload(p); err != nil {
		return nil, err
	}

	o := &domain.Order{
		ID:              s.newID(),
		Name:            strings.TrimSpace(p.Name),
		Product:         strings.TrimSpace(p.Product),
		Qty:             p.Qty,
		Address:         strings.TrimSpace(p.Address),
		IsCustomRequest: p.IsCustomRequest,
		Status:          domain.OrderStatusPending,
		CustomerEmail:   customerEmail,
		OrderDate:       s.now().UTC(),
	}
	if p.Lat != nil {
		loc := domain.Coordinates{Lat: *p.Lat, Lon: *p.Lng}
		a := delivery.Evaluate(s.store, loc, s.radiusMeters)
		meters := a.RoundedMeters()
		inRange := a.InRange
		o.Location = &loc
		o.DistanceMeters = &meters
		o.InRange = &inRange
	}

	if err := s.orders.CreateOrder(ctx, o); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	obs.OrdersCreated.Inc()

	if s.notifier != nil {
		if err := s.notifier.OrderCreated(ctx, o); err != nil {
			obs.FromContext(ctx).WithError(err).WithField("order_id", o.ID).Warn("order notification failed")
			report.CaptureError(ctx, err, map[string]string{"order_id": o.ID})
		}
	}

	return o, nil
}

func (s *OrderService) List(ctx context.Context) ([]*domain.Order, error) {
	return s.orders.ListOrders(ctx)
}

func (s *OrderService) Get(ctx context.Context, id string) (*domain.Order, error) {
	return s.orders.GetOrder(ctx, id)
}

// ErrInvalidStatus is returned for a status outside the known set.
var ErrInvalidStatus = errors.New("invalid order status")

func (s *OrderService) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	return s.orders.UpdateOrderStatus(ctx, id, status)
}

func (s *OrderService) Delete(ctx context.Context, id string) (*domain.Order, error) {
	return s.orders.DeleteOrder(ctx, id)
}

// PendingRun plans a delivery run over pending, in-range orders.
func (s *OrderService) PendingRun(ctx context.Context, estimator ports.RouteEstimator, returnToStart bool) (*domain.DeliveryRun, error) {
	all, err := s.orders.ListOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("pending run: %w", err)
	}

	due := make([]*domain.Order, 0, len(all))
	for _, o := range all {
		if o.Status != domain.OrderStatusPending || o.InRange == nil || !*o.InRange {
			continue
		}
		due = append(due, o)
	}
	return PlanDeliveryRun(ctx, s.store, due, estimator, returnToStart)
}

var exportHeader = []string{"ID", "Date", "Customer Name", "Product", "Qty", "Address", "Status", "Distance (km)", "In Range"}

// ExportCSV renders every order as CSV, newest first.
func (s *OrderService) ExportCSV(ctx context.Context) ([]byte, error) {
	orders, err := s.orders.ListOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("export orders: %w", err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(exportHeader); err != nil {
		return nil, fmt.Errorf("export orders: write header: %w", err)
	}

	for _, o := range orders {
		distance, inRange := "", ""
		if o.DistanceMeters != nil {
			distance = strconv.FormatFloat(float64(*o.DistanceMeters)/1000, 'f', 1, 64)
		}
		if o.InRange != nil {
			inRange = strconv.FormatBool(*o.InRange)
		}
		row := []string{
			o.ID,
			o.OrderDate.Format(time.RFC3339),
			o.Name,
			o.Product,
			strconv.Itoa(o.Qty),
			o.Address,
			string(o.Status),
			distance,
			inRange,
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("export orders: write row %s: %w", o.ID, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("export orders: flush: %w", err)
	}
	return buf.Bytes(), nil
}
