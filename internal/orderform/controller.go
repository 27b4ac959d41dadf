package orderform

import (
	"context"
	"errors"
	"fmt"
	"storefront-delivery-service/internal/domain"
	"storefront-delivery-service/internal/platform/obs"
	"storefront-delivery-service/internal/ports"
	"strings"
	"sync"
)

// ErrSubmitInProgress is returned when Submit is called while an earlier
// submission has not finished.
var ErrSubmitInProgress = errors.New("order submission already in progress")

// MapState is the part of the delivery map the form reads and resets.
type MapState interface {
	GetMarkerLocation() (domain.Coordinates, bool)
	ResetMap()
}

// Input is the raw form as the customer filled it in.
type Input struct {
	Name          string
	Product       string
	CustomProduct string
	Qty           int
	Address       string
}

// Receipt confirms an accepted order.
type Receipt struct {
	OrderID string
	Payload ports.OrderPayload
}

type Controller struct {
	submitter ports.OrderSubmitter
	mapState  MapState

	mu         sync.Mutex
	token      string
	submitting bool
}

func NewController(submitter ports.OrderSubmitter, mapState MapState) *Controller {
	return &Controller{submitter: submitter, mapState: mapState}
}

// SetToken sets the bearer token used for submissions. An empty token logs
// the customer out.
func (c *Controller) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = strings.TrimSpace(token)
}

// BuildPayload validates in and turns it into the order store payload.
// The custom product option becomes "Request: <text>".
func BuildPayload(in Input, marker *domain.Coordinates) (ports.OrderPayload, error) {
	product := strings.TrimSpace(in.Product)
	custom := product == domain.CustomProductOption

	fields := domain.OrderFields{
		Name:    in.Name,
		Product: product,
		Qty:     in.Qty,
		Address: in.Address,
	}
	verr := domain.ValidateOrderFields(fields)
	if custom {
		if msg := domain.ValidateCustomProduct(in.CustomProduct); msg != "" {
			if verr == nil {
				verr = &domain.ValidationError{Fields: map[string]string{}}
			}
			verr.Fields["customProduct"] = msg
		}
	}
	if verr != nil {
		return ports.OrderPayload{}, verr
	}

	p := ports.OrderPayload{
		Name:            strings.TrimSpace(in.Name),
		Product:         product,
		Qty:             in.Qty,
		Address:         strings.TrimSpace(in.Address),
		IsCustomRequest: custom,
	}
	if custom {
		p.Product = "Request: " + strings.TrimSpace(in.CustomProduct)
	}
	if marker != nil {
		lat, lng := marker.Lat, marker.Lon
		p.Lat, p.Lng = &lat, &lng
	}
	return p, nil
}

// Submit validates the form and posts it with the current marker location.
// Nothing is sent when validation fails or no token is set. On success the
// map is reset.
func (c *Controller) Submit(ctx context.Context, in Input) (_ Receipt, err error) {
	defer obs.Time(ctx, "orderform.Submit")(&err)

	var marker *domain.Coordinates
	if c.mapState != nil {
		if m, ok := c.mapState.GetMarkerLocation(); ok {
			marker = &m
		}
	}

	payload, err := BuildPayload(in, marker)
	if err != nil {
		return Receipt{}, err
	}

	c.mu.Lock()
	if c.token == "" {
		c.mu.Unlock()
		return Receipt{}, domain.ErrUnauthorized
	}
	if c.submitting {
		c.mu.Unlock()
		return Receipt{}, ErrSubmitInProgress
	}
	c.submitting = true
	token := c.token
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.submitting = false
		c.mu.Unlock()
	}()

	id, err := c.submitter.SubmitOrder(ctx, token, payload)
	if err != nil {
		return Receipt{}, fmt.Errorf("submit order: %w", err)
	}

	if c.mapState != nil {
		c.mapState.ResetMap()
	}
	return Receipt{OrderID: id, Payload: payload}, nil
}
