// Package deliverymap holds the state behind the delivery map: the fixed
// store marker and radius, at most one delivery marker, the route overlay,
// the viewport and the status text shown under the map.
package deliverymap

import (
	"context"
	"errors"
	"fmt"
	"storefront-delivery-service/internal/delivery"
	"storefront-delivery-service/internal/domain"
	"storefront-delivery-service/internal/platform/obs"
	"storefront-delivery-service/internal/ports"
	"strconv"
	"strings"
	"sync"
	"time"
)

type StatusKind int

const (
	StatusNone StatusKind = iota
	StatusInfo
	StatusInRange
	StatusOutOfRange
	StatusError
)

type Status struct {
	Kind  StatusKind `json:"kind"`
	Lines []string   `json:"lines"`
}

func (s Status) Text() string { return strings.Join(s.Lines, "\n") }

// RouteOverlay is drawn between the store and the delivery marker once a
// travel time is known.
type RouteOverlay struct {
	From    domain.Coordinates `json:"from"`
	To      domain.Coordinates `json:"to"`
	Minutes int                `json:"minutes"`
}

type Snapshot struct {
	Store        domain.Coordinates         `json:"store"`
	RadiusMeters float64                    `json:"radiusMeters"`
	Marker       *domain.Coordinates        `json:"marker,omitempty"`
	Route        *RouteOverlay              `json:"route,omitempty"`
	Viewport     Viewport                   `json:"viewport"`
	Status       Status                     `json:"status"`
	Assessment   *domain.DeliveryAssessment `json:"assessment,omitempty"`
}

type Config struct {
	Store        domain.Coordinates
	RadiusMeters float64
	DefaultZoom  int
	Locale       string

	// Estimator is optional; without it no travel time is shown.
	Estimator  ports.RouteEstimator
	ETATimeout time.Duration

	// Async runs the travel time lookup. Defaults to go f().
	Async func(func())
	// OnChange runs after every state change, outside the lock.
	OnChange func(Snapshot)
}

type Controller struct {
	cfg  Config
	msgs Messages

	mu         sync.Mutex
	marker     *domain.Coordinates
	route      *RouteOverlay
	viewport   Viewport
	status     Status
	assessment *domain.DeliveryAssessment
	// gen identifies the current selection; ETA results for an older
	// generation are dropped.
	gen uint64
}

func NewController(cfg Config) *Controller {
	if cfg.RadiusMeters <= 0 {
		cfg.RadiusMeters = delivery.DefaultRadiusMeters
	}
	if cfg.DefaultZoom == 0 {
		cfg.DefaultZoom = 12
	}
	if cfg.ETATimeout <= 0 {
		cfg.ETATimeout = 10 * time.Second
	}
	if cfg.Async == nil {
		cfg.Async = func(f func()) { go f() }
	}

	msgs := MessagesFor(cfg.Locale)
	return &Controller{
		cfg:      cfg,
		msgs:     msgs,
		viewport: centeredOn(cfg.Store, cfg.DefaultZoom),
		status:   Status{Kind: StatusInfo, Lines: []string{msgs.Initial}},
	}
}

func (c *Controller) Messages() Messages { return c.msgs }

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	s := Snapshot{
		Store:        c.cfg.Store,
		RadiusMeters: c.cfg.RadiusMeters,
		Viewport:     c.viewport,
		Status:       Status{Kind: c.status.Kind, Lines: append([]string(nil), c.status.Lines...)},
	}
	if c.marker != nil {
		m := *c.marker
		s.Marker = &m
	}
	if c.route != nil {
		r := *c.route
		s.Route = &r
	}
	if c.assessment != nil {
		a := *c.assessment
		if a.ETAMinutes != nil {
			eta := *a.ETAMinutes
			a.ETAMinutes = &eta
		}
		s.Assessment = &a
	}
	return s
}

func (c *Controller) unlockAndNotify() {
	snap := c.snapshotLocked()
	c.mu.Unlock()
	if c.cfg.OnChange != nil {
		c.cfg.OnChange(snap)
	}
}

func (c *Controller) storeViewLocked() {
	c.viewport = centeredOn(c.cfg.Store, c.cfg.DefaultZoom)
}

// OnAddressSelected places the delivery marker at coords, decides whether
// it is in range and, when it is, starts a travel time lookup in the
// background. It returns the assessment shown to the user.
func (c *Controller) OnAddressSelected(ctx context.Context, coords domain.Coordinates) (domain.DeliveryAssessment, error) {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.marker = nil
	c.route = nil
	c.assessment = nil

	if err := coords.Validate(); err != nil {
		c.status = Status{Kind: StatusError, Lines: []string{c.msgs.ProcessingFailed}}
		c.storeViewLocked()
		c.unlockAndNotify()
		obs.FromContext(ctx).WithError(err).Warn("delivery location rejected")
		return domain.DeliveryAssessment{}, fmt.Errorf("%w: %v", domain.ErrProcessingFailed, err)
	}

	m := coords
	c.marker = &m

	a := delivery.Evaluate(c.cfg.Store, coords, c.cfg.RadiusMeters)
	c.assessment = &a
	obs.DeliveryAssessments.WithLabelValues(strconv.FormatBool(a.InRange)).Inc()

	if a.InRange {
		c.status = Status{Kind: StatusInRange, Lines: []string{c.msgs.InRange, c.msgs.DistanceLine(a.Kilometers())}}
	} else {
		c.status = Status{Kind: StatusOutOfRange, Lines: []string{c.msgs.OutOfRange, c.msgs.DistanceMaxLine(a.Kilometers(), c.cfg.RadiusMeters)}}
	}
	c.viewport = fitBounds(c.cfg.Store, coords)

	estimator := c.cfg.Estimator
	c.unlockAndNotify()

	if a.InRange && estimator != nil {
		etaCtx := context.WithoutCancel(ctx)
		c.cfg.Async(func() {
			ctx, cancel := context.WithTimeout(etaCtx, c.cfg.ETATimeout)
			defer cancel()
			minutes, err := estimator.Estimate(ctx, c.cfg.Store, coords)
			c.applyETA(ctx, gen, coords, minutes, err)
		})
	}

	return a, nil
}

func (c *Controller) applyETA(ctx context.Context, gen uint64, to domain.Coordinates, minutes int, err error) {
	if err != nil {
		obs.FromContext(ctx).WithError(err).Info("travel time unavailable")
		return
	}

	c.mu.Lock()
	if gen != c.gen || c.assessment == nil {
		c.mu.Unlock()
		return
	}
	m := minutes
	c.assessment.ETAMinutes = &m
	c.status.Lines = append(c.status.Lines, c.msgs.ETALine(minutes))
	c.route = &RouteOverlay{From: c.cfg.Store, To: to, Minutes: minutes}
	c.unlockAndNotify()
}

// ResetMap removes the delivery marker and route and recenters on the store.
func (c *Controller) ResetMap() {
	c.mu.Lock()
	c.gen++
	c.marker = nil
	c.route = nil
	c.assessment = nil
	c.status = Status{}
	c.storeViewLocked()
	c.unlockAndNotify()
}

// GetMarkerLocation returns the delivery marker position, if one is placed.
func (c *Controller) GetMarkerLocation() (domain.Coordinates, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.marker == nil {
		return domain.Coordinates{}, false
	}
	return *c.marker, true
}

// ShowGeocodeError reports a failed address search. The marker and the
// viewport are left as they are.
func (c *Controller) ShowGeocodeError(err error) {
	msg := c.msgs.SearchError
	if errors.Is(err, domain.ErrGeocodeEmpty) {
		msg = c.msgs.NotFound
	}

	c.mu.Lock()
	c.status = Status{Kind: StatusError, Lines: []string{msg}}
	c.unlockAndNotify()
}

// UseDeviceLocation asks loc for the current position and treats it as a
// selected address. A nil loc means the device cannot report a location.
func (c *Controller) UseDeviceLocation(ctx context.Context, loc ports.Locator) (domain.DeliveryAssessment, error) {
	if loc == nil {
		c.setError(c.msgs.GeoUnsupported)
		return domain.DeliveryAssessment{}, fmt.Errorf("%w: no locator", domain.ErrGeolocationUnavailable)
	}

	c.mu.Lock()
	c.status = Status{Kind: StatusInfo, Lines: []string{c.msgs.Locating}}
	c.unlockAndNotify()

	coords, err := loc.Locate(ctx)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrGeolocationDenied):
			c.setError(c.msgs.GeoDenied)
		case errors.Is(err, domain.ErrGeolocationTimeout), errors.Is(err, context.DeadlineExceeded):
			c.setError(c.msgs.GeoTimeout)
		default:
			c.setError(c.msgs.GeoUnavailable)
		}
		return domain.DeliveryAssessment{}, err
	}

	return c.OnAddressSelected(ctx, coords)
}

func (c *Controller) setError(msg string) {
	c.mu.Lock()
	c.status = Status{Kind: StatusError, Lines: []string{msg}}
	c.unlockAndNotify()
}
