package routing

import (
	"context"
	"fmt"
	"storefront-delivery-service/internal/domain"
	"sync"
)

type MockLeg struct {
	From, To domain.Coordinates
	Minutes  int
}

// MockEstimator answers from a fixed table of legs. Unknown legs return
// Fallback minutes when set, otherwise domain.ErrRouteUnavailable.
type MockEstimator struct {
	mu       sync.Mutex
	m        map[string]int
	Fallback *int
	Err      error
	calls    int
}

func NewMockEstimator(legs []MockLeg) *MockEstimator {
	m := make(map[string]int, len(legs))
	for _, l := range legs {
		m[l.From.String()+"|"+l.To.String()] = l.Minutes
	}
	return &MockEstimator{m: m}
}

func (e *MockEstimator) Calls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls
}

func (e *MockEstimator) Estimate(ctx context.Context, from, to domain.Coordinates) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls++

	if e.Err != nil {
		return 0, e.Err
	}
	if v, ok := e.m[from.String()+"|"+to.String()]; ok {
		return v, nil
	}
	if e.Fallback != nil {
		return *e.Fallback, nil
	}
	return 0, fmt.Errorf("%w: missing leg %s -> %s", domain.ErrRouteUnavailable, from, to)
}
