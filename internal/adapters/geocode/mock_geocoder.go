package geocode

import (
	"context"
	"storefront-delivery-service/internal/domain"
	"strings"
	"sync"
	"unicode/utf8"
)

// MockGeocoder answers searches from a fixed table keyed by normalized
// query and records every query that reached it.
type MockGeocoder struct {
	mu      sync.Mutex
	results map[string][]domain.AddressCandidate
	errs    map[string]error
	calls   []string
}

func NewMockGeocoder() *MockGeocoder {
	return &MockGeocoder{
		results: map[string][]domain.AddressCandidate{},
		errs:    map[string]error{},
	}
}

func (m *MockGeocoder) Add(query string, candidates ...domain.AddressCandidate) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results[normalize(query)] = candidates
}

func (m *MockGeocoder) Fail(query string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs[normalize(query)] = err
}

// Calls returns the queries that passed the minChars check, in order.
func (m *MockGeocoder) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *MockGeocoder) Search(ctx context.Context, query string, maxResults int, minChars int) ([]domain.AddressCandidate, error) {
	norm := normalize(query)
	if norm == "" || utf8.RuneCountInString(strings.TrimSpace(norm)) < minChars {
		return []domain.AddressCandidate{}, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, norm)

	if err, ok := m.errs[norm]; ok {
		return nil, err
	}
	res := m.results[norm]
	if maxResults > 0 && len(res) > maxResults {
		res = res[:maxResults]
	}
	return append([]domain.AddressCandidate{}, res...), nil
}
