package autocomplete

import (
	"errors"
	"storefront-delivery-service/internal/adapters/geocode"
	"storefront-delivery-service/internal/domain"
	"storefront-delivery-service/internal/schedule"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cand(text string, lat, lon float64) domain.AddressCandidate {
	return domain.AddressCandidate{DisplayText: text, Coordinates: domain.Coordinates{Lat: lat, Lon: lon}}
}

type harness struct {
	ac       *Autocomplete
	sched    *schedule.ManualScheduler
	geo      *geocode.MockGeocoder
	selected []domain.AddressCandidate
	errs     []error
	queued   []func()
}

// newHarness wires an Autocomplete to a manual clock. When deferred is
// true searches are queued and run by the test; otherwise they run inline.
func newHarness(t *testing.T, deferred bool) *harness {
	t.Helper()
	h := &harness{
		sched: schedule.NewManualScheduler(),
		geo:   geocode.NewMockGeocoder(),
	}
	async := func(f func()) { f() }
	if deferred {
		async = func(f func()) { h.queued = append(h.queued, f) }
	}
	h.ac = New(h.geo, Options{
		Delay:      500 * time.Millisecond,
		MinChars:   3,
		MaxResults: 5,
		OnSelect:   func(c domain.AddressCandidate) { h.selected = append(h.selected, c) },
		OnError:    func(err error) { h.errs = append(h.errs, err) },
		Scheduler:  h.sched,
		Async:      async,
	})
	return h
}

func TestShortInputNeverSearches(t *testing.T) {
	h := newHarness(t, false)

	for _, s := range []string{"", "j", "ja", "  ja  "} {
		h.ac.Input(s)
		assert.Equal(t, Idle, h.ac.Snapshot().State)
	}
	h.sched.Advance(5 * time.Second)

	assert.Empty(t, h.geo.Calls())
	assert.Equal(t, 0, h.sched.Pending())
}

func TestTypingWithinWindowSearchesOnlyLastQuery(t *testing.T) {
	h := newHarness(t, false)
	h.geo.Add("jalan braga", cand("Jalan Braga, Bandung", -6.9175, 107.6091))

	h.ac.Input("jalan")
	assert.Equal(t, Debouncing, h.ac.Snapshot().State)
	h.sched.Advance(200 * time.Millisecond)
	h.ac.Input("jalan braga")
	h.sched.Advance(499 * time.Millisecond)
	assert.Empty(t, h.geo.Calls())

	h.sched.Advance(time.Millisecond)
	assert.Equal(t, []string{"jalan braga"}, h.geo.Calls())

	snap := h.ac.Snapshot()
	assert.Equal(t, Showing, snap.State)
	assert.Equal(t, -1, snap.Selected)
	require.Len(t, snap.Candidates, 1)
}

func TestStaleResponseIsDiscarded(t *testing.T) {
	h := newHarness(t, true)
	h.geo.Add("dago", cand("Dago, Coblong, Bandung", -6.885, 107.613))
	h.geo.Add("dago atas", cand("Dago Atas, Bandung", -6.870, 107.620), cand("Dago Pakar, Bandung", -6.860, 107.630))

	h.ac.Input("dago")
	h.sched.Advance(500 * time.Millisecond)
	h.ac.Input("dago atas")
	h.sched.Advance(500 * time.Millisecond)
	require.Len(t, h.queued, 2)

	// Newer response first, then the older one arrives late.
	h.queued[1]()
	h.queued[0]()

	snap := h.ac.Snapshot()
	assert.Equal(t, Showing, snap.State)
	require.Len(t, snap.Candidates, 2)
	assert.Equal(t, "Dago Atas, Bandung", snap.Candidates[0].DisplayText)
}

func TestResponseInsideNextWindowIsDiscarded(t *testing.T) {
	h := newHarness(t, true)
	h.geo.Add("dago", cand("Dago, Coblong, Bandung", -6.885, 107.613))
	h.geo.Add("dago atas", cand("Dago Atas, Bandung", -6.870, 107.620))

	h.ac.Input("dago")
	h.sched.Advance(500 * time.Millisecond)
	h.ac.Input("dago atas")
	require.Len(t, h.queued, 1)

	// The first search answers while the second keystroke is still debouncing.
	h.queued[0]()
	assert.Equal(t, Debouncing, h.ac.Snapshot().State)
	assert.Empty(t, h.ac.Snapshot().Candidates)

	h.sched.Advance(500 * time.Millisecond)
	require.Len(t, h.queued, 2)
	assert.Equal(t, Fetching, h.ac.Snapshot().State)
	h.queued[1]()

	assert.Equal(t, []string{"dago", "dago atas"}, h.geo.Calls())
	snap := h.ac.Snapshot()
	assert.Equal(t, Showing, snap.State)
	assert.Equal(t, "dago atas", snap.Text)
	require.Len(t, snap.Candidates, 1)
	assert.Equal(t, "Dago Atas, Bandung", snap.Candidates[0].DisplayText)
}

func TestEmptyResultGoesIdleSilently(t *testing.T) {
	h := newHarness(t, false)

	h.ac.Input("nowhere street")
	h.sched.Advance(time.Second)

	assert.Equal(t, Idle, h.ac.Snapshot().State)
	assert.Empty(t, h.errs)
}

func TestSearchErrorGoesIdleAndReports(t *testing.T) {
	h := newHarness(t, false)
	h.geo.Fail("cibiru", domain.ErrGeocodeUnavailable)

	h.ac.Input("cibiru")
	h.sched.Advance(time.Second)

	assert.Equal(t, Idle, h.ac.Snapshot().State)
	require.Len(t, h.errs, 1)
	assert.True(t, errors.Is(h.errs[0], domain.ErrGeocodeUnavailable))
}

func showing(t *testing.T, h *harness) {
	t.Helper()
	h.geo.Add("braga", cand("A", -6.91, 107.60), cand("B", -6.92, 107.61), cand("C", -6.93, 107.62))
	h.ac.Input("braga")
	h.sched.Advance(time.Second)
	require.Equal(t, Showing, h.ac.Snapshot().State)
}

func TestKeyNavigationClamps(t *testing.T) {
	h := newHarness(t, false)
	showing(t, h)

	assert.True(t, h.ac.KeyDown(KeyUp))
	assert.Equal(t, -1, h.ac.Snapshot().Selected)

	for i := 0; i < 5; i++ {
		h.ac.KeyDown(KeyDown)
	}
	assert.Equal(t, 2, h.ac.Snapshot().Selected)

	h.ac.KeyDown(KeyUp)
	assert.Equal(t, 1, h.ac.Snapshot().Selected)
}

func TestEnterCommitsHighlighted(t *testing.T) {
	h := newHarness(t, false)
	showing(t, h)

	assert.False(t, h.ac.KeyDown(KeyEnter), "nothing highlighted yet")
	h.ac.KeyDown(KeyDown)
	h.ac.KeyDown(KeyDown)
	assert.True(t, h.ac.KeyDown(KeyEnter))

	snap := h.ac.Snapshot()
	assert.Equal(t, Idle, snap.State)
	assert.Equal(t, "B", snap.Text)
	assert.Empty(t, snap.Candidates)
	require.Len(t, h.selected, 1)
	assert.Equal(t, "B", h.selected[0].DisplayText)
}

func TestClickCommits(t *testing.T) {
	h := newHarness(t, false)
	showing(t, h)

	assert.False(t, h.ac.Click(7))
	assert.True(t, h.ac.Click(2))
	require.Len(t, h.selected, 1)
	assert.Equal(t, "C", h.selected[0].DisplayText)
}

func TestEscapeInvalidatesInFlight(t *testing.T) {
	h := newHarness(t, true)
	h.geo.Add("braga", cand("A", -6.91, 107.60))

	h.ac.Input("braga")
	h.sched.Advance(time.Second)
	require.Equal(t, Fetching, h.ac.Snapshot().State)

	assert.True(t, h.ac.KeyDown(KeyEscape))
	require.Len(t, h.queued, 1)
	h.queued[0]()

	assert.Equal(t, Idle, h.ac.Snapshot().State)
	assert.Empty(t, h.ac.Snapshot().Candidates)
}

func TestEscapeCancelsPendingTimer(t *testing.T) {
	h := newHarness(t, false)

	h.ac.Input("braga")
	h.ac.KeyDown(KeyEscape)
	h.sched.Advance(time.Second)

	assert.Empty(t, h.geo.Calls())
	assert.Equal(t, Idle, h.ac.Snapshot().State)
}

func TestClickOutsideCollapses(t *testing.T) {
	h := newHarness(t, false)
	showing(t, h)

	h.ac.ClickOutside()
	assert.Equal(t, Idle, h.ac.Snapshot().State)
	assert.Empty(t, h.selected)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "showing", Showing.String())
	assert.Equal(t, "idle", Idle.String())
}
