// Package autocomplete drives search-as-you-type address suggestions on top
// of a Geocoder. It is a small state machine:
//
//	Idle -> Debouncing -> Fetching -> Showing | Idle
//
// Every keystroke restarts the debounce timer. Each fetch takes a new
// sequence number and a completed fetch is applied only if its number is
// still current, so a slow response can never overwrite a newer one.
package autocomplete

import (
	"context"
	"storefront-delivery-service/internal/domain"
	"storefront-delivery-service/internal/platform/obs"
	"storefront-delivery-service/internal/ports"
	"storefront-delivery-service/internal/schedule"
	"strings"
	"sync"
	"time"
	"unicode/utf8"
)

type State int

const (
	Idle State = iota
	Debouncing
	Fetching
	Showing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Debouncing:
		return "debouncing"
	case Fetching:
		return "fetching"
	case Showing:
		return "showing"
	}
	return "unknown"
}

type Key int

const (
	KeyDown Key = iota
	KeyUp
	KeyEnter
	KeyEscape
)

const (
	DefaultDelay      = 500 * time.Millisecond
	DefaultMinChars   = 3
	DefaultMaxResults = 5
)

type Options struct {
	Delay      time.Duration
	MinChars   int
	MaxResults int

	// OnSelect runs after a candidate is committed.
	OnSelect func(domain.AddressCandidate)
	// OnError runs when a search fails.
	OnError func(error)
	// OnChange runs after every visible state change.
	OnChange func(Snapshot)

	// Scheduler drives the debounce timer. Defaults to real timers.
	Scheduler schedule.Scheduler
	// Async runs searches off the caller's goroutine. Defaults to go f().
	Async func(func())
}

// Snapshot is a copy of the visible autocomplete state.
type Snapshot struct {
	State      State
	Text       string
	Candidates []domain.AddressCandidate
	// Selected is the highlighted index, -1 for none.
	Selected int
}

type Autocomplete struct {
	geocoder ports.Geocoder
	opts     Options
	debounce *schedule.Debouncer

	mu         sync.Mutex
	state      State
	text       string
	candidates []domain.AddressCandidate
	selected   int
	seq        uint64
	cancel     context.CancelFunc
}

func New(geocoder ports.Geocoder, opts Options) *Autocomplete {
	if opts.Delay <= 0 {
		opts.Delay = DefaultDelay
	}
	if opts.MinChars <= 0 {
		opts.MinChars = DefaultMinChars
	}
	if opts.MaxResults <= 0 {
		opts.MaxResults = DefaultMaxResults
	}
	if opts.Scheduler == nil {
		opts.Scheduler = schedule.TimerScheduler{}
	}
	if opts.Async == nil {
		opts.Async = func(f func()) { go f() }
	}

	return &Autocomplete{
		geocoder: geocoder,
		opts:     opts,
		debounce: schedule.NewDebouncer(opts.Scheduler, opts.Delay),
		selected: -1,
	}
}

func (a *Autocomplete) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snapshotLocked()
}

func (a *Autocomplete) snapshotLocked() Snapshot {
	return Snapshot{
		State:      a.state,
		Text:       a.text,
		Candidates: append([]domain.AddressCandidate(nil), a.candidates...),
		Selected:   a.selected,
	}
}

// unlockAndNotify releases the lock and then reports the new state.
func (a *Autocomplete) unlockAndNotify() {
	snap := a.snapshotLocked()
	a.mu.Unlock()
	if a.opts.OnChange != nil {
		a.opts.OnChange(snap)
	}
}

// hideLocked collapses to Idle and invalidates any pending or in-flight
// search.
func (a *Autocomplete) hideLocked() {
	a.debounce.Cancel()
	a.seq++
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	a.state = Idle
	a.candidates = nil
	a.selected = -1
}

// Input handles a change of the address text.
func (a *Autocomplete) Input(text string) {
	a.mu.Lock()
	a.text = text

	if utf8.RuneCountInString(strings.TrimSpace(text)) < a.opts.MinChars {
		a.hideLocked()
		a.unlockAndNotify()
		return
	}

	// A search still running belongs to the previous text.
	a.seq++
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	a.state = Debouncing
	a.debounce.Trigger(a.fetch)
	a.unlockAndNotify()
}

func (a *Autocomplete) fetch() {
	a.mu.Lock()
	if a.state != Debouncing {
		a.mu.Unlock()
		return
	}
	if a.cancel != nil {
		a.cancel()
	}
	a.seq++
	seq := a.seq
	query := a.text
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	a.state = Fetching
	a.unlockAndNotify()

	a.opts.Async(func() {
		res, err := a.geocoder.Search(ctx, query, a.opts.MaxResults, a.opts.MinChars)
		a.complete(seq, res, err)
	})
}

func (a *Autocomplete) complete(seq uint64, res []domain.AddressCandidate, err error) {
	a.mu.Lock()
	if seq != a.seq {
		a.mu.Unlock()
		obs.Log().WithField("seq", seq).Debug("discarding stale suggestions")
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}

	a.selected = -1
	switch {
	case err != nil:
		a.state = Idle
		a.candidates = nil
	case len(res) == 0:
		a.state = Idle
		a.candidates = nil
	default:
		a.state = Showing
		a.candidates = res
	}
	a.unlockAndNotify()

	if err != nil && a.opts.OnError != nil {
		a.opts.OnError(err)
	}
}

// KeyDown applies a navigation key. It reports whether the key was
// consumed by the suggestion list.
func (a *Autocomplete) KeyDown(k Key) bool {
	a.mu.Lock()

	if k == KeyEscape {
		a.hideLocked()
		a.unlockAndNotify()
		return true
	}

	if a.state != Showing || len(a.candidates) == 0 {
		a.mu.Unlock()
		return false
	}

	switch k {
	case KeyDown:
		if a.selected < len(a.candidates)-1 {
			a.selected++
		}
	case KeyUp:
		if a.selected > -1 {
			a.selected--
		}
	case KeyEnter:
		if a.selected < 0 || a.selected >= len(a.candidates) {
			a.mu.Unlock()
			return false
		}
		a.commitLocked(a.selected)
		return true
	default:
		a.mu.Unlock()
		return false
	}

	a.unlockAndNotify()
	return true
}

// Click commits the candidate at index i.
func (a *Autocomplete) Click(i int) bool {
	a.mu.Lock()
	if a.state != Showing || i < 0 || i >= len(a.candidates) {
		a.mu.Unlock()
		return false
	}
	a.commitLocked(i)
	return true
}

// ClickOutside collapses the suggestion list.
func (a *Autocomplete) ClickOutside() {
	a.mu.Lock()
	if a.state == Idle {
		a.mu.Unlock()
		return
	}
	a.hideLocked()
	a.unlockAndNotify()
}

// commitLocked must be called with the lock held; it releases it.
func (a *Autocomplete) commitLocked(i int) {
	c := a.candidates[i]
	a.hideLocked()
	a.text = c.DisplayText
	a.unlockAndNotify()

	if a.opts.OnSelect != nil {
		a.opts.OnSelect(c)
	}
}
