package schedule

import (
	"sync"
	"time"
)

// Debouncer delays a call until no new Trigger has arrived for Delay.
// Each Trigger cancels the pending call; only the last one runs.
type Debouncer struct {
	mu    sync.Mutex
	sched Scheduler
	delay time.Duration
	task  Task
	gen   uint64
}

func NewDebouncer(s Scheduler, delay time.Duration) *Debouncer {
	if s == nil {
		s = TimerScheduler{}
	}
	return &Debouncer{sched: s, delay: delay}
}

// Trigger (re)starts the timer for fn.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.task != nil {
		d.task.Cancel()
	}
	d.gen++
	gen := d.gen
	d.task = d.sched.Schedule(d.delay, func() {
		d.mu.Lock()
		if gen != d.gen {
			// A timer that already fired can race a later Trigger.
			d.mu.Unlock()
			return
		}
		d.task = nil
		d.mu.Unlock()
		fn()
	})
}

// Cancel drops the pending call, if any.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.task != nil {
		d.task.Cancel()
		d.task = nil
	}
	d.gen++
}

// Pending reports whether a call is waiting to fire.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.task != nil
}
