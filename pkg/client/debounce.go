package client

import (
	"sync"
	"time"
)

// Timer is a scheduled callback that can be cancelled.
type Timer interface {
	Stop() bool
}

// Scheduler runs f after d. The default uses time.AfterFunc; tests supply a
// manual clock.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// pendingSend is the token for one scheduled send. Only the send that is
// still registered under its key when the timer fires runs.
type pendingSend struct {
	key   string
	timer Timer
	fn    func()
}

// Debouncer coalesces bursts of calls per key. Each key holds at most one
// pending send; a new Trigger replaces it and restarts the quiet window.
type Debouncer struct {
	mu        sync.Mutex
	scheduler Scheduler
	window    time.Duration
	pending   map[string]*pendingSend
}

// NewDebouncer creates a debouncer with the given quiet window.
func NewDebouncer(window time.Duration, scheduler Scheduler) *Debouncer {
	if scheduler == nil {
		scheduler = realScheduler{}
	}
	return &Debouncer{
		scheduler: scheduler,
		window:    window,
		pending:   make(map[string]*pendingSend),
	}
}

// Trigger schedules fn for key, cancelling whatever was pending for it.
func (d *Debouncer) Trigger(key string, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if p, ok := d.pending[key]; ok {
		p.timer.Stop()
	}

	p := &pendingSend{key: key, fn: fn}
	p.timer = d.scheduler.AfterFunc(d.window, func() { d.fire(p) })
	d.pending[key] = p
}

// fire runs p only if it is still the current send for its key.
func (d *Debouncer) fire(p *pendingSend) {
	d.mu.Lock()
	if d.pending[p.key] != p {
		d.mu.Unlock()
		return
	}
	delete(d.pending, p.key)
	d.mu.Unlock()

	p.fn()
}

// Rekey moves the pending send for from to to, keeping its deadline. A send
// already pending under to is newer and wins.
func (d *Debouncer) Rekey(from, to string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	p, ok := d.pending[from]
	if !ok {
		return
	}
	delete(d.pending, from)
	if _, taken := d.pending[to]; taken {
		p.timer.Stop()
		return
	}
	p.key = to
	d.pending[to] = p
}

// Cancel drops the pending send for key, if any.
func (d *Debouncer) Cancel(key string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if p, ok := d.pending[key]; ok {
		p.timer.Stop()
		delete(d.pending, key)
	}
}

// Pending reports whether a send is waiting for key.
func (d *Debouncer) Pending(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.pending[key]
	return ok
}

// Flush runs every pending send now, in no particular order.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	sends := make([]*pendingSend, 0, len(d.pending))
	for key, p := range d.pending {
		p.timer.Stop()
		sends = append(sends, p)
		delete(d.pending, key)
	}
	d.mu.Unlock()

	for _, p := range sends {
		p.fn()
	}
}
