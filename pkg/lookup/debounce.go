// Package lookup implements search-as-you-type plumbing: the shared result
// item returned by every typeahead endpoint and a debouncer that only ever
// applies the response of the most recent query.
package lookup

import (
	"context"
	"sync"
	"time"
)

// DefaultDelay is the quiet period before a typed query is sent.
const DefaultDelay = 300 * time.Millisecond

// Item is one typeahead candidate.
type Item struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Detail string `json:"detail,omitempty"`
}

// SearchFunc performs one lookup. It must return promptly once ctx is done.
type SearchFunc[T any] func(ctx context.Context, query string) (T, error)

// Result is the outcome of a lookup that was still current when it finished.
type Result[T any] struct {
	Seq   uint64
	Query string
	Value T
	Err   error
}

// Debouncer coalesces bursts of Trigger calls into a single search.
//
// Every Trigger receives a sequence number. A pending timer from an earlier
// Trigger is stopped, an in-flight search is cancelled, and a result is only
// passed to apply when its sequence number is still the latest one. apply is
// called with the debouncer's lock held and must not call Trigger.
type Debouncer[T any] struct {
	delay  time.Duration
	search SearchFunc[T]
	apply  func(Result[T])
	base   context.Context

	mu     sync.Mutex
	seq    uint64
	timer  *time.Timer
	cancel context.CancelFunc
	closed bool
}

// NewDebouncer creates a debouncer. A non-positive delay means DefaultDelay.
func NewDebouncer[T any](ctx context.Context, delay time.Duration, search SearchFunc[T], apply func(Result[T])) *Debouncer[T] {
	if delay <= 0 {
		delay = DefaultDelay
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return &Debouncer[T]{
		delay:  delay,
		search: search,
		apply:  apply,
		base:   ctx,
	}
}

// Trigger records a new query and restarts the quiet period.
func (d *Debouncer[T]) Trigger(query string) uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return d.seq
	}
	d.supersedeLocked()
	seq := d.seq
	d.timer = time.AfterFunc(d.delay, func() { d.run(seq, query) })
	return seq
}

// Latest returns the sequence number of the most recent Trigger.
func (d *Debouncer[T]) Latest() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.seq
}

// Close cancels anything pending. Later Trigger calls are ignored.
func (d *Debouncer[T]) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.supersedeLocked()
	d.closed = true
}

func (d *Debouncer[T]) supersedeLocked() {
	d.seq++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
}

func (d *Debouncer[T]) run(seq uint64, query string) {
	d.mu.Lock()
	if seq != d.seq || d.closed {
		d.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(d.base)
	d.cancel = cancel
	d.mu.Unlock()

	value, err := d.search(ctx, query)

	d.mu.Lock()
	defer d.mu.Unlock()
	cancel()
	if seq != d.seq || d.closed {
		return
	}
	d.cancel = nil
	d.apply(Result[T]{Seq: seq, Query: query, Value: value, Err: err})
}
