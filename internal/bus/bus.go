// Package bus is a process-wide publish/subscribe channel for no-payload
// data-changed signals. Delivery is synchronous and best-effort: listeners
// run on the publisher's goroutine in no particular order, there is no replay
// for late subscribers.
package bus

import "sync"

type Signal string

const (
	SignalTasksUpdated          Signal = "tasksUpdated"
	SignalCalendarEventsUpdated Signal = "calendarEventsUpdated"
)

type Bus struct {
	mu     sync.Mutex
	nextID int
	subs   map[Signal]map[int]func()
}

func New() *Bus {
	return &Bus{subs: map[Signal]map[int]func(){}}
}

// Subscribe registers fn for sig and returns a cancel func. Cancelling twice
// is a no-op.
func (b *Bus) Subscribe(sig Signal, fn func()) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	if b.subs[sig] == nil {
		b.subs[sig] = map[int]func(){}
	}
	b.subs[sig][id] = fn

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs[sig], id)
	}
}

// Publish invokes every listener of sig. Listeners are snapshotted under the
// lock and invoked outside it, so a listener may subscribe or cancel without
// deadlocking.
func (b *Bus) Publish(sig Signal) {
	b.mu.Lock()
	fns := make([]func(), 0, len(b.subs[sig]))
	for _, fn := range b.subs[sig] {
		fns = append(fns, fn)
	}
	b.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
