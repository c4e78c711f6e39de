package store

import "sync"

// Subscriber receives the full state snapshot after every change.
type Subscriber func(Snapshot)

// Broker fans state snapshots out to registered subscribers. Delivery is
// synchronous and in registration order; subscribers are expected to be
// cheap, pure consumers of the latest snapshot.
type Broker struct {
	mu     sync.Mutex
	nextID uint64
	order  []uint64
	subs   map[uint64]Subscriber
}

func NewBroker() *Broker {
	return &Broker{subs: make(map[uint64]Subscriber)}
}

// Subscribe registers fn and returns its unsubscribe function. Calling
// the returned function more than once is safe.
func (b *Broker) Subscribe(fn Subscriber) (unsubscribe func()) {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = fn
	b.order = append(b.order, id)
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if _, ok := b.subs[id]; !ok {
			return
		}
		delete(b.subs, id)
		for i, other := range b.order {
			if other == id {
				b.order = append(b.order[:i], b.order[i+1:]...)
				break
			}
		}
	}
}

// Publish delivers the snapshot to every subscriber registered at the
// time of the call. Subscribers added or removed during delivery take
// effect from the next publish.
func (b *Broker) Publish(snap Snapshot) {
	b.mu.Lock()
	fns := make([]Subscriber, 0, len(b.order))
	for _, id := range b.order {
		fns = append(fns, b.subs[id])
	}
	b.mu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}

// Len returns the number of active subscriptions.
func (b *Broker) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
