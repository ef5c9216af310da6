package event

import "sync"

// InMemoryBus fans events out to every subscriber. Sends never block the
// publisher; a subscriber that falls behind loses events rather than
// stalling notification delivery for everyone else.
type InMemoryBus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]chan Event
}

func NewBus() *InMemoryBus {
	return &InMemoryBus{subs: make(map[int]chan Event)}
}

func (b *InMemoryBus) Publish(e Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
		}
	}
}

// Subscribe returns a receive channel and an unsubscribe func. Unsubscribe
// closes the channel and is safe to call more than once.
func (b *InMemoryBus) Subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	ch := make(chan Event, 64)
	b.subs[id] = ch

	return ch, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if ch, ok := b.subs[id]; ok {
			close(ch)
			delete(b.subs, id)
		}
	}
}
