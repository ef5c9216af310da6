// Package notify keeps the stack of transient operator notifications and
// expires them after a fixed time unless dismissed first.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"bot-console/internal/event"
	"bot-console/internal/model"
)

// Center owns the active notification stack. Every push is also published on
// the event bus so websocket listeners can surface it immediately; expiry and
// dismissal publish a matching removal event.
type Center struct {
	ttl time.Duration
	bus event.Bus

	mu     sync.Mutex
	active map[string]*entry
	order  []string
}

type entry struct {
	notification model.Notification
	timer        *time.Timer
}

func NewCenter(ttl time.Duration, bus event.Bus) *Center {
	if ttl <= 0 {
		ttl = 4 * time.Second
	}
	return &Center{
		ttl:    ttl,
		bus:    bus,
		active: map[string]*entry{},
	}
}

// Notify pushes a notification onto the stack and schedules its expiry.
func (c *Center) Notify(text string, severity model.Severity) {
	n := model.Notification{
		ID:        uuid.NewString(),
		Text:      text,
		Severity:  severity,
		CreatedAt: time.Now(),
	}

	c.mu.Lock()
	c.active[n.ID] = &entry{
		notification: n,
		timer: time.AfterFunc(c.ttl, func() {
			c.remove(n.ID)
		}),
	}
	c.order = append(c.order, n.ID)
	c.mu.Unlock()

	c.bus.Publish(event.New(event.TypeNotificationPushed, n))
}

// Dismiss removes a notification ahead of its expiry. Dismissing an already
// expired notification is a no-op.
func (c *Center) Dismiss(id string) {
	c.remove(id)
}

func (c *Center) remove(id string) {
	c.mu.Lock()
	e, ok := c.active[id]
	if ok {
		e.timer.Stop()
		delete(c.active, id)
		for i, oid := range c.order {
			if oid == id {
				c.order = append(c.order[:i], c.order[i+1:]...)
				break
			}
		}
	}
	c.mu.Unlock()

	if ok {
		c.bus.Publish(event.New(event.TypeNotificationExpired, map[string]string{"id": id}))
	}
}

// Active returns the live notifications oldest first.
func (c *Center) Active() []model.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]model.Notification, 0, len(c.order))
	for _, id := range c.order {
		if e, ok := c.active[id]; ok {
			out = append(out, e.notification)
		}
	}
	return out
}

// Close stops every pending expiry timer. Used on shutdown and in tests.
func (c *Center) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.active {
		e.timer.Stop()
	}
	c.active = map[string]*entry{}
	c.order = nil
}
