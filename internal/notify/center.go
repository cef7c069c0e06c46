// Package notify holds the in-memory notification center backing the navbar
// bell. State is process-scoped with an explicit constructor so tests can run
// independent instances; nothing here persists.
package notify

import (
	"sync"
	"time"

	"farmhub-server/internal/domain"
)

// Center is a mutable set of dismissible alerts with read/unread state.
// Unknown ids are silent no-ops throughout: this is advisory UI state, not a
// data-integrity concern.
type Center struct {
	mu     sync.Mutex
	nextID int
	items  []*domain.Notification // insertion order
	now    func() time.Time
}

func NewCenter() *Center {
	return &Center{nextID: 1, now: time.Now}
}

// Add creates a notification and returns it with its assigned id.
func (c *Center) Add(title, message string) *domain.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := &domain.Notification{
		ID:        c.nextID,
		Title:     title,
		Message:   message,
		CreatedAt: c.now(),
	}
	c.nextID++
	c.items = append(c.items, n)
	return n
}

// MarkRead flags the notification read. Already-read and unknown ids are
// no-ops.
func (c *Center) MarkRead(id int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, n := range c.items {
		if n.ID == id {
			n.IsRead = true
			return
		}
	}
}

func (c *Center) MarkAllRead() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, n := range c.items {
		n.IsRead = true
	}
}

// Remove dismisses the notification. Unknown ids are no-ops.
func (c *Center) Remove(id int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, n := range c.items {
		if n.ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}

// List returns the notifications newest first.
func (c *Center) List() []*domain.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]*domain.Notification, len(c.items))
	for i, n := range c.items {
		out[len(c.items)-1-i] = n
	}
	return out
}

// UnreadCount reports how many notifications are still unread.
func (c *Center) UnreadCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	count := 0
	for _, n := range c.items {
		if !n.IsRead {
			count++
		}
	}
	return count
}
