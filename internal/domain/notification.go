package domain

import "time"

// Notification is advisory UI state: dismissible, mutable read flag, purely
// in-memory on the server side.
type Notification struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}
