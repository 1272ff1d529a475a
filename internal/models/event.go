package models

import "time"

// Event represents a user-visible notification recorded by the system.
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`  // e.g., "auth.login.failed", "grid.load.failed"
	Level     string    `json:"level"` // e.g., "info", "warn", "error"
	Message   string    `json:"message"`
	UserID    *string   `json:"userId,omitempty"` // Nullable for anonymous events
	CreatedAt time.Time `json:"createdAt"`
}
