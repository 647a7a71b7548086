package model

import "time"

// Notification is the server-side record behind the UI toast: one row per
// settled toggle (success or failure).
type Notification struct {
	ID        int64     `json:"id"`
	ProjectID string    `json:"project_id"`
	Type      string    `json:"type"` // deliverable_toggled / sync_failed
	Content   string    `json:"content"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}
