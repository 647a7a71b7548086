package mq

import "time"

// Published through the outbox once a notification row is committed.
type NotificationCreatedPayload struct {
	NotificationID int64     `json:"notification_id"`
	ProjectID      string    `json:"project_id"`
	Type           string    `json:"type"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}
