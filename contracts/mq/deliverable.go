package mq

import "time"

// Published after a toggle's persistence write succeeds.
type DeliverableToggledPayload struct {
	EventID         string    `json:"event_id"`
	ProjectID       string    `json:"project_id"`
	MilestoneID     string    `json:"milestone_id"`
	MilestoneName   string    `json:"milestone_name"`
	DeliverableID   string    `json:"deliverable_id"`
	DeliverableText string    `json:"deliverable_text"`
	Completed       bool      `json:"completed"`
	ToggledAt       time.Time `json:"toggled_at"`
}

// Published after a toggle's persistence write fails. The local optimistic
// state keeps the flipped value regardless.
type MilestoneSyncFailedPayload struct {
	EventID         string    `json:"event_id"`
	ProjectID       string    `json:"project_id"`
	MilestoneID     string    `json:"milestone_id"`
	MilestoneName   string    `json:"milestone_name"`
	DeliverableID   string    `json:"deliverable_id"`
	DeliverableText string    `json:"deliverable_text"`
	Error           string    `json:"error"`
	FailedAt        time.Time `json:"failed_at"`
}
