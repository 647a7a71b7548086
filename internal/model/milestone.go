package model

import (
	"fmt"
	"time"
)

// Milestone statuses.
const (
	MilestoneStatusPending    = "pending"
	MilestoneStatusInProgress = "in-progress"
	MilestoneStatusCompleted  = "completed"
	MilestoneStatusDelayed    = "delayed"
	MilestoneStatusBlocked    = "blocked"
)

var milestoneStatuses = map[string]bool{
	MilestoneStatusPending:    true,
	MilestoneStatusInProgress: true,
	MilestoneStatusCompleted:  true,
	MilestoneStatusDelayed:    true,
	MilestoneStatusBlocked:    true,
}

// Deliverable is a single checklist item owned by exactly one milestone.
// It has no identity outside its parent milestone's array; Completed is the
// only field that changes in the steady-state flow.
type Deliverable struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// Milestone is one phase of a project. Deliverables is stored as a JSON
// array in a single column, so all deliverable mutations are whole-array
// replaces on the milestone row.
type Milestone struct {
	ID           string        `json:"id"`
	ProjectID    string        `json:"project_id"`
	Name         string        `json:"name"`
	Description  string        `json:"description"`
	Status       string        `json:"status"`
	StartDate    time.Time     `json:"start_date"`
	EndDate      time.Time     `json:"end_date"` // expected >= StartDate, not enforced
	Progress     int           `json:"progress"` // 0-100, independent of deliverable completion
	Deliverables []Deliverable `json:"deliverables"`
	AssignedTo   []string      `json:"assigned_to"`
	Dependencies []string      `json:"dependencies"` // display only, no scheduling enforcement
	Order        int           `json:"order"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// Validate guards the structural invariants the store does not enforce.
// Called where rows are deserialized, so a bad row surfaces on load rather
// than silently flowing into the toggle path.
func (m *Milestone) Validate() error {
	if m.ID == "" {
		return fmt.Errorf("milestone missing id")
	}
	if !milestoneStatuses[m.Status] {
		return fmt.Errorf("milestone %s: unknown status %q", m.ID, m.Status)
	}
	if m.Progress < 0 || m.Progress > 100 {
		return fmt.Errorf("milestone %s: progress %d out of range", m.ID, m.Progress)
	}

	seen := make(map[string]bool, len(m.Deliverables))
	for _, d := range m.Deliverables {
		if d.ID == "" {
			return fmt.Errorf("milestone %s: deliverable missing id", m.ID)
		}
		if seen[d.ID] {
			return fmt.Errorf("milestone %s: duplicate deliverable id %q", m.ID, d.ID)
		}
		seen[d.ID] = true
	}

	return nil
}

// FindDeliverable returns the index of the deliverable with the given id,
// or -1 if absent.
func (m *Milestone) FindDeliverable(deliverableID string) int {
	for i, d := range m.Deliverables {
		if d.ID == deliverableID {
			return i
		}
	}
	return -1
}
