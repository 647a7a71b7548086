package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validMilestone() Milestone {
	return Milestone{
		ID:        "m1",
		ProjectID: "p1",
		Name:      "Contract Phase",
		Status:    MilestoneStatusInProgress,
		Progress:  40,
		Deliverables: []Deliverable{
			{ID: "d1", Text: "Signed LOC"},
			{ID: "d2", Text: "Advance payment", Completed: true},
		},
	}
}

func TestValidateAcceptsWellFormedMilestone(t *testing.T) {
	m := validMilestone()
	require.NoError(t, m.Validate())
}

func TestValidateRejectsMissingID(t *testing.T) {
	m := validMilestone()
	m.ID = ""
	assert.ErrorContains(t, m.Validate(), "missing id")
}

func TestValidateRejectsUnknownStatus(t *testing.T) {
	m := validMilestone()
	m.Status = "done"
	assert.ErrorContains(t, m.Validate(), "unknown status")
}

func TestValidateRejectsProgressOutOfRange(t *testing.T) {
	for _, progress := range []int{-1, 101} {
		m := validMilestone()
		m.Progress = progress
		assert.ErrorContains(t, m.Validate(), "out of range")
	}
}

func TestValidateRejectsDuplicateDeliverableIDs(t *testing.T) {
	m := validMilestone()
	m.Deliverables = append(m.Deliverables, Deliverable{ID: "d1", Text: "dup"})
	assert.ErrorContains(t, m.Validate(), "duplicate deliverable id")
}

func TestValidateRejectsDeliverableWithoutID(t *testing.T) {
	m := validMilestone()
	m.Deliverables[0].ID = ""
	assert.ErrorContains(t, m.Validate(), "deliverable missing id")
}

func TestValidateAcceptsEmptyDeliverables(t *testing.T) {
	m := validMilestone()
	m.Deliverables = nil
	require.NoError(t, m.Validate())
}

func TestFindDeliverable(t *testing.T) {
	m := validMilestone()

	assert.Equal(t, 0, m.FindDeliverable("d1"))
	assert.Equal(t, 1, m.FindDeliverable("d2"))
	assert.Equal(t, -1, m.FindDeliverable("d3"))
}
