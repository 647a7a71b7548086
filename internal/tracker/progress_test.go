package tracker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pulseofproject/internal/model"
)

func TestProjectProgressAveragesMilestoneProgress(t *testing.T) {
	snapshot := &model.ProjectSnapshot{
		Project: model.Project{ID: "p1"},
		Milestones: []model.Milestone{
			{ID: "m1", ProjectID: "p1", Status: model.MilestoneStatusCompleted, Progress: 100},
			{ID: "m2", ProjectID: "p1", Status: model.MilestoneStatusInProgress, Progress: 50},
			{ID: "m3", ProjectID: "p1", Status: model.MilestoneStatusPending, Progress: 0},
		},
	}
	loader := &fakeLoader{snapshot: snapshot}
	store := NewStore(&fakePersister{}, loader, &recordingNotifier{}, zap.NewNop())
	_, err := store.LoadProject(context.Background(), "p1")
	require.NoError(t, err)

	assert.Equal(t, 50, store.ProjectProgress("p1"))
}

func TestProjectProgressIgnoresDeliverableCompletion(t *testing.T) {
	// all deliverables done but milestone progress still says 10:
	// the aggregate follows milestone progress, not checklist state
	snapshot := &model.ProjectSnapshot{
		Project: model.Project{ID: "p1"},
		Milestones: []model.Milestone{
			{
				ID: "m1", ProjectID: "p1", Status: model.MilestoneStatusInProgress, Progress: 10,
				Deliverables: []model.Deliverable{
					{ID: "d1", Text: "done", Completed: true},
					{ID: "d2", Text: "also done", Completed: true},
				},
			},
		},
	}
	loader := &fakeLoader{snapshot: snapshot}
	store := NewStore(&fakePersister{}, loader, &recordingNotifier{}, zap.NewNop())
	_, err := store.LoadProject(context.Background(), "p1")
	require.NoError(t, err)

	assert.Equal(t, 10, store.ProjectProgress("p1"))
}

func TestProjectProgressUnknownProjectIsZero(t *testing.T) {
	store := NewStore(&fakePersister{}, &fakeLoader{}, &recordingNotifier{}, zap.NewNop())
	assert.Equal(t, 0, store.ProjectProgress("missing"))
}

func TestProjectProgressNoMilestonesIsZero(t *testing.T) {
	snapshot := &model.ProjectSnapshot{Project: model.Project{ID: "p1"}}
	loader := &fakeLoader{snapshot: snapshot}
	store := NewStore(&fakePersister{}, loader, &recordingNotifier{}, zap.NewNop())
	_, err := store.LoadProject(context.Background(), "p1")
	require.NoError(t, err)

	assert.Equal(t, 0, store.ProjectProgress("p1"))
}
