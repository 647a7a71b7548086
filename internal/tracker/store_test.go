package tracker

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pulseofproject/internal/model"
)

type fakePersister struct {
	mu      sync.Mutex
	updates []model.Milestone
	err     error
	gate    chan struct{} // when set, Update blocks until the gate closes
}

func (f *fakePersister) Update(ctx context.Context, m *model.Milestone) error {
	if f.gate != nil {
		<-f.gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, *m)
	return f.err
}

func (f *fakePersister) Updates() []model.Milestone {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Milestone, len(f.updates))
	copy(out, f.updates)
	return out
}

type fakeLoader struct {
	snapshot *model.ProjectSnapshot
	err      error
}

func (f *fakeLoader) Load(ctx context.Context, projectID string) (*model.ProjectSnapshot, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.snapshot, nil
}

type recordingNotifier struct {
	mu        sync.Mutex
	successes []model.Deliverable
	failures  []model.Deliverable
}

func (n *recordingNotifier) ToggleSucceeded(ctx context.Context, m *model.Milestone, d model.Deliverable) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.successes = append(n.successes, d)
}

func (n *recordingNotifier) ToggleFailed(ctx context.Context, m *model.Milestone, d model.Deliverable, err error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.failures = append(n.failures, d)
}

func (n *recordingNotifier) counts() (int, int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.successes), len(n.failures)
}

func testSnapshot() *model.ProjectSnapshot {
	return &model.ProjectSnapshot{
		Project: model.Project{ID: "p1", Name: "Harbor Revamp", Status: "active"},
		Milestones: []model.Milestone{
			{
				ID:        "m1",
				ProjectID: "p1",
				Name:      "Contract Phase",
				Status:    model.MilestoneStatusInProgress,
				Progress:  40,
				Deliverables: []model.Deliverable{
					{ID: "d1", Text: "Signed LOC", Completed: false},
					{ID: "d2", Text: "Advance payment", Completed: false},
				},
				AssignedTo: []string{"ana"},
				Order:      1,
			},
			{
				ID:        "m2",
				ProjectID: "p1",
				Name:      "Design Phase",
				Status:    model.MilestoneStatusPending,
				Progress:  0,
				Deliverables: []model.Deliverable{
					{ID: "d3", Text: "Wireframes", Completed: true},
				},
				Order: 2,
			},
		},
	}
}

func newTestStore(t *testing.T, persister *fakePersister, loader *fakeLoader) (*Store, *recordingNotifier) {
	t.Helper()
	notifier := &recordingNotifier{}
	if loader == nil {
		loader = &fakeLoader{snapshot: testSnapshot()}
	}
	store := NewStore(persister, loader, notifier, zap.NewNop())
	_, err := store.LoadProject(context.Background(), "p1")
	require.NoError(t, err)
	return store, notifier
}

func TestToggleFlipsTargetAndLeavesSiblingsUntouched(t *testing.T) {
	persister := &fakePersister{}
	store, _ := newTestStore(t, persister, nil)

	result := store.ToggleDeliverable(context.Background(), "m1", "d1")
	store.Wait()

	require.NotNil(t, result)
	assert.True(t, result.Deliverables[0].Completed)
	assert.Equal(t, "d1", result.Deliverables[0].ID)
	assert.Equal(t, "Signed LOC", result.Deliverables[0].Text)

	// sibling untouched
	assert.Equal(t, model.Deliverable{ID: "d2", Text: "Advance payment", Completed: false}, result.Deliverables[1])

	local := store.GetMilestone("m1")
	require.NotNil(t, local)
	assert.True(t, local.Deliverables[0].Completed)
	assert.False(t, local.Deliverables[1].Completed)
}

func TestToggleDoesNotTouchOtherMilestones(t *testing.T) {
	persister := &fakePersister{}
	store, _ := newTestStore(t, persister, nil)

	before := store.GetMilestone("m2")
	require.NotNil(t, before)

	store.ToggleDeliverable(context.Background(), "m1", "d1")
	store.Wait()

	after := store.GetMilestone("m2")
	require.NotNil(t, after)
	assert.Equal(t, *before, *after)
}

func TestDoubleToggleRestoresOriginalValue(t *testing.T) {
	persister := &fakePersister{}
	store, _ := newTestStore(t, persister, nil)

	store.ToggleDeliverable(context.Background(), "m1", "d1")
	store.Wait()
	store.ToggleDeliverable(context.Background(), "m1", "d1")
	store.Wait()

	local := store.GetMilestone("m1")
	require.NotNil(t, local)
	assert.False(t, local.Deliverables[0].Completed)

	// two writes issued, the second carrying the original value
	updates := persister.Updates()
	require.Len(t, updates, 2)
	assert.True(t, updates[0].Deliverables[0].Completed)
	assert.False(t, updates[1].Deliverables[0].Completed)
}

func TestToggleUnknownMilestoneIsNoOp(t *testing.T) {
	persister := &fakePersister{}
	store, notifier := newTestStore(t, persister, nil)

	before := store.GetProject("p1")

	result := store.ToggleDeliverable(context.Background(), "nope", "d1")
	store.Wait()

	assert.Nil(t, result)
	assert.Equal(t, before, store.GetProject("p1"))
	assert.Empty(t, persister.Updates())
	successes, failures := notifier.counts()
	assert.Zero(t, successes)
	assert.Zero(t, failures)
}

func TestToggleUnknownDeliverableIsNoOp(t *testing.T) {
	persister := &fakePersister{}
	store, _ := newTestStore(t, persister, nil)

	before := store.GetProject("p1")

	result := store.ToggleDeliverable(context.Background(), "m1", "unknown-id")
	store.Wait()

	assert.Nil(t, result)
	assert.Equal(t, before, store.GetProject("p1"))
	assert.Empty(t, persister.Updates())
}

func TestPersistCarriesFullMilestoneSnapshot(t *testing.T) {
	persister := &fakePersister{}
	store, notifier := newTestStore(t, persister, nil)

	store.ToggleDeliverable(context.Background(), "m1", "d1")
	store.Wait()

	updates := persister.Updates()
	require.Len(t, updates, 1)

	written := updates[0]
	assert.Equal(t, "m1", written.ID)
	assert.Equal(t, "p1", written.ProjectID)
	assert.Equal(t, "Contract Phase", written.Name)
	assert.Equal(t, 40, written.Progress)
	assert.Equal(t, []string{"ana"}, written.AssignedTo)
	require.Len(t, written.Deliverables, 2)
	assert.True(t, written.Deliverables[0].Completed)
	assert.False(t, written.Deliverables[1].Completed)

	successes, failures := notifier.counts()
	assert.Equal(t, 1, successes)
	assert.Zero(t, failures)
}

func TestPersistFailureRetainsOptimisticState(t *testing.T) {
	persister := &fakePersister{err: errors.New("connection refused")}
	store, notifier := newTestStore(t, persister, nil)

	store.ToggleDeliverable(context.Background(), "m1", "d1")
	store.Wait()

	// no rollback: the flipped value stays even though the write failed
	local := store.GetMilestone("m1")
	require.NotNil(t, local)
	assert.True(t, local.Deliverables[0].Completed)

	successes, failures := notifier.counts()
	assert.Zero(t, successes)
	assert.Equal(t, 1, failures)
}

func TestLoadReplacesLocalStateWholesale(t *testing.T) {
	persister := &fakePersister{}
	loader := &fakeLoader{snapshot: testSnapshot()}
	store, _ := newTestStore(t, persister, loader)

	store.ToggleDeliverable(context.Background(), "m1", "d1")
	store.Wait()

	// remote still has the pre-toggle state; reload silently reverts
	reloaded, err := store.LoadProject(context.Background(), "p1")
	require.NoError(t, err)
	assert.False(t, reloaded.Milestones[0].Deliverables[0].Completed)

	local := store.GetMilestone("m1")
	require.NotNil(t, local)
	assert.False(t, local.Deliverables[0].Completed)
}

func TestReloadRacingPersistOverwritesOptimisticFlip(t *testing.T) {
	gate := make(chan struct{})
	persister := &fakePersister{gate: gate}
	loader := &fakeLoader{snapshot: testSnapshot()}
	store, _ := newTestStore(t, persister, loader)

	// toggle applies locally, the write is stuck behind the gate
	store.ToggleDeliverable(context.Background(), "m1", "d1")
	local := store.GetMilestone("m1")
	require.NotNil(t, local)
	require.True(t, local.Deliverables[0].Completed)

	// reload lands before the write settles and clobbers the flip
	_, err := store.LoadProject(context.Background(), "p1")
	require.NoError(t, err)

	local = store.GetMilestone("m1")
	require.NotNil(t, local)
	assert.False(t, local.Deliverables[0].Completed)

	close(gate)
	store.Wait()
}

func TestLoadFailureFallsBackToLocalSnapshot(t *testing.T) {
	persister := &fakePersister{}
	loader := &fakeLoader{snapshot: testSnapshot()}
	store, _ := newTestStore(t, persister, loader)

	loader.err = errors.New("network unreachable")

	snapshot, err := store.LoadProject(context.Background(), "p1")
	require.NoError(t, err)
	require.NotNil(t, snapshot)
	assert.Equal(t, "p1", snapshot.Project.ID)
}

func TestLoadFailureWithoutLocalSnapshotReturnsError(t *testing.T) {
	persister := &fakePersister{}
	loader := &fakeLoader{err: errors.New("network unreachable")}
	notifier := &recordingNotifier{}
	store := NewStore(persister, loader, notifier, zap.NewNop())

	snapshot, err := store.LoadProject(context.Background(), "p1")
	assert.Error(t, err)
	assert.Nil(t, snapshot)
}
