// Package tracker holds the in-memory project state behind the dashboard and
// the deliverable synchronization flow: toggles apply to local state
// immediately (optimistic) and the full milestone row is written to the store
// asynchronously. A failed write is reported but never rolled back; the next
// full load silently resynchronizes. Concurrent toggles on the same milestone
// race last-write-wins at the store, as do toggles racing a reload. Both races
// are inherited from the product's design and are deliberately not resolved
// here.
package tracker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"pulseofproject/internal/model"
	"pulseofproject/pkg/logger"
	"pulseofproject/pkg/metrics"
	"pulseofproject/pkg/trace"
)

// MilestonePersister writes a full milestone snapshot to the remote store.
type MilestonePersister interface {
	Update(ctx context.Context, m *model.Milestone) error
}

// ProjectLoader performs the composed dashboard read.
type ProjectLoader interface {
	Load(ctx context.Context, projectID string) (*model.ProjectSnapshot, error)
}

// Notifier is told when a persistence attempt settles. It is the server-side
// stand-in for the UI toast.
type Notifier interface {
	ToggleSucceeded(ctx context.Context, m *model.Milestone, d model.Deliverable)
	ToggleFailed(ctx context.Context, m *model.Milestone, d model.Deliverable, err error)
}

// Store owns the in-memory collection of project snapshots. All mutations go
// through its methods; the collection is only ever replaced top-down
// (project -> milestones -> milestone -> deliverables), never edited in place,
// so readers always see either the old or the new object graph.
type Store struct {
	mu       sync.Mutex
	projects map[string]*model.ProjectSnapshot

	persister MilestonePersister
	loader    ProjectLoader
	notifier  Notifier
	logger    *zap.Logger

	inflight sync.WaitGroup
}

func NewStore(
	persister MilestonePersister,
	loader ProjectLoader,
	notifier Notifier,
	log *zap.Logger,
) *Store {
	return &Store{
		projects:  make(map[string]*model.ProjectSnapshot),
		persister: persister,
		loader:    loader,
		notifier:  notifier,
		logger:    log,
	}
}

// ToggleDeliverable flips the completed flag of one deliverable. The local
// flip is applied synchronously before this returns; the remote write runs in
// the background and settles through the Notifier. Unknown milestone or
// deliverable ids are a no-op: no state change, no write.
//
// Returns the post-toggle milestone snapshot, or nil on the no-op path.
func (s *Store) ToggleDeliverable(ctx context.Context, milestoneID, deliverableID string) *model.Milestone {
	log := logger.WithTrace(ctx, s.logger)

	s.mu.Lock()

	projectID, milestoneIdx := s.findMilestoneLocked(milestoneID)
	if milestoneIdx < 0 {
		s.mu.Unlock()
		log.Warn("Toggle ignored: milestone not in local state",
			zap.String("milestone_id", milestoneID),
			zap.String("deliverable_id", deliverableID),
		)
		metrics.IncrementToggle("not_found")
		return nil
	}

	snapshot := s.projects[projectID]
	milestone := snapshot.Milestones[milestoneIdx]

	deliverableIdx := milestone.FindDeliverable(deliverableID)
	if deliverableIdx < 0 {
		s.mu.Unlock()
		log.Warn("Toggle ignored: deliverable not in milestone",
			zap.String("milestone_id", milestoneID),
			zap.String("deliverable_id", deliverableID),
		)
		metrics.IncrementToggle("not_found")
		return nil
	}

	// Copy-on-write rebuild. Only the target deliverable is replaced;
	// siblings keep their values untouched.
	newDeliverables := make([]model.Deliverable, len(milestone.Deliverables))
	copy(newDeliverables, milestone.Deliverables)
	newDeliverables[deliverableIdx].Completed = !newDeliverables[deliverableIdx].Completed

	newMilestone := milestone
	newMilestone.Deliverables = newDeliverables

	newMilestones := make([]model.Milestone, len(snapshot.Milestones))
	copy(newMilestones, snapshot.Milestones)
	newMilestones[milestoneIdx] = newMilestone

	newSnapshot := *snapshot
	newSnapshot.Milestones = newMilestones
	s.projects[projectID] = &newSnapshot

	s.mu.Unlock()

	toggled := newDeliverables[deliverableIdx]
	log.Info("Deliverable toggled locally",
		zap.String("project_id", projectID),
		zap.String("milestone_id", milestoneID),
		zap.String("deliverable_id", deliverableID),
		zap.Bool("completed", toggled.Completed),
	)
	metrics.IncrementToggle("applied")

	// The write carries the full milestone snapshot taken at toggle time,
	// not necessarily the latest remote state. One write per toggle, no
	// debounce, no retry.
	persistCtx := trace.WithContext(context.Background(), trace.FromContext(ctx))
	persistSnapshot := newMilestone
	s.inflight.Add(1)
	go s.persist(persistCtx, &persistSnapshot, toggled)

	result := newMilestone
	return &result
}

func (s *Store) persist(ctx context.Context, m *model.Milestone, d model.Deliverable) {
	defer s.inflight.Done()

	log := logger.WithTrace(ctx, s.logger)
	start := time.Now()

	err := s.persister.Update(ctx, m)
	if err != nil {
		metrics.RecordPersistLatency("failure", time.Since(start))
		log.Error("Milestone persistence failed, optimistic state retained",
			zap.String("milestone_id", m.ID),
			zap.String("deliverable_id", d.ID),
			zap.Error(err),
		)
		s.notifier.ToggleFailed(ctx, m, d, err)
		return
	}

	metrics.RecordPersistLatency("success", time.Since(start))
	log.Info("Milestone persisted",
		zap.String("milestone_id", m.ID),
		zap.String("deliverable_id", d.ID),
	)
	s.notifier.ToggleSucceeded(ctx, m, d)
}

// LoadProject performs the composed read and replaces the local snapshot
// wholesale. There is no merge with in-flight optimistic changes: a reload
// racing an unfinished persist can overwrite the optimistic flip with stale
// remote data. On read failure the previously held snapshot is returned
// unchanged, no retry.
func (s *Store) LoadProject(ctx context.Context, projectID string) (*model.ProjectSnapshot, error) {
	log := logger.WithTrace(ctx, s.logger)

	snapshot, err := s.loader.Load(ctx, projectID)
	if err != nil {
		log.Error("Project load failed, falling back to local snapshot",
			zap.String("project_id", projectID),
			zap.Error(err),
		)
		s.mu.Lock()
		local := s.projects[projectID]
		s.mu.Unlock()
		if local == nil {
			return nil, err
		}
		return local, nil
	}

	s.mu.Lock()
	s.projects[projectID] = snapshot
	s.mu.Unlock()

	log.Info("Project state loaded",
		zap.String("project_id", projectID),
		zap.Int("milestone_count", len(snapshot.Milestones)),
		zap.Int("task_count", len(snapshot.Tasks)),
	)
	return snapshot, nil
}

// GetProject returns the locally held snapshot, if any.
func (s *Store) GetProject(projectID string) *model.ProjectSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.projects[projectID]
}

// GetMilestone returns the locally held milestone, if any.
func (s *Store) GetMilestone(milestoneID string) *model.Milestone {
	s.mu.Lock()
	defer s.mu.Unlock()

	projectID, idx := s.findMilestoneLocked(milestoneID)
	if idx < 0 {
		return nil
	}
	m := s.projects[projectID].Milestones[idx]
	return &m
}

// Wait blocks until all in-flight persistence writes settle. Used on
// shutdown so background writes are not abandoned mid-flight.
func (s *Store) Wait() {
	s.inflight.Wait()
}

// findMilestoneLocked locates a milestone by id across all held projects.
// Linear scan; collections are small (projects hold at most a few dozen
// milestones). Caller must hold s.mu.
func (s *Store) findMilestoneLocked(milestoneID string) (string, int) {
	for projectID, snapshot := range s.projects {
		for i := range snapshot.Milestones {
			if snapshot.Milestones[i].ID == milestoneID {
				return projectID, i
			}
		}
	}
	return "", -1
}
