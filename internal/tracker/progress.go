package tracker

// ProjectProgress returns the aggregate completion percent for a project,
// computed from milestone progress values (not from deliverable counts, which
// is how the dashboard has always derived it). Unknown project or no
// milestones yields 0.
func (s *Store) ProjectProgress(projectID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.projects[projectID]
	if snapshot == nil || len(snapshot.Milestones) == 0 {
		return 0
	}

	total := 0
	for i := range snapshot.Milestones {
		total += snapshot.Milestones[i].Progress
	}
	return total / len(snapshot.Milestones)
}
