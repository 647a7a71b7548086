package project

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pulseofproject/internal/model"
	"pulseofproject/internal/repository"
)

// Service owns project authoring and the composed dashboard read.
type Service struct {
	projectRepo   *repository.ProjectRepository
	milestoneRepo *repository.MilestoneRepository
	taskRepo      *repository.TaskRepository
	riskRepo      *repository.RiskRepository
	teamRepo      *repository.TeamMemberRepository
	logger        *zap.Logger
}

func NewService(
	projectRepo *repository.ProjectRepository,
	milestoneRepo *repository.MilestoneRepository,
	taskRepo *repository.TaskRepository,
	riskRepo *repository.RiskRepository,
	teamRepo *repository.TeamMemberRepository,
	logger *zap.Logger,
) *Service {
	return &Service{
		projectRepo:   projectRepo,
		milestoneRepo: milestoneRepo,
		taskRepo:      taskRepo,
		riskRepo:      riskRepo,
		teamRepo:      teamRepo,
		logger:        logger,
	}
}

// Load performs the composed dashboard read: project row plus milestones,
// tasks, risks and team in one pass. No pagination, no partial projection.
func (s *Service) Load(ctx context.Context, projectID string) (*model.ProjectSnapshot, error) {
	p, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load project %s: %w", projectID, err)
	}

	milestones, err := s.milestoneRepo.FindByProjectID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load milestones for %s: %w", projectID, err)
	}

	tasks, err := s.taskRepo.FindByProjectID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tasks for %s: %w", projectID, err)
	}

	risks, err := s.riskRepo.FindByProjectID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load risks for %s: %w", projectID, err)
	}

	team, err := s.teamRepo.FindByProjectID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load team for %s: %w", projectID, err)
	}

	return &model.ProjectSnapshot{
		Project:    *p,
		Milestones: milestones,
		Tasks:      tasks,
		Risks:      risks,
		Team:       team,
	}, nil
}

// CreateProjectInput carries the authoring payload for a new project.
type CreateProjectInput struct {
	Name        string
	Description string
	ClientName  string
	StartDate   time.Time
	EndDate     time.Time
}

func (s *Service) CreateProject(ctx context.Context, in CreateProjectInput) (*model.Project, error) {
	p := &model.Project{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Description: in.Description,
		ClientName:  in.ClientName,
		Status:      "active",
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
	}

	if err := s.projectRepo.Insert(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info("Project created",
		zap.String("id", p.ID),
		zap.String("name", p.Name),
	)
	return p, nil
}

// CreateMilestoneInput carries the authoring payload for a new milestone.
// Deliverables are created in bulk here; the toggle flow never adds or
// removes checklist items afterwards.
type CreateMilestoneInput struct {
	ProjectID    string
	Name         string
	Description  string
	Status       string
	StartDate    time.Time
	EndDate      time.Time
	Progress     int
	Deliverables []string // display labels, ids are assigned here
	AssignedTo   []string
	Dependencies []string
	Order        int
}

func (s *Service) CreateMilestone(ctx context.Context, in CreateMilestoneInput) (*model.Milestone, error) {
	deliverables := make([]model.Deliverable, 0, len(in.Deliverables))
	for _, text := range in.Deliverables {
		deliverables = append(deliverables, model.Deliverable{
			ID:        uuid.NewString(),
			Text:      text,
			Completed: false,
		})
	}

	status := in.Status
	if status == "" {
		status = model.MilestoneStatusPending
	}

	m := &model.Milestone{
		ID:           uuid.NewString(),
		ProjectID:    in.ProjectID,
		Name:         in.Name,
		Description:  in.Description,
		Status:       status,
		StartDate:    in.StartDate,
		EndDate:      in.EndDate,
		Progress:     in.Progress,
		Deliverables: deliverables,
		AssignedTo:   in.AssignedTo,
		Dependencies: in.Dependencies,
		Order:        in.Order,
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}

	if err := s.milestoneRepo.Insert(ctx, m); err != nil {
		return nil, err
	}

	s.logger.Info("Milestone created",
		zap.String("id", m.ID),
		zap.String("project_id", m.ProjectID),
		zap.Int("deliverable_count", len(m.Deliverables)),
	)
	return m, nil
}
