package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"pulseofproject/internal/model"
)

// MilestoneRepository reads and writes milestone rows. The deliverables
// checklist lives in a single JSONB column, so writes are whole-row replaces
// of all mutable milestone columns; there is no per-deliverable write path.
type MilestoneRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewMilestoneRepository(db *pgxpool.Pool, logger *zap.Logger) *MilestoneRepository {
	return &MilestoneRepository{
		db:     db,
		logger: logger,
	}
}

const milestoneColumns = `id, project_id, name, description, status, start_date, end_date,
	       progress, deliverables, assigned_to, dependencies, "order", created_at, updated_at`

func (r *MilestoneRepository) Insert(ctx context.Context, m *model.Milestone) error {
	r.logger.Debug("Inserting milestone",
		zap.String("project_id", m.ProjectID),
		zap.String("name", m.Name),
		zap.Int("order", m.Order),
		zap.Int("deliverable_count", len(m.Deliverables)),
	)

	deliverables, err := json.Marshal(m.Deliverables)
	if err != nil {
		return fmt.Errorf("failed to encode deliverables: %w", err)
	}

	query := `
        INSERT INTO milestones (id, project_id, name, description, status, start_date, end_date,
                                progress, deliverables, assigned_to, dependencies, "order")
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9::jsonb, $10, $11, $12)
        RETURNING created_at, updated_at
    `
	err = r.db.QueryRow(ctx, query,
		m.ID,
		m.ProjectID,
		m.Name,
		m.Description,
		m.Status,
		m.StartDate,
		m.EndDate,
		m.Progress,
		string(deliverables),
		m.AssignedTo,
		m.Dependencies,
		m.Order,
	).Scan(&m.CreatedAt, &m.UpdatedAt)

	if err != nil {
		r.logger.Error("Failed to insert milestone", zap.Error(err))
		return err
	}

	r.logger.Info("Milestone inserted successfully",
		zap.String("id", m.ID),
		zap.String("project_id", m.ProjectID),
	)
	return nil
}

// Update replaces all mutable milestone columns, deliverables included.
// This is the persistence half of the toggle flow: the caller submits a full
// milestone snapshot and the row ends up equal to it, last write wins.
func (r *MilestoneRepository) Update(ctx context.Context, m *model.Milestone) error {
	deliverables, err := json.Marshal(m.Deliverables)
	if err != nil {
		return fmt.Errorf("failed to encode deliverables: %w", err)
	}

	query := `
        UPDATE milestones
        SET name = $2, description = $3, status = $4, start_date = $5, end_date = $6,
            progress = $7, deliverables = $8::jsonb, assigned_to = $9, dependencies = $10,
            "order" = $11, updated_at = NOW()
        WHERE id = $1
    `
	tag, err := r.db.Exec(ctx, query,
		m.ID,
		m.Name,
		m.Description,
		m.Status,
		m.StartDate,
		m.EndDate,
		m.Progress,
		string(deliverables),
		m.AssignedTo,
		m.Dependencies,
		m.Order,
	)
	if err != nil {
		r.logger.Error("Failed to update milestone",
			zap.String("id", m.ID),
			zap.Error(err),
		)
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("milestone %s not found", m.ID)
	}

	return nil
}

func (r *MilestoneRepository) FindByID(ctx context.Context, id string) (*model.Milestone, error) {
	query := `
        SELECT ` + milestoneColumns + `
        FROM milestones
        WHERE id = $1
    `

	row := r.db.QueryRow(ctx, query, id)
	m, err := scanMilestone(row)
	if err != nil {
		r.logger.Error("Failed to find milestone",
			zap.String("id", id),
			zap.Error(err),
		)
		return nil, err
	}
	return m, nil
}

func (r *MilestoneRepository) FindByProjectID(ctx context.Context, projectID string) ([]model.Milestone, error) {
	query := `
        SELECT ` + milestoneColumns + `
        FROM milestones
        WHERE project_id = $1
        ORDER BY "order" ASC
    `

	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		r.logger.Error("Failed to find milestones", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var milestones []model.Milestone
	for rows.Next() {
		m, err := scanMilestone(rows)
		if err != nil {
			r.logger.Error("Failed to scan milestone", zap.Error(err))
			return nil, err
		}
		milestones = append(milestones, *m)
	}

	return milestones, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanMilestone deserializes a milestone row and validates the structural
// invariants the store does not enforce (duplicate deliverable ids above all).
func scanMilestone(row rowScanner) (*model.Milestone, error) {
	var m model.Milestone
	var deliverablesRaw []byte

	if err := row.Scan(
		&m.ID,
		&m.ProjectID,
		&m.Name,
		&m.Description,
		&m.Status,
		&m.StartDate,
		&m.EndDate,
		&m.Progress,
		&deliverablesRaw,
		&m.AssignedTo,
		&m.Dependencies,
		&m.Order,
		&m.CreatedAt,
		&m.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if len(deliverablesRaw) > 0 {
		if err := json.Unmarshal(deliverablesRaw, &m.Deliverables); err != nil {
			return nil, fmt.Errorf("milestone %s: failed to decode deliverables: %w", m.ID, err)
		}
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}

	return &m, nil
}
