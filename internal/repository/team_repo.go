package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"pulseofproject/internal/model"
)

type TeamMemberRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewTeamMemberRepository(db *pgxpool.Pool, logger *zap.Logger) *TeamMemberRepository {
	return &TeamMemberRepository{db: db, logger: logger}
}

func (r *TeamMemberRepository) Insert(ctx context.Context, tm *model.TeamMember) error {
	query := `
        INSERT INTO team_members (id, project_id, name, role, email)
        VALUES ($1, $2, $3, $4, $5)
    `
	_, err := r.db.Exec(ctx, query,
		tm.ID,
		tm.ProjectID,
		tm.Name,
		tm.Role,
		tm.Email,
	)
	if err != nil {
		r.logger.Error("Failed to insert team member", zap.Error(err))
		return err
	}
	return nil
}

func (r *TeamMemberRepository) FindByProjectID(ctx context.Context, projectID string) ([]model.TeamMember, error) {
	query := `
        SELECT id, project_id, name, role, email
        FROM team_members
        WHERE project_id = $1
        ORDER BY name ASC
    `

	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		r.logger.Error("Failed to find team members", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var members []model.TeamMember
	for rows.Next() {
		var tm model.TeamMember
		if err := rows.Scan(
			&tm.ID,
			&tm.ProjectID,
			&tm.Name,
			&tm.Role,
			&tm.Email,
		); err != nil {
			r.logger.Error("Failed to scan team member", zap.Error(err))
			return nil, err
		}
		members = append(members, tm)
	}

	return members, rows.Err()
}
