package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"pulseofproject/internal/model"
)

type RiskRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewRiskRepository(db *pgxpool.Pool, logger *zap.Logger) *RiskRepository {
	return &RiskRepository{db: db, logger: logger}
}

func (r *RiskRepository) Insert(ctx context.Context, risk *model.Risk) error {
	query := `
        INSERT INTO risks (id, project_id, description, severity, status)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING created_at
    `
	err := r.db.QueryRow(ctx, query,
		risk.ID,
		risk.ProjectID,
		risk.Description,
		risk.Severity,
		risk.Status,
	).Scan(&risk.CreatedAt)

	if err != nil {
		r.logger.Error("Failed to insert risk", zap.Error(err))
		return err
	}
	return nil
}

func (r *RiskRepository) FindByProjectID(ctx context.Context, projectID string) ([]model.Risk, error) {
	query := `
        SELECT id, project_id, description, severity, status, created_at
        FROM risks
        WHERE project_id = $1
        ORDER BY created_at ASC
    `

	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		r.logger.Error("Failed to find risks", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var risks []model.Risk
	for rows.Next() {
		var risk model.Risk
		if err := rows.Scan(
			&risk.ID,
			&risk.ProjectID,
			&risk.Description,
			&risk.Severity,
			&risk.Status,
			&risk.CreatedAt,
		); err != nil {
			r.logger.Error("Failed to scan risk", zap.Error(err))
			return nil, err
		}
		risks = append(risks, risk)
	}

	return risks, rows.Err()
}
