package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"pulseofproject/internal/model"
)

type TaskRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewTaskRepository(db *pgxpool.Pool, logger *zap.Logger) *TaskRepository {
	return &TaskRepository{db: db, logger: logger}
}

func (r *TaskRepository) Insert(ctx context.Context, t *model.Task) error {
	query := `
        INSERT INTO tasks (id, project_id, title, status, assigned_to, due_date)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING created_at
    `
	err := r.db.QueryRow(ctx, query,
		t.ID,
		t.ProjectID,
		t.Title,
		t.Status,
		t.AssignedTo,
		t.DueDate,
	).Scan(&t.CreatedAt)

	if err != nil {
		r.logger.Error("Failed to insert task", zap.Error(err))
		return err
	}
	return nil
}

func (r *TaskRepository) FindByProjectID(ctx context.Context, projectID string) ([]model.Task, error) {
	query := `
        SELECT id, project_id, title, status, assigned_to, due_date, created_at
        FROM tasks
        WHERE project_id = $1
        ORDER BY due_date ASC
    `

	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		r.logger.Error("Failed to find tasks", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		var t model.Task
		if err := rows.Scan(
			&t.ID,
			&t.ProjectID,
			&t.Title,
			&t.Status,
			&t.AssignedTo,
			&t.DueDate,
			&t.CreatedAt,
		); err != nil {
			r.logger.Error("Failed to scan task", zap.Error(err))
			return nil, err
		}
		tasks = append(tasks, t)
	}

	return tasks, rows.Err()
}
