package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"pulseofproject/internal/model"
)

type NotificationRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewNotificationRepository(db *pgxpool.Pool, logger *zap.Logger) *NotificationRepository {
	return &NotificationRepository{db: db, logger: logger}
}

// InsertInTx writes a notification row inside an existing transaction so it
// commits atomically with its outbox event.
func (r *NotificationRepository) InsertInTx(ctx context.Context, tx pgx.Tx, n *model.Notification) error {
	query := `
        INSERT INTO notifications (project_id, type, content)
        VALUES ($1, $2, $3)
        RETURNING id, created_at
    `
	err := tx.QueryRow(ctx, query,
		n.ProjectID,
		n.Type,
		n.Content,
	).Scan(&n.ID, &n.CreatedAt)

	if err != nil {
		r.logger.Error("Failed to insert notification", zap.Error(err))
		return err
	}
	return nil
}

func (r *NotificationRepository) FindByProjectID(ctx context.Context, projectID string, limit int) ([]model.Notification, error) {
	query := `
        SELECT id, project_id, type, content, read, created_at
        FROM notifications
        WHERE project_id = $1
        ORDER BY created_at DESC
        LIMIT $2
    `

	rows, err := r.db.Query(ctx, query, projectID, limit)
	if err != nil {
		r.logger.Error("Failed to find notifications", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var notifications []model.Notification
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(
			&n.ID,
			&n.ProjectID,
			&n.Type,
			&n.Content,
			&n.Read,
			&n.CreatedAt,
		); err != nil {
			r.logger.Error("Failed to scan notification", zap.Error(err))
			return nil, err
		}
		notifications = append(notifications, n)
	}

	return notifications, rows.Err()
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id int64) error {
	query := `UPDATE notifications SET read = TRUE WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.logger.Error("Failed to mark notification as read",
			zap.Int64("id", id),
			zap.Error(err),
		)
	}
	return err
}
