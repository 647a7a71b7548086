package notify

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	mqcontracts "pulseofproject/contracts/mq"
	"pulseofproject/internal/model"
	"pulseofproject/internal/repository"
	"pulseofproject/pkg/metrics"
	"pulseofproject/pkg/outbox"
)

// Service writes notification rows for settled toggles. The row and its
// notification.created outbox event commit in one transaction; the outbox
// dispatcher publishes the event afterwards.
type Service struct {
	db         *pgxpool.Pool
	repo       *repository.NotificationRepository
	outboxRepo *outbox.Repository
	logger     *zap.Logger
}

func NewService(
	db *pgxpool.Pool,
	repo *repository.NotificationRepository,
	logger *zap.Logger,
) *Service {
	return &Service{
		db:         db,
		repo:       repo,
		outboxRepo: outbox.NewRepository(db),
		logger:     logger,
	}
}

// CreateNotification records a notification and queues its created event.
func (s *Service) CreateNotification(ctx context.Context, projectID, notificationType, content string) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		s.logger.Error("Failed to begin transaction", zap.Error(err))
		return err
	}
	defer tx.Rollback(ctx)

	n := &model.Notification{
		ProjectID: projectID,
		Type:      notificationType,
		Content:   content,
	}
	if err := s.repo.InsertInTx(ctx, tx, n); err != nil {
		return err
	}

	payload := mqcontracts.NotificationCreatedPayload{
		NotificationID: n.ID,
		ProjectID:      n.ProjectID,
		Type:           n.Type,
		Content:        n.Content,
		CreatedAt:      n.CreatedAt,
	}
	aggregateID := n.ProjectID
	if err := outbox.InsertEventInTx(ctx, tx, s.outboxRepo, "notification", &aggregateID, "notification.created", payload); err != nil {
		s.logger.Error("Failed to insert notification.created to outbox", zap.Error(err))
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		s.logger.Error("Failed to commit transaction", zap.Error(err))
		return err
	}

	metrics.IncrementNotification(notificationType)
	s.logger.Info("Notification created",
		zap.Int64("notification_id", n.ID),
		zap.String("project_id", projectID),
		zap.String("type", notificationType),
	)
	return nil
}
