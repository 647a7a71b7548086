package tracker

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	mqcontracts "pulseofproject/contracts/mq"
	"pulseofproject/internal/model"
)

// EventPublisher is the slice of the MQ publisher the notifier needs.
type EventPublisher interface {
	Publish(routingKey string, payload any) error
}

// MQNotifier turns toggle settlements into MQ events. The worker consumes
// them and writes the notification rows the dashboard surfaces as toasts.
// Publish failures are logged and dropped: the toggle itself already settled
// and the notification path is fire-and-forget.
type MQNotifier struct {
	publisher EventPublisher
	logger    *zap.Logger
}

func NewMQNotifier(publisher EventPublisher, logger *zap.Logger) *MQNotifier {
	return &MQNotifier{
		publisher: publisher,
		logger:    logger,
	}
}

func (n *MQNotifier) ToggleSucceeded(ctx context.Context, m *model.Milestone, d model.Deliverable) {
	payload := mqcontracts.DeliverableToggledPayload{
		EventID:         uuid.NewString(),
		ProjectID:       m.ProjectID,
		MilestoneID:     m.ID,
		MilestoneName:   m.Name,
		DeliverableID:   d.ID,
		DeliverableText: d.Text,
		Completed:       d.Completed,
		ToggledAt:       time.Now(),
	}

	if err := n.publisher.Publish("deliverable.toggled", payload); err != nil {
		n.logger.Error("Failed to publish deliverable.toggled event",
			zap.String("milestone_id", m.ID),
			zap.String("deliverable_id", d.ID),
			zap.Error(err),
		)
	}
}

func (n *MQNotifier) ToggleFailed(ctx context.Context, m *model.Milestone, d model.Deliverable, cause error) {
	payload := mqcontracts.MilestoneSyncFailedPayload{
		EventID:         uuid.NewString(),
		ProjectID:       m.ProjectID,
		MilestoneID:     m.ID,
		MilestoneName:   m.Name,
		DeliverableID:   d.ID,
		DeliverableText: d.Text,
		Error:           fmt.Sprintf("%v", cause),
		FailedAt:        time.Now(),
	}

	if err := n.publisher.Publish("milestone.sync_failed", payload); err != nil {
		n.logger.Error("Failed to publish milestone.sync_failed event",
			zap.String("milestone_id", m.ID),
			zap.String("deliverable_id", d.ID),
			zap.Error(err),
		)
	}
}
