package mqhandler

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	mqcontracts "pulseofproject/contracts/mq"
	"pulseofproject/internal/service/notify"
	"pulseofproject/pkg/metrics"
	"pulseofproject/pkg/mq"
	"pulseofproject/pkg/util"
)

const maxToggleRetries = 5

// DeliverableToggledHandler consumes deliverable.toggled events and writes a
// notification row for each settled toggle.
type DeliverableToggledHandler struct {
	notifier     *notify.Service
	deduper      *util.Deduper
	retryCounter *util.RetryCounter
	dlqPublisher *mq.Publisher
	logger       *zap.Logger
}

func NewDeliverableToggledHandler(
	notifier *notify.Service,
	deduper *util.Deduper,
	retryCounter *util.RetryCounter,
	dlqPublisher *mq.Publisher,
	logger *zap.Logger,
) *DeliverableToggledHandler {
	return &DeliverableToggledHandler{
		notifier:     notifier,
		deduper:      deduper,
		retryCounter: retryCounter,
		dlqPublisher: dlqPublisher,
		logger:       logger,
	}
}

func (h *DeliverableToggledHandler) HandleMessage(ctx context.Context, body json.RawMessage) (err error) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("Panic in deliverable.toggled handler", zap.Any("panic", r))
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	start := time.Now()

	var p mqcontracts.DeliverableToggledPayload
	if uerr := json.Unmarshal(body, &p); uerr != nil {
		// Malformed payloads never become valid on redelivery.
		h.logger.Error("Failed to unmarshal deliverable.toggled payload", zap.Error(uerr))
		return nil
	}

	if !h.deduper.AcquireOnce(ctx, "deliverable_toggled", p.EventID) {
		h.logger.Info("Duplicate deliverable.toggled event skipped",
			zap.String("event_id", p.EventID),
		)
		return nil
	}

	state := "unchecked"
	if p.Completed {
		state = "checked"
	}
	content := fmt.Sprintf("Deliverable %q in milestone %q was %s", p.DeliverableText, p.MilestoneName, state)

	if nerr := h.notifier.CreateNotification(ctx, p.ProjectID, "deliverable_toggled", content); nerr != nil {
		retryable, reason := util.IsRetryableError(nerr)
		if !retryable {
			h.logger.Error("Non-retryable error handling deliverable.toggled",
				zap.String("event_id", p.EventID),
				zap.String("reason", reason),
				zap.Error(nerr),
			)
			return nil
		}

		count, cerr := h.retryCounter.IncrementAndGet(ctx, util.FormatRetryKey("deliverable_toggled", p.EventID))
		if cerr != nil {
			h.logger.Warn("Failed to track retry count", zap.Error(cerr))
		}
		if !util.ShouldRetry(count, maxToggleRetries, retryable) {
			h.logger.Error("Retry budget exhausted, routing deliverable.toggled to DLQ",
				zap.String("event_id", p.EventID),
				zap.Int64("retries", count),
			)
			if derr := h.dlqPublisher.PublishToDLQ("deliverable.toggled", body, nerr.Error()); derr != nil {
				h.logger.Error("Failed to publish to DLQ", zap.Error(derr))
				return derr
			}
			return nil
		}

		h.logger.Warn("Retryable error handling deliverable.toggled, requeueing",
			zap.String("event_id", p.EventID),
			zap.Int64("retries", count),
			zap.Error(nerr),
		)
		return nerr
	}

	metrics.RecordMQConsumeLatency("deliverable.toggled", "deliverable.toggled.queue", time.Since(start))
	return nil
}
