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

const maxSyncFailedRetries = 5

// SyncFailedHandler consumes milestone.sync_failed events. A failed persist
// leaves the optimistic state in place, so the notification is the only
// durable trace of the divergence.
type SyncFailedHandler struct {
	notifier     *notify.Service
	deduper      *util.Deduper
	retryCounter *util.RetryCounter
	dlqPublisher *mq.Publisher
	logger       *zap.Logger
}

func NewSyncFailedHandler(
	notifier *notify.Service,
	deduper *util.Deduper,
	retryCounter *util.RetryCounter,
	dlqPublisher *mq.Publisher,
	logger *zap.Logger,
) *SyncFailedHandler {
	return &SyncFailedHandler{
		notifier:     notifier,
		deduper:      deduper,
		retryCounter: retryCounter,
		dlqPublisher: dlqPublisher,
		logger:       logger,
	}
}

func (h *SyncFailedHandler) HandleMessage(ctx context.Context, body json.RawMessage) (err error) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("Panic in milestone.sync_failed handler", zap.Any("panic", r))
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	start := time.Now()

	var p mqcontracts.MilestoneSyncFailedPayload
	if uerr := json.Unmarshal(body, &p); uerr != nil {
		h.logger.Error("Failed to unmarshal milestone.sync_failed payload", zap.Error(uerr))
		return nil
	}

	if !h.deduper.AcquireOnce(ctx, "sync_failed", p.EventID) {
		h.logger.Info("Duplicate milestone.sync_failed event skipped",
			zap.String("event_id", p.EventID),
		)
		return nil
	}

	content := fmt.Sprintf("Progress for milestone %q could not be saved: %s", p.MilestoneName, p.Error)

	if nerr := h.notifier.CreateNotification(ctx, p.ProjectID, "sync_failed", content); nerr != nil {
		retryable, reason := util.IsRetryableError(nerr)
		if !retryable {
			h.logger.Error("Non-retryable error handling milestone.sync_failed",
				zap.String("event_id", p.EventID),
				zap.String("reason", reason),
				zap.Error(nerr),
			)
			return nil
		}

		count, cerr := h.retryCounter.IncrementAndGet(ctx, util.FormatRetryKey("sync_failed", p.EventID))
		if cerr != nil {
			h.logger.Warn("Failed to track retry count", zap.Error(cerr))
		}
		if !util.ShouldRetry(count, maxSyncFailedRetries, retryable) {
			h.logger.Error("Retry budget exhausted, routing milestone.sync_failed to DLQ",
				zap.String("event_id", p.EventID),
				zap.Int64("retries", count),
			)
			if derr := h.dlqPublisher.PublishToDLQ("milestone.sync_failed", body, nerr.Error()); derr != nil {
				h.logger.Error("Failed to publish to DLQ", zap.Error(derr))
				return derr
			}
			return nil
		}

		h.logger.Warn("Retryable error handling milestone.sync_failed, requeueing",
			zap.String("event_id", p.EventID),
			zap.Int64("retries", count),
			zap.Error(nerr),
		)
		return nerr
	}

	metrics.RecordMQConsumeLatency("milestone.sync_failed", "milestone.sync_failed.queue", time.Since(start))
	return nil
}
