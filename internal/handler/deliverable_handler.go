package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pulseofproject/internal/tracker"
)

type DeliverableHandler struct {
	store  *tracker.Store
	logger *zap.Logger
}

func NewDeliverableHandler(store *tracker.Store, logger *zap.Logger) *DeliverableHandler {
	return &DeliverableHandler{store: store, logger: logger}
}

// Toggle flips a checklist item. The response carries the optimistically
// updated milestone; persistence settles in the background and a later
// failure does not revert what the caller already saw.
func (h *DeliverableHandler) Toggle(c *gin.Context) {
	milestoneID := c.Param("milestoneId")
	deliverableID := c.Param("deliverableId")

	h.logger.Info("Toggle request received",
		zap.String("milestone_id", milestoneID),
		zap.String("deliverable_id", deliverableID),
		zap.String("client_ip", c.ClientIP()),
	)

	m := h.store.ToggleDeliverable(c.Request.Context(), milestoneID, deliverableID)
	if m == nil {
		// Unknown ids are a quiet no-op in the tracker; surface 404 here.
		c.JSON(http.StatusNotFound, gin.H{"error": "milestone or deliverable not found"})
		return
	}

	c.JSON(http.StatusOK, m)
}
